// Package metrics exposes the Prometheus collectors used across the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command metrics
var (
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baritone_commands_total",
		Help: "Total number of prefix commands handled",
	}, []string{"command", "result"})

	CommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "baritone_command_duration_seconds",
		Help:    "Prefix command execution time in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"command"})
)

// Moderation metrics
var (
	ModerationActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baritone_moderation_actions_total",
		Help: "Total number of moderation actions applied",
	}, []string{"action"})

	MuteExpirationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baritone_mute_expirations_total",
		Help: "Total number of mute entries marked expired",
	}, []string{"trigger"})

	ActiveMuteTimers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "baritone_active_mute_timers",
		Help: "Number of mute expiry timers currently pending",
	})

	RecordStoreConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "baritone_record_store_conflicts_total",
		Help: "Total number of optimistic update conflicts on moderation records",
	})
)

// Expiration triggers
const (
	TriggerTimer     = "timer"
	TriggerManual    = "manual"
	TriggerReconcile = "reconcile"
)
