// Package events provides event handlers for the bot
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	anticrash "github.com/PancyStudios/BaritoneGo/pkg/errors"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// reconcileTimeout bounds the startup pass over every stored record
const reconcileTimeout = 5 * time.Minute

// startupReconciler restores mute timers once per process. READY is sent
// again on every gateway reconnect, so a pass that succeeded is not repeated;
// one that failed (database offline) runs again on the next READY or after
// the database reconnects.
type startupReconciler struct {
	svc *moderation.Service

	mu      sync.Mutex
	ready   bool
	running bool
	done    bool
}

// onReady marks the gateway as usable and runs the pass
func (r *startupReconciler) onReady() {
	r.mu.Lock()
	r.ready = true
	r.mu.Unlock()
	r.run()
}

// run reconciles unless the gateway is not ready yet, a pass is in flight or
// one already succeeded
func (r *startupReconciler) run() {
	r.mu.Lock()
	if !r.ready || r.running || r.done {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	report, err := r.svc.Scheduler().Reconcile(ctx)

	r.mu.Lock()
	r.running = false
	r.done = err == nil
	r.mu.Unlock()

	if err != nil {
		logger.Error(fmt.Sprintf("Error restaurando mutes, se reintentará al reconectar: %v", err), "Ready")
		return
	}
	logger.Success(fmt.Sprintf("Mutes restaurados: %d registros, %d timers, %d expirados, %d roles reaplicados (%d servidores y %d miembros omitidos)",
		report.Records, report.Scheduled, report.Expired, report.Reapplied, report.SkippedGuilds, report.SkippedMembers), "Ready")
}

// ReconnectNotifier reports when the record database comes back online
type ReconnectNotifier interface {
	OnReconnect(fn func())
}

// RegisterReadyEvent registers the ready event handler. When db is not nil
// a failed reconciliation is retried after the database reconnects.
func RegisterReadyEvent(client *discord.ExtendedClient, svc *moderation.Service, db ReconnectNotifier) {
	r := &startupReconciler{svc: svc}
	prefix := client.Prefix()

	if db != nil {
		db.OnReconnect(r.run)
	}

	client.EventHandler.OnReady(func(s *discordgo.Session, ready *discordgo.Ready) {
		logger.Info(fmt.Sprintf("📊 Conectado a %d servidores", len(ready.Guilds)), "Ready")

		if err := s.UpdateGameStatus(0, prefix+"help"); err != nil {
			logger.Error(fmt.Sprintf("Error estableciendo estado: %v", err), "Ready")
		}

		anticrash.Go(r.onReady)
	})
}
