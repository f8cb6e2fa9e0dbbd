package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/duration"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/metrics"
	"github.com/PancyStudios/BaritoneGo/pkg/models"
)

// Default reasons used when the moderator gives none
const (
	DefaultWarnReason = "No reason provided"
	DefaultBanReason  = "No reason"
)

// Action describes a moderation command invocation
type Action struct {
	GuildID      string
	ActorID      string
	TargetID     string
	BotID        string
	Reason       string
	DurationText string
}

// Service applies moderation actions: platform side effects, record
// persistence, expiry scheduling and event publication.
type Service struct {
	store     Store
	recorder  *Recorder
	scheduler *Scheduler
	platform  Platform
	roleName  string
	publisher Publisher
	now       func() time.Time
}

// ServiceConfig groups the Service collaborators
type ServiceConfig struct {
	Store     Store
	Platform  Platform
	RoleName  string
	Publisher Publisher
	// Options are passed to the Scheduler; WithClock also drives the Recorder.
	Options []SchedulerOption
}

// NewService wires a Recorder and Scheduler over the same store
func NewService(cfg ServiceConfig) *Service {
	opts := cfg.Options
	if cfg.Publisher != nil {
		opts = append([]SchedulerOption{WithPublisher(cfg.Publisher)}, opts...)
	}
	scheduler := NewScheduler(cfg.Store, cfg.Platform, cfg.RoleName, opts...)

	return &Service{
		store:     cfg.Store,
		recorder:  NewRecorder(cfg.Store, scheduler.now),
		scheduler: scheduler,
		platform:  cfg.Platform,
		roleName:  cfg.RoleName,
		publisher: cfg.Publisher,
		now:       scheduler.now,
	}
}

// Scheduler returns the mute timer scheduler
func (s *Service) Scheduler() *Scheduler {
	return s.scheduler
}

// Store returns the underlying record store
func (s *Service) Store() Store {
	return s.store
}

// Check rejects a missing target, acting on oneself (unless allowSelf) and
// acting on the bot. Every Service operation runs it before any mutation.
func (a Action) Check(allowSelf bool) error {
	if a.TargetID == "" {
		return ErrMissingTarget
	}
	if !allowSelf && a.TargetID == a.ActorID {
		return ErrSelfAction
	}
	if a.BotID != "" && a.TargetID == a.BotID {
		return ErrTargetIsBot
	}
	return nil
}

func reasonOr(reason, fallback string) string {
	if reason == "" {
		return fallback
	}
	return reason
}

// Warn records a warning
func (s *Service) Warn(ctx context.Context, a Action) (models.Infraction, error) {
	if err := a.Check(false); err != nil {
		return models.Infraction{}, err
	}

	entry, err := s.recorder.Record(ctx, a.GuildID, a.TargetID, ActionWarn, Payload{
		Reason:    reasonOr(a.Reason, DefaultWarnReason),
		Moderator: a.ActorID,
	})
	if err != nil {
		return models.Infraction{}, err
	}

	s.publish(Event{Action: string(ActionWarn), GuildID: a.GuildID, TargetID: a.TargetID, ActorID: a.ActorID, Reason: entry.Infraction.Reason, EntryID: entry.Infraction.ID})
	return *entry.Infraction, nil
}

// Unwarn removes the member's most recent warning
func (s *Service) Unwarn(ctx context.Context, a Action) (models.Infraction, error) {
	if err := a.Check(true); err != nil {
		return models.Infraction{}, err
	}

	removed, err := s.recorder.RemoveLastWarning(ctx, a.GuildID, a.TargetID)
	if err != nil {
		return models.Infraction{}, err
	}

	s.publish(Event{Action: EventUnwarn, GuildID: a.GuildID, TargetID: a.TargetID, ActorID: a.ActorID, EntryID: removed.ID})
	return removed, nil
}

// Mute applies the restriction role, records the mute and arms its timer
func (s *Service) Mute(ctx context.Context, a Action) (models.MuteEntry, error) {
	if err := a.Check(false); err != nil {
		return models.MuteEntry{}, err
	}

	d, ok := duration.Parse(a.DurationText)
	if !ok {
		return models.MuteEntry{}, fmt.Errorf("%w: %q", ErrInvalidDuration, a.DurationText)
	}

	roleID, err := s.ensureRole(a.GuildID)
	if err != nil {
		return models.MuteEntry{}, err
	}

	roles, err := s.platform.MemberRoles(a.GuildID, a.TargetID)
	if err != nil {
		return models.MuteEntry{}, err
	}
	if !hasRole(roles, roleID) {
		if err := s.platform.AddRole(a.GuildID, a.TargetID, roleID); err != nil {
			return models.MuteEntry{}, fmt.Errorf("adding restriction role: %w", err)
		}
	}

	entry, err := s.recorder.Record(ctx, a.GuildID, a.TargetID, ActionMute, Payload{
		Reason:    reasonOr(a.Reason, DefaultWarnReason),
		Moderator: a.ActorID,
		Duration:  d,
	})
	if err != nil {
		return models.MuteEntry{}, err
	}

	s.scheduler.Schedule(a.GuildID, a.TargetID, *entry.Mute)

	expires := entry.Mute.ExpiresAt
	s.publish(Event{Action: string(ActionMute), GuildID: a.GuildID, TargetID: a.TargetID, ActorID: a.ActorID, Reason: entry.Mute.Reason, EntryID: entry.Mute.ID, ExpiresAt: &expires})
	return *entry.Mute, nil
}

// Unmute lifts the restriction and expires every active mute. It returns
// ErrNotMuted when the member does not carry the role.
func (s *Service) Unmute(ctx context.Context, a Action) (int, error) {
	if err := a.Check(true); err != nil {
		return 0, err
	}

	roleID, err := s.platform.FindRole(a.GuildID, s.roleName)
	if errors.Is(err, ErrRoleNotFound) {
		return 0, ErrNotMuted
	}
	if err != nil {
		return 0, err
	}

	roles, err := s.platform.MemberRoles(a.GuildID, a.TargetID)
	if err != nil {
		return 0, err
	}
	if !hasRole(roles, roleID) {
		return 0, ErrNotMuted
	}

	flipped, err := s.scheduler.Unmute(ctx, a.GuildID, a.TargetID)
	if err != nil {
		return 0, err
	}

	s.publish(Event{Action: EventUnmute, GuildID: a.GuildID, TargetID: a.TargetID, ActorID: a.ActorID})
	return flipped, nil
}

// Kick removes the member from the guild and records it on success
func (s *Service) Kick(ctx context.Context, a Action) (models.Infraction, error) {
	return s.remove(ctx, a, ActionKick, s.platform.Kick)
}

// Ban bans the member and records it on success
func (s *Service) Ban(ctx context.Context, a Action) (models.Infraction, error) {
	return s.remove(ctx, a, ActionBan, s.platform.Ban)
}

func (s *Service) remove(ctx context.Context, a Action, kind ActionKind, apply func(guildID, userID, reason string) error) (models.Infraction, error) {
	if err := a.Check(false); err != nil {
		return models.Infraction{}, err
	}

	reason := reasonOr(a.Reason, DefaultBanReason)
	if err := apply(a.GuildID, a.TargetID, reason); err != nil {
		return models.Infraction{}, fmt.Errorf("%s failed: %w", kind, err)
	}

	entry, err := s.recorder.Record(ctx, a.GuildID, a.TargetID, kind, Payload{Reason: reason, Moderator: a.ActorID})
	if err != nil {
		return models.Infraction{}, err
	}

	s.publish(Event{Action: string(kind), GuildID: a.GuildID, TargetID: a.TargetID, ActorID: a.ActorID, Reason: reason, EntryID: entry.Infraction.ID})
	return *entry.Infraction, nil
}

// ReapplyMute re-applies the restriction role to a returning member whose
// mute has not run out yet
func (s *Service) ReapplyMute(ctx context.Context, guildID, userID string) (bool, error) {
	return s.scheduler.Reapply(ctx, guildID, userID)
}

// Unbanned publishes an unban performed by the command layer. Unbans are not
// part of the record.
func (s *Service) Unbanned(a Action) {
	s.publish(Event{Action: EventUnban, GuildID: a.GuildID, TargetID: a.TargetID, ActorID: a.ActorID})
}

// History returns the member's moderation record
func (s *Service) History(ctx context.Context, guildID, userID string) (*models.ModerationRecord, error) {
	return s.recorder.History(ctx, guildID, userID)
}

func (s *Service) ensureRole(guildID string) (string, error) {
	roleID, err := s.platform.FindRole(guildID, s.roleName)
	if err == nil {
		return roleID, nil
	}
	if !errors.Is(err, ErrRoleNotFound) {
		return "", err
	}

	roleID, err = s.platform.CreateMutedRole(guildID, s.roleName)
	if err != nil {
		return "", fmt.Errorf("creating restriction role: %w", err)
	}
	logger.Info(fmt.Sprintf("Rol %s creado en %s", s.roleName, guildID), "Moderation")
	return roleID, nil
}

func (s *Service) publish(event Event) {
	metrics.ModerationActionsTotal.WithLabelValues(event.Action).Inc()

	if s.publisher == nil {
		return
	}
	if event.At.IsZero() {
		event.At = s.now()
	}
	if err := s.publisher.PublishEvent(event); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo publicar evento %s: %v", event.Action, err), "Moderation")
	}
}
