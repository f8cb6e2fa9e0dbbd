package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/models"
	"github.com/google/uuid"
)

// ActionKind names the record sequence an action is appended to
type ActionKind string

const (
	ActionWarn ActionKind = "warn"
	ActionMute ActionKind = "mute"
	ActionKick ActionKind = "kick"
	ActionBan  ActionKind = "ban"
)

// Payload carries the action details. Duration is only used for mutes.
type Payload struct {
	Reason    string
	Moderator string
	Duration  time.Duration
}

// Entry is what Record appended. Mute is set for ActionMute, Infraction otherwise.
type Entry struct {
	Kind       ActionKind
	Infraction *models.Infraction
	Mute       *models.MuteEntry
}

// Recorder appends timestamped entries to moderation records
type Recorder struct {
	store Store
	now   func() time.Time
}

// NewRecorder creates a Recorder over store. A nil clock means time.Now.
func NewRecorder(store Store, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{store: store, now: now}
}

// Record appends an entry of the given kind to the member's record.
// An empty userID or kind is a no-op and returns a zero Entry.
func (r *Recorder) Record(ctx context.Context, guildID, userID string, kind ActionKind, p Payload) (Entry, error) {
	if userID == "" || kind == "" {
		return Entry{}, nil
	}

	now := r.now()
	entry := Entry{Kind: kind}

	switch kind {
	case ActionMute:
		entry.Mute = &models.MuteEntry{
			ID:        uuid.NewString(),
			Reason:    p.Reason,
			Moderator: p.Moderator,
			CreatedAt: now,
			ExpiresAt: now.Add(p.Duration),
		}
	case ActionWarn, ActionKick, ActionBan:
		entry.Infraction = &models.Infraction{
			ID:        uuid.NewString(),
			Reason:    p.Reason,
			Moderator: p.Moderator,
			CreatedAt: now,
		}
	default:
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownAction, kind)
	}

	_, err := r.store.Update(ctx, guildID, userID, func(rec *models.ModerationRecord) error {
		switch kind {
		case ActionWarn:
			rec.Warnings = append(rec.Warnings, *entry.Infraction)
		case ActionMute:
			rec.Mutes = append(rec.Mutes, *entry.Mute)
		case ActionKick:
			rec.Kicks = append(rec.Kicks, *entry.Infraction)
		case ActionBan:
			rec.Bans = append(rec.Bans, *entry.Infraction)
		}
		return nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("recording %s for %s: %w", kind, models.RecordKey(guildID, userID), err)
	}

	return entry, nil
}

// RemoveLastWarning drops the most recent warning and returns it
func (r *Recorder) RemoveLastWarning(ctx context.Context, guildID, userID string) (models.Infraction, error) {
	var removed models.Infraction
	_, err := r.store.Update(ctx, guildID, userID, func(rec *models.ModerationRecord) error {
		if len(rec.Warnings) == 0 {
			return ErrNoWarnings
		}
		last := len(rec.Warnings) - 1
		removed = rec.Warnings[last]
		rec.Warnings = rec.Warnings[:last]
		return nil
	})
	if err != nil {
		return models.Infraction{}, err
	}
	return removed, nil
}

// History returns the member's record (empty when nothing was recorded)
func (r *Recorder) History(ctx context.Context, guildID, userID string) (*models.ModerationRecord, error) {
	return r.store.Get(ctx, guildID, userID)
}
