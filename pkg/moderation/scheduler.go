package moderation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	anticrash "github.com/PancyStudios/BaritoneGo/pkg/errors"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/metrics"
	"github.com/PancyStudios/BaritoneGo/pkg/models"
)

// TimerFunc runs fn once after d
type TimerFunc func(d time.Duration, fn func())

// expireTimeout bounds the store and platform calls made when a timer fires
const expireTimeout = 15 * time.Second

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithClock replaces time.Now
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// WithTimerFunc replaces time.AfterFunc
func WithTimerFunc(after TimerFunc) SchedulerOption {
	return func(s *Scheduler) { s.after = after }
}

// WithPublisher sends an expire event whenever a timer lifts a mute
func WithPublisher(p Publisher) SchedulerOption {
	return func(s *Scheduler) { s.publisher = p }
}

// ReconcileReport summarizes a startup reconciliation pass
type ReconcileReport struct {
	Records        int
	Scheduled      int
	Expired        int
	Reapplied      int
	SkippedGuilds  int
	SkippedMembers int
}

// Scheduler owns the expiry timers of active mutes. Each mute entry has at
// most one live timer.
type Scheduler struct {
	store     Store
	platform  Platform
	roleName  string
	now       func() time.Time
	after     TimerFunc
	publisher Publisher

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewScheduler creates a Scheduler that lifts roleName when mutes expire
func NewScheduler(store Store, platform Platform, roleName string, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		store:    store,
		platform: platform,
		roleName: roleName,
		now:      time.Now,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		pending: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pending returns the number of live timers
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Schedule arms a timer for entry. It returns false when the entry already
// owns a timer.
func (s *Scheduler) Schedule(guildID, userID string, entry models.MuteEntry) bool {
	s.mu.Lock()
	if _, ok := s.pending[entry.ID]; ok {
		s.mu.Unlock()
		return false
	}
	s.pending[entry.ID] = struct{}{}
	metrics.ActiveMuteTimers.Set(float64(len(s.pending)))
	s.mu.Unlock()

	remaining := entry.ExpiresAt.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}

	s.after(remaining, func() {
		defer anticrash.RecoverMiddleware()()
		defer s.release(entry.ID)

		ctx, cancel := context.WithTimeout(context.Background(), expireTimeout)
		defer cancel()

		expired, err := s.expire(ctx, guildID, userID, entry.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error al expirar mute %s de %s: %v", entry.ID, userID, err), "Scheduler")
			return
		}
		if !expired {
			return
		}
		metrics.MuteExpirationsTotal.WithLabelValues(metrics.TriggerTimer).Inc()
		s.publish(Event{Action: EventExpire, GuildID: guildID, TargetID: userID, EntryID: entry.ID, At: s.now()})
	})
	return true
}

func (s *Scheduler) release(entryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, entryID)
	metrics.ActiveMuteTimers.Set(float64(len(s.pending)))
}

// expire lifts the restriction for a single mute entry and marks it
// expired. The role stays while another mute is still running; statusless
// mutes already past their expiry do not count and are marked expired in the
// same write. Expiring an entry that is already expired or missing changes
// nothing. Only the entry's own timer may call it.
func (s *Scheduler) expire(ctx context.Context, guildID, userID, entryID string) (bool, error) {
	record, err := s.store.Get(ctx, guildID, userID)
	if err != nil {
		return false, fmt.Errorf("loading record: %w", err)
	}

	now := s.now()
	found, othersLive := false, false
	for _, m := range record.ActiveMutes() {
		switch {
		case m.ID == entryID:
			found = true
		case m.ExpiresAt.After(now):
			othersLive = true
		}
	}
	if !found {
		return false, nil
	}

	if !othersLive {
		if err := s.lift(guildID, userID); err != nil {
			return false, err
		}
	}

	stale := 0
	_, err = s.store.Update(ctx, guildID, userID, func(rec *models.ModerationRecord) error {
		stale = 0
		for i := range rec.Mutes {
			m := &rec.Mutes[i]
			if !m.Active() {
				continue
			}
			switch {
			case m.ID == entryID:
				m.Status = models.MuteStatusExpired
			case !m.ExpiresAt.After(now):
				m.Status = models.MuteStatusExpired
				stale++
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("marking mute %s expired: %w", entryID, err)
	}

	if stale > 0 {
		logger.Warn(fmt.Sprintf("%d mutes vencidos de %s marcados como expirados", stale, userID), "Scheduler")
	}
	logger.Info(fmt.Sprintf("Mute %s de %s en %s expirado", entryID, userID, guildID), "Scheduler")
	return true, nil
}

// Unmute removes the restriction now and marks every active mute of the
// member expired. Pending timers are left to fire as no-ops.
func (s *Scheduler) Unmute(ctx context.Context, guildID, userID string) (int, error) {
	if err := s.lift(guildID, userID); err != nil {
		return 0, err
	}

	flipped := 0
	_, err := s.store.Update(ctx, guildID, userID, func(rec *models.ModerationRecord) error {
		flipped = 0
		for i := range rec.Mutes {
			if rec.Mutes[i].Active() {
				rec.Mutes[i].Status = models.MuteStatusExpired
				flipped++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("marking mutes expired: %w", err)
	}

	metrics.MuteExpirationsTotal.WithLabelValues(metrics.TriggerManual).Add(float64(flipped))
	return flipped, nil
}

// Reapply restores the restriction role on a member that still has an
// unexpired mute, typically after they left and rejoined the guild. It
// returns true when the role was added.
func (s *Scheduler) Reapply(ctx context.Context, guildID, userID string) (bool, error) {
	record, err := s.store.Get(ctx, guildID, userID)
	if err != nil {
		return false, fmt.Errorf("loading record: %w", err)
	}

	now := s.now()
	var live []models.MuteEntry
	for _, m := range record.ActiveMutes() {
		if m.ExpiresAt.After(now) {
			live = append(live, m)
		}
	}
	if len(live) == 0 {
		return false, nil
	}

	roleID, err := s.platform.FindRole(guildID, s.roleName)
	if errors.Is(err, ErrRoleNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolving role: %w", err)
	}

	roles, err := s.platform.MemberRoles(guildID, userID)
	if err != nil {
		return false, fmt.Errorf("resolving member: %w", err)
	}

	for _, m := range live {
		s.Schedule(guildID, userID, m)
	}

	if hasRole(roles, roleID) {
		return false, nil
	}
	if err := s.platform.AddRole(guildID, userID, roleID); err != nil {
		return false, fmt.Errorf("adding role: %w", err)
	}
	return true, nil
}

// lift removes the restriction role. An unresolvable role or member counts
// as already lifted.
func (s *Scheduler) lift(guildID, userID string) error {
	roleID, err := s.platform.FindRole(guildID, s.roleName)
	if errors.Is(err, ErrRoleNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolving role: %w", err)
	}

	roles, err := s.platform.MemberRoles(guildID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolving member: %w", err)
	}
	if !hasRole(roles, roleID) {
		return nil
	}

	if err := s.platform.RemoveRole(guildID, userID, roleID); err != nil {
		return fmt.Errorf("removing role: %w", err)
	}
	return nil
}

// Reconcile walks every stored record after a restart. Mutes already past
// their expiry are marked expired; the rest get their role re-applied if
// missing and a fresh timer. Guilds without the role and members that
// cannot be resolved are skipped entirely.
func (s *Scheduler) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	records, err := s.store.All(ctx)
	if err != nil {
		return report, fmt.Errorf("listing records: %w", err)
	}
	report.Records = len(records)

	roles := make(map[string]string)
	for _, rec := range records {
		active := rec.ActiveMutes()
		if len(active) == 0 {
			continue
		}

		roleID, seen := roles[rec.GuildID]
		if !seen {
			roleID, err = s.platform.FindRole(rec.GuildID, s.roleName)
			if err != nil {
				if !errors.Is(err, ErrRoleNotFound) {
					logger.Warn(fmt.Sprintf("No se pudo resolver el rol en %s: %v", rec.GuildID, err), "Scheduler")
				}
				roleID = ""
			}
			roles[rec.GuildID] = roleID
		}
		if roleID == "" {
			report.SkippedGuilds++
			continue
		}

		memberRoles, err := s.platform.MemberRoles(rec.GuildID, rec.UserID)
		if err != nil {
			report.SkippedMembers++
			continue
		}

		now := s.now()
		expired := make(map[string]bool)
		var live []models.MuteEntry
		for _, m := range active {
			if m.ExpiresAt.After(now) {
				live = append(live, m)
			} else {
				expired[m.ID] = true
			}
		}

		if len(live) > 0 && !hasRole(memberRoles, roleID) {
			if err := s.platform.AddRole(rec.GuildID, rec.UserID, roleID); err != nil {
				logger.Warn(fmt.Sprintf("No se pudo reaplicar el mute a %s: %v", rec.UserID, err), "Scheduler")
			} else {
				report.Reapplied++
			}
		}

		for _, m := range live {
			if s.Schedule(rec.GuildID, rec.UserID, m) {
				report.Scheduled++
			}
		}

		if len(expired) == 0 {
			continue
		}
		_, err = s.store.Update(ctx, rec.GuildID, rec.UserID, func(r *models.ModerationRecord) error {
			for i := range r.Mutes {
				if expired[r.Mutes[i].ID] {
					r.Mutes[i].Status = models.MuteStatusExpired
				}
			}
			return nil
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error al marcar mutes expirados de %s: %v", rec.Key, err), "Scheduler")
			continue
		}
		report.Expired += len(expired)
		metrics.MuteExpirationsTotal.WithLabelValues(metrics.TriggerReconcile).Add(float64(len(expired)))
	}

	return report, nil
}

func (s *Scheduler) publish(event Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(event); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo publicar evento %s: %v", event.Action, err), "Scheduler")
	}
}
