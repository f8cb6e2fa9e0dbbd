package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	store     *MemoryStore
	platform  *fakePlatform
	timers    *manualTimers
	publisher *recordingPublisher
	svc       *Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		store:     NewMemoryStore(),
		platform:  newFakePlatform(),
		timers:    &manualTimers{},
		publisher: &recordingPublisher{},
	}
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	f.svc = NewService(ServiceConfig{
		Store:     f.store,
		Platform:  f.platform,
		RoleName:  "Muted",
		Publisher: f.publisher,
		Options:   []SchedulerOption{WithClock(clock.Now), WithTimerFunc(f.timers.after)},
	})
	f.platform.addMember("g", "target")
	return f
}

func action(targetID string) Action {
	return Action{GuildID: "g", ActorID: "mod", TargetID: targetID, BotID: "bot"}
}

func TestGuardsRejectBeforeMutation(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	self := action("mod")
	_, err := f.svc.Warn(ctx, self)
	assert.ErrorIs(t, err, ErrSelfAction)
	self.DurationText = "10m"
	_, err = f.svc.Mute(ctx, self)
	assert.ErrorIs(t, err, ErrSelfAction)
	_, err = f.svc.Kick(ctx, self)
	assert.ErrorIs(t, err, ErrSelfAction)
	_, err = f.svc.Ban(ctx, self)
	assert.ErrorIs(t, err, ErrSelfAction)

	_, err = f.svc.Mute(ctx, Action{GuildID: "g", ActorID: "mod", TargetID: "bot", BotID: "bot", DurationText: "10m"})
	assert.ErrorIs(t, err, ErrTargetIsBot)

	_, err = f.svc.Warn(ctx, action(""))
	assert.ErrorIs(t, err, ErrMissingTarget)

	all, _ := f.store.All(ctx)
	assert.Empty(t, all)
	assert.Empty(t, f.platform.kicked)
	assert.Empty(t, f.platform.banned)
	assert.Empty(t, f.publisher.actions())
}

func TestWarnDefaultReason(t *testing.T) {
	f := newServiceFixture()
	w, err := f.svc.Warn(context.Background(), action("target"))
	require.NoError(t, err)
	assert.Equal(t, DefaultWarnReason, w.Reason)
	assert.Equal(t, "mod", w.Moderator)
	assert.Equal(t, []string{"warn"}, f.publisher.actions())
}

func TestUnwarn(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	_, err := f.svc.Unwarn(ctx, action("target"))
	assert.ErrorIs(t, err, ErrNoWarnings)

	a := action("target")
	a.Reason = "spam"
	_, err = f.svc.Warn(ctx, a)
	require.NoError(t, err)

	removed, err := f.svc.Unwarn(ctx, action("target"))
	require.NoError(t, err)
	assert.Equal(t, "spam", removed.Reason)
}

func TestMuteInvalidDuration(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	for _, text := range []string{"", "soon", "0m"} {
		a := action("target")
		a.DurationText = text
		_, err := f.svc.Mute(ctx, a)
		assert.ErrorIs(t, err, ErrInvalidDuration, text)
	}

	assert.Equal(t, 0, f.platform.createdRoles)
	all, _ := f.store.All(ctx)
	assert.Empty(t, all)
}

func TestMuteCreatesRoleRecordsAndSchedules(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	a := action("target")
	a.DurationText = "1h30m"
	entry, err := f.svc.Mute(ctx, a)
	require.NoError(t, err)

	assert.Equal(t, 1, f.platform.createdRoles)
	assert.True(t, f.platform.hasRole("g", "target", "role-g"))
	assert.Equal(t, DefaultWarnReason, entry.Reason)
	assert.Equal(t, 90*time.Minute, entry.ExpiresAt.Sub(entry.CreatedAt))
	assert.Equal(t, 1, f.svc.Scheduler().Pending())

	// second mute reuses the role
	_, err = f.svc.Mute(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 1, f.platform.createdRoles)

	rec, _ := f.svc.History(ctx, "g", "target")
	assert.Len(t, rec.ActiveMutes(), 2)

	f.timers.fireAll()
	assert.False(t, f.platform.hasRole("g", "target", "role-g"))
	rec, _ = f.svc.History(ctx, "g", "target")
	assert.Empty(t, rec.ActiveMutes())
	assert.Contains(t, f.publisher.actions(), EventExpire)
}

func TestMuteMissingMember(t *testing.T) {
	f := newServiceFixture()
	a := action("stranger")
	a.DurationText = "10m"
	_, err := f.svc.Mute(context.Background(), a)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestUnmute(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	_, err := f.svc.Unmute(ctx, action("target"))
	assert.ErrorIs(t, err, ErrNotMuted)

	a := action("target")
	a.DurationText = "10m"
	_, err = f.svc.Mute(ctx, a)
	require.NoError(t, err)

	n, err := f.svc.Unmute(ctx, action("target"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, f.platform.hasRole("g", "target", "role-g"))

	_, err = f.svc.Unmute(ctx, action("target"))
	assert.ErrorIs(t, err, ErrNotMuted)
}

func TestKickRecordsOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	f.platform.kickErr = errPlatformDown

	_, err := f.svc.Kick(ctx, action("target"))
	assert.ErrorIs(t, err, errPlatformDown)
	rec, _ := f.svc.History(ctx, "g", "target")
	assert.Empty(t, rec.Kicks)

	f.platform.kickErr = nil
	k, err := f.svc.Kick(ctx, action("target"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBanReason, k.Reason)
	rec, _ = f.svc.History(ctx, "g", "target")
	assert.Len(t, rec.Kicks, 1)
}

func TestBan(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	a := action("target")
	a.Reason = "raid"
	b, err := f.svc.Ban(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "raid", b.Reason)
	assert.Equal(t, []string{"target"}, f.platform.banned)
	assert.Equal(t, []string{"ban"}, f.publisher.actions())
}

func TestPublisherErrorDoesNotFailAction(t *testing.T) {
	f := newServiceFixture()
	f.publisher.err = errPlatformDown
	_, err := f.svc.Warn(context.Background(), action("target"))
	assert.NoError(t, err)
}

func TestActionCheck(t *testing.T) {
	assert.ErrorIs(t, Action{ActorID: "mod"}.Check(false), ErrMissingTarget)
	assert.ErrorIs(t, action("mod").Check(false), ErrSelfAction)
	assert.NoError(t, action("mod").Check(true))
	assert.ErrorIs(t, action("bot").Check(true), ErrTargetIsBot)
	assert.NoError(t, action("target").Check(false))
}

func TestUnbannedPublishesEvent(t *testing.T) {
	f := newServiceFixture()
	f.svc.Unbanned(action("target"))
	assert.Equal(t, []string{EventUnban}, f.publisher.actions())
}

func TestReapplyMuteAfterRejoin(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	_, err := f.svc.Mute(ctx, Action{GuildID: "g", ActorID: "mod", TargetID: "target", BotID: "bot", DurationText: "1h"})
	require.NoError(t, err)

	// leaving the guild drops every role
	f.platform.addMember("g", "target")
	applied, err := f.svc.ReapplyMute(ctx, "g", "target")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, f.platform.hasRole("g", "target", "role-g"))
	assert.Equal(t, 1, f.timers.count(), "existing timer is kept")
}
