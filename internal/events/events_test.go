package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/models"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("database not connected")

// countingStore counts full scans and can fail them
type countingStore struct {
	*moderation.MemoryStore
	scans   atomic.Int32
	offline atomic.Bool
}

func (s *countingStore) All(ctx context.Context) ([]*models.ModerationRecord, error) {
	s.scans.Add(1)
	if s.offline.Load() {
		return nil, errOffline
	}
	return s.MemoryStore.All(ctx)
}

// hookRecorder collects reconnect callbacks
type hookRecorder struct {
	hooks []func()
}

func (h *hookRecorder) OnReconnect(fn func()) {
	h.hooks = append(h.hooks, fn)
}

func newTestService(t *testing.T, store moderation.Store) (*discord.ExtendedClient, *moderation.Service) {
	t.Helper()
	client, err := discord.NewClient("test-token", discord.ClientOptions{Prefix: "!"})
	require.NoError(t, err)
	svc := moderation.NewService(moderation.ServiceConfig{
		Store:    store,
		Platform: client.Platform,
		RoleName: "Muted",
	})
	return client, svc
}

func TestReconcileRunsOnce(t *testing.T) {
	store := &countingStore{MemoryStore: moderation.NewMemoryStore()}
	_, svc := newTestService(t, store)

	r := &startupReconciler{svc: svc}
	r.run()
	assert.Equal(t, int32(0), store.scans.Load(), "nothing runs before READY")

	r.onReady()
	r.onReady()
	r.run()

	assert.Equal(t, int32(1), store.scans.Load())
}

func TestReconcileRetriesAfterFailure(t *testing.T) {
	store := &countingStore{MemoryStore: moderation.NewMemoryStore()}
	store.offline.Store(true)
	_, svc := newTestService(t, store)

	r := &startupReconciler{svc: svc}
	r.onReady()
	assert.Equal(t, int32(1), store.scans.Load())

	// database comes back
	store.offline.Store(false)
	r.run()
	assert.Equal(t, int32(2), store.scans.Load())

	r.run()
	r.onReady()
	assert.Equal(t, int32(2), store.scans.Load())
}

func TestIsBareMention(t *testing.T) {
	assert.True(t, isBareMention("<@42>", "42"))
	assert.True(t, isBareMention("  <@!42> ", "42"))
	assert.False(t, isBareMention("<@42> hello", "42"))
	assert.False(t, isBareMention("<@43>", "42"))
	assert.False(t, isBareMention("hello", "42"))
}

func TestWelcomeEmbedUsesPrefix(t *testing.T) {
	embed := welcomeEmbed("!")
	assert.Contains(t, embed.Description, "`!help`")
	assert.Contains(t, embed.Fields[0].Value, "`!mute`")
}

func TestRegisterAll(t *testing.T) {
	client, svc := newTestService(t, moderation.NewMemoryStore())

	hooks := &hookRecorder{}
	RegisterAll(client, svc, hooks)

	assert.Equal(t, 9, client.EventHandler.Count())
	assert.Len(t, hooks.hooks, 1)
}
