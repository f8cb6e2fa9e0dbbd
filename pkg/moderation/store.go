package moderation

import (
	"context"
	"sort"
	"sync"

	"github.com/PancyStudios/BaritoneGo/pkg/models"
)

// UpdateFunc mutates a record in place. Returning an error aborts the update
// and nothing is persisted.
type UpdateFunc func(record *models.ModerationRecord) error

// Store persists one ModerationRecord per (guild, member) pair.
type Store interface {
	// Get returns the stored record, or a fresh empty record when none exists.
	Get(ctx context.Context, guildID, userID string) (*models.ModerationRecord, error)
	// Put overwrites the whole record.
	Put(ctx context.Context, guildID, userID string, record *models.ModerationRecord) error
	// Update applies fn atomically and returns the persisted result.
	Update(ctx context.Context, guildID, userID string, fn UpdateFunc) (*models.ModerationRecord, error)
	// All returns every persisted record.
	All(ctx context.Context) ([]*models.ModerationRecord, error)
}

// MemoryStore is an in-process Store. Records are cloned on the way in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.ModerationRecord
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.ModerationRecord)}
}

// Get returns a copy of the record or an empty one
func (s *MemoryStore) Get(_ context.Context, guildID, userID string) (*models.ModerationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.records[models.RecordKey(guildID, userID)]; ok {
		return r.Clone(), nil
	}
	return models.NewModerationRecord(guildID, userID), nil
}

// Put replaces the record
func (s *MemoryStore) Put(_ context.Context, guildID, userID string, record *models.ModerationRecord) error {
	c := record.Clone()
	c.Key, c.GuildID, c.UserID = models.RecordKey(guildID, userID), guildID, userID
	c.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[c.Key] = c
	return nil
}

// Update runs fn under the store lock
func (s *MemoryStore) Update(_ context.Context, guildID, userID string, fn UpdateFunc) (*models.ModerationRecord, error) {
	key := models.RecordKey(guildID, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	var working *models.ModerationRecord
	if r, ok := s.records[key]; ok {
		working = r.Clone()
	} else {
		working = models.NewModerationRecord(guildID, userID)
	}

	if err := fn(working); err != nil {
		return nil, err
	}
	working.Normalize()
	working.Version++
	s.records[key] = working
	return working.Clone(), nil
}

// All returns copies of every record ordered by key
func (s *MemoryStore) All(_ context.Context) ([]*models.ModerationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ModerationRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
