package database

import (
	"context"
	"fmt"

	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/metrics"
	"github.com/PancyStudios/BaritoneGo/pkg/models"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"go.mongodb.org/mongo-driver/bson"
)

// maxUpdateAttempts bounds the optimistic retry loop of RecordStore.Update
const maxUpdateAttempts = 5

// RecordStore implements moderation.Store on top of a DataManager. Each
// record is one document keyed by "<guildId>_<userId>".
type RecordStore struct {
	dm *DataManager[models.ModerationRecord]
}

var _ moderation.Store = (*RecordStore)(nil)

// NewRecordStore creates a RecordStore over the given collection
func NewRecordStore(db *Database, collectionName string) *RecordStore {
	dm := NewDataManager[models.ModerationRecord](collectionName, db)
	dm.PrimeCache()
	return &RecordStore{dm: dm}
}

func recordQuery(guildID, userID string) bson.M {
	return bson.M{"_id": models.RecordKey(guildID, userID)}
}

// Get returns the member's record, or an empty one when none is stored
func (s *RecordStore) Get(ctx context.Context, guildID, userID string) (*models.ModerationRecord, error) {
	found, err := s.dm.Get(ctx, recordQuery(guildID, userID))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", models.RecordKey(guildID, userID), err)
	}
	if found == nil {
		return models.NewModerationRecord(guildID, userID), nil
	}

	record := found.Clone()
	record.Normalize()
	return record, nil
}

// Put overwrites the member's whole record
func (s *RecordStore) Put(ctx context.Context, guildID, userID string, record *models.ModerationRecord) error {
	doc := record.Clone()
	doc.Key, doc.GuildID, doc.UserID = models.RecordKey(guildID, userID), guildID, userID
	doc.Normalize()

	if err := s.dm.Replace(ctx, recordQuery(guildID, userID), doc); err != nil {
		return fmt.Errorf("writing %s: %w", doc.Key, err)
	}
	return nil
}

// Update applies fn with a compare-and-swap on the version field, retrying
// on concurrent modification. Offline updates fail with ErrNotConnected.
func (s *RecordStore) Update(ctx context.Context, guildID, userID string, fn moderation.UpdateFunc) (*models.ModerationRecord, error) {
	query := recordQuery(guildID, userID)
	key := models.RecordKey(guildID, userID)

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		current, err := s.dm.Fetch(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}

		var working *models.ModerationRecord
		if current == nil {
			working = models.NewModerationRecord(guildID, userID)
		} else {
			working = current.Clone()
			working.Normalize()
		}
		expected := working.Version

		if err := fn(working); err != nil {
			return nil, err
		}
		working.Key, working.GuildID, working.UserID = key, guildID, userID
		working.Normalize()
		working.Version = expected + 1

		swapped, err := s.dm.CompareAndSwap(ctx, query, expected, working)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", key, err)
		}
		if swapped {
			return working.Clone(), nil
		}

		metrics.RecordStoreConflictsTotal.Inc()
		logger.Debug(fmt.Sprintf("Conflicto de versión en %s (intento %d)", key, attempt), "RecordStore")
	}

	return nil, fmt.Errorf("updating %s: %w", key, moderation.ErrConflict)
}

// All returns every stored record
func (s *RecordStore) All(ctx context.Context) ([]*models.ModerationRecord, error) {
	docs, err := s.dm.GetAll(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dm.Name(), err)
	}

	records := make([]*models.ModerationRecord, 0, len(docs))
	for _, d := range docs {
		d.Normalize()
		records = append(records, d)
	}
	return records, nil
}
