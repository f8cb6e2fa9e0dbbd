package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNewDatabaseOffline(t *testing.T) {
	db := NewDatabase()

	if db.Connected() {
		t.Error("new database should not be connected")
	}
	if col := db.GetCollection("moderation"); col != nil {
		t.Error("GetCollection() should be nil while offline")
	}
	if _, err := db.Ping(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Ping() error = %v, want %v", err, ErrNotConnected)
	}
	if status, ok := db.GetStatus(); ok || status == "" {
		t.Errorf("GetStatus() = %v, %v, want offline status", status, ok)
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	db := NewDatabase()
	if err := db.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if err := db.Disconnect(); err != nil {
		t.Fatalf("second Disconnect() error = %v", err)
	}
}

func TestReconnectHooks(t *testing.T) {
	db := NewDatabase()

	var calls []string
	db.OnReconnect(func() { calls = append(calls, "first") })
	db.OnReconnect(func() { panic("broken hook") })
	db.OnReconnect(func() { calls = append(calls, "last") })

	db.runReconnectHooks()
	db.runReconnectHooks()

	want := []string{"first", "last", "first", "last"}
	if len(calls) != len(want) {
		t.Fatalf("hooks ran %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestGenerateCacheKeyDeterministic(t *testing.T) {
	dm := NewDataManager[models.ModerationRecord]("moderation", NewDatabase())

	a := dm.generateCacheKey(bson.M{"_id": "g_u", "version": 2})
	b := dm.generateCacheKey(bson.M{"version": 2, "_id": "g_u"})
	if a != b {
		t.Errorf("generateCacheKey() = %v and %v, want equal", a, b)
	}
	if want := "moderation:{_id=g_u,version=2}"; a != want {
		t.Errorf("generateCacheKey() = %v, want %v", a, want)
	}
}

func TestCacheManagerEviction(t *testing.T) {
	c := newCacheManager()
	c.put("a", 1, 2)
	c.put("b", 2, 2)
	c.get("a")
	c.put("c", 3, 2)

	if _, ok := c.get("b"); ok {
		t.Error("least recently used entry should be evicted")
	}
	if v, ok := c.get("a"); !ok || v.(int) != 1 {
		t.Errorf("get(a) = %v, %v, want 1, true", v, ok)
	}
	if c.len() != 2 {
		t.Errorf("len() = %v, want 2", c.len())
	}

	c.remove("a")
	if _, ok := c.get("a"); ok {
		t.Error("removed entry still cached")
	}
}

func TestRecordStoreOffline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	db := NewDatabase()
	store := NewRecordStore(db, "moderation_offline_test")
	defer store.dm.ClearCache()

	record := models.NewModerationRecord("g", "u")
	record.Warnings = append(record.Warnings, models.Infraction{ID: "w1", Reason: "spam"})

	if err := store.Put(ctx, "g", "u", record); err != nil {
		t.Fatalf("Put() offline error = %v", err)
	}
	if db.QueueLength() != 1 {
		t.Errorf("QueueLength() = %v, want 1", db.QueueLength())
	}

	// queued writes are readable from the cache
	got, err := store.Get(ctx, "g", "u")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Reason != "spam" {
		t.Errorf("Get() warnings = %+v", got.Warnings)
	}

	_, err = store.Update(ctx, "g", "u", func(r *models.ModerationRecord) error { return nil })
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Update() offline error = %v, want %v", err, ErrNotConnected)
	}

	if _, err := store.All(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("All() offline error = %v, want %v", err, ErrNotConnected)
	}
}

func TestModerationRecordDocumentShape(t *testing.T) {
	record := models.NewModerationRecord("g", "u")
	record.Mutes = append(record.Mutes, models.MuteEntry{ID: "m1", Reason: "spam"})

	raw, err := bson.Marshal(record)
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("bson.Unmarshal() error = %v", err)
	}
	if doc["_id"] != "g_u" {
		t.Errorf("_id = %v, want g_u", doc["_id"])
	}
	for _, field := range []string{"guildId", "userId", "warnings", "mutes", "kicks", "bans", "version"} {
		if _, ok := doc[field]; !ok {
			t.Errorf("document missing field %q", field)
		}
	}

	if _, err := bson.Raw(raw).LookupErr("mutes", "0", "status"); err == nil {
		t.Error("active mute should not carry a status field")
	}
	if _, err := bson.Raw(raw).LookupErr("mutes", "0", "expiresAt"); err != nil {
		t.Errorf("mute entry missing expiresAt: %v", err)
	}
}
