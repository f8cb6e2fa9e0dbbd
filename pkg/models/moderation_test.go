package models

import (
	"testing"
	"time"
)

func TestRecordKey(t *testing.T) {
	key := RecordKey("123", "456")
	if key != "123_456" {
		t.Errorf("RecordKey() = %v, want %v", key, "123_456")
	}

	g, u, err := SplitRecordKey(key)
	if err != nil {
		t.Fatalf("SplitRecordKey() error = %v", err)
	}
	if g != "123" || u != "456" {
		t.Errorf("SplitRecordKey() = %v, %v, want 123, 456", g, u)
	}
}

func TestSplitRecordKeyInvalid(t *testing.T) {
	for _, key := range []string{"", "nounderscore", "_456", "123_"} {
		if _, _, err := SplitRecordKey(key); err == nil {
			t.Errorf("SplitRecordKey(%q) expected error", key)
		}
	}
}

func TestNewModerationRecordIsEmpty(t *testing.T) {
	r := NewModerationRecord("g", "u")
	if !r.IsEmpty() {
		t.Error("new record should be empty")
	}
	if r.Warnings == nil || r.Mutes == nil || r.Kicks == nil || r.Bans == nil {
		t.Error("new record should have non-nil sequences")
	}
	if r.Key != "g_u" {
		t.Errorf("Key = %v, want %v", r.Key, "g_u")
	}
}

func TestNormalizeFillsIdentity(t *testing.T) {
	r := &ModerationRecord{Key: "g_u"}
	r.Normalize()
	if r.GuildID != "g" || r.UserID != "u" {
		t.Errorf("Normalize() ids = %v, %v, want g, u", r.GuildID, r.UserID)
	}

	r = &ModerationRecord{GuildID: "g", UserID: "u"}
	r.Normalize()
	if r.Key != "g_u" {
		t.Errorf("Normalize() key = %v, want g_u", r.Key)
	}
}

func TestActiveMutes(t *testing.T) {
	now := time.Now()
	r := NewModerationRecord("g", "u")
	r.Mutes = []MuteEntry{
		{ID: "1", ExpiresAt: now, Status: MuteStatusExpired},
		{ID: "2", ExpiresAt: now.Add(time.Hour)},
		{ID: "3", ExpiresAt: now.Add(2 * time.Hour)},
	}

	active := r.ActiveMutes()
	if len(active) != 2 {
		t.Fatalf("ActiveMutes() len = %v, want 2", len(active))
	}
	if active[0].ID != "2" || active[1].ID != "3" {
		t.Errorf("ActiveMutes() ids = %v, %v", active[0].ID, active[1].ID)
	}
}

func TestCloneIsDeep(t *testing.T) {
	r := NewModerationRecord("g", "u")
	r.Warnings = append(r.Warnings, Infraction{ID: "w1", Reason: "spam"})
	r.Mutes = append(r.Mutes, MuteEntry{ID: "m1"})

	c := r.Clone()
	c.Warnings[0].Reason = "changed"
	c.Mutes[0].Status = MuteStatusExpired

	if r.Warnings[0].Reason != "spam" {
		t.Error("Clone() shares warnings with original")
	}
	if !r.Mutes[0].Active() {
		t.Error("Clone() shares mutes with original")
	}
}
