package models

import (
	"fmt"
	"strings"
	"time"
)

// MuteStatus is empty while a mute is active and "expired" afterwards
type MuteStatus string

const (
	MuteStatusActive  MuteStatus = ""
	MuteStatusExpired MuteStatus = "expired"
)

// Infraction represents a warning, kick or ban entry
type Infraction struct {
	ID        string    `bson:"id" json:"id"`
	Reason    string    `bson:"reason" json:"reason"`
	Moderator string    `bson:"moderator,omitempty" json:"moderator,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// MuteEntry represents a single mute. ExpiresAt is absolute so the remaining
// time can be recomputed after a restart.
type MuteEntry struct {
	ID        string     `bson:"id" json:"id"`
	Reason    string     `bson:"reason" json:"reason"`
	Moderator string     `bson:"moderator,omitempty" json:"moderator,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time  `bson:"expiresAt" json:"expiresAt"`
	Status    MuteStatus `bson:"status,omitempty" json:"status,omitempty"`
}

// Active reports whether the mute has not been marked expired yet
func (m MuteEntry) Active() bool {
	return m.Status == MuteStatusActive
}

// ModerationRecord is the per (guild, member) document in the "moderation" collection
type ModerationRecord struct {
	Key      string       `bson:"_id" json:"id"`
	GuildID  string       `bson:"guildId" json:"guildId"`
	UserID   string       `bson:"userId" json:"userId"`
	Warnings []Infraction `bson:"warnings" json:"warnings"`
	Mutes    []MuteEntry  `bson:"mutes" json:"mutes"`
	Kicks    []Infraction `bson:"kicks" json:"kicks"`
	Bans     []Infraction `bson:"bans" json:"bans"`
	Version  int64        `bson:"version" json:"version"`
}

// RecordKey builds the composite document key for a guild member
func RecordKey(guildID, userID string) string {
	return guildID + "_" + userID
}

// SplitRecordKey is the inverse of RecordKey
func SplitRecordKey(key string) (guildID, userID string, err error) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid record key %q", key)
	}
	return parts[0], parts[1], nil
}

// NewModerationRecord returns an empty record for the given member
func NewModerationRecord(guildID, userID string) *ModerationRecord {
	r := &ModerationRecord{
		Key:     RecordKey(guildID, userID),
		GuildID: guildID,
		UserID:  userID,
	}
	r.Normalize()
	return r
}

// Normalize makes sure all four sequences are present
func (r *ModerationRecord) Normalize() {
	if r.Warnings == nil {
		r.Warnings = []Infraction{}
	}
	if r.Mutes == nil {
		r.Mutes = []MuteEntry{}
	}
	if r.Kicks == nil {
		r.Kicks = []Infraction{}
	}
	if r.Bans == nil {
		r.Bans = []Infraction{}
	}
	if r.Key == "" && r.GuildID != "" && r.UserID != "" {
		r.Key = RecordKey(r.GuildID, r.UserID)
	}
	if (r.GuildID == "" || r.UserID == "") && r.Key != "" {
		if g, u, err := SplitRecordKey(r.Key); err == nil {
			r.GuildID, r.UserID = g, u
		}
	}
}

// IsEmpty reports whether no action was ever recorded
func (r *ModerationRecord) IsEmpty() bool {
	return len(r.Warnings) == 0 && len(r.Mutes) == 0 && len(r.Kicks) == 0 && len(r.Bans) == 0
}

// ActiveMutes returns the entries that have no status yet
func (r *ModerationRecord) ActiveMutes() []MuteEntry {
	var active []MuteEntry
	for _, m := range r.Mutes {
		if m.Active() {
			active = append(active, m)
		}
	}
	return active
}

// Clone returns a deep copy of the record
func (r *ModerationRecord) Clone() *ModerationRecord {
	c := *r
	c.Warnings = append([]Infraction{}, r.Warnings...)
	c.Mutes = append([]MuteEntry{}, r.Mutes...)
	c.Kicks = append([]Infraction{}, r.Kicks...)
	c.Bans = append([]Infraction{}, r.Bans...)
	return &c
}
