package moderation

import "time"

// Platform is the chat-platform surface the moderation core needs.
// Implementations return ErrRoleNotFound / ErrMemberNotFound when the
// role or member cannot be resolved.
type Platform interface {
	FindRole(guildID, name string) (string, error)
	// CreateMutedRole creates the restriction role and denies sending
	// messages and adding reactions in every channel of the guild.
	CreateMutedRole(guildID, name string) (string, error)
	MemberRoles(guildID, userID string) ([]string, error)
	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
	Kick(guildID, userID, reason string) error
	Ban(guildID, userID, reason string) error
}

// Event is published after every applied moderation action
type Event struct {
	Action    string     `json:"action"`
	GuildID   string     `json:"guildId"`
	TargetID  string     `json:"targetId"`
	ActorID   string     `json:"actorId,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	EntryID   string     `json:"entryId,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	At        time.Time  `json:"at"`
}

// Publisher receives moderation events (MQTT in production)
type Publisher interface {
	PublishEvent(event Event) error
}

// Event actions beyond the recorded kinds
const (
	EventUnwarn = "unwarn"
	EventUnmute = "unmute"
	EventExpire = "expire"
	EventUnban  = "unban"
)

func hasRole(roles []string, roleID string) bool {
	for _, r := range roles {
		if r == roleID {
			return true
		}
	}
	return false
}
