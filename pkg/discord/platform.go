package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// mutedDeny is denied to the restriction role in every channel
const mutedDeny = discordgo.PermissionSendMessages | discordgo.PermissionAddReactions

// Platform implements moderation.Platform over a discordgo session
type Platform struct {
	session *discordgo.Session
}

var _ moderation.Platform = (*Platform)(nil)

// NewPlatform creates a Platform
func NewPlatform(s *discordgo.Session) *Platform {
	return &Platform{session: s}
}

// isNotFound reports whether err is a Discord 404 / unknown entity error
func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return true
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownRole,
			discordgo.ErrCodeUnknownUser, discordgo.ErrCodeUnknownBan:
			return true
		}
	}
	return false
}

func (p *Platform) guildRoles(guildID string) ([]*discordgo.Role, error) {
	if guild, err := p.session.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		return guild.Roles, nil
	}
	return p.session.GuildRoles(guildID)
}

// FindRole looks a role up by name (case-sensitive, first match)
func (p *Platform) FindRole(guildID, name string) (string, error) {
	roles, err := p.guildRoles(guildID)
	if err != nil {
		return "", fmt.Errorf("listing roles of %s: %w", guildID, err)
	}
	for _, r := range roles {
		if r.Name == name {
			return r.ID, nil
		}
	}
	return "", moderation.ErrRoleNotFound
}

// CreateMutedRole creates a permissionless role and denies SendMessages and
// AddReactions to it in every channel. Channel overwrite failures are logged
// and skipped.
func (p *Platform) CreateMutedRole(guildID, name string) (string, error) {
	var none int64
	role, err := p.session.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        name,
		Permissions: &none,
	})
	if err != nil {
		return "", fmt.Errorf("creating role %s: %w", name, err)
	}

	channels, err := p.session.GuildChannels(guildID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudieron listar canales de %s: %v", guildID, err), "Platform")
		return role.ID, nil
	}

	for _, ch := range channels {
		err := p.session.ChannelPermissionSet(ch.ID, role.ID, discordgo.PermissionOverwriteTypeRole, 0, mutedDeny)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudo configurar %s en #%s: %v", name, ch.Name, err), "Platform")
		}
	}

	logger.Info(fmt.Sprintf("Rol %s configurado en %d canales de %s", name, len(channels), guildID), "Platform")
	return role.ID, nil
}

// MemberRoles returns the member's role IDs
func (p *Platform) MemberRoles(guildID, userID string) ([]string, error) {
	m, err := fetchMember(p.session, guildID, userID)
	if err != nil {
		return nil, err
	}
	return m.Roles, nil
}

// AddRole grants roleID to the member
func (p *Platform) AddRole(guildID, userID, roleID string) error {
	return p.session.GuildMemberRoleAdd(guildID, userID, roleID)
}

// RemoveRole revokes roleID from the member
func (p *Platform) RemoveRole(guildID, userID, roleID string) error {
	err := p.session.GuildMemberRoleRemove(guildID, userID, roleID)
	if isNotFound(err) {
		return moderation.ErrMemberNotFound
	}
	return err
}

// Kick removes the member from the guild
func (p *Platform) Kick(guildID, userID, reason string) error {
	return p.session.GuildMemberDeleteWithReason(guildID, userID, reason)
}

// Ban bans the user without deleting message history
func (p *Platform) Ban(guildID, userID, reason string) error {
	return p.session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

// BannedUser returns the ban entry for userID, or nil when not banned
func (p *Platform) BannedUser(guildID, userID string) (*discordgo.User, error) {
	ban, err := p.session.GuildBan(guildID, userID)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ban.User, nil
}

// Unban lifts the ban on userID
func (p *Platform) Unban(guildID, userID string) error {
	return p.session.GuildBanDelete(guildID, userID)
}

// fetchMember returns a member from state, falling back to the REST API.
// Unknown members map to moderation.ErrMemberNotFound.
func fetchMember(s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	if s.State != nil {
		if m, err := s.State.Member(guildID, userID); err == nil {
			return m, nil
		}
	}

	m, err := s.GuildMember(guildID, userID)
	if isNotFound(err) {
		return nil, moderation.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.State != nil && s.StateEnabled {
		_ = s.State.MemberAdd(m)
	}
	return m, nil
}

// UserTag renders a user as name or name#discriminator for legacy accounts
func UserTag(u *discordgo.User) string {
	if u == nil {
		return "Unknown"
	}
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}
