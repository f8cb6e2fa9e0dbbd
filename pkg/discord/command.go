// Package discord provides command types and structures.
package discord

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// PermissionLevel is the minimum member permission a command requires
type PermissionLevel int

const (
	PermissionNone PermissionLevel = iota
	PermissionModerator
	PermissionAdministrator
)

// Allows reports whether a member with the given permission bits may run
// commands at this level. Administrators pass every level.
func (p PermissionLevel) Allows(perms int64) bool {
	isAdmin := perms&discordgo.PermissionAdministrator != 0
	switch p {
	case PermissionModerator:
		return isAdmin || perms&discordgo.PermissionModerateMembers != 0
	case PermissionAdministrator:
		return isAdmin
	default:
		return true
	}
}

// DenialMessage is the reply sent when Allows returns false
func (p PermissionLevel) DenialMessage() string {
	switch p {
	case PermissionModerator:
		return "You need Moderator permissions to use this command."
	case PermissionAdministrator:
		return "You need Administrator permissions to use this command."
	default:
		return ""
	}
}

// CommandContext provides context for command execution
type CommandContext struct {
	Session     *discordgo.Session
	Message     *discordgo.MessageCreate
	Args        []string
	Client      *ExtendedClient
	Permissions int64
}

// Command represents a prefix command
type Command struct {
	Name        string
	Description string
	Category    string
	Usage       string
	Aliases     []string
	Permission  PermissionLevel
	Run         CommandRunFunc
}

// CommandRunFunc is the function type for command execution
type CommandRunFunc func(ctx *CommandContext) error

// NewCommand creates a new Command with required fields
func NewCommand(name, description, category string, run CommandRunFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Run:         run,
	}
}

// WithUsage sets the argument synopsis shown by help
func (c *Command) WithUsage(usage string) *Command {
	c.Usage = usage
	return c
}

// WithAliases adds alternative names
func (c *Command) WithAliases(aliases ...string) *Command {
	c.Aliases = append(c.Aliases, aliases...)
	return c
}

// WithPermission sets the required permission level
func (c *Command) WithPermission(level PermissionLevel) *Command {
	c.Permission = level
	return c
}

// Reply replies to the invoking message
func (ctx *CommandContext) Reply(content string) error {
	_, err := ctx.Session.ChannelMessageSendReply(ctx.Message.ChannelID, content, ctx.Message.Reference())
	return err
}

// Send posts a plain message in the invoking channel
func (ctx *CommandContext) Send(content string) error {
	_, err := ctx.Session.ChannelMessageSend(ctx.Message.ChannelID, content)
	return err
}

// SendEmbed posts an embed in the invoking channel
func (ctx *CommandContext) SendEmbed(embed *discordgo.MessageEmbed) error {
	_, err := ctx.Session.ChannelMessageSendEmbed(ctx.Message.ChannelID, embed)
	return err
}

// GuildID returns the guild the command was sent in
func (ctx *CommandContext) GuildID() string {
	return ctx.Message.GuildID
}

// Author returns the user who sent the command
func (ctx *CommandContext) Author() *discordgo.User {
	return ctx.Message.Author
}

// Member returns the invoking guild member with its User filled in
func (ctx *CommandContext) Member() *discordgo.Member {
	if ctx.Message.Member == nil {
		m, _ := ctx.FetchMember(ctx.Message.Author.ID)
		return m
	}
	m := *ctx.Message.Member
	if m.User == nil {
		m.User = ctx.Message.Author
	}
	m.GuildID = ctx.Message.GuildID
	return &m
}

// Guild returns the guild from state, falling back to the REST API
func (ctx *CommandContext) Guild() *discordgo.Guild {
	if guild, err := ctx.Session.State.Guild(ctx.Message.GuildID); err == nil {
		return guild
	}
	guild, err := ctx.Session.Guild(ctx.Message.GuildID)
	if err != nil {
		return nil
	}
	return guild
}

// FetchMember returns a guild member from state, falling back to the REST API
func (ctx *CommandContext) FetchMember(userID string) (*discordgo.Member, error) {
	return fetchMember(ctx.Session, ctx.Message.GuildID, userID)
}

// FirstMentionedUserID returns the user mentioned in the arguments, or the
// first entry of the message mentions.
func (ctx *CommandContext) FirstMentionedUserID() string {
	for _, arg := range ctx.Args {
		if id, ok := ParseMention(arg); ok {
			return id
		}
	}
	if len(ctx.Message.Mentions) > 0 {
		return ctx.Message.Mentions[0].ID
	}
	return ""
}

// FirstMentionedMember resolves the first mentioned user as a guild member.
// It returns nil when nobody is mentioned or the member cannot be found.
func (ctx *CommandContext) FirstMentionedMember() *discordgo.Member {
	id := ctx.FirstMentionedUserID()
	if id == "" {
		return nil
	}
	m, err := ctx.FetchMember(id)
	if err != nil {
		return nil
	}
	return m
}

// RestArgs joins the arguments from index from onwards
func (ctx *CommandContext) RestArgs(from int) string {
	if from >= len(ctx.Args) {
		return ""
	}
	return strings.Join(ctx.Args[from:], " ")
}

// Arg returns the argument at i or ""
func (ctx *CommandContext) Arg(i int) string {
	if i < 0 || i >= len(ctx.Args) {
		return ""
	}
	return ctx.Args[i]
}

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)

// ParseMention extracts the user ID from a <@id> or <@!id> mention
func ParseMention(s string) (string, bool) {
	m := mentionPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
