// Package discord provides the command handler for dispatching prefix commands.
package discord

import (
	"fmt"
	"strings"
	"time"

	anticrash "github.com/PancyStudios/BaritoneGo/pkg/errors"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/metrics"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// LockedMessage is the reply sent to non-administrators while locked
const LockedMessage = "Baritone is locked. Only Administrators can use commands right now."

// Command results reported to metrics
const (
	resultOK     = "ok"
	resultDenied = "denied"
	resultLocked = "locked"
	resultError  = "error"
)

// CommandHandler dispatches prefix commands from guild messages
type CommandHandler struct {
	client *ExtendedClient
	prefix string
	lock   *moderation.LockState
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient, prefix string, lock *moderation.LockState) *CommandHandler {
	return &CommandHandler{
		client: client,
		prefix: prefix,
		lock:   lock,
	}
}

// RegisterCommand adds a command under its name and aliases
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)
	for _, alias := range cmd.Aliases {
		ch.client.Commands.Set(alias, cmd)
	}
	logger.Debug("Comando registrado: "+cmd.Name, "CommandHandler")
}

// ParseInvocation splits "<prefix>name arg1 arg2" into a lowercase command
// name and its whitespace separated arguments.
func ParseInvocation(prefix, content string) (string, []string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(content[len(prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// gate applies the lock and permission checks. It returns the reply to send
// and the metrics result, or "" when the command may run.
func (ch *CommandHandler) gate(cmd *Command, perms int64) (string, string) {
	if ch.lock.Locked() && !PermissionAdministrator.Allows(perms) {
		return LockedMessage, resultLocked
	}
	if cmd != nil && !cmd.Permission.Allows(perms) {
		return cmd.Permission.DenialMessage(), resultDenied
	}
	return "", ""
}

// HandleMessage is the MessageCreate handler for prefix commands
func (ch *CommandHandler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer anticrash.RecoverMiddleware()()

	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	name, args, ok := ParseInvocation(ch.prefix, m.Content)
	if !ok {
		return
	}

	cmd, _ := ch.client.Commands.Get(name)
	perms := memberPermissions(s, m)

	if reply, result := ch.gate(cmd, perms); reply != "" {
		if cmd != nil {
			metrics.CommandsTotal.WithLabelValues(cmd.Name, result).Inc()
		}
		if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo responder a %s: %v", m.Author.ID, err), "CommandHandler")
		}
		return
	}
	if cmd == nil {
		return
	}

	ctx := &CommandContext{
		Session:     s,
		Message:     m,
		Args:        args,
		Client:      ch.client,
		Permissions: perms,
	}

	start := time.Now()
	err := cmd.Run(ctx)
	metrics.CommandDuration.WithLabelValues(cmd.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CommandsTotal.WithLabelValues(cmd.Name, resultError).Inc()
		logger.Error(fmt.Sprintf("Error ejecutando comando %s: %v", cmd.Name, err), "CommandHandler")
		return
	}
	metrics.CommandsTotal.WithLabelValues(cmd.Name, resultOK).Inc()
}

// memberPermissions resolves the author's guild permissions, from state when
// possible and from the REST API otherwise. Failures yield no permissions.
func memberPermissions(s *discordgo.Session, m *discordgo.MessageCreate) int64 {
	if m.Member != nil && s.State != nil {
		if m.Member.User == nil {
			m.Member.User = m.Author
		}
		m.Member.GuildID = m.GuildID
		if perms, err := s.State.MessagePermissions(m.Message); err == nil {
			return perms
		}
	}

	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudieron resolver permisos de %s: %v", m.Author.ID, err), "CommandHandler")
		return 0
	}
	return perms
}
