// Package admin provides the administrator commands
package admin

import (
	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

const category = "admin"

// RegisterAdminCommands registers lock and unlock
func RegisterAdminCommands(client *discord.ExtendedClient) {
	client.CommandHandler.RegisterCommand(createLockCommand())
	client.CommandHandler.RegisterCommand(createUnlockCommand())
}

// createLockCommand creates the lock command
func createLockCommand() *discord.Command {
	return discord.NewCommand(
		"lock",
		"Lock bot for admins only.",
		category,
		func(ctx *discord.CommandContext) error {
			reply, changed := lockReply(ctx.Client.Lock())
			if !changed {
				return ctx.Reply(reply)
			}
			logger.Warn("Bot bloqueado por "+ctx.Author().ID+" en "+ctx.GuildID(), "Admin")
			return ctx.Send(reply)
		},
	).WithPermission(discord.PermissionAdministrator)
}

// createUnlockCommand creates the unlock command
func createUnlockCommand() *discord.Command {
	return discord.NewCommand(
		"unlock",
		"Unlock bot.",
		category,
		func(ctx *discord.CommandContext) error {
			reply, changed := unlockReply(ctx.Client.Lock())
			if !changed {
				return ctx.Reply(reply)
			}
			logger.Info("Bot desbloqueado por "+ctx.Author().ID+" en "+ctx.GuildID(), "Admin")
			return ctx.Send(reply)
		},
	).WithPermission(discord.PermissionAdministrator)
}

func lockReply(lock *moderation.LockState) (string, bool) {
	if !lock.Lock() {
		return "Already locked.", false
	}
	return "Bot locked for admins only.", true
}

func unlockReply(lock *moderation.LockState) (string, bool) {
	if !lock.Unlock() {
		return "Not locked.", false
	}
	return "Bot unlocked.", true
}
