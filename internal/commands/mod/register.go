// Package mod provides the moderation commands. Each command is in its own file.
package mod

import (
	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

const category = "moderation"

// RegisterModCommands registers warn, unwarn, mute, unmute, kick, ban, unban and view
func RegisterModCommands(client *discord.ExtendedClient, svc *moderation.Service) {
	commands := []*discord.Command{
		createWarnCommand(svc),
		createUnwarnCommand(svc),
		createMuteCommand(svc),
		createUnmuteCommand(svc),
		createKickCommand(svc),
		createBanCommand(svc),
		createUnbanCommand(svc, client.Platform),
		createViewCommand(svc),
	}

	for _, cmd := range commands {
		client.CommandHandler.RegisterCommand(cmd.WithPermission(discord.PermissionModerator))
	}
}
