// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (mod, admin, info).
package commands

import (
	"github.com/PancyStudios/BaritoneGo/internal/commands/admin"
	"github.com/PancyStudios/BaritoneGo/internal/commands/info"
	"github.com/PancyStudios/BaritoneGo/internal/commands/mod"
	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc *moderation.Service) {
	// help, serverinfo, userinfo, ping, status
	info.RegisterInfoCommands(client, svc)

	// warn, unwarn, mute, unmute, kick, ban, unban, view
	mod.RegisterModCommands(client, svc)

	// lock, unlock
	admin.RegisterAdminCommands(client)
}
