// Package info provides the informational commands
package info

import (
	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

const (
	category   = "info"
	embedColor = 0x0099ff
)

// RegisterInfoCommands registers help, serverinfo, userinfo, ping and status
func RegisterInfoCommands(client *discord.ExtendedClient, svc *moderation.Service) {
	client.CommandHandler.RegisterCommand(createHelpCommand())
	client.CommandHandler.RegisterCommand(createServerInfoCommand())
	client.CommandHandler.RegisterCommand(createUserInfoCommand())
	client.CommandHandler.RegisterCommand(createPingCommand())
	client.CommandHandler.RegisterCommand(createStatusCommand(svc))
}
