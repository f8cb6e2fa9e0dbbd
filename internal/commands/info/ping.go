package info

import (
	"fmt"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
)

// createPingCommand creates the ping command
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Gateway latency.",
		category,
		pingHandler,
	)
}

// pingHandler handles the ping command
func pingHandler(ctx *discord.CommandContext) error {
	latency := ctx.Client.Session.HeartbeatLatency().Milliseconds()
	return ctx.Reply(fmt.Sprintf("🏓 Pong! Latency: %dms", latency))
}
