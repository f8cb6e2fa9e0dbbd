// Package events provides event handlers for guild (server) events
package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	prefix := client.Prefix()

	client.EventHandler.OnGuildCreate(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		onGuildCreate(s, g, prefix)
	})
	client.EventHandler.OnGuildDelete(onGuildDelete)
}

// onGuildCreate is called for every guild on startup and when the bot joins
// a server. Only fresh joins get the welcome message.
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate, prefix string) {
	if g.JoinedAt.Before(time.Now().Add(-10 * time.Second)) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID == "" {
		return
	}

	if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed(prefix)); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
	}
}

func welcomeEmbed(prefix string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Thanks for adding Baritone!",
		Description: fmt.Sprintf("Use `%shelp` to see every command.", prefix),
		Color:       0x0099ff,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Moderation", Value: fmt.Sprintf("`%swarn`, `%smute`, `%skick`, `%sban`", prefix, prefix, prefix, prefix), Inline: true},
			{Name: "History", Value: fmt.Sprintf("`%sview @user`", prefix), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("Servidor %s no disponible", g.ID), "Guild")
		return
	}
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}
