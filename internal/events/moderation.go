package events

import (
	"fmt"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterModerationEvents logs bans and unbans, including those made
// outside the bot
func RegisterModerationEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildBanAdd(func(s *discordgo.Session, b *discordgo.GuildBanAdd) {
		logger.Info(fmt.Sprintf("🔨 %s baneado en %s", discord.UserTag(b.User), b.GuildID), "Moderation")
	})
	client.EventHandler.OnGuildBanRemove(func(s *discordgo.Session, b *discordgo.GuildBanRemove) {
		logger.Info(fmt.Sprintf("♻️ %s desbaneado en %s", discord.UserTag(b.User), b.GuildID), "Moderation")
	})
}
