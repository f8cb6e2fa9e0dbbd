// Package events provides event handlers for message events
package events

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient) {
	prefix := client.Prefix()
	client.EventHandler.RegisterEvent(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		onMessageCreate(s, m, prefix)
	})
}

// onMessageCreate answers a bare mention of the bot with the command prefix
func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, prefix string) {
	if m.Author == nil || m.Author.Bot || s.State.User == nil {
		return
	}
	if !isBareMention(m.Content, s.State.User.ID) {
		return
	}

	reply := fmt.Sprintf("👋 My prefix is `%s`. Use `%shelp` to see every command.", prefix, prefix)
	if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "Message")
	}
}

// isBareMention reports whether content is only a mention of userID
func isBareMention(content, userID string) bool {
	id, ok := discord.ParseMention(strings.TrimSpace(content))
	return ok && id == userID
}
