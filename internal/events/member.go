// Package events provides event handlers for member events
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	anticrash "github.com/PancyStudios/BaritoneGo/pkg/errors"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

const memberEventTimeout = 15 * time.Second

// RegisterMemberEvents registers all member-related event handlers
func RegisterMemberEvents(client *discord.ExtendedClient, svc *moderation.Service) {
	client.EventHandler.OnGuildMemberAdd(onGuildMemberAdd(svc))
}

// onGuildMemberAdd re-applies the restriction role to members who left and
// rejoined while muted
func onGuildMemberAdd(svc *moderation.Service) discord.GuildMemberAddHandler {
	return func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		defer anticrash.RecoverMiddleware()()

		if m.Member == nil || m.User == nil || m.User.Bot {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), memberEventTimeout)
		defer cancel()

		applied, err := svc.ReapplyMute(ctx, m.GuildID, m.User.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error reaplicando mute a %s en %s: %v", m.User.ID, m.GuildID, err), "Member")
			return
		}
		if applied {
			logger.Info(fmt.Sprintf("🔇 Mute reaplicado a %s al volver a %s", discord.UserTag(m.User), m.GuildID), "Member")
		}
	}
}
