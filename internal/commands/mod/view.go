package mod

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/duration"
	"github.com/PancyStudios/BaritoneGo/pkg/models"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// embedFieldLimit is Discord's maximum embed field value length
const embedFieldLimit = 1024

// createViewCommand creates the view command
func createViewCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"view",
		"View user history.",
		category,
		viewHandler(svc),
	).WithUsage("[@user]").WithAliases("history")
}

// viewHandler shows the moderation history of the mentioned member, or of
// the invoker when nobody is mentioned
func viewHandler(svc *moderation.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target := ctx.FirstMentionedMember()
		if target == nil {
			target = ctx.Member()
		}
		if target == nil || target.User == nil {
			return ctx.Reply("That user is not in this server.")
		}

		opCtx, cancel := opContext()
		defer cancel()

		record, err := svc.History(opCtx, ctx.GuildID(), target.User.ID)
		if err != nil {
			return replyError(ctx, err)
		}
		if record.IsEmpty() {
			return ctx.Reply("No actions recorded.")
		}

		return ctx.SendEmbed(historyEmbed(target.User, record, time.Now()))
	}
}

// historyEmbed renders a record as the history embed
func historyEmbed(user *discordgo.User, record *models.ModerationRecord, now time.Time) *discordgo.MessageEmbed {
	tag := discord.UserTag(user)

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's History", tag),
		Color: 0x0099ff,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    tag,
			IconURL: user.AvatarURL(""),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Warnings", Value: infractionLines(record.Warnings, "No warnings")},
			{Name: "Mutes", Value: muteLines(record.Mutes, now)},
			{Name: "Kicks", Value: infractionLines(record.Kicks, "No kicks")},
			{Name: "Bans", Value: infractionLines(record.Bans, "No bans")},
		},
	}
}

func infractionLines(entries []models.Infraction, empty string) string {
	if len(entries) == 0 {
		return empty
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, "Reason: "+e.Reason)
	}
	return clampField(strings.Join(lines, "\n"))
}

// muteLines shows the stored status, or the remaining time of a running mute
func muteLines(mutes []models.MuteEntry, now time.Time) string {
	if len(mutes) == 0 {
		return "No mutes"
	}
	lines := make([]string, 0, len(mutes))
	for _, m := range mutes {
		lines = append(lines, fmt.Sprintf("Status: %s | Reason: %s", muteStatus(m, now), m.Reason))
	}
	return clampField(strings.Join(lines, "\n"))
}

func muteStatus(m models.MuteEntry, now time.Time) string {
	if !m.Active() {
		return string(m.Status)
	}
	remaining := m.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return "Expired"
	}
	if text := duration.Format(remaining); text != "" {
		return text
	}
	return "Expired"
}

// clampField keeps the most recent lines within the field limit
func clampField(value string) string {
	if len(value) <= embedFieldLimit {
		return value
	}
	start := len(value) - embedFieldLimit + 4
	for start < len(value) && !utf8.RuneStart(value[start]) {
		start++
	}
	value = value[start:]
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = value[i+1:]
	}
	return "...\n" + value
}
