package info

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/config"
	"github.com/PancyStudios/BaritoneGo/pkg/database"
	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/duration"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createStatusCommand creates the status command
func createStatusCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"status",
		"Bot status.",
		category,
		statusHandler(svc),
	).WithAliases("stats")
}

// statusHandler reports runtime, storage and moderation state
func statusHandler(svc *moderation.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		embed := &discordgo.MessageEmbed{
			Title: "📊 Baritone Status",
			Color: embedColor,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "🤖 Version", Value: config.Version, Inline: true},
				{Name: "🐹 Go", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
				{Name: "📚 DiscordGo", Value: discordgo.VERSION, Inline: true},
				{Name: "🖥 RAM", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
				{Name: "⚙ Goroutines", Value: fmt.Sprintf("%d / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU()), Inline: true},
				{Name: "⏱ Uptime", Value: uptime(ctx.Client.StartTime), Inline: true},
				{Name: "🏠 Guilds", Value: fmt.Sprintf("%d", ctx.Client.GuildCount()), Inline: true},
				{Name: "🗄 Database", Value: storageStatus(database.Get()), Inline: true},
				{Name: "🔇 Mute timers", Value: fmt.Sprintf("%d", svc.Scheduler().Pending()), Inline: true},
				{Name: "🔒 Locked", Value: fmt.Sprintf("%t", ctx.Client.Lock().Locked()), Inline: true},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		return ctx.SendEmbed(embed)
	}
}

func uptime(start time.Time) string {
	if start.IsZero() {
		return "0s"
	}
	if text := duration.Format(time.Since(start)); text != "" {
		return text
	}
	return "0s"
}

// storageStatus describes where records are kept. A nil database means the
// bot runs on the in-memory store.
func storageStatus(db *database.Database) string {
	if db == nil {
		return "⚪ In memory"
	}
	if _, ok := db.GetStatus(); !ok {
		return fmt.Sprintf("🔴 Offline (%d queued)", db.QueueLength())
	}
	return "🟢 Online"
}
