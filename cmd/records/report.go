package main

import (
	"fmt"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/duration"
	"github.com/PancyStudios/BaritoneGo/pkg/models"
)

func filterGuild(records []*models.ModerationRecord, guildID string) []*models.ModerationRecord {
	if guildID == "" {
		return records
	}
	var out []*models.ModerationRecord
	for _, r := range records {
		if r.GuildID == guildID {
			out = append(out, r)
		}
	}
	return out
}

func summaryLine(r *models.ModerationRecord) string {
	return fmt.Sprintf("%s: %d warnings, %d mutes (%d active), %d kicks, %d bans",
		r.Key, len(r.Warnings), len(r.Mutes), len(r.ActiveMutes()), len(r.Kicks), len(r.Bans))
}

func activeMuteLines(records []*models.ModerationRecord, now time.Time) []string {
	var lines []string
	for _, r := range records {
		for _, m := range r.ActiveMutes() {
			left := "overdue"
			if remaining := m.ExpiresAt.Sub(now); remaining >= time.Second {
				left = duration.Format(remaining) + " left"
			}
			lines = append(lines, fmt.Sprintf("%s %s (%s): %s", r.Key, m.ID, left, m.Reason))
		}
	}
	return lines
}

func historyLines(r *models.ModerationRecord) []string {
	lines := []string{r.Key}
	section := func(name string, entries []models.Infraction) {
		lines = append(lines, fmt.Sprintf("%s (%d)", name, len(entries)))
		for _, e := range entries {
			lines = append(lines, fmt.Sprintf("  %s %s: %s", e.CreatedAt.Format(time.DateTime), e.ID, e.Reason))
		}
	}

	section("Warnings", r.Warnings)
	lines = append(lines, fmt.Sprintf("Mutes (%d)", len(r.Mutes)))
	for _, m := range r.Mutes {
		status := string(m.Status)
		if m.Active() {
			status = "active"
		}
		lines = append(lines, fmt.Sprintf("  %s %s [%s]: %s", m.CreatedAt.Format(time.DateTime), m.ID, status, m.Reason))
	}
	section("Kicks", r.Kicks)
	section("Bans", r.Bans)
	return lines
}
