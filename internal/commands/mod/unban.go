package mod

import (
	"fmt"
	"regexp"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

var userIDPattern = regexp.MustCompile(`^\d{17,19}$`)

// banList is the part of the platform the unban command needs
type banList interface {
	BannedUser(guildID, userID string) (*discordgo.User, error)
	Unban(guildID, userID string) error
}

// createUnbanCommand creates the unban command
func createUnbanCommand(svc *moderation.Service, bans banList) *discord.Command {
	return discord.NewCommand(
		"unban",
		"Unban a user.",
		category,
		unbanHandler(svc, bans),
	).WithUsage("<user id>")
}

// unbanHandler lifts a ban by user ID
func unbanHandler(svc *moderation.Service, bans banList) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		userID := ctx.Arg(0)
		if userID == "" {
			return ctx.Reply("Provide a user ID to unban.")
		}
		if !userIDPattern.MatchString(userID) {
			return ctx.Reply("Invalid user ID.")
		}

		banned, err := bans.BannedUser(ctx.GuildID(), userID)
		if err != nil {
			return fmt.Errorf("fetching ban of %s: %w", userID, err)
		}
		if banned == nil {
			return ctx.Reply("That user is not banned.")
		}

		if err := bans.Unban(ctx.GuildID(), userID); err != nil {
			return fmt.Errorf("unbanning %s: %w", userID, err)
		}
		svc.Unbanned(moderation.Action{GuildID: ctx.GuildID(), ActorID: ctx.Author().ID, TargetID: userID})

		return ctx.Send(fmt.Sprintf("%s has been unbanned.", discord.UserTag(banned)))
	}
}
