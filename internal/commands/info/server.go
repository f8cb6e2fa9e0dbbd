package info

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createServerInfoCommand creates the serverinfo command
func createServerInfoCommand() *discord.Command {
	return discord.NewCommand(
		"serverinfo",
		"Server info.",
		category,
		func(ctx *discord.CommandContext) error {
			guild := ctx.Guild()
			if guild == nil {
				return fmt.Errorf("guild %s not available", ctx.GuildID())
			}
			return ctx.SendEmbed(serverEmbed(guild))
		},
	)
}

// createUserInfoCommand creates the userinfo command
func createUserInfoCommand() *discord.Command {
	return discord.NewCommand(
		"userinfo",
		"User info.",
		category,
		func(ctx *discord.CommandContext) error {
			user := ctx.Author()
			if id := ctx.FirstMentionedUserID(); id != "" && id != user.ID {
				u, err := ctx.Session.User(id)
				if err != nil {
					return ctx.Reply("Could not find that user.")
				}
				user = u
			}

			member, _ := ctx.FetchMember(user.ID)
			return ctx.SendEmbed(userEmbed(user, member, ctx.Guild()))
		},
	).WithAliases("whois")
}

func serverEmbed(guild *discordgo.Guild) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:     "Server Info",
		Color:     embedColor,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: guild.IconURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Server Name", Value: guild.Name, Inline: true},
			{Name: "Server ID", Value: guild.ID, Inline: true},
			{Name: "Owner", Value: fmt.Sprintf("<@%s>", guild.OwnerID), Inline: true},
			{Name: "Member Count", Value: fmt.Sprintf("%d", guild.MemberCount), Inline: true},
			{Name: "Server Boosts", Value: fmt.Sprintf("%d", guild.PremiumSubscriptionCount), Inline: true},
		},
	}
}

func userEmbed(user *discordgo.User, member *discordgo.Member, guild *discordgo.Guild) *discordgo.MessageEmbed {
	joined := "Unknown"
	roles := "No roles"
	if member != nil {
		if !member.JoinedAt.IsZero() {
			joined = member.JoinedAt.Format(time.DateOnly)
		}
		if names := roleNames(guild, member); len(names) > 0 {
			roles = strings.Join(names, ", ")
		}
	}

	created := "Unknown"
	if ts, err := discordgo.SnowflakeTimestamp(user.ID); err == nil {
		created = ts.Format(time.DateOnly)
	}

	return &discordgo.MessageEmbed{
		Color: embedColor,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("%s's Information", user.Username),
			IconURL: user.AvatarURL(""),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Username", Value: user.Username, Inline: true},
			{Name: "User ID", Value: user.ID, Inline: true},
			{Name: "Joined Server On", Value: joined, Inline: true},
			{Name: "Account Created On", Value: created, Inline: true},
			{Name: "Roles", Value: roles, Inline: true},
		},
	}
}

// roleNames returns the member's role names from highest to lowest,
// leaving out @everyone
func roleNames(guild *discordgo.Guild, member *discordgo.Member) []string {
	if guild == nil {
		return nil
	}

	held := make(map[string]bool, len(member.Roles))
	for _, id := range member.Roles {
		held[id] = true
	}

	var roles []*discordgo.Role
	for _, r := range guild.Roles {
		if held[r.ID] && r.ID != guild.ID {
			roles = append(roles, r)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Position > roles[j].Position })

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}
