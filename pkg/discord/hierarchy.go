package discord

import "github.com/bwmarrin/discordgo"

// HighestRolePosition returns the position of the member's highest role in
// the guild. Members with only @everyone are at 0.
func HighestRolePosition(guild *discordgo.Guild, member *discordgo.Member) int {
	if guild == nil || member == nil {
		return 0
	}

	positions := make(map[string]int, len(guild.Roles))
	for _, r := range guild.Roles {
		positions[r.ID] = r.Position
	}

	highest := 0
	for _, id := range member.Roles {
		if pos, ok := positions[id]; ok && pos > highest {
			highest = pos
		}
	}
	return highest
}

// Outranks reports whether actor sits strictly above target in the role
// hierarchy. The guild owner outranks everyone and is outranked by nobody.
func Outranks(guild *discordgo.Guild, actor, target *discordgo.Member) bool {
	if guild == nil || actor == nil || target == nil {
		return false
	}
	if target.User != nil && target.User.ID == guild.OwnerID {
		return false
	}
	if actor.User != nil && actor.User.ID == guild.OwnerID {
		return true
	}
	return HighestRolePosition(guild, actor) > HighestRolePosition(guild, target)
}
