package info

import (
	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createHelpCommand creates the help command
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"This message.",
		category,
		helpHandler,
	)
}

// helpHandler lists every registered command
func helpHandler(ctx *discord.CommandContext) error {
	return ctx.SendEmbed(helpEmbed(ctx.Client.Prefix(), ctx.Client.Commands.List()))
}

func helpEmbed(prefix string, commands []*discord.Command) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(commands))
	for _, cmd := range commands {
		name := prefix + cmd.Name
		if cmd.Usage != "" {
			name += " " + cmd.Usage
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: cmd.Description})
	}

	return &discordgo.MessageEmbed{
		Title:       "Baritone Commands",
		Description: "List of commands:",
		Color:       embedColor,
		Fields:      fields,
	}
}
