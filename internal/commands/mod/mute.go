package mod

import (
	"fmt"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

var muteReplies = targetReplies{
	missing: "Mention a user to mute.",
	self:    "You cannot mute yourself.",
	bot:     "Cannot mute the bot.",
}

// createMuteCommand creates the mute command
func createMuteCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"mute",
		"Mute a user.",
		category,
		muteHandler(svc),
	).WithUsage("@user <duration> [reason]")
}

// muteHandler applies a timed mute
func muteHandler(svc *moderation.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target := ctx.FirstMentionedMember()
		if target == nil {
			return ctx.Reply(muteReplies.missing)
		}

		durationText := ctx.Arg(1)
		if durationText == "" {
			return ctx.Reply(fmt.Sprintf("Provide a duration. Example: %smute @User 10m spamming", ctx.Client.Prefix()))
		}

		a := actionFor(ctx, target, ctx.RestArgs(2))
		a.DurationText = durationText
		if reply, ok := muteReplies.forError(a.Check(false)); ok {
			return ctx.Reply(reply)
		}
		if reply, ok := rankReply(ctx, target, "mute"); ok {
			return ctx.Reply(reply)
		}

		opCtx, cancel := opContext()
		defer cancel()

		entry, err := svc.Mute(opCtx, a)
		if err != nil {
			return replyError(ctx, err)
		}

		return ctx.Send(fmt.Sprintf("%s muted for %s: %s", discord.UserTag(target.User), durationText, entry.Reason))
	}
}
