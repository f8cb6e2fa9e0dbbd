package mod

import (
	"fmt"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

var unmuteReplies = targetReplies{
	missing: "Mention a user to unmute.",
	bot:     "Cannot unmute the bot.",
}

// createUnmuteCommand creates the unmute command
func createUnmuteCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Unmute a user.",
		category,
		unmuteHandler(svc),
	).WithUsage("@user")
}

// unmuteHandler lifts every active mute of the member
func unmuteHandler(svc *moderation.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target := ctx.FirstMentionedMember()
		a := actionFor(ctx, target, "")
		if reply, ok := unmuteReplies.forError(a.Check(true)); ok {
			return ctx.Reply(reply)
		}
		if reply, ok := rankReply(ctx, target, "unmute"); ok {
			return ctx.Reply(reply)
		}

		opCtx, cancel := opContext()
		defer cancel()

		if _, err := svc.Unmute(opCtx, a); err != nil {
			return replyError(ctx, err)
		}

		return ctx.Send(fmt.Sprintf("%s unmuted.", discord.UserTag(target.User)))
	}
}
