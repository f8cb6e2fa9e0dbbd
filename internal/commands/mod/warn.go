package mod

import (
	"fmt"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

var warnReplies = targetReplies{
	missing: "Mention a user to warn.",
	self:    "You cannot warn yourself.",
	bot:     "Cannot warn this user.",
}

// createWarnCommand creates the warn command
func createWarnCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"warn",
		"Warn a user.",
		category,
		warnHandler(svc),
	).WithUsage("@user [reason]")
}

// warnHandler handles the warn command
func warnHandler(svc *moderation.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target := ctx.FirstMentionedMember()
		a := actionFor(ctx, target, ctx.RestArgs(1))
		if reply, ok := warnReplies.forError(a.Check(false)); ok {
			return ctx.Reply(reply)
		}
		if !botOutranks(ctx, target) {
			return ctx.Reply("Cannot warn this user.")
		}

		opCtx, cancel := opContext()
		defer cancel()

		warning, err := svc.Warn(opCtx, a)
		if err != nil {
			return replyError(ctx, err)
		}

		return ctx.Send(fmt.Sprintf("%s warned: %s", discord.UserTag(target.User), warning.Reason))
	}
}
