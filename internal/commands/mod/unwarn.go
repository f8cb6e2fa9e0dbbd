package mod

import (
	"fmt"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

var unwarnReplies = targetReplies{
	missing: "Mention a user to remove a warning.",
	bot:     "No warnings.",
}

// createUnwarnCommand creates the unwarn command
func createUnwarnCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"unwarn",
		"Remove a warning.",
		category,
		unwarnHandler(svc),
	).WithUsage("@user")
}

// unwarnHandler removes the most recent warning
func unwarnHandler(svc *moderation.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target := ctx.FirstMentionedMember()
		a := actionFor(ctx, target, "")
		if reply, ok := unwarnReplies.forError(a.Check(true)); ok {
			return ctx.Reply(reply)
		}

		opCtx, cancel := opContext()
		defer cancel()

		if _, err := svc.Unwarn(opCtx, a); err != nil {
			return replyError(ctx, err)
		}

		return ctx.Send(fmt.Sprintf("%s's last warning removed.", discord.UserTag(target.User)))
	}
}
