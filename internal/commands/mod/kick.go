package mod

import (
	"fmt"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

var kickReplies = targetReplies{
	missing: "Mention a user to kick.",
	self:    "Cannot kick yourself.",
	bot:     "Cannot kick the bot.",
}

// createKickCommand creates the kick command
func createKickCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"kick",
		"Kick a user.",
		category,
		kickHandler(svc),
	).WithUsage("@user [reason]")
}

// kickHandler removes the member from the server
func kickHandler(svc *moderation.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target := ctx.FirstMentionedMember()
		a := actionFor(ctx, target, ctx.RestArgs(1))
		if reply, ok := kickReplies.forError(a.Check(false)); ok {
			return ctx.Reply(reply)
		}
		if !botOutranks(ctx, target) {
			return ctx.Reply("Cannot kick this user.")
		}

		opCtx, cancel := opContext()
		defer cancel()

		kick, err := svc.Kick(opCtx, a)
		if err != nil {
			return replyError(ctx, err)
		}

		return ctx.Send(fmt.Sprintf("%s kicked: %s", discord.UserTag(target.User), kick.Reason))
	}
}
