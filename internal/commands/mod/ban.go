package mod

import (
	"fmt"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

var banReplies = targetReplies{
	missing: "Mention a user to ban.",
	self:    "Cannot ban yourself.",
	bot:     "Cannot ban the bot.",
}

// createBanCommand creates the ban command
func createBanCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"ban",
		"Ban a user.",
		category,
		banHandler(svc),
	).WithUsage("@user [reason]")
}

// banHandler bans the member from the server
func banHandler(svc *moderation.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target := ctx.FirstMentionedMember()
		a := actionFor(ctx, target, ctx.RestArgs(1))
		if reply, ok := banReplies.forError(a.Check(false)); ok {
			return ctx.Reply(reply)
		}
		if !botOutranks(ctx, target) {
			return ctx.Reply("Cannot ban this user.")
		}

		opCtx, cancel := opContext()
		defer cancel()

		ban, err := svc.Ban(opCtx, a)
		if err != nil {
			return replyError(ctx, err)
		}

		return ctx.Send(fmt.Sprintf("%s banned: %s", discord.UserTag(target.User), ban.Reason))
	}
}
