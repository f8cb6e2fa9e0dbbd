package mod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// commandTimeout bounds the store and platform work of one command
const commandTimeout = 15 * time.Second

const invalidDurationReply = "Invalid duration format. Example: 10m, 2h, 1d, or stacked like 1h30m"

// targetReplies are the answers to a rejected target, per command
type targetReplies struct {
	missing string
	self    string
	bot     string
}

func (r targetReplies) forError(err error) (string, bool) {
	switch {
	case errors.Is(err, moderation.ErrMissingTarget):
		return r.missing, true
	case errors.Is(err, moderation.ErrSelfAction):
		return r.self, true
	case errors.Is(err, moderation.ErrTargetIsBot):
		return r.bot, true
	}
	return "", false
}

// errorReply maps service errors that the invoker can act on to a reply
func errorReply(err error) (string, bool) {
	switch {
	case errors.Is(err, moderation.ErrNoWarnings):
		return "No warnings.", true
	case errors.Is(err, moderation.ErrNotMuted):
		return "User is not muted.", true
	case errors.Is(err, moderation.ErrInvalidDuration):
		return invalidDurationReply, true
	case errors.Is(err, moderation.ErrMemberNotFound):
		return "That user is not in this server.", true
	case errors.Is(err, moderation.ErrConflict):
		return "The record changed while saving. Try again.", true
	}
	return "", false
}

// replyError answers known errors and hands the rest back to the dispatcher
func replyError(ctx *discord.CommandContext, err error) error {
	if reply, ok := errorReply(err); ok {
		return ctx.Reply(reply)
	}
	return err
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// actionFor builds the moderation Action for the invoking message. A nil
// target leaves TargetID empty so Check reports it as missing.
func actionFor(ctx *discord.CommandContext, target *discordgo.Member, reason string) moderation.Action {
	a := moderation.Action{
		GuildID: ctx.GuildID(),
		ActorID: ctx.Author().ID,
		BotID:   ctx.Client.BotID(),
		Reason:  reason,
	}
	if target != nil && target.User != nil {
		a.TargetID = target.User.ID
	}
	return a
}

// botOutranks reports whether the bot sits above target
func botOutranks(ctx *discord.CommandContext, target *discordgo.Member) bool {
	me, err := ctx.FetchMember(ctx.Client.BotID())
	if err != nil {
		return false
	}
	return discord.Outranks(ctx.Guild(), me, target)
}

// invokerOutranks reports whether the invoking member sits above target
func invokerOutranks(ctx *discord.CommandContext, target *discordgo.Member) bool {
	return discord.Outranks(ctx.Guild(), ctx.Member(), target)
}

// rankReply checks that both the invoker and the bot outrank target
func rankReply(ctx *discord.CommandContext, target *discordgo.Member, verb string) (string, bool) {
	if !invokerOutranks(ctx, target) {
		return fmt.Sprintf("Cannot %s someone with a higher or equal role than you.", verb), true
	}
	if !botOutranks(ctx, target) {
		return fmt.Sprintf("Cannot %s this user because their role is higher or equal to the bot.", verb), true
	}
	return "", false
}
