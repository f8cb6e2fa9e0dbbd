package discord

import (
	"testing"

	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

func newTestClient(t *testing.T, lock *moderation.LockState) *ExtendedClient {
	t.Helper()
	c, err := NewClient("test-token", ClientOptions{Prefix: "?", Lock: lock})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("warn", "Warn a user.", "moderation", handler).
		WithUsage("@user [reason]").
		WithPermission(PermissionModerator)

	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}
	if cmd.Name != "warn" {
		t.Errorf("Name = %v, want %v", cmd.Name, "warn")
	}
	if cmd.Description != "Warn a user." {
		t.Errorf("Description = %v, want %v", cmd.Description, "Warn a user.")
	}
	if cmd.Category != "moderation" {
		t.Errorf("Category = %v, want %v", cmd.Category, "moderation")
	}
	if cmd.Usage != "@user [reason]" {
		t.Errorf("Usage = %v, want %v", cmd.Usage, "@user [reason]")
	}
	if cmd.Permission != PermissionModerator {
		t.Errorf("Permission = %v, want %v", cmd.Permission, PermissionModerator)
	}
	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

func TestPermissionLevelAllows(t *testing.T) {
	tests := []struct {
		name  string
		level PermissionLevel
		perms int64
		want  bool
	}{
		{"none needs nothing", PermissionNone, 0, true},
		{"moderator denied without bits", PermissionModerator, discordgo.PermissionSendMessages, false},
		{"moderator with moderate members", PermissionModerator, discordgo.PermissionModerateMembers, true},
		{"moderator with administrator", PermissionModerator, discordgo.PermissionAdministrator, true},
		{"admin denied for moderator", PermissionAdministrator, discordgo.PermissionModerateMembers, false},
		{"admin with administrator", PermissionAdministrator, discordgo.PermissionAdministrator, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.Allows(tt.perms); got != tt.want {
				t.Errorf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPermissionDenialMessage(t *testing.T) {
	if got := PermissionModerator.DenialMessage(); got != "You need Moderator permissions to use this command." {
		t.Errorf("DenialMessage() = %v", got)
	}
	if got := PermissionAdministrator.DenialMessage(); got != "You need Administrator permissions to use this command." {
		t.Errorf("DenialMessage() = %v", got)
	}
	if got := PermissionNone.DenialMessage(); got != "" {
		t.Errorf("DenialMessage() = %v, want empty", got)
	}
}

func TestParseInvocation(t *testing.T) {
	tests := []struct {
		content  string
		wantName string
		wantArgs int
		wantOK   bool
	}{
		{"?warn <@123> spamming links", "warn", 3, true},
		{"?MUTE   <@123>  10m", "mute", 2, true},
		{"?help", "help", 0, true},
		{"? ping", "ping", 0, true},
		{"?", "", 0, false},
		{"hello ?warn", "", 0, false},
		{"!warn <@123>", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			name, args, ok := ParseInvocation("?", tt.content)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if name != tt.wantName {
				t.Errorf("name = %v, want %v", name, tt.wantName)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %v, want %v", len(args), tt.wantArgs)
			}
		})
	}
}

func TestParseMention(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"<@123456789012345678>", "123456789012345678", true},
		{"<@!123456789012345678>", "123456789012345678", true},
		{"<@&123>", "", false},
		{"123", "", false},
		{"@user", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseMention(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseMention(%q) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestContextArgs(t *testing.T) {
	ctx := &CommandContext{
		Message: &discordgo.MessageCreate{Message: &discordgo.Message{
			Mentions: []*discordgo.User{{ID: "999"}},
		}},
		Args: []string{"<@!42>", "10m", "spamming", "links"},
	}

	if got := ctx.FirstMentionedUserID(); got != "42" {
		t.Errorf("FirstMentionedUserID() = %v, want 42", got)
	}
	if got := ctx.Arg(1); got != "10m" {
		t.Errorf("Arg(1) = %v, want 10m", got)
	}
	if got := ctx.Arg(9); got != "" {
		t.Errorf("Arg(9) = %v, want empty", got)
	}
	if got := ctx.RestArgs(2); got != "spamming links" {
		t.Errorf("RestArgs(2) = %v, want %v", got, "spamming links")
	}
	if got := ctx.RestArgs(4); got != "" {
		t.Errorf("RestArgs(4) = %v, want empty", got)
	}

	ctx.Args = []string{"no", "mention"}
	if got := ctx.FirstMentionedUserID(); got != "999" {
		t.Errorf("FirstMentionedUserID() fallback = %v, want 999", got)
	}
}

func TestRegisterCommandWithAliases(t *testing.T) {
	c := newTestClient(t, nil)

	info := NewCommand("userinfo", "User info.", "info", func(ctx *CommandContext) error { return nil }).
		WithAliases("whois")
	help := NewCommand("help", "This message.", "info", func(ctx *CommandContext) error { return nil })
	ban := NewCommand("ban", "Ban a user.", "moderation", func(ctx *CommandContext) error { return nil })

	c.CommandHandler.RegisterCommand(info)
	c.CommandHandler.RegisterCommand(help)
	c.CommandHandler.RegisterCommand(ban)

	if got, ok := c.Commands.Get("whois"); !ok || got != info {
		t.Error("alias should resolve to the command")
	}
	if c.Commands.Size() != 4 {
		t.Errorf("Size() = %v, want 4", c.Commands.Size())
	}

	list := c.Commands.List()
	if len(list) != 3 {
		t.Fatalf("List() len = %v, want 3", len(list))
	}
	if list[0].Name != "help" || list[1].Name != "userinfo" || list[2].Name != "ban" {
		t.Errorf("List() order = %v, %v, %v", list[0].Name, list[1].Name, list[2].Name)
	}
}

func TestGate(t *testing.T) {
	lock := &moderation.LockState{}
	c := newTestClient(t, lock)
	modCmd := NewCommand("warn", "", "moderation", nil).WithPermission(PermissionModerator)
	openCmd := NewCommand("help", "", "info", nil)

	if reply, _ := c.CommandHandler.gate(openCmd, 0); reply != "" {
		t.Errorf("gate() unlocked open command = %q, want empty", reply)
	}
	if reply, result := c.CommandHandler.gate(modCmd, 0); reply != PermissionModerator.DenialMessage() || result != resultDenied {
		t.Errorf("gate() = %q, %q, want moderator denial", reply, result)
	}

	lock.Lock()
	if reply, result := c.CommandHandler.gate(openCmd, discordgo.PermissionModerateMembers); reply != LockedMessage || result != resultLocked {
		t.Errorf("gate() locked = %q, %q, want locked message", reply, result)
	}
	if reply, _ := c.CommandHandler.gate(nil, 0); reply != LockedMessage {
		t.Errorf("gate() locked unknown command = %q, want locked message", reply)
	}
	if reply, _ := c.CommandHandler.gate(modCmd, discordgo.PermissionAdministrator); reply != "" {
		t.Errorf("gate() admin while locked = %q, want empty", reply)
	}
}

func TestClientDefaults(t *testing.T) {
	c, err := NewClient("test-token", ClientOptions{})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.Prefix() != "?" {
		t.Errorf("Prefix() = %v, want ?", c.Prefix())
	}
	if c.Lock() == nil || c.Lock().Locked() {
		t.Error("Lock() should be a fresh unlocked state")
	}
	if c.IsReady() {
		t.Error("IsReady() should be false before Start")
	}
	if c.BotID() != "" {
		t.Errorf("BotID() = %v, want empty before ready", c.BotID())
	}
	want := discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent | discordgo.IntentsGuildBans
	if c.Session.Identify.Intents&want != want {
		t.Errorf("Intents = %v, missing message content or moderation", c.Session.Identify.Intents)
	}
}
