package commands

import (
	"testing"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

func TestRegisterAll(t *testing.T) {
	client, err := discord.NewClient("test-token", discord.ClientOptions{})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	svc := moderation.NewService(moderation.ServiceConfig{
		Store:    moderation.NewMemoryStore(),
		Platform: client.Platform,
		RoleName: "Muted",
	})

	RegisterAll(client, svc)

	tests := []struct {
		name       string
		permission discord.PermissionLevel
	}{
		{"help", discord.PermissionNone},
		{"serverinfo", discord.PermissionNone},
		{"userinfo", discord.PermissionNone},
		{"warn", discord.PermissionModerator},
		{"unwarn", discord.PermissionModerator},
		{"mute", discord.PermissionModerator},
		{"unmute", discord.PermissionModerator},
		{"kick", discord.PermissionModerator},
		{"ban", discord.PermissionModerator},
		{"unban", discord.PermissionModerator},
		{"view", discord.PermissionModerator},
		{"lock", discord.PermissionAdministrator},
		{"unlock", discord.PermissionAdministrator},
	}

	for _, tt := range tests {
		cmd, ok := client.Commands.Get(tt.name)
		if !ok {
			t.Errorf("command %s not registered", tt.name)
			continue
		}
		if cmd.Permission != tt.permission {
			t.Errorf("%s permission = %v, want %v", tt.name, cmd.Permission, tt.permission)
		}
	}

	if got := len(client.Commands.List()); got != 15 {
		t.Errorf("List() len = %v, want 15", got)
	}
}
