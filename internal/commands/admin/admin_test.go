package admin

import (
	"testing"

	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlockReplies(t *testing.T) {
	lock := &moderation.LockState{}

	reply, changed := unlockReply(lock)
	assert.False(t, changed)
	assert.Equal(t, "Not locked.", reply)

	reply, changed = lockReply(lock)
	assert.True(t, changed)
	assert.Equal(t, "Bot locked for admins only.", reply)
	assert.True(t, lock.Locked())

	reply, changed = lockReply(lock)
	assert.False(t, changed)
	assert.Equal(t, "Already locked.", reply)

	reply, changed = unlockReply(lock)
	assert.True(t, changed)
	assert.Equal(t, "Bot unlocked.", reply)
	assert.False(t, lock.Locked())
}

func TestRegisterAdminCommands(t *testing.T) {
	client, err := discord.NewClient("test-token", discord.ClientOptions{})
	require.NoError(t, err)

	RegisterAdminCommands(client)

	for _, name := range []string{"lock", "unlock"} {
		cmd, ok := client.Commands.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, discord.PermissionAdministrator, cmd.Permission)
	}
}
