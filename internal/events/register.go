// Package events provides a registry for organizing bot events.
// Events are organized by category (ready, guild, member, moderation, message, shard).
package events

import (
	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

// RegisterAll registers all events with the Discord client. db may be nil
// when records do not live in MongoDB.
func RegisterAll(client *discord.ExtendedClient, svc *moderation.Service, db ReconnectNotifier) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (status + mute reconciliation)
	RegisterReadyEvent(client, svc, db)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Member events (mute re-apply on rejoin)
	RegisterMemberEvents(client, svc)

	// Ban events
	RegisterModerationEvents(client)

	// Message events (prefix hint on mention)
	RegisterMessageEvents(client)

	// Gateway disconnect/resume
	RegisterShardEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
