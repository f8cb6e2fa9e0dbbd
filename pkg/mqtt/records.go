package mqtt

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/models"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
)

// Request topics answered by the bot
const (
	TopicRecordsGet  = "records.get"
	TopicActiveMutes = "mutes.active"
)

const queryTimeout = 10 * time.Second

// ActiveMute is one running mute in a mutes.active response
type ActiveMute struct {
	UserID string           `json:"userId"`
	Mute   models.MuteEntry `json:"mute"`
}

// RegisterModerationHandlers answers record queries from other services
func RegisterModerationHandlers(mc *MqttCommunicator, store moderation.Store) {
	mc.On(TopicRecordsGet, recordsGetHandler(store))
	mc.On(TopicActiveMutes, activeMutesHandler(store, time.Now))
}

func stringField(payload map[string]interface{}, key string) (string, error) {
	v, ok := payload[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing %s", key)
	}
	return v, nil
}

// recordsGetHandler returns the record of {guildId, userId}
func recordsGetHandler(store moderation.Store) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		guildID, err := stringField(payload, "guildId")
		if err != nil {
			return nil, err
		}
		userID, err := stringField(payload, "userId")
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()

		return store.Get(ctx, guildID, userID)
	}
}

// activeMutesHandler lists the mutes of {guildId} that are still running:
// no status yet and an expiry in the future
func activeMutesHandler(store moderation.Store, now func() time.Time) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		guildID, err := stringField(payload, "guildId")
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()

		records, err := store.All(ctx)
		if err != nil {
			return nil, err
		}

		at := now()
		mutes := make([]ActiveMute, 0)
		for _, rec := range records {
			if rec.GuildID != guildID {
				continue
			}
			for _, m := range rec.ActiveMutes() {
				if !m.ExpiresAt.After(at) {
					continue
				}
				mutes = append(mutes, ActiveMute{UserID: rec.UserID, Mute: m})
			}
		}
		return mutes, nil
	}
}
