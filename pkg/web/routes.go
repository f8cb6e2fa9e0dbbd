// Package web provides API routes for the web server.
package web

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/PancyStudios/BaritoneGo/pkg/database"
	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/PancyStudios/BaritoneGo/pkg/mqtt"
	"github.com/gin-gonic/gin"
)

var snowflakePattern = regexp.MustCompile(`^\d{17,20}$`)

// API holds what the routes report on. Nil Database, Client and MQTT are
// reported as offline.
type API struct {
	Store     moderation.Store
	Scheduler *moderation.Scheduler
	Lock      *moderation.LockState
	Database  *database.Database
	Client    *discord.ExtendedClient
	MQTT      *mqtt.MqttCommunicator
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, a *API) {
	api := s.Group("/api")
	{
		api.GET("/status", a.statusHandler)
		api.GET("/health", a.healthHandler)
		api.GET("/bot", a.botInfoHandler)
		api.GET("/records/:guildId/:userId", a.recordHandler)
	}
}

// statusHandler returns the bot, database and moderation status
func (a *API) statusHandler(c *gin.Context) {
	dbStatus, dbOnline := "memory", false
	queued := 0
	if a.Database != nil {
		dbStatus, dbOnline = a.Database.GetStatus()
		queued = a.Database.QueueLength()
	}

	botOnline := a.Client != nil && a.Client.IsReady()

	pending := 0
	if a.Scheduler != nil {
		pending = a.Scheduler.Pending()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":       dbStatus,
			"isOnline":     dbOnline,
			"queuedWrites": queued,
		},
		"bot": gin.H{
			"isOnline": botOnline,
			"locked":   a.Lock != nil && a.Lock.Locked(),
		},
		"mqtt": gin.H{
			"isOnline": a.MQTT.IsConnected(),
		},
		"moderation": gin.H{
			"pendingMuteTimers": pending,
		},
	})
}

// healthHandler returns a simple health check response
func (a *API) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Baritone is running",
	})
}

// botInfoHandler returns information about the bot
func (a *API) botInfoHandler(c *gin.Context) {
	if a.Client == nil || !a.Client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "The bot is not available right now.",
		})
		return
	}

	user := a.Client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        a.Client.GuildCount(),
		"isReady":       a.Client.IsReady(),
	})
}

// recordHandler returns the moderation record of a guild member
func (a *API) recordHandler(c *gin.Context) {
	guildID, userID := c.Param("guildId"), c.Param("userId")
	if !snowflakePattern.MatchString(guildID) || !snowflakePattern.MatchString(userID) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "guildId and userId must be Discord IDs.",
		})
		return
	}

	record, err := a.Store.Get(c.Request.Context(), guildID, userID)
	if errors.Is(err, database.ErrNotConnected) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Database Offline",
			"message": "The record is not cached and the database is unreachable.",
		})
		return
	}
	if err != nil {
		logger.Error("Error leyendo registro "+guildID+"_"+userID+": "+err.Error(), "WebServer")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal Server Error",
		})
		return
	}

	c.JSON(http.StatusOK, record)
}
