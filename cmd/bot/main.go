// Package main is the entry point for the Baritone moderation bot.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/BaritoneGo/internal/commands"
	"github.com/PancyStudios/BaritoneGo/internal/events"
	"github.com/PancyStudios/BaritoneGo/pkg/config"
	"github.com/PancyStudios/BaritoneGo/pkg/database"
	"github.com/PancyStudios/BaritoneGo/pkg/discord"
	"github.com/PancyStudios/BaritoneGo/pkg/errors"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/PancyStudios/BaritoneGo/pkg/mqtt"
	"github.com/PancyStudios/BaritoneGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Iniciando Baritone %s (%s)...", config.Version, config.BuildTime), "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	if cfg.BotToken == "" {
		logger.Critical("botToken no configurado", "Main")
		os.Exit(1)
	}

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			_ = discordClient.Stop()
		}
	})

	// Initialize database. While MongoDB is unreachable reads come from the
	// cache, writes are queued and the connection is retried in the background.
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		logger.Warn("Iniciando en modo offline: las escrituras se encolan hasta reconectar", "Main")
	}
	defer func() {
		_ = db.Disconnect()
	}()
	store := database.NewRecordStore(db, cfg.ModerationCollection)

	// Initialize MQTT
	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		cfg.MQTTClientID(),
	)
	defer mqttClient.Destroy()
	mqtt.RegisterModerationHandlers(mqttClient, store)

	// Initialize Discord client
	lock := &moderation.LockState{}
	discordClient, err = discord.Init(cfg.BotToken, discord.ClientOptions{
		Prefix: cfg.Prefix,
		Lock:   lock,
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Moderation service shared by commands, events, MQTT and the web API
	svc := moderation.NewService(moderation.ServiceConfig{
		Store:     store,
		Platform:  discordClient.Platform,
		RoleName:  cfg.MutedRoleName,
		Publisher: mqttClient,
	})

	commands.RegisterAll(discordClient, svc)
	events.RegisterAll(discordClient, svc, db)

	// Initialize web server
	webServer, err := web.Init(cfg.AllowedHosts, cfg.LogsWebServerHook)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating web server: %v", err), "Main")
		os.Exit(1)
	}
	web.SetupAPIRoutes(webServer, &web.API{
		Store:     store,
		Scheduler: svc.Scheduler(),
		Lock:      lock,
		Database:  db,
		Client:    discordClient,
		MQTT:      mqttClient,
	})
	webServer.StartAsync(cfg.Port)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		if err := discordClient.Stop(); err != nil {
			logger.Warn(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
		}
	}()

	logger.Success("Baritone iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando Baritone...", "Main")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webServer.Shutdown(ctx); err != nil {
		logger.Warn(fmt.Sprintf("Error cerrando el servidor web: %v", err), "Main")
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
