// Package main provides a utility to inspect stored moderation records
// without starting the bot.
//
// Usage:
//
//	go run ./cmd/records [options]
//
// Options:
//
//	-guild <id>     Only show records of this guild
//	-user <id>      Show the full history of one member (needs -guild)
//	-active         List mutes that are still active
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/config"
	"github.com/PancyStudios/BaritoneGo/pkg/database"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/models"
)

func main() {
	// Parse command line flags
	guildID := flag.String("guild", "", "Only show records of this guild")
	userID := flag.String("user", "", "Show the full history of one member (needs -guild)")
	activeCmd := flag.Bool("active", false, "List mutes that are still active")
	flag.Parse()

	if *userID != "" && *guildID == "" {
		fmt.Println("-user needs -guild")
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando utilidad de registros de moderación...", "Records")

	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error connecting to database: %v", err), "Records")
		_ = db.Disconnect()
		os.Exit(1)
	}
	defer func() {
		_ = db.Disconnect()
	}()

	store := database.NewRecordStore(db, cfg.ModerationCollection)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Execute the requested action
	switch {
	case *userID != "":
		record, err := store.Get(ctx, *guildID, *userID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error leyendo registro: %v", err), "Records")
			return
		}
		for _, line := range historyLines(record) {
			fmt.Println(line)
		}
	default:
		records, err := store.All(ctx)
		if err != nil {
			logger.Error(fmt.Sprintf("Error listando registros: %v", err), "Records")
			return
		}
		records = filterGuild(records, *guildID)
		if *activeCmd {
			listActiveMutes(records, time.Now())
		} else {
			listRecords(records)
		}
	}

	logger.Success("Operación completada exitosamente", "Records")
}

// listRecords prints one summary line per record
func listRecords(records []*models.ModerationRecord) {
	if len(records) == 0 {
		logger.Info("No hay registros", "Records")
		return
	}

	logger.Info(fmt.Sprintf("Registros encontrados: %d", len(records)), "Records")
	for i, r := range records {
		fmt.Printf("  %d. %s\n", i+1, summaryLine(r))
	}
}

// listActiveMutes prints every mute without a status
func listActiveMutes(records []*models.ModerationRecord, now time.Time) {
	lines := activeMuteLines(records, now)
	if len(lines) == 0 {
		logger.Info("No hay silencios activos", "Records")
		return
	}
	for _, line := range lines {
		fmt.Println("  " + line)
	}
}
