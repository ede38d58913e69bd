package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-transcripts/internal/infrastructure/database"
	"github.com/johnquangdev/voice-transcripts/pkg/config"
	"github.com/johnquangdev/voice-transcripts/pkg/logger"
)

const usage = `usage: migrate <command>

commands:
  up     apply pending migrations
  reset  drop every table and migrate again
  seed   insert a sample user, session and transcript`

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	switch command {
	case "up":
		if err := database.Migrate(db, cfg.Database.Driver, zl); err != nil {
			zl.Fatal("Failed to apply migrations", zap.Error(err))
		}
		zl.Info("✅ Schema is up to date")
	case "reset":
		if cfg.IsProduction() {
			zl.Fatal("Refusing to reset a production database")
		}
		if err := database.Reset(db, cfg.Database.Driver, zl); err != nil {
			zl.Fatal("Failed to reset database", zap.Error(err))
		}
		zl.Info("✅ Database reset")
	case "seed":
		if err := database.Migrate(db, cfg.Database.Driver, zl); err != nil {
			zl.Fatal("Failed to apply migrations", zap.Error(err))
		}
		session, err := database.Seed(ctx, db)
		if err != nil {
			zl.Fatal("Failed to seed database", zap.Error(err))
		}
		zl.Info("🌱 Seeded sample data", zap.String("session_id", session.ID.String()))
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}
