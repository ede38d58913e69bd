package database

import (
	"context"
	"embed"
	"fmt"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// Migrate brings the schema up to date. Postgres runs the embedded SQL
// migrations through sql-migrate; sqlite is migrated from the GORM models.
func Migrate(db *gorm.DB, driver string, log *zap.Logger) error {
	if driver == DriverSQLite {
		if err := db.AutoMigrate(&entities.User{}, &entities.Session{}, &entities.Transcript{}); err != nil {
			return fmt.Errorf("failed to auto-migrate schema: %w", err)
		}
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get db connection during migrate up: %w", err)
	}

	n, err := migrate.Exec(sqlDB, "postgres", migrationSource(), migrate.Up)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if log != nil {
		log.Info("✅ Applied migrations", zap.Int("count", n))
	}
	return nil
}

// Reset drops every table and recreates the schema
func Reset(db *gorm.DB, driver string, log *zap.Logger) error {
	if driver == DriverSQLite {
		if err := db.Migrator().DropTable(&entities.Transcript{}, &entities.Session{}, &entities.User{}); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
		return Migrate(db, driver, log)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get db connection during reset: %w", err)
	}

	n, err := migrate.Exec(sqlDB, "postgres", migrationSource(), migrate.Down)
	if err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	if log != nil {
		log.Info("🗑️ Rolled back migrations", zap.Int("count", n))
	}
	return Migrate(db, driver, log)
}

// Seed inserts a sample user, session and transcript
func Seed(ctx context.Context, db *gorm.DB) (*entities.Session, error) {
	now := time.Now().UTC()
	var session *entities.Session

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := entities.NewUser("test_user", "test@example.com")
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create sample user: %w", err)
		}

		session = entities.NewSession(user.ID, "seed", "", now)
		session.Title = "Sample Voice Session"
		session.Metadata = datatypes.JSONMap{"device": "iPhone", "app_version": "1.0.0"}
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("failed to create sample session: %w", err)
		}

		confidence := 0.95
		duration := 3500
		transcript := entities.NewTranscript(session.ID, user.ID, "This is a sample voice transcript.", now)
		transcript.Confidence = &confidence
		transcript.DurationMs = &duration
		transcript.MarkFinal(now)
		if err := tx.Create(transcript).Error; err != nil {
			return fmt.Errorf("failed to create sample transcript: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}
