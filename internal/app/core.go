package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/voice-transcripts/internal/adapter/repository"
	"github.com/johnquangdev/voice-transcripts/internal/infrastructure/cache"
	"github.com/johnquangdev/voice-transcripts/internal/infrastructure/database"
	"github.com/johnquangdev/voice-transcripts/internal/infrastructure/storage"
	"github.com/johnquangdev/voice-transcripts/internal/usecase/export"
	"github.com/johnquangdev/voice-transcripts/internal/usecase/session"
	"github.com/johnquangdev/voice-transcripts/internal/usecase/summary"
	"github.com/johnquangdev/voice-transcripts/internal/usecase/transcript"
	pkgai "github.com/johnquangdev/voice-transcripts/pkg/ai"
	"github.com/johnquangdev/voice-transcripts/pkg/config"
)

// lockPrefix namespaces summary locks in Redis
const lockPrefix = "voice-transcripts:"

// Core is the dependency graph shared by every binary
type Core struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *gorm.DB
	Store     *repository.Store
	Sessions  *session.SessionService
	Recorder  *transcript.Recorder
	Summaries *summary.SummaryService
	Exports   *export.ExportService

	closers []func()
}

// NewCore connects to the database and optional backends and builds the use cases.
// Redis and object storage are optional and are disabled with a log line when unreachable.
// log must not be nil.
func NewCore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Core, error) {
	c := &Core{Config: cfg, Logger: log}

	log.Info("📦 Connecting to database...", zap.String("driver", cfg.Database.Driver))
	db, err := database.NewDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	c.DB = db
	c.closers = append(c.closers, func() { _ = database.CloseDB(db) })

	if cfg.Database.AutoMigrate || cfg.Database.Driver == database.DriverSQLite {
		if err := database.Migrate(db, cfg.Database.Driver, log); err != nil {
			c.Close()
			return nil, err
		}
	}

	c.Store = repository.NewStore(db)

	c.Sessions = session.NewSessionService(c.Store, session.Options{
		Username: cfg.Agent.Username,
		Email:    cfg.Agent.Email,
		Source:   cfg.Agent.Source,
	}, log)

	c.Recorder = transcript.NewRecorder(c.Sessions, c.Store, transcript.Options{
		Source: cfg.Agent.Source,
	}, log)

	c.Summaries = summary.NewSummaryService(c.Store, c.completer(), c.locker(ctx), summary.Options{
		Timeout: cfg.LLM.Timeout,
	}, log)

	c.Exports = export.NewExportService(c.Store, c.objectStore(ctx), cfg.Storage.URLExpiry, log)

	return c, nil
}

// completer returns nil when the LLM is disabled so summaries fall back to a placeholder
func (c *Core) completer() summary.Completer {
	if !c.Config.LLM.Enabled {
		c.Logger.Warn("⚠️ LLM disabled, summaries will not be generated")
		return nil
	}
	client := pkgai.NewCompletionClient(c.Config.LLM)
	c.Logger.Info("🤖 Completion service configured",
		zap.String("base_url", c.Config.LLM.BaseURL),
		zap.String("model", client.Model()),
	)
	return client
}

func (c *Core) locker(ctx context.Context) summary.Locker {
	if c.Config.Redis.Enabled {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		client, err := cache.NewRedisClient(pingCtx, c.Config.Redis, c.Config.GetRedisAddr())
		if err == nil {
			c.closers = append(c.closers, func() { _ = client.Close() })
			c.Logger.Info("✅ Redis connected", zap.String("addr", c.Config.GetRedisAddr()))
			return cache.NewRedisStore(client, lockPrefix)
		}
		c.Logger.Warn("⚠️ Redis unavailable, using in-process summary lock", zap.Error(err))
	}

	store := cache.NewMemoryStore()
	c.closers = append(c.closers, store.Close)
	return store
}

func (c *Core) objectStore(ctx context.Context) export.ObjectStore {
	if !c.Config.Storage.Enabled {
		return nil
	}
	client, err := storage.NewMinIOClient(ctx, &c.Config.Storage)
	if err != nil {
		c.Logger.Error("❌ Object storage unavailable, exports disabled", zap.Error(err))
		return nil
	}
	c.Logger.Info("✅ Object storage ready",
		zap.String("endpoint", c.Config.Storage.Endpoint),
		zap.String("bucket", c.Config.Storage.BucketName),
	)
	return client
}

// Close releases every backend in reverse order
func (c *Core) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Describe is a one-line summary of the enabled integrations
func (c *Core) Describe() string {
	return fmt.Sprintf("db=%s llm=%t redis=%t storage=%t",
		c.Config.Database.Driver, c.Config.LLM.Enabled, c.Config.Redis.Enabled, c.Config.Storage.Enabled)
}
