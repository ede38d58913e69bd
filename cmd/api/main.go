package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/voice-transcripts/docs"
	"github.com/johnquangdev/voice-transcripts/internal/adapter/handler"
	"github.com/johnquangdev/voice-transcripts/internal/app"
	"github.com/johnquangdev/voice-transcripts/pkg/config"
	"github.com/johnquangdev/voice-transcripts/pkg/logger"
	pkgvalidator "github.com/johnquangdev/voice-transcripts/pkg/validator"
)

// @title           Voice Transcripts API
// @version         1.0
// @description     Recorded voice sessions, their transcripts and cached summaries

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	// Initialize dependencies
	zl.Info("🔧 Initializing dependencies...")
	core, err := app.NewCore(context.Background(), cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize dependencies", zap.Error(err))
	}
	defer core.Close()
	zl.Info("✅ Dependencies ready", zap.String("integrations", core.Describe()))

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human} | ${id}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	sessionHandler := handler.NewSessionHandler(core.Sessions, core.Summaries, zl)
	transcriptHandler := handler.NewTranscriptHandler(core.Recorder, zl)
	exportHandler := handler.NewExportHandler(core.Exports, zl)
	webhookHandler := handler.NewWebhookHandler(core.Sessions, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, zl)

	zl.Info("🛣️  Setting up routes...")
	handler.NewRouter(cfg, sessionHandler, transcriptHandler, exportHandler, webhookHandler).Setup(e)

	// Start server
	go func() {
		addr := cfg.GetServerAddr()
		zl.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zl.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		zl.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}

	zl.Info("✅ Server stopped gracefully")
}
