package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-transcripts/internal/adapter/voice"
	"github.com/johnquangdev/voice-transcripts/internal/app"
	"github.com/johnquangdev/voice-transcripts/internal/infrastructure/external/livekit"
	"github.com/johnquangdev/voice-transcripts/internal/usecase/transcript"
	"github.com/johnquangdev/voice-transcripts/pkg/config"
	"github.com/johnquangdev/voice-transcripts/pkg/logger"
)

// recordTimeout bounds a single transcript write
const recordTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateLiveKit(); err != nil {
		log.Fatalf("Invalid LiveKit configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := app.NewCore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize dependencies", zap.Error(err))
	}
	defer core.Close()

	queue := transcript.NewQueue(core.Recorder, cfg.Agent.QueueSize, cfg.Agent.Workers, recordTimeout, zl)
	if err := queue.Start(ctx); err != nil {
		zl.Fatal("Failed to start recorder queue", zap.Error(err))
	}

	pipeline := voice.NewPipeline(core.Sessions, queue, voice.Options{
		Source:        cfg.Agent.Source,
		RecordInterim: cfg.Agent.RecordInterim,
	}, zl)

	if _, err := pipeline.Bootstrap(ctx, cfg.LiveKit.Room); err != nil {
		zl.Fatal("Failed to establish session", zap.Error(err))
	}

	listener := livekit.NewListener(cfg.LiveKit, pipeline.HandleSegment, zl)
	if err := listener.Connect(); err != nil {
		zl.Fatal("Failed to join room", zap.Error(err))
	}

	select {
	case <-ctx.Done():
		zl.Info("🛑 Shutting down agent...")
	case <-listener.Disconnected():
		zl.Warn("⚠️ Disconnected from room")
	}

	listener.Close()
	if err := queue.Stop(); err != nil {
		zl.Error("❌ Failed to stop recorder queue", zap.Error(err))
	}

	stats := queue.Stats()
	zl.Info("✅ Agent stopped",
		zap.Int64("recorded", stats.Recorded),
		zap.Int64("failed", stats.Failed),
		zap.Int64("dropped", stats.Dropped),
	)
}
