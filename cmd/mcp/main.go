package main

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-transcripts/internal/adapter/mcpserver"
	"github.com/johnquangdev/voice-transcripts/internal/app"
	"github.com/johnquangdev/voice-transcripts/pkg/config"
	"github.com/johnquangdev/voice-transcripts/pkg/logger"
)

const version = "1.0.0"

// Serves MCP over stdio; every log line goes to stderr.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log, true)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	core, err := app.NewCore(context.Background(), cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize dependencies", zap.Error(err))
	}
	defer core.Close()

	srv := mcpserver.NewServer(core.Sessions, core.Summaries, zl).MCPServer("voice-transcripts", version)

	zl.Info("🧰 MCP server listening on stdio", zap.String("integrations", core.Describe()))
	if err := server.ServeStdio(srv); err != nil {
		zl.Error("❌ MCP server stopped", zap.Error(err))
	}
}
