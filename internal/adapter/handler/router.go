package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/voice-transcripts/internal/adapter/dto/common"
	"github.com/johnquangdev/voice-transcripts/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	sessionHandler    *Session
	transcriptHandler *Transcript
	exportHandler     *Export
	webhookHandler    *WebhookHandler
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, sessionHandler *Session, transcriptHandler *Transcript, exportHandler *Export, webhookHandler *WebhookHandler) *Router {
	return &Router{
		cfg:               cfg,
		sessionHandler:    sessionHandler,
		transcriptHandler: transcriptHandler,
		exportHandler:     exportHandler,
		webhookHandler:    webhookHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupSessionRoutes(v1)
	rt.setupTranscriptRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

// setupSessionRoutes configures session routes
func (rt *Router) setupSessionRoutes(g *echo.Group) {
	sessions := g.Group("/sessions")

	if rt.sessionHandler != nil {
		// static paths first so "current" never parses as an id
		sessions.GET("/current", rt.sessionHandler.Current)
		sessions.PUT("/current/room", rt.sessionHandler.UpdateRoom)
		sessions.GET("", rt.sessionHandler.ListSessions)
		sessions.GET("/:id", rt.sessionHandler.GetSession)
		sessions.GET("/:id/transcripts", rt.sessionHandler.ListTranscripts)
		sessions.GET("/:id/analyze", rt.sessionHandler.Analyze)
	}

	if rt.exportHandler != nil {
		sessions.POST("/:id/export", rt.exportHandler.ExportSession)
		sessions.GET("/:id/exports", rt.exportHandler.ListExports)
	} else {
		sessions.POST("/:id/export", rt.notImplemented)
		sessions.GET("/:id/exports", rt.notImplemented)
	}
}

// setupTranscriptRoutes configures transcript ingestion routes
func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	if rt.transcriptHandler != nil {
		g.POST("/transcripts", rt.transcriptHandler.Record)
	} else {
		g.POST("/transcripts", rt.notImplemented)
	}
}

// setupWebhookRoutes configures webhook routes
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	if rt.webhookHandler != nil {
		g.POST("/webhooks/livekit", rt.webhookHandler.HandleLiveKitWebhook)
	} else {
		g.POST("/webhooks/livekit", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not enabled",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := "development"
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, common.HealthResponse{
		Status:      "ok",
		Environment: env,
	})
}
