package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	"github.com/livekit/protocol/webhook"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/johnquangdev/voice-transcripts/errors"
	sessionUsecase "github.com/johnquangdev/voice-transcripts/internal/usecase/session"
)

// WebhookHandler handles LiveKit webhook events
type WebhookHandler struct {
	sessionService sessionUsecase.Service
	keyProvider    auth.KeyProvider
	logger         *zap.Logger
}

// NewWebhookHandler creates a new webhook handler. Without credentials every
// request is rejected.
func NewWebhookHandler(sessionService sessionUsecase.Service, livekitAPIKey, livekitSecret string, logger *zap.Logger) *WebhookHandler {
	h := &WebhookHandler{
		sessionService: sessionService,
		logger:         logger,
	}
	if livekitAPIKey != "" && livekitSecret != "" {
		h.keyProvider = auth.NewSimpleKeyProvider(livekitAPIKey, livekitSecret)
	}
	return h
}

// HandleLiveKitWebhook processes LiveKit webhook events with signature validation
// @Summary      LiveKit Webhook
// @Description  Receives webhook events from LiveKit. room_started bootstraps the session and records the room name.
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  common.SuccessResponse
// @Failure      401  {object}  common.ErrorResponse
// @Failure      503  {object}  common.ErrorResponse
// @Router       /webhooks/livekit [post]
func (h *WebhookHandler) HandleLiveKitWebhook(c echo.Context) error {
	if h.keyProvider == nil {
		return HandleError(h.logger, c, errors.ErrServiceUnavailable("LiveKit webhook"))
	}

	event, err := webhook.ReceiveWebhookEvent(c.Request(), h.keyProvider)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidWebhookSignature(err))
	}

	if h.logger != nil {
		raw, _ := protojson.Marshal(event)
		h.logger.Debug("🌐 LiveKit webhook received",
			zap.String("event", event.GetEvent()),
			zap.ByteString("payload", raw),
		)
	}

	switch event.GetEvent() {
	case webhook.EventRoomStarted:
		return h.handleRoomStarted(c, event)
	default:
		if h.logger != nil {
			h.logger.Debug("unhandled webhook event", zap.String("event", event.GetEvent()))
		}
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ok"})
}

// handleRoomStarted makes sure a session exists and records the room on it
func (h *WebhookHandler) handleRoomStarted(c echo.Context, event *livekit.WebhookEvent) error {
	roomName := event.GetRoom().GetName()
	if roomName == "" {
		if h.logger != nil {
			h.logger.Warn("⚠️ room_started without room name")
		}
		return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ignored"})
	}

	ctx := c.Request().Context()
	identity, err := h.sessionService.EnsureSession(ctx, roomName)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, ""))
	}
	if err := h.sessionService.UpdateSessionRoom(ctx, roomName); err != nil {
		return HandleError(h.logger, c, toAppError(err, identity.SessionID.String()))
	}

	if h.logger != nil {
		h.logger.Info("🏠 Room started",
			zap.String("room", roomName),
			zap.String("session_id", identity.SessionID.String()),
		)
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"status":     "ok",
		"session_id": identity.SessionID.String(),
		"room_name":  roomName,
	})
}
