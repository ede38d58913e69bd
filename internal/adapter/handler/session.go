package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-transcripts/errors"
	sessionDTO "github.com/johnquangdev/voice-transcripts/internal/adapter/dto/session"
	"github.com/johnquangdev/voice-transcripts/internal/adapter/presenter"
	sessionUsecase "github.com/johnquangdev/voice-transcripts/internal/usecase/session"
	summaryUsecase "github.com/johnquangdev/voice-transcripts/internal/usecase/summary"
)

// Session handles session read and room endpoints
type Session struct {
	sessionService sessionUsecase.Service
	summaryService summaryUsecase.Service
	logger         *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService sessionUsecase.Service, summaryService summaryUsecase.Service, logger *zap.Logger) *Session {
	return &Session{
		sessionService: sessionService,
		summaryService: summaryService,
		logger:         logger,
	}
}

// ListSessions handles GET /sessions
// @Summary      List sessions
// @Description  Lists all sessions newest first with their transcript counts
// @Tags         Sessions
// @Produce      json
// @Success      200  {object}  common.SuccessResponse{data=session.SessionListResponse}
// @Failure      503  {object}  common.ErrorResponse
// @Router       /sessions [get]
func (h *Session) ListSessions(c echo.Context) error {
	overviews, err := h.sessionService.ListSessions(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, ""))
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionListResponse(overviews))
}

// GetSession handles GET /sessions/:id
// @Summary      Get session details
// @Description  Returns a session with its transcripts in spoken order
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID (UUID)"
// @Success      200  {object}  common.SuccessResponse{data=session.SessionDetailResponse}
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /sessions/{id} [get]
func (h *Session) GetSession(c echo.Context) error {
	id, err := parseSessionID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	s, err := h.sessionService.GetSession(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, id.String()))
	}
	transcripts, err := h.sessionService.ListTranscripts(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, id.String()))
	}

	return HandleSuccess(h.logger, c, presenter.ToSessionDetailResponse(s, transcripts))
}

// ListTranscripts handles GET /sessions/:id/transcripts
// @Summary      List transcripts of a session
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID (UUID)"
// @Success      200  {object}  common.SuccessResponse{data=[]session.TranscriptResponse}
// @Failure      404  {object}  common.ErrorResponse
// @Router       /sessions/{id}/transcripts [get]
func (h *Session) ListTranscripts(c echo.Context) error {
	id, err := parseSessionID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	transcripts, err := h.sessionService.ListTranscripts(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, id.String()))
	}
	return HandleSuccess(h.logger, c, presenter.ToTranscriptResponses(transcripts))
}

// Analyze handles GET /sessions/:id/analyze
// @Summary      Summarize a session
// @Description  Returns the cached summary or generates one. Failures of the completion service yield a placeholder summary.
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID (UUID)"
// @Success      200  {object}  common.SuccessResponse{data=session.AnalysisResponse}
// @Failure      404  {object}  common.ErrorResponse
// @Router       /sessions/{id}/analyze [get]
func (h *Session) Analyze(c echo.Context) error {
	id, err := parseSessionID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	analysis, err := h.summaryService.GetOrCreateSummary(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, id.String()))
	}
	return HandleSuccess(h.logger, c, presenter.ToAnalysisResponse(analysis))
}

// Current handles GET /sessions/current
// @Summary      Current session
// @Description  Returns the user and session the recorder writes into
// @Tags         Sessions
// @Produce      json
// @Success      200  {object}  common.SuccessResponse{data=session.CurrentSessionResponse}
// @Failure      404  {object}  common.ErrorResponse
// @Router       /sessions/current [get]
func (h *Session) Current(c echo.Context) error {
	identity, ok := h.sessionService.Current()
	if !ok {
		return HandleError(h.logger, c, errors.ErrSessionNotBootstrapped())
	}
	return HandleSuccess(h.logger, c, &sessionDTO.CurrentSessionResponse{
		UserID:    identity.UserID.String(),
		SessionID: identity.SessionID.String(),
	})
}

// UpdateRoom handles PUT /sessions/current/room
// @Summary      Set the room of the current session
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request  body      session.UpdateRoomRequest  true  "Room name"
// @Success      200      {object}  common.SuccessResponse
// @Failure      400      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Router       /sessions/current/room [put]
func (h *Session) UpdateRoom(c echo.Context) error {
	var req sessionDTO.UpdateRoomRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	if err := h.sessionService.UpdateSessionRoom(c.Request().Context(), req.RoomName); err != nil {
		return HandleError(h.logger, c, toAppError(err, ""))
	}
	return HandleSuccess(h.logger, c, map[string]string{"room_name": req.RoomName})
}
