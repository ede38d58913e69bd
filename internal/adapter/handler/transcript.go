package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-transcripts/errors"
	transcriptDTO "github.com/johnquangdev/voice-transcripts/internal/adapter/dto/transcript"
	"github.com/johnquangdev/voice-transcripts/internal/adapter/presenter"
	transcriptUsecase "github.com/johnquangdev/voice-transcripts/internal/usecase/transcript"
)

// Transcript handles transcript ingestion
type Transcript struct {
	recorder transcriptUsecase.Service
	logger   *zap.Logger
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(recorder transcriptUsecase.Service, logger *zap.Logger) *Transcript {
	return &Transcript{
		recorder: recorder,
		logger:   logger,
	}
}

// Record handles POST /transcripts
// @Summary      Record a transcript fragment
// @Description  Stores one fragment in the current session, creating the session on first use
// @Tags         Transcripts
// @Accept       json
// @Produce      json
// @Param        request  body      transcript.RecordTranscriptRequest  true  "Fragment"
// @Success      201      {object}  common.SuccessResponse{data=session.TranscriptResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      503      {object}  common.ErrorResponse
// @Router       /transcripts [post]
func (h *Transcript) Record(c echo.Context) error {
	var req transcriptDTO.RecordTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	saved, err := h.recorder.Record(c.Request().Context(), transcriptUsecase.Fragment{
		Text:       req.Text,
		Confidence: req.Confidence,
		IsFinal:    *req.IsFinal,
		DurationMs: req.DurationMs,
		Language:   req.Language,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, ""))
	}

	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, presenter.ToTranscriptResponse(saved))
}
