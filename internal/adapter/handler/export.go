package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	sessionDTO "github.com/johnquangdev/voice-transcripts/internal/adapter/dto/session"
	"github.com/johnquangdev/voice-transcripts/internal/adapter/presenter"
	exportUsecase "github.com/johnquangdev/voice-transcripts/internal/usecase/export"
)

// Export handles session exports to object storage
type Export struct {
	exportService exportUsecase.Service
	logger        *zap.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService exportUsecase.Service, logger *zap.Logger) *Export {
	return &Export{
		exportService: exportService,
		logger:        logger,
	}
}

// ExportSession handles POST /sessions/:id/export
// @Summary      Export a session
// @Description  Uploads the session and its transcripts as JSON and returns a presigned download URL
// @Tags         Exports
// @Produce      json
// @Param        id   path      string  true  "Session ID (UUID)"
// @Success      201  {object}  common.SuccessResponse{data=session.ExportResponse}
// @Failure      404  {object}  common.ErrorResponse
// @Failure      503  {object}  common.ErrorResponse
// @Router       /sessions/{id}/export [post]
func (h *Export) ExportSession(c echo.Context) error {
	id, err := parseSessionID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	res, err := h.exportService.ExportSession(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, id.String()))
	}
	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, presenter.ToExportResponse(res))
}

// ListExports handles GET /sessions/:id/exports
// @Summary      List exports of a session
// @Tags         Exports
// @Produce      json
// @Param        id   path      string  true  "Session ID (UUID)"
// @Success      200  {object}  common.SuccessResponse{data=session.ExportListResponse}
// @Failure      503  {object}  common.ErrorResponse
// @Router       /sessions/{id}/exports [get]
func (h *Export) ListExports(c echo.Context) error {
	id, err := parseSessionID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	objects, err := h.exportService.ListExports(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, id.String()))
	}
	if objects == nil {
		objects = []string{}
	}
	return HandleSuccess(h.logger, c, &sessionDTO.ExportListResponse{Objects: objects})
}
