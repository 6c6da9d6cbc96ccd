package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/challenge-schedule/internal/dto"
	"github.com/noah-isme/challenge-schedule/internal/models"
	"github.com/noah-isme/challenge-schedule/pkg/response"
)

type scheduleService interface {
	Fetch(ctx context.Context) (*models.ChallengeData, error)
	Grouped(ctx context.Context) (*dto.ScheduleResponse, error)
	Export(ctx context.Context, req dto.ScheduleExportRequest) (*dto.ScheduleExport, error)
}

// ScheduleHandler exposes the normalized challenge schedule.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Challenge godoc
// @Summary Normalized challenge
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /challenge [get]
func (h *ScheduleHandler) Challenge(c *gin.Context) {
	data, err := h.service.Fetch(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data, map[string]interface{}{
		"calendarEntries": len(data.Calendar),
	})
}

// Schedule godoc
// @Summary Month-grouped schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Schedule(c *gin.Context) {
	grouped, err := h.service.Grouped(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grouped)
}

// Export godoc
// @Summary Download the schedule
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	req := dto.ScheduleExportRequest{Format: c.DefaultQuery("format", "csv")}
	out, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, out.Filename, out.ContentType, out.Body)
}
