package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tessera-api/internal/dto"
	"github.com/noah-isme/tessera-api/internal/middleware"
	"github.com/noah-isme/tessera-api/internal/service"
	appErrors "github.com/noah-isme/tessera-api/pkg/errors"
	"github.com/noah-isme/tessera-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
}

type scheduleExporter interface {
	Export(ctx context.Context, req dto.GenerateScheduleRequest, format string) (*service.ExportFile, error)
}

// ScheduleHandler exposes schedule generation endpoints.
type ScheduleHandler struct {
	generator scheduleGenerator
	exporter  scheduleExporter
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(generator *service.ScheduleService, exporter *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{generator: generator, exporter: exporter}
}

// Generate godoc
// @Summary Generate the best schedule for a course selection
// @Description Returns found=false with a null schedule when no feasible combination exists. Malformed preference fields are ignored and listed in meta.ignored_preferences.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Course selection and preferences"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	req, ok := bindGenerateRequest(c)
	if !ok {
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, result.Stats.Cached)
	if len(result.IgnoredPreferences) > 0 {
		middleware.SetMeta(c, "ignored_preferences", result.IgnoredPreferences)
	}
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Generate a schedule and download it
// @Tags Schedules
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param payload body dto.GenerateScheduleRequest true "Course selection and preferences"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /schedules/export [post]
func (h *ScheduleHandler) Export(c *gin.Context) {
	req, ok := bindGenerateRequest(c)
	if !ok {
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), req, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func bindGenerateRequest(c *gin.Context) (dto.GenerateScheduleRequest, bool) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return req, false
	}
	return req, true
}
