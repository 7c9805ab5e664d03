package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tessera-api/internal/dto"
	"github.com/noah-isme/tessera-api/internal/models"
	"github.com/noah-isme/tessera-api/internal/service"
	appErrors "github.com/noah-isme/tessera-api/pkg/errors"
	"github.com/noah-isme/tessera-api/pkg/response"
)

type sectionCatalog interface {
	ListSections(ctx context.Context, filter models.SectionFilter) ([]models.Section, error)
	GetSection(ctx context.Context, id string) (*models.Section, error)
	CreateSection(ctx context.Context, req dto.SectionRequest) (*models.Section, error)
	UpdateSection(ctx context.Context, id string, req dto.SectionRequest) (*models.Section, error)
	DeleteSection(ctx context.Context, id string) error
}

// SectionHandler wires section catalog operations to HTTP routes.
type SectionHandler struct {
	catalog sectionCatalog
}

// NewSectionHandler constructs a SectionHandler.
func NewSectionHandler(catalog *service.CatalogService) *SectionHandler {
	return &SectionHandler{catalog: catalog}
}

// List godoc
// @Summary List sections
// @Tags Catalog
// @Produce json
// @Param course_id query string false "Restrict to one course"
// @Success 200 {object} response.Envelope
// @Router /sections [get]
func (h *SectionHandler) List(c *gin.Context) {
	sections, err := h.catalog.ListSections(c.Request.Context(), models.SectionFilter{CourseID: strings.TrimSpace(c.Query("course_id"))})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}

// Get godoc
// @Summary Get section detail
// @Tags Catalog
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /sections/{id} [get]
func (h *SectionHandler) Get(c *gin.Context) {
	section, err := h.catalog.GetSection(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}

// Create godoc
// @Summary Create section
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.SectionRequest true "Section payload"
// @Success 201 {object} response.Envelope
// @Router /sections [post]
func (h *SectionHandler) Create(c *gin.Context) {
	var req dto.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid section payload"))
		return
	}
	section, err := h.catalog.CreateSection(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, section)
}

// Update godoc
// @Summary Update section
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param payload body dto.SectionRequest true "Section payload"
// @Success 200 {object} response.Envelope
// @Router /sections/{id} [put]
func (h *SectionHandler) Update(c *gin.Context) {
	var req dto.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid section payload"))
		return
	}
	section, err := h.catalog.UpdateSection(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}

// Delete godoc
// @Summary Delete section
// @Tags Catalog
// @Param id path string true "Section ID"
// @Success 204
// @Router /sections/{id} [delete]
func (h *SectionHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeleteSection(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
