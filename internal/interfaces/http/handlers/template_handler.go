package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/internal/application/service"
	"github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// TemplateHandler serves the template CRUD and section editing endpoints.
type TemplateHandler struct {
	templateService service.TemplateAppService
	logger          logger.Logger
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(templateService service.TemplateAppService, log logger.Logger) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		logger:          log,
	}
}

// Create handles POST /api/v1/templates.
func (h *TemplateHandler) Create(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ErrInvalidRequest(err.Error()))
		return
	}

	resp, err := h.templateService.CreateTemplate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, resp)
}

// List handles GET /api/v1/templates.
func (h *TemplateHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.templateService.ListTemplates(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

// GetBySlug handles GET /api/v1/templates/:slug.
func (h *TemplateHandler) GetBySlug(c *gin.Context) {
	resp, err := h.templateService.GetTemplateBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

// Update handles PUT /api/v1/templates/:id.
func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ErrInvalidRequest(err.Error()))
		return
	}

	resp, err := h.templateService.UpdateTemplate(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

// Delete handles DELETE /api/v1/templates/:id.
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSection handles POST /api/v1/templates/:id/sections.
func (h *TemplateHandler) AddSection(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ErrInvalidRequest(err.Error()))
		return
	}

	resp, err := h.templateService.AddSection(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, resp)
}

// UpdateSectionField handles PUT /api/v1/templates/:id/sections/:section_id.
func (h *TemplateHandler) UpdateSectionField(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sectionID, ok := pathUUID(c, "section_id")
	if !ok {
		return
	}

	var req dto.UpdateSectionFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ErrInvalidRequest(err.Error()))
		return
	}

	resp, err := h.templateService.UpdateSectionField(c.Request.Context(), id, sectionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

// ReorderSections handles PUT /api/v1/templates/:id/sections/order.
func (h *TemplateHandler) ReorderSections(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.ReorderSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ErrInvalidRequest(err.Error()))
		return
	}

	if err := h.templateService.ReorderSections(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSection handles DELETE /api/v1/templates/:id/sections/:section_id.
func (h *TemplateHandler) DeleteSection(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sectionID, ok := pathUUID(c, "section_id")
	if !ok {
		return
	}

	if err := h.templateService.DeleteSection(c.Request.Context(), id, sectionID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathUUID parses a UUID path parameter, responding with a 400 when it is
// malformed.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, errors.ErrInvalidRequest("invalid "+name).WithDetail(name, "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
