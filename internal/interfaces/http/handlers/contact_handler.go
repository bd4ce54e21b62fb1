package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/internal/application/service"
	"github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// ContactHandler serves the contact form endpoint.
type ContactHandler struct {
	contactService service.ContactAppService
	logger         logger.Logger
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(contactService service.ContactAppService, log logger.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         log,
	}
}

// Submit handles POST /api/v1/contact.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ErrInvalidRequest(err.Error()))
		return
	}

	if err := h.contactService.Submit(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
