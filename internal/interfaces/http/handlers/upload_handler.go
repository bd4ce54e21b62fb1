package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/internal/infrastructure/storage"
	"github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// UploadHandler serves asset uploads (template logos).
type UploadHandler struct {
	store  storage.ObjectStore
	logger logger.Logger
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(store storage.ObjectStore, log logger.Logger) *UploadHandler {
	return &UploadHandler{
		store:  store,
		logger: log,
	}
}

// UploadLogo handles POST /api/v1/uploads/logo. It accepts a multipart
// form with a "logo" image file and responds with its public URL.
func (h *UploadHandler) UploadLogo(c *gin.Context) {
	if h.store == nil {
		respondError(c, errors.ErrServiceUnavailable("upload storage is not configured"))
		return
	}

	data, filename, mimeType, err := readImageFile(c, "logo")
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := h.store.Put(c.Request.Context(), filename, mimeType, data)
	if err != nil {
		respondError(c, errors.ErrServiceUnavailable("upload storage is unavailable").WithCause(err))
		return
	}

	respondOK(c, http.StatusCreated, dto.UploadResponse{URL: url})
}
