package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/receiptforge/receiptforge/internal/application/service"
	"github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// maxImageBytes bounds uploaded receipt photos and logos.
const maxImageBytes = 10 << 20

// GenerationHandler serves the AI receipt analysis endpoint.
type GenerationHandler struct {
	generationService service.GenerationAppService
	logger            logger.Logger
}

// NewGenerationHandler creates a GenerationHandler.
func NewGenerationHandler(generationService service.GenerationAppService, log logger.Logger) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		logger:            log,
	}
}

// Analyze handles POST /api/v1/generate/analyze. It accepts a multipart
// form with an "image" file and responds with the extraction plus the
// section set a template built from it would start with.
func (h *GenerationHandler) Analyze(c *gin.Context) {
	image, _, mimeType, err := readImageFile(c, "image")
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.generationService.AnalyzeReceipt(c.Request.Context(), image, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

// readImageFile extracts an image file from a multipart form, enforcing
// the size cap and an image content type. Returns the file contents, the
// client-supplied filename and the declared MIME type.
func readImageFile(c *gin.Context, field string) ([]byte, string, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", "", errors.ErrInvalidRequest("missing file").
			WithDetail(field, "multipart file is required")
	}
	if fileHeader.Size > maxImageBytes {
		return nil, "", "", errors.ErrInvalidRequest("file too large").
			WithDetail(field, "must be at most 10 MiB")
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", "", errors.ErrInvalidRequest("unsupported file type").
			WithDetail(field, "must be an image")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", "", errors.ErrInternal("failed to open uploaded file").WithCause(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return nil, "", "", errors.ErrInternal("failed to read uploaded file").WithCause(err)
	}
	if len(data) > maxImageBytes {
		return nil, "", "", errors.ErrInvalidRequest("file too large").
			WithDetail(field, "must be at most 10 MiB")
	}
	return data, fileHeader.Filename, mimeType, nil
}
