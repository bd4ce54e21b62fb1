package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/internal/application/service"
	"github.com/receiptforge/receiptforge/pkg/constants"
	"github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Webhook-Signature"

// maxWebhookBytes bounds inbound webhook bodies.
const maxWebhookBytes = 2 << 20

// WebhookHandler serves the signed blog content ingestion endpoint.
type WebhookHandler struct {
	blogService service.BlogAppService
	secret      []byte
	logger      logger.Logger
}

// NewWebhookHandler creates a WebhookHandler with the shared signing secret.
func NewWebhookHandler(blogService service.BlogAppService, secret string, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		blogService: blogService,
		secret:      []byte(secret),
		logger:      log,
	}
}

// BlogWebhook handles POST /api/v1/webhooks/blog. The signature is verified
// over the raw body before any parsing happens; an unsigned or mis-signed
// delivery is rejected without touching its contents.
func (h *WebhookHandler) BlogWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		respondError(c, errors.ErrInvalidRequest("failed to read request body"))
		return
	}

	if !h.verifySignature(body, c.GetHeader(SignatureHeader)) {
		h.logger.Warn(c.Request.Context(), "webhook signature verification failed",
			logger.String("remote_addr", c.Request.RemoteAddr),
		)
		respondError(c, errors.New(constants.ErrCodeUnauthorized, http.StatusUnauthorized, "invalid webhook signature"))
		return
	}

	var payload dto.BlogWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		respondError(c, errors.ErrInvalidRequest("malformed webhook payload"))
		return
	}
	if payload.Slug == "" || payload.Title == "" || payload.BodyHTML == "" || payload.PublishedAt.IsZero() {
		respondError(c, errors.ErrInvalidRequest("missing required webhook fields"))
		return
	}

	resp, err := h.blogService.IngestWebhook(c.Request.Context(), &payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" || len(h.secret) == 0 {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	return hmac.Equal(provided, mac.Sum(nil))
}
