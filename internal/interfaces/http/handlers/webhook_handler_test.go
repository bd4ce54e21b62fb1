package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

type MockBlogAppService struct {
	mock.Mock
}

func (m *MockBlogAppService) IngestWebhook(ctx context.Context, payload *dto.BlogWebhookPayload) (*dto.BlogWebhookResponse, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BlogWebhookResponse), args.Error(1)
}

func (m *MockBlogAppService) ListPosts(ctx context.Context, limit, offset int) ([]dto.BlogPostResponse, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.BlogPostResponse), args.Error(1)
}

func (m *MockBlogAppService) GetPost(ctx context.Context, slug string) (*dto.BlogPostResponse, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BlogPostResponse), args.Error(1)
}

const webhookSecret = "test-webhook-secret"

func newWebhookRouter(svc *MockBlogAppService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewWebhookHandler(svc, webhookSecret, logger.NewNoopLogger())
	router := gin.New()
	router.POST("/webhooks/blog", handler.BlogWebhook)
	return router
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func validPayload() []byte {
	return []byte(`{
		"slug": "receipt-design-tips",
		"title": "Receipt Design Tips",
		"body_html": "<p>tips</p>",
		"published_at": "` + time.Now().UTC().Format(time.RFC3339) + `"
	}`)
}

func TestBlogWebhookAcceptsSignedDelivery(t *testing.T) {
	svc := new(MockBlogAppService)
	router := newWebhookRouter(svc)
	body := validPayload()

	svc.On("IngestWebhook", mock.Anything, mock.MatchedBy(func(p *dto.BlogWebhookPayload) bool {
		return p.Slug == "receipt-design-tips"
	})).Return(&dto.BlogWebhookResponse{Slug: "receipt-design-tips", Created: true}, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/blog", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign(webhookSecret, body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"created":true`)
	svc.AssertExpectations(t)
}

func TestBlogWebhookRejectsBadSignature(t *testing.T) {
	svc := new(MockBlogAppService)
	router := newWebhookRouter(svc)
	body := validPayload()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/blog", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign("wrong-secret", body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "IngestWebhook", mock.Anything, mock.Anything)
}

func TestBlogWebhookRejectsMissingSignature(t *testing.T) {
	svc := new(MockBlogAppService)
	router := newWebhookRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/blog", bytes.NewReader(validPayload()))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBlogWebhookRejectsTamperedBody(t *testing.T) {
	svc := new(MockBlogAppService)
	router := newWebhookRouter(svc)
	body := validPayload()
	signature := sign(webhookSecret, body)

	tampered := bytes.Replace(body, []byte("Receipt Design Tips"), []byte("Totally Legit Post"), 1)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/blog", bytes.NewReader(tampered))
	req.Header.Set(SignatureHeader, signature)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBlogWebhookRejectsMalformedPayload(t *testing.T) {
	svc := new(MockBlogAppService)
	router := newWebhookRouter(svc)
	body := []byte(`{"slug": `)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/blog", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign(webhookSecret, body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlogWebhookRejectsIncompletePayload(t *testing.T) {
	svc := new(MockBlogAppService)
	router := newWebhookRouter(svc)
	body := []byte(`{"slug": "only-a-slug"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/blog", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign(webhookSecret, body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
