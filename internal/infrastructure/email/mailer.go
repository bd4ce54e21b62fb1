// Package email delivers transactional mail through an HTTP mail API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/receiptforge/receiptforge/internal/config"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// Message is a single outbound email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPMailer sends mail through a JSON-over-HTTP mail provider.
type HTTPMailer struct {
	cfg        *config.EmailConfig
	httpClient *http.Client
	logger     logger.Logger
}

// NewHTTPMailer creates a Mailer against the configured provider endpoint.
func NewHTTPMailer(cfg *config.EmailConfig, log logger.Logger) *HTTPMailer {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPMailer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithComponent("HTTPMailer"),
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	ReplyTo string `json:"reply_to,omitempty"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send posts the message to the provider. Provider-side failures surface
// as errors carrying the HTTP status.
func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(sendRequest{
		From:    m.cfg.From,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.logger.Error(ctx, "mail provider unreachable", err)
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		m.logger.Error(ctx, "mail provider rejected message", nil,
			logger.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("mail provider returned status %d: %s", resp.StatusCode, string(body))
	}

	m.logger.Info(ctx, "email sent", logger.String("subject", msg.Subject))
	return nil
}

// NoopMailer discards messages. Used when email delivery is disabled.
type NoopMailer struct{}

func (NoopMailer) Send(context.Context, Message) error { return nil }
