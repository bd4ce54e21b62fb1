// Package vision provides the AI receipt analysis client. It talks to an
// OpenAI-compatible chat completions endpoint with an image attachment and
// a JSON-output prompt, and returns the structured fields extracted from
// the receipt photo.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/receiptforge/receiptforge/internal/config"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// ExtractedItem is one line item read off a receipt photo. Quantity and
// price are decimal text, matching the template model's format contract.
type ExtractedItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// Extraction is the structured result of analyzing a receipt image.
type Extraction struct {
	BusinessName  string          `json:"business_name"`
	Address       string          `json:"address"`
	Phone         string          `json:"phone"`
	Items         []ExtractedItem `json:"items"`
	Subtotal      string          `json:"subtotal"`
	Tax           string          `json:"tax"`
	Total         string          `json:"total"`
	PaymentMethod string          `json:"payment_method"`
}

// Client analyzes receipt images.
type Client interface {
	AnalyzeReceipt(ctx context.Context, image []byte, mimeType string) (*Extraction, error)
}

const systemPrompt = `You extract structured data from photos of purchase receipts. ` +
	`Respond with a single JSON object with these keys: business_name, address, phone, ` +
	`subtotal, tax, total, payment_method (all strings; amounts as plain decimal text ` +
	`without currency symbols) and items (array of {name, quantity, price}, quantity and ` +
	`price as decimal text). Use "" for anything not visible.`

// OpenAIClient implements Client against an OpenAI-compatible API.
type OpenAIClient struct {
	cfg    *config.VisionConfig
	http   *http.Client
	logger logger.Logger
}

// NewOpenAIClient creates a vision client from configuration.
func NewOpenAIClient(cfg *config.VisionConfig, log logger.Logger) *OpenAIClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &OpenAIClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: log.WithComponent("VisionClient"),
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeReceipt sends the image to the vision model and decodes the
// extracted receipt fields.
func (c *OpenAIClient) AnalyzeReceipt(ctx context.Context, image []byte, mimeType string) (*Extraction, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: "Extract the data from this receipt."},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			}},
		},
		ResponseFormat: &respFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error(ctx, "vision API returned an error", nil,
			logger.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("vision API status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, fmt.Errorf("failed to decode vision response: %w", err)
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("vision API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("vision API returned no choices")
	}

	var extraction Extraction
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &extraction); err != nil {
		return nil, fmt.Errorf("model did not return valid extraction JSON: %w", err)
	}

	c.logger.Info(ctx, "receipt analyzed",
		logger.Int("items", len(extraction.Items)),
		logger.Duration("latency", time.Since(start)),
	)
	return &extraction, nil
}
