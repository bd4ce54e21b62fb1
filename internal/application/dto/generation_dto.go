package dto

import "github.com/receiptforge/receiptforge/internal/domain/sections"

// GeneratedSectionDTO is one suggested section produced from an analyzed
// receipt image. Validated settings only; positions follow slice order.
type GeneratedSectionDTO struct {
	Type     string            `json:"type"`
	Settings sections.Settings `json:"settings"`
}

// AnalyzeResponse carries the extraction result of a receipt image plus the
// sections a template built from it would start with.
type AnalyzeResponse struct {
	BusinessName  string                `json:"business_name"`
	Address       string                `json:"address"`
	Phone         string                `json:"phone,omitempty"`
	Subtotal      string                `json:"subtotal"`
	Tax           string                `json:"tax"`
	Total         string                `json:"total"`
	PaymentMethod string                `json:"payment_method"`
	Sections      []GeneratedSectionDTO `json:"sections"`
}

// UploadResponse is returned after an asset upload.
type UploadResponse struct {
	URL string `json:"url"`
}
