// Package models defines the persistent domain models for the ReceiptForge
// service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Template represents a receipt template: a named, slug-addressable, ordered
// sequence of typed sections plus rendering settings.
type Template struct {
	// ID is the unique identifier of the template.
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Name is the display name shown in the editor.
	Name string `gorm:"size:150;not null" json:"name"`

	// Slug is the unique, human-readable URL identifier.
	Slug string `gorm:"size:150;uniqueIndex;not null" json:"slug"`

	// Sections is the ordered sequence of receipt sections. Order is
	// significant: it determines rendering order on the receipt.
	Sections []Section `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"sections"`

	// Settings holds template-wide rendering configuration.
	Settings TemplateSettings `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`

	// SEOContent is an optional content blob rendered on the template's
	// public page.
	SEOContent string `gorm:"type:text" json:"seo_content,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateSettings holds template-wide rendering configuration.
type TemplateSettings struct {
	CurrencySymbol    string `gorm:"size:8" json:"currency_symbol"`
	CurrencyFormat    string `gorm:"size:32" json:"currency_format"`
	FontFamily        string `gorm:"size:64" json:"font_family"`
	TextColor         string `gorm:"size:16" json:"text_color"`
	BackgroundTexture string `gorm:"size:64" json:"background_texture"`
}

// DefaultTemplateSettings returns the settings applied to a new template.
func DefaultTemplateSettings() TemplateSettings {
	return TemplateSettings{
		CurrencySymbol:    "$",
		CurrencyFormat:    "{symbol}{amount}",
		FontFamily:        "monospace",
		TextColor:         "#1a1a1a",
		BackgroundTexture: "plain",
	}
}
