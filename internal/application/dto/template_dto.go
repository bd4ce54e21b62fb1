package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/receiptforge/receiptforge/internal/domain/models"
	"github.com/receiptforge/receiptforge/internal/domain/sections"
)

// TemplateSettingsDTO mirrors the template-wide display settings.
type TemplateSettingsDTO struct {
	CurrencySymbol    string `json:"currency_symbol"`
	CurrencyFormat    string `json:"currency_format"`
	FontFamily        string `json:"font_family"`
	TextColor         string `json:"text_color"`
	BackgroundTexture string `json:"background_texture"`
}

// CreateTemplateRequest creates a named template. The slug is derived from
// the name when not given.
type CreateTemplateRequest struct {
	Name     string               `json:"name" binding:"required,min=1,max=120"`
	Slug     string               `json:"slug,omitempty" binding:"omitempty,slug"`
	Settings *TemplateSettingsDTO `json:"settings,omitempty"`
}

// UpdateTemplateRequest updates template metadata. Nil fields are left
// untouched.
type UpdateTemplateRequest struct {
	Name       *string              `json:"name,omitempty" binding:"omitempty,min=1,max=120"`
	SEOContent *string              `json:"seo_content,omitempty"`
	Settings   *TemplateSettingsDTO `json:"settings,omitempty"`
}

// AddSectionRequest appends a section of the given type with its defaults.
type AddSectionRequest struct {
	Type string `json:"type" binding:"required"`
}

// UpdateSectionFieldRequest applies a single settings field update.
type UpdateSectionFieldRequest struct {
	Field string      `json:"field" binding:"required"`
	Value interface{} `json:"value"`
}

// ReorderSectionsRequest replaces the section ordering of a template.
type ReorderSectionsRequest struct {
	SectionIDs []uuid.UUID `json:"section_ids" binding:"required,min=1"`
}

// SectionResponse represents one section of a template.
type SectionResponse struct {
	ID           uuid.UUID         `json:"id"`
	Type         string            `json:"type"`
	Position     int               `json:"position"`
	ShowDivider  bool              `json:"show_divider"`
	DividerStyle string            `json:"divider_style"`
	Settings     sections.Settings `json:"settings"`
}

// TemplateResponse represents a full template with its ordered sections.
type TemplateResponse struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	Slug       string              `json:"slug"`
	Settings   TemplateSettingsDTO `json:"settings"`
	SEOContent string              `json:"seo_content,omitempty"`
	Sections   []SectionResponse   `json:"sections"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// TemplateSummary is the list-view projection of a template.
type TemplateSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	SectionCount int       `json:"section_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListTemplatesResponse is a page of template summaries.
type ListTemplatesResponse struct {
	Templates  []TemplateSummary  `json:"templates"`
	Pagination PaginationResponse `json:"pagination"`
}

// NewTemplateResponse maps a domain template onto its API shape.
func NewTemplateResponse(t *models.Template) (*TemplateResponse, error) {
	resp := &TemplateResponse{
		ID:   t.ID,
		Name: t.Name,
		Slug: t.Slug,
		Settings: TemplateSettingsDTO{
			CurrencySymbol:    t.Settings.CurrencySymbol,
			CurrencyFormat:    t.Settings.CurrencyFormat,
			FontFamily:        t.Settings.FontFamily,
			TextColor:         t.Settings.TextColor,
			BackgroundTexture: t.Settings.BackgroundTexture,
		},
		SEOContent: t.SEOContent,
		Sections:   make([]SectionResponse, 0, len(t.Sections)),
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}

	for _, sec := range t.Sections {
		settings, err := sec.Settings()
		if err != nil {
			return nil, err
		}
		resp.Sections = append(resp.Sections, SectionResponse{
			ID:           sec.ID,
			Type:         string(sec.Type),
			Position:     sec.Position,
			ShowDivider:  sec.ShowDivider,
			DividerStyle: sec.DividerStyle,
			Settings:     settings,
		})
	}
	return resp, nil
}

// NewSectionResponse maps a single domain section onto its API shape.
func NewSectionResponse(sec *models.Section) (*SectionResponse, error) {
	settings, err := sec.Settings()
	if err != nil {
		return nil, err
	}
	return &SectionResponse{
		ID:           sec.ID,
		Type:         string(sec.Type),
		Position:     sec.Position,
		ShowDivider:  sec.ShowDivider,
		DividerStyle: sec.DividerStyle,
		Settings:     settings,
	}, nil
}

// NewTemplateSummary maps a domain template onto its list projection.
func NewTemplateSummary(t *models.Template) TemplateSummary {
	return TemplateSummary{
		ID:           t.ID,
		Name:         t.Name,
		Slug:         t.Slug,
		SectionCount: len(t.Sections),
		UpdatedAt:    t.UpdatedAt,
	}
}
