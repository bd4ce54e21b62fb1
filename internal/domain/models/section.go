package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/receiptforge/receiptforge/internal/domain/sections"
)

// Divider styles rendered after a section.
const (
	DividerSolid  = "solid"
	DividerDashed = "dashed"
	DividerDotted = "dotted"
)

// ValidDividerStyle reports whether s is a known divider style.
func ValidDividerStyle(s string) bool {
	switch s {
	case DividerSolid, DividerDashed, DividerDotted:
		return true
	}
	return false
}

// Section is one typed, orderable block of a receipt template. The settings
// payload is stored as JSON text so the decimal-as-text contract for
// quantities and prices survives storage untouched.
type Section struct {
	// ID is unique within the template.
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// TemplateID references the owning template.
	TemplateID uuid.UUID `gorm:"type:uuid;index;not null" json:"template_id"`

	// Type is the section kind tag, drawn from the closed set in the
	// sections package.
	Type sections.Type `gorm:"size:32;not null" json:"type"`

	// Position determines rendering order within the template.
	Position int `gorm:"not null" json:"position"`

	// ShowDivider controls whether a divider renders after the section.
	ShowDivider bool `json:"show_divider"`

	// DividerStyle is the divider's visual style.
	DividerStyle string `gorm:"size:16" json:"divider_style"`

	// SettingsJSON is the kind-specific settings payload as JSON text.
	SettingsJSON string `gorm:"type:text;column:settings" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Settings decodes the stored settings payload into its wire form.
func (s *Section) Settings() (sections.Settings, error) {
	if s.SettingsJSON == "" {
		return sections.Settings{}, nil
	}
	out := sections.Settings{}
	if err := json.Unmarshal([]byte(s.SettingsJSON), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetSettings encodes a settings payload for storage.
func (s *Section) SetSettings(settings sections.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	s.SettingsJSON = string(raw)
	return nil
}

// NewSection constructs a section of the given kind with its default
// settings payload. It returns sections.ErrUnknownType for a tag outside
// the closed set.
func NewSection(templateID uuid.UUID, typ sections.Type, position int) (*Section, error) {
	defaults, err := sections.DefaultsFor(typ)
	if err != nil {
		return nil, err
	}

	section := &Section{
		ID:           uuid.New(),
		TemplateID:   templateID,
		Type:         typ,
		Position:     position,
		ShowDivider:  true,
		DividerStyle: DividerDashed,
	}
	if err := section.SetSettings(defaults); err != nil {
		return nil, err
	}
	return section, nil
}
