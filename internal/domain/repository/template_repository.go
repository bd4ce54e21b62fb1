// Package repository defines the storage interfaces for the domain models.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/receiptforge/receiptforge/internal/domain/models"
)

// TemplateRepository defines the interface for template storage.
type TemplateRepository interface {
	// Save persists a new template with its sections.
	Save(ctx context.Context, template *models.Template) error

	// FindByID retrieves a template with its sections ordered by position.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error)

	// FindBySlug retrieves a template by its unique slug.
	FindBySlug(ctx context.Context, slug string) (*models.Template, error)

	// FindAll retrieves templates with pagination, newest first.
	FindAll(ctx context.Context, limit, offset int) ([]*models.Template, int64, error)

	// Update persists changes to the template record itself (name,
	// settings, SEO content), not its sections.
	Update(ctx context.Context, template *models.Template) error

	// Delete removes a template and its sections.
	Delete(ctx context.Context, id uuid.UUID) error

	// SaveSection inserts or updates a single section.
	SaveSection(ctx context.Context, section *models.Section) error

	// DeleteSection removes a section from a template.
	DeleteSection(ctx context.Context, templateID, sectionID uuid.UUID) error

	// ReorderSections rewrites the position of each section to match the
	// given ID order.
	ReorderSections(ctx context.Context, templateID uuid.UUID, orderedIDs []uuid.UUID) error
}
