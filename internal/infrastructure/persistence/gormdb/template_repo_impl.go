package gormdb

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/receiptforge/receiptforge/internal/domain/models"
	"github.com/receiptforge/receiptforge/internal/domain/repository"
	"github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// TemplateRepoImpl implements TemplateRepository on gorm.
type TemplateRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewTemplateRepository creates a gorm-backed template repository.
func NewTemplateRepository(conn *DBConnection, log logger.Logger) repository.TemplateRepository {
	return &TemplateRepoImpl{
		db:     conn.DB,
		logger: log.WithComponent("TemplateRepository"),
	}
}

// Save persists a new template with its sections.
func (r *TemplateRepoImpl) Save(ctx context.Context, template *models.Template) error {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrConflict(fmt.Sprintf("template slug %q already exists", template.Slug))
		}
		r.logger.Error(ctx, "failed to create template", err,
			logger.String("slug", template.Slug),
		)
		return fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}

	r.logger.Info(ctx, "template created",
		logger.String("template_id", template.ID.String()),
		logger.String("slug", template.Slug),
	)
	return nil
}

// FindByID retrieves a template with its sections ordered by position.
func (r *TemplateRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	var template models.Template
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&template, "id = ?", id).Error

	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound("template", id.String())
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}
	return &template, nil
}

// FindBySlug retrieves a template by its unique slug.
func (r *TemplateRepoImpl) FindBySlug(ctx context.Context, slug string) (*models.Template, error) {
	var template models.Template
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&template, "slug = ?", slug).Error

	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound("template", slug)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}
	return &template, nil
}

// FindAll retrieves templates with pagination, newest first. Sections are
// not loaded for listings.
func (r *TemplateRepoImpl) FindAll(ctx context.Context, limit, offset int) ([]*models.Template, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Template{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}

	var templates []*models.Template
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&templates).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}
	return templates, total, nil
}

// Update persists changes to the template record itself.
func (r *TemplateRepoImpl) Update(ctx context.Context, template *models.Template) error {
	result := r.db.WithContext(ctx).
		Model(&models.Template{}).
		Where("id = ?", template.ID).
		Select("name", "slug", "seo_content",
			"settings_currency_symbol", "settings_currency_format",
			"settings_font_family", "settings_text_color", "settings_background_texture",
			"updated_at").
		Updates(template)

	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errors.ErrConflict(fmt.Sprintf("template slug %q already exists", template.Slug))
		}
		return fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound("template", template.ID.String())
	}
	return nil
}

// Delete removes a template and its sections.
func (r *TemplateRepoImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&models.Section{}).Error; err != nil {
			return fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
		}
		result := tx.Delete(&models.Template{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.ErrNotFound("template", id.String())
		}
		return nil
	})
}

// SaveSection inserts or updates a single section.
func (r *TemplateRepoImpl) SaveSection(ctx context.Context, section *models.Section) error {
	if err := r.db.WithContext(ctx).Save(section).Error; err != nil {
		r.logger.Error(ctx, "failed to save section", err,
			logger.String("section_id", section.ID.String()),
		)
		return fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}
	return nil
}

// DeleteSection removes a section from a template.
func (r *TemplateRepoImpl) DeleteSection(ctx context.Context, templateID, sectionID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Delete(&models.Section{}, "id = ?", sectionID)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound("section", sectionID.String())
	}
	return nil
}

// ReorderSections rewrites positions to match the given ID order inside one
// transaction, so a concurrent read never sees a half-applied order.
func (r *TemplateRepoImpl) ReorderSections(ctx context.Context, templateID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for position, sectionID := range orderedIDs {
			result := tx.Model(&models.Section{}).
				Where("id = ? AND template_id = ?", sectionID, templateID).
				Update("position", position)
			if result.Error != nil {
				return fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, result.Error)
			}
			if result.RowsAffected == 0 {
				return errors.ErrNotFound("section", sectionID.String())
			}
		}
		return nil
	})
}
