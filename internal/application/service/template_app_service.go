// Package service implements the application-layer use cases that sit
// between the HTTP handlers and the domain.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/internal/domain/models"
	"github.com/receiptforge/receiptforge/internal/domain/repository"
	"github.com/receiptforge/receiptforge/internal/domain/sections"
	"github.com/receiptforge/receiptforge/internal/infrastructure/cache"
	"github.com/receiptforge/receiptforge/internal/infrastructure/events"
	"github.com/receiptforge/receiptforge/internal/infrastructure/monitoring"
	"github.com/receiptforge/receiptforge/pkg/constants"
	"github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
	"github.com/receiptforge/receiptforge/pkg/utils"
)

// TemplateAppService defines the template management use cases.
type TemplateAppService interface {
	// CreateTemplate creates a named template with the default section
	// layout.
	CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error)

	// GetTemplateBySlug retrieves a template for its public page. Reads go
	// through the template cache.
	GetTemplateBySlug(ctx context.Context, slug string) (*dto.TemplateResponse, error)

	// GetTemplateByID retrieves a template for the editor.
	GetTemplateByID(ctx context.Context, id uuid.UUID) (*dto.TemplateResponse, error)

	// ListTemplates retrieves a page of template summaries.
	ListTemplates(ctx context.Context, limit, offset int) (*dto.ListTemplatesResponse, error)

	// UpdateTemplate updates template metadata (name, settings, SEO).
	UpdateTemplate(ctx context.Context, id uuid.UUID, req *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error)

	// DeleteTemplate removes a template and its sections.
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	// AddSection appends a section of the given type with its defaults.
	AddSection(ctx context.Context, templateID uuid.UUID, req *dto.AddSectionRequest) (*dto.SectionResponse, error)

	// UpdateSectionField applies one settings field update, validates the
	// result, and persists it.
	UpdateSectionField(ctx context.Context, templateID, sectionID uuid.UUID, req *dto.UpdateSectionFieldRequest) (*dto.SectionResponse, error)

	// ReorderSections rewrites the section order of a template.
	ReorderSections(ctx context.Context, templateID uuid.UUID, req *dto.ReorderSectionsRequest) error

	// DeleteSection removes one section from a template.
	DeleteSection(ctx context.Context, templateID, sectionID uuid.UUID) error
}

// defaultLayout is the section sequence a fresh template starts with.
var defaultLayout = []sections.Type{
	sections.TypeHeader,
	sections.TypeItemsList,
	sections.TypePayment,
	sections.TypeDateTime,
}

type templateAppServiceImpl struct {
	repo      repository.TemplateRepository
	cache     *cache.TemplateCache
	publisher events.Publisher
	metrics   *monitoring.Metrics
	logger    logger.Logger
}

// NewTemplateAppService creates a TemplateAppService.
func NewTemplateAppService(
	repo repository.TemplateRepository,
	templateCache *cache.TemplateCache,
	publisher events.Publisher,
	metrics *monitoring.Metrics,
	log logger.Logger,
) TemplateAppService {
	return &templateAppServiceImpl{
		repo:      repo,
		cache:     templateCache,
		publisher: publisher,
		metrics:   metrics,
		logger:    log.WithComponent("TemplateAppService"),
	}
}

func (s *templateAppServiceImpl) CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}
	if !utils.IsValidSlug(slug) {
		return nil, errors.ErrInvalidRequest("invalid slug").WithDetail("slug", "must be lowercase letters, digits and hyphens")
	}

	template := &models.Template{
		ID:       uuid.New(),
		Name:     req.Name,
		Slug:     slug,
		Settings: models.DefaultTemplateSettings(),
	}
	applySettingsDTO(&template.Settings, req.Settings)

	for i, typ := range defaultLayout {
		section, err := models.NewSection(template.ID, typ, i)
		if err != nil {
			return nil, errors.ErrInternal("failed to build default sections").WithCause(err)
		}
		template.Sections = append(template.Sections, *section)
	}

	if err := s.repo.Save(ctx, template); err != nil {
		s.metrics.RecordTemplateOperation("create", "error")
		return nil, err
	}

	s.metrics.RecordTemplateOperation("create", "success")
	s.publishTemplateEvent(ctx, events.TypeTemplateCreated, template)
	s.logger.Info(ctx, "template created",
		logger.String("template_id", template.ID.String()),
		logger.String("slug", template.Slug),
	)
	return dto.NewTemplateResponse(template)
}

func (s *templateAppServiceImpl) GetTemplateBySlug(ctx context.Context, slug string) (*dto.TemplateResponse, error) {
	if cached, ok := s.cache.Get(slug); ok {
		return dto.NewTemplateResponse(cached)
	}

	template, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.cache.Set(template)
	return dto.NewTemplateResponse(template)
}

func (s *templateAppServiceImpl) GetTemplateByID(ctx context.Context, id uuid.UUID) (*dto.TemplateResponse, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewTemplateResponse(template)
}

func (s *templateAppServiceImpl) ListTemplates(ctx context.Context, limit, offset int) (*dto.ListTemplatesResponse, error) {
	if limit <= 0 {
		limit = constants.DefaultPageLimit
	}
	if limit > constants.MaxPageLimit {
		limit = constants.MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	templates, total, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListTemplatesResponse{
		Templates: make([]dto.TemplateSummary, 0, len(templates)),
		Pagination: dto.PaginationResponse{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}
	for _, t := range templates {
		resp.Templates = append(resp.Templates, dto.NewTemplateSummary(t))
	}
	return resp, nil
}

func (s *templateAppServiceImpl) UpdateTemplate(ctx context.Context, id uuid.UUID, req *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.SEOContent != nil {
		template.SEOContent = *req.SEOContent
	}
	applySettingsDTO(&template.Settings, req.Settings)

	if err := s.repo.Update(ctx, template); err != nil {
		s.metrics.RecordTemplateOperation("update", "error")
		return nil, err
	}

	s.cache.Invalidate(template.Slug)
	s.metrics.RecordTemplateOperation("update", "success")
	s.publishTemplateEvent(ctx, events.TypeTemplateUpdated, template)
	return dto.NewTemplateResponse(template)
}

func (s *templateAppServiceImpl) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.metrics.RecordTemplateOperation("delete", "error")
		return err
	}

	s.cache.Invalidate(template.Slug)
	s.metrics.RecordTemplateOperation("delete", "success")
	s.publishTemplateEvent(ctx, events.TypeTemplateDeleted, template)
	s.logger.Info(ctx, "template deleted", logger.String("template_id", id.String()))
	return nil
}

func (s *templateAppServiceImpl) AddSection(ctx context.Context, templateID uuid.UUID, req *dto.AddSectionRequest) (*dto.SectionResponse, error) {
	template, err := s.repo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	typ := sections.Type(req.Type)
	section, err := models.NewSection(templateID, typ, len(template.Sections))
	if err != nil {
		return nil, errors.ErrValidation("invalid section type").
			WithDetail("type", "unknown section type: "+req.Type).
			WithCause(err)
	}

	if err := s.repo.SaveSection(ctx, section); err != nil {
		return nil, err
	}

	s.cache.Invalidate(template.Slug)
	s.publishTemplateEvent(ctx, events.TypeTemplateUpdated, template)
	return dto.NewSectionResponse(section)
}

func (s *templateAppServiceImpl) UpdateSectionField(ctx context.Context, templateID, sectionID uuid.UUID, req *dto.UpdateSectionFieldRequest) (*dto.SectionResponse, error) {
	template, err := s.repo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	var section *models.Section
	for i := range template.Sections {
		if template.Sections[i].ID == sectionID {
			section = &template.Sections[i]
			break
		}
	}
	if section == nil {
		return nil, errors.ErrNotFound("section", sectionID.String())
	}

	current, err := section.Settings()
	if err != nil {
		return nil, errors.ErrInternal("failed to decode section settings").WithCause(err)
	}

	updated := sections.ApplyFieldUpdate(section.Type, current, req.Field, req.Value)
	validated, fieldErrs := sections.Validate(section.Type, updated)
	if len(fieldErrs) > 0 {
		appErr := errors.ErrValidation("section settings failed validation")
		for _, fe := range fieldErrs {
			appErr = appErr.WithDetail(fe.Field, fe.Message)
		}
		return nil, appErr
	}

	if err := section.SetSettings(validated); err != nil {
		return nil, errors.ErrInternal("failed to encode section settings").WithCause(err)
	}
	if err := s.repo.SaveSection(ctx, section); err != nil {
		return nil, err
	}

	s.cache.Invalidate(template.Slug)
	s.publishTemplateEvent(ctx, events.TypeTemplateUpdated, template)
	return dto.NewSectionResponse(section)
}

func (s *templateAppServiceImpl) ReorderSections(ctx context.Context, templateID uuid.UUID, req *dto.ReorderSectionsRequest) error {
	template, err := s.repo.FindByID(ctx, templateID)
	if err != nil {
		return err
	}
	if len(req.SectionIDs) != len(template.Sections) {
		return errors.ErrInvalidRequest("section order must list every section exactly once").
			WithDetail("section_ids", "length does not match section count")
	}

	if err := s.repo.ReorderSections(ctx, templateID, req.SectionIDs); err != nil {
		return err
	}

	s.cache.Invalidate(template.Slug)
	s.publishTemplateEvent(ctx, events.TypeTemplateUpdated, template)
	return nil
}

func (s *templateAppServiceImpl) DeleteSection(ctx context.Context, templateID, sectionID uuid.UUID) error {
	template, err := s.repo.FindByID(ctx, templateID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSection(ctx, templateID, sectionID); err != nil {
		return err
	}

	s.cache.Invalidate(template.Slug)
	s.publishTemplateEvent(ctx, events.TypeTemplateUpdated, template)
	return nil
}

// publishTemplateEvent emits a template lifecycle event. Publish failures
// are logged, not surfaced: the write already committed.
func (s *templateAppServiceImpl) publishTemplateEvent(ctx context.Context, eventType string, template *models.Template) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]interface{}{
			"template_id": template.ID.String(),
			"slug":        template.Slug,
		},
	})
	if err != nil {
		s.logger.Warn(ctx, "failed to publish template event",
			logger.String("event_type", eventType),
			logger.Err(err),
		)
	}
}

func applySettingsDTO(target *models.TemplateSettings, src *dto.TemplateSettingsDTO) {
	if src == nil {
		return
	}
	if src.CurrencySymbol != "" {
		target.CurrencySymbol = src.CurrencySymbol
	}
	if src.CurrencyFormat != "" {
		target.CurrencyFormat = src.CurrencyFormat
	}
	if src.FontFamily != "" {
		target.FontFamily = src.FontFamily
	}
	if src.TextColor != "" {
		target.TextColor = src.TextColor
	}
	if src.BackgroundTexture != "" {
		target.BackgroundTexture = src.BackgroundTexture
	}
}
