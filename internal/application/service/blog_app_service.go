package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/internal/domain/models"
	"github.com/receiptforge/receiptforge/internal/domain/repository"
	"github.com/receiptforge/receiptforge/internal/infrastructure/events"
	"github.com/receiptforge/receiptforge/internal/infrastructure/monitoring"
	"github.com/receiptforge/receiptforge/pkg/constants"
	"github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
	"github.com/receiptforge/receiptforge/pkg/utils"
)

// BlogAppService handles blog content ingestion and reads.
type BlogAppService interface {
	// IngestWebhook persists a signed blog delivery, creating or updating
	// the post addressed by its slug.
	IngestWebhook(ctx context.Context, payload *dto.BlogWebhookPayload) (*dto.BlogWebhookResponse, error)

	// ListPosts retrieves published posts, newest first, without bodies.
	ListPosts(ctx context.Context, limit, offset int) ([]dto.BlogPostResponse, error)

	// GetPost retrieves one post with its body.
	GetPost(ctx context.Context, slug string) (*dto.BlogPostResponse, error)
}

type blogAppServiceImpl struct {
	repo      repository.BlogPostRepository
	publisher events.Publisher
	metrics   *monitoring.Metrics
	logger    logger.Logger
}

// NewBlogAppService creates a BlogAppService.
func NewBlogAppService(
	repo repository.BlogPostRepository,
	publisher events.Publisher,
	metrics *monitoring.Metrics,
	log logger.Logger,
) BlogAppService {
	return &blogAppServiceImpl{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		logger:    log.WithComponent("BlogAppService"),
	}
}

func (s *blogAppServiceImpl) IngestWebhook(ctx context.Context, payload *dto.BlogWebhookPayload) (*dto.BlogWebhookResponse, error) {
	if !utils.IsValidSlug(payload.Slug) {
		s.metrics.RecordWebhookDelivery("rejected")
		return nil, errors.ErrInvalidRequest("invalid post slug").
			WithDetail("slug", "must be lowercase letters, digits and hyphens")
	}

	post := &models.BlogPost{
		ID:            uuid.New(),
		Slug:          payload.Slug,
		Title:         payload.Title,
		Excerpt:       payload.Excerpt,
		BodyHTML:      payload.BodyHTML,
		CoverImageURL: payload.CoverImageURL,
		Source:        payload.Source,
		PublishedAt:   payload.PublishedAt,
	}

	created, err := s.repo.Upsert(ctx, post)
	if err != nil {
		s.metrics.RecordWebhookDelivery("error")
		return nil, err
	}

	s.metrics.RecordWebhookDelivery("success")
	if pubErr := s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeBlogPostIngested,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]interface{}{
			"slug":    payload.Slug,
			"created": created,
		},
	}); pubErr != nil {
		s.logger.Warn(ctx, "failed to publish blog event", logger.Err(pubErr))
	}

	s.logger.Info(ctx, "blog post ingested",
		logger.String("slug", payload.Slug),
		logger.Bool("created", created),
	)
	return &dto.BlogWebhookResponse{Slug: payload.Slug, Created: created}, nil
}

func (s *blogAppServiceImpl) ListPosts(ctx context.Context, limit, offset int) ([]dto.BlogPostResponse, error) {
	if limit <= 0 {
		limit = constants.DefaultPageLimit
	}
	if limit > constants.MaxPageLimit {
		limit = constants.MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, _, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BlogPostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, dto.NewBlogPostResponse(p, false))
	}
	return out, nil
}

func (s *blogAppServiceImpl) GetPost(ctx context.Context, slug string) (*dto.BlogPostResponse, error) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := dto.NewBlogPostResponse(post, true)
	return &resp, nil
}
