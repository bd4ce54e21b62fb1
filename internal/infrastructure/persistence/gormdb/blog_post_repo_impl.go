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

// BlogPostRepoImpl implements BlogPostRepository on gorm.
type BlogPostRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewBlogPostRepository creates a gorm-backed blog post repository.
func NewBlogPostRepository(conn *DBConnection, log logger.Logger) repository.BlogPostRepository {
	return &BlogPostRepoImpl{
		db:     conn.DB,
		logger: log.WithComponent("BlogPostRepository"),
	}
}

// Upsert inserts the post or updates the existing post with the same slug.
func (r *BlogPostRepoImpl) Upsert(ctx context.Context, post *models.BlogPost) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.BlogPost
		findErr := tx.First(&existing, "slug = ?", post.Slug).Error

		if stderrors.Is(findErr, gorm.ErrRecordNotFound) {
			if post.ID == uuid.Nil {
				post.ID = uuid.New()
			}
			created = true
			return tx.Create(post).Error
		}
		if findErr != nil {
			return findErr
		}

		post.ID = existing.ID
		post.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).
			Select("title", "excerpt", "body_html", "cover_image_url", "source", "published_at", "updated_at").
			Updates(post).Error
	})

	if err != nil {
		r.logger.Error(ctx, "failed to upsert blog post", err, logger.String("slug", post.Slug))
		return false, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}
	return created, nil
}

// FindBySlug retrieves a post by slug.
func (r *BlogPostRepoImpl) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).First(&post, "slug = ?", slug).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound("blog post", slug)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}
	return &post, nil
}

// FindAll retrieves posts with pagination, newest published first.
func (r *BlogPostRepoImpl) FindAll(ctx context.Context, limit, offset int) ([]*models.BlogPost, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.BlogPost{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}

	var posts []*models.BlogPost
	err := r.db.WithContext(ctx).
		Order("published_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", errors.ErrDatabaseOperation, err)
	}
	return posts, total, nil
}
