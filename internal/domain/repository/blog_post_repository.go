package repository

import (
	"context"

	"github.com/receiptforge/receiptforge/internal/domain/models"
)

// BlogPostRepository defines the interface for blog post storage.
type BlogPostRepository interface {
	// Upsert inserts the post or, when a post with the same slug exists,
	// updates it in place. Returns true when a new post was created.
	Upsert(ctx context.Context, post *models.BlogPost) (bool, error)

	// FindBySlug retrieves a post by slug.
	FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error)

	// FindAll retrieves posts with pagination, newest published first.
	FindAll(ctx context.Context, limit, offset int) ([]*models.BlogPost, int64, error)
}
