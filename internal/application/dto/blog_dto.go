package dto

import (
	"time"

	"github.com/receiptforge/receiptforge/internal/domain/models"
)

// BlogWebhookPayload is the signed ingestion payload delivered by the blog
// publishing system.
type BlogWebhookPayload struct {
	Slug          string    `json:"slug" binding:"required"`
	Title         string    `json:"title" binding:"required"`
	Excerpt       string    `json:"excerpt,omitempty"`
	BodyHTML      string    `json:"body_html" binding:"required"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	Source        string    `json:"source,omitempty"`
	PublishedAt   time.Time `json:"published_at" binding:"required"`
}

// BlogWebhookResponse reports whether the delivery created or updated a post.
type BlogWebhookResponse struct {
	Slug    string `json:"slug"`
	Created bool   `json:"created"`
}

// BlogPostResponse is a published post as served to readers.
type BlogPostResponse struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt,omitempty"`
	BodyHTML      string    `json:"body_html,omitempty"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	PublishedAt   time.Time `json:"published_at"`
}

// NewBlogPostResponse maps a stored post onto its API shape. The body is
// included only when full is true; list views stay light.
func NewBlogPostResponse(p *models.BlogPost, full bool) BlogPostResponse {
	resp := BlogPostResponse{
		Slug:          p.Slug,
		Title:         p.Title,
		Excerpt:       p.Excerpt,
		CoverImageURL: p.CoverImageURL,
		PublishedAt:   p.PublishedAt,
	}
	if full {
		resp.BodyHTML = p.BodyHTML
	}
	return resp
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,min=1,max=4000"`
}
