package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is an article ingested from the content webhook and served on
// the marketing blog.
type BlogPost struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Slug is the unique URL identifier; webhook deliveries for an
	// existing slug update the post in place.
	Slug string `gorm:"size:200;uniqueIndex;not null" json:"slug"`

	Title         string `gorm:"size:300;not null" json:"title"`
	Excerpt       string `gorm:"type:text" json:"excerpt"`
	BodyHTML      string `gorm:"type:text" json:"body_html"`
	CoverImageURL string `gorm:"size:500" json:"cover_image_url,omitempty"`

	// Source identifies the upstream CMS that delivered the post.
	Source string `gorm:"size:100" json:"source"`

	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
