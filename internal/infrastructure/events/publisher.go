// Package events publishes service events to Kafka for downstream
// consumers (analytics, cache warmers).
package events

import (
	"context"
	"time"
)

// Event types published by the service.
const (
	TypeTemplateCreated  = "template.created"
	TypeTemplateUpdated  = "template.updated"
	TypeTemplateDeleted  = "template.deleted"
	TypeBlogPostIngested = "blog_post.ingested"
)

// Event is one service event.
type Event struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// Publisher delivers service events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher discards events; used when Kafka is disabled.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that discards events.
func NewNoopPublisher() Publisher { return &NoopPublisher{} }

func (p *NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (p *NoopPublisher) Close() error                                   { return nil }
