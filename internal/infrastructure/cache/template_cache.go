// Package cache provides the in-process read cache for template lookups.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/receiptforge/receiptforge/internal/domain/models"
)

// TemplateCache caches templates by slug for the public template pages,
// which are read far more often than they are edited. Writes invalidate the
// slug entry; entries also age out on their TTL.
type TemplateCache struct {
	store *gocache.Cache
}

// NewTemplateCache creates a cache with the given TTL and cleanup interval.
func NewTemplateCache(ttl, cleanupInterval time.Duration) *TemplateCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	return &TemplateCache{store: gocache.New(ttl, cleanupInterval)}
}

// Get returns the cached template for a slug, if present.
func (c *TemplateCache) Get(slug string) (*models.Template, bool) {
	v, ok := c.store.Get(slug)
	if !ok {
		return nil, false
	}
	template, ok := v.(*models.Template)
	return template, ok
}

// Set stores a template under its slug.
func (c *TemplateCache) Set(template *models.Template) {
	c.store.SetDefault(template.Slug, template)
}

// Invalidate drops the entry for a slug.
func (c *TemplateCache) Invalidate(slug string) {
	c.store.Delete(slug)
}

// Flush drops all entries.
func (c *TemplateCache) Flush() {
	c.store.Flush()
}
