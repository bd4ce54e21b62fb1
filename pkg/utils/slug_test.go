package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Coffee Shop Receipt", "coffee-shop-receipt"},
		{"punctuation collapses", "Joe's -- Diner!!", "joe-s-diner"},
		{"leading and trailing separators", "  Fancy Template  ", "fancy-template"},
		{"digits preserved", "Store 24/7", "store-24-7"},
		{"non-ascii digits dropped", "Store ٢٤", "store"},
		{"empty", "", ""},
		{"only separators", "---", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

// Every non-empty slug Slugify produces must pass IsValidSlug.
func TestSlugifyOutputIsValid(t *testing.T) {
	// Includes Eastern Arabic digits and non-ASCII letters, which Slugify
	// must drop rather than emit characters IsValidSlug rejects.
	names := []string{
		"Coffee Shop Receipt",
		"Store ٢٤",
		"Café №42",
		"٣٧",
		"a٤b",
	}
	for _, name := range names {
		slug := Slugify(name)
		if slug == "" {
			continue
		}
		assert.True(t, IsValidSlug(slug), "Slugify(%q) = %q must be a valid slug", name, slug)
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("coffee-shop-receipt"))
	assert.True(t, IsValidSlug("store-24"))
	assert.False(t, IsValidSlug(""))
	assert.False(t, IsValidSlug("-leading"))
	assert.False(t, IsValidSlug("trailing-"))
	assert.False(t, IsValidSlug("double--hyphen"))
	assert.False(t, IsValidSlug("Upper-Case"))
	assert.False(t, IsValidSlug("spaced slug"))
}
