// Package utils provides small shared helpers.
package utils

import "strings"

// Slugify converts a display name into a URL-safe slug: lowercase ASCII
// letters, digits and single hyphens. Consecutive separators collapse into
// one hyphen; leading and trailing hyphens are trimmed.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// IsValidSlug reports whether s is a well-formed slug as produced by
// Slugify: non-empty, lowercase alphanumerics separated by single hyphens.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
