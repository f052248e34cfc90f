// Package sanitize strips markup from free-text form input before it is stored.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

// Text removes all HTML from s and returns trimmed plain text. Entities
// escaped by the policy are decoded so "Q&A" is stored as written.
func Text(s string) string {
	if s == "" {
		return ""
	}
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// OptionalText applies Text to a non-nil value. Values that become empty are dropped.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	clean := Text(*s)
	if clean == "" {
		return nil
	}
	return &clean
}
