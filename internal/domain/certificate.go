package domain

import (
	"context"
	"strings"
)

// TextAlignment controls how the horizontal draw position is computed.
type TextAlignment string

const (
	AlignLeft   TextAlignment = "left"
	AlignCenter TextAlignment = "center"
)

// ParseAlignment maps a stored alignment key to a TextAlignment; anything
// other than "center" is left-aligned.
func ParseAlignment(s string) TextAlignment {
	if strings.EqualFold(strings.TrimSpace(s), string(AlignCenter)) {
		return AlignCenter
	}
	return AlignLeft
}

// RenderConfig is the resolved layout for one certificate.
// Coordinates are PDF points with the origin at the bottom-left of the page.
type RenderConfig struct {
	NameX         float64
	NameY         float64
	FontSize      float64
	FontStyle     string
	Alignment     TextAlignment
	UppercaseName bool
}

// CertificateRenderer stamps a participant name and the issue date onto the
// first page of a template document.
type CertificateRenderer interface {
	Render(template []byte, participantName string, cfg RenderConfig) ([]byte, error)
}

// TemplateStore fetches template documents by name.
// Fetch returns ErrTemplateNotFound when no template has that name.
type TemplateStore interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}
