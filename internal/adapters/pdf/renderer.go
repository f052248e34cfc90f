package pdf

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"certbot/internal/domain"
)

const (
	// DateFontSize is the size of the issue date printed under the name.
	DateFontSize = 12
	// DefaultDateOffset is the distance between the name and date baselines.
	DefaultDateOffset = 60
	// DateLayout renders dates like "January 5, 2025".
	DateLayout = "January 2, 2006"
)

var (
	nameColor = Color{R: 0, G: 0, B: 0}
	dateColor = Color{R: 102, G: 102, B: 102}
)

// Renderer implements domain.CertificateRenderer on top of PDF templates.
type Renderer struct {
	logger     *slog.Logger
	open       func(template []byte) (canvas, error)
	now        func() time.Time
	dateOffset float64
	compress   bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock overrides the clock used for the issue date.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithDateOffset sets how far below the name baseline the date is drawn.
func WithDateOffset(offset float64) Option {
	return func(r *Renderer) { r.dateOffset = offset }
}

// WithCompression toggles stream compression in the output document. Default: on.
func WithCompression(on bool) Option {
	return func(r *Renderer) { r.compress = on }
}

// NewRenderer returns a renderer that stamps onto PDF templates.
func NewRenderer(logger *slog.Logger, opts ...Option) *Renderer {
	r := &Renderer{
		logger:     logger,
		now:        time.Now,
		dateOffset: DefaultDateOffset,
		compress:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.open == nil {
		compress := r.compress
		r.open = func(template []byte) (canvas, error) {
			return openTemplate(template, compress)
		}
	}
	return r
}

// Render draws the participant name and the current date on the first page of
// template and returns the serialized document.
func (r *Renderer) Render(template []byte, participantName string, cfg domain.RenderConfig) ([]byte, error) {
	if len(template) == 0 {
		return nil, fmt.Errorf("%w: empty template", domain.ErrRenderFailure)
	}
	page, err := r.open(template)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailure, err)
	}

	text := strings.TrimSpace(participantName)
	if cfg.UppercaseName {
		// Casers are stateful; one per call.
		text = cases.Upper(language.Und).String(text)
	}
	if bad := page.Unsupported(text); len(bad) > 0 {
		return nil, fmt.Errorf("%w: name has characters the certificate font cannot print: %q", domain.ErrRenderFailure, string(bad))
	}
	size := cfg.FontSize
	if size <= 0 {
		size = domain.DefaultFontSize
	}
	font := ParseFont(cfg.FontStyle)
	if font.String() != cfg.FontStyle {
		r.logger.Debug("font style resolved", "requested", cfg.FontStyle, "font", font.String())
	}

	width := page.Width()
	namePos := PlaceText(cfg.Alignment, width, page.TextWidth(text, font, size), cfg.NameX, cfg.NameY)
	page.DrawText(text, namePos, font, size, nameColor)

	date := r.now().Format(DateLayout)
	dateFont := font.Regular()
	datePos := PlaceText(cfg.Alignment, width, page.TextWidth(date, dateFont, DateFontSize), cfg.NameX, cfg.NameY-r.dateOffset)
	page.DrawText(date, datePos, dateFont, DateFontSize, dateColor)

	out, err := page.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: serialize: %v", domain.ErrRenderFailure, err)
	}
	r.logger.Debug("certificate rendered",
		"name_x", namePos.X, "name_y", namePos.Y,
		"date_x", datePos.X, "date_y", datePos.Y,
		"bytes", len(out),
	)
	return out, nil
}
