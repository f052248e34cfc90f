package domain

import (
	"context"
	"strings"
	"time"
)

// Layout defaults applied when an event leaves a field unset.
const (
	DefaultNameX    = 300
	DefaultNameY    = 400
	DefaultFontSize = 24
)

// Event is a certificate campaign: the template to stamp and where to stamp it.
// swagger:model Event
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"event_name"`
	TemplateName  string    `json:"cert_template_name"`
	NameX         *float64  `json:"name_x,omitempty"`
	NameY         *float64  `json:"name_y,omitempty"`
	TextYPosition *float64  `json:"text_y_position,omitempty"`
	FontSize      float64   `json:"font_size"`
	FontStyle     string    `json:"font_style"`
	TextAlignment string    `json:"text_alignment"`
	UppercaseName bool      `json:"uppercase_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with default layout. ID is typically set by the repository on create.
func NewEvent(name, templateName string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:          name,
		TemplateName:  templateName,
		FontSize:      DefaultFontSize,
		TextAlignment: string(AlignLeft),
		UppercaseName: true,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// RenderConfig resolves the event layout into the values the renderer draws with.
// name_y wins over text_y_position; missing values fall back to the defaults.
func (e *Event) RenderConfig() RenderConfig {
	cfg := RenderConfig{
		NameX:         DefaultNameX,
		NameY:         DefaultNameY,
		FontSize:      e.FontSize,
		FontStyle:     e.FontStyle,
		Alignment:     ParseAlignment(e.TextAlignment),
		UppercaseName: e.UppercaseName,
	}
	if e.NameX != nil {
		cfg.NameX = *e.NameX
	}
	switch {
	case e.NameY != nil:
		cfg.NameY = *e.NameY
	case e.TextYPosition != nil:
		cfg.NameY = *e.TextYPosition
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = DefaultFontSize
	}
	return cfg
}

// EventLayoutUpdate holds optional layout changes; nil fields are left untouched.
type EventLayoutUpdate struct {
	TemplateName  *string  `json:"cert_template_name,omitempty"`
	NameX         *float64 `json:"name_x,omitempty"`
	NameY         *float64 `json:"name_y,omitempty"`
	TextYPosition *float64 `json:"text_y_position,omitempty"`
	FontSize      *float64 `json:"font_size,omitempty"`
	FontStyle     *string  `json:"font_style,omitempty"`
	TextAlignment *string  `json:"text_alignment,omitempty"`
	UppercaseName *bool    `json:"uppercase_name,omitempty"`
}

// Apply copies the set fields of u onto e.
func (u *EventLayoutUpdate) Apply(e *Event) {
	if u.TemplateName != nil {
		e.TemplateName = strings.TrimSpace(*u.TemplateName)
	}
	if u.NameX != nil {
		e.NameX = u.NameX
	}
	if u.NameY != nil {
		e.NameY = u.NameY
	}
	if u.TextYPosition != nil {
		e.TextYPosition = u.TextYPosition
	}
	if u.FontSize != nil {
		e.FontSize = *u.FontSize
	}
	if u.FontStyle != nil {
		e.FontStyle = *u.FontStyle
	}
	if u.TextAlignment != nil {
		e.TextAlignment = *u.TextAlignment
	}
	if u.UppercaseName != nil {
		e.UppercaseName = *u.UppercaseName
	}
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByName(ctx context.Context, name string) (*Event, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, event *Event) error
}

// EventService defines admin operations on certificate campaigns.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	ListEvents(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	UpdateEventLayout(ctx context.Context, eventID string, update *EventLayoutUpdate) (*Event, error)
}

// PaginationParams selects one page of events; Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset is the number of rows skipped before the page.
func (p PaginationParams) Offset() int {
	return max(p.Page-1, 0) * p.PageSize
}
