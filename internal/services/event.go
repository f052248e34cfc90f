package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"certbot/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService returns the EventService backing the admin API.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{eventRepo: eventRepo, contextTimeout: timeout}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event.Name = strings.TrimSpace(event.Name)
	event.TemplateName = strings.TrimSpace(event.TemplateName)
	if event.Name == "" {
		return fmt.Errorf("%w: event_name is required", domain.ErrInvalidInput)
	}
	if err := validateLayout(event); err != nil {
		return err
	}
	if event.FontSize == 0 {
		event.FontSize = domain.DefaultFontSize
	}
	if event.TextAlignment == "" {
		event.TextAlignment = string(domain.AlignLeft)
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) ListEvents(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) UpdateEventLayout(ctx context.Context, eventID string, update *domain.EventLayoutUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if update == nil {
		return nil, fmt.Errorf("%w: update is empty", domain.ErrInvalidInput)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	update.Apply(event)
	if err := validateLayout(event); err != nil {
		return nil, err
	}
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func validateLayout(e *domain.Event) error {
	if e.TemplateName == "" {
		return fmt.Errorf("%w: cert_template_name is required", domain.ErrInvalidInput)
	}
	if e.FontSize < 0 {
		return fmt.Errorf("%w: font_size must be positive", domain.ErrInvalidInput)
	}
	switch strings.ToLower(e.TextAlignment) {
	case "", string(domain.AlignLeft), string(domain.AlignCenter):
	default:
		return fmt.Errorf("%w: text_alignment must be left or center", domain.ErrInvalidInput)
	}
	return nil
}
