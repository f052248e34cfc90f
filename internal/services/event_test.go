package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certbot/internal/domain"
)

func TestEventService_CreateEvent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, 5*time.Second)

	event := &domain.Event{Name: "  Intro to AI ", TemplateName: "Intro_Cert.pdf"}
	require.NoError(t, svc.CreateEvent(context.Background(), event))
	assert.Equal(t, "ev-1", event.ID)
	assert.Equal(t, "Intro to AI", event.Name)
	assert.Equal(t, float64(domain.DefaultFontSize), event.FontSize)
	assert.Equal(t, "left", event.TextAlignment)
	assert.False(t, event.CreatedAt.IsZero())

	err := svc.CreateEvent(context.Background(), &domain.Event{Name: "Intro to AI", TemplateName: "x.pdf"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestEventService_CreateEvent_Validation(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), 5*time.Second)
	tests := []struct {
		name  string
		event *domain.Event
	}{
		{"missing name", &domain.Event{TemplateName: "t.pdf"}},
		{"missing template", &domain.Event{Name: "Go"}},
		{"negative font size", &domain.Event{Name: "Go", TemplateName: "t.pdf", FontSize: -1}},
		{"bad alignment", &domain.Event{Name: "Go", TemplateName: "t.pdf", TextAlignment: "justify"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.CreateEvent(context.Background(), tt.event), domain.ErrInvalidInput)
		})
	}
}

func TestEventService_ListEvents(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, 5*time.Second)
	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, svc.CreateEvent(context.Background(), &domain.Event{Name: name, TemplateName: "t.pdf"}))
	}

	events, total, err := svc.ListEvents(context.Background(), domain.PaginationParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, events, 1)
	assert.Equal(t, "C", events[0].Name)

	repo.err = errBoom
	_, _, err = svc.ListEvents(context.Background(), domain.PaginationParams{Page: 1, PageSize: 2})
	assert.ErrorIs(t, err, errBoom)
}

func TestEventService_UpdateEventLayout(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, 5*time.Second)
	event := &domain.Event{Name: "Intro to AI", TemplateName: "Intro_Cert.pdf"}
	require.NoError(t, svc.CreateEvent(context.Background(), event))

	y := 320.0
	align := "center"
	updated, err := svc.UpdateEventLayout(context.Background(), event.ID, &domain.EventLayoutUpdate{
		NameY:         &y,
		TextAlignment: &align,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.NameY)
	assert.Equal(t, 320.0, *updated.NameY)
	assert.Equal(t, "center", updated.TextAlignment)
	assert.Equal(t, "Intro_Cert.pdf", updated.TemplateName)

	stored, err := repo.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, "center", stored.TextAlignment)

	_, err = svc.UpdateEventLayout(context.Background(), "missing", &domain.EventLayoutUpdate{NameY: &y})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bad := "diagonal"
	_, err = svc.UpdateEventLayout(context.Background(), event.ID, &domain.EventLayoutUpdate{TextAlignment: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UpdateEventLayout(context.Background(), event.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
