package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"certbot/internal/domain"
)

const eventColumns = `id, event_name, cert_template_name, name_x, name_y, text_y_position, font_size, font_style, text_alignment, uppercase_name, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var nameX, nameY, textY sql.NullFloat64
	if err := row.Scan(
		&e.ID, &e.Name, &e.TemplateName, &nameX, &nameY, &textY,
		&e.FontSize, &e.FontStyle, &e.TextAlignment, &e.UppercaseName, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.NameX = floatPtr(nameX)
	e.NameY = floatPtr(nameY)
	e.TextYPosition = floatPtr(textY)
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (event_name, cert_template_name, name_x, name_y, text_y_position,
			font_size, font_style, text_alignment, uppercase_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Name, e.TemplateName, nullFloat(e.NameX), nullFloat(e.NameY), nullFloat(e.TextYPosition),
		e.FontSize, e.FontStyle, e.TextAlignment, e.UppercaseName, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("event %q: %w", e.Name, domain.ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByName(ctx context.Context, name string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_name = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET cert_template_name = $2, name_x = $3, name_y = $4, text_y_position = $5,
			font_size = $6, font_style = $7, text_alignment = $8, uppercase_name = $9, updated_at = $10
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.ID, e.TemplateName, nullFloat(e.NameX), nullFloat(e.NameY), nullFloat(e.TextYPosition),
		e.FontSize, e.FontStyle, e.TextAlignment, e.UppercaseName, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
