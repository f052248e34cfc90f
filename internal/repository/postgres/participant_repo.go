package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"certbot/internal/domain"
)

const participantColumns = `id, event_id, name, email, rating, feedback_text, enjoyed_most, suggestions, feedback_submitted, feedback_submitted_at, certificate_sent, certificate_sent_at, created_at, updated_at`

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{DB: db}
}

func scanParticipant(row rowScanner) (*domain.Participant, error) {
	p := &domain.Participant{}
	var rating sql.NullInt64
	var enjoyed, suggestions sql.NullString
	var submittedAt, sentAt sql.NullTime
	if err := row.Scan(
		&p.ID, &p.EventID, &p.Name, &p.Email, &rating, &p.FeedbackText, &enjoyed, &suggestions,
		&p.FeedbackSubmitted, &submittedAt, &p.CertificateSent, &sentAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Rating = intPtr(rating)
	p.EnjoyedMost = stringPtr(enjoyed)
	p.Suggestions = stringPtr(suggestions)
	p.FeedbackSubmittedAt = timePtr(submittedAt)
	p.CertificateSentAt = timePtr(sentAt)
	return p, nil
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO participants (event_id, name, email, rating, feedback_text, enjoyed_most, suggestions,
			feedback_submitted, feedback_submitted_at, certificate_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, $10, $11)
		RETURNING id
	`
	var submittedAt sql.NullTime
	if p.FeedbackSubmittedAt != nil {
		submittedAt = sql.NullTime{Time: *p.FeedbackSubmittedAt, Valid: true}
	}
	err := r.DB.QueryRowContext(ctx, query,
		p.EventID, p.Name, p.Email, nullInt(p.Rating), p.FeedbackText, nullString(p.EnjoyedMost), nullString(p.Suggestions),
		p.FeedbackSubmitted, submittedAt, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("participant %s: %w", p.Email, domain.ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *participantRepository) GetByEmailAndEvent(ctx context.Context, email, eventID string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE email = $1 AND event_id = $2`
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, query, email, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) UpdateFeedback(ctx context.Context, id string, fb domain.Feedback) (*domain.Participant, error) {
	query := `
		UPDATE participants
		SET rating = $2, feedback_text = $3, enjoyed_most = $4, suggestions = $5,
			feedback_submitted = TRUE, feedback_submitted_at = $6, updated_at = $6
		WHERE id = $1 AND certificate_sent = FALSE
		RETURNING ` + participantColumns
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, query,
		id, nullInt(fb.Rating), fb.FeedbackText, nullString(fb.EnjoyedMost), nullString(fb.Suggestions), fb.SubmittedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.unchangedReason(ctx, id)
		}
		return nil, err
	}
	return p, nil
}

// MarkCertificateSent is a compare-and-set on certificate_sent so the flag is
// written exactly once.
func (r *participantRepository) MarkCertificateSent(ctx context.Context, id string, sentAt time.Time) (*domain.Participant, error) {
	query := `
		UPDATE participants
		SET certificate_sent = TRUE, certificate_sent_at = $2, updated_at = $2
		WHERE id = $1 AND certificate_sent = FALSE
		RETURNING ` + participantColumns
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, query, id, sentAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.unchangedReason(ctx, id)
		}
		return nil, err
	}
	return p, nil
}

// unchangedReason explains why a guarded update matched no row.
func (r *participantRepository) unchangedReason(ctx context.Context, id string) error {
	var sent bool
	err := r.DB.QueryRowContext(ctx, `SELECT certificate_sent FROM participants WHERE id = $1`, id).Scan(&sent)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("participant %s: %w", id, domain.ErrNotFound)
	case err != nil:
		return err
	case sent:
		return domain.ErrAlreadySent
	default:
		return fmt.Errorf("participant %s was not updated", id)
	}
}
