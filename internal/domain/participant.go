package domain

import (
	"context"
	"time"
)

// Participant is one attendee of one event. At most one exists per (email, event).
// CertificateSent is terminal: once true it is never reset.
// swagger:model Participant
type Participant struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	EventID             string     `json:"event_id"`
	Rating              *int       `json:"rating,omitempty"`
	FeedbackText        string     `json:"feedback_text"`
	EnjoyedMost         *string    `json:"enjoyed_most,omitempty"`
	Suggestions         *string    `json:"suggestions,omitempty"`
	FeedbackSubmitted   bool       `json:"feedback_submitted"`
	FeedbackSubmittedAt *time.Time `json:"feedback_submitted_at,omitempty"`
	CertificateSent     bool       `json:"certificate_sent"`
	CertificateSentAt   *time.Time `json:"certificate_sent_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Feedback is the set of fields a submission writes onto a participant.
type Feedback struct {
	Rating       *int
	FeedbackText string
	EnjoyedMost  *string
	Suggestions  *string
	SubmittedAt  time.Time
}

// NewParticipant returns a participant that has just submitted feedback and
// has not yet received a certificate. ID is set by the repository on create.
func NewParticipant(name, email, eventID string, fb Feedback) *Participant {
	submittedAt := fb.SubmittedAt
	return &Participant{
		Name:                name,
		Email:               email,
		EventID:             eventID,
		Rating:              fb.Rating,
		FeedbackText:        fb.FeedbackText,
		EnjoyedMost:         fb.EnjoyedMost,
		Suggestions:         fb.Suggestions,
		FeedbackSubmitted:   true,
		FeedbackSubmittedAt: &submittedAt,
		CreatedAt:           submittedAt,
		UpdatedAt:           submittedAt,
	}
}

// ParticipantRepository defines storage operations for participants.
type ParticipantRepository interface {
	// Create inserts p and sets its ID. Returns ErrDuplicate if (email, event) already exists.
	Create(ctx context.Context, p *Participant) error
	// GetByEmailAndEvent returns ErrNotFound when no participant matches.
	GetByEmailAndEvent(ctx context.Context, email, eventID string) (*Participant, error)
	// UpdateFeedback overwrites the feedback fields of an unsent participant.
	UpdateFeedback(ctx context.Context, id string, fb Feedback) (*Participant, error)
	// MarkCertificateSent flips certificate_sent from false to true.
	// Returns ErrAlreadySent if it was already true and ErrNotFound if id does not exist.
	MarkCertificateSent(ctx context.Context, id string, sentAt time.Time) (*Participant, error)
}
