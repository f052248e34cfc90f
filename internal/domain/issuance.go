package domain

import (
	"context"
	"time"
)

// Submission is a validated feedback-form submission.
type Submission struct {
	Name        string
	Email       string
	EventName   string
	Rating      *int
	Feedback    string
	EnjoyedMost *string
	Suggestions *string
}

// IssuanceStatus is the terminal state of a successful workflow run.
type IssuanceStatus string

const (
	StatusSuccess     IssuanceStatus = "success"
	StatusAlreadySent IssuanceStatus = "already_sent"
)

// IssuanceResult is returned when a submission was processed without a fatal error.
type IssuanceResult struct {
	Status        IssuanceStatus
	ParticipantID string
	Duration      time.Duration
}

// IssuanceService records feedback and issues the event certificate.
// Failures are returned as *IssuanceError.
type IssuanceService interface {
	Process(ctx context.Context, sub *Submission) (*IssuanceResult, error)
}

// SubmissionLocker serializes work on one (email, event) key across requests.
// Lock returns ErrLockNotAcquired when another request holds the key.
type SubmissionLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
