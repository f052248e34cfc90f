package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared by repositories, adapters and services.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicate        = errors.New("duplicate record")
	ErrAlreadySent      = errors.New("certificate already sent")
	ErrTemplateNotFound = errors.New("template not found")
	ErrRenderFailure    = errors.New("certificate render failed")
	ErrDeliveryFailure  = errors.New("certificate delivery failed")
	ErrLockNotAcquired  = errors.New("submission is already being processed")
)

// ErrorKind classifies a failed issuance for the caller.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation_failure"
	KindNotFound    ErrorKind = "not_found"
	KindTemplate    ErrorKind = "template_not_found"
	KindRender      ErrorKind = "render_failure"
	KindDelivery    ErrorKind = "delivery_failure"
	KindPersistence ErrorKind = "persistence_failure"
	KindInProgress  ErrorKind = "in_progress"
)

// IssuanceError is returned by IssuanceService.Process for every fatal failure.
// Duration is the time spent in the workflow before it aborted.
type IssuanceError struct {
	Kind     ErrorKind
	Err      error
	Duration time.Duration
}

func (e *IssuanceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *IssuanceError) Unwrap() error {
	return e.Err
}

// KindOf maps an error to its issuance kind. Errors not matching a known
// sentinel are treated as store failures.
func KindOf(err error) ErrorKind {
	var ie *IssuanceError
	switch {
	case errors.As(err, &ie):
		return ie.Kind
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrTemplateNotFound):
		return KindTemplate
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrRenderFailure):
		return KindRender
	case errors.Is(err, ErrDeliveryFailure):
		return KindDelivery
	case errors.Is(err, ErrLockNotAcquired):
		return KindInProgress
	default:
		return KindPersistence
	}
}
