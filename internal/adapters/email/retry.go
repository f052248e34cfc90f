package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"certbot/internal/domain"
	"certbot/internal/metrics"
)

// DefaultRetryBackoff is the wait between the first failed send and the retry.
const DefaultRetryBackoff = 2 * time.Second

// RetryingMailer retries a failed send exactly once after a fixed backoff.
// If the retry fails too, the returned error wraps the original failure and
// domain.ErrDeliveryFailure.
type RetryingMailer struct {
	next    domain.Mailer
	backoff time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewRetryingMailer wraps next. m may be nil.
func NewRetryingMailer(next domain.Mailer, backoff time.Duration, logger *slog.Logger, m *metrics.Metrics) *RetryingMailer {
	if backoff < 0 {
		backoff = DefaultRetryBackoff
	}
	return &RetryingMailer{next: next, backoff: backoff, logger: logger, metrics: m}
}

func (r *RetryingMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	err := r.next.Send(ctx, msg)
	if err == nil {
		r.metrics.IncrementDeliveryAttempt("sent")
		return nil
	}
	r.metrics.IncrementDeliveryAttempt("failed")
	r.logger.WarnContext(ctx, "email send failed, retrying", "to", msg.To, "backoff", r.backoff, "err", err)

	timer := time.NewTimer(r.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailure, errors.Join(err, ctx.Err()))
	case <-timer.C:
	}

	if retryErr := r.next.Send(ctx, msg); retryErr != nil {
		r.metrics.IncrementDeliveryAttempt("failed")
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailure, errors.Join(err, retryErr))
	}
	r.metrics.IncrementDeliveryAttempt("sent")
	r.logger.InfoContext(ctx, "email sent on retry", "to", msg.To)
	return nil
}
