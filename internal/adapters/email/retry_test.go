package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"certbot/internal/domain"
	"certbot/internal/metrics"
)

// scriptedMailer returns the queued errors in order, then nil.
type scriptedMailer struct {
	errs  []error
	calls int
}

func (m *scriptedMailer) Send(_ context.Context, _ *domain.EmailMessage) error {
	m.calls++
	if len(m.errs) == 0 {
		return nil
	}
	err := m.errs[0]
	m.errs = m.errs[1:]
	return err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetryingMailer_Send(t *testing.T) {
	errFirst := errors.New("connection reset")
	errSecond := errors.New("timeout")

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   []error
	}{
		{name: "first attempt succeeds", wantCalls: 1},
		{name: "retry succeeds", errs: []error{errFirst}, wantCalls: 2},
		{
			name:      "retry fails propagates original",
			errs:      []error{errFirst, errSecond},
			wantCalls: 2,
			wantErr:   []error{domain.ErrDeliveryFailure, errFirst, errSecond},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &scriptedMailer{errs: tt.errs}
			m := NewRetryingMailer(next, time.Millisecond, testLogger(), nil)

			err := m.Send(context.Background(), &domain.EmailMessage{To: "ada@example.com"})
			require.Equal(t, tt.wantCalls, next.calls)
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			for _, want := range tt.wantErr {
				require.ErrorIs(t, err, want)
			}
		})
	}
}

func TestRetryingMailer_WaitsForBackoff(t *testing.T) {
	next := &scriptedMailer{errs: []error{errors.New("blip")}}
	m := NewRetryingMailer(next, 30*time.Millisecond, testLogger(), nil)

	start := time.Now()
	require.NoError(t, m.Send(context.Background(), &domain.EmailMessage{To: "ada@example.com"}))
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRetryingMailer_ContextCanceledDuringBackoff(t *testing.T) {
	errFirst := errors.New("blip")
	next := &scriptedMailer{errs: []error{errFirst}}
	m := NewRetryingMailer(next, time.Hour, testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Send(ctx, &domain.EmailMessage{To: "ada@example.com"})
	require.ErrorIs(t, err, domain.ErrDeliveryFailure)
	require.ErrorIs(t, err, errFirst)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, next.calls)
}

func TestRetryingMailer_RecordsAttempts(t *testing.T) {
	reg := prometheus.NewRegistry()
	mt := metrics.New(reg)
	next := &scriptedMailer{errs: []error{errors.New("blip")}}
	m := NewRetryingMailer(next, time.Millisecond, testLogger(), mt)

	require.NoError(t, m.Send(context.Background(), &domain.EmailMessage{To: "ada@example.com"}))
	require.Equal(t, float64(1), testutil.ToFloat64(mt.DeliveryAttempts.WithLabelValues("failed")))
	require.Equal(t, float64(1), testutil.ToFloat64(mt.DeliveryAttempts.WithLabelValues("sent")))
}
