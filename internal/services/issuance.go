package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"certbot/internal/adapters/sanitize"
	"certbot/internal/domain"
	"certbot/internal/metrics"
)

const tracerName = "certbot/internal/services"

// IssuanceDeps are the collaborators of the issuance workflow.
// Locker, Metrics and Now are optional.
type IssuanceDeps struct {
	Events       domain.EventRepository
	Participants domain.ParticipantRepository
	Templates    domain.TemplateStore
	Renderer     domain.CertificateRenderer
	Email        domain.EmailService
	Locker       domain.SubmissionLocker
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	Now          func() time.Time
}

type issuanceService struct {
	events       domain.EventRepository
	participants domain.ParticipantRepository
	templates    domain.TemplateStore
	renderer     domain.CertificateRenderer
	email        domain.EmailService
	locker       domain.SubmissionLocker
	metrics      *metrics.Metrics
	logger       *slog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewIssuanceService returns the IssuanceService that records feedback and
// issues certificates.
func NewIssuanceService(deps IssuanceDeps) domain.IssuanceService {
	s := &issuanceService{
		events:       deps.Events,
		participants: deps.Participants,
		templates:    deps.Templates,
		renderer:     deps.Renderer,
		email:        deps.Email,
		locker:       deps.Locker,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		tracer:       otel.Tracer(tracerName),
		now:          deps.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Process runs one submission through the workflow. Every failure is
// returned as *domain.IssuanceError; earlier writes are not rolled back.
func (s *issuanceService) Process(ctx context.Context, sub *domain.Submission) (*domain.IssuanceResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "issuance.Process")
	defer span.End()

	result, err := s.process(ctx, sub)
	elapsed := time.Since(start)
	if err != nil {
		kind := domain.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		s.metrics.ObserveIssuance("failed", string(kind), elapsed)
		s.logger.ErrorContext(ctx, "certificate issuance failed",
			"kind", kind, "duration_ms", elapsed.Milliseconds(), "err", err)
		return nil, &domain.IssuanceError{Kind: kind, Err: err, Duration: elapsed}
	}
	result.Duration = elapsed
	span.SetAttributes(attribute.String("issuance.status", string(result.Status)))
	s.metrics.ObserveIssuance(string(result.Status), "", elapsed)
	return result, nil
}

func (s *issuanceService) process(ctx context.Context, sub *domain.Submission) (*domain.IssuanceResult, error) {
	if sub == nil {
		return nil, fmt.Errorf("%w: submission is nil", domain.ErrInvalidInput)
	}
	name := strings.TrimSpace(sub.Name)
	email := strings.ToLower(strings.TrimSpace(sub.Email))
	eventName := strings.TrimSpace(sub.EventName)
	if name == "" || email == "" || eventName == "" {
		return nil, fmt.Errorf("%w: name, email and event are required", domain.ErrInvalidInput)
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("event.name", eventName))
	logger := s.logger.With("email", email, "event", eventName)

	event, err := s.resolveEvent(ctx, eventName)
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, email+":"+event.ID)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	fb := s.feedback(sub)
	participant, err := s.recordFeedback(ctx, name, email, event.ID, fb)
	if err != nil {
		return nil, err
	}
	if participant.CertificateSent {
		logger.InfoContext(ctx, "certificate already sent", "participant_id", participant.ID)
		return &domain.IssuanceResult{Status: domain.StatusAlreadySent, ParticipantID: participant.ID}, nil
	}
	logger = logger.With("participant_id", participant.ID)

	template, err := s.fetchTemplate(ctx, event.TemplateName)
	if err != nil {
		return nil, err
	}

	certificate, err := s.render(ctx, template, name, event.RenderConfig())
	if err != nil {
		return nil, err
	}

	if err := s.deliver(ctx, &domain.CertificateEmailData{
		Email:       email,
		Name:        name,
		EventName:   event.Name,
		Certificate: certificate,
	}); err != nil {
		return nil, err
	}

	if _, err := s.participants.MarkCertificateSent(ctx, participant.ID, s.now()); err != nil {
		if errors.Is(err, domain.ErrAlreadySent) {
			// A concurrent run finished first; the email went out at least once.
			logger.WarnContext(ctx, "certificate was marked sent by another request")
			return &domain.IssuanceResult{Status: domain.StatusAlreadySent, ParticipantID: participant.ID}, nil
		}
		logger.ErrorContext(ctx, "certificate delivered but not marked sent", "err", err)
		return nil, participantWriteError("mark certificate sent", err)
	}

	logger.InfoContext(ctx, "certificate issued")
	return &domain.IssuanceResult{Status: domain.StatusSuccess, ParticipantID: participant.ID}, nil
}

func (s *issuanceService) resolveEvent(ctx context.Context, name string) (*domain.Event, error) {
	ctx, span := s.tracer.Start(ctx, "issuance.ResolveEvent")
	defer span.End()
	event, err := s.events.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event %q: %w", name, err)
	}
	return event, nil
}

// recordFeedback returns the participant for (email, eventID), creating it or
// overwriting its feedback. A sent participant is returned untouched.
func (s *issuanceService) recordFeedback(ctx context.Context, name, email, eventID string, fb domain.Feedback) (*domain.Participant, error) {
	ctx, span := s.tracer.Start(ctx, "issuance.RecordFeedback")
	defer span.End()

	existing, err := s.participants.GetByEmailAndEvent(ctx, email, eventID)
	switch {
	case err == nil:
		return s.updateFeedback(ctx, existing, fb)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("get participant: %w", err)
	}

	p := domain.NewParticipant(name, email, eventID, fb)
	if err := s.participants.Create(ctx, p); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("create participant: %w", err)
		}
		// Lost a create race; continue with the row that won.
		existing, err := s.participants.GetByEmailAndEvent(ctx, email, eventID)
		if err != nil {
			return nil, fmt.Errorf("get participant after duplicate create: %w", err)
		}
		return s.updateFeedback(ctx, existing, fb)
	}
	return p, nil
}

func (s *issuanceService) updateFeedback(ctx context.Context, p *domain.Participant, fb domain.Feedback) (*domain.Participant, error) {
	if p.CertificateSent {
		return p, nil
	}
	updated, err := s.participants.UpdateFeedback(ctx, p.ID, fb)
	if errors.Is(err, domain.ErrAlreadySent) {
		// Another instance completed it after our read; keep its stored feedback.
		sent := *p
		sent.CertificateSent = true
		return &sent, nil
	}
	if err != nil {
		return nil, participantWriteError("update participant feedback", err)
	}
	return updated, nil
}

// participantWriteError wraps a failed write to a participant we already read.
// A row that vanished mid-run is a store inconsistency, not an unknown event,
// so ErrNotFound is flattened out of the chain.
func participantWriteError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: participant disappeared: %v", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *issuanceService) fetchTemplate(ctx context.Context, name string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "issuance.FetchTemplate", trace.WithAttributes(attribute.String("template.name", name)))
	defer span.End()
	template, err := s.templates.Fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch template: %w", err)
	}
	return template, nil
}

func (s *issuanceService) render(ctx context.Context, template []byte, name string, cfg domain.RenderConfig) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "issuance.Render")
	defer span.End()
	certificate, err := s.renderer.Render(template, name, cfg)
	if err != nil {
		if !errors.Is(err, domain.ErrRenderFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrRenderFailure, err)
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int("certificate.bytes", len(certificate)))
	return certificate, nil
}

func (s *issuanceService) deliver(ctx context.Context, data *domain.CertificateEmailData) error {
	ctx, span := s.tracer.Start(ctx, "issuance.Deliver")
	defer span.End()
	if err := s.email.SendCertificate(ctx, data); err != nil {
		if !errors.Is(err, domain.ErrDeliveryFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrDeliveryFailure, err)
		}
		return err
	}
	return nil
}

func (s *issuanceService) feedback(sub *domain.Submission) domain.Feedback {
	return domain.Feedback{
		Rating:       sub.Rating,
		FeedbackText: sanitize.Text(sub.Feedback),
		EnjoyedMost:  sanitize.OptionalText(sub.EnjoyedMost),
		Suggestions:  sanitize.OptionalText(sub.Suggestions),
		SubmittedAt:  s.now(),
	}
}
