package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"certbot/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, every method returns this error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
	for _, e := range events {
		if e.ID == "" {
			e.ID = fmt.Sprintf("ev-%d", f.nextID)
			f.nextID++
		}
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Name == e.Name {
			return domain.ErrDuplicate
		}
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetByName(_ context.Context, name string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.byID {
		if e.Name == name {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(_ context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []*domain.Event
	for i := 1; i < f.nextID; i++ {
		if e, ok := f.byID[fmt.Sprintf("ev-%d", i)]; ok {
			out = append(out, e)
		}
	}
	total := len(out)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if params.PageSize <= 0 || end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (f *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

// fakeParticipantRepo is an in-memory ParticipantRepository keyed by (email, event).
type fakeParticipantRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Participant
	nextID    int
	getErr    error
	createErr error
	updateErr error
	markErr   error

	creates int
	updates int
	marks   int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{byID: make(map[string]*domain.Participant), nextID: 1}
}

func (f *fakeParticipantRepo) seed(p *domain.Participant) *domain.Participant {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = fmt.Sprintf("p-%d", f.nextID)
	f.nextID++
	f.byID[p.ID] = p
	return p
}

func (f *fakeParticipantRepo) find(email, eventID string) *domain.Participant {
	for _, p := range f.byID {
		if strings.EqualFold(p.Email, email) && p.EventID == eventID {
			return p
		}
	}
	return nil
}

func (f *fakeParticipantRepo) Create(_ context.Context, p *domain.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	if f.find(p.Email, p.EventID) != nil {
		return domain.ErrDuplicate
	}
	p.ID = fmt.Sprintf("p-%d", f.nextID)
	f.nextID++
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeParticipantRepo) GetByEmailAndEvent(_ context.Context, email, eventID string) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if p := f.find(email, eventID); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeParticipantRepo) UpdateFeedback(_ context.Context, id string, fb domain.Feedback) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Rating = fb.Rating
	p.FeedbackText = fb.FeedbackText
	p.EnjoyedMost = fb.EnjoyedMost
	p.Suggestions = fb.Suggestions
	p.FeedbackSubmitted = true
	submittedAt := fb.SubmittedAt
	p.FeedbackSubmittedAt = &submittedAt
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantRepo) MarkCertificateSent(_ context.Context, id string, sentAt time.Time) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marks++
	if f.markErr != nil {
		return nil, f.markErr
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.CertificateSent {
		return nil, domain.ErrAlreadySent
	}
	p.CertificateSent = true
	p.CertificateSentAt = &sentAt
	cp := *p
	return &cp, nil
}

type fakeTemplateStore struct {
	templates map[string][]byte
	err       error
	calls     int
}

func (f *fakeTemplateStore) Fetch(_ context.Context, name string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
	}
	return t, nil
}

type renderCall struct {
	template []byte
	name     string
	cfg      domain.RenderConfig
}

type fakeRenderer struct {
	err   error
	calls []renderCall
}

func (f *fakeRenderer) Render(template []byte, name string, cfg domain.RenderConfig) ([]byte, error) {
	f.calls = append(f.calls, renderCall{template: template, name: name, cfg: cfg})
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-certificate-for-" + name), nil
}

type fakeEmailService struct {
	err  error
	sent []*domain.CertificateEmailData
}

func (f *fakeEmailService) SendCertificate(_ context.Context, data *domain.CertificateEmailData) error {
	f.sent = append(f.sent, data)
	return f.err
}

type fakeLocker struct {
	held     map[string]bool
	acquired []string
	released []string
	err      error
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (f *fakeLocker) Lock(_ context.Context, key string) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.held[key] {
		return nil, fmt.Errorf("%w: %s", domain.ErrLockNotAcquired, key)
	}
	f.held[key] = true
	f.acquired = append(f.acquired, key)
	return func() {
		delete(f.held, key)
		f.released = append(f.released, key)
	}, nil
}

type fakeMailer struct {
	err  error
	sent []*domain.EmailMessage
}

func (f *fakeMailer) Send(_ context.Context, msg *domain.EmailMessage) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type fakeEmailRenderer struct {
	err error
}

func (f *fakeEmailRenderer) Render(templateName string, data any) (string, string, string, error) {
	if f.err != nil {
		return "", "", "", f.err
	}
	d := data.(*domain.CertificateEmailData)
	return "Your " + d.EventName + " Certificate", "<p>Hi " + d.Name + "</p>", "Hi " + d.Name, nil
}

var errBoom = errors.New("boom")
