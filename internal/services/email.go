package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"certbot/internal/domain"
)

var whitespace = regexp.MustCompile(`\s+`)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendCertificate emails the rendered certificate using the "certificate" template.
func (s *emailService) SendCertificate(ctx context.Context, data *domain.CertificateEmailData) error {
	if data == nil {
		return fmt.Errorf("certificate email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("certificate", data)
	if err != nil {
		return fmt.Errorf("failed to render certificate template: %w", err)
	}
	msg := &domain.EmailMessage{
		To:      data.Email,
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
		Attachments: []domain.Attachment{{
			Filename:    CertificateFilename(data.EventName),
			ContentType: "application/pdf",
			Content:     data.Certificate,
		}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send certificate email: %w", err)
	}
	s.logger.InfoContext(ctx, "certificate email sent", "email", data.Email, "event", data.EventName)
	return nil
}

// CertificateFilename is the attachment name for an event's certificate.
func CertificateFilename(eventName string) string {
	return whitespace.ReplaceAllString(eventName, "_") + "_Certificate.pdf"
}
