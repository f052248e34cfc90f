package domain

import "context"

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// EmailMessage is a fully rendered outgoing email.
type EmailMessage struct {
	To          string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// CertificateEmailData holds data for the certificate email.
type CertificateEmailData struct {
	Email       string
	Name        string
	EventName   string
	Certificate []byte
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendCertificate(ctx context.Context, data *CertificateEmailData) error
}
