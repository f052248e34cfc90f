package email

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/require"

	"certbot/internal/domain"
)

type fakeSES struct {
	input *ses.SendRawEmailInput
	err   error
}

func (f *fakeSES) SendRawEmail(_ context.Context, params *ses.SendRawEmailInput, _ ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendRawEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{"token filename", "Intro_to_CS_Certificate.pdf"},
		{"filename needing quotes", "Intro_(CS)_Certificate.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSES{}
			m := &sesMailer{client: client, source: "CertBot <certs@example.com>", logger: testLogger()}

			err := m.Send(context.Background(), &domain.EmailMessage{
				To:      "ada@example.com",
				Subject: "Your Intro to CS Certificate",
				Text:    "hi",
				HTML:    "<p>hi</p>",
				Attachments: []domain.Attachment{
					{Filename: tt.filename, ContentType: "application/pdf", Content: []byte("%PDF")},
				},
			})
			require.NoError(t, err)
			require.NotNil(t, client.input)
			require.Equal(t, []string{"ada@example.com"}, client.input.Destinations)
			require.Equal(t, "CertBot <certs@example.com>", aws.ToString(client.input.Source))
			require.Equal(t, []string{tt.filename}, attachmentFilenames(t, client.input.RawMessage.Data))
		})
	}
}

// attachmentFilenames returns the Content-Disposition filename of every
// attachment part of a raw multipart/mixed message.
func attachmentFilenames(t *testing.T, raw []byte) []string {
	t.Helper()
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	_, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)

	var names []string
	mr := multipart.NewReader(msg.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return names
		}
		require.NoError(t, err)
		disposition, dparams, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
		if err == nil && disposition == "attachment" {
			names = append(names, dparams["filename"])
		}
	}
}

func TestSESMailer_SendError(t *testing.T) {
	errAPI := errors.New("throttled")
	m := &sesMailer{client: &fakeSES{err: errAPI}, source: "certs@example.com", logger: testLogger()}

	err := m.Send(context.Background(), &domain.EmailMessage{To: "ada@example.com"})
	require.ErrorIs(t, err, errAPI)
}

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name    string
		config  MailerConfig
		wantErr bool
		check   func(t *testing.T, m domain.Mailer)
	}{
		{
			name:   "ses",
			config: MailerConfig{Provider: "ses", FromAddress: "certs@example.com", SES: SESConfig{Region: "eu-west-1"}},
			check: func(t *testing.T, m domain.Mailer) {
				_, ok := m.(*sesMailer)
				require.True(t, ok)
			},
		},
		{
			name:   "resend",
			config: MailerConfig{Provider: "resend", FromAddress: "certs@example.com", Resend: ResendConfig{APIKey: "re_test"}},
			check: func(t *testing.T, m domain.Mailer) {
				_, ok := m.(*resendMailer)
				require.True(t, ok)
			},
		},
		{
			name:    "resend without key",
			config:  MailerConfig{Provider: "resend"},
			wantErr: true,
		},
		{
			name:   "unknown provider falls back to noop",
			config: MailerConfig{Provider: "carrier-pigeon"},
			check: func(t *testing.T, m domain.Mailer) {
				_, ok := m.(*noopMailer)
				require.True(t, ok)
				require.NoError(t, m.Send(context.Background(), &domain.EmailMessage{To: "a@b.c"}))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMailer(tt.config, testLogger())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, m)
		})
	}
}
