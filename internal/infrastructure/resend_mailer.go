package infrastructure

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/lovesinghal31/backendcourse/internal/application/interfaces"
)

type ResendMailer struct {
	client *resend.Client
	sender string
}

var _ interfaces.Mailer = (*ResendMailer)(nil)

func NewResendMailer(apiKey, sender string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		sender: sender,
	}
}

func (m *ResendMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    m.sender,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
