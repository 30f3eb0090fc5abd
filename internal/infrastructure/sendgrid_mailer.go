package infrastructure

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/lovesinghal31/backendcourse/internal/application/interfaces"
)

type SendgridMailer struct {
	client *sendgrid.Client
	sender string
}

var _ interfaces.Mailer = (*SendgridMailer)(nil)

func NewSendgridMailer(apiKey, sender string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
	}
}

func (m *SendgridMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	from := mail.NewEmail("", m.sender)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), htmlBody, htmlBody)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d", response.StatusCode)
	}
	return nil
}
