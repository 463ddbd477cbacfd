package mailer

import (
	"context"
	"fmt"

	"github.com/developeraldawla/project-n8n/config"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type SendGridSender struct {
	client sendGridClient
	from   *mail.Email
}

func NewSendGridSender(cfg config.EmailConfig) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	to := mail.NewEmail("", msg.To)
	email := mail.NewSingleEmail(s.from, msg.Subject, to, msg.Body, msg.Body)

	response, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: unexpected status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}
