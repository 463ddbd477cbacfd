// Package mailer delivers transactional email.
package mailer

import (
	"context"

	"github.com/developeraldawla/project-n8n/config"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the SendGrid sender when an API key is configured and the
// logging sender otherwise.
func New(cfg config.EmailConfig) Sender {
	if cfg.SendGridAPIKey == "" {
		return NewLogSender()
	}
	return NewSendGridSender(cfg)
}
