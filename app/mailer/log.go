package mailer

import (
	"context"

	"github.com/developeraldawla/project-n8n/app/factory"
	"github.com/sirupsen/logrus"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger logrus.FieldLogger
}

func NewLogSender() *LogSender {
	return &LogSender{logger: factory.NewModuleLogger("mailer")}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
		"body":    msg.Body,
	}).Info("mock email")
	return nil
}
