package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/developeraldawla/project-n8n/config"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type fakeSendGridClient struct {
	sendFn func(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
	sent   []*mail.SGMailV3
}

func (f *fakeSendGridClient) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	if f.sendFn != nil {
		return f.sendFn(ctx, email)
	}
	return &rest.Response{StatusCode: 202}, nil
}

func TestNewSelectsSender(t *testing.T) {
	if _, ok := New(config.EmailConfig{}).(*LogSender); !ok {
		t.Fatal("expected log sender without api key")
	}
	if _, ok := New(config.EmailConfig{SendGridAPIKey: "SG.key", FromEmail: "a@b.c"}).(*SendGridSender); !ok {
		t.Fatal("expected sendgrid sender with api key")
	}
}

func TestLogSenderNeverFails(t *testing.T) {
	if err := NewLogSender().Send(context.Background(), Message{To: "u@example.com", Subject: "hi"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestSendGridSenderBuildsMessage(t *testing.T) {
	client := &fakeSendGridClient{}
	sender := &SendGridSender{client: client, from: mail.NewEmail("ToolHub", "no-reply@toolhub.local")}

	err := sender.Send(context.Background(), Message{To: "u@example.com", Subject: "Welcome", Body: "hello"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(client.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(client.sent))
	}
	sent := client.sent[0]
	if sent.Subject != "Welcome" || sent.From.Address != "no-reply@toolhub.local" {
		t.Fatalf("unexpected message: %+v", sent)
	}
	if sent.Personalizations[0].To[0].Address != "u@example.com" {
		t.Fatalf("unexpected recipient: %+v", sent.Personalizations[0].To)
	}
}

func TestSendGridSenderRejectsErrorStatus(t *testing.T) {
	client := &fakeSendGridClient{sendFn: func(context.Context, *mail.SGMailV3) (*rest.Response, error) {
		return &rest.Response{StatusCode: 401, Body: "unauthorized"}, nil
	}}
	sender := &SendGridSender{client: client, from: mail.NewEmail("ToolHub", "no-reply@toolhub.local")}

	if err := sender.Send(context.Background(), Message{To: "u@example.com"}); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestSendGridSenderTransportError(t *testing.T) {
	client := &fakeSendGridClient{sendFn: func(context.Context, *mail.SGMailV3) (*rest.Response, error) {
		return nil, errors.New("dial tcp: timeout")
	}}
	sender := &SendGridSender{client: client, from: mail.NewEmail("ToolHub", "no-reply@toolhub.local")}

	if err := sender.Send(context.Background(), Message{To: "u@example.com"}); err == nil {
		t.Fatal("expected transport error")
	}
}
