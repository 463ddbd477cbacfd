package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/mailer"
	"github.com/developeraldawla/project-n8n/app/repository"
)

const notificationListLimit = 50

type notificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id uint64, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// notifier is what other services use to reach a user.
type notifier interface {
	Notify(ctx context.Context, userID, notificationType, message string) error
	SendEmail(ctx context.Context, to, subject, body string) error
}

type NotificationService struct {
	repo   notificationRepository
	sender mailer.Sender
}

func NewNotificationService(repo notificationRepository, sender mailer.Sender) *NotificationService {
	return &NotificationService{repo: repo, sender: sender}
}

func (s *NotificationService) Notify(ctx context.Context, userID, notificationType, message string) error {
	if !isNotificationTypeAllowed(notificationType) {
		return fmt.Errorf("%w: unknown notification type %q", ErrInvalidRequest, notificationType)
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidRequest)
	}

	return s.repo.Create(ctx, &entity.Notification{
		UserID:    userID,
		Type:      notificationType,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]*entity.Notification, error) {
	return s.repo.ListByUser(ctx, userID, notificationListLimit)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, id uint64) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) SendEmail(ctx context.Context, to, subject, body string) error {
	return s.sender.Send(ctx, mailer.Message{To: to, Subject: subject, Body: body})
}

func isNotificationTypeAllowed(notificationType string) bool {
	switch notificationType {
	case entity.NotificationTypeInfo,
		entity.NotificationTypeWarning,
		entity.NotificationTypeError,
		entity.NotificationTypeSuccess:
		return true
	default:
		return false
	}
}
