package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
)

type paymentCallbackRequest interface {
	GetSubscriptionId() uint64
	GetStatus() string
	GetTransactionId() string
}

type subscriptionActivator interface {
	ActivateSubscription(ctx context.Context, subscription *entity.Subscription, transactionID string) error
}

type PaymentCallbackService struct {
	subscriptionRepo subscriptionRepository
	activator        subscriptionActivator
	notifier         notifier
}

func NewPaymentCallbackService(subscriptionRepo subscriptionRepository, activator subscriptionActivator, notifier notifier) *PaymentCallbackService {
	return &PaymentCallbackService{
		subscriptionRepo: subscriptionRepo,
		activator:        activator,
		notifier:         notifier,
	}
}

// PaymentCallback applies a payment outcome to a pending subscription.
// A repeated success for an already active subscription is a no-op.
func (s *PaymentCallbackService) PaymentCallback(ctx context.Context, req paymentCallbackRequest) error {
	subscription, err := s.subscriptionRepo.FindByID(ctx, req.GetSubscriptionId())
	if err != nil {
		return err
	}
	if subscription == nil {
		return ErrSubscriptionNotFound
	}

	switch strings.ToLower(strings.TrimSpace(req.GetStatus())) {
	case "success":
		if subscription.Status == entity.SubscriptionStatusActive {
			return nil
		}
		if !isAwaitingPayment(subscription) {
			return fmt.Errorf("%w: subscription is not awaiting payment", ErrInvalidStatus)
		}
		return s.activator.ActivateSubscription(ctx, subscription, strings.TrimSpace(req.GetTransactionId()))
	case "failed":
		if !isAwaitingPayment(subscription) {
			return fmt.Errorf("%w: subscription is not awaiting payment", ErrInvalidStatus)
		}
		subscription.Status = entity.SubscriptionStatusInactive
		if tx := strings.TrimSpace(req.GetTransactionId()); tx != "" {
			subscription.TransactionID = &tx
		}
		subscription.UpdatedAt = time.Now().UTC()
		if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
			return err
		}
		if s.notifier != nil {
			_ = s.notifier.Notify(ctx, subscription.UserID, entity.NotificationTypeError, "Your payment failed. Your plan was not changed.")
		}
		return nil
	default:
		return fmt.Errorf("%w: invalid callback status", ErrInvalidRequest)
	}
}

func isAwaitingPayment(subscription *entity.Subscription) bool {
	return subscription.Status == entity.SubscriptionStatusPendingPayment ||
		subscription.Status == entity.SubscriptionStatusProcessing
}
