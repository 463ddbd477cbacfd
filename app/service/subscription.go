package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/factory"
	"github.com/developeraldawla/project-n8n/app/payment"
	"github.com/developeraldawla/project-n8n/app/repository"
	"github.com/developeraldawla/project-n8n/config"
	"github.com/sirupsen/logrus"
)

type subscribeRequest interface {
	GetPlanSlug() string
}

type CreateResult struct {
	Subscription *entity.Subscription
	Plan         *entity.Plan
	PaymentURL   string
}

type subscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Update(ctx context.Context, subscription *entity.Subscription) error
	DeactivateActiveForUser(ctx context.Context, userID string, keepID uint64, now time.Time) (int64, error)
	FindByID(ctx context.Context, id uint64) (*entity.Subscription, error)
	FindActiveByUser(ctx context.Context, userID string) (*entity.Subscription, error)
	FindLatestByUser(ctx context.Context, userID string) (*entity.Subscription, error)
	ListPendingPaymentStale(ctx context.Context, cutoff time.Time) ([]*entity.Subscription, error)
	ListExpiredActive(ctx context.Context, now time.Time) ([]*entity.Subscription, error)
}

type subscriptionPlanRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.Plan, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Plan, error)
}

type userPlanWriter interface {
	UpdatePlan(ctx context.Context, userID string, planID *uint64) error
}

type SubscriptionService struct {
	subscriptionRepo subscriptionRepository
	planRepo         subscriptionPlanRepository
	userRepo         userPlanWriter
	paymentService   payment.Service
	notifier         notifier
	cfg              config.SubscriptionConfig
	defaultPlanSlug  string
	logger           logrus.FieldLogger
}

func NewSubscriptionService(
	subscriptionRepo subscriptionRepository,
	planRepo subscriptionPlanRepository,
	userRepo userPlanWriter,
	paymentService payment.Service,
	notifier notifier,
	cfg config.SubscriptionConfig,
	plans config.PlanConfig,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		paymentService:   paymentService,
		notifier:         notifier,
		cfg:              cfg,
		defaultPlanSlug:  plans.DefaultPlanSlug,
		logger:           factory.NewModuleLogger("subscription-service"),
	}
}

// Current returns the user's ACTIVE subscription, or the latest one in any
// status when none is active.
func (s *SubscriptionService) Current(ctx context.Context, userID string) (*entity.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subscription != nil {
		return subscription, nil
	}

	subscription, err = s.subscriptionRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, ErrSubscriptionNotFound
	}
	return subscription, nil
}

func (s *SubscriptionService) Subscribe(ctx context.Context, userID string, req subscribeRequest) (*CreateResult, error) {
	planSlug := strings.TrimSpace(req.GetPlanSlug())
	if planSlug == "" {
		return nil, fmt.Errorf("%w: plan_slug is required", ErrInvalidRequest)
	}

	plan, err := s.planRepo.FindBySlug(ctx, planSlug)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}

	active, err := s.subscriptionRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil && active.PlanID == plan.ID {
		if !active.CancelAtPeriodEnd {
			return nil, ErrSubscriptionAlreadyExists
		}
		return s.resume(ctx, active, plan)
	}

	now := time.Now().UTC()
	subscription := &entity.Subscription{
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    entity.SubscriptionStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		if errors.Is(err, repository.ErrSubscriptionAlreadyExists) {
			return nil, ErrSubscriptionAlreadyExists
		}
		return nil, err
	}

	result := &CreateResult{Subscription: subscription, Plan: plan}
	if plan.IsFree() {
		if err := s.activate(ctx, subscription, plan, now); err != nil {
			return nil, err
		}
		return result, nil
	}

	payResult, err := s.processPaymentSafely(ctx, payment.Charge{
		SubscriptionID: subscription.ID,
		UserID:         userID,
		PlanSlug:       plan.Slug,
		AmountCents:    plan.PriceMonthlyCents,
		Currency:       plan.Currency,
	})
	if err != nil {
		s.deactivate(ctx, subscription)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	now = time.Now().UTC()
	switch payResult.Type {
	case payment.ResultTypeSuccess:
		if payResult.TransactionID != "" {
			subscription.TransactionID = &payResult.TransactionID
		}
		if err := s.activate(ctx, subscription, plan, now); err != nil {
			return nil, err
		}
	case payment.ResultTypeRedirect:
		subscription.Status = entity.SubscriptionStatusPendingPayment
		subscription.UpdatedAt = now
		if err := s.update(ctx, subscription); err != nil {
			return nil, err
		}
		result.PaymentURL = payResult.PaymentURL
	default:
		s.deactivate(ctx, subscription)
		return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, payResult.Error)
	}

	return result, nil
}

// Cancel stops the active subscription from continuing past its period end.
// The plan stays in effect until then; subscribing to the same plan again
// before the period ends resumes it.
func (s *SubscriptionService) Cancel(ctx context.Context, userID string) (*entity.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, ErrSubscriptionNotFound
	}
	if subscription.CancelAtPeriodEnd {
		return subscription, nil
	}

	subscription.CancelAtPeriodEnd = true
	subscription.UpdatedAt = time.Now().UTC()
	if err := s.update(ctx, subscription); err != nil {
		return nil, err
	}

	s.notify(ctx, userID, entity.NotificationTypeInfo, "Your subscription will end at the close of the current period.")
	return subscription, nil
}

func (s *SubscriptionService) resume(ctx context.Context, subscription *entity.Subscription, plan *entity.Plan) (*CreateResult, error) {
	subscription.CancelAtPeriodEnd = false
	subscription.UpdatedAt = time.Now().UTC()
	if err := s.update(ctx, subscription); err != nil {
		return nil, err
	}

	s.notify(ctx, subscription.UserID, entity.NotificationTypeInfo, fmt.Sprintf("Your %s subscription will continue.", plan.Name))
	return &CreateResult{Subscription: subscription, Plan: plan}, nil
}

// ActivatePlan puts the user on plan right away, without payment. Used for the
// default plan at registration and on expiry, and for admin plan changes.
func (s *SubscriptionService) ActivatePlan(ctx context.Context, userID string, plan *entity.Plan) (*entity.Subscription, error) {
	now := time.Now().UTC()
	subscription := &entity.Subscription{
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    entity.SubscriptionStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		if errors.Is(err, repository.ErrSubscriptionAlreadyExists) {
			return nil, ErrSubscriptionAlreadyExists
		}
		return nil, err
	}

	if err := s.activate(ctx, subscription, plan, now); err != nil {
		return nil, err
	}
	return subscription, nil
}

// ActivateSubscription completes a pending subscription after a successful payment.
func (s *SubscriptionService) ActivateSubscription(ctx context.Context, subscription *entity.Subscription, transactionID string) error {
	plan, err := s.planRepo.FindByID(ctx, subscription.PlanID)
	if err != nil {
		return err
	}
	if plan == nil {
		return ErrPlanNotFound
	}

	if transactionID != "" {
		subscription.TransactionID = &transactionID
	}
	if err := s.activate(ctx, subscription, plan, time.Now().UTC()); err != nil {
		return err
	}

	s.notify(ctx, subscription.UserID, entity.NotificationTypeSuccess, fmt.Sprintf("Your %s subscription is now active.", plan.Name))
	return nil
}

func (s *SubscriptionService) RunPendingPaymentCleanupBatch(ctx context.Context) error {
	now := time.Now().UTC()
	cutoff := now.Add(-s.cfg.PendingPaymentTimeout)
	items, err := s.subscriptionRepo.ListPendingPaymentStale(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, item := range items {
		item.Status = entity.SubscriptionStatusInactive
		item.UpdatedAt = now
		if err := s.update(ctx, item); err != nil {
			s.logger.WithError(err).WithField("subscription_id", item.ID).Warn("Failed to expire pending payment")
			continue
		}
		s.notify(ctx, item.UserID, entity.NotificationTypeWarning, "Your payment was not completed in time and the upgrade was cancelled.")
	}

	return nil
}

// RunExpirationBatch ends ACTIVE subscriptions whose period is over and moves
// their users back to the default plan.
func (s *SubscriptionService) RunExpirationBatch(ctx context.Context) error {
	now := time.Now().UTC()
	items, err := s.subscriptionRepo.ListExpiredActive(ctx, now)
	if err != nil {
		return err
	}

	for _, item := range items {
		item.Status = entity.SubscriptionStatusInactive
		item.UpdatedAt = now
		if err := s.update(ctx, item); err != nil {
			s.logger.WithError(err).WithField("subscription_id", item.ID).Warn("Failed to expire subscription")
			continue
		}
		if err := s.fallbackToDefaultPlan(ctx, item.UserID); err != nil {
			s.logger.WithError(err).WithField("user_id", item.UserID).Error("Failed to move user to default plan")
			continue
		}
		if item.CancelAtPeriodEnd {
			s.notify(ctx, item.UserID, entity.NotificationTypeInfo, "Your canceled subscription has ended. You are now on the free plan.")
		} else {
			s.notify(ctx, item.UserID, entity.NotificationTypeWarning, "Your subscription has expired. Subscribe again to keep your plan; you are now on the free plan.")
		}
	}

	return nil
}

func (s *SubscriptionService) fallbackToDefaultPlan(ctx context.Context, userID string) error {
	plan, err := s.planRepo.FindBySlug(ctx, s.defaultPlanSlug)
	if err != nil {
		return err
	}
	if plan == nil {
		return s.userRepo.UpdatePlan(ctx, userID, nil)
	}
	_, err = s.ActivatePlan(ctx, userID, plan)
	return err
}

// activate makes subscription the user's only ACTIVE one and points the user
// at its plan. Other ACTIVE rows are switched off first so the unique
// active-user index never sees two.
func (s *SubscriptionService) activate(ctx context.Context, subscription *entity.Subscription, plan *entity.Plan, now time.Time) error {
	if _, err := s.subscriptionRepo.DeactivateActiveForUser(ctx, subscription.UserID, subscription.ID, now); err != nil {
		return err
	}

	start := now
	end := s.periodEnd(plan, now)
	subscription.Status = entity.SubscriptionStatusActive
	subscription.CurrentPeriodStart = &start
	subscription.CurrentPeriodEnd = &end
	subscription.CancelAtPeriodEnd = false
	subscription.UpdatedAt = now
	if err := s.update(ctx, subscription); err != nil {
		return err
	}

	planID := plan.ID
	if err := s.userRepo.UpdatePlan(ctx, subscription.UserID, &planID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *SubscriptionService) periodEnd(plan *entity.Plan, now time.Time) time.Time {
	if plan.IsFree() {
		return now.AddDate(s.cfg.FreePeriodYears, 0, 0)
	}
	return now.AddDate(0, 0, s.cfg.PaidPeriodDays)
}

func (s *SubscriptionService) deactivate(ctx context.Context, subscription *entity.Subscription) {
	subscription.Status = entity.SubscriptionStatusInactive
	subscription.UpdatedAt = time.Now().UTC()
	if err := s.update(ctx, subscription); err != nil {
		s.logger.WithError(err).WithField("subscription_id", subscription.ID).Warn("Failed to deactivate subscription")
	}
}

func (s *SubscriptionService) update(ctx context.Context, subscription *entity.Subscription) error {
	if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
		switch {
		case errors.Is(err, repository.ErrSubscriptionNotFound):
			return ErrSubscriptionNotFound
		case errors.Is(err, repository.ErrSubscriptionAlreadyExists):
			return ErrSubscriptionAlreadyExists
		default:
			return err
		}
	}
	return nil
}

func (s *SubscriptionService) notify(ctx context.Context, userID, notificationType, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, notificationType, message); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to create notification")
	}
}

func (s *SubscriptionService) processPaymentSafely(ctx context.Context, charge payment.Charge) (_ payment.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("payment processing failed: %v", rec)
		}
	}()

	return s.paymentService.ProcessSubscriptionPayment(ctx, charge), nil
}
