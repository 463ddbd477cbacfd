package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/factory"
	"github.com/developeraldawla/project-n8n/app/repository"
	"github.com/developeraldawla/project-n8n/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	passwordHashCost  = 10
	defaultUserPage   = 50
	maxUserPage       = 200
)

type registerRequest interface {
	GetEmail() string
	GetPassword() string
}

type changePlanRequest interface {
	GetUserId() string
	GetPlanId() uint64
}

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindWithPlan(ctx context.Context, id string) (*entity.User, *entity.Plan, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
}

type planActivator interface {
	ActivatePlan(ctx context.Context, userID string, plan *entity.Plan) (*entity.Subscription, error)
}

type UserService struct {
	userRepo        userRepository
	planRepo        subscriptionPlanRepository
	subscriptions   planActivator
	notifier        notifier
	audit           auditRecorder
	defaultPlanSlug string
	logger          logrus.FieldLogger
}

func NewUserService(
	userRepo userRepository,
	planRepo subscriptionPlanRepository,
	subscriptions planActivator,
	notifier notifier,
	audit auditRecorder,
	cfg config.PlanConfig,
) *UserService {
	return &UserService{
		userRepo:        userRepo,
		planRepo:        planRepo,
		subscriptions:   subscriptions,
		notifier:        notifier,
		audit:           audit,
		defaultPlanSlug: cfg.DefaultPlanSlug,
		logger:          factory.NewModuleLogger("user-service"),
	}
}

// Register creates a USER account on the default plan. When the default plan
// does not exist the account is created without a plan and the gate denies
// everything until an admin assigns one. A failed activation removes the
// account again so the email can be registered on retry.
func (s *UserService) Register(ctx context.Context, req registerRequest) (*entity.User, *entity.Plan, error) {
	email := strings.ToLower(strings.TrimSpace(req.GetEmail()))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, nil, fmt.Errorf("%w: a valid email is required", ErrInvalidRequest)
	}
	if len(req.GetPassword()) < minPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRequest, minPasswordLength)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.GetPassword()), passwordHashCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	plan, err := s.planRepo.FindBySlug(ctx, s.defaultPlanSlug)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, err
	}

	if plan != nil {
		if _, err := s.subscriptions.ActivatePlan(ctx, user.ID, plan); err != nil {
			s.discard(ctx, user)
			return nil, nil, err
		}
		planID := plan.ID
		user.PlanID = &planID
	} else {
		s.logger.WithField("plan_slug", s.defaultPlanSlug).Warn("Default plan missing, user registered without a plan")
	}

	s.welcome(ctx, user)
	return user, plan, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*entity.User, *entity.Plan, error) {
	user, plan, err := s.userRepo.FindWithPlan(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}
	return user, plan, nil
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	if limit <= 0 {
		limit = defaultUserPage
	}
	if limit > maxUserPage {
		limit = maxUserPage
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.List(ctx, limit, offset)
}

// ChangePlan moves a user to another plan without payment.
func (s *UserService) ChangePlan(ctx context.Context, adminID string, req changePlanRequest) (*entity.User, *entity.Plan, error) {
	if req.GetPlanId() == 0 {
		return nil, nil, fmt.Errorf("%w: plan_id is required", ErrInvalidRequest)
	}

	user, current, err := s.userRepo.FindWithPlan(ctx, req.GetUserId())
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	plan, err := s.planRepo.FindByID(ctx, req.GetPlanId())
	if err != nil {
		return nil, nil, err
	}
	if plan == nil {
		return nil, nil, ErrPlanNotFound
	}

	if _, err := s.subscriptions.ActivatePlan(ctx, user.ID, plan); err != nil {
		return nil, nil, err
	}
	planID := plan.ID
	user.PlanID = &planID

	details := map[string]interface{}{"plan": plan.Slug}
	if current != nil {
		details["previous_plan"] = current.Slug
	}
	s.audit.Record(ctx, adminID, AuditActionChangeUserPlan, "user:"+user.ID, details)

	s.notify(ctx, user.ID, entity.NotificationTypeInfo, fmt.Sprintf("Your plan was changed to %s.", plan.Name))
	return user, plan, nil
}

func (s *UserService) discard(ctx context.Context, user *entity.User) {
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("Failed to remove user after plan activation failed")
	}
}

func (s *UserService) welcome(ctx context.Context, user *entity.User) {
	s.notify(ctx, user.ID, entity.NotificationTypeSuccess, "Welcome! Your account is ready.")
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendEmail(ctx, user.Email, "Welcome to ToolHub", "Your account is ready. Sign in to start using the tools on your plan."); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to send welcome email")
	}
}

func (s *UserService) notify(ctx context.Context, userID, notificationType, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, notificationType, message); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to create notification")
	}
}
