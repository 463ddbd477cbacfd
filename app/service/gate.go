package service

import (
	"context"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/factory"
	"github.com/sirupsen/logrus"
)

type userPlanRepository interface {
	FindWithPlan(ctx context.Context, id string) (*entity.User, *entity.Plan, error)
}

// GateService answers feature and limit questions for a user's current plan.
// Every call reads through to storage; nothing is cached. Any missing piece
// (user, plan, key) or storage failure yields the restrictive answer.
type GateService struct {
	userRepo userPlanRepository
	logger   logrus.FieldLogger
}

func NewGateService(userRepo userPlanRepository) *GateService {
	return &GateService{
		userRepo: userRepo,
		logger:   factory.NewModuleLogger("gate-service"),
	}
}

func (s *GateService) IsEnabled(ctx context.Context, userID, featureKey string) bool {
	plan := s.planFor(ctx, userID)
	if plan == nil {
		return false
	}
	return plan.Features[featureKey]
}

// GetLimit returns the plan's value for limitKey, 0 when absent.
// entity.LimitUnlimited is returned verbatim.
func (s *GateService) GetLimit(ctx context.Context, userID, limitKey string) int64 {
	plan := s.planFor(ctx, userID)
	if plan == nil {
		return 0
	}
	return plan.Limits[limitKey]
}

func (s *GateService) planFor(ctx context.Context, userID string) *entity.Plan {
	if userID == "" {
		return nil
	}

	user, plan, err := s.userRepo.FindWithPlan(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Plan lookup failed, denying")
		return nil
	}
	if user == nil || user.PlanID == nil {
		return nil
	}
	return plan
}
