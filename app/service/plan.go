package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/repository"
	"github.com/gosimple/slug"
)

type planRequest interface {
	GetSlug() string
	GetName() string
	GetDescription() string
	GetPriceMonthlyCents() int64
	GetPriceYearlyCents() int64
	GetCurrency() string
	GetTrialDays() int32
	GetFeatures() map[string]bool
	GetLimits() map[string]int64
	GetIsActive() bool
}

type updatePlanRequest interface {
	planRequest
	GetId() uint64
}

type planRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	Update(ctx context.Context, plan *entity.Plan) error
	FindByID(ctx context.Context, id uint64) (*entity.Plan, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Plan, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Plan, error)
	CountUsers(ctx context.Context, planID uint64) (int64, error)
}

type PlanService struct {
	planRepo planRepository
	audit    auditRecorder
}

func NewPlanService(planRepo planRepository, audit auditRecorder) *PlanService {
	return &PlanService{planRepo: planRepo, audit: audit}
}

func (s *PlanService) ListPublic(ctx context.Context) ([]*entity.Plan, error) {
	return s.planRepo.List(ctx, true)
}

func (s *PlanService) ListAll(ctx context.Context) ([]*entity.Plan, error) {
	return s.planRepo.List(ctx, false)
}

func (s *PlanService) GetPlan(ctx context.Context, id uint64) (*entity.Plan, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (s *PlanService) CreatePlan(ctx context.Context, adminID string, req planRequest) (*entity.Plan, error) {
	now := time.Now().UTC()
	plan := &entity.Plan{CreatedAt: now}
	if err := applyPlanRequest(plan, req); err != nil {
		return nil, err
	}
	plan.UpdatedAt = now

	if err := s.planRepo.Create(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrPlanAlreadyExists) {
			return nil, ErrPlanAlreadyExists
		}
		return nil, err
	}

	s.audit.Record(ctx, adminID, AuditActionCreatePlan, planTarget(plan.ID), map[string]interface{}{
		"slug":     plan.Slug,
		"features": plan.Features,
		"limits":   plan.Limits,
	})
	return plan, nil
}

// UpdatePlan replaces the plan's attributes. An empty slug keeps the stored one;
// a different slug is only accepted while no user references the plan. Gate
// lookups see the new maps on their next call.
func (s *PlanService) UpdatePlan(ctx context.Context, adminID string, req updatePlanRequest) (*entity.Plan, error) {
	plan, err := s.planRepo.FindByID(ctx, req.GetId())
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	previousSlug := plan.Slug
	if err := applyPlanRequest(plan, req); err != nil {
		return nil, err
	}

	if plan.Slug != previousSlug {
		users, err := s.planRepo.CountUsers(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		if users > 0 {
			return nil, ErrPlanSlugImmutable
		}
	}

	plan.UpdatedAt = time.Now().UTC()
	if err := s.planRepo.Update(ctx, plan); err != nil {
		switch {
		case errors.Is(err, repository.ErrPlanNotFound):
			return nil, ErrPlanNotFound
		case errors.Is(err, repository.ErrPlanAlreadyExists):
			return nil, ErrPlanAlreadyExists
		default:
			return nil, err
		}
	}

	s.audit.Record(ctx, adminID, AuditActionUpdatePlan, planTarget(plan.ID), map[string]interface{}{
		"slug":      plan.Slug,
		"features":  plan.Features,
		"limits":    plan.Limits,
		"is_active": plan.IsActive,
	})
	return plan, nil
}

func applyPlanRequest(plan *entity.Plan, req planRequest) error {
	name := strings.TrimSpace(req.GetName())
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}

	planSlug := strings.TrimSpace(req.GetSlug())
	if planSlug == "" {
		planSlug = plan.Slug
	}
	if planSlug == "" {
		planSlug = slug.Make(name)
	}
	if !slug.IsSlug(planSlug) {
		return fmt.Errorf("%w: slug must contain lowercase letters, digits and dashes", ErrInvalidRequest)
	}

	if req.GetPriceMonthlyCents() < 0 || req.GetPriceYearlyCents() < 0 {
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidRequest)
	}
	if req.GetTrialDays() < 0 {
		return fmt.Errorf("%w: trial_days must not be negative", ErrInvalidRequest)
	}

	limits := make(map[string]int64, len(req.GetLimits()))
	for key, value := range req.GetLimits() {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: limit keys must not be empty", ErrInvalidRequest)
		}
		if value < entity.LimitUnlimited {
			return fmt.Errorf("%w: limit %q must be -1 or greater", ErrInvalidRequest, key)
		}
		limits[key] = value
	}
	features := make(map[string]bool, len(req.GetFeatures()))
	for key, value := range req.GetFeatures() {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: feature keys must not be empty", ErrInvalidRequest)
		}
		features[key] = value
	}

	currency := strings.ToUpper(strings.TrimSpace(req.GetCurrency()))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidRequest)
	}

	plan.Slug = planSlug
	plan.Name = name
	plan.Description = strings.TrimSpace(req.GetDescription())
	plan.PriceMonthlyCents = req.GetPriceMonthlyCents()
	plan.PriceYearlyCents = req.GetPriceYearlyCents()
	plan.Currency = currency
	plan.TrialDays = req.GetTrialDays()
	plan.Features = features
	plan.Limits = limits
	plan.IsActive = req.GetIsActive()
	return nil
}

func planTarget(id uint64) string {
	return "plan:" + strconv.FormatUint(id, 10)
}
