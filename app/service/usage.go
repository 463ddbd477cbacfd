package service

import (
	"context"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/config"
)

type limitReader interface {
	GetLimit(ctx context.Context, userID, limitKey string) int64
}

// usageCounter is implemented by the MySQL counter repository and the Redis quota store.
type usageCounter interface {
	Increment(ctx context.Context, userID string, day time.Time, limit int64) (bool, int64, error)
	Used(ctx context.Context, userID string, day time.Time) (int64, error)
}

type usageRepository interface {
	CreateLog(ctx context.Context, log *entity.UsageLog) error
	Summary(ctx context.Context, userID string, day time.Time) (*entity.UsageSummary, error)
}

type Consumption struct {
	Allowed bool
	Used    int64
	Limit   int64
}

// Remaining is what is left of today's limit, or -1 when the plan is unlimited.
func (c *Consumption) Remaining() int64 {
	return remainingQuota(c.Limit, c.Used)
}

type UsageStats struct {
	PlanName   string
	DailyLimit int64
	Today      entity.UsageSummary
	Used       int64
	Remaining  int64
}

type UsageService struct {
	gate      limitReader
	counter   usageCounter
	usageRepo usageRepository
	userRepo  userPlanRepository
	cfg       config.UsageConfig
}

func NewUsageService(
	gate limitReader,
	counter usageCounter,
	usageRepo usageRepository,
	userRepo userPlanRepository,
	cfg config.UsageConfig,
) *UsageService {
	return &UsageService{
		gate:      gate,
		counter:   counter,
		usageRepo: usageRepo,
		userRepo:  userRepo,
		cfg:       cfg,
	}
}

// Consume takes one unit of today's quota. The check and the increment happen
// in a single atomic step inside the counter; a limit of 0 denies without
// touching it.
func (s *UsageService) Consume(ctx context.Context, userID string) (*Consumption, error) {
	day := usageDay(time.Now())
	limit := s.gate.GetLimit(ctx, userID, s.cfg.DailyLimitKey)

	if limit == 0 {
		used, err := s.counter.Used(ctx, userID, day)
		if err != nil {
			return nil, err
		}
		return &Consumption{Allowed: false, Used: used, Limit: 0}, nil
	}

	allowed, used, err := s.counter.Increment(ctx, userID, day, limit)
	if err != nil {
		return nil, err
	}
	return &Consumption{Allowed: allowed, Used: used, Limit: limit}, nil
}

// Usage reports today's counter and the current daily limit without consuming.
func (s *UsageService) Usage(ctx context.Context, userID string) (*Consumption, error) {
	day := usageDay(time.Now())
	limit := s.gate.GetLimit(ctx, userID, s.cfg.DailyLimitKey)
	used, err := s.counter.Used(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	return &Consumption{Allowed: limit < 0 || used < limit, Used: used, Limit: limit}, nil
}

func (s *UsageService) Record(ctx context.Context, log *entity.UsageLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	if log.UsageDate.IsZero() {
		log.UsageDate = usageDay(log.CreatedAt)
	}
	return s.usageRepo.CreateLog(ctx, log)
}

func (s *UsageService) TodayStats(ctx context.Context, userID string) (*UsageStats, error) {
	user, plan, err := s.userRepo.FindWithPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	day := usageDay(time.Now())
	summary, err := s.usageRepo.Summary(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	used, err := s.counter.Used(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	stats := &UsageStats{Today: *summary, Used: used}
	if plan != nil && user.PlanID != nil {
		stats.PlanName = plan.Name
		stats.DailyLimit = plan.Limits[s.cfg.DailyLimitKey]
	}

	stats.Remaining = remainingQuota(stats.DailyLimit, used)
	return stats, nil
}

func remainingQuota(limit, used int64) int64 {
	switch {
	case limit == entity.LimitUnlimited:
		return entity.LimitUnlimited
	case limit > used:
		return limit - used
	default:
		return 0
	}
}

func usageDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
