package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/service"
	"github.com/developeraldawla/project-n8n/app/types"
	"github.com/developeraldawla/project-n8n/config"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type grpcUserRepo struct {
	findWithPlanFn func(ctx context.Context, id string) (*entity.User, *entity.Plan, error)
}

func (r *grpcUserRepo) FindWithPlan(ctx context.Context, id string) (*entity.User, *entity.Plan, error) {
	if r.findWithPlanFn != nil {
		return r.findWithPlanFn(ctx, id)
	}
	return nil, nil, nil
}

type grpcCounter struct {
	used     int64
	usedErr  error
	incCalls int
}

func (c *grpcCounter) Increment(_ context.Context, _ string, _ time.Time, limit int64) (bool, int64, error) {
	c.incCalls++
	if limit >= 0 && c.used >= limit {
		return false, c.used, nil
	}
	c.used++
	return true, c.used, nil
}

func (c *grpcCounter) Used(context.Context, string, time.Time) (int64, error) {
	return c.used, c.usedErr
}

type grpcUsageRepo struct{}

func (grpcUsageRepo) CreateLog(context.Context, *entity.UsageLog) error { return nil }

func (grpcUsageRepo) Summary(context.Context, string, time.Time) (*entity.UsageSummary, error) {
	return &entity.UsageSummary{}, nil
}

func newTestServer(plan *entity.Plan, counter *grpcCounter) *Server {
	users := &grpcUserRepo{findWithPlanFn: func(_ context.Context, id string) (*entity.User, *entity.Plan, error) {
		if id != "u1" || plan == nil {
			return nil, nil, nil
		}
		planID := plan.ID
		return &entity.User{ID: id, PlanID: &planID}, plan, nil
	}}
	gate := service.NewGateService(users)
	usage := service.NewUsageService(gate, counter, grpcUsageRepo{}, users, config.UsageConfig{DailyLimitKey: "tools_daily"})
	return NewServer(gate, usage)
}

func proPlan() *entity.Plan {
	return &entity.Plan{
		ID:       2,
		Features: map[string]bool{"export": true},
		Limits:   map[string]int64{"tools_daily": 2, "projects": entity.LimitUnlimited},
	}
}

func TestIsEnabled(t *testing.T) {
	srv := newTestServer(proPlan(), &grpcCounter{})

	resp, err := srv.IsEnabled(context.Background(), &types.FeatureRequest{UserId: "u1", Key: "export"})
	if err != nil || !resp.Enabled {
		t.Fatalf("expected export enabled, got %+v %v", resp, err)
	}

	resp, err = srv.IsEnabled(context.Background(), &types.FeatureRequest{UserId: "ghost", Key: "export"})
	if err != nil || resp.Enabled {
		t.Fatalf("expected unknown user denied without error, got %+v %v", resp, err)
	}
}

func TestIsEnabledValidation(t *testing.T) {
	srv := newTestServer(proPlan(), &grpcCounter{})
	_, err := srv.IsEnabled(context.Background(), &types.FeatureRequest{UserId: "u1"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestGetLimitUnlimited(t *testing.T) {
	srv := newTestServer(proPlan(), &grpcCounter{})
	resp, err := srv.GetLimit(context.Background(), &types.LimitRequest{UserId: "u1", Key: "projects"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Limit != -1 || !resp.Unlimited {
		t.Fatalf("expected unlimited, got %+v", resp)
	}
}

func TestGetUsage(t *testing.T) {
	srv := newTestServer(proPlan(), &grpcCounter{used: 1})
	resp, err := srv.GetUsage(context.Background(), &types.UsageRequest{UserId: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Used != 1 || resp.Limit != 2 || resp.Remaining != 1 {
		t.Fatalf("unexpected usage: %+v", resp)
	}
}

func TestGetUsageCounterFailure(t *testing.T) {
	srv := newTestServer(proPlan(), &grpcCounter{usedErr: errors.New("redis down")})
	_, err := srv.GetUsage(context.Background(), &types.UsageRequest{UserId: "u1"})
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}

func TestConsumeQuotaUntilExhausted(t *testing.T) {
	counter := &grpcCounter{}
	srv := newTestServer(proPlan(), counter)

	for i := 0; i < 2; i++ {
		if _, err := srv.ConsumeQuota(context.Background(), &types.UsageRequest{UserId: "u1"}); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}

	_, err := srv.ConsumeQuota(context.Background(), &types.UsageRequest{UserId: "u1"})
	st := status.Convert(err)
	if st.Code() != codes.ResourceExhausted {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}

	var found bool
	for _, detail := range st.Details() {
		if failure, ok := detail.(*errdetails.QuotaFailure); ok && len(failure.GetViolations()) == 1 {
			found = failure.GetViolations()[0].GetSubject() == "user:u1"
		}
	}
	if !found {
		t.Fatalf("expected QuotaFailure detail, got %+v", st.Details())
	}
	if counter.used != 2 {
		t.Fatalf("expected counter capped at 2, got %d", counter.used)
	}
}

func TestConsumeQuotaWithoutPlanIsDenied(t *testing.T) {
	counter := &grpcCounter{}
	srv := newTestServer(nil, counter)

	_, err := srv.ConsumeQuota(context.Background(), &types.UsageRequest{UserId: "u1"})
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}
	if counter.incCalls != 0 {
		t.Fatalf("expected counter untouched, got %d increments", counter.incCalls)
	}
}
