package service

import (
	"context"
	"errors"
	"testing"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/repository"
	"github.com/developeraldawla/project-n8n/config"
	"golang.org/x/crypto/bcrypt"
)

type testRegisterRequest struct {
	email    string
	password string
}

func (r testRegisterRequest) GetEmail() string    { return r.email }
func (r testRegisterRequest) GetPassword() string { return r.password }

type testChangePlanRequest struct {
	userID string
	planID uint64
}

func (r testChangePlanRequest) GetUserId() string { return r.userID }
func (r testChangePlanRequest) GetPlanId() uint64 { return r.planID }

type fakePlanActivator struct {
	calls []uint64
	err   error
}

func (f *fakePlanActivator) ActivatePlan(_ context.Context, userID string, plan *entity.Plan) (*entity.Subscription, error) {
	f.calls = append(f.calls, plan.ID)
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Subscription{UserID: userID, PlanID: plan.ID, Status: entity.SubscriptionStatusActive}, nil
}

type userFixture struct {
	users     *mockUserRepo
	plans     *mockPlanRepo
	activator *fakePlanActivator
	notifier  *fakeNotifier
	audit     *fakeAudit
}

func newUserFixture() *userFixture {
	return &userFixture{
		users:     &mockUserRepo{},
		plans:     &mockPlanRepo{},
		activator: &fakePlanActivator{},
		notifier:  &fakeNotifier{},
		audit:     &fakeAudit{},
	}
}

func (f *userFixture) service() *UserService {
	return NewUserService(f.users, f.plans, f.activator, f.notifier, f.audit, config.PlanConfig{DefaultPlanSlug: "free"})
}

func TestRegisterAssignsDefaultPlan(t *testing.T) {
	f := newUserFixture()
	var stored *entity.User
	f.users.createFn = func(_ context.Context, user *entity.User) error {
		stored = user
		return nil
	}
	f.plans.findBySlugFn = func(context.Context, string) (*entity.Plan, error) { return freePlan(), nil }

	user, plan, err := f.service().Register(context.Background(), testRegisterRequest{email: " Jane@Example.com ", password: "s3cretpass"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "jane@example.com" || user.Role != entity.RoleUser || user.ID == "" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cretpass")); err != nil {
		t.Fatalf("expected bcrypt hash, got %v", err)
	}
	if plan == nil || user.PlanID == nil || *user.PlanID != 1 {
		t.Fatalf("expected free plan assigned, got %+v", user.PlanID)
	}
	if len(f.activator.calls) != 1 {
		t.Fatal("expected free subscription activated")
	}
	if len(f.notifier.notifications) != 1 || len(f.notifier.emails) != 1 || f.notifier.emails[0] != "jane@example.com" {
		t.Fatalf("expected welcome notification and email, got %+v %+v", f.notifier.notifications, f.notifier.emails)
	}
}

func TestRegisterWithoutDefaultPlan(t *testing.T) {
	f := newUserFixture()

	user, plan, err := f.service().Register(context.Background(), testRegisterRequest{email: "a@example.com", password: "longenough"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan != nil || user.PlanID != nil || len(f.activator.calls) != 0 {
		t.Fatal("expected planless user")
	}
}

func TestRegisterRemovesUserWhenActivationFails(t *testing.T) {
	f := newUserFixture()
	registered := map[string]*entity.User{}
	f.users.findByEmailFn = func(_ context.Context, email string) (*entity.User, error) {
		return registered[email], nil
	}
	f.users.createFn = func(_ context.Context, user *entity.User) error {
		registered[user.Email] = user
		return nil
	}
	f.users.deleteFn = func(_ context.Context, id string) error {
		for email, user := range registered {
			if user.ID == id {
				delete(registered, email)
			}
		}
		return nil
	}
	f.plans.findBySlugFn = func(context.Context, string) (*entity.Plan, error) { return freePlan(), nil }
	f.activator.err = errors.New("db down")
	svc := f.service()
	req := testRegisterRequest{email: "retry@example.com", password: "longenough"}

	if _, _, err := svc.Register(context.Background(), req); err == nil || err.Error() != "db down" {
		t.Fatalf("expected activation error, got %v", err)
	}
	if len(registered) != 0 {
		t.Fatalf("expected user removed, got %+v", registered)
	}
	if len(f.notifier.notifications) != 0 {
		t.Fatal("expected no welcome notification")
	}

	f.activator.err = nil
	user, plan, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if plan == nil || user.PlanID == nil || *user.PlanID != 1 {
		t.Fatalf("expected plan assigned on retry, got %+v", user)
	}
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	f := newUserFixture()
	svc := f.service()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, testRegisterRequest{email: "not-an-email", password: "longenough"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid email, got %v", err)
	}
	if _, _, err := svc.Register(ctx, testRegisterRequest{email: "a@example.com", password: "short"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected short password rejected, got %v", err)
	}

	f.users.findByEmailFn = func(context.Context, string) (*entity.User, error) { return &entity.User{ID: "x"}, nil }
	if _, _, err := svc.Register(ctx, testRegisterRequest{email: "a@example.com", password: "longenough"}); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	f.users.findByEmailFn = nil
	f.users.createFn = func(context.Context, *entity.User) error { return repository.ErrUserAlreadyExists }
	if _, _, err := svc.Register(ctx, testRegisterRequest{email: "a@example.com", password: "longenough"}); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists on race, got %v", err)
	}
}

func TestChangePlanAudited(t *testing.T) {
	f := newUserFixture()
	current := freePlan()
	f.users.findWithPlanFn = func(_ context.Context, id string) (*entity.User, *entity.Plan, error) {
		return userOn(id, current), current, nil
	}
	f.plans.findByIDFn = func(context.Context, uint64) (*entity.Plan, error) { return proPlan(), nil }

	user, plan, err := f.service().ChangePlan(context.Background(), "admin-1", testChangePlanRequest{userID: "u1", planID: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *user.PlanID != 2 || plan.Slug != "pro" {
		t.Fatalf("unexpected result: %+v %+v", user, plan)
	}
	if len(f.audit.entries) != 1 || f.audit.entries[0].target != "user:u1" || f.audit.entries[0].action != AuditActionChangeUserPlan {
		t.Fatalf("unexpected audit: %+v", f.audit.entries)
	}
}

func TestChangePlanErrors(t *testing.T) {
	f := newUserFixture()
	svc := f.service()
	ctx := context.Background()

	if _, _, err := svc.ChangePlan(ctx, "admin", testChangePlanRequest{userID: "u1"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if _, _, err := svc.ChangePlan(ctx, "admin", testChangePlanRequest{userID: "u1", planID: 2}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	f.users.findWithPlanFn = func(_ context.Context, id string) (*entity.User, *entity.Plan, error) {
		return userOn(id, nil), nil, nil
	}
	if _, _, err := svc.ChangePlan(ctx, "admin", testChangePlanRequest{userID: "u1", planID: 2}); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}
