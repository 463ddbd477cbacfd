package controller

import (
	"bytes"
	"context"
	"net/http/httptest"
	"time"

	"github.com/developeraldawla/project-n8n/app/auth"
	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/labstack/echo/v4"
)

type stubUserRepo struct {
	users map[string]*entity.User
	plans map[uint64]*entity.Plan
	err   error
}

func (r *stubUserRepo) Create(_ context.Context, user *entity.User) error {
	if r.users == nil {
		r.users = map[string]*entity.User{}
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) UpdatePlan(_ context.Context, userID string, planID *uint64) error {
	if user, ok := r.users[userID]; ok {
		user.PlanID = planID
	}
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindWithPlan(_ context.Context, id string) (*entity.User, *entity.Plan, error) {
	if r.err != nil {
		return nil, nil, r.err
	}
	user, ok := r.users[id]
	if !ok {
		return nil, nil, nil
	}
	if user.PlanID == nil {
		return user, nil, nil
	}
	return user, r.plans[*user.PlanID], nil
}

func (r *stubUserRepo) List(context.Context, int, int) ([]*entity.User, error) {
	items := make([]*entity.User, 0, len(r.users))
	for _, user := range r.users {
		items = append(items, user)
	}
	return items, nil
}

type stubPlanRepo struct {
	plans   map[uint64]*entity.Plan
	created *entity.Plan
}

func (r *stubPlanRepo) Create(_ context.Context, plan *entity.Plan) error {
	plan.ID = 99
	r.created = plan
	return nil
}

func (r *stubPlanRepo) Update(context.Context, *entity.Plan) error {
	return nil
}

func (r *stubPlanRepo) FindByID(_ context.Context, id uint64) (*entity.Plan, error) {
	return r.plans[id], nil
}

func (r *stubPlanRepo) FindBySlug(_ context.Context, slug string) (*entity.Plan, error) {
	for _, plan := range r.plans {
		if plan.Slug == slug {
			return plan, nil
		}
	}
	return nil, nil
}

func (r *stubPlanRepo) List(context.Context, bool) ([]*entity.Plan, error) {
	items := make([]*entity.Plan, 0, len(r.plans))
	for _, plan := range r.plans {
		items = append(items, plan)
	}
	return items, nil
}

func (r *stubPlanRepo) CountUsers(context.Context, uint64) (int64, error) {
	return 0, nil
}

type stubToolRepo struct {
	tools map[string]*entity.Tool
}

func (r *stubToolRepo) Create(context.Context, *entity.Tool) error { return nil }
func (r *stubToolRepo) Update(context.Context, *entity.Tool) error { return nil }

func (r *stubToolRepo) FindByID(_ context.Context, id uint64) (*entity.Tool, error) {
	for _, tool := range r.tools {
		if tool.ID == id {
			return tool, nil
		}
	}
	return nil, nil
}

func (r *stubToolRepo) FindBySlug(_ context.Context, slug string) (*entity.Tool, error) {
	return r.tools[slug], nil
}

func (r *stubToolRepo) List(context.Context, string) ([]*entity.Tool, error) {
	return nil, nil
}

func (r *stubToolRepo) ListVisibleForPlan(context.Context, uint64) ([]*entity.Tool, error) {
	items := make([]*entity.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		items = append(items, tool)
	}
	return items, nil
}

type stubVersionRepo struct {
	versions map[uint64]*entity.ToolVersion
}

func (r *stubVersionRepo) Create(context.Context, *entity.ToolVersion) error { return nil }

func (r *stubVersionRepo) Publish(context.Context, uint64, int32, time.Time) error {
	return nil
}

func (r *stubVersionRepo) Find(_ context.Context, toolID uint64, versionNumber int32) (*entity.ToolVersion, error) {
	version, ok := r.versions[toolID]
	if !ok || version.VersionNumber != versionNumber {
		return nil, nil
	}
	return version, nil
}

func (r *stubVersionRepo) ListByTool(context.Context, uint64) ([]*entity.ToolVersion, error) {
	return nil, nil
}

type stubAccessRepo struct {
	access map[uint64]*entity.ToolAccess
}

func (r *stubAccessRepo) Find(_ context.Context, _ uint64, planID uint64) (*entity.ToolAccess, error) {
	return r.access[planID], nil
}

func (r *stubAccessRepo) ListByTool(context.Context, uint64) ([]*entity.ToolAccess, error) {
	return nil, nil
}

func (r *stubAccessRepo) Replace(context.Context, uint64, []entity.ToolAccess) error {
	return nil
}

type stubCounter struct {
	used int64
}

func (c *stubCounter) Increment(_ context.Context, _ string, _ time.Time, limit int64) (bool, int64, error) {
	if limit >= 0 && c.used >= limit {
		return false, c.used, nil
	}
	c.used++
	return true, c.used, nil
}

func (c *stubCounter) Used(context.Context, string, time.Time) (int64, error) {
	return c.used, nil
}

type stubUsageRepo struct {
	logs []*entity.UsageLog
}

func (r *stubUsageRepo) CreateLog(_ context.Context, log *entity.UsageLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *stubUsageRepo) Summary(context.Context, string, time.Time) (*entity.UsageSummary, error) {
	summary := &entity.UsageSummary{}
	for _, log := range r.logs {
		summary.Total++
		switch log.Outcome {
		case entity.UsageOutcomeSuccess:
			summary.Success++
		case entity.UsageOutcomeFailed:
			summary.Failed++
		case entity.UsageOutcomeDenied:
			summary.Denied++
		}
	}
	return summary, nil
}

type stubAuditRepo struct {
	logs []*entity.AuditLog
}

func (r *stubAuditRepo) Create(_ context.Context, log *entity.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *stubAuditRepo) ListLatest(context.Context, int) ([]*entity.AuditLog, error) {
	return r.logs, nil
}

type stubNotificationRepo struct {
	markReadErr error
}

func (r *stubNotificationRepo) Create(context.Context, *entity.Notification) error { return nil }

func (r *stubNotificationRepo) ListByUser(context.Context, string, int) ([]*entity.Notification, error) {
	return []*entity.Notification{{ID: 1, Type: entity.NotificationTypeInfo, Message: "hi"}}, nil
}

func (r *stubNotificationRepo) MarkRead(context.Context, uint64, string) error {
	return r.markReadErr
}

func (r *stubNotificationRepo) MarkAllRead(context.Context, string) (int64, error) {
	return 3, nil
}

type stubSubscriptionRepo struct {
	items map[uint64]*entity.Subscription
}

func (r *stubSubscriptionRepo) Create(_ context.Context, subscription *entity.Subscription) error {
	subscription.ID = uint64(len(r.items) + 1)
	r.items[subscription.ID] = subscription
	return nil
}

func (r *stubSubscriptionRepo) Update(_ context.Context, subscription *entity.Subscription) error {
	r.items[subscription.ID] = subscription
	return nil
}

func (r *stubSubscriptionRepo) DeactivateActiveForUser(context.Context, string, uint64, time.Time) (int64, error) {
	return 0, nil
}

func (r *stubSubscriptionRepo) FindByID(_ context.Context, id uint64) (*entity.Subscription, error) {
	return r.items[id], nil
}

func (r *stubSubscriptionRepo) FindActiveByUser(_ context.Context, userID string) (*entity.Subscription, error) {
	for _, item := range r.items {
		if item.UserID == userID && item.Status == entity.SubscriptionStatusActive {
			return item, nil
		}
	}
	return nil, nil
}

func (r *stubSubscriptionRepo) FindLatestByUser(ctx context.Context, userID string) (*entity.Subscription, error) {
	return r.FindActiveByUser(ctx, userID)
}

func (r *stubSubscriptionRepo) ListPendingPaymentStale(context.Context, time.Time) ([]*entity.Subscription, error) {
	return nil, nil
}

func (r *stubSubscriptionRepo) ListExpiredActive(context.Context, time.Time) ([]*entity.Subscription, error) {
	return nil, nil
}

func newJSONContext(method, target, body string, identity *auth.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	if identity != nil {
		auth.WithIdentity(ctx, *identity)
	}
	return ctx, rec
}

func userIdentity(id string) *auth.Identity {
	return &auth.Identity{UserID: id, Role: entity.RoleUser}
}

func adminIdentity() *auth.Identity {
	return &auth.Identity{UserID: "admin-1", Role: entity.RoleAdmin}
}
