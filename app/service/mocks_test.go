package service

import (
	"context"
	"sync"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/payment"
	"github.com/developeraldawla/project-n8n/app/webhook"
)

type mockUserRepo struct {
	createFn       func(ctx context.Context, user *entity.User) error
	deleteFn       func(ctx context.Context, id string) error
	updatePlanFn   func(ctx context.Context, userID string, planID *uint64) error
	findByEmailFn  func(ctx context.Context, email string) (*entity.User, error)
	findWithPlanFn func(ctx context.Context, id string) (*entity.User, *entity.Plan, error)
	listFn         func(ctx context.Context, limit, offset int) ([]*entity.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) UpdatePlan(ctx context.Context, userID string, planID *uint64) error {
	if m.updatePlanFn != nil {
		return m.updatePlanFn(ctx, userID, planID)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindWithPlan(ctx context.Context, id string) (*entity.User, *entity.Plan, error) {
	if m.findWithPlanFn != nil {
		return m.findWithPlanFn(ctx, id)
	}
	return nil, nil, nil
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, nil
}

type mockPlanRepo struct {
	createFn     func(ctx context.Context, plan *entity.Plan) error
	updateFn     func(ctx context.Context, plan *entity.Plan) error
	findByIDFn   func(ctx context.Context, id uint64) (*entity.Plan, error)
	findBySlugFn func(ctx context.Context, slug string) (*entity.Plan, error)
	listFn       func(ctx context.Context, activeOnly bool) ([]*entity.Plan, error)
	countUsersFn func(ctx context.Context, planID uint64) (int64, error)
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *entity.Plan) error {
	if m.createFn != nil {
		return m.createFn(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepo) Update(ctx context.Context, plan *entity.Plan) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepo) FindByID(ctx context.Context, id uint64) (*entity.Plan, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPlanRepo) FindBySlug(ctx context.Context, slug string) (*entity.Plan, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, nil
}

func (m *mockPlanRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Plan, error) {
	if m.listFn != nil {
		return m.listFn(ctx, activeOnly)
	}
	return nil, nil
}

func (m *mockPlanRepo) CountUsers(ctx context.Context, planID uint64) (int64, error) {
	if m.countUsersFn != nil {
		return m.countUsersFn(ctx, planID)
	}
	return 0, nil
}

type mockSubscriptionRepo struct {
	createFn             func(ctx context.Context, subscription *entity.Subscription) error
	updateFn             func(ctx context.Context, subscription *entity.Subscription) error
	deactivateFn         func(ctx context.Context, userID string, keepID uint64, now time.Time) (int64, error)
	findByIDFn           func(ctx context.Context, id uint64) (*entity.Subscription, error)
	findActiveByUserFn   func(ctx context.Context, userID string) (*entity.Subscription, error)
	findLatestByUserFn   func(ctx context.Context, userID string) (*entity.Subscription, error)
	listPendingPaymentFn func(ctx context.Context, cutoff time.Time) ([]*entity.Subscription, error)
	listExpiredActiveFn  func(ctx context.Context, now time.Time) ([]*entity.Subscription, error)
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, subscription *entity.Subscription) error {
	if m.createFn != nil {
		return m.createFn(ctx, subscription)
	}
	return nil
}

func (m *mockSubscriptionRepo) Update(ctx context.Context, subscription *entity.Subscription) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, subscription)
	}
	return nil
}

func (m *mockSubscriptionRepo) DeactivateActiveForUser(ctx context.Context, userID string, keepID uint64, now time.Time) (int64, error) {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, userID, keepID, now)
	}
	return 0, nil
}

func (m *mockSubscriptionRepo) FindByID(ctx context.Context, id uint64) (*entity.Subscription, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) FindActiveByUser(ctx context.Context, userID string) (*entity.Subscription, error) {
	if m.findActiveByUserFn != nil {
		return m.findActiveByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) FindLatestByUser(ctx context.Context, userID string) (*entity.Subscription, error) {
	if m.findLatestByUserFn != nil {
		return m.findLatestByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) ListPendingPaymentStale(ctx context.Context, cutoff time.Time) ([]*entity.Subscription, error) {
	if m.listPendingPaymentFn != nil {
		return m.listPendingPaymentFn(ctx, cutoff)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) ListExpiredActive(ctx context.Context, now time.Time) ([]*entity.Subscription, error) {
	if m.listExpiredActiveFn != nil {
		return m.listExpiredActiveFn(ctx, now)
	}
	return nil, nil
}

type fakePaymentService struct {
	result      payment.Result
	panicWith   string
	calledCount int
	lastCharge  payment.Charge
}

func (f *fakePaymentService) ProcessSubscriptionPayment(_ context.Context, charge payment.Charge) payment.Result {
	f.calledCount++
	f.lastCharge = charge
	if f.panicWith != "" {
		panic(f.panicWith)
	}
	return f.result
}

type sentNotification struct {
	userID           string
	notificationType string
	message          string
}

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []sentNotification
	emails        []string
	err           error
}

func (f *fakeNotifier) Notify(_ context.Context, userID, notificationType, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, sentNotification{userID: userID, notificationType: notificationType, message: message})
	return f.err
}

func (f *fakeNotifier) SendEmail(_ context.Context, to, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, to)
	return f.err
}

type auditEntry struct {
	adminID string
	action  string
	target  string
	details interface{}
}

type fakeAudit struct {
	entries []auditEntry
}

func (f *fakeAudit) Record(_ context.Context, adminID, action, target string, details interface{}) {
	f.entries = append(f.entries, auditEntry{adminID: adminID, action: action, target: target, details: details})
}

type mockToolRepo struct {
	createFn             func(ctx context.Context, tool *entity.Tool) error
	updateFn             func(ctx context.Context, tool *entity.Tool) error
	findByIDFn           func(ctx context.Context, id uint64) (*entity.Tool, error)
	findBySlugFn         func(ctx context.Context, slug string) (*entity.Tool, error)
	listFn               func(ctx context.Context, status string) ([]*entity.Tool, error)
	listVisibleForPlanFn func(ctx context.Context, planID uint64) ([]*entity.Tool, error)
}

func (m *mockToolRepo) Create(ctx context.Context, tool *entity.Tool) error {
	if m.createFn != nil {
		return m.createFn(ctx, tool)
	}
	return nil
}

func (m *mockToolRepo) Update(ctx context.Context, tool *entity.Tool) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, tool)
	}
	return nil
}

func (m *mockToolRepo) FindByID(ctx context.Context, id uint64) (*entity.Tool, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockToolRepo) FindBySlug(ctx context.Context, slug string) (*entity.Tool, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, nil
}

func (m *mockToolRepo) List(ctx context.Context, status string) ([]*entity.Tool, error) {
	if m.listFn != nil {
		return m.listFn(ctx, status)
	}
	return nil, nil
}

func (m *mockToolRepo) ListVisibleForPlan(ctx context.Context, planID uint64) ([]*entity.Tool, error) {
	if m.listVisibleForPlanFn != nil {
		return m.listVisibleForPlanFn(ctx, planID)
	}
	return nil, nil
}

type mockToolVersionRepo struct {
	createFn     func(ctx context.Context, version *entity.ToolVersion) error
	publishFn    func(ctx context.Context, toolID uint64, versionNumber int32, now time.Time) error
	findFn       func(ctx context.Context, toolID uint64, versionNumber int32) (*entity.ToolVersion, error)
	listByToolFn func(ctx context.Context, toolID uint64) ([]*entity.ToolVersion, error)
}

func (m *mockToolVersionRepo) Create(ctx context.Context, version *entity.ToolVersion) error {
	if m.createFn != nil {
		return m.createFn(ctx, version)
	}
	return nil
}

func (m *mockToolVersionRepo) Publish(ctx context.Context, toolID uint64, versionNumber int32, now time.Time) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, toolID, versionNumber, now)
	}
	return nil
}

func (m *mockToolVersionRepo) Find(ctx context.Context, toolID uint64, versionNumber int32) (*entity.ToolVersion, error) {
	if m.findFn != nil {
		return m.findFn(ctx, toolID, versionNumber)
	}
	return nil, nil
}

func (m *mockToolVersionRepo) ListByTool(ctx context.Context, toolID uint64) ([]*entity.ToolVersion, error) {
	if m.listByToolFn != nil {
		return m.listByToolFn(ctx, toolID)
	}
	return nil, nil
}

type mockToolAccessRepo struct {
	findFn       func(ctx context.Context, toolID, planID uint64) (*entity.ToolAccess, error)
	listByToolFn func(ctx context.Context, toolID uint64) ([]*entity.ToolAccess, error)
	replaceFn    func(ctx context.Context, toolID uint64, items []entity.ToolAccess) error
}

func (m *mockToolAccessRepo) Find(ctx context.Context, toolID, planID uint64) (*entity.ToolAccess, error) {
	if m.findFn != nil {
		return m.findFn(ctx, toolID, planID)
	}
	return nil, nil
}

func (m *mockToolAccessRepo) ListByTool(ctx context.Context, toolID uint64) ([]*entity.ToolAccess, error) {
	if m.listByToolFn != nil {
		return m.listByToolFn(ctx, toolID)
	}
	return nil, nil
}

func (m *mockToolAccessRepo) Replace(ctx context.Context, toolID uint64, items []entity.ToolAccess) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, toolID, items)
	}
	return nil
}

type mockUsageRepo struct {
	mu        sync.Mutex
	logs      []*entity.UsageLog
	createErr error
	summaryFn func(ctx context.Context, userID string, day time.Time) (*entity.UsageSummary, error)
}

func (m *mockUsageRepo) CreateLog(_ context.Context, log *entity.UsageLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return m.createErr
}

func (m *mockUsageRepo) Summary(ctx context.Context, userID string, day time.Time) (*entity.UsageSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(ctx, userID, day)
	}
	return &entity.UsageSummary{}, nil
}

// memoryCounter mirrors the conditional increment of the real stores.
type memoryCounter struct {
	mu         sync.Mutex
	used       map[string]int64
	increments int
	err        error
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{used: map[string]int64{}}
}

func (c *memoryCounter) key(userID string, day time.Time) string {
	return userID + ":" + day.Format("2006-01-02")
}

func (c *memoryCounter) Increment(_ context.Context, userID string, day time.Time, limit int64) (bool, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, 0, c.err
	}
	c.increments++
	k := c.key(userID, day)
	if limit >= 0 && c.used[k] >= limit {
		return false, c.used[k], nil
	}
	c.used[k]++
	return true, c.used[k], nil
}

func (c *memoryCounter) Used(_ context.Context, userID string, day time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	return c.used[c.key(userID, day)], nil
}

type fakeLimitReader struct {
	limit int64
}

func (f fakeLimitReader) GetLimit(context.Context, string, string) int64 {
	return f.limit
}

type fakeInvoker struct {
	resp  *webhook.Response
	err   error
	calls []webhook.Request
}

func (f *fakeInvoker) Invoke(_ context.Context, _ string, req webhook.Request) (*webhook.Response, error) {
	f.calls = append(f.calls, req)
	return f.resp, f.err
}

func planWith(id uint64, slug string, features map[string]bool, limits map[string]int64) *entity.Plan {
	return &entity.Plan{
		ID:       id,
		Slug:     slug,
		Name:     slug,
		Currency: "USD",
		Features: features,
		Limits:   limits,
		IsActive: true,
	}
}

func userOn(id string, plan *entity.Plan) *entity.User {
	user := &entity.User{ID: id, Email: id + "@example.com", Role: entity.RoleUser}
	if plan != nil {
		planID := plan.ID
		user.PlanID = &planID
	}
	return user
}
