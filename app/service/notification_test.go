package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/mailer"
	"github.com/developeraldawla/project-n8n/app/repository"
)

type mockNotificationRepo struct {
	created    []*entity.Notification
	listLimit  int
	markReadFn func(ctx context.Context, id uint64, userID string) error
}

func (m *mockNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, _ string, limit int) ([]*entity.Notification, error) {
	m.listLimit = limit
	return nil, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id uint64, userID string) error {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, id, userID)
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(context.Context, string) (int64, error) {
	return 3, nil
}

type recordingSender struct {
	messages []mailer.Message
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func TestNotifyValidatesType(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, &recordingSender{})

	if err := svc.Notify(context.Background(), "u1", "URGENT", "hi"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if err := svc.Notify(context.Background(), "u1", entity.NotificationTypeInfo, "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 || repo.created[0].UserID != "u1" {
		t.Fatalf("unexpected notifications: %+v", repo.created)
	}
}

func TestNotificationListAndMarkRead(t *testing.T) {
	repo := &mockNotificationRepo{
		markReadFn: func(_ context.Context, id uint64, _ string) error {
			if id == 404 {
				return repository.ErrNotificationNotFound
			}
			return nil
		},
	}
	svc := NewNotificationService(repo, &recordingSender{})
	ctx := context.Background()

	if _, err := svc.List(ctx, "u1"); err != nil || repo.listLimit != 50 {
		t.Fatalf("expected list limited to 50, got %d err=%v", repo.listLimit, err)
	}
	if err := svc.MarkRead(ctx, "u1", 404); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if n, err := svc.MarkAllRead(ctx, "u1"); err != nil || n != 3 {
		t.Fatalf("unexpected mark all result: %d %v", n, err)
	}
}

func TestSendEmailUsesSender(t *testing.T) {
	sender := &recordingSender{}
	svc := NewNotificationService(&mockNotificationRepo{}, sender)

	if err := svc.SendEmail(context.Background(), "a@example.com", "Hello", "Body"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.messages) != 1 || sender.messages[0].Subject != "Hello" {
		t.Fatalf("unexpected messages: %+v", sender.messages)
	}
}

type mockContentRepo struct {
	landing []*entity.LandingContent
	configs map[string]*entity.SystemConfig
}

func (m *mockContentRepo) ListLanding(context.Context, string) ([]*entity.LandingContent, error) {
	return m.landing, nil
}

func (m *mockContentRepo) UpsertLanding(_ context.Context, item *entity.LandingContent) error {
	m.landing = append(m.landing, item)
	return nil
}

func (m *mockContentRepo) FindConfig(_ context.Context, key string) (*entity.SystemConfig, error) {
	return m.configs[key], nil
}

func (m *mockContentRepo) UpsertConfig(_ context.Context, item *entity.SystemConfig) error {
	m.configs[item.Key] = item
	return nil
}

func TestContentUpdateAndConfig(t *testing.T) {
	repo := &mockContentRepo{configs: map[string]*entity.SystemConfig{}}
	audit := &fakeAudit{}
	svc := NewContentService(repo, audit)
	ctx := context.Background()

	item, err := svc.UpdateContent(ctx, "admin", "hero", json.RawMessage(`{"title":"Hi"}`), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Language != "en" {
		t.Fatalf("expected default language, got %s", item.Language)
	}
	if _, err := svc.UpdateContent(ctx, "admin", "hero", json.RawMessage(`{broken`), "en"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}

	if _, err := svc.GetConfig(ctx, "maintenance"); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
	if _, err := svc.SetConfig(ctx, "admin", "maintenance", json.RawMessage(`true`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := svc.GetConfig(ctx, "maintenance")
	if err != nil || cfg.UpdatedBy == nil || *cfg.UpdatedBy != "admin" {
		t.Fatalf("expected config stored with updater, got %+v err=%v", cfg, err)
	}
	if len(audit.entries) != 2 {
		t.Fatalf("expected two audit entries, got %d", len(audit.entries))
	}
}

type mockAuditRepo struct {
	created   []*entity.AuditLog
	listLimit int
	err       error
}

func (m *mockAuditRepo) Create(_ context.Context, log *entity.AuditLog) error {
	m.created = append(m.created, log)
	return m.err
}

func (m *mockAuditRepo) ListLatest(_ context.Context, limit int) ([]*entity.AuditLog, error) {
	m.listLimit = limit
	return nil, nil
}

func TestAuditRecordSwallowsErrors(t *testing.T) {
	repo := &mockAuditRepo{err: errors.New("db down")}
	svc := NewAuditService(repo)

	svc.Record(context.Background(), "admin", AuditActionCreatePlan, "plan:1", map[string]string{"slug": "free"})
	if len(repo.created) != 1 || string(repo.created[0].Details) != `{"slug":"free"}` {
		t.Fatalf("unexpected audit rows: %+v", repo.created)
	}
}

func TestAuditListLatestClampsLimit(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo)
	ctx := context.Background()

	_, _ = svc.ListLatest(ctx, 0)
	if repo.listLimit != 50 {
		t.Fatalf("expected default 50, got %d", repo.listLimit)
	}
	_, _ = svc.ListLatest(ctx, 1000)
	if repo.listLimit != 200 {
		t.Fatalf("expected max 200, got %d", repo.listLimit)
	}
}
