package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/developeraldawla/project-n8n/app/dto"
	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/service"
	"github.com/developeraldawla/project-n8n/app/storage"
	"github.com/developeraldawla/project-n8n/app/webhook"
	"github.com/developeraldawla/project-n8n/config"
)

const summarizeSchema = `{"type":"object","required":["text"],"properties":{"text":{"type":"string"}}}`

type toolFixture struct {
	users   *stubUserRepo
	counter *stubCounter
	usage   *stubUsageRepo
	access  *stubAccessRepo
	ctrl    *ToolController
}

func newToolFixture(t *testing.T, hookStatus int, dailyLimit int64) *toolFixture {
	t.Helper()

	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(hookStatus)
		_, _ = w.Write([]byte(`{"summary":"short"}`))
	}))
	t.Cleanup(hook.Close)

	plan := &entity.Plan{ID: 1, Name: "Free", Limits: map[string]int64{"tools_daily": dailyLimit}}
	f := &toolFixture{
		users:   usersOnPlan(plan),
		counter: &stubCounter{},
		usage:   &stubUsageRepo{},
		access:  &stubAccessRepo{access: map[uint64]*entity.ToolAccess{1: {ToolID: 7, PlanID: 1}}},
	}

	tools := &stubToolRepo{tools: map[string]*entity.Tool{
		"summarize": {ID: 7, Slug: "summarize", Name: "Summarize", Status: entity.ToolStatusActive, CurrentVersion: 1},
	}}
	versions := &stubVersionRepo{versions: map[uint64]*entity.ToolVersion{
		7: {ToolID: 7, VersionNumber: 1, InputSchema: json.RawMessage(summarizeSchema), WebhookURL: hook.URL, IsPublished: true},
	}}
	plans := &stubPlanRepo{plans: map[uint64]*entity.Plan{1: plan}}
	audit := service.NewAuditService(&stubAuditRepo{})

	gate := service.NewGateService(f.users)
	usage := service.NewUsageService(gate, f.counter, f.usage, f.users, config.UsageConfig{DailyLimitKey: "tools_daily"})
	toolService := service.NewToolService(tools, versions, f.access, plans, f.users, audit)
	invoker := webhook.NewClient(config.WebhookConfig{Timeout: 5 * time.Second, MaxRetries: 0})
	execution := service.NewExecutionService(toolService, usage, invoker, storage.NoopArchiver{})

	f.ctrl = NewToolController(toolService, execution)
	return f
}

func (f *toolFixture) execute(t *testing.T, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	ctx, rec := newJSONContext(http.MethodPost, "/tools/summarize/execute", body, userIdentity(userID))
	ctx.SetParamNames("slug")
	ctx.SetParamValues("summarize")
	if err := f.ctrl.Execute(ctx); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	return rec
}

func TestExecuteSuccess(t *testing.T) {
	f := newToolFixture(t, http.StatusOK, 5)
	rec := f.execute(t, "u1", `{"input":{"text":"hello"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body dto.ExecuteToolResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Tool != "summarize" || body.Version != 1 || body.Usage.Used != 1 || body.Usage.Limit != 5 {
		t.Fatalf("unexpected response: %+v", body)
	}
	if body.ExecutionID == "" {
		t.Fatal("expected execution id")
	}
	if len(f.usage.logs) != 1 || f.usage.logs[0].Outcome != entity.UsageOutcomeSuccess {
		t.Fatalf("expected one success log, got %+v", f.usage.logs)
	}
}

func TestExecuteDailyLimitReached(t *testing.T) {
	f := newToolFixture(t, http.StatusOK, 1)
	f.counter.used = 1

	rec := f.execute(t, "u1", `{"input":{"text":"hello"}}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if len(f.usage.logs) != 1 || f.usage.logs[0].Outcome != entity.UsageOutcomeDenied {
		t.Fatalf("expected one denied log, got %+v", f.usage.logs)
	}
}

func TestExecuteInvalidInput(t *testing.T) {
	f := newToolFixture(t, http.StatusOK, 5)
	rec := f.execute(t, "u1", `{"input":{"text":42}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if f.counter.used != 0 {
		t.Fatalf("expected quota untouched, used=%d", f.counter.used)
	}
}

func TestExecuteWithoutPlanIsForbidden(t *testing.T) {
	f := newToolFixture(t, http.StatusOK, 5)
	rec := f.execute(t, "u2", `{"input":{"text":"hello"}}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestExecuteHiddenToolIsForbidden(t *testing.T) {
	f := newToolFixture(t, http.StatusOK, 5)
	f.access.access[1].IsHidden = true
	rec := f.execute(t, "u1", `{"input":{"text":"hello"}}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestExecuteWebhookFailure(t *testing.T) {
	f := newToolFixture(t, http.StatusInternalServerError, 5)
	rec := f.execute(t, "u1", `{"input":{"text":"hello"}}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if len(f.usage.logs) != 1 || f.usage.logs[0].Outcome != entity.UsageOutcomeFailed {
		t.Fatalf("expected one failed log, got %+v", f.usage.logs)
	}
}

func TestGetUnknownTool(t *testing.T) {
	f := newToolFixture(t, http.StatusOK, 5)
	ctx, rec := newJSONContext(http.MethodGet, "/tools/missing", "", userIdentity("u1"))
	ctx.SetParamNames("slug")
	ctx.SetParamValues("missing")
	_ = f.ctrl.Get(ctx)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetToolHidesWebhook(t *testing.T) {
	f := newToolFixture(t, http.StatusOK, 5)
	ctx, rec := newJSONContext(http.MethodGet, "/tools/summarize", "", userIdentity("u1"))
	ctx.SetParamNames("slug")
	ctx.SetParamValues("summarize")
	_ = f.ctrl.Get(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body dto.ToolDetailResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Version == nil || body.Version.WebhookUrl != "" {
		t.Fatalf("expected version without webhook, got %+v", body.Version)
	}
}

func TestAdminListRejectsUnknownStatus(t *testing.T) {
	f := newToolFixture(t, http.StatusOK, 5)
	ctx, rec := newJSONContext(http.MethodGet, "/admin/tools?status=broken", "", adminIdentity())
	_ = f.ctrl.AdminList(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPublishVersionInvalidParams(t *testing.T) {
	f := newToolFixture(t, http.StatusOK, 5)
	ctx, rec := newJSONContext(http.MethodPost, "/admin/tools/7/versions/x/publish", "", adminIdentity())
	ctx.SetParamNames("id", "version")
	ctx.SetParamValues("7", "x")
	_ = f.ctrl.PublishVersion(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
