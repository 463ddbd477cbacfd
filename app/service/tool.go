package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/repository"
	"github.com/developeraldawla/project-n8n/app/webhook"
	"github.com/gosimple/slug"
)

type toolRequest interface {
	GetSlug() string
	GetName() string
	GetCategory() string
	GetDescription() string
	GetStatus() string
}

type toolVersionRequest interface {
	GetInputSchema() json.RawMessage
	GetOutputSchema() json.RawMessage
	GetWebhookUrl() string
	GetPublish() bool
}

type createToolRequest interface {
	toolRequest
	toolVersionRequest
}

type updateToolRequest interface {
	toolRequest
	GetId() uint64
}

type createToolVersionRequest interface {
	toolVersionRequest
	GetToolId() uint64
}

type toolAccessRequest interface {
	GetToolId() uint64
	GetAccess() []entity.ToolAccess
}

type toolRepository interface {
	Create(ctx context.Context, tool *entity.Tool) error
	Update(ctx context.Context, tool *entity.Tool) error
	FindByID(ctx context.Context, id uint64) (*entity.Tool, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Tool, error)
	List(ctx context.Context, status string) ([]*entity.Tool, error)
	ListVisibleForPlan(ctx context.Context, planID uint64) ([]*entity.Tool, error)
}

type toolVersionRepository interface {
	Create(ctx context.Context, version *entity.ToolVersion) error
	Publish(ctx context.Context, toolID uint64, versionNumber int32, now time.Time) error
	Find(ctx context.Context, toolID uint64, versionNumber int32) (*entity.ToolVersion, error)
	ListByTool(ctx context.Context, toolID uint64) ([]*entity.ToolVersion, error)
}

type toolAccessRepository interface {
	Find(ctx context.Context, toolID, planID uint64) (*entity.ToolAccess, error)
	ListByTool(ctx context.Context, toolID uint64) ([]*entity.ToolAccess, error)
	Replace(ctx context.Context, toolID uint64, items []entity.ToolAccess) error
}

type planLookup interface {
	FindByID(ctx context.Context, id uint64) (*entity.Plan, error)
}

// ToolDetail is a tool together with the version users currently run.
type ToolDetail struct {
	Tool    *entity.Tool
	Version *entity.ToolVersion
}

type ToolService struct {
	toolRepo    toolRepository
	versionRepo toolVersionRepository
	accessRepo  toolAccessRepository
	planRepo    planLookup
	userRepo    userPlanRepository
	audit       auditRecorder
}

func NewToolService(
	toolRepo toolRepository,
	versionRepo toolVersionRepository,
	accessRepo toolAccessRepository,
	planRepo planLookup,
	userRepo userPlanRepository,
	audit auditRecorder,
) *ToolService {
	return &ToolService{
		toolRepo:    toolRepo,
		versionRepo: versionRepo,
		accessRepo:  accessRepo,
		planRepo:    planRepo,
		userRepo:    userRepo,
		audit:       audit,
	}
}

// ListForUser returns the ACTIVE tools the user's plan can see. Users without
// a plan see nothing.
func (s *ToolService) ListForUser(ctx context.Context, userID string) ([]*entity.Tool, error) {
	user, plan, err := s.userRepo.FindWithPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PlanID == nil || plan == nil {
		return []*entity.Tool{}, nil
	}
	return s.toolRepo.ListVisibleForPlan(ctx, plan.ID)
}

func (s *ToolService) GetForUser(ctx context.Context, userID, toolSlug string) (*ToolDetail, error) {
	return s.resolveForUser(ctx, userID, toolSlug)
}

// resolveForUser loads a runnable tool and its current version, checking that
// the user's plan has visible access to it.
func (s *ToolService) resolveForUser(ctx context.Context, userID, toolSlug string) (*ToolDetail, error) {
	tool, err := s.toolRepo.FindBySlug(ctx, strings.TrimSpace(toolSlug))
	if err != nil {
		return nil, err
	}
	if tool == nil || tool.Status != entity.ToolStatusActive || tool.CurrentVersion == 0 {
		return nil, ErrToolNotFound
	}

	user, plan, err := s.userRepo.FindWithPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PlanID == nil || plan == nil {
		return nil, ErrToolAccessDenied
	}

	access, err := s.accessRepo.Find(ctx, tool.ID, plan.ID)
	if err != nil {
		return nil, err
	}
	if access == nil || access.IsHidden {
		return nil, ErrToolAccessDenied
	}

	version, err := s.versionRepo.Find(ctx, tool.ID, tool.CurrentVersion)
	if err != nil {
		return nil, err
	}
	if version == nil || !version.IsPublished {
		return nil, ErrToolVersionNotFound
	}

	return &ToolDetail{Tool: tool, Version: version}, nil
}

func (s *ToolService) ListAll(ctx context.Context, status string) ([]*entity.Tool, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !isToolStatusAllowed(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}
	return s.toolRepo.List(ctx, status)
}

func (s *ToolService) GetTool(ctx context.Context, id uint64) (*entity.Tool, error) {
	tool, err := s.toolRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tool == nil {
		return nil, ErrToolNotFound
	}
	return tool, nil
}

// CreateTool stores the tool with version 1. The version is published right
// away when requested; otherwise the tool stays without a current version.
func (s *ToolService) CreateTool(ctx context.Context, adminID string, req createToolRequest) (*ToolDetail, error) {
	now := time.Now().UTC()
	tool := &entity.Tool{CreatedAt: now, UpdatedAt: now}
	if err := applyToolRequest(tool, req); err != nil {
		return nil, err
	}
	if tool.Status == entity.ToolStatusActive && !req.GetPublish() {
		return nil, ErrToolNotPublished
	}
	version, err := newToolVersion(req, now)
	if err != nil {
		return nil, err
	}

	requestedStatus := tool.Status
	tool.Status = entity.ToolStatusDraft
	if err := s.toolRepo.Create(ctx, tool); err != nil {
		if errors.Is(err, repository.ErrToolAlreadyExists) {
			return nil, ErrToolAlreadyExists
		}
		return nil, err
	}

	version.ToolID = tool.ID
	if err := s.versionRepo.Create(ctx, version); err != nil {
		return nil, err
	}

	if req.GetPublish() {
		if err := s.versionRepo.Publish(ctx, tool.ID, version.VersionNumber, now); err != nil {
			return nil, err
		}
		version.IsPublished = true
		version.PublishedAt = &now
		tool.CurrentVersion = version.VersionNumber
	}

	if tool.Status != requestedStatus || tool.CurrentVersion != 0 {
		tool.Status = requestedStatus
		if err := s.updateTool(ctx, tool); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, adminID, AuditActionCreateTool, toolTarget(tool.ID), map[string]interface{}{
		"slug":      tool.Slug,
		"status":    tool.Status,
		"published": version.IsPublished,
	})
	return &ToolDetail{Tool: tool, Version: version}, nil
}

// UpdateTool changes tool metadata and status. A tool cannot go ACTIVE before
// one of its versions is published.
func (s *ToolService) UpdateTool(ctx context.Context, adminID string, req updateToolRequest) (*entity.Tool, error) {
	tool, err := s.GetTool(ctx, req.GetId())
	if err != nil {
		return nil, err
	}

	previousSlug := tool.Slug
	if err := applyToolRequest(tool, req); err != nil {
		return nil, err
	}
	if tool.Slug != previousSlug {
		return nil, fmt.Errorf("%w: tool slug cannot be changed", ErrInvalidRequest)
	}
	if tool.Status == entity.ToolStatusActive && tool.CurrentVersion == 0 {
		return nil, ErrToolNotPublished
	}

	tool.UpdatedAt = time.Now().UTC()
	if err := s.updateTool(ctx, tool); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, adminID, AuditActionUpdateTool, toolTarget(tool.ID), map[string]interface{}{
		"name":     tool.Name,
		"category": tool.Category,
		"status":   tool.Status,
	})
	return tool, nil
}

func (s *ToolService) ListVersions(ctx context.Context, toolID uint64) ([]*entity.ToolVersion, error) {
	if _, err := s.GetTool(ctx, toolID); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByTool(ctx, toolID)
}

// CreateVersion appends a version with the next number. It becomes current
// only when published.
func (s *ToolService) CreateVersion(ctx context.Context, adminID string, req createToolVersionRequest) (*entity.ToolVersion, error) {
	tool, err := s.GetTool(ctx, req.GetToolId())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	version, err := newToolVersion(req, now)
	if err != nil {
		return nil, err
	}
	version.ToolID = tool.ID

	if err := s.versionRepo.Create(ctx, version); err != nil {
		if errors.Is(err, repository.ErrToolVersionAlreadyExists) {
			return nil, fmt.Errorf("%w: concurrent version creation, retry", ErrInvalidRequest)
		}
		return nil, err
	}

	s.audit.Record(ctx, adminID, AuditActionCreateToolVersion, toolTarget(tool.ID), map[string]interface{}{
		"version": version.VersionNumber,
	})

	if req.GetPublish() {
		return s.PublishVersion(ctx, adminID, tool.ID, version.VersionNumber)
	}
	return version, nil
}

// PublishVersion freezes the version and makes it the tool's current one.
func (s *ToolService) PublishVersion(ctx context.Context, adminID string, toolID uint64, versionNumber int32) (*entity.ToolVersion, error) {
	tool, err := s.GetTool(ctx, toolID)
	if err != nil {
		return nil, err
	}

	version, err := s.versionRepo.Find(ctx, toolID, versionNumber)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, ErrToolVersionNotFound
	}
	if version.IsPublished {
		return nil, ErrToolVersionPublished
	}

	now := time.Now().UTC()
	if err := s.versionRepo.Publish(ctx, toolID, versionNumber, now); err != nil {
		if errors.Is(err, repository.ErrToolVersionNotFound) {
			return nil, ErrToolVersionPublished
		}
		return nil, err
	}
	version.IsPublished = true
	version.PublishedAt = &now

	tool.CurrentVersion = versionNumber
	tool.UpdatedAt = now
	if err := s.updateTool(ctx, tool); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, adminID, AuditActionPublishToolVersion, toolTarget(tool.ID), map[string]interface{}{
		"version": versionNumber,
	})
	return version, nil
}

func (s *ToolService) ListAccess(ctx context.Context, toolID uint64) ([]*entity.ToolAccess, error) {
	if _, err := s.GetTool(ctx, toolID); err != nil {
		return nil, err
	}
	return s.accessRepo.ListByTool(ctx, toolID)
}

// SetAccess replaces the plans allowed to use the tool. Plans left out lose
// access; duplicates keep the last entry.
func (s *ToolService) SetAccess(ctx context.Context, adminID string, req toolAccessRequest) ([]*entity.ToolAccess, error) {
	tool, err := s.GetTool(ctx, req.GetToolId())
	if err != nil {
		return nil, err
	}

	byPlan := make(map[uint64]entity.ToolAccess, len(req.GetAccess()))
	order := make([]uint64, 0, len(req.GetAccess()))
	for _, item := range req.GetAccess() {
		if item.PlanID == 0 {
			return nil, fmt.Errorf("%w: plan_id is required", ErrInvalidRequest)
		}
		if _, seen := byPlan[item.PlanID]; !seen {
			order = append(order, item.PlanID)
		}
		byPlan[item.PlanID] = entity.ToolAccess{ToolID: tool.ID, PlanID: item.PlanID, IsHidden: item.IsHidden}
	}

	items := make([]entity.ToolAccess, 0, len(order))
	for _, planID := range order {
		plan, err := s.planRepo.FindByID(ctx, planID)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, fmt.Errorf("%w: %d", ErrPlanNotFound, planID)
		}
		items = append(items, byPlan[planID])
	}

	if err := s.accessRepo.Replace(ctx, tool.ID, items); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, adminID, AuditActionUpdateToolAccess, toolTarget(tool.ID), map[string]interface{}{
		"access": items,
	})

	out := make([]*entity.ToolAccess, 0, len(items))
	for i := range items {
		out = append(out, &items[i])
	}
	return out, nil
}

func (s *ToolService) updateTool(ctx context.Context, tool *entity.Tool) error {
	if err := s.toolRepo.Update(ctx, tool); err != nil {
		if errors.Is(err, repository.ErrToolNotFound) {
			return ErrToolNotFound
		}
		return err
	}
	return nil
}

func applyToolRequest(tool *entity.Tool, req toolRequest) error {
	name := strings.TrimSpace(req.GetName())
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}

	toolSlug := strings.TrimSpace(req.GetSlug())
	if toolSlug == "" {
		toolSlug = tool.Slug
	}
	if toolSlug == "" {
		toolSlug = slug.Make(name)
	}
	if !slug.IsSlug(toolSlug) {
		return fmt.Errorf("%w: slug must contain lowercase letters, digits and dashes", ErrInvalidRequest)
	}

	status := strings.ToUpper(strings.TrimSpace(req.GetStatus()))
	if status == "" {
		status = tool.Status
	}
	if status == "" {
		status = entity.ToolStatusDraft
	}
	if !isToolStatusAllowed(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}

	tool.Slug = toolSlug
	tool.Name = name
	tool.Category = strings.TrimSpace(req.GetCategory())
	tool.Description = strings.TrimSpace(req.GetDescription())
	tool.Status = status
	return nil
}

func newToolVersion(req toolVersionRequest, now time.Time) (*entity.ToolVersion, error) {
	hookURL := strings.TrimSpace(req.GetWebhookUrl())
	if err := webhook.ValidateURL(hookURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	inputSchema := req.GetInputSchema()
	if len(inputSchema) == 0 {
		inputSchema = json.RawMessage(`{}`)
	}
	if err := validateSchemaDefinition(inputSchema); err != nil {
		return nil, err
	}
	outputSchema := req.GetOutputSchema()
	if len(outputSchema) > 0 && !json.Valid(outputSchema) {
		return nil, fmt.Errorf("%w: output schema is not valid JSON", ErrInvalidSchema)
	}

	return &entity.ToolVersion{
		InputSchema:  inputSchema,
		OutputSchema: outputSchema,
		WebhookURL:   hookURL,
		CreatedAt:    now,
	}, nil
}

func isToolStatusAllowed(status string) bool {
	switch status {
	case entity.ToolStatusDraft, entity.ToolStatusActive, entity.ToolStatusDisabled:
		return true
	default:
		return false
	}
}

func toolTarget(id uint64) string {
	return "tool:" + strconv.FormatUint(id, 10)
}
