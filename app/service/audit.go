package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/factory"
	"github.com/sirupsen/logrus"
)

const (
	AuditActionCreatePlan         = "CREATE_PLAN"
	AuditActionUpdatePlan         = "UPDATE_PLAN"
	AuditActionCreateTool         = "CREATE_TOOL"
	AuditActionUpdateTool         = "UPDATE_TOOL"
	AuditActionCreateToolVersion  = "CREATE_TOOL_VERSION"
	AuditActionPublishToolVersion = "PUBLISH_TOOL_VERSION"
	AuditActionUpdateToolAccess   = "UPDATE_TOOL_ACCESS"
	AuditActionChangeUserPlan     = "CHANGE_USER_PLAN"
	AuditActionUpdateContent      = "UPDATE_CMS_CONTENT"
	AuditActionUpdateConfig       = "UPDATE_SYSTEM_CONFIG"

	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type auditRecorder interface {
	Record(ctx context.Context, adminID, action, target string, details interface{})
}

type auditRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	ListLatest(ctx context.Context, limit int) ([]*entity.AuditLog, error)
}

type AuditService struct {
	repo   auditRepository
	logger logrus.FieldLogger
}

func NewAuditService(repo auditRepository) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: factory.NewModuleLogger("audit-service"),
	}
}

// Record appends an audit entry. Failures are logged and swallowed so an
// admin mutation that already happened is never reported as failed.
func (s *AuditService) Record(ctx context.Context, adminID, action, target string, details interface{}) {
	entry := &entity.AuditLog{
		AdminID:      adminID,
		Action:       action,
		TargetEntity: target,
		CreatedAt:    time.Now().UTC(),
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			s.logger.WithError(err).WithField("action", action).Warn("Audit details not serializable")
		} else {
			entry.Details = raw
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"admin_id": adminID,
			"action":   action,
			"target":   target,
		}).Error("Failed to write audit log")
	}
}

func (s *AuditService) ListLatest(ctx context.Context, limit int) ([]*entity.AuditLog, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	return s.repo.ListLatest(ctx, limit)
}
