package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
	"github.com/developeraldawla/project-n8n/app/factory"
	"github.com/developeraldawla/project-n8n/app/storage"
	"github.com/developeraldawla/project-n8n/app/webhook"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type toolResolver interface {
	GetForUser(ctx context.Context, userID, toolSlug string) (*ToolDetail, error)
}

type usageConsumer interface {
	Consume(ctx context.Context, userID string) (*Consumption, error)
	Record(ctx context.Context, log *entity.UsageLog) error
}

type webhookInvoker interface {
	Invoke(ctx context.Context, hookURL string, req webhook.Request) (*webhook.Response, error)
}

type ExecutionResult struct {
	ExecutionID string
	Tool        string
	Version     int32
	Output      json.RawMessage
	OutputKey   string
	Used        int64
	Limit       int64
}

type ExecutionService struct {
	tools    toolResolver
	usage    usageConsumer
	invoker  webhookInvoker
	archiver storage.Archiver
	logger   logrus.FieldLogger
}

func NewExecutionService(tools toolResolver, usage usageConsumer, invoker webhookInvoker, archiver storage.Archiver) *ExecutionService {
	if archiver == nil {
		archiver = storage.NoopArchiver{}
	}
	return &ExecutionService{
		tools:    tools,
		usage:    usage,
		invoker:  invoker,
		archiver: archiver,
		logger:   factory.NewModuleLogger("execution-service"),
	}
}

// Execute runs the current version of a tool for the user. Input is validated
// before any quota is taken. Every attempt past validation, allowed or not,
// leaves one usage log row.
func (s *ExecutionService) Execute(ctx context.Context, userID, toolSlug string, input json.RawMessage) (*ExecutionResult, error) {
	detail, err := s.tools.GetForUser(ctx, userID, toolSlug)
	if err != nil {
		return nil, err
	}
	tool, version := detail.Tool, detail.Version

	if len(bytes.TrimSpace(input)) == 0 {
		input = json.RawMessage(`{}`)
	}
	if _, err := validateInput(version.InputSchema, input); err != nil {
		return nil, err
	}

	executionID := uuid.NewString()
	entry := &entity.UsageLog{
		ExecutionID:   executionID,
		UserID:        userID,
		ToolID:        tool.ID,
		VersionNumber: version.VersionNumber,
	}

	consumption, err := s.usage.Consume(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !consumption.Allowed {
		entry.Outcome = entity.UsageOutcomeDenied
		s.record(ctx, entry)
		return nil, ErrDailyLimitReached
	}

	start := time.Now()
	resp, err := s.invoker.Invoke(ctx, version.WebhookURL, webhook.Request{
		ExecutionID: executionID,
		Tool:        tool.Slug,
		Version:     version.VersionNumber,
		UserID:      userID,
		Input:       input,
	})
	entry.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		message := err.Error()
		entry.Outcome = entity.UsageOutcomeFailed
		entry.ErrorMessage = &message
		s.record(ctx, entry)
		s.logger.WithError(err).WithFields(logrus.Fields{
			"execution_id": executionID,
			"tool":         tool.Slug,
			"version":      version.VersionNumber,
		}).Warn("Tool webhook failed")
		return nil, fmt.Errorf("%w: %v", ErrToolExecutionFailed, err)
	}

	result := &ExecutionResult{
		ExecutionID: executionID,
		Tool:        tool.Slug,
		Version:     version.VersionNumber,
		Output:      resp.Body,
		Used:        consumption.Used,
		Limit:       consumption.Limit,
	}

	key, err := s.archiver.Archive(ctx, executionID, resp.Body)
	if err != nil {
		s.logger.WithError(err).WithField("execution_id", executionID).Warn("Failed to archive tool output")
	} else if key != "" {
		result.OutputKey = key
		entry.OutputKey = &key
	}

	entry.Outcome = entity.UsageOutcomeSuccess
	s.record(ctx, entry)
	return result, nil
}

func (s *ExecutionService) record(ctx context.Context, entry *entity.UsageLog) {
	if err := s.usage.Record(ctx, entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"execution_id": entry.ExecutionID,
			"outcome":      entry.Outcome,
		}).Error("Failed to write usage log")
	}
}
