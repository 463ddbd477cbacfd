package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
)

type contentRepository interface {
	ListLanding(ctx context.Context, section string) ([]*entity.LandingContent, error)
	UpsertLanding(ctx context.Context, item *entity.LandingContent) error
	FindConfig(ctx context.Context, key string) (*entity.SystemConfig, error)
	UpsertConfig(ctx context.Context, item *entity.SystemConfig) error
}

type ContentService struct {
	repo  contentRepository
	audit auditRecorder
}

func NewContentService(repo contentRepository, audit auditRecorder) *ContentService {
	return &ContentService{repo: repo, audit: audit}
}

func (s *ContentService) PublicContent(ctx context.Context, section string) ([]*entity.LandingContent, error) {
	return s.repo.ListLanding(ctx, strings.TrimSpace(section))
}

func (s *ContentService) UpdateContent(ctx context.Context, adminID, sectionKey string, content json.RawMessage, language string) (*entity.LandingContent, error) {
	sectionKey = strings.TrimSpace(sectionKey)
	if sectionKey == "" {
		return nil, fmt.Errorf("%w: section key is required", ErrInvalidRequest)
	}
	if len(content) == 0 || !json.Valid(content) {
		return nil, fmt.Errorf("%w: content must be valid json", ErrInvalidRequest)
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = "en"
	}

	item := &entity.LandingContent{
		SectionKey: sectionKey,
		Content:    content,
		Language:   language,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.repo.UpsertLanding(ctx, item); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, adminID, AuditActionUpdateContent, "landing:"+sectionKey, map[string]interface{}{"language": language})
	return item, nil
}

func (s *ContentService) GetConfig(ctx context.Context, key string) (*entity.SystemConfig, error) {
	item, err := s.repo.FindConfig(ctx, strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrConfigNotFound
	}
	return item, nil
}

func (s *ContentService) SetConfig(ctx context.Context, adminID, key string, value json.RawMessage) (*entity.SystemConfig, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: config key is required", ErrInvalidRequest)
	}
	if len(value) == 0 || !json.Valid(value) {
		return nil, fmt.Errorf("%w: value must be valid json", ErrInvalidRequest)
	}

	item := &entity.SystemConfig{
		Key:       key,
		Value:     value,
		UpdatedBy: &adminID,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.UpsertConfig(ctx, item); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, adminID, AuditActionUpdateConfig, "config:"+key, nil)
	return item, nil
}
