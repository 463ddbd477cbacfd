package repository

import (
	"context"
	"database/sql"

	"github.com/developeraldawla/project-n8n/app/entity"
)

type ContentRepository struct {
	db DBTX
}

func NewContentRepository(db DBTX) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) ListLanding(ctx context.Context, section string) ([]*entity.LandingContent, error) {
	query := `SELECT section_key, content, language, updated_at FROM landing_contents`
	args := make([]interface{}, 0, 1)
	if section != "" {
		query += " WHERE section_key = ?"
		args = append(args, section)
	}
	query += " ORDER BY section_key ASC"

	return queryList(ctx, r.db, scanLandingContentRow, query, args...)
}

func (r *ContentRepository) UpsertLanding(ctx context.Context, item *entity.LandingContent) error {
	query := `
		INSERT INTO landing_contents (section_key, content, language, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE content = VALUES(content), language = VALUES(language), updated_at = VALUES(updated_at)
	`
	_, err := r.db.ExecContext(ctx, query, item.SectionKey, string(item.Content), item.Language, item.UpdatedAt)
	return err
}

func (r *ContentRepository) FindConfig(ctx context.Context, key string) (*entity.SystemConfig, error) {
	query := `SELECT config_key, value, updated_by, updated_at FROM system_configs WHERE config_key = ?`

	item := &entity.SystemConfig{}
	var value string
	var updatedBy sql.NullString
	err := r.db.QueryRowContext(ctx, query, key).Scan(&item.Key, &value, &updatedBy, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item.Value = []byte(value)
	item.UpdatedBy = stringPtr(updatedBy)
	return item, nil
}

func (r *ContentRepository) UpsertConfig(ctx context.Context, item *entity.SystemConfig) error {
	query := `
		INSERT INTO system_configs (config_key, value, updated_by, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value), updated_by = VALUES(updated_by), updated_at = VALUES(updated_at)
	`
	_, err := r.db.ExecContext(ctx, query, item.Key, string(item.Value), nullableStringValue(item.UpdatedBy), item.UpdatedAt)
	return err
}

func scanLandingContentRow(scanner rowScanner) (*entity.LandingContent, error) {
	item := &entity.LandingContent{}
	var content string
	if err := scanner.Scan(&item.SectionKey, &content, &item.Language, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.Content = []byte(content)
	return item, nil
}
