package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
)

var (
	ErrToolVersionNotFound      = errors.New("tool version not found")
	ErrToolVersionAlreadyExists = errors.New("tool version already exists")
)

const toolVersionColumns = `
	id, tool_id, version_number, input_schema, output_schema,
	webhook_url, is_published, published_at, created_at`

type ToolVersionRepository struct {
	db DBTX
}

func NewToolVersionRepository(db DBTX) *ToolVersionRepository {
	return &ToolVersionRepository{db: db}
}

// Create inserts a version with the next free version number for the tool.
// A concurrent insert of the same number surfaces as ErrToolVersionAlreadyExists.
func (r *ToolVersionRepository) Create(ctx context.Context, version *entity.ToolVersion) error {
	query := `
		INSERT INTO tool_versions (
			tool_id, version_number, input_schema, output_schema,
			webhook_url, is_published, published_at, created_at
		)
		SELECT ?, COALESCE(MAX(version_number), 0) + 1, ?, ?, ?, ?, ?, ?
		FROM tool_versions
		WHERE tool_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		version.ToolID,
		string(version.InputSchema),
		nullableJSONValue(version.OutputSchema),
		version.WebhookURL,
		version.IsPublished,
		nullableTimeValue(version.PublishedAt),
		version.CreatedAt,
		version.ToolID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrToolVersionAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	version.ID = uint64(id)

	return r.db.QueryRowContext(ctx, `SELECT version_number FROM tool_versions WHERE id = ?`, version.ID).Scan(&version.VersionNumber)
}

// Publish flips a draft version to published. Already published versions are
// left untouched and reported as not found.
func (r *ToolVersionRepository) Publish(ctx context.Context, toolID uint64, versionNumber int32, now time.Time) error {
	query := `
		UPDATE tool_versions
		SET is_published = 1, published_at = ?
		WHERE tool_id = ? AND version_number = ? AND is_published = 0
	`

	result, err := r.db.ExecContext(ctx, query, now, toolID, versionNumber)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrToolVersionNotFound
	}
	return nil
}

func (r *ToolVersionRepository) Find(ctx context.Context, toolID uint64, versionNumber int32) (*entity.ToolVersion, error) {
	query := `SELECT ` + toolVersionColumns + ` FROM tool_versions WHERE tool_id = ? AND version_number = ?`

	item := &entity.ToolVersion{}
	if err := scanToolVersion(r.db.QueryRowContext(ctx, query, toolID, versionNumber), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ToolVersionRepository) ListByTool(ctx context.Context, toolID uint64) ([]*entity.ToolVersion, error) {
	query := `SELECT ` + toolVersionColumns + ` FROM tool_versions WHERE tool_id = ? ORDER BY version_number DESC`
	return queryList(ctx, r.db, scanToolVersionRow, query, toolID)
}

func scanToolVersion(scanner rowScanner, item *entity.ToolVersion) error {
	var inputSchema sql.NullString
	var outputSchema sql.NullString
	var publishedAt sql.NullTime

	err := scanner.Scan(
		&item.ID,
		&item.ToolID,
		&item.VersionNumber,
		&inputSchema,
		&outputSchema,
		&item.WebhookURL,
		&item.IsPublished,
		&publishedAt,
		&item.CreatedAt,
	)
	if err != nil {
		return err
	}

	if inputSchema.Valid {
		item.InputSchema = []byte(inputSchema.String)
	}
	if outputSchema.Valid {
		item.OutputSchema = []byte(outputSchema.String)
	}
	item.PublishedAt = timePtr(publishedAt)
	return nil
}

func scanToolVersionRow(scanner rowScanner) (*entity.ToolVersion, error) {
	item := &entity.ToolVersion{}
	if err := scanToolVersion(scanner, item); err != nil {
		return nil, err
	}
	return item, nil
}
