package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/developeraldawla/project-n8n/app/entity"
)

var (
	ErrToolNotFound      = errors.New("tool not found")
	ErrToolAlreadyExists = errors.New("tool already exists")
)

const toolColumns = `t.id, t.slug, t.name, t.category, t.description, t.status, t.current_version, t.created_at, t.updated_at`

type ToolRepository struct {
	db DBTX
}

func NewToolRepository(db DBTX) *ToolRepository {
	return &ToolRepository{db: db}
}

func (r *ToolRepository) Create(ctx context.Context, tool *entity.Tool) error {
	query := `
		INSERT INTO tools (slug, name, category, description, status, current_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		tool.Slug,
		tool.Name,
		tool.Category,
		tool.Description,
		tool.Status,
		tool.CurrentVersion,
		tool.CreatedAt,
		tool.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrToolAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	tool.ID = uint64(id)
	return nil
}

func (r *ToolRepository) Update(ctx context.Context, tool *entity.Tool) error {
	query := `
		UPDATE tools
		SET name = ?, category = ?, description = ?, status = ?, current_version = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		tool.Name,
		tool.Category,
		tool.Description,
		tool.Status,
		tool.CurrentVersion,
		tool.UpdatedAt,
		tool.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrToolNotFound
	}
	return nil
}

func (r *ToolRepository) FindByID(ctx context.Context, id uint64) (*entity.Tool, error) {
	return r.findOne(ctx, `SELECT `+toolColumns+` FROM tools t WHERE t.id = ?`, id)
}

func (r *ToolRepository) FindBySlug(ctx context.Context, slug string) (*entity.Tool, error) {
	return r.findOne(ctx, `SELECT `+toolColumns+` FROM tools t WHERE t.slug = ?`, slug)
}

func (r *ToolRepository) List(ctx context.Context, status string) ([]*entity.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools t`
	args := make([]interface{}, 0, 1)
	if status != "" {
		query += " WHERE t.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY t.category ASC, t.name ASC"

	return queryList(ctx, r.db, scanToolRow, query, args...)
}

// ListVisibleForPlan returns ACTIVE tools that have a non-hidden access row for the plan.
func (r *ToolRepository) ListVisibleForPlan(ctx context.Context, planID uint64) ([]*entity.Tool, error) {
	query := `
		SELECT ` + toolColumns + `
		FROM tools t
		INNER JOIN tool_access ta ON ta.tool_id = t.id
		WHERE ta.plan_id = ?
		  AND ta.is_hidden = 0
		  AND t.status = ?
		  AND t.current_version > 0
		ORDER BY t.category ASC, t.name ASC
	`
	return queryList(ctx, r.db, scanToolRow, query, planID, entity.ToolStatusActive)
}

func (r *ToolRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Tool, error) {
	item := &entity.Tool{}
	if err := scanTool(r.db.QueryRowContext(ctx, query, args...), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item, nil
}

func scanTool(scanner rowScanner, item *entity.Tool) error {
	var description sql.NullString
	err := scanner.Scan(
		&item.ID,
		&item.Slug,
		&item.Name,
		&item.Category,
		&description,
		&item.Status,
		&item.CurrentVersion,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}
	item.Description = description.String
	return nil
}

func scanToolRow(scanner rowScanner) (*entity.Tool, error) {
	item := &entity.Tool{}
	if err := scanTool(scanner, item); err != nil {
		return nil, err
	}
	return item, nil
}
