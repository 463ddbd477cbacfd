package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/developeraldawla/project-n8n/app/entity"
)

type ToolAccessRepository struct {
	db DBTX
}

func NewToolAccessRepository(db DBTX) *ToolAccessRepository {
	return &ToolAccessRepository{db: db}
}

func (r *ToolAccessRepository) Find(ctx context.Context, toolID, planID uint64) (*entity.ToolAccess, error) {
	query := `SELECT tool_id, plan_id, is_hidden FROM tool_access WHERE tool_id = ? AND plan_id = ?`

	item := &entity.ToolAccess{}
	err := r.db.QueryRowContext(ctx, query, toolID, planID).Scan(&item.ToolID, &item.PlanID, &item.IsHidden)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ToolAccessRepository) ListByTool(ctx context.Context, toolID uint64) ([]*entity.ToolAccess, error) {
	query := `SELECT tool_id, plan_id, is_hidden FROM tool_access WHERE tool_id = ? ORDER BY plan_id ASC`
	return queryList(ctx, r.db, scanToolAccessRow, query, toolID)
}

// Replace makes the stored access rows of the tool equal to items: listed plans
// are upserted, every other plan row of the tool is removed.
func (r *ToolAccessRepository) Replace(ctx context.Context, toolID uint64, items []entity.ToolAccess) error {
	if len(items) == 0 {
		_, err := r.db.ExecContext(ctx, `DELETE FROM tool_access WHERE tool_id = ?`, toolID)
		return err
	}

	placeholders := make([]string, 0, len(items))
	args := make([]interface{}, 0, len(items)+1)
	args = append(args, toolID)
	for _, item := range items {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO tool_access (tool_id, plan_id, is_hidden)
			VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE is_hidden = VALUES(is_hidden)
		`, toolID, item.PlanID, item.IsHidden); err != nil {
			return err
		}
		placeholders = append(placeholders, "?")
		args = append(args, item.PlanID)
	}

	query := `DELETE FROM tool_access WHERE tool_id = ? AND plan_id NOT IN (` + strings.Join(placeholders, ", ") + `)`
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func scanToolAccessRow(scanner rowScanner) (*entity.ToolAccess, error) {
	item := &entity.ToolAccess{}
	if err := scanner.Scan(&item.ToolID, &item.PlanID, &item.IsHidden); err != nil {
		return nil, err
	}
	return item, nil
}
