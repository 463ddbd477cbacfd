package repository

import (
	"context"
	"database/sql"

	"github.com/developeraldawla/project-n8n/app/entity"
)

type AuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (admin_id, action, target_entity, details, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		log.AdminID,
		log.Action,
		log.TargetEntity,
		nullableJSONValue(log.Details),
		log.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = uint64(id)
	return nil
}

// ListLatest returns the newest entries first, joined with the acting admin.
func (r *AuditRepository) ListLatest(ctx context.Context, limit int) ([]*entity.AuditLog, error) {
	query := `
		SELECT a.id, a.admin_id, u.email, u.role, a.action, a.target_entity, a.details, a.created_at
		FROM audit_logs a
		LEFT JOIN users u ON u.id = a.admin_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ?
	`
	return queryList(ctx, r.db, scanAuditLogRow, query, limit)
}

func scanAuditLogRow(scanner rowScanner) (*entity.AuditLog, error) {
	item := &entity.AuditLog{}
	var email sql.NullString
	var role sql.NullString
	var details sql.NullString

	err := scanner.Scan(
		&item.ID,
		&item.AdminID,
		&email,
		&role,
		&item.Action,
		&item.TargetEntity,
		&details,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.AdminEmail = email.String
	item.AdminRole = role.String
	if details.Valid {
		item.Details = []byte(details.String)
	}
	return item, nil
}
