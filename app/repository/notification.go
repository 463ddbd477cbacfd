package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/developeraldawla/project-n8n/app/entity"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, n.UserID, n.Type, n.Message, n.IsRead, n.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, user_id, type, message, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	return queryList(ctx, r.db, scanNotificationRow, query, userID, limit)
}

// MarkRead only touches the row when it belongs to userID.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uint64, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Zero rows also happens when the row was already read.
	var owner string
	err = r.db.QueryRowContext(ctx, `SELECT user_id FROM notifications WHERE id = ?`, id).Scan(&owner)
	if err == sql.ErrNoRows || (err == nil && owner != userID) {
		return ErrNotificationNotFound
	}
	return err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanNotificationRow(scanner rowScanner) (*entity.Notification, error) {
	item := &entity.Notification{}
	err := scanner.Scan(&item.ID, &item.UserID, &item.Type, &item.Message, &item.IsRead, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

