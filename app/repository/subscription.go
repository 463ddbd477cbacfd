package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
)

var (
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrSubscriptionAlreadyExists = errors.New("subscription already exists")
)

const subscriptionColumns = `
	id, user_id, plan_id, status,
	current_period_start, current_period_end, cancel_at_period_end, transaction_id,
	created_at, updated_at`

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			user_id, plan_id, status,
			current_period_start, current_period_end, cancel_at_period_end, transaction_id,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		subscription.UserID,
		subscription.PlanID,
		subscription.Status,
		nullableTimeValue(subscription.CurrentPeriodStart),
		nullableTimeValue(subscription.CurrentPeriodEnd),
		subscription.CancelAtPeriodEnd,
		nullableStringValue(subscription.TransactionID),
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrSubscriptionAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	subscription.ID = uint64(id)
	return nil
}

// Update persists mutable fields. A duplicate on the active-user index means
// another subscription of the same user is already ACTIVE.
func (r *SubscriptionRepository) Update(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		UPDATE subscriptions
		SET status = ?, current_period_start = ?, current_period_end = ?,
		    cancel_at_period_end = ?, transaction_id = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		subscription.Status,
		nullableTimeValue(subscription.CurrentPeriodStart),
		nullableTimeValue(subscription.CurrentPeriodEnd),
		subscription.CancelAtPeriodEnd,
		nullableStringValue(subscription.TransactionID),
		subscription.UpdatedAt,
		subscription.ID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrSubscriptionAlreadyExists
		}
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

// DeactivateActiveForUser moves every ACTIVE subscription of the user except
// keepID to inactive and returns how many rows changed.
func (r *SubscriptionRepository) DeactivateActiveForUser(ctx context.Context, userID string, keepID uint64, now time.Time) (int64, error) {
	query := `
		UPDATE subscriptions
		SET status = ?, updated_at = ?
		WHERE user_id = ? AND status = ? AND id <> ?
	`

	result, err := r.db.ExecContext(ctx, query,
		entity.SubscriptionStatusInactive,
		now,
		userID,
		entity.SubscriptionStatusActive,
		keepID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id uint64) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ?`
	return r.findOne(ctx, query, id)
}

func (r *SubscriptionRepository) FindActiveByUser(ctx context.Context, userID string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = ? AND status = ? LIMIT 1`
	return r.findOne(ctx, query, userID, entity.SubscriptionStatusActive)
}

// FindLatestByUser returns the most recently created subscription in any status.
func (r *SubscriptionRepository) FindLatestByUser(ctx context.Context, userID string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = ? ORDER BY id DESC LIMIT 1`
	return r.findOne(ctx, query, userID)
}

func (r *SubscriptionRepository) ListPendingPaymentStale(ctx context.Context, cutoffSQLTime time.Time) ([]*entity.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status = ?
		  AND updated_at < ?
		ORDER BY id ASC
	`
	return queryList(ctx, r.db, scanSubscriptionRow, query, entity.SubscriptionStatusPendingPayment, cutoffSQLTime)
}

func (r *SubscriptionRepository) ListExpiredActive(ctx context.Context, nowSQLTime time.Time) ([]*entity.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status = ?
		  AND current_period_end IS NOT NULL
		  AND current_period_end < ?
		ORDER BY id ASC
	`
	return queryList(ctx, r.db, scanSubscriptionRow, query, entity.SubscriptionStatusActive, nowSQLTime)
}

func (r *SubscriptionRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Subscription, error) {
	item := &entity.Subscription{}
	if err := scanSubscription(r.db.QueryRowContext(ctx, query, args...), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item, nil
}

func scanSubscription(scanner rowScanner, item *entity.Subscription) error {
	var periodStart sql.NullTime
	var periodEnd sql.NullTime
	var transactionID sql.NullString

	err := scanner.Scan(
		&item.ID,
		&item.UserID,
		&item.PlanID,
		&item.Status,
		&periodStart,
		&periodEnd,
		&item.CancelAtPeriodEnd,
		&transactionID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	item.CurrentPeriodStart = timePtr(periodStart)
	item.CurrentPeriodEnd = timePtr(periodEnd)
	item.TransactionID = stringPtr(transactionID)
	return nil
}

func scanSubscriptionRow(scanner rowScanner) (*entity.Subscription, error) {
	item := &entity.Subscription{}
	if err := scanSubscription(scanner, item); err != nil {
		return nil, err
	}
	return item, nil
}
