package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/developeraldawla/project-n8n/app/entity"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

const userColumns = `u.id, u.email, u.password_hash, u.role, u.plan_id, u.created_at, u.updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, plan_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableStringValue(&user.PasswordHash),
		user.Role,
		nullableUint64Value(user.PlanID),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) UpdatePlan(ctx context.Context, userID string, planID *uint64) error {
	query := `UPDATE users SET plan_id = ?, updated_at = UTC_TIMESTAMP(6) WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, nullableUint64Value(planID), userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user together with its subscriptions. Only registration
// uses it, before any other row references the user.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = ?`, id); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = ?`, email)
}

// FindWithPlan loads a user and the plan it points at in one round trip.
// The plan is nil when the user has no plan_id or the plan row is gone.
func (r *UserRepository) FindWithPlan(ctx context.Context, id string) (*entity.User, *entity.Plan, error) {
	query := `
		SELECT ` + userColumns + `,
		       p.id, p.slug, p.name, p.description,
		       p.price_monthly_cents, p.price_yearly_cents, p.currency, p.trial_days,
		       p.features, p.limits, p.is_active, p.created_at, p.updated_at
		FROM users u
		LEFT JOIN plans p ON p.id = u.plan_id
		WHERE u.id = ?
	`

	user := &entity.User{}
	var passwordHash sql.NullString
	var planID sql.NullInt64
	var (
		pID          sql.NullInt64
		pSlug        sql.NullString
		pName        sql.NullString
		pDescription sql.NullString
		pMonthly     sql.NullInt64
		pYearly      sql.NullInt64
		pCurrency    sql.NullString
		pTrialDays   sql.NullInt32
		pFeatures    sql.NullString
		pLimits      sql.NullString
		pIsActive    sql.NullBool
		pCreatedAt   sql.NullTime
		pUpdatedAt   sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&user.Role,
		&planID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&pID,
		&pSlug,
		&pName,
		&pDescription,
		&pMonthly,
		&pYearly,
		&pCurrency,
		&pTrialDays,
		&pFeatures,
		&pLimits,
		&pIsActive,
		&pCreatedAt,
		&pUpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	applyUserNullables(user, passwordHash, planID)

	if !pID.Valid {
		return user, nil, nil
	}

	plan := &entity.Plan{
		ID:                uint64(pID.Int64),
		Slug:              pSlug.String,
		Name:              pName.String,
		Description:       pDescription.String,
		PriceMonthlyCents: pMonthly.Int64,
		PriceYearlyCents:  pYearly.Int64,
		Currency:          pCurrency.String,
		TrialDays:         pTrialDays.Int32,
		IsActive:          pIsActive.Bool,
		CreatedAt:         pCreatedAt.Time,
		UpdatedAt:         pUpdatedAt.Time,
	}
	if plan.Features, err = decodeJSONMap[bool](pFeatures); err != nil {
		return nil, nil, fmt.Errorf("decode features of plan %d: %w", plan.ID, err)
	}
	if plan.Limits, err = decodeJSONMap[int64](pLimits); err != nil {
		return nil, nil, fmt.Errorf("decode limits of plan %d: %w", plan.ID, err)
	}

	return user, plan, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u ORDER BY u.created_at DESC LIMIT ? OFFSET ?`
	return queryList(ctx, r.db, scanUserRow, query, limit, offset)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.User, error) {
	item := &entity.User{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, args...), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item, nil
}

func scanUser(scanner rowScanner, item *entity.User) error {
	var passwordHash sql.NullString
	var planID sql.NullInt64

	err := scanner.Scan(
		&item.ID,
		&item.Email,
		&passwordHash,
		&item.Role,
		&planID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	applyUserNullables(item, passwordHash, planID)
	return nil
}

func scanUserRow(scanner rowScanner) (*entity.User, error) {
	item := &entity.User{}
	if err := scanUser(scanner, item); err != nil {
		return nil, err
	}
	return item, nil
}

func applyUserNullables(item *entity.User, passwordHash sql.NullString, planID sql.NullInt64) {
	item.PasswordHash = passwordHash.String
	if planID.Valid {
		id := uint64(planID.Int64)
		item.PlanID = &id
	} else {
		item.PlanID = nil
	}
}
