package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/developeraldawla/project-n8n/app/entity"
)

var (
	ErrPlanNotFound      = errors.New("plan not found")
	ErrPlanAlreadyExists = errors.New("plan already exists")
)

const planColumns = `
	p.id, p.slug, p.name, p.description,
	p.price_monthly_cents, p.price_yearly_cents, p.currency, p.trial_days,
	p.features, p.limits, p.is_active, p.created_at, p.updated_at`

type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *entity.Plan) error {
	features, limits, err := encodePlanMaps(plan)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO plans (
			slug, name, description, price_monthly_cents, price_yearly_cents,
			currency, trial_days, features, limits, is_active, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		plan.Slug,
		plan.Name,
		plan.Description,
		plan.PriceMonthlyCents,
		plan.PriceYearlyCents,
		plan.Currency,
		plan.TrialDays,
		features,
		limits,
		plan.IsActive,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrPlanAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	plan.ID = uint64(id)
	return nil
}

func (r *PlanRepository) Update(ctx context.Context, plan *entity.Plan) error {
	features, limits, err := encodePlanMaps(plan)
	if err != nil {
		return err
	}

	query := `
		UPDATE plans
		SET slug = ?, name = ?, description = ?, price_monthly_cents = ?, price_yearly_cents = ?,
		    currency = ?, trial_days = ?, features = ?, limits = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		plan.Slug,
		plan.Name,
		plan.Description,
		plan.PriceMonthlyCents,
		plan.PriceYearlyCents,
		plan.Currency,
		plan.TrialDays,
		features,
		limits,
		plan.IsActive,
		plan.UpdatedAt,
		plan.ID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrPlanAlreadyExists
		}
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPlanNotFound
	}

	return nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id uint64) (*entity.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans p WHERE p.id = ?`
	return r.findOne(ctx, query, id)
}

func (r *PlanRepository) FindBySlug(ctx context.Context, slug string) (*entity.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans p WHERE p.slug = ?`
	return r.findOne(ctx, query, slug)
}

func (r *PlanRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans p`
	args := make([]interface{}, 0, 1)
	if activeOnly {
		query += " WHERE p.is_active = ?"
		args = append(args, true)
	}
	query += " ORDER BY p.price_monthly_cents ASC, p.id ASC"

	return queryList(ctx, r.db, scanPlanRow, query, args...)
}

// CountUsers reports how many users currently reference the plan.
func (r *PlanRepository) CountUsers(ctx context.Context, planID uint64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE plan_id = ?`, planID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PlanRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Plan, error) {
	item := &entity.Plan{}
	if err := scanPlan(r.db.QueryRowContext(ctx, query, args...), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item, nil
}

func encodePlanMaps(plan *entity.Plan) (string, string, error) {
	features, err := encodeJSONMap(plan.Features)
	if err != nil {
		return "", "", fmt.Errorf("encode plan features: %w", err)
	}
	limits, err := encodeJSONMap(plan.Limits)
	if err != nil {
		return "", "", fmt.Errorf("encode plan limits: %w", err)
	}
	return features, limits, nil
}

func scanPlan(scanner rowScanner, item *entity.Plan) error {
	var description sql.NullString
	var features sql.NullString
	var limits sql.NullString

	err := scanner.Scan(
		&item.ID,
		&item.Slug,
		&item.Name,
		&description,
		&item.PriceMonthlyCents,
		&item.PriceYearlyCents,
		&item.Currency,
		&item.TrialDays,
		&features,
		&limits,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	item.Description = description.String
	if item.Features, err = decodeJSONMap[bool](features); err != nil {
		return fmt.Errorf("decode features of plan %d: %w", item.ID, err)
	}
	if item.Limits, err = decodeJSONMap[int64](limits); err != nil {
		return fmt.Errorf("decode limits of plan %d: %w", item.ID, err)
	}

	return nil
}

func scanPlanRow(scanner rowScanner) (*entity.Plan, error) {
	item := &entity.Plan{}
	if err := scanPlan(scanner, item); err != nil {
		return nil, err
	}
	return item, nil
}
