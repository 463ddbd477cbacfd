package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/developeraldawla/project-n8n/app/entity"
)

var ErrUsageLogAlreadyExists = errors.New("usage log already exists")

type UsageRepository struct {
	db DBTX
}

func NewUsageRepository(db DBTX) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) CreateLog(ctx context.Context, log *entity.UsageLog) error {
	query := `
		INSERT INTO usage_logs (
			execution_id, user_id, tool_id, version_number, usage_date,
			outcome, duration_ms, output_key, error_message, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		log.ExecutionID,
		log.UserID,
		log.ToolID,
		log.VersionNumber,
		formatDate(log.UsageDate),
		log.Outcome,
		log.DurationMs,
		nullableStringValue(log.OutputKey),
		nullableStringValue(log.ErrorMessage),
		log.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrUsageLogAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = uint64(id)
	return nil
}

// Summary aggregates the usage log rows of one user for one UTC day.
func (r *UsageRepository) Summary(ctx context.Context, userID string, day time.Time) (*entity.UsageSummary, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(outcome = ?), 0),
		       COALESCE(SUM(outcome = ?), 0),
		       COALESCE(SUM(outcome = ?), 0)
		FROM usage_logs
		WHERE user_id = ? AND usage_date = ?
	`

	summary := &entity.UsageSummary{}
	err := r.db.QueryRowContext(ctx, query,
		entity.UsageOutcomeSuccess,
		entity.UsageOutcomeFailed,
		entity.UsageOutcomeDenied,
		userID,
		formatDate(day),
	).Scan(&summary.Total, &summary.Success, &summary.Failed, &summary.Denied)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// UsageCounterRepository keeps per-user daily counters in MySQL.
type UsageCounterRepository struct {
	db DBTX
}

func NewUsageCounterRepository(db DBTX) *UsageCounterRepository {
	return &UsageCounterRepository{db: db}
}

// Increment adds one to the counter of (userID, day) only while the counter is
// below limit. A negative limit removes the ceiling. The boolean reports whether
// the increment happened; the returned count is the counter value afterwards.
// LAST_INSERT_ID(expr) hands the new value back without a second read.
func (r *UsageCounterRepository) Increment(ctx context.Context, userID string, day time.Time, limit int64) (bool, int64, error) {
	date := formatDate(day)
	now := time.Now().UTC()

	ensure := `
		INSERT INTO usage_counters (user_id, usage_date, used, updated_at)
		VALUES (?, ?, 0, ?)
		ON DUPLICATE KEY UPDATE user_id = user_id
	`
	if _, err := r.db.ExecContext(ctx, ensure, userID, date, now); err != nil {
		return false, 0, err
	}

	var (
		result sql.Result
		err    error
	)
	if limit < 0 {
		result, err = r.db.ExecContext(ctx, `
			UPDATE usage_counters
			SET used = LAST_INSERT_ID(used + 1), updated_at = ?
			WHERE user_id = ? AND usage_date = ?
		`, now, userID, date)
	} else {
		result, err = r.db.ExecContext(ctx, `
			UPDATE usage_counters
			SET used = LAST_INSERT_ID(used + 1), updated_at = ?
			WHERE user_id = ? AND usage_date = ? AND used < ?
		`, now, userID, date, limit)
	}
	if err != nil {
		return false, 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, 0, err
	}
	if affected == 0 {
		used, err := r.Used(ctx, userID, day)
		if err != nil {
			return false, 0, err
		}
		return false, used, nil
	}

	used, err := result.LastInsertId()
	if err != nil {
		return false, 0, err
	}
	return true, used, nil
}

func (r *UsageCounterRepository) Used(ctx context.Context, userID string, day time.Time) (int64, error) {
	var used int64
	err := r.db.QueryRowContext(ctx,
		`SELECT used FROM usage_counters WHERE user_id = ? AND usage_date = ?`,
		userID, formatDate(day),
	).Scan(&used)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return used, nil
}
