package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

// LoadTimeOff 返回与范围有重叠的请假，而不只是开始时刻落在范围内的
func (r *Repository) LoadTimeOff(ctx context.Context, rng calendar.Range) ([]*domain.TimeOffNotice, error) {
	query := `
		SELECT id, employee_id, start_time, end_time, status, reason, created_at, version
		FROM time_off_notices
		WHERE start_time <= $2 AND end_time >= $1
		ORDER BY start_time, id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, storeErr("load time off", err)
	}
	defer rows.Close()

	notices := make([]*domain.TimeOffNotice, 0)
	for rows.Next() {
		notice := &domain.TimeOffNotice{}
		dst := []any{&notice.ID, &notice.EmployeeID, &notice.StartTime, &notice.EndTime, &notice.Status, &notice.Reason, &notice.CreatedAt, &notice.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, storeErr("load time off", err)
		}
		notices = append(notices, notice)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("load time off", err)
	}

	return notices, nil
}

func (r *Repository) GetTimeOff(ctx context.Context, id int64) (*domain.TimeOffNotice, error) {
	query := `
		SELECT employee_id, start_time, end_time, status, reason, created_at, version
		FROM time_off_notices WHERE id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	notice := &domain.TimeOffNotice{
		ID: id,
	}

	dst := []any{&notice.EmployeeID, &notice.StartTime, &notice.EndTime, &notice.Status, &notice.Reason, &notice.CreatedAt, &notice.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, storeErr("get time off", err)
	}

	return notice, nil
}

func (r *Repository) CreateTimeOff(ctx context.Context, notice *domain.TimeOffNotice) error {
	query := `
		INSERT INTO time_off_notices (employee_id, start_time, end_time, status, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{notice.EmployeeID, notice.StartTime, notice.EndTime, notice.Status, notice.Reason}
	dst := []any{&notice.ID, &notice.CreatedAt, &notice.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "time_off_notices_employee_id_fkey" {
			return fmt.Errorf("%w: 员工不存在", domain.ErrInvalidTimeOff)
		}
		return storeErr("create time off", err)
	}

	return nil
}

func (r *Repository) UpdateTimeOff(ctx context.Context, notice *domain.TimeOffNotice) error {
	query := `
		UPDATE time_off_notices
		SET
			status = $1,
			reason = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{notice.Status, notice.Reason, notice.ID, notice.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&notice.Version); err != nil {
		return storeErr("update time off", err)
	}

	return nil
}
