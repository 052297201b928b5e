package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

func (r *Repository) LoadDrafts(ctx context.Context, rng calendar.Range) ([]*domain.DraftShift, error) {
	query := `
		SELECT id, employee_id, start_time, end_time, location, role, created_at, version
		FROM draft_shifts
		WHERE start_time BETWEEN $1 AND $2
		ORDER BY start_time, id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, storeErr("load drafts", err)
	}
	defer rows.Close()

	shifts := make([]*domain.DraftShift, 0)
	for rows.Next() {
		shift := &domain.DraftShift{}
		dst := []any{&shift.ID, &shift.EmployeeID, &shift.StartTime, &shift.EndTime, &shift.Location, &shift.Role, &shift.CreatedAt, &shift.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, storeErr("load drafts", err)
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("load drafts", err)
	}

	return shifts, nil
}

func (r *Repository) GetDraft(ctx context.Context, id int64) (*domain.DraftShift, error) {
	query := `
		SELECT employee_id, start_time, end_time, location, role, created_at, version
		FROM draft_shifts WHERE id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	shift := &domain.DraftShift{
		ID: id,
	}

	dst := []any{&shift.EmployeeID, &shift.StartTime, &shift.EndTime, &shift.Location, &shift.Role, &shift.CreatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, storeErr("get draft", err)
	}

	return shift, nil
}

// draftErr 把违反约束的写入转换为业务错误，例如员工在校验之后被删除
func draftErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case "draft_shifts_employee_id_fkey":
			return fmt.Errorf("%w: 员工不存在", domain.ErrInvalidShift)
		case "draft_shifts_check":
			return fmt.Errorf("%w: 结束时间必须晚于开始时间", domain.ErrInvalidShift)
		}
	}
	return storeErr(op, err)
}

func (r *Repository) CreateDraft(ctx context.Context, shift *domain.DraftShift) error {
	query := `
		INSERT INTO draft_shifts (employee_id, start_time, end_time, location, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{shift.EmployeeID, shift.StartTime, shift.EndTime, shift.Location, shift.Role}
	dst := []any{&shift.ID, &shift.CreatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return draftErr("create draft", err)
	}

	return nil
}

// UpdateDraft 使用乐观锁，版本号不匹配时返回 sql.ErrNoRows
func (r *Repository) UpdateDraft(ctx context.Context, shift *domain.DraftShift) error {
	query := `
		UPDATE draft_shifts
		SET
			employee_id = $1,
			start_time = $2,
			end_time = $3,
			location = $4,
			role = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING created_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{shift.EmployeeID, shift.StartTime, shift.EndTime, shift.Location, shift.Role, shift.ID, shift.Version}
	dst := []any{&shift.CreatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return draftErr("update draft", err)
	}

	return nil
}

func (r *Repository) DeleteDraft(ctx context.Context, id int64) (bool, error) {
	query := `
		DELETE FROM draft_shifts WHERE id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return false, storeErr("delete draft", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, storeErr("delete draft", err)
	}

	return affected > 0, nil
}

func (r *Repository) DeleteDraftsInRange(ctx context.Context, rng calendar.Range) (int64, error) {
	query := `
		DELETE FROM draft_shifts WHERE start_time BETWEEN $1 AND $2
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, rng.Start, rng.End)
	if err != nil {
		return 0, storeErr("clear drafts", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, storeErr("clear drafts", err)
	}

	return affected, nil
}
