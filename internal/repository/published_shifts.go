package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

const publishedColumns = `employee_id, start_time, end_time, location, role, week_start, week_end, published_at, publication_id, source_draft_id`

// publishedRow 是 published_shifts 的一行，date 类型的列先读成 time.Time 再转换
type publishedRow struct {
	shift     domain.PublishedShift
	weekStart time.Time
	weekEnd   time.Time
}

func (row *publishedRow) dst() []any {
	s := &row.shift
	return []any{&s.EmployeeID, &s.StartTime, &s.EndTime, &s.Location, &s.Role, &row.weekStart, &row.weekEnd, &s.PublishedAt, &s.PublicationID, &s.SourceDraftID}
}

func (row *publishedRow) toDomain() (*domain.PublishedShift, error) {
	var err error
	if row.shift.WeekStart, err = calendar.NewDate(row.weekStart.Year(), row.weekStart.Month(), row.weekStart.Day()); err != nil {
		return nil, err
	}
	if row.shift.WeekEnd, err = calendar.NewDate(row.weekEnd.Year(), row.weekEnd.Month(), row.weekEnd.Day()); err != nil {
		return nil, err
	}
	shift := row.shift
	return &shift, nil
}

func (r *Repository) LoadPublished(ctx context.Context, rng calendar.Range) ([]*domain.PublishedShift, error) {
	query := `
		SELECT id, ` + publishedColumns + `
		FROM published_shifts
		WHERE start_time BETWEEN $1 AND $2
		ORDER BY start_time, id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, storeErr("load published", err)
	}
	defer rows.Close()

	shifts := make([]*domain.PublishedShift, 0)
	for rows.Next() {
		row := &publishedRow{}
		if err := rows.Scan(append([]any{&row.shift.ID}, row.dst()...)...); err != nil {
			return nil, storeErr("load published", err)
		}
		shift, err := row.toDomain()
		if err != nil {
			return nil, storeErr("load published", err)
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("load published", err)
	}

	return shifts, nil
}

func (r *Repository) GetPublished(ctx context.Context, id int64) (*domain.PublishedShift, error) {
	query := `
		SELECT ` + publishedColumns + `
		FROM published_shifts WHERE id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	row := &publishedRow{shift: domain.PublishedShift{ID: id}}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(row.dst()...); err != nil {
		return nil, storeErr("get published", err)
	}

	shift, err := row.toDomain()
	if err != nil {
		return nil, storeErr("get published", err)
	}
	return shift, nil
}

func (r *Repository) DeletePublished(ctx context.Context, id int64) (bool, error) {
	query := `
		DELETE FROM published_shifts WHERE id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return false, storeErr("delete published", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, storeErr("delete published", err)
	}

	return affected > 0, nil
}

// InsertPublished 在一个事务中写入所有行。
// 与已有行 (employee_id, start_time) 冲突的行由唯一约束跳过，不会出现在返回值中。
func (r *Repository) InsertPublished(ctx context.Context, shifts []*domain.PublishedShift) ([]*domain.PublishedShift, error) {
	ctx, cancel := r.transactionContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("publish", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO published_shifts (` + publishedColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ON CONSTRAINT ` + publishedUniqueConstraint + ` DO NOTHING
		RETURNING id
	`

	inserted := make([]*domain.PublishedShift, 0, len(shifts))
	for _, shift := range shifts {
		args := []any{
			shift.EmployeeID,
			shift.StartTime,
			shift.EndTime,
			shift.Location,
			shift.Role,
			shift.WeekStart.String(),
			shift.WeekEnd.String(),
			shift.PublishedAt,
			shift.PublicationID,
			shift.SourceDraftID,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.ID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, storeErr("publish", err)
		}
		inserted = append(inserted, shift)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("publish", err)
	}

	return inserted, nil
}
