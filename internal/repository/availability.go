package repository

import (
	"context"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

func (r *Repository) LoadAvailability(ctx context.Context, employeeIDs []int64) ([]*domain.Availability, error) {
	if len(employeeIDs) == 0 {
		return []*domain.Availability{}, nil
	}

	query := `
		SELECT id, employee_id, day_of_week, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), is_available
		FROM availability
		WHERE employee_id = ANY($1::bigint[])
		ORDER BY employee_id, day_of_week, start_time
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, int64Array(employeeIDs))
	if err != nil {
		return nil, storeErr("load availability", err)
	}
	defer rows.Close()

	availability := make([]*domain.Availability, 0)
	for rows.Next() {
		a := &domain.Availability{}
		dst := []any{&a.ID, &a.EmployeeID, &a.DayOfWeek, &a.StartTime, &a.EndTime, &a.IsAvailable}
		if err := rows.Scan(dst...); err != nil {
			return nil, storeErr("load availability", err)
		}
		availability = append(availability, a)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("load availability", err)
	}

	return availability, nil
}

func (r *Repository) CreateAvailability(ctx context.Context, a *domain.Availability) error {
	query := `
		INSERT INTO availability (employee_id, day_of_week, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{a.EmployeeID, a.DayOfWeek, a.StartTime, a.EndTime, a.IsAvailable}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return storeErr("create availability", err)
	}

	return nil
}
