package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

// LoadEmployees 读取员工目录，时薪取 filter.AsOf 当天（参考时区）之前最新生效的那条记录
func (r *Repository) LoadEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error) {
	query := `
		SELECT e.id, e.username, e.full_name, e.role, e.is_active, COALESCE(pr.hourly_rate, 0)::float8
		FROM employees e
		LEFT JOIN LATERAL (
			SELECT hourly_rate FROM pay_rates
			WHERE employee_id = e.id AND effective_date <= ($1::timestamptz AT TIME ZONE $2)::date
			ORDER BY effective_date DESC, id DESC
			LIMIT 1
		) pr ON true
		WHERE ($3 = false OR e.is_active)
		  AND ($4 = false OR e.id = ANY($5::bigint[]))
		ORDER BY e.id
	`

	asOf := filter.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{asOf, r.timeZone(), filter.ActiveOnly, len(filter.IDs) > 0, int64Array(filter.IDs)}
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("load employees", err)
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{}
		dst := []any{&employee.ID, &employee.Username, &employee.FullName, &employee.Role, &employee.IsActive, &employee.HourlyRate}
		if err := rows.Scan(dst...); err != nil {
			return nil, storeErr("load employees", err)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("load employees", err)
	}

	return employees, nil
}

func (r *Repository) timeZone() string {
	if r.cfg.Schedule.TimeZone == "" {
		return calendar.DefaultTimeZone
	}
	return r.cfg.Schedule.TimeZone
}

// CreateEmployee 供填充开发数据使用，正式环境的员工目录由外部系统维护
func (r *Repository) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (username, full_name, role, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{employee.Username, employee.FullName, employee.Role, employee.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.ID); err != nil {
		return storeErr("create employee", err)
	}

	return nil
}

func (r *Repository) CreatePayRate(ctx context.Context, employeeID int64, hourlyRate float64, effectiveDate calendar.Date) error {
	query := `
		INSERT INTO pay_rates (employee_id, hourly_rate, effective_date)
		VALUES ($1, $2, $3)
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, employeeID, hourlyRate, effectiveDate.String()); err != nil {
		return storeErr("create pay rate", err)
	}

	return nil
}
