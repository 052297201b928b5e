package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

type employeeDay struct {
	employeeID int64
	date       calendar.Date
}

// touchedDays 返回 [start, end] 覆盖到的所有本地日期。
// 恰好在午夜结束的请假不占用结束的那一天。
func touchedDays(resolver *calendar.Resolver, start, end time.Time) []calendar.Date {
	first := resolver.LocalDate(start)
	if !end.After(start) {
		return []calendar.Date{first}
	}

	last := resolver.LocalDate(end.Add(-time.Nanosecond))
	days := make([]calendar.Date, 0, last.DaysSince(first)+1)
	for d := first; !d.After(last); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// blockedDays 建立 (员工, 本地日期) -> 请假 的索引，同一天有多条请假时保留最早开始的那条
func blockedDays(resolver *calendar.Resolver, timeOffs []*domain.TimeOffNotice) map[employeeDay]*domain.TimeOffNotice {
	blocked := make(map[employeeDay]*domain.TimeOffNotice)
	for _, notice := range timeOffs {
		if !notice.Blocks() {
			continue
		}
		for _, day := range touchedDays(resolver, notice.StartTime, notice.EndTime) {
			key := employeeDay{employeeID: notice.EmployeeID, date: day}
			if existing, ok := blocked[key]; !ok || notice.StartTime.Before(existing.StartTime) {
				blocked[key] = notice
			}
		}
	}
	return blocked
}

func reasonOf(notice *domain.TimeOffNotice) string {
	if reason := strings.TrimSpace(notice.Reason); reason != "" {
		return reason
	}
	return domain.DefaultConflictReason
}

func employeeNames(employees []*domain.Employee) map[int64]string {
	names := make(map[int64]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.FullName
	}
	return names
}

func nameOf(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("员工 %d", id)
}

// FindConflicts 找出所有落在员工请假当天的班次，比较的粒度是参考时区中的民用日期而不是时刻区间。
// 空缺班次不会产生冲突。
func FindConflicts(resolver *calendar.Resolver, shifts []domain.Shift, timeOffs []*domain.TimeOffNotice, employees []*domain.Employee) ([]domain.Conflict, error) {
	blocked := blockedDays(resolver, timeOffs)
	names := employeeNames(employees)

	conflicts := make([]domain.Conflict, 0)
	for _, shift := range shifts {
		details := shift.Details()
		if details.StartTime.IsZero() {
			return nil, fmt.Errorf("%w: 班次 %d 缺少开始时间", domain.ErrInvalidShift, shift.ShiftID())
		}
		if details.IsOpen() {
			continue
		}

		day := resolver.LocalDate(details.StartTime)
		notice, ok := blocked[employeeDay{employeeID: *details.EmployeeID, date: day}]
		if !ok {
			continue
		}

		conflicts = append(conflicts, domain.Conflict{
			ShiftID:      shift.ShiftID(),
			ShiftStatus:  shift.ShiftStatus(),
			EmployeeID:   *details.EmployeeID,
			EmployeeName: nameOf(names, *details.EmployeeID),
			Date:         day,
			TimeOffID:    notice.ID,
			Reason:       reasonOf(notice),
		})
	}

	return conflicts, nil
}

// CheckAssignment 检查把班次分配给 employee 是否会与其请假冲突，没有冲突时返回 nil
func CheckAssignment(resolver *calendar.Resolver, details domain.ShiftDetails, employee *domain.Employee, timeOffs []*domain.TimeOffNotice) *domain.ConflictError {
	if details.IsOpen() || employee == nil {
		return nil
	}

	day := resolver.LocalDate(details.StartTime)
	notice, ok := blockedDays(resolver, timeOffs)[employeeDay{employeeID: employee.ID, date: day}]
	if !ok {
		return nil
	}

	return &domain.ConflictError{
		EmployeeID:   employee.ID,
		EmployeeName: nameOf(map[int64]string{employee.ID: employee.FullName}, employee.ID),
		Date:         day,
		Reason:       reasonOf(notice),
	}
}
