package scheduler

import (
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

const DaysPerWeek = 7

// WeeklyHours 统计每个员工的工作时长（小时），草稿和已发布的班次都计入，空缺班次不计入
func WeeklyHours(shifts []domain.Shift) map[int64]float64 {
	hours := make(map[int64]float64)
	for _, shift := range shifts {
		details := shift.Details()
		if details.IsOpen() {
			continue
		}
		hours[*details.EmployeeID] += details.Hours()
	}
	return hours
}

// WeeklyLaborCost 按员工最新的时薪估算人工成本，不含任何税费
func WeeklyLaborCost(hours map[int64]float64, employees []*domain.Employee) map[int64]float64 {
	rates := make(map[int64]float64, len(employees))
	for _, e := range employees {
		rates[e.ID] = e.HourlyRate
	}

	cost := make(map[int64]float64, len(hours))
	for employeeID, h := range hours {
		cost[employeeID] = h * rates[employeeID]
	}
	return cost
}

// DayIndex 返回时刻 t 在以 weekStart（周一）开始的一周中的位置，0 为周一，6 为周日
func DayIndex(resolver *calendar.Resolver, t time.Time, weekStart calendar.Date) (int, bool) {
	idx := resolver.LocalDate(t).DaysSince(weekStart)
	if idx < 0 || idx >= DaysPerWeek {
		return 0, false
	}
	return idx, true
}

// IndexByEmployeeAndDay 把记录按 员工 -> 星期几 分桶。
//
// key 返回记录所属的员工、起止时刻以及是否参与分桶。记录会出现在它覆盖到的每一天；
// 起止相同的记录只属于开始的那一天。落在这一周以外的日期直接丢弃。
func IndexByEmployeeAndDay[T any](resolver *calendar.Resolver, items []T, weekStart calendar.Date, key func(T) (employeeID int64, start, end time.Time, ok bool)) map[int64]map[int][]T {
	index := make(map[int64]map[int][]T)
	for _, item := range items {
		employeeID, start, end, ok := key(item)
		if !ok {
			continue
		}

		for _, day := range touchedDays(resolver, start, end) {
			idx := day.DaysSince(weekStart)
			if idx < 0 || idx >= DaysPerWeek {
				continue
			}
			if _, exists := index[employeeID]; !exists {
				index[employeeID] = make(map[int][]T)
			}
			index[employeeID][idx] = append(index[employeeID][idx], item)
		}
	}
	return index
}

func shiftKey(s domain.Shift) (int64, time.Time, time.Time, bool) {
	details := s.Details()
	if details.IsOpen() {
		return 0, time.Time{}, time.Time{}, false
	}
	// 跨午夜的班次只算在开始的那一天
	return *details.EmployeeID, details.StartTime, details.StartTime, true
}

func IndexShiftsByDay(resolver *calendar.Resolver, shifts []domain.Shift, weekStart calendar.Date) map[int64]map[int][]domain.Shift {
	return IndexByEmployeeAndDay(resolver, shifts, weekStart, shiftKey)
}

func IndexOpenShiftsByDay(resolver *calendar.Resolver, shifts []domain.Shift, weekStart calendar.Date) map[int][]domain.Shift {
	index := make(map[int][]domain.Shift)
	for _, shift := range shifts {
		details := shift.Details()
		if !details.IsOpen() {
			continue
		}
		if idx, ok := DayIndex(resolver, details.StartTime, weekStart); ok {
			index[idx] = append(index[idx], shift)
		}
	}
	return index
}

func IndexTimeOffByDay(resolver *calendar.Resolver, timeOffs []*domain.TimeOffNotice, weekStart calendar.Date) map[int64]map[int][]*domain.TimeOffNotice {
	return IndexByEmployeeAndDay(resolver, timeOffs, weekStart, func(n *domain.TimeOffNotice) (int64, time.Time, time.Time, bool) {
		return n.EmployeeID, n.StartTime, n.EndTime, n.Blocks()
	})
}

// IndexAvailabilityByDay 可用时间本身就是按星期几记录的，不需要换算日期
func IndexAvailabilityByDay(availability []*domain.Availability) map[int64]map[int][]*domain.Availability {
	index := make(map[int64]map[int][]*domain.Availability)
	for _, a := range availability {
		if a.DayOfWeek < 0 || a.DayOfWeek >= DaysPerWeek {
			continue
		}
		if _, exists := index[a.EmployeeID]; !exists {
			index[a.EmployeeID] = make(map[int][]*domain.Availability)
		}
		index[a.EmployeeID][a.DayOfWeek] = append(index[a.EmployeeID][a.DayOfWeek], a)
	}
	return index
}
