package scheduler

import (
	"context"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

// WeekData 是排班页面需要的全部数据
type WeekData struct {
	StartDate         calendar.Date                             `json:"startDate"`
	EndDate           calendar.Date                             `json:"endDate"`
	WeekStart         calendar.Date                             `json:"weekStart"` // 下面按天分桶所用的周一
	Employees         []*domain.Employee                        `json:"employees"`
	Shifts            []domain.Shift                            `json:"shifts"`
	OpenShifts        []domain.Shift                            `json:"openShifts"`
	TimeOffs          []*domain.TimeOffNotice                   `json:"timeOffs"`
	Availability      []*domain.Availability                    `json:"availability"`
	IsPublished       bool                                      `json:"isPublished"`
	WeeklyHours       map[int64]float64                         `json:"weeklyHours"`
	LaborCost         map[int64]float64                         `json:"laborCost"`
	Conflicts         []domain.Conflict                         `json:"conflicts"`
	ShiftsByDay       map[int64]map[int][]domain.Shift          `json:"shiftsByDay"`
	OpenShiftsByDay   map[int][]domain.Shift                    `json:"openShiftsByDay"`
	TimeOffByDay      map[int64]map[int][]*domain.TimeOffNotice `json:"timeOffByDay"`
	AvailabilityByDay map[int64]map[int][]*domain.Availability  `json:"availabilityByDay"`
}

// WeekData 读取 [start, end] 范围内的草稿、已发布班次、请假和可用时间，并计算各种视图
func (e *Engine) WeekData(ctx context.Context, start, end calendar.Date) (*WeekData, error) {
	rng, err := e.resolver.RangeBounds(start, end)
	if err != nil {
		return nil, err
	}

	drafts, err := e.store.LoadDrafts(ctx, rng)
	if err != nil {
		return nil, err
	}
	published, err := e.store.LoadPublished(ctx, rng)
	if err != nil {
		return nil, err
	}
	timeOffs, err := e.store.LoadTimeOff(ctx, rng)
	if err != nil {
		return nil, err
	}
	allEmployees, err := e.store.LoadEmployees(ctx, domain.EmployeeFilter{AsOf: rng.End})
	if err != nil {
		return nil, err
	}

	shifts := mergeShifts(drafts, published)

	// 离职员工只有在本周仍有班次时才返回
	referenced := make(map[int64]bool)
	for _, id := range assignedEmployeeIDs(shifts) {
		referenced[id] = true
	}
	employees := make([]*domain.Employee, 0, len(allEmployees))
	employeeIDs := make([]int64, 0, len(allEmployees))
	for _, emp := range allEmployees {
		if emp.IsActive || referenced[emp.ID] {
			employees = append(employees, emp)
			employeeIDs = append(employeeIDs, emp.ID)
		}
	}

	availability, err := e.store.LoadAvailability(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}

	conflicts, err := FindConflicts(e.resolver, shifts, timeOffs, employees)
	if err != nil {
		return nil, err
	}

	openShifts := make([]domain.Shift, 0)
	for _, s := range shifts {
		if s.Details().IsOpen() {
			openShifts = append(openShifts, s)
		}
	}

	weekStart := start.Monday()
	hours := WeeklyHours(shifts)

	return &WeekData{
		StartDate:         start,
		EndDate:           end,
		WeekStart:         weekStart,
		Employees:         employees,
		Shifts:            shifts,
		OpenShifts:        openShifts,
		TimeOffs:          timeOffs,
		Availability:      availability,
		IsPublished:       len(published) > 0,
		WeeklyHours:       hours,
		LaborCost:         WeeklyLaborCost(hours, employees),
		Conflicts:         conflicts,
		ShiftsByDay:       IndexShiftsByDay(e.resolver, shifts, weekStart),
		OpenShiftsByDay:   IndexOpenShiftsByDay(e.resolver, shifts, weekStart),
		TimeOffByDay:      IndexTimeOffByDay(e.resolver, timeOffs, weekStart),
		AvailabilityByDay: IndexAvailabilityByDay(availability),
	}, nil
}
