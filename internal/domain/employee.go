package domain

import "time"

type Role string

const (
	RoleStaff Role = "staff"
	RoleOwner Role = "owner"
)

// Employee 由外部的员工目录维护，这里只读
type Employee struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	FullName   string  `json:"fullName"`
	Role       Role    `json:"role"`
	IsActive   bool    `json:"isActive"`
	HourlyRate float64 `json:"hourlyRate"` // 最新生效的时薪，没有记录时为 0
}

type EmployeeFilter struct {
	ActiveOnly bool
	IDs        []int64   // 为空时不按 ID 过滤
	AsOf       time.Time // 时薪按该时刻生效的最新记录取值，零值表示当前时刻
}

// Availability 是员工每周固定的可上班/不可上班时段
type Availability struct {
	ID          int64  `json:"id"`
	EmployeeID  int64  `json:"employeeID"`
	DayOfWeek   int    `json:"dayOfWeek"` // 0 表示周一，6 表示周日
	StartTime   string `json:"startTime"` // 15:04
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}
