package domain

import "github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"

// Conflict 表示一个班次落在了该员工请假的那一天
type Conflict struct {
	ShiftID      int64         `json:"shiftID"`
	ShiftStatus  ShiftStatus   `json:"shiftStatus"`
	EmployeeID   int64         `json:"employeeID"`
	EmployeeName string        `json:"employeeName"`
	Date         calendar.Date `json:"date"`
	TimeOffID    int64         `json:"timeOffID"`
	Reason       string        `json:"reason"`
}
