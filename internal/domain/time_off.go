package domain

import "time"

type TimeOffStatus string

const (
	TimeOffStatusPending  TimeOffStatus = "pending"
	TimeOffStatusApproved TimeOffStatus = "approved"
	TimeOffStatusDenied   TimeOffStatus = "denied"
)

type TimeOffNotice struct {
	ID         int64         `json:"id"`
	EmployeeID int64         `json:"employeeID"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Status     TimeOffStatus `json:"status"`
	Reason     string        `json:"reason"`
	CreatedAt  time.Time     `json:"createdAt"`
	Version    int32         `json:"-"`
}

// Blocks 报告这条请假是否会占用当天，被拒绝的请假不占用
func (n *TimeOffNotice) Blocks() bool {
	return n.Status != TimeOffStatusDenied
}
