package domain

import (
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
)

const (
	EventSchedulePublished = "schedule_published"
	EventDraftsCleared     = "drafts_cleared"
	EventTimeOffReviewed   = "time_off_reviewed"
)

// EventMessage 是投递到消息队列中的事件，具体的通知由外部服务负责发送
type EventMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type SchedulePublishedEventData struct {
	WeekStart      calendar.Date `json:"weekStart"`
	WeekEnd        calendar.Date `json:"weekEnd"`
	PublicationID  uuid.UUID     `json:"publicationID"`
	PublishedCount int           `json:"publishedCount"`
	EmployeeIDs    []int64       `json:"employeeIDs"`
}

type DraftsClearedEventData struct {
	StartDate    calendar.Date `json:"startDate"`
	EndDate      calendar.Date `json:"endDate"`
	ClearedCount int64         `json:"clearedCount"`
}

type TimeOffReviewedEventData struct {
	TimeOffID  int64         `json:"timeOffID"`
	EmployeeID int64         `json:"employeeID"`
	Status     TimeOffStatus `json:"status"`
}
