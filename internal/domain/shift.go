package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
)

type ShiftStatus string

const (
	ShiftStatusDraft     ShiftStatus = "draft"
	ShiftStatusPublished ShiftStatus = "published"
)

// ShiftDetails 是草稿班次和已发布班次共有的内容
type ShiftDetails struct {
	EmployeeID *int64    `json:"employeeID"` // 为 nil 时表示空缺班次（未分配员工）
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Location   string    `json:"location"`
	Role       *string   `json:"role"`
}

func (d ShiftDetails) IsOpen() bool {
	return d.EmployeeID == nil
}

func (d ShiftDetails) Hours() float64 {
	return d.EndTime.Sub(d.StartTime).Hours()
}

// Shift 只有两种实现：*DraftShift 和 *PublishedShift
type Shift interface {
	ShiftID() int64
	ShiftStatus() ShiftStatus
	Details() ShiftDetails
	isShift()
}

type DraftShift struct {
	ID int64 `json:"id"`
	ShiftDetails
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

func (s *DraftShift) ShiftID() int64           { return s.ID }
func (s *DraftShift) ShiftStatus() ShiftStatus { return ShiftStatusDraft }
func (s *DraftShift) Details() ShiftDetails    { return s.ShiftDetails }
func (s *DraftShift) isShift()                 {}

func (s *DraftShift) MarshalJSON() ([]byte, error) {
	type draft DraftShift
	return json.Marshal(struct {
		*draft
		Status ShiftStatus `json:"status"`
	}{(*draft)(s), ShiftStatusDraft})
}

// PublishedShift 是员工可见的班次，只能由发布流程创建，创建后不允许修改
type PublishedShift struct {
	ID int64 `json:"id"`
	ShiftDetails
	WeekStart     calendar.Date `json:"weekStart"`
	WeekEnd       calendar.Date `json:"weekEnd"`
	PublishedAt   time.Time     `json:"publishedAt"`
	PublicationID uuid.UUID     `json:"publicationID"`
	SourceDraftID *int64        `json:"sourceDraftID"`
}

func (s *PublishedShift) ShiftID() int64           { return s.ID }
func (s *PublishedShift) ShiftStatus() ShiftStatus { return ShiftStatusPublished }
func (s *PublishedShift) Details() ShiftDetails    { return s.ShiftDetails }
func (s *PublishedShift) isShift()                 {}

func (s *PublishedShift) MarshalJSON() ([]byte, error) {
	type published PublishedShift
	return json.Marshal(struct {
		*published
		Status ShiftStatus `json:"status"`
	}{(*published)(s), ShiftStatusPublished})
}

// ShiftPatch 描述对班次的部分修改，nil 字段表示不修改
type ShiftPatch struct {
	EmployeeID    *int64
	ClearEmployee bool // 为 true 时把班次改为空缺班次
	StartTime     *time.Time
	EndTime       *time.Time
	Location      *string
	Role          *string
}

func (p ShiftPatch) Apply(d ShiftDetails) ShiftDetails {
	if p.ClearEmployee {
		d.EmployeeID = nil
	} else if p.EmployeeID != nil {
		id := *p.EmployeeID
		d.EmployeeID = &id
	}
	if p.StartTime != nil {
		d.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		d.EndTime = *p.EndTime
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.Role != nil {
		role := *p.Role
		d.Role = &role
	}
	return d
}
