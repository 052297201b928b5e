package scheduler

import (
	"context"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

// Store 是排班引擎依赖的外部存储。
//
// 查询结果按开始时刻升序排列；按 ID 查询不到时返回 sql.ErrNoRows；
// 基础设施错误包装为 domain.ErrStoreUnavailable，本层不做重试。
type Store interface {
	LoadDrafts(ctx context.Context, rng calendar.Range) ([]*domain.DraftShift, error)
	LoadPublished(ctx context.Context, rng calendar.Range) ([]*domain.PublishedShift, error)
	LoadTimeOff(ctx context.Context, rng calendar.Range) ([]*domain.TimeOffNotice, error)
	LoadEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error)
	LoadAvailability(ctx context.Context, employeeIDs []int64) ([]*domain.Availability, error)

	GetDraft(ctx context.Context, id int64) (*domain.DraftShift, error)
	CreateDraft(ctx context.Context, shift *domain.DraftShift) error
	UpdateDraft(ctx context.Context, shift *domain.DraftShift) error
	DeleteDraft(ctx context.Context, id int64) (bool, error)
	DeleteDraftsInRange(ctx context.Context, rng calendar.Range) (int64, error)

	GetPublished(ctx context.Context, id int64) (*domain.PublishedShift, error)
	DeletePublished(ctx context.Context, id int64) (bool, error)
	// InsertPublished 返回实际写入的行，因唯一约束被跳过的行不在其中
	InsertPublished(ctx context.Context, shifts []*domain.PublishedShift) ([]*domain.PublishedShift, error)

	CreateTimeOff(ctx context.Context, notice *domain.TimeOffNotice) error
	GetTimeOff(ctx context.Context, id int64) (*domain.TimeOffNotice, error)
	UpdateTimeOff(ctx context.Context, notice *domain.TimeOffNotice) error
}
