package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

func (e *Engine) ListTimeOff(ctx context.Context, start, end calendar.Date) ([]*domain.TimeOffNotice, error) {
	rng, err := e.resolver.RangeBounds(start, end)
	if err != nil {
		return nil, err
	}
	return e.store.LoadTimeOff(ctx, rng)
}

// RequestTimeOff 由员工发起请假，新建的请假处于待审批状态
func (e *Engine) RequestTimeOff(ctx context.Context, employeeID int64, start, end time.Time, reason string) (*domain.TimeOffNotice, error) {
	if employeeID <= 0 {
		return nil, fmt.Errorf("%w: 员工 ID 无效", domain.ErrInvalidTimeOff)
	}
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return nil, fmt.Errorf("%w: 结束时间必须晚于开始时间", domain.ErrInvalidTimeOff)
	}

	notice := &domain.TimeOffNotice{
		EmployeeID: employeeID,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		Status:     domain.TimeOffStatusPending,
		Reason:     strings.TrimSpace(reason),
	}
	if err := e.store.CreateTimeOff(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// ReviewTimeOff 审批请假，只允许从待审批变为批准或拒绝；reason 为 nil 时保留原来的原因
func (e *Engine) ReviewTimeOff(ctx context.Context, id int64, status domain.TimeOffStatus, reason *string) (*domain.TimeOffNotice, error) {
	if status != domain.TimeOffStatusApproved && status != domain.TimeOffStatusDenied {
		return nil, fmt.Errorf("%w: 不支持的状态 %q", domain.ErrInvalidTransition, status)
	}

	notice, err := e.store.GetTimeOff(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", domain.ErrTimeOffNotFound, id)
		}
		return nil, err
	}

	if notice.Status != domain.TimeOffStatusPending {
		return nil, fmt.Errorf("%w: 当前状态为 %s", domain.ErrInvalidTransition, notice.Status)
	}

	notice.Status = status
	if reason != nil {
		notice.Reason = strings.TrimSpace(*reason)
	}

	if err := e.store.UpdateTimeOff(ctx, notice); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: 请假记录已被修改", domain.ErrInvalidTransition)
		}
		return nil, err
	}
	return notice, nil
}
