package domain

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
)

var (
	ErrInvalidDate       = calendar.ErrInvalidDate
	ErrInvalidShift      = errors.New("班次信息无效")
	ErrConflict          = errors.New("排班与请假冲突")
	ErrShiftNotFound     = errors.New("班次不存在")
	ErrStoreUnavailable  = errors.New("存储暂时不可用")
	ErrTimeOffNotFound   = errors.New("请假记录不存在")
	ErrInvalidTransition = errors.New("请假状态无法变更")
	ErrInvalidTimeOff    = errors.New("请假信息无效")
	ErrShiftModified     = errors.New("班次已被其他人修改，请刷新后重试")
)

// DefaultConflictReason 在请假没有填写原因时使用
const DefaultConflictReason = "未填写原因"

// ConflictError 表示员工在班次当天已经请假
type ConflictError struct {
	EmployeeID   int64         `json:"employeeID"`
	EmployeeName string        `json:"employeeName"`
	Date         calendar.Date `json:"date"`
	Reason       string        `json:"reason"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s 在 %s 已请假（%s）", e.EmployeeName, e.Date, e.Reason)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
