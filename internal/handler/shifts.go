package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID *int64    `json:"employeeID" validate:"omitempty,gt=0"`
		StartTime  time.Time `json:"startTime" validate:"required"`
		EndTime    time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
		Location   string    `json:"location" validate:"required,max=100"`
		Role       *string   `json:"role" validate:"omitempty,max=50"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.engine.CreateShift(r.Context(), domain.ShiftDetails{
		EmployeeID: req.EmployeeID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Location:   req.Location,
		Role:       req.Role,
	})
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	h.invalidateWeekCache(r.Context())
	h.successResponse(w, r, "创建班次成功", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id := r.Context().Value(ShiftIDCtx).(int64)

	var req struct {
		EmployeeID    *int64     `json:"employeeID" validate:"omitempty,gt=0"`
		ClearEmployee bool       `json:"clearEmployee"`
		StartTime     *time.Time `json:"startTime"`
		EndTime       *time.Time `json:"endTime"`
		Location      *string    `json:"location" validate:"omitempty,min=1,max=100"`
		Role          *string    `json:"role" validate:"omitempty,max=50"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.ClearEmployee && req.EmployeeID != nil {
		h.errorResponse(w, r, "不能同时指定员工和清空员工")
		return
	}

	result, err := h.engine.UpdateShift(r.Context(), id, domain.ShiftPatch{
		EmployeeID:    req.EmployeeID,
		ClearEmployee: req.ClearEmployee,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Location:      req.Location,
		Role:          req.Role,
	})
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	h.invalidateWeekCache(r.Context())

	msg := "更新班次成功"
	if result.Forked {
		msg = "已发布的班次不能直接修改，已根据修改内容创建新的草稿"
	}
	h.successResponse(w, r, msg, result)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := r.Context().Value(ShiftIDCtx).(int64)

	status, err := h.engine.DeleteShift(r.Context(), id)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	h.invalidateWeekCache(r.Context())

	msg := "删除草稿班次成功"
	if status == domain.ShiftStatusPublished {
		msg = "删除已发布班次成功"
	}
	h.successResponse(w, r, msg, map[string]domain.ShiftStatus{"status": status})
}
