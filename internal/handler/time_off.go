package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

func (h *Handler) GetTimeOff(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.dateRangeQuery(r)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	notices, err := h.engine.ListTimeOff(r.Context(), start, end)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	// 普通员工只能看到自己的请假
	if !h.isOwner(r) {
		self, err := h.currentEmployeeID(r)
		if err != nil {
			h.errorResponse(w, r, "无效的令牌")
			return
		}
		own := make([]*domain.TimeOffNotice, 0, len(notices))
		for _, n := range notices {
			if n.EmployeeID == self {
				own = append(own, n)
			}
		}
		notices = own
	}

	h.successResponse(w, r, "获取请假列表成功", notices)
}

func (h *Handler) RequestTimeOff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID *int64    `json:"employeeID" validate:"omitempty,gt=0"`
		StartTime  time.Time `json:"startTime" validate:"required"`
		EndTime    time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
		Reason     string    `json:"reason" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	self, err := h.currentEmployeeID(r)
	if err != nil {
		h.errorResponse(w, r, "无效的令牌")
		return
	}

	employeeID := self
	if req.EmployeeID != nil && *req.EmployeeID != self {
		if !h.isOwner(r) {
			h.errorResponse(w, r, "权限不足")
			return
		}
		employeeID = *req.EmployeeID
	}

	notice, err := h.engine.RequestTimeOff(r.Context(), employeeID, req.StartTime, req.EndTime, req.Reason)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	h.invalidateWeekCache(r.Context())
	h.successResponse(w, r, "提交请假成功", notice)
}

func (h *Handler) ReviewTimeOff(w http.ResponseWriter, r *http.Request) {
	id := r.Context().Value(TimeOffIDCtx).(int64)

	var req struct {
		Status domain.TimeOffStatus `json:"status" validate:"required,oneof=approved denied"`
		Reason *string              `json:"reason" validate:"omitempty,max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	notice, err := h.engine.ReviewTimeOff(r.Context(), id, req.Status, req.Reason)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	h.invalidateWeekCache(r.Context())
	h.publishEvent(r.Context(), domain.EventTimeOffReviewed, domain.TimeOffReviewedEventData{
		TimeOffID:  notice.ID,
		EmployeeID: notice.EmployeeID,
		Status:     notice.Status,
	})

	h.successResponse(w, r, "审批请假成功", notice)
}
