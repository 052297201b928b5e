package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/scheduler"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "服务正常", nil)
}

// dateRangeQuery 读取查询参数中的 startDate 和 endDate
func (h *Handler) dateRangeQuery(r *http.Request) (calendar.Date, calendar.Date, error) {
	start, err := calendar.ParseDate(r.URL.Query().Get("startDate"))
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	end, err := calendar.ParseDate(r.URL.Query().Get("endDate"))
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	return start, end, nil
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.dateRangeQuery(r)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	cached, key := h.cachedWeek(r.Context(), start, end)
	if cached != nil {
		h.successResponse(w, r, "获取排班成功", json.RawMessage(cached))
		return
	}

	data, err := h.engine.WeekData(r.Context(), start, end)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	h.cacheWeek(r.Context(), key, body)

	h.successResponse(w, r, "获取排班成功", json.RawMessage(body))
}

func (h *Handler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStart  calendar.Date `json:"weekStart" validate:"required"`
		WeekEnd    calendar.Date `json:"weekEnd" validate:"required"`
		StrictMode *bool         `json:"strictMode"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	strict := h.config.Schedule.DefaultStrictMode
	if req.StrictMode != nil {
		strict = *req.StrictMode
	}

	result, err := h.engine.Publish(r.Context(), req.WeekStart, req.WeekEnd, strict)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	if result.Blocked {
		h.writeJSON(w, r, http.StatusOK, Response{
			Success: false,
			Message: fmt.Sprintf("存在 %d 个排班冲突，未发布任何班次", len(result.Conflicts)),
			Data:    result,
		})
		return
	}

	if result.PublishedCount > 0 {
		h.invalidateWeekCache(r.Context())

		employeeIDs := make([]int64, 0)
		seen := make(map[int64]bool)
		for _, p := range result.Published {
			if !p.IsOpen() && !seen[*p.EmployeeID] {
				seen[*p.EmployeeID] = true
				employeeIDs = append(employeeIDs, *p.EmployeeID)
			}
		}
		h.publishEvent(r.Context(), domain.EventSchedulePublished, domain.SchedulePublishedEventData{
			WeekStart:      req.WeekStart,
			WeekEnd:        req.WeekEnd,
			PublicationID:  result.PublicationID,
			PublishedCount: result.PublishedCount,
			EmployeeIDs:    employeeIDs,
		})
	}

	h.successResponse(w, r, fmt.Sprintf("发布成功，共发布 %d 个班次", result.PublishedCount), result)
}

func (h *Handler) ClearDrafts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate calendar.Date `json:"startDate" validate:"required"`
		EndDate   calendar.Date `json:"endDate" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	cleared, err := h.engine.ClearDrafts(r.Context(), req.StartDate, req.EndDate)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	if cleared > 0 {
		h.invalidateWeekCache(r.Context())
		h.publishEvent(r.Context(), domain.EventDraftsCleared, domain.DraftsClearedEventData{
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
			ClearedCount: cleared,
		})
	}

	h.successResponse(w, r, "清除草稿成功", map[string]int64{"clearedCount": cleared})
}

func (h *Handler) SuggestOpenShifts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate  calendar.Date         `json:"startDate" validate:"required"`
		EndDate    calendar.Date         `json:"endDate" validate:"required"`
		Parameters *scheduler.Parameters `json:"parameters"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	params := scheduler.DefaultParameters()
	if req.Parameters != nil {
		params = *req.Parameters
		if err := h.validate.Struct(params); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	result, err := h.suggester.Suggest(r.Context(), req.StartDate, req.EndDate, params)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	h.successResponse(w, r, "生成空缺班次建议成功", result)
}
