package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/utils"
)

const (
	columnUsername = "用户名"
	columnDate     = "日期"
	columnStart    = "开始"
	columnEnd      = "结束"
	columnLocation = "地点"
	columnRole     = "岗位"
)

var requiredColumns = []string{columnUsername, columnDate, columnStart, columnEnd, columnLocation}

type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportDrafts 从 CSV 导入草稿班次。用户名为空的行导入为空缺班次，
// 结束时刻早于开始时刻的行视为跨午夜的班次。
// 每一行都经过排班引擎的校验，与请假冲突或格式错误的行会被跳过并记录日志。
func ImportDrafts(ctx context.Context, engine *scheduler.Engine, employees []*domain.Employee, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	// Excel 导出的 CSV 可能带有 BOM
	for i := range headers {
		headers[i] = strings.TrimPrefix(strings.TrimSpace(headers[i]), "\ufeff")
	}
	if err := utils.ValidateCSVHeaders(headers, requiredColumns); err != nil {
		return nil, err
	}

	byUsername := make(map[string]int64, len(employees))
	for _, e := range employees {
		byUsername[e.Username] = e.ID
	}

	result := &ImportResult{}
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return result, fmt.Errorf("读取第 %d 行失败: %w", line+1, err)
		}
		line++

		record := make(map[string]string, len(row))
		for i, value := range row {
			if i < len(headers) {
				record[headers[i]] = strings.TrimSpace(value)
			}
		}

		details, err := rowToShift(engine.Resolver(), byUsername, record)
		if err != nil {
			slog.Warn("跳过无效的行", "line", line, "error", err)
			result.Skipped++
			continue
		}

		if _, err := engine.CreateShift(ctx, details); err != nil {
			var conflict *domain.ConflictError
			if !errors.As(err, &conflict) && !errors.Is(err, domain.ErrInvalidShift) {
				return result, err
			}
			slog.Warn("跳过无法导入的班次", "line", line, "error", err)
			result.Skipped++
			continue
		}
		result.Imported++
	}

	return result, nil
}

func rowToShift(resolver *calendar.Resolver, byUsername map[string]int64, record map[string]string) (domain.ShiftDetails, error) {
	day, err := calendar.ParseDate(record[columnDate])
	if err != nil {
		return domain.ShiftDetails{}, err
	}
	start, err := utils.ParseClock(record[columnStart])
	if err != nil {
		return domain.ShiftDetails{}, err
	}
	end, err := utils.ParseClock(record[columnEnd])
	if err != nil {
		return domain.ShiftDetails{}, err
	}

	if end == start {
		return domain.ShiftDetails{}, fmt.Errorf("结束时刻 %s 不能等于开始时刻", record[columnEnd])
	}
	// 结束时刻早于开始时刻表示跨午夜
	endDay := day
	if end < start {
		endDay = day.AddDays(1)
	}

	details := domain.ShiftDetails{
		StartTime: resolver.At(day, start/60, start%60),
		EndTime:   resolver.At(endDay, end/60, end%60),
		Location:  record[columnLocation],
	}
	if role := record[columnRole]; role != "" {
		details.Role = &role
	}

	if username := record[columnUsername]; username != "" {
		id, ok := byUsername[username]
		if !ok {
			return domain.ShiftDetails{}, fmt.Errorf("员工 %q 不存在", username)
		}
		details.EmployeeID = &id
	}

	return details, nil
}
