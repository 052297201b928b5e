package utils

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

// ParseClock 解析 HH:MM 格式的时刻，返回自午夜起的分钟数，允许 24:00
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("时刻 %q 格式错误，应为 HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("时刻 %q 格式错误，应为 HH:MM", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("时刻 %q 格式错误，应为 HH:MM", s)
	}

	if hour == 24 && minute == 0 {
		return 24 * 60, nil
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("时刻 %q 超出范围", s)
	}
	return hour*60 + minute, nil
}

func ValidateAvailability(a *domain.Availability) error {
	if a.DayOfWeek < 0 || a.DayOfWeek > 6 {
		return fmt.Errorf("星期 %d 无效，应为 0（周一）到 6（周日）", a.DayOfWeek)
	}

	start, err := ParseClock(a.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(a.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("结束时刻 %s 必须晚于开始时刻 %s", a.EndTime, a.StartTime)
	}

	return nil
}

// ValidateCSVHeaders 检查表头中包含所有必需的列
func ValidateCSVHeaders(headers []string, required []string) error {
	for _, column := range required {
		if !slices.Contains(headers, column) {
			return fmt.Errorf("没有找到列 %q", column)
		}
	}
	return nil
}
