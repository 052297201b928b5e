package scheduler

import (
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

const minutesPerDay = 24 * 60

// minutesOf 把 "15:04" 转换为当天零点起的分钟数，"24:00" 表示一天的结束
func minutesOf(clock string) (int, bool) {
	if clock == "24:00" {
		return minutesPerDay, true
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// availableFor 判断员工能否在某天 [start, end) 分钟区间内上班。
// 当天没有任何登记视为可以上班；与不可上班的时段重叠则不行；
// 当天登记了可上班的时段时，区间必须完全落在其中一个时段内。
func availableFor(records []*domain.Availability, start, end int) bool {
	hasWindow := false
	inWindow := false

	for _, r := range records {
		from, ok1 := minutesOf(r.StartTime)
		to, ok2 := minutesOf(r.EndTime)
		if !ok1 || !ok2 || from >= to {
			continue
		}

		if !r.IsAvailable {
			if start < to && from < end {
				return false
			}
			continue
		}

		hasWindow = true
		if from <= start && end <= to {
			inWindow = true
		}
	}

	return !hasWindow || inWindow
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
