package calendar

import (
	"fmt"
	"time"

	// 运行环境中可能没有系统时区数据库
	_ "time/tzdata"
)

// DefaultTimeZone 是系统使用的唯一参考时区
const DefaultTimeZone = "America/New_York"

// 一天中最后一个可表示的时刻：23:59:59.999
const endOfDayClock = 24*time.Hour - time.Millisecond

// Range 是一个闭区间 [Start, End] 的 UTC 时刻范围
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r Range) Overlaps(start, end time.Time) bool {
	return !start.After(r.End) && !end.Before(r.Start)
}

// Resolver 把参考时区中的民用日期转换成 UTC 时刻范围
type Resolver struct {
	loc *time.Location
}

func NewResolver(loc *time.Location) *Resolver {
	return &Resolver{loc: loc}
}

func LoadResolver(name string) (*Resolver, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("无法加载时区 %s: %w", name, err)
	}
	return NewResolver(loc), nil
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

// UTCOffset 返回日期 d 的本地时刻 clock（自午夜起算）所处的 UTC 偏移量，
// 例如 EST 为 -5h，EDT 为 -4h。
//
// 夏令时的判定只在这里进行：偏移量取决于被换算的那个本地时刻本身，
// 而不是当天的某个固定参考时刻（例如正午）。因此在切换当天，
// 午夜和 23:59:59.999 会分别得到切换前和切换后的偏移量。
func (r *Resolver) UTCOffset(d Date, clock time.Duration) time.Duration {
	wall := d.midnightUTC().Add(clock)
	local := time.Date(d.Year, d.Month, d.Day, wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), r.loc)
	_, offset := local.Zone()
	return time.Duration(offset) * time.Second
}

// at 把本地墙上时刻换算成 UTC：先按 UTC 拼出墙上时刻，再减去偏移量，
// 跨日、跨月、跨年的进位由 time.Time 自动处理
func (r *Resolver) at(d Date, clock time.Duration) time.Time {
	return d.midnightUTC().Add(clock).Add(-r.UTCOffset(d, clock))
}

// At 返回本地日期 d 的墙上时刻 hour:minute 对应的 UTC 时刻，24:00 即次日 00:00
func (r *Resolver) At(d Date, hour, minute int) time.Time {
	clock := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute
	for clock >= 24*time.Hour {
		d = d.AddDays(1)
		clock -= 24 * time.Hour
	}
	return r.at(d, clock)
}

// DayBounds 返回本地日期 d 的起止 UTC 时刻：本地 00:00:00.000 和 23:59:59.999
func (r *Resolver) DayBounds(d Date) Range {
	return Range{
		Start: r.at(d, 0),
		End:   r.at(d, endOfDayClock),
	}
}

// RangeBounds 返回从 start 当天开始到 end 当天结束的 UTC 时刻范围
func (r *Resolver) RangeBounds(start, end Date) (Range, error) {
	if start.IsZero() || end.IsZero() {
		return Range{}, fmt.Errorf("%w: 日期不能为空", ErrInvalidDate)
	}
	if end.Before(start) {
		return Range{}, fmt.Errorf("%w: 结束日期 %s 早于开始日期 %s", ErrInvalidDate, end, start)
	}
	return Range{
		Start: r.DayBounds(start).Start,
		End:   r.DayBounds(end).End,
	}, nil
}

// LocalDate 返回时刻 t 在参考时区中的民用日期
func (r *Resolver) LocalDate(t time.Time) Date {
	return dateOf(t.In(r.loc))
}

// WeekOf 返回包含 t 的那一周的周一（按参考时区）
func (r *Resolver) WeekOf(t time.Time) Date {
	return r.LocalDate(t).Monday()
}
