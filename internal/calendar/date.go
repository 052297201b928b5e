package calendar

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDate = errors.New("日期无效")

const dateLayout = "2006-01-02"

// Date 表示参考时区中的一个民用日期（不带时刻）
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) (Date, error) {
	if year < 1 || year > 9999 || month < time.January || month > time.December || day < 1 {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}

	// time.Date 会把 2 月 30 日这类日期进位成 3 月，进位了就说明日期不存在
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseDate 解析 YYYY-MM-DD 格式的日期
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return dateOf(t), nil
}

func dateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// midnightUTC 只用于日期运算，与参考时区无关
func (d Date) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) AddDays(n int) Date {
	return dateOf(d.midnightUTC().AddDate(0, 0, n))
}

// DaysSince 返回 d 与 o 相差的天数，d 在 o 之后时为正
func (d Date) DaysSince(o Date) int {
	return int(d.midnightUTC().Sub(o.midnightUTC()).Hours() / 24)
}

func (d Date) Weekday() time.Weekday {
	return d.midnightUTC().Weekday()
}

// Monday 返回 d 所在周的周一，一周从周一开始到周日结束
func (d Date) Monday() Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

func (d Date) Before(o Date) bool {
	return d.midnightUTC().Before(o.midnightUTC())
}

func (d Date) After(o Date) bool {
	return d.midnightUTC().After(o.midnightUTC())
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
