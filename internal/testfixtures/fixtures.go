package testfixtures

import (
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
)

func Int64(v int64) *int64 {
	return &v
}

func String(v string) *string {
	return &v
}

func Resolver(tb testing.TB) *calendar.Resolver {
	tb.Helper()
	r, err := calendar.LoadResolver(calendar.DefaultTimeZone)
	if err != nil {
		tb.Fatalf("failed to load resolver: %v", err)
	}
	return r
}

// Local 把参考时区的本地时间 "2006-01-02 15:04" 转换为 UTC 时刻
func Local(tb testing.TB, value string) time.Time {
	tb.Helper()
	t, err := time.ParseInLocation("2006-01-02 15:04", value, Resolver(tb).Location())
	if err != nil {
		tb.Fatalf("invalid local time %q: %v", value, err)
	}
	return t.UTC()
}

func Date(tb testing.TB, value string) calendar.Date {
	tb.Helper()
	d, err := calendar.ParseDate(value)
	if err != nil {
		tb.Fatalf("invalid date %q: %v", value, err)
	}
	return d
}
