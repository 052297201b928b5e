package testfixtures

import (
	"sync"
	"time"
)

// ReferenceTime 是测试默认使用的时刻：2025-11-05 12:00 EST
func ReferenceTime() time.Time {
	return time.Date(2025, time.November, 5, 17, 0, 0, 0, time.UTC)
}

// Clock 是一个可以手动拨动的时钟
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc 用于依赖注入
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}
