package testutil

import (
	"sync"
	"time"
)

// ReferenceTime is the default instant of a test clock: Wednesday 2024-05-15 10:00 local
func ReferenceTime() time.Time {
	return time.Date(2024, time.May, 15, 10, 0, 0, 0, time.Local)
}

// Clock is a controllable time source
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

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward and returns the new time
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}
