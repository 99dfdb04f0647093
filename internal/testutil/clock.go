package testutil

import (
	"sync"
	"time"
)

// FixedClock is a settable wall clock for tests.
//
// Components take a `now func() time.Time`; pass clock.Now so that
// past-time checks and DTSTAMP values are reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock stopped at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// Now returns the current fixed time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d and returns the new time.
func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Epoch is the default "now" used across tests: Monday 2030-03-04 08:00.
// Meetings later on that day are in the future.
var Epoch = time.Date(2030, time.March, 4, 8, 0, 0, 0, time.UTC)

// At returns a naive time on Epoch's day.
func At(hour, minute int) time.Time {
	return time.Date(Epoch.Year(), Epoch.Month(), Epoch.Day(), hour, minute, 0, 0, time.UTC)
}
