// Package clock abstracts the time source used for measuring work sessions.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current instant. Durations between two readings of the
// system clock use Go's monotonic clock, so wall clock adjustments during a
// session do not affect them.
type Clock interface {
	Now() time.Time
}

// System is the real clock
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fake is a manually advanced clock for tests
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake creates a fake clock starting at start
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Set moves the clock to t
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}
