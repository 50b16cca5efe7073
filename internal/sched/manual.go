package sched

import (
	"sort"
	"time"

	"github.com/balkashynov/todue/internal/clock"
)

// Manual is a Scheduler driven by a fake clock. Callbacks run synchronously
// inside Advance, in due order.
type Manual struct {
	clock   *clock.Fake
	pending []*manualTask
	seq     int
}

type manualTask struct {
	at        time.Time
	seq       int
	fn        func()
	cancelled bool
}

func (t *manualTask) Cancel() bool {
	if t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}

// NewManual creates a manual scheduler on top of c
func NewManual(c *clock.Fake) *Manual {
	return &Manual{clock: c}
}

func (m *Manual) Schedule(delay time.Duration, fn func()) Token {
	m.seq++
	t := &manualTask{at: m.clock.Now().Add(delay), seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Pending returns the number of callbacks waiting to run
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every callback that falls
// due on the way, including ones scheduled by earlier callbacks.
func (m *Manual) Advance(d time.Duration) {
	target := m.clock.Now().Add(d)
	for {
		next := m.next(target)
		if next == nil {
			break
		}
		m.clock.Set(next.at)
		next.fn()
	}
	m.clock.Set(target)
}

func (m *Manual) next(until time.Time) *manualTask {
	live := m.pending[:0]
	for _, t := range m.pending {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.pending = live
	if len(m.pending) == 0 {
		return nil
	}

	sort.SliceStable(m.pending, func(i, j int) bool {
		if !m.pending[i].at.Equal(m.pending[j].at) {
			return m.pending[i].at.Before(m.pending[j].at)
		}
		return m.pending[i].seq < m.pending[j].seq
	})
	first := m.pending[0]
	if first.at.After(until) {
		return nil
	}
	m.pending = m.pending[1:]
	first.cancelled = true
	return first
}
