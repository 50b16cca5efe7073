// Package sched provides the cooperative, single threaded scheduling used to
// deliver timer ticks, reminder scans and user actions one at a time.
package sched

import (
	"context"
	"sync/atomic"
	"time"
)

// Token cancels a scheduled callback
type Token interface {
	// Cancel prevents the callback from running. It reports whether the
	// callback was still pending.
	Cancel() bool
}

// Scheduler runs a callback once after a delay
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Token
}

// Loop is a run loop executing every callback serially on the goroutine that
// calls Run.
type Loop struct {
	queue chan func()
}

// NewLoop creates a loop with room for a handful of queued callbacks
func NewLoop() *Loop {
	return &Loop{queue: make(chan func(), 64)}
}

type loopToken struct {
	timer     *time.Timer
	cancelled atomic.Bool
	fired     atomic.Bool
}

func (t *loopToken) Cancel() bool {
	if t.cancelled.Swap(true) {
		return false
	}
	t.timer.Stop()
	return !t.fired.Load()
}

// Schedule queues fn onto the loop after delay
func (l *Loop) Schedule(delay time.Duration, fn func()) Token {
	tok := &loopToken{}
	tok.timer = time.AfterFunc(delay, func() {
		l.Post(func() {
			if tok.cancelled.Load() {
				return
			}
			tok.fired.Store(true)
			fn()
		})
	})
	return tok
}

// Post queues fn to run on the loop as soon as possible
func (l *Loop) Post(fn func()) {
	l.queue <- fn
}

// Call runs fn on the loop and waits for its result
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	select {
	case l.queue <- func() { done <- fn() }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued callbacks until ctx is cancelled
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}
