package tui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/todue/internal/sched"
)

// Scheduler delivers scheduled callbacks as messages, so they run inside a
// model's Update like any key press.
type Scheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// callbackMsg carries a due callback to Update
type callbackMsg struct {
	tok *callbackToken
}

type callbackToken struct {
	timer     *time.Timer
	fn        func()
	cancelled atomic.Bool
	fired     atomic.Bool
}

func (t *callbackToken) Cancel() bool {
	if t.cancelled.Swap(true) {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	return !t.fired.Load()
}

// NewScheduler creates a scheduler. Attach it to the program before Run.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Attach routes callbacks to p
func (s *Scheduler) Attach(p *tea.Program) {
	s.mu.Lock()
	s.send = p.Send
	s.mu.Unlock()
}

func (s *Scheduler) Schedule(delay time.Duration, fn func()) sched.Token {
	tok := &callbackToken{fn: fn}
	tok.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()
		if send != nil && !tok.cancelled.Load() {
			send(callbackMsg{tok: tok})
		}
	})
	return tok
}

// run executes the callback unless it was cancelled after being queued
func (m callbackMsg) run() {
	if m.tok.cancelled.Load() || m.tok.fired.Swap(true) {
		return
	}
	m.tok.fn()
}
