// Package tracker measures the time spent working on tasks. A Tracker holds at
// most one running session; starting another task closes the current one
// first.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/balkashynov/todue/internal/clock"
	"github.com/balkashynov/todue/internal/db"
	"github.com/balkashynov/todue/internal/models"
	"github.com/balkashynov/todue/internal/sched"
)

// DefaultTickInterval is how often a running session is persisted
const DefaultTickInterval = time.Second

// Store is the persistence the tracker needs
type Store interface {
	GetTask(id uint) (*models.Task, error)
	SetElapsed(id uint, seconds int) error
	LogWork(entry *models.WorkLog) error
}

// EventKind identifies what happened to a session
type EventKind int

const (
	Started EventKind = iota
	Stopped
	CompletionReached
)

func (k EventKind) String() string {
	switch k {
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	case CompletionReached:
		return "completion_reached"
	}
	return "unknown"
}

// Event is emitted on every session transition
type Event struct {
	Kind    EventKind
	TaskID  uint
	Elapsed int // total seconds worked on the task
}

// Session is the running timing session
type Session struct {
	TaskID    uint
	StartedAt time.Time
	Base      int  // elapsed seconds recorded before this session
	Duration  *int // expected effort, refreshed on every tick
}

// Result describes a closed session
type Result struct {
	TaskID  uint
	Elapsed int // total seconds after the session
	Worked  int // seconds added by the session
}

// Progress is what the views show for a task's tracked time
type Progress struct {
	TaskID     uint
	Running    bool
	Elapsed    int
	Percentage *int // nil when the duration is unknown
}

// Options configures a Tracker
type Options struct {
	Clock        clock.Clock
	Scheduler    sched.Scheduler
	TickInterval time.Duration
	Logger       *slog.Logger
}

// Tracker is the time tracking state machine (Idle or Running)
type Tracker struct {
	store     Store
	clock     clock.Clock
	scheduler sched.Scheduler
	interval  time.Duration
	logger    *slog.Logger

	session   *Session
	tick      sched.Token
	listeners []func(Event)
}

// New creates an idle tracker
func New(store Store, opts Options) *Tracker {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Tracker{
		store:     store,
		clock:     opts.Clock,
		scheduler: opts.Scheduler,
		interval:  opts.TickInterval,
		logger:    opts.Logger,
	}
}

// OnEvent registers a listener for session transitions
func (t *Tracker) OnEvent(fn func(Event)) {
	t.listeners = append(t.listeners, fn)
}

// Active returns the id of the task being timed
func (t *Tracker) Active() (uint, bool) {
	if t.session == nil {
		return 0, false
	}
	return t.session.TaskID, true
}

// Running reports whether a session is open
func (t *Tracker) Running() bool {
	return t.session != nil
}

// Start opens a session for the task. Starting the task that is already
// running stops it instead; starting another task closes the running session
// first. Unknown tasks are ignored.
func (t *Tracker) Start(id uint) error {
	if t.session != nil && t.session.TaskID == id {
		_, err := t.Stop()
		return err
	}

	task, err := t.store.GetTask(id)
	if errors.Is(err, db.ErrTaskNotFound) {
		t.logger.Debug("ignoring start for missing task", "task_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load task #%d: %w", id, err)
	}

	if t.session != nil {
		if _, err := t.Stop(); err != nil {
			return err
		}
	}

	t.session = &Session{
		TaskID:    id,
		StartedAt: t.clock.Now(),
		Base:      task.ElapsedTime,
		Duration:  task.Duration,
	}
	t.scheduleTick()
	t.logger.Info("timer started", "task_id", id, "base", task.ElapsedTime)
	t.emit(Event{Kind: Started, TaskID: id, Elapsed: task.ElapsedTime})
	return nil
}

// Stop closes the running session and persists the elapsed time. Stopping an
// idle tracker is a no-op returning a nil result. When the time cannot be
// saved the session stays open.
func (t *Tracker) Stop() (*Result, error) {
	s := t.session
	if s == nil {
		return nil, nil
	}
	now := t.clock.Now()
	worked := wholeSeconds(now.Sub(s.StartedAt))
	total := s.Base + worked

	if err := t.store.SetElapsed(s.TaskID, total); err != nil {
		if errors.Is(err, db.ErrTaskNotFound) {
			t.logger.Debug("timed task was deleted", "task_id", s.TaskID)
			t.cancelTick()
			t.session = nil
			return nil, nil
		}
		// the session keeps running so a later Stop can save it
		return nil, fmt.Errorf("failed to save elapsed time for task #%d: %w", s.TaskID, err)
	}
	t.cancelTick()
	t.session = nil
	t.logWork(s, now, worked)

	t.logger.Info("timer stopped", "task_id", s.TaskID, "elapsed", total)
	t.emit(Event{Kind: Stopped, TaskID: s.TaskID, Elapsed: total})
	return &Result{TaskID: s.TaskID, Elapsed: total, Worked: worked}, nil
}

// Tick persists the running total and closes the session once the expected
// duration is reached.
func (t *Tracker) Tick() error {
	s := t.session
	if s == nil {
		return nil
	}
	t.cancelTick()

	task, err := t.store.GetTask(s.TaskID)
	if errors.Is(err, db.ErrTaskNotFound) {
		t.logger.Debug("timed task was deleted", "task_id", s.TaskID)
		t.session = nil
		return nil
	}
	if err != nil {
		t.scheduleTick()
		return fmt.Errorf("failed to load task #%d: %w", s.TaskID, err)
	}
	s.Duration = task.Duration

	now := t.clock.Now()
	worked := wholeSeconds(now.Sub(s.StartedAt))
	total := s.Base + worked
	if err := t.store.SetElapsed(s.TaskID, total); err != nil {
		t.scheduleTick()
		return fmt.Errorf("failed to save elapsed time for task #%d: %w", s.TaskID, err)
	}

	if s.Duration != nil && total >= *s.Duration {
		t.session = nil
		t.logWork(s, now, worked)
		t.logger.Info("duration reached", "task_id", s.TaskID, "elapsed", total, "duration", *s.Duration)
		t.emit(Event{Kind: CompletionReached, TaskID: s.TaskID, Elapsed: total})
		return nil
	}

	t.scheduleTick()
	return nil
}

// Progress returns the live progress of the running session
func (t *Tracker) Progress() (Progress, bool) {
	s := t.session
	if s == nil {
		return Progress{}, false
	}
	elapsed := s.Base + wholeSeconds(t.clock.Now().Sub(s.StartedAt))
	return Progress{
		TaskID:     s.TaskID,
		Running:    true,
		Elapsed:    elapsed,
		Percentage: Percentage(elapsed, s.Duration),
	}, true
}

// ProgressOf returns the progress of a task, live when it is being timed
func (t *Tracker) ProgressOf(task models.Task) Progress {
	if p, ok := t.Progress(); ok && p.TaskID == task.ID {
		return p
	}
	return Progress{
		TaskID:     task.ID,
		Elapsed:    task.ElapsedTime,
		Percentage: Percentage(task.ElapsedTime, task.Duration),
	}
}

// Percentage returns floor(100*elapsed/duration) capped at 100, or nil when
// the duration is unknown
func Percentage(elapsed int, duration *int) *int {
	if duration == nil {
		return nil
	}
	p := 100
	if *duration > 0 && elapsed < *duration {
		p = 100 * elapsed / *duration
	}
	if p < 0 {
		p = 0
	}
	return &p
}

func (t *Tracker) scheduleTick() {
	if t.scheduler == nil {
		return
	}
	t.tick = t.scheduler.Schedule(t.interval, func() {
		t.tick = nil
		if err := t.Tick(); err != nil {
			t.logger.Error("timer tick failed", "error", err)
		}
	})
}

func (t *Tracker) cancelTick() {
	if t.tick != nil {
		t.tick.Cancel()
		t.tick = nil
	}
}

func (t *Tracker) logWork(s *Session, finished time.Time, worked int) {
	entry := &models.WorkLog{
		TaskID:     s.TaskID,
		StartedAt:  s.StartedAt,
		FinishedAt: finished,
		Seconds:    worked,
	}
	if err := t.store.LogWork(entry); err != nil {
		t.logger.Warn("failed to record work log", "task_id", s.TaskID, "error", err)
	}
}

func (t *Tracker) emit(e Event) {
	for _, fn := range t.listeners {
		fn(e)
	}
}

func wholeSeconds(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
