// Package reminder scans tasks for deadlines that are due today or missed.
package reminder

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/balkashynov/todue/internal/clock"
	"github.com/balkashynov/todue/internal/models"
	"github.com/balkashynov/todue/internal/sched"
	"github.com/balkashynov/todue/internal/urgency"
)

// DefaultInterval is how often a Watcher rescans
const DefaultInterval = time.Hour

// Kind tells due-today reminders from missed deadlines
type Kind int

const (
	DueToday Kind = iota
	Missed
)

// Reminder is one line of a scan result
type Reminder struct {
	Kind   Kind
	TaskID uint
	Title  string
}

func (r Reminder) String() string {
	if r.Kind == DueToday {
		return fmt.Sprintf("Task '%s' is due today!", r.Title)
	}
	return fmt.Sprintf("Missed deadline for task '%s'!", r.Title)
}

// Scan returns reminders for incomplete tasks due today or earlier, in input
// order. Unparsable deadlines are skipped.
func Scan(tasks []models.Task, today time.Time) []Reminder {
	var out []Reminder
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		date, err := urgency.ParseDeadline(task.Deadline)
		if err != nil {
			continue
		}
		switch days := urgency.DaysBetween(today, date); {
		case days == 0:
			out = append(out, Reminder{Kind: DueToday, TaskID: task.ID, Title: task.Title})
		case days < 0:
			out = append(out, Reminder{Kind: Missed, TaskID: task.ID, Title: task.Title})
		}
	}
	return out
}

// Message joins reminders one per line
func Message(reminders []Reminder) string {
	lines := make([]string, len(reminders))
	for i, r := range reminders {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

// Source lists the tasks to scan
type Source interface {
	IncompleteTasks() ([]models.Task, error)
}

// Watcher repeats the scan on a scheduler and reports non-empty results
type Watcher struct {
	source    Source
	clock     clock.Clock
	scheduler sched.Scheduler
	interval  time.Duration
	notify    func([]Reminder)
	logger    *slog.Logger
	token     sched.Token
}

// NewWatcher creates a watcher; call Start to run the first scan
func NewWatcher(source Source, s sched.Scheduler, c clock.Clock, interval time.Duration, notify func([]Reminder), logger *slog.Logger) *Watcher {
	if c == nil {
		c = clock.System{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{source: source, clock: c, scheduler: s, interval: interval, notify: notify, logger: logger}
}

// Start scans right away and then every interval
func (w *Watcher) Start() {
	w.scan()
}

// Stop cancels the next scan
func (w *Watcher) Stop() {
	if w.token != nil {
		w.token.Cancel()
		w.token = nil
	}
}

func (w *Watcher) scan() {
	tasks, err := w.source.IncompleteTasks()
	if err != nil {
		w.logger.Error("reminder scan failed", "error", err)
	} else if found := Scan(tasks, urgency.Today(w.clock.Now())); len(found) > 0 {
		w.logger.Debug("reminders found", "count", len(found))
		w.notify(found)
	}
	w.token = w.scheduler.Schedule(w.interval, w.scan)
}
