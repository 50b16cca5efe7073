package tracker

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todue/internal/clock"
	"github.com/balkashynov/todue/internal/db"
	"github.com/balkashynov/todue/internal/sched"
)

var start = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store   *db.Store
	clock   *clock.Fake
	sched   *sched.Manual
	tracker *Tracker
	events  []Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := clock.NewFake(start)
	store, err := db.Open(db.Options{
		Path: filepath.Join(t.TempDir(), "todue.db"),
		Now:  c.Now,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{store: store, clock: c, sched: sched.NewManual(c)}
	f.tracker = New(store, Options{Clock: c, Scheduler: f.sched, TickInterval: time.Second})
	f.tracker.OnEvent(func(e Event) { f.events = append(f.events, e) })
	return f
}

func (f *fixture) addTask(t *testing.T, title string, duration *int) uint {
	t.Helper()
	task, err := f.store.CreateTask(db.CreateTaskRequest{Title: title, Duration: duration})
	require.NoError(t, err)
	return task.ID
}

func (f *fixture) elapsed(t *testing.T, id uint) int {
	t.Helper()
	task, err := f.store.GetTask(id)
	require.NoError(t, err)
	return task.ElapsedTime
}

func (f *fixture) kinds() []EventKind {
	var kinds []EventKind
	for _, e := range f.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func intPtr(v int) *int { return &v }

func TestStopPersistsElapsed(t *testing.T) {
	f := newFixture(t)
	id := f.addTask(t, "write", nil)

	require.NoError(t, f.tracker.Start(id))
	assert.True(t, f.tracker.Running())
	f.sched.Advance(90*time.Second + 400*time.Millisecond)

	res, err := f.tracker.Stop()
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 90, res.Worked)
	assert.Equal(t, 90, res.Elapsed)
	assert.Equal(t, 90, f.elapsed(t, id))
	assert.False(t, f.tracker.Running())
	assert.Zero(t, f.sched.Pending())
}

func TestStartResumesFromStoredElapsed(t *testing.T) {
	f := newFixture(t)
	id := f.addTask(t, "resume", nil)
	require.NoError(t, f.store.SetElapsed(id, 100))

	require.NoError(t, f.tracker.Start(id))
	f.sched.Advance(5 * time.Second)

	p, ok := f.tracker.Progress()
	require.True(t, ok)
	assert.Equal(t, 105, p.Elapsed)
	assert.Nil(t, p.Percentage)

	res, err := f.tracker.Stop()
	require.NoError(t, err)
	assert.Equal(t, 105, res.Elapsed)
	assert.Equal(t, 5, res.Worked)
}

func TestStartingAnotherTaskClosesTheRunningSession(t *testing.T) {
	f := newFixture(t)
	a := f.addTask(t, "a", nil)
	b := f.addTask(t, "b", nil)
	require.NoError(t, f.store.SetElapsed(a, 10))

	require.NoError(t, f.tracker.Start(a))
	f.sched.Advance(30 * time.Second)
	require.NoError(t, f.tracker.Start(b))

	assert.Equal(t, 40, f.elapsed(t, a))
	active, ok := f.tracker.Active()
	require.True(t, ok)
	assert.Equal(t, b, active)
	assert.Equal(t, []EventKind{Started, Stopped, Started}, f.kinds())
	assert.Equal(t, 1, f.sched.Pending())
}

func TestStartSameTaskStopsIt(t *testing.T) {
	f := newFixture(t)
	id := f.addTask(t, "toggle", nil)

	require.NoError(t, f.tracker.Start(id))
	f.sched.Advance(3 * time.Second)
	require.NoError(t, f.tracker.Start(id))

	assert.False(t, f.tracker.Running())
	assert.Equal(t, 3, f.elapsed(t, id))
	assert.Equal(t, []EventKind{Started, Stopped}, f.kinds())
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	f := newFixture(t)

	res, err := f.tracker.Stop()
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Empty(t, f.events)
}

func TestStartMissingTaskIsNoop(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.tracker.Start(404))
	assert.False(t, f.tracker.Running())
	assert.Empty(t, f.events)
	assert.Zero(t, f.sched.Pending())
}

func TestTicksPersistProgress(t *testing.T) {
	f := newFixture(t)
	id := f.addTask(t, "tick", nil)

	require.NoError(t, f.tracker.Start(id))
	f.sched.Advance(3 * time.Second)
	assert.Equal(t, 3, f.elapsed(t, id))
	f.sched.Advance(2 * time.Second)
	assert.Equal(t, 5, f.elapsed(t, id))
	assert.True(t, f.tracker.Running())
}

func TestCompletionReachedFiresOnce(t *testing.T) {
	f := newFixture(t)
	id := f.addTask(t, "short", intPtr(10))

	require.NoError(t, f.tracker.Start(id))
	for i := 0; i < 10; i++ {
		f.sched.Advance(time.Second)
	}

	assert.False(t, f.tracker.Running())
	assert.Equal(t, 10, f.elapsed(t, id))
	assert.Equal(t, []EventKind{Started, CompletionReached}, f.kinds())
	assert.Equal(t, 10, f.events[1].Elapsed)
	assert.Zero(t, f.sched.Pending())

	f.sched.Advance(time.Minute)
	assert.Len(t, f.events, 2)
	assert.Equal(t, 10, f.elapsed(t, id))

	logs, err := f.store.WorkLogsBetween(start, start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 10, logs[0].Seconds)
}

func TestCompletionUsesUpdatedDuration(t *testing.T) {
	f := newFixture(t)
	id := f.addTask(t, "rescoped", nil)

	require.NoError(t, f.tracker.Start(id))
	f.sched.Advance(5 * time.Second)
	require.NoError(t, f.store.SetDuration(id, intPtr(6)))
	f.sched.Advance(time.Second)

	assert.False(t, f.tracker.Running())
	assert.Equal(t, CompletionReached, f.events[len(f.events)-1].Kind)
}

func TestStartPastDurationCompletesOnFirstTick(t *testing.T) {
	f := newFixture(t)
	id := f.addTask(t, "overrun", intPtr(60))
	require.NoError(t, f.store.SetElapsed(id, 120))

	require.NoError(t, f.tracker.Start(id))
	f.sched.Advance(time.Second)

	assert.False(t, f.tracker.Running())
	assert.Equal(t, 121, f.elapsed(t, id))
	assert.Equal(t, CompletionReached, f.events[len(f.events)-1].Kind)
}

func TestTaskDeletedMidSession(t *testing.T) {
	f := newFixture(t)
	id := f.addTask(t, "gone", nil)

	require.NoError(t, f.tracker.Start(id))
	f.sched.Advance(2 * time.Second)
	_, err := f.store.DeleteTask(id)
	require.NoError(t, err)

	f.sched.Advance(time.Second)
	assert.False(t, f.tracker.Running())

	res, err := f.tracker.Stop()
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestStopAfterDeleteIsQuiet(t *testing.T) {
	f := newFixture(t)
	id := f.addTask(t, "gone", nil)

	require.NoError(t, f.tracker.Start(id))
	_, err := f.store.DeleteTask(id)
	require.NoError(t, err)

	res, err := f.tracker.Stop()
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.False(t, f.tracker.Running())
}

func TestProgressOf(t *testing.T) {
	f := newFixture(t)
	id := f.addTask(t, "half", intPtr(100))
	other := f.addTask(t, "idle", intPtr(40))
	require.NoError(t, f.store.SetElapsed(other, 10))

	require.NoError(t, f.tracker.Start(id))
	f.sched.Advance(50 * time.Second)

	task, err := f.store.GetTask(id)
	require.NoError(t, err)
	p := f.tracker.ProgressOf(*task)
	assert.True(t, p.Running)
	require.NotNil(t, p.Percentage)
	assert.Equal(t, 50, *p.Percentage)

	idle, err := f.store.GetTask(other)
	require.NoError(t, err)
	p = f.tracker.ProgressOf(*idle)
	assert.False(t, p.Running)
	require.NotNil(t, p.Percentage)
	assert.Equal(t, 25, *p.Percentage)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  int
		duration *int
		want     *int
	}{
		{"unknown", 50, nil, nil},
		{"zero duration", 0, intPtr(0), intPtr(100)},
		{"floor", 1, intPtr(3), intPtr(33)},
		{"exact", 30, intPtr(30), intPtr(100)},
		{"capped", 90, intPtr(30), intPtr(100)},
		{"none yet", 0, intPtr(30), intPtr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentage(tt.elapsed, tt.duration))
		})
	}
}

// flakyStore fails SetElapsed while broken is set
type flakyStore struct {
	*db.Store
	broken bool
}

func (s *flakyStore) SetElapsed(id uint, seconds int) error {
	if s.broken {
		return errors.New("disk I/O error")
	}
	return s.Store.SetElapsed(id, seconds)
}

func TestStopKeepsSessionWhenSaveFails(t *testing.T) {
	f := newFixture(t)
	id := f.addTask(t, "write", nil)
	store := &flakyStore{Store: f.store}
	tr := New(store, Options{Clock: f.clock, Scheduler: f.sched, TickInterval: time.Minute})

	require.NoError(t, tr.Start(id))
	f.clock.Advance(30 * time.Second)

	store.broken = true
	result, err := tr.Stop()
	require.Error(t, err)
	assert.Nil(t, result)
	active, running := tr.Active()
	require.True(t, running)
	assert.Equal(t, id, active)
	assert.Equal(t, 1, f.sched.Pending())

	store.broken = false
	f.clock.Advance(15 * time.Second)
	result, err = tr.Stop()
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 45, result.Worked)
	assert.Equal(t, 45, f.elapsed(t, id))
	assert.False(t, tr.Running())
	assert.Zero(t, f.sched.Pending())
}
