package commands

import (
	"bytes"
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todue/internal/config"
	"github.com/balkashynov/todue/internal/db"
)

// syncBuffer is written from the loop and shutdown goroutines
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func useFastTicks(t *testing.T) {
	t.Helper()
	prev := cfg
	cfg = config.DefaultConfig()
	cfg.Tracker.TickInterval = 10 * time.Millisecond
	t.Cleanup(func() { cfg = prev })
}

func captureStdLog(t *testing.T) *syncBuffer {
	t.Helper()
	out := &syncBuffer{}
	log.SetOutput(out)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return out
}

func TestForegroundTimerStopsAtDuration(t *testing.T) {
	s := useTestStore(t)
	useFastTicks(t)
	stdLog := captureStdLog(t)
	task, err := s.CreateTask(db.CreateTaskRequest{Title: "Stretch", Duration: intPtr(1)})
	require.NoError(t, err)

	var out syncBuffer
	require.NoError(t, runForegroundTimer(context.Background(), task.ID, &out))
	assert.Contains(t, out.String(), "reached its expected duration")

	saved, err := s.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.ElapsedTime)

	// finishing on its own must not look like a shutdown
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, stdLog.String(), "Shutting down")
}

func TestForegroundTimerSavesOnShutdown(t *testing.T) {
	s := useTestStore(t)
	useFastTicks(t)
	captureStdLog(t)
	task, err := s.CreateTask(db.CreateTaskRequest{Title: "Write report"})
	require.NoError(t, err)

	trigger, cancel := context.WithCancel(context.Background())
	time.AfterFunc(1100*time.Millisecond, cancel)

	var out syncBuffer
	require.NoError(t, runForegroundTimer(trigger, task.ID, &out))
	assert.Contains(t, out.String(), "Stopped tracking time for task #1")

	saved, err := s.GetTask(task.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, saved.ElapsedTime, 1)
}

func TestForegroundTimerMissingTask(t *testing.T) {
	useTestStore(t)
	useFastTicks(t)

	var out syncBuffer
	err := runForegroundTimer(context.Background(), 99, &out)
	assert.ErrorIs(t, err, db.ErrTaskNotFound)
	assert.Empty(t, out.String())
}
