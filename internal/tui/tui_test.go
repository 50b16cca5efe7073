package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todue/internal/clock"
	"github.com/balkashynov/todue/internal/db"
	"github.com/balkashynov/todue/internal/sched"
	"github.com/balkashynov/todue/internal/tracker"
)

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open(db.Options{
		Path: filepath.Join(t.TempDir(), "todue.db"),
		Now:  func() time.Time { return testNow },
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestTracker(store *db.Store) (*tracker.Tracker, *clock.Fake, *sched.Manual) {
	c := clock.NewFake(testNow)
	s := sched.NewManual(c)
	return tracker.New(store, tracker.Options{Clock: c, Scheduler: s}), c, s
}

func fixedNow() time.Time { return testNow }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func intPtr(v int) *int { return &v }
