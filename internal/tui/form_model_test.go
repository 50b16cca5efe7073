package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todue/internal/db"
	"github.com/balkashynov/todue/internal/models"
)

func TestFormSaveCreatesTask(t *testing.T) {
	store := openTestStore(t)
	m := NewFormModel(store, FormValues{
		Title:    "  Pay rent ",
		Deadline: "in 3 days",
		Priority: "3",
		Duration: "1:30:00",
	}, fixedNow)

	m, cmd := m.save()
	require.NotNil(t, m.saved)
	assert.Empty(t, m.validationErr)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	task, err := store.GetTask(m.saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", task.Title)
	assert.Equal(t, "13-03-2026", task.Deadline)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	require.NotNil(t, task.Duration)
	assert.Equal(t, 5400, *task.Duration)
}

func TestFormDefaults(t *testing.T) {
	store := openTestStore(t)
	m := NewFormModel(store, FormValues{Title: "Walk dog"}, fixedNow)

	m, _ = m.save()
	require.NotNil(t, m.saved)
	assert.Equal(t, "10-03-2026", m.saved.Deadline)
	assert.Equal(t, models.PriorityMedium, m.saved.Priority)
	assert.Nil(t, m.saved.Duration)
}

func TestFormEnterRequiresTitle(t *testing.T) {
	store := openTestStore(t)
	m := NewFormModel(store, FormValues{}, fixedNow)

	m, _ = m.handleEnter()
	assert.Equal(t, "Task title is required", m.validationErr)
	assert.Equal(t, FieldTitle, m.focus)
}

func TestFormEnterMovesToNextField(t *testing.T) {
	store := openTestStore(t)
	m := NewFormModel(store, FormValues{Title: "Walk dog"}, fixedNow)

	m, _ = m.handleEnter()
	assert.Empty(t, m.validationErr)
	assert.Equal(t, FieldDeadline, m.focus)
}

func TestFormSaveFocusesInvalidField(t *testing.T) {
	store := openTestStore(t)
	m := NewFormModel(store, FormValues{Title: "Walk dog", Priority: "urgent"}, fixedNow)

	m, cmd := m.save()
	assert.Nil(t, cmd)
	assert.Nil(t, m.saved)
	assert.Equal(t, FieldPriority, m.focus)
	assert.Contains(t, m.validationErr, "Invalid priority")
}

func TestFormRejectsPastDeadline(t *testing.T) {
	store := openTestStore(t)
	m := NewFormModel(store, FormValues{Title: "Walk dog", Deadline: "01-03-2026"}, fixedNow)

	m, _ = m.save()
	assert.Nil(t, m.saved)
	assert.NotEmpty(t, m.validationErr)
}

func TestEditFormKeepsUnchangedOverdueDeadline(t *testing.T) {
	store := openTestStore(t)
	_, err := store.ImportTasks([]models.Task{
		{Title: "Old chore", Deadline: "01-03-2026", Priority: models.PriorityLow},
	})
	require.NoError(t, err)
	task, err := store.GetTask(1)
	require.NoError(t, err)

	m := NewEditFormModel(store, *task, fixedNow)
	m.inputs[FieldTitle].SetValue("Old chore, renamed")

	m, _ = m.save()
	require.NotNil(t, m.saved, m.validationErr)

	got, err := store.GetTask(1)
	require.NoError(t, err)
	assert.Equal(t, "Old chore, renamed", got.Title)
	assert.Equal(t, "01-03-2026", got.Deadline)
}

func TestEditFormUpdatesDuration(t *testing.T) {
	store := openTestStore(t)
	task, err := store.CreateTask(db.CreateTaskRequest{Title: "Write report", Duration: intPtr(600)})
	require.NoError(t, err)

	m := NewEditFormModel(store, *task, fixedNow)
	m.inputs[FieldDuration].SetValue("unknown")

	m, _ = m.save()
	require.NotNil(t, m.saved, m.validationErr)

	got, err := store.GetTask(task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Duration)
}

func TestEmbeddedFormReportsClose(t *testing.T) {
	store := openTestStore(t)
	m := NewFormModel(store, FormValues{Title: "Walk dog"}, fixedNow)
	m.embedded = true

	m, cmd := m.save()
	require.NotNil(t, cmd)
	msg, ok := cmd().(formClosedMsg)
	require.True(t, ok)
	require.NotNil(t, msg.task)
	assert.Equal(t, "Walk dog", msg.task.Title)
}

func TestFormEscWithChangesAsksToSave(t *testing.T) {
	store := openTestStore(t)
	m := NewFormModel(store, FormValues{}, fixedNow)
	m.inputs[FieldTitle].SetValue("Something")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(FormModel)
	assert.True(t, m.showSaveModal)

	m, cmd := m.handleModalKeys(keyRunes("n"))
	assert.True(t, m.cancelled)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
