package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todue/internal/models"
	"github.com/balkashynov/todue/internal/urgency"
)

var today = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)

func TestSummarizeMixedCompletion(t *testing.T) {
	tasks := []models.Task{
		{Title: "report", Deadline: "01-03-2026", Priority: models.PriorityHigh},
		{Title: "backup", Deadline: "01-03-2026", Priority: models.PriorityLow, Completed: true},
	}

	got := Summarize(tasks, today)
	require.Len(t, got, 1)
	assert.Equal(t, urgency.Overdue, got[0].Tag)
	assert.False(t, got[0].AllCompleted)
	assert.Equal(t, "report, backup", got[0].MergedTitles())
}

func TestSummarizeAllCompleted(t *testing.T) {
	tasks := []models.Task{
		{Title: "a", Deadline: "10-03-2026", Priority: models.PriorityHigh, Completed: true},
		{Title: "b", Deadline: "10-03-2026", Priority: models.PriorityLow, Completed: true},
	}

	got := Summarize(tasks, today)
	require.Len(t, got, 1)
	assert.True(t, got[0].AllCompleted)
	assert.Equal(t, urgency.Completed, got[0].Tag)
}

func TestSummarizeUsesHighestIncompletePriority(t *testing.T) {
	tasks := []models.Task{
		{Title: "low", Deadline: "11-03-2026", Priority: models.PriorityLow},
		{Title: "done high", Deadline: "11-03-2026", Priority: models.PriorityHigh, Completed: true},
		{Title: "medium", Deadline: "11-03-2026", Priority: models.PriorityMedium},
		{Title: "later low", Deadline: "20-03-2026", Priority: models.PriorityLow},
	}

	got := Summarize(tasks, today)
	require.Len(t, got, 2)
	assert.Equal(t, urgency.DueSoonHigh, got[0].Tag)
	assert.Equal(t, []string{"low", "done high", "medium"}, got[0].Titles)
	assert.Equal(t, urgency.Neutral, got[1].Tag)
}

func TestSummarizeOrdersByDateAndSkipsMalformed(t *testing.T) {
	tasks := []models.Task{
		{Title: "april", Deadline: "02-04-2026", Priority: models.PriorityLow},
		{Title: "junk", Deadline: "someday", Priority: models.PriorityHigh},
		{Title: "march", Deadline: "5-3-2026", Priority: models.PriorityLow},
		{Title: "empty", Deadline: "", Priority: models.PriorityLow},
	}

	got := Summarize(tasks, today)
	require.Len(t, got, 2)
	assert.Equal(t, "march", got[0].MergedTitles())
	assert.Equal(t, "april", got[1].MergedTitles())

	idx := Index(got)
	assert.Contains(t, idx, "05-03-2026")
	assert.Len(t, InMonth(got, 2026, time.April), 1)
}

func TestWeeks(t *testing.T) {
	// March 2026 starts on a Sunday
	weeks := Weeks(2026, time.March)
	require.Len(t, weeks, 6)
	assert.True(t, weeks[0][5].IsZero())
	assert.Equal(t, 1, weeks[0][6].Day())
	assert.Equal(t, 2, weeks[1][0].Day())
	assert.Equal(t, 31, weeks[5][1].Day())
	assert.True(t, weeks[5][2].IsZero())

	// February 2027 starts on a Monday and fills four weeks exactly
	assert.Len(t, Weeks(2027, time.February), 4)
}

func TestParseMonth(t *testing.T) {
	year, month, err := ParseMonth("3-2026")
	require.NoError(t, err)
	assert.Equal(t, 2026, year)
	assert.Equal(t, time.March, month)

	_, month, err = ParseMonth("12/2025")
	require.NoError(t, err)
	assert.Equal(t, time.December, month)

	_, _, err = ParseMonth("13-2026")
	assert.Error(t, err)
}
