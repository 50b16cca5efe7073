package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/balkashynov/todue/internal/calendar"
	"github.com/balkashynov/todue/internal/models"
	"github.com/balkashynov/todue/internal/tracker"
	"github.com/balkashynov/todue/internal/urgency"
)

func TestRelativeDeadline(t *testing.T) {
	tests := []struct {
		deadline string
		want     string
	}{
		{"10-03-2026", "today"},
		{"11-03-2026", "tomorrow"},
		{"09-03-2026", "yesterday"},
		{"13-03-2026", "3 days from now"},
		{"05-03-2026", "5 days ago"},
		{"31-02-2026", "unreadable date"},
	}
	for _, tt := range tests {
		t.Run(tt.deadline, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDeadline(tt.deadline, testNow))
		})
	}
}

func TestPriorityIcon(t *testing.T) {
	assert.Equal(t, "🔴", PriorityIcon(models.PriorityHigh))
	assert.Equal(t, "🟡", PriorityIcon(models.PriorityMedium))
	assert.Equal(t, "🟢", PriorityIcon(models.PriorityLow))
	assert.Equal(t, "⚪", PriorityIcon("urgent"))
}

func TestElapsedText(t *testing.T) {
	p := tracker.Progress{Elapsed: 95}
	assert.Equal(t, "00:01:35 / unknown", ElapsedText(p, nil))
	assert.Equal(t, "00:01:35 / 01:00:00", ElapsedText(p, intPtr(3600)))
}

func TestProgressBar(t *testing.T) {
	unknown := ProgressBar(nil, 20)
	assert.True(t, strings.HasSuffix(unknown, "?"))

	half := ProgressBar(intPtr(50), 25)
	assert.Contains(t, half, " 50%")
	assert.Equal(t, 10, strings.Count(half, "█"))
	assert.Equal(t, 10, strings.Count(half, "░"))

	full := ProgressBar(intPtr(100), 25)
	assert.Equal(t, 20, strings.Count(full, "█"))
	assert.Contains(t, full, "100%")
}

func TestRenderCalendarListsDeadlineDays(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Title: "Pay rent", Deadline: "12-03-2026", Priority: models.PriorityHigh},
		{ID: 2, Title: "Call mom", Deadline: "12-03-2026", Priority: models.PriorityLow},
		{ID: 3, Title: "Next month", Deadline: "02-04-2026", Priority: models.PriorityLow},
	}
	summaries := calendar.Summarize(tasks, urgency.Today(testNow))

	out := RenderCalendar(summaries, 2026, time.March, testNow)
	assert.Contains(t, out, "March 2026")
	assert.Contains(t, out, "Mo Tu We Th Fr Sa Su")
	assert.Contains(t, out, "Pay rent, Call mom")
	assert.NotContains(t, out, "Next month")

	empty := RenderCalendar(summaries, 2026, time.May, testNow)
	assert.Contains(t, empty, "No deadlines this month")
}

func TestRenderLegendKeepsEveryLine(t *testing.T) {
	out := RenderLegend()
	for _, line := range strings.Split(urgency.Legend, "\n") {
		assert.Contains(t, out, line)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long...", truncate("a long title", 9))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "", truncate("abc", 0))
}

func TestUrgencyColor(t *testing.T) {
	assert.EqualValues(t, ColorOverdue, UrgencyColor(urgency.Overdue))
	assert.EqualValues(t, ColorCompleted, UrgencyColor(urgency.Completed))
	assert.EqualValues(t, ColorNeutral, UrgencyColor(urgency.Neutral))
}
