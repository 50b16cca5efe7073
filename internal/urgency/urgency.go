// Package urgency classifies tasks by how pressing they are and orders task
// lists for display.
package urgency

import (
	"time"

	"github.com/balkashynov/todue/internal/models"
)

// Tag is the urgency classification of a task. The numeric value is the
// rank used by urgency ordering (most urgent first).
type Tag int

const (
	Overdue Tag = iota
	DueTodayHigh
	DueSoonHigh
	DueLaterHigh
	Neutral
	Completed
)

// farFutureDays is how far ahead an unparsable deadline is placed
const farFutureDays = 999

var tagNames = map[Tag]string{
	Overdue:      "overdue",
	DueTodayHigh: "due_today_high",
	DueSoonHigh:  "due_soon_high",
	DueLaterHigh: "due_later_high",
	Neutral:      "neutral",
	Completed:    "completed",
}

var tagColors = map[Tag]string{
	Overdue:      "purple",
	DueTodayHigh: "red",
	DueSoonHigh:  "orange",
	DueLaterHigh: "green",
	Neutral:      "black",
	Completed:    "gray",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "unknown"
}

// Color returns the display color name of the tag
func (t Tag) Color() string {
	return tagColors[t]
}

// Rank returns the position of the tag in urgency order
func (t Tag) Rank() int {
	return int(t)
}

// Legend is the human readable explanation of the colors
const Legend = `Color Legend:
Gray – Completed
Purple – Deadline passed
Red – Deadline today & priority High/Medium
Orange – Deadline today & Low OR tomorrow/the day after & High/Medium
Green – Tomorrow/the day after & Low OR after the day after & High/Medium
Black – All other cases`

// Today returns the local calendar date of now
func Today(now time.Time) time.Time {
	return civil(now)
}

// ParseDeadline parses a stored dd-mm-yyyy deadline into a calendar date
func ParseDeadline(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2-1-2006", s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}

// FormatDeadline renders a date in the stored dd-mm-yyyy form
func FormatDeadline(d time.Time) string {
	return d.Format(models.DeadlineLayout)
}

// DaysBetween returns the whole number of calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(civil(b).Sub(civil(a)).Hours() / 24)
}

// Classify maps a task to its urgency tag as of today
func Classify(task models.Task, today time.Time) Tag {
	if task.Completed {
		return Completed
	}
	return ForDate(EffectiveDeadline(task.Deadline, today), task.Priority, today)
}

// EffectiveDeadline parses the deadline, falling back to today+999 days when
// the stored text is malformed
func EffectiveDeadline(deadline string, today time.Time) time.Time {
	d, err := ParseDeadline(deadline)
	if err != nil {
		return civil(today).AddDate(0, 0, farFutureDays)
	}
	return d
}

// ForDate applies the day offset rules to a deadline date and priority.
// Completion is not considered here.
func ForDate(deadline time.Time, priority models.Priority, today time.Time) Tag {
	offset := DaysBetween(today, deadline)
	urgent := priority.Urgent()

	switch {
	case offset < 0:
		return Overdue
	case offset == 0 && urgent:
		return DueTodayHigh
	case offset == 0 || (offset <= 2 && urgent):
		return DueSoonHigh
	case offset <= 2 || urgent:
		return DueLaterHigh
	default:
		return Neutral
	}
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
