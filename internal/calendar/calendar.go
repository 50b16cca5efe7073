// Package calendar groups tasks by deadline date for the month view.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/balkashynov/todue/internal/models"
	"github.com/balkashynov/todue/internal/urgency"
)

// DateSummary is everything the calendar shows for one deadline date
type DateSummary struct {
	Date         time.Time
	Tag          urgency.Tag
	AllCompleted bool
	Titles       []string
}

// MergedTitles joins the titles of the date in input order
func (d DateSummary) MergedTitles() string {
	return strings.Join(d.Titles, ", ")
}

// Summarize returns one summary per distinct valid deadline, ordered by date.
// Tasks whose deadline cannot be parsed are left out.
func Summarize(tasks []models.Task, today time.Time) []DateSummary {
	type group struct {
		summary DateSummary
		top     models.Priority
		hasTodo bool
	}

	groups := map[time.Time]*group{}
	var order []time.Time
	for _, task := range tasks {
		date, err := urgency.ParseDeadline(task.Deadline)
		if err != nil {
			continue
		}
		g, ok := groups[date]
		if !ok {
			g = &group{summary: DateSummary{Date: date}}
			groups[date] = g
			order = append(order, date)
		}
		g.summary.Titles = append(g.summary.Titles, task.Title)
		if task.Completed {
			continue
		}
		if !g.hasTodo || task.Priority.Rank() > g.top.Rank() {
			g.top = task.Priority
		}
		g.hasTodo = true
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	summaries := make([]DateSummary, 0, len(order))
	for _, date := range order {
		g := groups[date]
		if g.hasTodo {
			g.summary.Tag = urgency.ForDate(date, g.top, today)
		} else {
			g.summary.AllCompleted = true
			g.summary.Tag = urgency.Completed
		}
		summaries = append(summaries, g.summary)
	}
	return summaries
}

// Index maps dd-mm-yyyy dates to their summary
func Index(summaries []DateSummary) map[string]DateSummary {
	idx := make(map[string]DateSummary, len(summaries))
	for _, s := range summaries {
		idx[urgency.FormatDeadline(s.Date)] = s
	}
	return idx
}

// InMonth keeps the summaries falling in the given month
func InMonth(summaries []DateSummary, year int, month time.Month) []DateSummary {
	var out []DateSummary
	for _, s := range summaries {
		if s.Date.Year() == year && s.Date.Month() == month {
			out = append(out, s)
		}
	}
	return out
}

// Weeks lays out a month Monday first. Days outside the month are zero.
func Weeks(year int, month time.Month) [][7]time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7

	var weeks [][7]time.Time
	var week [7]time.Time
	col := offset
	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]time.Time{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// ParseMonth parses "mm-yyyy" (or "mm/yyyy")
func ParseMonth(input string) (int, time.Month, error) {
	input = strings.ReplaceAll(strings.TrimSpace(input), "/", "-")
	t, err := time.Parse("1-2006", input)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, use mm-yyyy", input)
	}
	return t.Year(), t.Month(), nil
}
