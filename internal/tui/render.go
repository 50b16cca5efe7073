package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/balkashynov/todue/internal/calendar"
	"github.com/balkashynov/todue/internal/models"
	"github.com/balkashynov/todue/internal/parser"
	"github.com/balkashynov/todue/internal/tracker"
	"github.com/balkashynov/todue/internal/urgency"
)

// RelativeDeadline describes a stored deadline relative to today
func RelativeDeadline(deadline string, now time.Time) string {
	date, err := urgency.ParseDeadline(deadline)
	if err != nil {
		return "unreadable date"
	}
	today := urgency.Today(now)
	switch urgency.DaysBetween(today, date) {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	case -1:
		return "yesterday"
	}
	return humanize.RelTime(date, today, "ago", "from now")
}

// PriorityIcon returns the marker shown next to a priority
func PriorityIcon(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "🔴"
	case models.PriorityMedium:
		return "🟡"
	case models.PriorityLow:
		return "🟢"
	}
	return "⚪"
}

// ElapsedText renders tracked time and, when known, the expected duration
func ElapsedText(p tracker.Progress, duration *int) string {
	if duration == nil {
		return parser.FormatClock(p.Elapsed) + " / unknown"
	}
	return fmt.Sprintf("%s / %s", parser.FormatClock(p.Elapsed), parser.FormatClock(*duration))
}

// ProgressBar renders a bar of the given width for a percentage. Unknown
// durations render an empty track with a question mark.
func ProgressBar(percentage *int, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 5
	if percentage == nil {
		track := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder)).Render(strings.Repeat("░", barWidth))
		return track + "    ?"
	}

	filled := barWidth * *percentage / 100
	color := ColorAccentBright
	if *percentage >= 100 {
		color = ColorSuccess
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder)).Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %3d%%", bar, *percentage)
}

var weekdayHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// RenderCalendar draws a month grid with every day that has deadlines
// painted in its summary color, followed by the titles of those days
func RenderCalendar(summaries []calendar.DateSummary, year int, month time.Month, now time.Time) string {
	var b strings.Builder
	idx := calendar.Index(summaries)
	today := urgency.Today(now)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %d", month, year)))
	b.WriteString("\n")
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	b.WriteString(dimStyle.Render(strings.Join(weekdayHeader, " ")))
	b.WriteString("\n")

	for _, week := range calendar.Weeks(year, month) {
		cells := make([]string, 7)
		for i, day := range week {
			if day.IsZero() {
				cells[i] = "  "
				continue
			}
			cell := fmt.Sprintf("%2d", day.Day())
			style := lipgloss.NewStyle()
			if s, ok := idx[urgency.FormatDeadline(day)]; ok {
				style = style.Bold(true).Foreground(UrgencyColor(s.Tag))
			}
			if day.Equal(today) {
				style = style.Underline(true)
			}
			cells[i] = style.Render(cell)
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}

	inMonth := calendar.InMonth(summaries, year, month)
	if len(inMonth) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Italic(true).Render("No deadlines this month"))
		return b.String()
	}
	b.WriteString("\n")
	for _, s := range inMonth {
		day := UrgencyStyle(s.Tag).Render(s.Date.Format("02 Jan"))
		b.WriteString(fmt.Sprintf("%s  %s\n", day, s.MergedTitles()))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderLegend renders the color legend with each line in its color
func RenderLegend() string {
	lines := strings.Split(urgency.Legend, "\n")
	tags := []urgency.Tag{urgency.Completed, urgency.Overdue, urgency.DueTodayHigh, urgency.DueSoonHigh, urgency.DueLaterHigh, urgency.Neutral}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(lines[0]))
	for i, line := range lines[1:] {
		b.WriteString("\n")
		if i < len(tags) {
			b.WriteString(lipgloss.NewStyle().Foreground(UrgencyColor(tags[i])).Render("● "))
		}
		b.WriteString(line)
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
