package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todue/internal/models"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show weekly timesheet of tracked time",
	Long: `Show a weekly timesheet of tracked time grouped by day.

Displays hours worked per task and day for the current calendar week
(Monday to Sunday). Use --weeks-ago to look at earlier weeks.

Example output:
  Task                    Mon   Tue   Wed   Thu   Fri   Total
  #3 Write report         2.0   1.5     -     -     -     3.5
  #7 Pay taxes              -   0.5     -     -     -     0.5
  Total                   2.0   2.0   0.0   0.0   0.0     4.0`,
	Args: cobra.NoArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		weeksAgo, _ := cmd.Flags().GetInt("weeks-ago")
		if weeksAgo < 0 {
			fmt.Println("Error: --weeks-ago cannot be negative")
			return
		}
		if err := generateTimesheet(os.Stdout, time.Now().AddDate(0, 0, -7*weeksAgo)); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

// generateTimesheet loads the week containing day and prints its timesheet
func generateTimesheet(w io.Writer, day time.Time) error {
	weekStart := getWeekStart(day)
	weekEnd := weekStart.AddDate(0, 0, 7)

	logs, err := store.WorkLogsBetween(weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to get work logs: %w", err)
	}
	if len(logs) == 0 {
		fmt.Fprintln(w, "No time tracked this week.")
		return nil
	}

	displayTimesheet(w, buildTimesheet(logs), weekStart)
	return nil
}

// timesheetRow is one task's seconds per weekday, Monday first
type timesheetRow struct {
	task    models.Task
	seconds [7]int
}

func (r timesheetRow) total() int {
	sum := 0
	for _, s := range r.seconds {
		sum += s
	}
	return sum
}

// buildTimesheet groups work logs by task and local start day
func buildTimesheet(logs []models.WorkLog) []timesheetRow {
	byTask := make(map[uint]*timesheetRow)
	for _, log := range logs {
		row, ok := byTask[log.TaskID]
		if !ok {
			task := log.Task
			if task.ID == 0 {
				task = models.Task{ID: log.TaskID, Title: "(deleted task)"}
			}
			row = &timesheetRow{task: task}
			byTask[log.TaskID] = row
		}
		row.seconds[mondayIndex(log.StartedAt.Local().Weekday())] += log.Seconds
	}

	rows := make([]timesheetRow, 0, len(byTask))
	for _, row := range byTask {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].task.ID < rows[j].task.ID
	})
	return rows
}

// getWeekStart returns the start of the calendar week (Monday) for the given time
func getWeekStart(t time.Time) time.Time {
	weekStart := t.AddDate(0, 0, -mondayIndex(t.Weekday()))
	return time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
}

// mondayIndex converts a weekday to 0-6 with Monday=0
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// formatTaskKey creates a display key for the task
func formatTaskKey(task models.Task) string {
	return fmt.Sprintf("#%d %s", task.ID, task.Title)
}

func formatHours(seconds int) string {
	return fmt.Sprintf("%.1f", float64(seconds)/3600)
}

// displayTimesheet outputs the formatted timesheet table
func displayTimesheet(w io.Writer, rows []timesheetRow, weekStart time.Time) {
	dayNames := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	// Weekdays always show, weekend days only when worked
	var weekTotals [7]int
	for _, row := range rows {
		for i, s := range row.seconds {
			weekTotals[i] += s
		}
	}
	var daysToShow []int
	for i := range dayNames {
		if i < 5 || weekTotals[i] > 0 {
			daysToShow = append(daysToShow, i)
		}
	}

	// Calculate column widths
	maxTaskNameWidth := 20
	for _, row := range rows {
		if n := len([]rune(formatTaskKey(row.task))); n > maxTaskNameWidth {
			maxTaskNameWidth = n
		}
	}
	if maxTaskNameWidth > 40 {
		maxTaskNameWidth = 40 // Cap at 40 chars
	}

	dayColumnWidth := 6
	totalColumnWidth := 7

	separator := func() {
		fmt.Fprint(w, strings.Repeat("-", maxTaskNameWidth))
		for range daysToShow {
			fmt.Fprint(w, "  "+strings.Repeat("-", dayColumnWidth-2))
		}
		fmt.Fprintln(w, "  "+strings.Repeat("-", totalColumnWidth-2))
	}

	// Print header
	fmt.Fprintf(w, "%-*s", maxTaskNameWidth, "Task")
	for _, day := range daysToShow {
		fmt.Fprintf(w, "  %*s", dayColumnWidth-2, dayNames[day])
	}
	fmt.Fprintf(w, "  %*s\n", totalColumnWidth-2, "Total")
	separator()

	// Print task rows
	grandTotal := 0
	for _, row := range rows {
		key := formatTaskKey(row.task)
		if r := []rune(key); len(r) > maxTaskNameWidth {
			key = string(r[:maxTaskNameWidth-3]) + "..."
		}
		fmt.Fprintf(w, "%-*s", maxTaskNameWidth, key)

		for _, day := range daysToShow {
			if s := row.seconds[day]; s > 0 {
				fmt.Fprintf(w, "  %*s", dayColumnWidth-2, formatHours(s))
			} else {
				fmt.Fprintf(w, "  %*s", dayColumnWidth-2, "-")
			}
		}
		fmt.Fprintf(w, "  %*s\n", totalColumnWidth-2, formatHours(row.total()))
		grandTotal += row.total()
	}

	// Print total row
	separator()
	fmt.Fprintf(w, "%-*s", maxTaskNameWidth, "Total")
	for _, day := range daysToShow {
		fmt.Fprintf(w, "  %*s", dayColumnWidth-2, formatHours(weekTotals[day]))
	}
	fmt.Fprintf(w, "  %*s\n", totalColumnWidth-2, formatHours(grandTotal))

	// Print week info
	fmt.Fprintf(w, "\nWeek of %s to %s\n",
		weekStart.Format("Jan 2"),
		weekStart.AddDate(0, 0, 6).Format("Jan 2, 2006"))
}

func init() {
	reportCmd.Flags().Int("weeks-ago", 0, "Show an earlier week (1 = last week)")
}
