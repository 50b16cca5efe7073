package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/balkashynov/todue/internal/db"
	"github.com/balkashynov/todue/internal/models"
	"github.com/balkashynov/todue/internal/parser"
	"github.com/balkashynov/todue/internal/tracker"
	"github.com/balkashynov/todue/internal/tui"
	"github.com/balkashynov/todue/internal/urgency"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Long: `List tasks colored by urgency.

Opens the interactive list by default. Use --no-ui for a plain table or
--json for machine readable output.

Examples:
  todue ls                     # Interactive list
  todue ls --no-ui             # Colored table
  todue ls --sort urgency      # Most urgent first
  todue ls --search report     # Titles containing "report"`,
	Args: cobra.NoArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		sortBy, _ := cmd.Flags().GetString("sort")
		search, _ := cmd.Flags().GetString("search")
		runList(cmd, search, sortBy)
	}),
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tasks by title",
	Long: `Search tasks whose title contains the query, ignoring case.

Same as 'todue ls --search <query>' and takes the same flags.`,
	Args: cobra.MinimumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		sortBy, _ := cmd.Flags().GetString("sort")
		runList(cmd, strings.Join(args, " "), sortBy)
	}),
}

func runList(cmd *cobra.Command, search, sortBy string) {
	order, err := urgency.ParseOrder(sortBy)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	noUI, _ := cmd.Flags().GetBool("no-ui")
	if !cmd.Flags().Changed("no-ui") {
		noUI = cfg.UI.NoUI
	}

	if !asJSON && !noUI {
		err := tui.RunListTUI(store, tui.ListOptions{
			Order:            order,
			Search:           search,
			TickInterval:     cfg.Tracker.TickInterval,
			Reminders:        cfg.Reminders.Enabled,
			ReminderInterval: cfg.Reminders.Interval,
			Logger:           logger,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		return
	}

	tasks, err := store.QueryTasks(db.TaskQuery{Search: search, Order: order})
	if err != nil {
		fmt.Printf("Error fetching tasks: %v\n", err)
		return
	}

	if asJSON {
		if err := writeTasksJSON(os.Stdout, tasks); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		return
	}

	if len(tasks) == 0 {
		if search != "" {
			fmt.Printf("No tasks matching \"%s\".\n", search)
		} else {
			fmt.Println("No tasks found. Use 'todue add \"task description\"' to create your first task.")
		}
		return
	}
	fmt.Println(renderTaskTable(tasks, time.Now()))
}

// writeTasksJSON prints tasks as an indented JSON array
func writeTasksJSON(w io.Writer, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}

// renderTaskTable renders tasks as a table with each row in its urgency color
func renderTaskTable(tasks []models.Task, now time.Time) string {
	today := urgency.Today(now)
	tags := make([]urgency.Tag, len(tasks))
	rows := make([][]string, len(tasks))

	for i, task := range tasks {
		tags[i] = urgency.Classify(task, today)

		status := "○"
		if task.Completed {
			status = "✓"
		}
		timeText := parser.FormatDuration(task.ElapsedTime)
		if p := tracker.Percentage(task.ElapsedTime, task.Duration); p != nil {
			timeText = fmt.Sprintf("%s (%d%%)", timeText, *p)
		}

		title := task.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}

		rows[i] = []string{
			fmt.Sprintf("%d", task.ID),
			status,
			title,
			task.Deadline,
			tui.RelativeDeadline(task.Deadline, now),
			string(task.Priority),
			timeText,
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tui.ColorAccentBright)).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorBorder))).
		Headers("ID", "", "TITLE", "DEADLINE", "DUE", "PRIORITY", "TIME").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(tags) {
				return cell
			}
			return tui.UrgencyStyle(tags[row]).Padding(0, 1)
		})
	return t.String()
}

func init() {
	for _, c := range []*cobra.Command{listCmd, searchCmd} {
		c.Flags().String("sort", "deadline", "Sort order: deadline or urgency")
		c.Flags().Bool("no-ui", false, "Print a table instead of the interactive list")
		c.Flags().Bool("json", false, "Print tasks as JSON")
	}
	listCmd.Flags().StringP("search", "s", "", "Only tasks whose title contains this text")
}
