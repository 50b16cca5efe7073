package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todue/internal/db"
	"github.com/balkashynov/todue/internal/parser"
	"github.com/balkashynov/todue/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [task description]",
	Short: "Add a new task",
	Long: `Add a new task with a deadline, priority and expected duration.

Modes:
  Interactive: todue add -i (or just 'todue add' with no arguments)
  Quick: todue add "Task title" (with optional flags)
  Smart parsing: todue add "Write report +high due:tomorrow ~1h30m"

Smart parsing syntax:
  +priority     - Priority (low/medium/high or 1/2/3)
  due:deadline  - Deadline (dd-mm-yyyy, today, tomorrow, 3days, 2weeks)
  ~duration     - Expected effort (h:mm:ss, 1h30m, 45m, unknown)

Without a deadline the task is due today; without a priority it is Medium.`,
	Args: cobra.ArbitraryArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		interactive, _ := cmd.Flags().GetBool("interactive")

		// If no args, go interactive
		if len(args) == 0 {
			interactive = true
		}

		if interactive {
			values := tui.FormValues{Title: strings.Join(args, " ")}
			applyAddFlags(cmd, &values)
			if err := tui.RunAddTaskTUI(store, values); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		parsed := parser.ParseTitle(strings.Join(args, " "), time.Now())
		values := valuesFromParsed(parsed)
		applyAddFlags(cmd, &values)

		if len(parsed.Errors) > 0 {
			// There were parsing errors, fall back to interactive with pre-filled data
			fmt.Printf("⚠️  Found issues with parsing: %s\n", strings.Join(parsed.Errors, ", "))
			fmt.Println("Opening interactive mode for confirmation...")
			if err := tui.RunAddTaskTUI(store, values); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		runDirectAdd(values)
	}),
}

// valuesFromParsed converts smart syntax results to form values
func valuesFromParsed(parsed parser.ParsedTask) tui.FormValues {
	values := tui.FormValues{
		Title:    parsed.Title,
		Deadline: parsed.Deadline,
		Priority: parsed.Priority,
	}
	if parsed.Duration != nil {
		values.Duration = parser.FormatClock(*parsed.Duration)
	}
	return values
}

// applyAddFlags overrides values with explicit flags (flags take precedence)
func applyAddFlags(cmd *cobra.Command, values *tui.FormValues) {
	if deadline, _ := cmd.Flags().GetString("deadline"); deadline != "" {
		values.Deadline = deadline
	}
	if priority, _ := cmd.Flags().GetString("priority"); priority != "" {
		values.Priority = priority
	}
	if duration, _ := cmd.Flags().GetString("duration"); duration != "" {
		values.Duration = duration
	}
}

// buildCreateRequest validates form values the way the form does
func buildCreateRequest(values tui.FormValues, now time.Time) (db.CreateTaskRequest, error) {
	req := db.CreateTaskRequest{
		Title:    values.Title,
		Priority: values.Priority,
	}
	if strings.TrimSpace(values.Deadline) != "" {
		deadline, err := parser.ParseDeadline(values.Deadline, now)
		if err != nil {
			return req, err
		}
		req.Deadline = deadline
	}
	if strings.TrimSpace(values.Duration) != "" {
		duration, err := parser.ParseDuration(values.Duration)
		if err != nil {
			return req, err
		}
		req.Duration = duration
	}
	return req, nil
}

// runDirectAdd creates task directly without TUI
func runDirectAdd(values tui.FormValues) {
	req, err := buildCreateRequest(values, time.Now())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	task, err := store.CreateTask(req)
	if errors.Is(err, db.ErrEmptyTitle) {
		fmt.Println("⚠️  Task title cannot be empty, nothing was added.")
		return
	}
	if err != nil {
		fmt.Printf("Error creating task: %v\n", err)
		return
	}

	// Success message
	fmt.Printf("Created task #%d: %s\n", task.ID, task.Title)
	fmt.Printf("  Deadline: %s (%s)\n", task.Deadline, parser.DescribeDeadline(task.Deadline, time.Now()))
	fmt.Printf("  Priority: %s %s\n", tui.PriorityIcon(task.Priority), task.Priority)
	if task.Duration != nil {
		fmt.Printf("  Duration: %s\n", parser.FormatDuration(*task.Duration))
	}
}

func init() {
	addCmd.Flags().BoolP("interactive", "i", false, "Interactive mode with TUI")
	addCmd.Flags().StringP("deadline", "d", "", "Deadline: dd-mm-yyyy, today, tomorrow, X days, X weeks")
	addCmd.Flags().StringP("priority", "p", "", "Priority: low, medium, high, or 1-3")
	addCmd.Flags().StringP("duration", "t", "", "Expected duration: h:mm:ss, 1h30m or unknown")
}
