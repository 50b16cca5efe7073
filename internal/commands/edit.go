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

var editCmd = &cobra.Command{
	Use:   "edit <task_id>",
	Short: "Edit an existing task",
	Long: `Edit an existing task.

Without flags this opens the same form as 'todue add' with every field
pre-populated from the task. With flags only the given fields change.

Usage:
  todue edit 42                          - Edit task 42 in the form
  todue edit 42 --title "Pay rent"       - Rename task 42
  todue edit 42 -d tomorrow -p high      - Move the deadline and raise the priority`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		task, err := store.GetTask(taskID)
		if err != nil {
			fmt.Printf("Error: Task #%d not found.\n", taskID)
			return
		}

		upd, changed, err := editUpdateFromFlags(cmd, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		duration, _ := cmd.Flags().GetString("duration")
		durationChanged := cmd.Flags().Changed("duration")

		var seconds *int
		if durationChanged {
			if seconds, err = parser.ParseDuration(duration); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}

		if !changed && !durationChanged {
			if err := tui.RunEditTaskTUI(store, *task); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		if changed {
			task, err = store.UpdateTask(taskID, upd)
			if errors.Is(err, db.ErrEmptyTitle) {
				fmt.Println("⚠️  Task title cannot be empty, task was not changed.")
				return
			}
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}
		if durationChanged {
			if err := store.SetDuration(taskID, seconds); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}

		fmt.Printf("✏️  Updated task #%d: %s\n", task.ID, task.Title)
	}),
}

// editUpdateFromFlags collects the changed fields
func editUpdateFromFlags(cmd *cobra.Command, now time.Time) (db.TaskUpdate, bool, error) {
	var upd db.TaskUpdate
	changed := false

	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		upd.Title = &title
		changed = true
	}
	if cmd.Flags().Changed("deadline") {
		raw, _ := cmd.Flags().GetString("deadline")
		deadline, err := parser.ParseDeadline(strings.TrimSpace(raw), now)
		if err != nil {
			return upd, false, err
		}
		upd.Deadline = &deadline
		changed = true
	}
	if cmd.Flags().Changed("priority") {
		priority, _ := cmd.Flags().GetString("priority")
		upd.Priority = &priority
		changed = true
	}
	return upd, changed, nil
}

func init() {
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().StringP("deadline", "d", "", "New deadline: dd-mm-yyyy, today, tomorrow, X days")
	editCmd.Flags().StringP("priority", "p", "", "New priority: low, medium, high, or 1-3")
	editCmd.Flags().StringP("duration", "t", "", "New expected duration: h:mm:ss, 1h30m or unknown")
}
