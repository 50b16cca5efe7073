package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		task, err := store.SetCompleted(taskID, true)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ Marked task #%d as done: %s\n", task.ID, task.Title)
	}),
}

var undoneCmd = &cobra.Command{
	Use:   "undone [task-id]",
	Short: "Mark a completed task back to todo status",
	Args:  cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		task, err := store.SetCompleted(taskID, false)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("↩️  Marked task #%d back to todo: %s\n", task.ID, task.Title)
	}),
}
