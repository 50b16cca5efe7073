package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task and its tracked time",
	Long: `Delete a task permanently, together with its work log.

Task IDs are never reused, so the next task gets a new ID.`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		task, err := store.DeleteTask(taskID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("🗑️  Deleted task #%d: %s\n", task.ID, task.Title)
	}),
}
