package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todue/internal/csvio"
)

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export all tasks to a CSV file",
	Long: `Write every task to a CSV file with the columns
Title,Deadline,Priority,Completed. The path defaults to csv.path from the
config (tasks.csv).`,
	Args: cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		path := csvPath(args)
		tasks, err := store.AllTasks()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if err := csvio.WriteFile(path, tasks); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("📤 Exported %d tasks to %s\n", len(tasks), path)
	}),
}

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import tasks from a CSV file",
	Long: `Append the tasks of a CSV file (Title,Deadline,Priority,Completed) as new
tasks. Existing tasks are kept and duplicates are not detected. Nothing is
imported when any row is malformed.`,
	Args: cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		path := csvPath(args)
		tasks, err := csvio.ReadFile(path)
		if errors.Is(err, csvio.ErrFileNotFound) {
			fmt.Printf("⚠️  No CSV file found at %s, nothing was imported.\n", path)
			return
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		n, err := store.ImportTasks(tasks)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("📥 Imported %d tasks from %s\n", n, path)
	}),
}

func csvPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg != nil && cfg.CSV.Path != "" {
		return cfg.CSV.Path
	}
	return csvio.DefaultPath
}
