package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todue/internal/reminder"
	"github.com/balkashynov/todue/internal/urgency"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "List tasks due today and missed deadlines",
	Long: `Scan incomplete tasks once and print a reminder for every task due today
and every missed deadline. The interactive list runs the same scan every hour.`,
	Args: cobra.NoArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		tasks, err := store.IncompleteTasks()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		found := reminder.Scan(tasks, urgency.Today(time.Now()))
		if len(found) == 0 {
			fmt.Println("🎉 Nothing due today and no missed deadlines.")
			return
		}
		for _, r := range found {
			fmt.Println("🔔 " + r.String())
		}
	}),
}
