package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todue/internal/calendar"
	"github.com/balkashynov/todue/internal/tui"
	"github.com/balkashynov/todue/internal/urgency"
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show a month calendar of deadlines",
	Long: `Show a month calendar with every day that has tasks painted in its
urgency color, followed by the titles due on each of those days.

Examples:
  todue calendar                  # Current month
  todue calendar --month 04-2026  # April 2026`,
	Args: cobra.NoArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		now := time.Now()
		year, month := now.Year(), now.Month()
		if m, _ := cmd.Flags().GetString("month"); m != "" {
			y, mo, err := calendar.ParseMonth(m)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			year, month = y, mo
		}

		tasks, err := store.AllTasks()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		summaries := calendar.Summarize(tasks, urgency.Today(now))
		fmt.Println(tui.RenderCalendar(summaries, year, month, now))
	}),
}

func init() {
	calendarCmd.Flags().StringP("month", "m", "", "Month to show as mm-yyyy")
}
