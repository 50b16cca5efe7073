package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for todue",
	Long:  `Display detailed help for all todue commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
████████╗ ██████╗ ██████╗ ██╗   ██╗███████╗
╚══██╔══╝██╔═══██╗██╔══██╗██║   ██║██╔════╝
   ██║   ██║   ██║██║  ██║██║   ██║█████╗
   ██║   ██║   ██║██║  ██║██║   ██║██╔══╝
   ██║   ╚██████╔╝██████╔╝╚██████╔╝███████╗
   ╚═╝    ╚═════╝ ╚═════╝  ╚═════╝ ╚══════╝

todue - deadlines, urgency colors and time tracking

COMMANDS:

  add <task>              Create a new task with smart parsing
    -d, --deadline        Deadline: dd-mm-yyyy, today, tomorrow, 3 days
    -p, --priority        Priority: low|medium|high or 1|2|3
    -t, --duration        Expected duration: h:mm:ss, 1h30m, unknown
    -i, --interactive     Open the form

    Smart syntax:
      +priority     Set priority (low/medium/high)
      due:tomorrow  Set deadline
      ~1h30m        Set expected duration

    Example:
      todue add "Write report +high due:tomorrow ~1h30m"

  ls                      List and manage tasks with interactive UI
    --sort                deadline|urgency
    -s, --search          Only titles containing text
    --no-ui               Colored table output
    --json                JSON output

    Quick actions:
      ↑/↓           Navigate tasks
      ←/→           Change page
      /             Search
      f             Toggle deadline/urgency order
      a             Add a task
      e             Edit selected task
      s             Start/stop timer
      d             Mark done/undone
      x             Delete
      c             Calendar
      ?             Color legend
      esc/q         Quit

  search <query>          Same as ls --search
  edit <id>               Edit a task in the form or with flags
    --title, -d, -p, -t   Change fields without the form

  done <id>               Mark task as completed
  undone <id>             Mark task as todo
  rm <id>                 Delete a task and its tracked time

  start <id>              Track time with the interactive timer
    --no-ui               Track in the foreground until Ctrl+C
  duration <id> <value>   Set or clear (unknown) the expected duration
  time <id>               Show tracked time and percentage

  report                  Weekly timesheet of tracked time
    --weeks-ago           Show an earlier week
  calendar                Month calendar of deadlines
    -m, --month           mm-yyyy
  remind                  Tasks due today and missed deadlines
  legend                  Explain the urgency colors

  export [path]           Write tasks to CSV (default tasks.csv)
  import [path]           Append tasks from CSV

  config init             Write ~/.todue/config.yaml
  config show             Print the effective configuration
  version                 Show version
  help                    Show this help

Global flags:
  --config <path>         Use another config file

`)
}
