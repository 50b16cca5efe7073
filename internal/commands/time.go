package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"

	"github.com/balkashynov/todue/internal/db"
	"github.com/balkashynov/todue/internal/parser"
	"github.com/balkashynov/todue/internal/sched"
	"github.com/balkashynov/todue/internal/tracker"
	"github.com/balkashynov/todue/internal/tui"
)

const shutdownTimeout = 5 * time.Second

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start tracking time on a task",
	Long: `Start tracking time on a task. Opens the interactive timer by default, use
--no-ui to track in the foreground until the expected duration is reached or
Ctrl+C is pressed. Time is saved every second either way.

Examples:
  todue start 42         # Start timer with interactive UI
  todue start 42 --no-ui # Track in the foreground without UI`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if !cmd.Flags().Changed("no-ui") {
			noUI = cfg.UI.NoUI
		}

		if noUI {
			err = runForegroundTimer(context.Background(), taskID, os.Stdout)
		} else {
			err = tui.RunTimerTUI(store, taskID, tui.TimerOptions{
				TickInterval: cfg.Tracker.TickInterval,
				Logger:       logger,
			})
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

// runForegroundTimer runs the tracker on an event loop until the task
// reaches its duration or a shutdown is triggered, by a signal or by
// cancelling trigger
func runForegroundTimer(trigger context.Context, taskID uint, out io.Writer) error {
	task, err := store.GetTask(taskID)
	if err != nil {
		return err
	}

	// The loop outlives every shutdown operation queued on it
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loop := sched.NewLoop()
	loopDone := make(chan struct{})
	go func() {
		loop.Run(loopCtx)
		close(loopDone)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	tr := tracker.New(store, tracker.Options{
		Scheduler:    loop,
		TickInterval: cfg.Tracker.TickInterval,
		Logger:       logger,
	})
	finished := make(chan tracker.Event, 1)
	tr.OnEvent(func(e tracker.Event) {
		if e.Kind == tracker.CompletionReached {
			finished <- e
		}
	})

	if err := loop.Call(loopCtx, func() error { return tr.Start(taskID) }); err != nil {
		return err
	}
	fmt.Fprintf(out, "⏱️  Started tracking time for task #%d: %s\n", task.ID, task.Title)
	if task.Duration != nil {
		fmt.Fprintf(out, "Expected duration: %s\n", parser.FormatClock(*task.Duration))
	}
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	var printProgress func()
	printProgress = func() {
		p, ok := tr.Progress()
		if !ok {
			return
		}
		line := parser.FormatClock(p.Elapsed)
		if p.Percentage != nil {
			line = fmt.Sprintf("%s  %3d%%", line, *p.Percentage)
		}
		fmt.Fprintf(out, "\r%s", line)
		loop.Schedule(time.Second, printProgress)
	}
	loop.Post(printProgress)

	stopped := make(chan *tracker.Result, 1)
	wait := gfshutdown.GracefulShutdown(
		trigger,
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"tracker": func(ctx context.Context) error {
				return loop.Call(ctx, func() error {
					result, err := tr.Stop()
					stopped <- result
					return err
				})
			},
		},
	)

	select {
	case e := <-finished:
		fmt.Fprintf(out, "\n🎉 Task #%d reached its expected duration (%s)\n", e.TaskID, parser.FormatClock(e.Elapsed))
		return nil
	case code := <-wait:
		fmt.Fprintln(out)
		var result *tracker.Result
		select {
		case result = <-stopped:
		default:
		}
		if result == nil {
			if code != 0 {
				return errors.New("timer did not stop cleanly")
			}
			return nil
		}
		fmt.Fprintf(out, "⏹️  Stopped tracking time for task #%d: %s\n", result.TaskID, task.Title)
		fmt.Fprintf(out, "Session duration: %s\n", parser.FormatDuration(result.Worked))
		fmt.Fprintf(out, "Total tracked: %s\n", parser.FormatClock(result.Elapsed))
		return nil
	}
}

var durationCmd = &cobra.Command{
	Use:   "duration <task-id> <duration>",
	Short: "Set the expected duration of a task",
	Long: `Set how long a task is expected to take. The tracker shows a percentage
against it and stops once it is reached.

Formats: h:mm:ss, h:mm, 1h30m, 45m, 20s. Use 'unknown' to clear it.

Examples:
  todue duration 42 1:30:00
  todue duration 42 unknown`,
	Args: cobra.ExactArgs(2),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		seconds, err := parser.ParseDuration(args[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if err := store.SetDuration(taskID, seconds); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if seconds == nil {
			fmt.Printf("Cleared the duration of task #%d\n", taskID)
			return
		}
		fmt.Printf("Set the duration of task #%d to %s\n", taskID, parser.FormatClock(*seconds))
	}),
}

var timeCmd = &cobra.Command{
	Use:   "time <task-id>",
	Short: "Show tracked time for a task",
	Args:  cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		task, err := store.GetTask(taskID)
		if errors.Is(err, db.ErrTaskNotFound) {
			fmt.Printf("Error: Task #%d not found.\n", taskID)
			return
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		progress := tracker.Progress{TaskID: task.ID, Elapsed: task.ElapsedTime}
		progress.Percentage = tracker.Percentage(task.ElapsedTime, task.Duration)

		fmt.Printf("⏱️  Task #%d: %s\n", task.ID, task.Title)
		fmt.Printf("Tracked: %s\n", tui.ElapsedText(progress, task.Duration))
		fmt.Println(tui.ProgressBar(progress.Percentage, 40))
	}),
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Track in the foreground without interactive UI")
}
