package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/todue/internal/db"
	"github.com/balkashynov/todue/internal/models"
	"github.com/balkashynov/todue/internal/parser"
	"github.com/balkashynov/todue/internal/tracker"
	"github.com/balkashynov/todue/internal/urgency"
)

// TimerModel shows the running session of one task
type TimerModel struct {
	width   int
	height  int
	store   *db.Store
	tracker *tracker.Tracker
	task    models.Task
	now     func() time.Time
	events  *timerEvents

	// Animation state
	timerAnimation int

	result *tracker.Result
	err    error
	done   bool
}

// timerEvents is shared between model copies so tracker listeners can
// record what happened
type timerEvents struct {
	reached bool
	elapsed int
}

// animationTickMsg is sent for the header animation
type animationTickMsg struct{}

// NewTimerModel creates the view for a tracker that is timing task
func NewTimerModel(store *db.Store, tr *tracker.Tracker, task models.Task) TimerModel {
	events := &timerEvents{elapsed: task.ElapsedTime}
	tr.OnEvent(func(e tracker.Event) {
		if e.TaskID != task.ID {
			return
		}
		events.elapsed = e.Elapsed
		if e.Kind == tracker.CompletionReached {
			events.reached = true
		}
	})
	return TimerModel{
		store:   store,
		tracker: tr,
		task:    task,
		now:     time.Now,
		events:  events,
	}
}

func (m TimerModel) Init() tea.Cmd {
	return animationTick()
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callbackMsg:
		msg.run()
		if task, err := m.store.GetTask(m.task.ID); err == nil {
			m.task = *task
		}
		return m, nil

	case animationTickMsg:
		m.timerAnimation = (m.timerAnimation + 1) % 4
		if m.done {
			return m, nil
		}
		return m, animationTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S", "ctrl+c", "esc", "q":
			// Leaving the view always closes the session
			m.result, m.err = m.tracker.Stop()
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m TimerModel) progress() tracker.Progress {
	p := m.tracker.ProgressOf(m.task)
	if !p.Running && m.events.elapsed > p.Elapsed {
		p.Elapsed = m.events.elapsed
		p.Percentage = tracker.Percentage(p.Elapsed, m.task.Duration)
	}
	return p
}

func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTimerPanel(m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderTaskPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func (m TimerModel) renderTimerPanel(width, height int) string {
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
	p := m.progress()

	var components []string

	header := "⏹  SESSION CLOSED  ⏹"
	if p.Running {
		anim := []string{"⏱", "⏲", "⏱", "⏲"}[m.timerAnimation]
		header = fmt.Sprintf("%s  TRACKING TIME  %s", anim, anim)
	}
	components = append(components, center.Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).Render(header))

	tag := urgency.Classify(m.task, urgency.Today(m.now()))
	components = append(components, center.Render(
		UrgencyStyle(tag).Bold(true).Render(fmt.Sprintf("#%d %s", m.task.ID, truncate(m.task.Title, width-10))),
	))

	var clock []string
	for _, line := range strings.Split(renderBigClock(p.Elapsed), "\n") {
		clock = append(clock, center.Render(line))
	}
	components = append(components, strings.Join(clock, "\n"))

	components = append(components, center.Render(ProgressBar(p.Percentage, min(width-8, 50))))
	components = append(components, center.Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).
		Render(ElapsedText(p, m.task.Duration)))

	if m.events.reached {
		components = append(components, center.Foreground(lipgloss.Color(ColorSuccess)).Bold(true).
			Render("🎉 Expected duration reached, timer stopped"))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock draws hh:mm:ss (mm:ss under an hour) in block digits
func renderBigClock(seconds int) string {
	text := parser.FormatClock(seconds)
	if seconds < 3600 {
		text = text[3:]
	}

	var lines [5]strings.Builder
	for _, r := range text {
		glyph, ok := bigDigits[r]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i].WriteString(glyph[i])
			lines[i].WriteString(" ")
		}
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = style.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}

func (m TimerModel) renderTaskPanel(width, height int) string {
	task := m.task
	now := m.now()
	tag := urgency.Classify(task, urgency.Today(now))
	row := lipgloss.NewStyle().Align(lipgloss.Center).Width(width - 8)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(row.Foreground(lipgloss.Color(ColorAccentMain)).Bold(true).Render("todue"))
	b.WriteString("\n\n")
	b.WriteString(row.Foreground(lipgloss.Color(ColorBorder)).Render(strings.Repeat("─", min(width-12, 40))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(UrgencyColor(tag)).
		Width(width - 12).
		Padding(0, 1).
		Render(task.Title))
	b.WriteString("\n\n")

	status := "○ todo"
	if task.Completed {
		status = "✅ done"
	}
	lines := []string{
		status,
		fmt.Sprintf("%s Priority: %s", PriorityIcon(task.Priority), task.Priority),
		fmt.Sprintf("📅 Deadline: %s (%s)", UrgencyStyle(tag).Render(task.Deadline), RelativeDeadline(task.Deadline, now)),
	}
	if task.Duration != nil {
		lines = append(lines, "⏳ Expected: "+parser.FormatDuration(*task.Duration))
	} else {
		lines = append(lines, "⏳ Expected: unknown")
	}
	for _, line := range lines {
		b.WriteString(row.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Height(height).Render(b.String())
}

func (m TimerModel) renderHelpBar() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render("s/esc/q stop & save")
}

// TimerOptions configures RunTimerTUI
type TimerOptions struct {
	TickInterval time.Duration
	Logger       *slog.Logger
}

// RunTimerTUI times a task in the interactive view until the user leaves it
func RunTimerTUI(store *db.Store, taskID uint, opts TimerOptions) error {
	task, err := store.GetTask(taskID)
	if err != nil {
		return err
	}

	scheduler := NewScheduler()
	tr := tracker.New(store, tracker.Options{
		Scheduler:    scheduler,
		TickInterval: opts.TickInterval,
		Logger:       opts.Logger,
	})
	model := NewTimerModel(store, tr, *task)

	p := tea.NewProgram(model, tea.WithAltScreen())
	scheduler.Attach(p)
	if err := tr.Start(task.ID); err != nil {
		return err
	}

	finalModel, err := p.Run()
	if err != nil {
		tr.Stop()
		return err
	}

	m := finalModel.(TimerModel)
	if m.err != nil {
		return fmt.Errorf("failed to stop timer: %w", m.err)
	}
	switch {
	case m.events.reached:
		fmt.Printf("🎉 Task #%d: %s reached its expected duration (%s)\n", task.ID, task.Title, parser.FormatClock(m.events.elapsed))
	case m.result != nil:
		fmt.Printf("⏹️  Stopped tracking time for task #%d: %s\n", task.ID, task.Title)
		fmt.Printf("📊 Session: %s · Total: %s\n", parser.FormatDuration(m.result.Worked), parser.FormatClock(m.result.Elapsed))
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
