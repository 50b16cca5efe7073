package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/todue/internal/calendar"
	"github.com/balkashynov/todue/internal/db"
	"github.com/balkashynov/todue/internal/models"
	"github.com/balkashynov/todue/internal/parser"
	"github.com/balkashynov/todue/internal/reminder"
	"github.com/balkashynov/todue/internal/tracker"
	"github.com/balkashynov/todue/internal/urgency"
)

// Focus represents what UI element has focus
type Focus int

const (
	FocusTable Focus = iota
	FocusSearch
	FocusForm
	FocusConfirmDelete
	FocusCalendar
	FocusLegend
)

// listNotices is shared between model copies; tracker and reminder
// callbacks write to it
type listNotices struct {
	banner    string
	reminders []reminder.Reminder
}

// ListModel represents the TUI model for listing tasks
type ListModel struct {
	width  int
	height int

	store   *db.Store
	tracker *tracker.Tracker
	now     func() time.Time
	notices *listNotices

	// Task data
	tasks        []models.Task
	selectedTask int
	order        urgency.Order

	// UI state
	focus         Focus
	search        textinput.Model
	query         string
	form          *FormModel
	calendarMonth time.Time
	status        string
	err           error

	// Pagination
	currentPage  int
	tasksPerPage int
}

// NewListModel creates the list view
func NewListModel(store *db.Store, tr *tracker.Tracker, order urgency.Order, query string) ListModel {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "title contains..."
	search.CharLimit = 100
	search.SetValue(query)

	notices := &listNotices{}
	tr.OnEvent(func(e tracker.Event) {
		if e.Kind == tracker.CompletionReached {
			notices.banner = fmt.Sprintf("🎉 Task #%d reached its expected duration (%s)", e.TaskID, parser.FormatClock(e.Elapsed))
		}
	})

	m := ListModel{
		store:        store,
		tracker:      tr,
		now:          time.Now,
		notices:      notices,
		order:        order,
		search:       search,
		query:        query,
		tasksPerPage: 10,
	}
	return m.reload()
}

// notifyReminders is the reminder watcher callback
func (m ListModel) notifyReminders(found []reminder.Reminder) {
	m.notices.reminders = found
}

// reload re-reads the tasks, keeping the selected task when it still exists
func (m ListModel) reload() ListModel {
	var selectedID uint
	if m.selectedTask < len(m.tasks) {
		selectedID = m.tasks[m.selectedTask].ID
	}

	tasks, err := m.store.QueryTasks(db.TaskQuery{Search: m.query, Order: m.order})
	if err != nil {
		m.err = err
		return m
	}
	m.tasks = tasks

	m.selectedTask = 0
	for i, t := range tasks {
		if t.ID == selectedID {
			m.selectedTask = i
			break
		}
	}
	return m.syncPage()
}

func (m ListModel) syncPage() ListModel {
	if m.tasksPerPage > 0 {
		m.currentPage = m.selectedTask / m.tasksPerPage
	}
	return m
}

func (m ListModel) selected() (models.Task, bool) {
	if m.selectedTask < 0 || m.selectedTask >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[m.selectedTask], true
}

func (m ListModel) Init() tea.Cmd {
	return nil
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callbackMsg:
		msg.run()
		return m.reload(), nil

	case formClosedMsg:
		m.form = nil
		m.focus = FocusTable
		if msg.task != nil {
			m.status = fmt.Sprintf("Saved task #%d", msg.task.ID)
		}
		m = m.reload()
		if msg.task != nil {
			for i, t := range m.tasks {
				if t.ID == msg.task.ID {
					m.selectedTask = i
				}
			}
			m = m.syncPage()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// header, column titles, pagination, banner and help take about 12 lines
		m.tasksPerPage = max(3, m.height-12)
		m = m.syncPage()
		if m.form != nil {
			form, _ := m.form.Update(msg)
			f := form.(FormModel)
			m.form = &f
		}
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case FocusForm:
			form, cmd := m.form.Update(msg)
			f := form.(FormModel)
			m.form = &f
			return m, cmd
		case FocusSearch:
			return m.handleSearchKeys(msg)
		case FocusConfirmDelete:
			return m.handleConfirmKeys(msg)
		case FocusCalendar:
			return m.handleCalendarKeys(msg)
		case FocusLegend:
			m.focus = FocusTable
			return m, nil
		}
		return m.handleTableKeys(msg)
	}

	if m.focus == FocusSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	if m.focus == FocusForm && m.form != nil {
		form, cmd := m.form.Update(msg)
		f := form.(FormModel)
		m.form = &f
		return m, cmd
	}
	return m, nil
}

func (m ListModel) handleTableKeys(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	m.status = ""
	m.err = nil
	m.notices.banner = ""
	m.notices.reminders = nil

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		if msg.String() == "esc" && m.query != "" {
			m.query = ""
			m.search.SetValue("")
			return m.reload(), nil
		}
		if _, err := m.tracker.Stop(); err != nil {
			m.err = err
		}
		return m, tea.Quit

	case "up", "k":
		if m.selectedTask > 0 {
			m.selectedTask--
		}
		return m.syncPage(), nil

	case "down", "j":
		if m.selectedTask < len(m.tasks)-1 {
			m.selectedTask++
		}
		return m.syncPage(), nil

	case "left", "h":
		if m.currentPage > 0 {
			m.selectedTask = (m.currentPage - 1) * m.tasksPerPage
		}
		return m.syncPage(), nil

	case "right", "l":
		if next := (m.currentPage + 1) * m.tasksPerPage; next < len(m.tasks) {
			m.selectedTask = next
		}
		return m.syncPage(), nil

	case "/":
		m.focus = FocusSearch
		m.search.Focus()
		return m, textinput.Blink

	case "f":
		if m.order == urgency.OrderDeadline {
			m.order = urgency.OrderUrgency
		} else {
			m.order = urgency.OrderDeadline
		}
		m.status = "Sorted by " + m.order.String()
		return m.reload(), nil

	case "s":
		return m.toggleTimer(), nil

	case "d":
		return m.toggleDone(), nil

	case "x":
		if _, ok := m.selected(); ok {
			m.focus = FocusConfirmDelete
		}
		return m, nil

	case "a":
		return m.openForm(NewFormModel(m.store, FormValues{}, m.now))

	case "e":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.openForm(NewEditFormModel(m.store, task, m.now))

	case "c":
		today := urgency.Today(m.now())
		m.calendarMonth = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		m.focus = FocusCalendar
		return m, nil

	case "?":
		m.focus = FocusLegend
		return m, nil
	}
	return m, nil
}

func (m ListModel) openForm(form FormModel) (ListModel, tea.Cmd) {
	form.embedded = true
	if m.width > 0 {
		f, _ := form.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		form = f.(FormModel)
	}
	m.form = &form
	m.focus = FocusForm
	return m, form.Init()
}

func (m ListModel) toggleTimer() ListModel {
	task, ok := m.selected()
	if !ok {
		return m
	}
	if err := m.tracker.Start(task.ID); err != nil {
		m.err = err
		return m
	}
	if id, running := m.tracker.Active(); running && id == task.ID {
		m.status = fmt.Sprintf("⏱  Timing #%d", task.ID)
	} else {
		m.status = fmt.Sprintf("⏹  Stopped #%d", task.ID)
	}
	return m.reload()
}

func (m ListModel) toggleDone() ListModel {
	task, ok := m.selected()
	if !ok {
		return m
	}
	updated, err := m.store.SetCompleted(task.ID, !task.Completed)
	if err != nil {
		m.err = err
		return m
	}
	if updated.Completed {
		m.status = fmt.Sprintf("✅ Completed #%d", task.ID)
	} else {
		m.status = fmt.Sprintf("↩️  Reopened #%d", task.ID)
	}
	return m.reload()
}

func (m ListModel) handleConfirmKeys(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	m.focus = FocusTable
	if msg.String() != "y" && msg.String() != "Y" {
		return m, nil
	}
	task, ok := m.selected()
	if !ok {
		return m, nil
	}
	if id, running := m.tracker.Active(); running && id == task.ID {
		if _, err := m.tracker.Stop(); err != nil {
			m.err = err
			return m, nil
		}
	}
	if _, err := m.store.DeleteTask(task.ID); err != nil {
		m.err = err
		return m, nil
	}
	m.status = fmt.Sprintf("🗑  Deleted #%d", task.ID)
	return m.reload(), nil
}

func (m ListModel) handleCalendarKeys(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.calendarMonth = m.calendarMonth.AddDate(0, -1, 0)
	case "right", "l":
		m.calendarMonth = m.calendarMonth.AddDate(0, 1, 0)
	default:
		m.focus = FocusTable
	}
	return m, nil
}

// handleSearchKeys handles key input when in search mode
func (m ListModel) handleSearchKeys(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = FocusTable
		m.search.Blur()
		m.search.SetValue(m.query)
		return m, nil

	case "enter":
		m.focus = FocusTable
		m.search.Blur()
		m.query = strings.TrimSpace(m.search.Value())
		m.selectedTask = 0
		return m.reload(), nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// View renders the TUI
func (m ListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.focus {
	case FocusForm:
		return m.form.View()
	case FocusCalendar:
		return m.renderOverlay(m.renderCalendar())
	case FocusLegend:
		return m.renderOverlay(RenderLegend() + "\n\n" + dim("press any key"))
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 1
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskTable(leftWidth),
		" ",
		m.renderTaskDetails(rightWidth),
	)

	var bottom string
	switch m.focus {
	case FocusSearch:
		bottom = m.renderSearchBar()
	case FocusConfirmDelete:
		task, _ := m.selected()
		bottom = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Bold(true).
			Render(fmt.Sprintf("Delete task #%d \"%s\"? y/n", task.ID, task.Title))
	default:
		bottom = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderBanner(), content, "", bottom)
}

func (m ListModel) renderBanner() string {
	var lines []string
	if m.notices.banner != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Bold(true).Render(m.notices.banner))
	}
	if len(m.notices.reminders) > 0 {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
		lines = append(lines, style.Render("🔔 "+strings.ReplaceAll(reminder.Message(m.notices.reminders), "\n", "\n🔔 ")))
	}
	if m.err != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("Error: "+m.err.Error()))
	} else if m.status != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(m.status))
	}
	return strings.Join(lines, "\n")
}

// renderTaskTable renders the left panel with the task table
func (m ListModel) renderTaskTable(width int) string {
	var b strings.Builder
	today := urgency.Today(m.now())

	header := fmt.Sprintf("📋 Tasks · by %s", m.order)
	if m.query != "" {
		header += fmt.Sprintf(" · \"%s\"", m.query)
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render(header))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).
			Render("No tasks found. Press a to add one."))
		return m.panel(width).Render(b.String())
	}

	idWidth, dueWidth, prioWidth, timeWidth := 5, 10, 8, 9
	titleWidth := max(12, width-4-idWidth-dueWidth-prioWidth-timeWidth-6)

	columns := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
		idWidth, "ID", titleWidth, "TITLE", dueWidth, "DEADLINE", prioWidth, "PRIORITY", "TIME")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Padding(0, 1).Render(columns))
	b.WriteString("\n\n")

	start := m.currentPage * m.tasksPerPage
	end := min(start+m.tasksPerPage, len(m.tasks))
	active, running := m.tracker.Active()

	for i := start; i < end; i++ {
		task := m.tasks[i]
		tag := urgency.Classify(task, today)

		timeText := "-"
		if p := m.tracker.ProgressOf(task); p.Percentage != nil {
			timeText = fmt.Sprintf("%d%%", *p.Percentage)
		} else if p.Elapsed > 0 {
			timeText = parser.FormatDuration(p.Elapsed)
		}
		if running && active == task.ID {
			timeText = "⏱ " + timeText
		}

		row := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
			idWidth, fmt.Sprintf("#%d", task.ID),
			titleWidth, truncate(task.Title, titleWidth),
			dueWidth, truncate(task.Deadline, dueWidth),
			prioWidth, string(task.Priority),
			timeText)
		row = UrgencyStyle(tag).Render(row)

		if i == m.selectedTask {
			b.WriteString(lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1).
				Render(row))
		} else {
			b.WriteString(" " + row)
		}
		b.WriteString("\n")
	}

	if m.tasksPerPage < len(m.tasks) {
		totalPages := (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1).
			Render(fmt.Sprintf("Page %d/%d (%d tasks)", m.currentPage+1, totalPages, len(m.tasks))))
	}

	return m.panel(width).Render(b.String())
}

func (m ListModel) panel(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width)
}

// renderTaskDetails renders the right panel with task details
func (m ListModel) renderTaskDetails(width int) string {
	task, ok := m.selected()
	if !ok {
		return m.panel(width).Render(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width).
			Render("Select a task to view details"))
	}

	now := m.now()
	tag := urgency.Classify(task, urgency.Today(now))
	var b strings.Builder

	b.WriteString(UrgencyStyle(tag).Bold(true).Width(width - 2).Render("📋 " + task.Title))
	b.WriteString("\n\n")

	status := "○ todo"
	if task.Completed {
		status = "✅ done"
	}
	b.WriteString("Status: " + status + "\n")
	b.WriteString(fmt.Sprintf("Priority: %s %s\n", PriorityIcon(task.Priority), task.Priority))
	b.WriteString(fmt.Sprintf("Deadline: %s (%s)\n", task.Deadline, RelativeDeadline(task.Deadline, now)))
	b.WriteString("Urgency: " + lipgloss.NewStyle().Foreground(UrgencyColor(tag)).Render("● "+tag.Color()) + "\n\n")

	p := m.tracker.ProgressOf(task)
	b.WriteString("Time: " + ElapsedText(p, task.Duration) + "\n")
	b.WriteString(ProgressBar(p.Percentage, min(width-4, 40)))
	if p.Running {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("⏱ running"))
	}

	return m.panel(width).Render(b.String())
}

func (m ListModel) renderCalendar() string {
	all, err := m.store.AllTasks()
	if err != nil {
		return "Error: " + err.Error()
	}
	summaries := calendar.Summarize(all, urgency.Today(m.now()))
	return RenderCalendar(summaries, m.calendarMonth.Year(), m.calendarMonth.Month(), m.now()) +
		"\n\n" + dim("←/→ month · any other key to close")
}

func (m ListModel) renderOverlay(content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentBright)).
		Padding(1, 2).
		Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderSearchBar renders the search bar when active
func (m ListModel) renderSearchBar() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Width(m.width - 2).
		Render(m.search.View())
}

// renderHelpBar renders the help bar with hotkey hints
func (m ListModel) renderHelpBar() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render("↑/↓ nav · ←/→ page · / search · f sort · a add · e edit · d done · x delete · s timer · c calendar · ? legend · q quit")
}

func dim(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Italic(true).Render(s)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ListOptions configures RunListTUI
type ListOptions struct {
	Order            urgency.Order
	Search           string
	TickInterval     time.Duration
	Reminders        bool
	ReminderInterval time.Duration
	Logger           *slog.Logger
}

// RunListTUI runs the interactive task list
func RunListTUI(store *db.Store, opts ListOptions) error {
	scheduler := NewScheduler()
	tr := tracker.New(store, tracker.Options{
		Scheduler:    scheduler,
		TickInterval: opts.TickInterval,
		Logger:       opts.Logger,
	})
	model := NewListModel(store, tr, opts.Order, opts.Search)

	p := tea.NewProgram(model, tea.WithAltScreen())
	scheduler.Attach(p)

	var watcher *reminder.Watcher
	if opts.Reminders {
		watcher = reminder.NewWatcher(store, scheduler, nil, opts.ReminderInterval, model.notifyReminders, opts.Logger)
		watcher.Start()
	}

	finalModel, err := p.Run()
	if watcher != nil {
		watcher.Stop()
	}
	if _, stopErr := tr.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	if err != nil {
		return err
	}
	if m, ok := finalModel.(ListModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
