package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/todue/internal/db"
	"github.com/balkashynov/todue/internal/models"
	"github.com/balkashynov/todue/internal/parser"
	"github.com/balkashynov/todue/internal/urgency"
)

// Field is one input of the task form
type Field int

const (
	FieldTitle Field = iota
	FieldDeadline
	FieldPriority
	FieldDuration
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Deadline", "Priority", "Duration"}

// FormValues is the raw text of every field
type FormValues struct {
	Title    string
	Deadline string
	Priority string
	Duration string
}

func (v FormValues) slice() [fieldCount]string {
	return [fieldCount]string{v.Title, v.Deadline, v.Priority, v.Duration}
}

// ValuesFromTask fills the form from a stored task
func ValuesFromTask(task models.Task) FormValues {
	duration := "unknown"
	if task.Duration != nil {
		duration = parser.FormatClock(*task.Duration)
	}
	return FormValues{
		Title:    task.Title,
		Deadline: task.Deadline,
		Priority: string(task.Priority),
		Duration: duration,
	}
}

// formClosedMsg tells the embedding model the form is gone
type formClosedMsg struct {
	task *models.Task
	err  error
}

// FormModel adds or edits a task
type FormModel struct {
	store  *db.Store
	now    func() time.Time
	inputs []textinput.Model
	focus  Field
	width  int
	height int

	editID   uint // 0 when creating
	initial  [fieldCount]string
	embedded bool // inside the list instead of its own program

	validationErr   string
	err             error
	saved           *models.Task
	cancelled       bool
	showSaveModal   bool
	saveModalChoice bool
}

// NewFormModel creates a form for a new task
func NewFormModel(store *db.Store, values FormValues, now func() time.Time) FormModel {
	if now == nil {
		now = time.Now
	}
	placeholders := [fieldCount]string{
		"Enter task title... (required)",
		"dd-mm-yyyy, today, tomorrow, 3 days (Enter for today)",
		"low/medium/high or 1/2/3 (Enter for medium)",
		"h:mm:ss, 1h30m or unknown (Enter for unknown)",
	}
	limits := [fieldCount]int{200, 30, 10, 20}

	inputs := make([]textinput.Model, fieldCount)
	initial := values.slice()
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 50
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = limits[i]
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
		inputs[i].SetValue(initial[i])
	}
	inputs[FieldTitle].Focus()

	return FormModel{
		store:   store,
		now:     now,
		inputs:  inputs,
		initial: initial,
	}
}

// NewEditFormModel creates a form pre-filled with an existing task
func NewEditFormModel(store *db.Store, task models.Task, now func() time.Time) FormModel {
	m := NewFormModel(store, ValuesFromTask(task), now)
	m.editID = task.ID
	return m
}

func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputWidth := m.width*2/3 - 14
		if inputWidth < 30 {
			inputWidth = 30
		}
		if inputWidth > 70 {
			inputWidth = 70
		}
		for i := range m.inputs {
			m.inputs[i].Width = inputWidth
		}
		return m, nil

	case tea.KeyMsg:
		if m.showSaveModal {
			return m.handleModalKeys(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, m.finish()

		case "esc":
			if !m.hasChanges() {
				m.cancelled = true
				return m, m.finish()
			}
			m.showSaveModal = true
			m.saveModalChoice = true
			return m, nil

		case "enter":
			return m.handleEnter()

		case "tab", "down":
			return m.moveFocus(1)

		case "shift+tab", "up":
			return m.moveFocus(-1)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m FormModel) handleModalKeys(msg tea.KeyMsg) (FormModel, tea.Cmd) {
	switch msg.String() {
	case "left", "right":
		m.saveModalChoice = !m.saveModalChoice
	case "y", "Y":
		m.showSaveModal = false
		return m.save()
	case "n", "N":
		m.showSaveModal = false
		m.cancelled = true
		return m, m.finish()
	case "enter":
		m.showSaveModal = false
		if m.saveModalChoice {
			return m.save()
		}
		m.cancelled = true
		return m, m.finish()
	case "esc":
		m.showSaveModal = false
	case "ctrl+c":
		m.cancelled = true
		return m, m.finish()
	}
	return m, nil
}

// handleEnter validates the focused field and moves on, saving after the last
func (m FormModel) handleEnter() (FormModel, tea.Cmd) {
	m.validationErr = ""
	if msg := m.validate(m.focus); msg != "" {
		m.validationErr = msg
		return m, nil
	}
	if m.focus == fieldCount-1 {
		return m.save()
	}
	return m.moveFocus(1)
}

func (m FormModel) moveFocus(delta int) (FormModel, tea.Cmd) {
	next := int(m.focus) + delta
	if next < 0 || next >= int(fieldCount) {
		return m, nil
	}
	if delta > 0 && m.focus == FieldTitle && strings.TrimSpace(m.value(FieldTitle)) == "" {
		m.validationErr = "Task title is required"
		return m, nil
	}
	m.inputs[m.focus].Blur()
	m.focus = Field(next)
	m.inputs[m.focus].Focus()
	return m, textinput.Blink
}

// validate returns a message for an invalid field, empty when fine
func (m FormModel) validate(f Field) string {
	value := strings.TrimSpace(m.value(f))
	switch f {
	case FieldTitle:
		if value == "" {
			return "Task title is required"
		}
	case FieldDeadline:
		if value == "" {
			return ""
		}
		if _, err := parser.ParseDeadline(value, m.now()); err != nil {
			return err.Error()
		}
	case FieldPriority:
		if value == "" {
			return ""
		}
		if _, err := parser.ParsePriority(value); err != nil {
			return "Invalid priority. Use: low, medium, high, 1, 2, or 3"
		}
	case FieldDuration:
		if value == "" {
			return ""
		}
		if _, err := parser.ParseDuration(value); err != nil {
			return err.Error()
		}
	}
	return ""
}

func (m FormModel) value(f Field) string {
	return m.inputs[f].Value()
}

func (m FormModel) hasChanges() bool {
	for i := range m.inputs {
		if strings.TrimSpace(m.inputs[i].Value()) != strings.TrimSpace(m.initial[i]) {
			return true
		}
	}
	return false
}

// save validates every field and writes the task
func (m FormModel) save() (FormModel, tea.Cmd) {
	for f := FieldTitle; f < fieldCount; f++ {
		if msg := m.validate(f); msg != "" {
			m.validationErr = fmt.Sprintf("%s: %s", fieldLabels[f], msg)
			m.inputs[m.focus].Blur()
			m.focus = f
			m.inputs[f].Focus()
			return m, nil
		}
	}

	deadline := strings.TrimSpace(m.value(FieldDeadline))
	if deadline != "" {
		deadline, _ = parser.ParseDeadline(deadline, m.now())
	}
	// empty input leaves the duration unknown
	duration, _ := parser.ParseDuration(m.value(FieldDuration))

	var task *models.Task
	var err error
	if m.editID == 0 {
		task, err = m.store.CreateTask(db.CreateTaskRequest{
			Title:    m.value(FieldTitle),
			Deadline: deadline,
			Priority: strings.TrimSpace(m.value(FieldPriority)),
			Duration: duration,
		})
	} else {
		task, err = m.update(deadline, duration)
	}
	if err != nil {
		m.validationErr = err.Error()
		return m, nil
	}

	m.saved = task
	return m, m.finish()
}

func (m FormModel) update(deadline string, duration *int) (*models.Task, error) {
	title := m.value(FieldTitle)
	upd := db.TaskUpdate{Title: &title}
	if deadline != "" && strings.TrimSpace(m.value(FieldDeadline)) != m.initial[FieldDeadline] {
		upd.Deadline = &deadline
	}
	if p := strings.TrimSpace(m.value(FieldPriority)); p != "" {
		upd.Priority = &p
	}
	task, err := m.store.UpdateTask(m.editID, upd)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(m.value(FieldDuration)) != strings.TrimSpace(m.initial[FieldDuration]) {
		if err := m.store.SetDuration(m.editID, duration); err != nil {
			return nil, err
		}
		task.Duration = duration
	}
	return task, nil
}

func (m FormModel) finish() tea.Cmd {
	if !m.embedded {
		return tea.Quit
	}
	task := m.saved
	return func() tea.Msg { return formClosedMsg{task: task} }
}

// preview builds the task as it would be saved, for the live preview
func (m FormModel) preview() models.Task {
	task := models.Task{
		ID:       m.editID,
		Title:    strings.TrimSpace(m.value(FieldTitle)),
		Deadline: urgency.FormatDeadline(urgency.Today(m.now())),
		Priority: models.PriorityMedium,
	}
	if d, err := parser.ParseDeadline(m.value(FieldDeadline), m.now()); err == nil {
		task.Deadline = d
	}
	if p, err := parser.ParsePriority(m.value(FieldPriority)); err == nil {
		task.Priority = p
	}
	if d, err := parser.ParseDuration(m.value(FieldDuration)); err == nil {
		task.Duration = d
	}
	return task
}

func (m FormModel) View() string {
	if m.cancelled || m.saved != nil {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	if m.showSaveModal {
		return m.renderSaveModal()
	}

	form := m.renderForm()
	if m.width < 80 {
		return form
	}

	leftWidth := m.width*2/3 - 2
	rightWidth := m.width - leftWidth - 4
	left := lipgloss.NewStyle().
		Width(leftWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1).
		Render(form)
	right := lipgloss.NewStyle().
		Width(rightWidth).
		Padding(1).
		Render(m.renderPreview())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m FormModel) renderForm() string {
	var b strings.Builder

	heading := "➕ New task"
	if m.editID != 0 {
		heading = fmt.Sprintf("✏️  Edit task #%d", m.editID)
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentMain)).Render(heading))
	b.WriteString("\n\n")

	for f := FieldTitle; f < fieldCount; f++ {
		labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
		if f == m.focus {
			labelStyle = labelStyle.Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
		}
		b.WriteString(labelStyle.Render(fieldLabels[f]))
		b.WriteString("\n")
		b.WriteString(m.inputs[f].View())
		b.WriteString("\n\n")
	}

	if m.validationErr != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("⚠ " + m.validationErr))
		b.WriteString("\n\n")
	}

	help := "enter next/save · tab/shift+tab move · esc cancel"
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Italic(true).Render(help))
	return b.String()
}

func (m FormModel) renderPreview() string {
	task := m.preview()
	now := m.now()
	tag := urgency.Classify(task, urgency.Today(now))

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render("Preview"))
	b.WriteString("\n\n")

	title := task.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(UrgencyStyle(tag).Bold(true).Render(title))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("📅 %s (%s)\n", task.Deadline, RelativeDeadline(task.Deadline, now)))
	b.WriteString(fmt.Sprintf("%s %s\n", PriorityIcon(task.Priority), task.Priority))
	if task.Duration != nil {
		b.WriteString(fmt.Sprintf("⏱  %s\n", parser.FormatDuration(*task.Duration)))
	} else {
		b.WriteString("⏱  unknown\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(UrgencyColor(tag)).Render("● " + tag.Color()))
	return b.String()
}

// renderSaveModal renders the save confirmation dialog
func (m FormModel) renderSaveModal() string {
	yesStyle := lipgloss.NewStyle().Padding(0, 2)
	noStyle := lipgloss.NewStyle().Padding(0, 2)
	if m.saveModalChoice {
		yesStyle = yesStyle.Background(lipgloss.Color(ColorAccentBright)).Foreground(lipgloss.Color("#000000")).Bold(true)
	} else {
		noStyle = noStyle.Background(lipgloss.Color(ColorError)).Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	}

	var content strings.Builder
	content.WriteString("Save changes?\n\n")
	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, yesStyle.Render("Yes"), "   ", noStyle.Render("No")))
	content.WriteString("\n\n← → or Y/N to choose, Enter to confirm\nEsc to keep editing")

	modal := lipgloss.NewStyle().
		Width(50).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentBright)).
		Background(lipgloss.Color(ColorCardBackground)).
		Padding(1).
		Align(lipgloss.Center).
		Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

// RunAddTaskTUI opens the form for a new task
func RunAddTaskTUI(store *db.Store, values FormValues) error {
	return runForm(NewFormModel(store, values, nil), "added")
}

// RunEditTaskTUI opens the form for an existing task
func RunEditTaskTUI(store *db.Store, task models.Task) error {
	return runForm(NewEditFormModel(store, task, nil), "updated")
}

func runForm(model FormModel, verb string) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(FormModel); ok {
		switch {
		case m.saved != nil:
			fmt.Printf("✅ Task \"%s\" %s - ID: %d\n", m.saved.Title, verb, m.saved.ID)
		case m.cancelled:
			fmt.Println("❌ Cancelled.")
		}
	}
	return nil
}
