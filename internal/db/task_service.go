package db

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/todue/internal/models"
	"github.com/balkashynov/todue/internal/parser"
	"github.com/balkashynov/todue/internal/urgency"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrPastDeadline    = errors.New("deadline cannot be in the past")
	ErrInvalidDeadline = errors.New("invalid deadline, use dd-mm-yyyy")
)

// CreateTaskRequest holds the data needed to create a new task
type CreateTaskRequest struct {
	Title    string
	Deadline string // dd-mm-yyyy, empty means today
	Priority string // low/medium/high or 1/2/3, empty means medium
	Duration *int   // seconds, nil when unknown
}

// TaskUpdate holds the fields to change; nil fields are left alone
type TaskUpdate struct {
	Title    *string
	Deadline *string
	Priority *string
}

// TaskQuery selects and orders tasks
type TaskQuery struct {
	Search string
	Order  urgency.Order
}

// CreateTask validates and stores a new task
func (s *Store) CreateTask(req CreateTaskRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	deadline := req.Deadline
	if strings.TrimSpace(deadline) == "" {
		deadline = urgency.FormatDeadline(urgency.Today(s.now()))
	}
	deadline, err := s.validateDeadline(deadline)
	if err != nil {
		return nil, err
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		if priority, err = parser.ParsePriority(req.Priority); err != nil {
			return nil, err
		}
	}

	if req.Duration != nil && *req.Duration < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", parser.ErrInvalidDuration)
	}

	task := models.Task{
		Title:    title,
		Deadline: deadline,
		Priority: priority,
		Duration: req.Duration,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// validateDeadline checks the format and rejects dates before today. It
// returns the deadline in canonical dd-mm-yyyy form.
func (s *Store) validateDeadline(deadline string) (string, error) {
	date, err := urgency.ParseDeadline(strings.TrimSpace(deadline))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDeadline, deadline)
	}
	if date.Before(urgency.Today(s.now())) {
		return "", ErrPastDeadline
	}
	return urgency.FormatDeadline(date), nil
}

// GetTask retrieves a task by ID
func (s *Store) GetTask(id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task #%d: %w", id, ErrTaskNotFound)
		}
		return nil, fmt.Errorf("failed to find task #%d: %w", id, err)
	}
	return &task, nil
}

// AllTasks returns every task in insertion order
func (s *Store) AllTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return tasks, nil
}

// IncompleteTasks returns the tasks not marked as completed
func (s *Store) IncompleteTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Where("completed = ? OR completed IS NULL", false).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return tasks, nil
}

// QueryTasks returns the tasks matching the search, in the requested order
func (s *Store) QueryTasks(q TaskQuery) ([]models.Task, error) {
	tasks, err := s.AllTasks()
	if err != nil {
		return nil, err
	}
	tasks = urgency.Filter(tasks, q.Search)
	return urgency.Sort(tasks, q.Order, urgency.Today(s.now())), nil
}

// UpdateTask applies a partial update
func (s *Store) UpdateTask(id uint, u TaskUpdate) (*models.Task, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		changes["title"] = title
	}
	if u.Deadline != nil {
		deadline, err := s.validateDeadline(*u.Deadline)
		if err != nil {
			return nil, err
		}
		changes["deadline"] = deadline
	}
	if u.Priority != nil {
		priority, err := parser.ParsePriority(*u.Priority)
		if err != nil {
			return nil, err
		}
		changes["priority"] = priority
	}
	if len(changes) == 0 {
		return task, nil
	}

	if err := s.db.Model(&models.Task{}).Where("id = ?", id).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("failed to update task #%d: %w", id, err)
	}
	return s.GetTask(id)
}

// SetCompleted marks a task as done or back to todo
func (s *Store) SetCompleted(id uint, completed bool) (*models.Task, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	if task.Completed == completed {
		if completed {
			return nil, fmt.Errorf("task #%d is already completed", id)
		}
		return nil, fmt.Errorf("task #%d is not completed", id)
	}

	if err := s.db.Model(&models.Task{}).Where("id = ?", id).Update("completed", completed).Error; err != nil {
		return nil, fmt.Errorf("failed to update task #%d: %w", id, err)
	}
	task.Completed = completed
	return task, nil
}

// SetDuration sets the expected effort in seconds; nil clears it to unknown
func (s *Store) SetDuration(id uint, seconds *int) error {
	if seconds != nil && *seconds < 0 {
		return fmt.Errorf("%w: duration cannot be negative", parser.ErrInvalidDuration)
	}
	var value interface{}
	if seconds != nil {
		value = *seconds
	}
	return s.updateColumn(id, "duration", value)
}

// SetElapsed persists the worked seconds of a task in a single statement
func (s *Store) SetElapsed(id uint, seconds int) error {
	if seconds < 0 {
		seconds = 0
	}
	return s.updateColumn(id, "elapsed_time", seconds)
}

func (s *Store) updateColumn(id uint, column string, value interface{}) error {
	result := s.db.Model(&models.Task{}).Where("id = ?", id).Update(column, value)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task #%d: %w", id, err)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("task #%d: %w", id, ErrTaskNotFound)
	}
	return nil
}

// DeleteTask removes a task and its work log
func (s *Store) DeleteTask(id uint) (*models.Task, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.WorkLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete task #%d: %w", id, err)
	}
	return task, nil
}

// ImportTasks appends tasks as new rows without duplicate detection or
// deadline validation. Either every row is stored or none is.
func (s *Store) ImportTasks(tasks []models.Task) (int, error) {
	if len(tasks) == 0 {
		return 0, nil
	}
	rows := make([]models.Task, len(tasks))
	for i, t := range tasks {
		t.ID = 0
		rows[i] = t
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import tasks: %w", err)
	}
	return len(rows), nil
}
