// Package csvio reads and writes the Title,Deadline,Priority,Completed task
// interchange file.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/balkashynov/todue/internal/models"
)

// DefaultPath is the file used when none is given
const DefaultPath = "tasks.csv"

// ErrFileNotFound is returned by ReadFile when the file does not exist. It
// wraps fs.ErrNotExist.
var ErrFileNotFound = fmt.Errorf("csv file not found: %w", fs.ErrNotExist)

var header = []string{"Title", "Deadline", "Priority", "Completed"}

// Write writes the header and one row per task
func Write(w io.Writer, tasks []models.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range tasks {
		completed := "0"
		if t.Completed {
			completed = "1"
		}
		if err := cw.Write([]string{t.Title, t.Deadline, string(t.Priority), completed}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile replaces path with the exported tasks
func WriteFile(path string, tasks []models.Task) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, tasks); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// Read parses every row before returning, so a bad row yields no tasks at
// all. Deadlines and priorities are taken as written.
func Read(r io.Reader) ([]models.Task, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if isHeader(rows[0]) {
		rows = rows[1:]
	}

	tasks := make([]models.Task, 0, len(rows))
	for i, row := range rows {
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("row %d: expected 4 columns, got %d", i+1, len(row))
		}
		completed, err := parseCompleted(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		tasks = append(tasks, models.Task{
			Title:     row[0],
			Deadline:  row[1],
			Priority:  models.Priority(row[2]),
			Completed: completed,
		})
	}
	return tasks, nil
}

// ReadFile reads tasks from path
func ReadFile(path string) ([]models.Task, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), header[0])
}

func parseCompleted(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true":
		return true, nil
	case "0", "false", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid completed value %q, use 1/0 or true/false", value)
	}
}
