package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/balkashynov/todue/internal/models"
)

// ErrInvalidPriority is returned for unknown priority names
var ErrInvalidPriority = errors.New("invalid priority, use: low, medium, high, 1, 2, or 3")

var (
	priorityRegex = regexp.MustCompile(`(?:^|\s)\+([a-zA-Z0-9]+)`)
	dueRegex      = regexp.MustCompile(`(?:^|\s)due:(\S+)`)
	durationRegex = regexp.MustCompile(`(?:^|\s)~(\S+)`)
)

// ParsedTask represents a task parsed from a one-line description
type ParsedTask struct {
	Title    string
	Priority string
	Deadline string
	Duration *int
	Errors   []string
}

// ParseTitle extracts metadata from a task title using natural syntax
// Syntax: "Task title +priority due:tomorrow ~1h30m"
func ParseTitle(input string, now time.Time) ParsedTask {
	result := ParsedTask{Errors: []string{}}

	// Extract priority (+high, +3, +medium, etc.)
	if m := priorityRegex.FindStringSubmatch(input); len(m) > 1 {
		if p, err := ParsePriority(m[1]); err != nil {
			result.Errors = append(result.Errors, "Invalid priority '"+m[1]+"'. Use: low, medium, high, 1, 2, or 3")
		} else {
			result.Priority = string(p)
		}
		input = priorityRegex.ReplaceAllString(input, " ")
	}

	// Extract deadline (due:3days, due:15-12-2026, etc.)
	if m := dueRegex.FindStringSubmatch(input); len(m) > 1 {
		deadline, err := ParseDeadline(m[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid deadline '"+m[1]+"': "+err.Error())
		} else {
			result.Deadline = deadline
		}
		input = dueRegex.ReplaceAllString(input, " ")
	}

	// Extract expected duration (~1h30m, ~0:45)
	if m := durationRegex.FindStringSubmatch(input); len(m) > 1 {
		d, err := ParseDuration(m[1])
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.Duration = d
		}
		input = durationRegex.ReplaceAllString(input, " ")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")
	return result
}

// ParsePriority converts user input to a priority
func ParsePriority(input string) (models.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1", "low":
		return models.PriorityLow, nil
	case "2", "medium", "med":
		return models.PriorityMedium, nil
	case "3", "high":
		return models.PriorityHigh, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, input)
	}
}
