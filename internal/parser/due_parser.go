package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/todue/internal/models"
)

var (
	dateRegex     = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})$`)
	relativeRegex = regexp.MustCompile(`^(?:in\s+)?(\d+)\s*(d|day|days|w|week|weeks)$`)
)

// ParseDeadline turns user input into a dd-mm-yyyy deadline.
// Supported formats:
// - dd-mm-yyyy, dd/mm/yyyy or dd.mm.yyyy (e.g., "15-12-2026")
// - today, tomorrow
// - X days / X weeks (e.g., "3 days", "2w")
func ParseDeadline(input string, now time.Time) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", fmt.Errorf("deadline is empty")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch input {
	case "today":
		return today.Format(models.DeadlineLayout), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format(models.DeadlineLayout), nil
	}

	if date, err := parseDateFormat(input); err == nil {
		return date.Format(models.DeadlineLayout), nil
	}

	if days, err := parseRelativeDays(input); err == nil {
		return today.AddDate(0, 0, days).Format(models.DeadlineLayout), nil
	}

	return "", fmt.Errorf("invalid deadline %q. Use: dd-mm-yyyy, today, tomorrow, X days or X weeks", input)
}

// parseDateFormat parses dd-mm-yyyy with -, / or . separators
func parseDateFormat(input string) (time.Time, error) {
	matches := dateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return time.Time{}, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	// Check if date is valid (handles leap years, etc.)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return date, nil
}

// parseRelativeDays parses "3 days", "1 week", "2w" into a day count
func parseRelativeDays(input string) (int, error) {
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid relative format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "d", "day", "days":
		if amount > 3650 {
			return 0, fmt.Errorf("days must be at most 3650")
		}
		return amount, nil
	default:
		if amount > 520 {
			return 0, fmt.Errorf("weeks must be at most 520")
		}
		return amount * 7, nil
	}
}

// DescribeDeadline formats a stored deadline for display relative to today
func DescribeDeadline(deadline string, now time.Time) string {
	date, err := time.ParseInLocation("2-1-2006", deadline, time.UTC)
	if err != nil {
		return fmt.Sprintf("❓ Unreadable deadline (%s)", deadline)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	daysDiff := int(date.Sub(today).Hours() / 24)

	// Always show the actual date to avoid confusion
	dateStr := date.Format(models.DeadlineLayout)

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("⚠️ OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("🔥 Due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("📅 Due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("📅 Due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("📅 Due %s", dateStr)
	}
}
