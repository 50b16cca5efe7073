package parser

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidDuration is returned for durations that cannot be applied
var ErrInvalidDuration = errors.New("invalid duration")

// maxHours keeps hours*3600 + 59*60 + 59 within int
const maxHours = (math.MaxInt - 3599) / 3600

var (
	clockDurationRegex = regexp.MustCompile(`^(\d+):(\d+)(?::(\d+))?$`)
	unitDurationRegex  = regexp.MustCompile(`^(?:(\d+)h)?\s*(?:(\d+)m)?\s*(?:(\d+)s)?$`)
)

// ParseDuration parses an expected effort. It accepts "h:mm", "h:mm:ss",
// "1h30m", "45m", "20s" and "unknown". The result is nil for unknown.
func ParseDuration(input string) (*int, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "unknown", "?", "none", "-":
		return nil, nil
	case "":
		return nil, fmt.Errorf("%w: empty value", ErrInvalidDuration)
	}

	m := clockDurationRegex.FindStringSubmatch(input)
	if m == nil {
		m = unitDurationRegex.FindStringSubmatch(input)
	}
	if m != nil {
		var parts [3]int
		for i := range parts {
			n, err := atoi(m[i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: %q is out of range", ErrInvalidDuration, input)
			}
			parts[i] = n
		}
		seconds, err := DurationFromHMS(parts[0], parts[1], parts[2])
		if err != nil {
			return nil, err
		}
		return &seconds, nil
	}

	return nil, fmt.Errorf("%w: %q, use h:mm:ss, 1h30m or unknown", ErrInvalidDuration, input)
}

// DurationFromHMS validates hours/minutes/seconds and converts them to
// seconds. All parts must be non-negative; minutes and seconds must be below 60.
func DurationFromHMS(hours, minutes, seconds int) (int, error) {
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("%w: values cannot be negative", ErrInvalidDuration)
	}
	if minutes >= 60 {
		return 0, fmt.Errorf("%w: minutes must be less than 60", ErrInvalidDuration)
	}
	if seconds >= 60 {
		return 0, fmt.Errorf("%w: seconds must be less than 60", ErrInvalidDuration)
	}
	if hours > maxHours {
		return 0, fmt.Errorf("%w: too many hours", ErrInvalidDuration)
	}
	return hours*3600 + minutes*60 + seconds, nil
}

// FormatClock renders seconds as hh:mm:ss
func FormatClock(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

// FormatDuration renders seconds in a short human form like "1h 05m"
func FormatDuration(total int) string {
	h, m, s := total/3600, total/60%60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
