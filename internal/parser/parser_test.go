package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todue/internal/models"
)

var now = time.Date(2026, time.March, 10, 18, 30, 0, 0, time.Local)

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"15-12-2026", "15-12-2026"},
		{"5/4/2026", "05-04-2026"},
		{"29.02.2028", "29-02-2028"},
		{"today", "10-03-2026"},
		{"Tomorrow", "11-03-2026"},
		{"3 days", "13-03-2026"},
		{"in 2 weeks", "24-03-2026"},
		{"1w", "17-03-2026"},
		{"30d", "09-04-2026"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDeadline(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDeadlineRejects(t *testing.T) {
	for _, input := range []string{"", "31-02-2026", "29-02-2027", "2026-03-10", "next friday", "12-13-2026", "9999 weeks"} {
		_, err := ParseDeadline(input, now)
		assert.Error(t, err, input)
	}
}

func TestDescribeDeadline(t *testing.T) {
	assert.Contains(t, DescribeDeadline("09-03-2026", now), "OVERDUE")
	assert.Contains(t, DescribeDeadline("10-03-2026", now), "Due today")
	assert.Contains(t, DescribeDeadline("11-03-2026", now), "Due tomorrow")
	assert.Contains(t, DescribeDeadline("14-03-2026", now), "in 4 days")
	assert.Equal(t, "📅 Due 10-06-2026", DescribeDeadline("10-06-2026", now))
	assert.Contains(t, DescribeDeadline("soon", now), "Unreadable")
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"1:30", 5400},
		{"0:00:45", 45},
		{"2:05:09", 7509},
		{"1h30m", 5400},
		{"1h 30m", 5400},
		{"45m", 2700},
		{"20s", 20},
		{"3h", 10800},
		{"0:0:0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseDurationUnknown(t *testing.T) {
	for _, input := range []string{"unknown", "UNKNOWN", " ? "} {
		got, err := ParseDuration(input)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestParseDurationRejects(t *testing.T) {
	for _, input := range []string{
		"", "1:60", "0:10:60", "-1:00", "90m", "abc", "1.5h",
		"3000000000000000h", "99999999999999999999h", "2562047788015216:00",
	} {
		_, err := ParseDuration(input)
		assert.ErrorIs(t, err, ErrInvalidDuration, input)
	}
}

func TestDurationFromHMS(t *testing.T) {
	got, err := DurationFromHMS(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3723, got)

	_, err = DurationFromHMS(-1, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	_, err = DurationFromHMS(0, 60, 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	_, err = DurationFromHMS(0, 0, 60)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	got, err = DurationFromHMS(maxHours, 59, 59)
	require.NoError(t, err)
	assert.Positive(t, got)
	_, err = DurationFromHMS(maxHours+1, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(-5))
	assert.Equal(t, "01:01:01", FormatClock(3661))
	assert.Equal(t, "27:46:40", FormatClock(100000))
	assert.Equal(t, "1h 05m", FormatDuration(3900))
	assert.Equal(t, "2m 05s", FormatDuration(125))
	assert.Equal(t, "9s", FormatDuration(9))
}

func TestParseTitle(t *testing.T) {
	got := ParseTitle("Write report +high due:tomorrow ~1h30m", now)
	assert.Empty(t, got.Errors)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "High", got.Priority)
	assert.Equal(t, "11-03-2026", got.Deadline)
	require.NotNil(t, got.Duration)
	assert.Equal(t, 5400, *got.Duration)
}

func TestParseTitlePlain(t *testing.T) {
	got := ParseTitle("  call   mum  ", now)
	assert.Empty(t, got.Errors)
	assert.Equal(t, "call mum", got.Title)
	assert.Empty(t, got.Priority)
	assert.Empty(t, got.Deadline)
	assert.Nil(t, got.Duration)
}

func TestParseTitleKeepsInlinePlus(t *testing.T) {
	got := ParseTitle("learn c++ +2", now)
	assert.Empty(t, got.Errors)
	assert.Equal(t, "learn c++", got.Title)
	assert.Equal(t, "Medium", got.Priority)
}

func TestParseTitleCollectsErrors(t *testing.T) {
	got := ParseTitle("thing +urgent due:someday ~forever", now)
	assert.Len(t, got.Errors, 3)
	assert.Equal(t, "thing", got.Title)
}

func TestParsePriority(t *testing.T) {
	tests := map[string]models.Priority{
		"low": models.PriorityLow, "1": models.PriorityLow,
		"Medium": models.PriorityMedium, "med": models.PriorityMedium, "2": models.PriorityMedium,
		"HIGH": models.PriorityHigh, "3": models.PriorityHigh,
	}
	for input, want := range tests {
		got, err := ParsePriority(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParsePriority("critical")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}
