package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/todue/internal/urgency"
)

// Color constants for todue TUI theme
const (
	// Base Colors
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED"
	ColorAccentBright = "#A78BFA"

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)

// Urgency colors. Neutral ("black") uses the primary text color so it stays
// readable on dark terminals.
const (
	ColorOverdue      = "#A855F7" // purple
	ColorDueTodayHigh = "#EF4444" // red
	ColorDueSoonHigh  = "#F97316" // orange
	ColorDueLaterHigh = "#22C55E" // green
	ColorNeutral      = ColorPrimaryText
	ColorCompleted    = "#6D7383" // gray
)

var urgencyColors = map[urgency.Tag]string{
	urgency.Overdue:      ColorOverdue,
	urgency.DueTodayHigh: ColorDueTodayHigh,
	urgency.DueSoonHigh:  ColorDueSoonHigh,
	urgency.DueLaterHigh: ColorDueLaterHigh,
	urgency.Neutral:      ColorNeutral,
	urgency.Completed:    ColorCompleted,
}

// UrgencyColor returns the terminal color of an urgency tag
func UrgencyColor(tag urgency.Tag) lipgloss.Color {
	if c, ok := urgencyColors[tag]; ok {
		return lipgloss.Color(c)
	}
	return lipgloss.Color(ColorNeutral)
}

// UrgencyStyle returns a foreground style for an urgency tag
func UrgencyStyle(tag urgency.Tag) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(UrgencyColor(tag))
	if tag == urgency.Completed {
		style = style.Strikethrough(true)
	}
	return style
}
