package tui

import "github.com/T55511/MinecraftCreateMovieSystem/internal/models"

// Color constants for the studio theme
const (
	// Base Colors
	ColorBorder = "#3F4A3C" // Moss grey

	// Text Colors
	ColorPrimaryText   = "#ECEFE6" // Titles, values
	ColorSecondaryText = "#A9B39E" // Labels
	ColorDisabledText  = "#6B7063" // Muted text, inactive rows
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (grass green)
	ColorAccentMain   = "#4F9A3A" // Logo, active borders
	ColorAccentBright = "#8BD45E" // Clock, highlights

	// State Colors
	ColorError   = "#E0533D" // Blocked completion, failures
	ColorSuccess = "#5FD068" // Completed
	ColorWarning = "#E8B130" // In progress, due soon
)

// StatusColor returns the display color of a task status
func StatusColor(status models.TaskStatus) string {
	switch status {
	case models.StatusCompleted:
		return ColorSuccess
	case models.StatusInProgress:
		return ColorWarning
	default:
		return ColorSecondaryText
	}
}

// StatusIcon returns the list marker of a task status
func StatusIcon(status models.TaskStatus) string {
	switch status {
	case models.StatusCompleted:
		return "●"
	case models.StatusInProgress:
		return "◐"
	default:
		return "○"
	}
}
