package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
)

// newBar returns the progress bar used for project and estimate progress
func newBar(width int) progress.Model {
	bar := progress.New(
		progress.WithGradient(ColorAccentMain, ColorAccentBright),
		progress.WithoutPercentage(),
	)
	bar.Width = width
	return bar
}

// RenderProgress renders a 0..100 rate as a bar followed by the number
func RenderProgress(rate float64, width int) string {
	return fmt.Sprintf("%s %5.1f%%", newBar(width).ViewAs(clamp01(rate/100)), rate)
}

// RenderStatus renders a task status with its icon and color
func RenderStatus(status models.TaskStatus) string {
	return StyleStatus(status, StatusIcon(status)+" "+string(status))
}

// StyleStatus colors text the way status is colored
func StyleStatus(status models.TaskStatus, text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(StatusColor(status))).Render(text)
}

// RenderLabel renders the "label: " prefix of a field line
func RenderLabel(label string) string {
	return labelStyle.Render(label+":") + " "
}

// RenderField renders one "label: value" line
func RenderField(label, value string) string {
	return RenderLabel(label) + valueStyle.Render(value)
}

// RenderChecklist renders a task's checklist, one item per line
func RenderChecklist(entries []workflow.ChecklistEntry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("  (no checklist)")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		box := "[ ]"
		style := labelStyle
		if e.Checked {
			box = "[x]"
			style = successStyle
		}
		lines[i] = style.Render(fmt.Sprintf("  %s %d. %s", box, e.ItemID, e.Label))
	}
	return strings.Join(lines, "\n")
}

// RenderBlocked explains why a task could not complete
func RenderBlocked(err *workflow.CompletionBlockedError) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(fmt.Sprintf("Task #%d cannot be completed yet. Unchecked items:", err.TaskID)))
	for _, m := range err.Missing {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("  [ ] %d. %s", m.ID, m.Label)))
	}
	return b.String()
}

// RenderError renders a one-line error message
func RenderError(msg string) string {
	return errorStyle.Render(msg)
}

// FormatMinutes formats fractional minutes as e.g. "1h 05m" or "3.5m"
func FormatMinutes(minutes float64) string {
	if minutes >= 60 {
		total := int(minutes + 0.5)
		return fmt.Sprintf("%dh %02dm", total/60, total%60)
	}
	return fmt.Sprintf("%.1fm", minutes)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
