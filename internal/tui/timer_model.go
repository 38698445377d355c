package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/engine"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

// Stopper stops a running timer. *engine.Engine satisfies it.
type Stopper interface {
	StopTimer(ctx context.Context, taskID uint) (*engine.StopResult, error)
}

// TimerView is everything the timer screen shows besides the clock
type TimerView struct {
	Session   models.TimerSession
	Task      models.Task
	Project   models.Project
	PhaseName string
	Checklist []workflow.ChecklistEntry
}

// TimerModel represents the TUI model for a running timer session
type TimerModel struct {
	ctx     context.Context
	stopper Stopper
	now     func() time.Time

	width  int
	height int
	view   TimerView

	elapsed time.Duration
	frame   int
	bar     progress.Model

	stopping bool // s pressed, stop in flight
	exiting  bool // left without stopping
	result   *engine.StopResult
	err      error
}

type timerTickMsg struct{}

type animationTickMsg struct{}

// stoppedMsg carries the outcome of the stop command
type stoppedMsg struct {
	result *engine.StopResult
	err    error
}

// NewTimerModel creates a timer model for an open session
func NewTimerModel(ctx context.Context, stopper Stopper, view TimerView, now func() time.Time) TimerModel {
	if now == nil {
		now = time.Now
	}
	return TimerModel{
		ctx:     ctx,
		stopper: stopper,
		now:     now,
		view:    view,
		elapsed: clampElapsed(now().Sub(view.Session.StartedAt)),
		bar:     newBar(30),
	}
}

func clampElapsed(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

func tickTimer() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} })
}

func tickAnimation() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg { return animationTickMsg{} })
}

// Init starts the clock and animation tickers
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(tickTimer(), tickAnimation())
}

func (m TimerModel) done() bool {
	return m.stopping || m.exiting
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsed = clampElapsed(m.now().Sub(m.view.Session.StartedAt))
		if m.done() {
			return m, nil
		}
		return m, tickTimer()

	case animationTickMsg:
		m.frame = (m.frame + 1) % 4
		if m.done() {
			return m, nil
		}
		return m, tickAnimation()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stoppedMsg:
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if m.done() {
			return m, nil
		}
		switch msg.String() {
		case "s", "S":
			m.stopping = true
			return m, m.stop()
		case "ctrl+c", "esc", "q":
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m TimerModel) stop() tea.Cmd {
	ctx, stopper, taskID := m.ctx, m.stopper, m.view.Task.ID
	return func() tea.Msg {
		res, err := stopper.StopTimer(ctx, taskID)
		return stoppedMsg{result: res, err: err}
	}
}

// Result returns the stop outcome once the model has quit
func (m TimerModel) Result() (*engine.StopResult, error) {
	return m.result, m.err
}

// Exited reports whether the user left with the timer still running
func (m TimerModel) Exited() bool {
	return m.exiting
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTimerPanel(m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderDetailsPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
}

// renderTimerPanel renders the clock side of the screen
func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string

	anim := []string{"⏱", "⏲", "⏱", "⏲"}[m.frame]
	header := fmt.Sprintf("%s  RECORDING TIME  %s", anim, anim)
	if m.stopping {
		header = "SAVING SESSION..."
	}
	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).Render(header))

	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorAccentMain)).Bold(true).
		Render(fmt.Sprintf("#%d", m.view.Task.ID)))

	name := m.view.Task.Name
	if limit := width - 4; limit > 3 && len(name) > limit {
		name = name[:limit-3] + "..."
	}
	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true).Render(name))

	clockLines := strings.Split(renderBigClock(m.elapsed), "\n")
	for i, line := range clockLines {
		clockLines[i] = centered(width).Render(line)
	}
	components = append(components, strings.Join(clockLines, "\n"))

	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).
		Render("Started at "+m.view.Session.StartedAt.Local().Format(time.TimeOnly)))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

// estimateRatio is tracked time, the running session included, over the estimate
func (m TimerModel) estimateRatio() (float64, bool) {
	est := m.view.Task.EstimateMinutes
	if est <= 0 {
		return 0, false
	}
	tracked := m.view.Task.ActualMinutes + m.elapsed.Minutes()
	return tracked / float64(est), true
}

// renderDetailsPanel renders the task, project and checklist side
func (m TimerModel) renderDetailsPanel(width, height int) string {
	task := m.view.Task
	inner := width - 8
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centered(inner).
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(0, 1).
		Render(m.view.Project.Theme))
	b.WriteString("\n\n")

	lines := []string{
		RenderField("Phase", m.view.PhaseName),
		RenderLabel("Status") + RenderStatus(task.Status),
		RenderField("Tracked", FormatMinutes(task.ActualMinutes+m.elapsed.Minutes())),
	}
	if task.EstimateMinutes > 0 {
		lines = append(lines, RenderField("Estimate", FormatMinutes(float64(task.EstimateMinutes))))
	}
	for _, line := range lines {
		b.WriteString(centered(inner).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	bar := m.bar
	bar.Width = min(inner-10, 40)
	if ratio, ok := m.estimateRatio(); ok {
		label := labelStyle.Render(fmt.Sprintf(" %3.0f%% of estimate", ratio*100))
		if ratio > 1 {
			label = errorStyle.Render(fmt.Sprintf(" %3.0f%% of estimate", ratio*100))
		}
		b.WriteString(centered(inner).Render(bar.ViewAs(clamp01(ratio)) + label))
		b.WriteString("\n")
	}
	b.WriteString(centered(inner).Render(
		bar.ViewAs(clamp01(m.view.Project.ProgressRate/100)) +
			labelStyle.Render(fmt.Sprintf(" %5.1f%% project", m.view.Project.ProgressRate))))
	b.WriteString("\n\n")

	if len(m.view.Checklist) > 0 {
		b.WriteString(centered(inner).Render(labelStyle.Render("Checklist")))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().PaddingLeft(4).Render(RenderChecklist(m.view.Checklist)))
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

// renderBigClock renders the elapsed time in block digits
func renderBigClock(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	timeStr := fmt.Sprintf("%02d:%02d", minutes, seconds)
	if hours > 0 {
		timeStr = fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}

	var lines [5]strings.Builder
	for _, char := range timeStr {
		glyph, ok := bigDigits[char]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i].WriteString(glyph[i])
			lines[i].WriteString(" ")
		}
	}

	clockStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}

var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderHelpBar renders the help bar at the bottom
func (m TimerModel) renderHelpBar() string {
	return centered(m.width).
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render("s stop & save · esc/q exit (keep running) · ctrl+c exit")
}
