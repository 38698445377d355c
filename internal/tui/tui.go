package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/engine"
)

// RunTimerTUI shows the running timer until the user stops it or leaves.
// Stopping goes through stopper; leaving keeps the session open.
func RunTimerTUI(ctx context.Context, stopper Stopper, view TimerView, now func() time.Time, out io.Writer) error {
	model := NewTimerModel(ctx, stopper, view, now)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := finalModel.(TimerModel)
	if !ok {
		return nil
	}
	if m.Exited() {
		fmt.Fprintf(out, "Timer is still running for task #%d: %s\n", view.Task.ID, view.Task.Name)
		fmt.Fprintln(out, "Use 'studio status' to check it or 'studio stop' to stop it.")
		return nil
	}

	res, err := m.Result()
	if err != nil {
		return err
	}
	if res != nil {
		PrintStopResult(out, res)
	}
	return nil
}

// PrintStopResult reports a stopped session
func PrintStopResult(out io.Writer, res *engine.StopResult) {
	fmt.Fprintf(out, "Stopped timer for task #%d: %s\n", res.Task.ID, res.Task.Name)
	fmt.Fprintln(out, RenderField("Session", FormatMinutes(*res.Session.DurationMinutes)))
	fmt.Fprintln(out, RenderField("Total", FormatMinutes(res.TotalActualMinutes)))
}
