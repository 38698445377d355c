package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/engine"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

type stubStopper struct {
	calls  []uint
	result *engine.StopResult
	err    error
}

func (s *stubStopper) StopTimer(_ context.Context, taskID uint) (*engine.StopResult, error) {
	s.calls = append(s.calls, taskID)
	return s.result, s.err
}

var started = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func testView() TimerView {
	task := models.Task{ID: 7, Status: models.StatusInProgress, ActualMinutes: 30}
	task.Name = "Recording"
	task.EstimateMinutes = 60
	return TimerView{
		Session:   models.TimerSession{ID: 3, TaskID: 7, StartedAt: started},
		Task:      task,
		Project:   models.Project{ID: 1, Theme: "Redstone computer", ProgressRate: 37.5},
		PhaseName: "Recording",
		Checklist: []workflow.ChecklistEntry{{ItemID: 1, Label: "No audio clipping", Checked: true}},
	}
}

func fixedNow(d time.Duration) func() time.Time {
	return func() time.Time { return started.Add(d) }
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTimerModelStopSaves(t *testing.T) {
	minutes := 15.0
	stopper := &stubStopper{result: &engine.StopResult{
		Session:            models.TimerSession{ID: 3, TaskID: 7, DurationMinutes: &minutes},
		TotalActualMinutes: 45,
	}}
	m := NewTimerModel(context.Background(), stopper, testView(), fixedNow(15*time.Minute))

	next, cmd := m.Update(keyMsg("s"))
	if cmd == nil {
		t.Fatal("expected a stop command")
	}
	m = next.(TimerModel)
	if !m.stopping {
		t.Fatal("expected model to be stopping")
	}

	// A second press while the stop is in flight does nothing.
	if _, again := m.Update(keyMsg("s")); again != nil {
		t.Fatal("expected no command for a repeated stop")
	}

	msg := cmd()
	next, cmd = m.Update(msg)
	m = next.(TimerModel)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit after the stop completed")
	}

	res, err := m.Result()
	if err != nil || res == nil || res.TotalActualMinutes != 45 {
		t.Fatalf("unexpected result %+v %v", res, err)
	}
	if len(stopper.calls) != 1 || stopper.calls[0] != 7 {
		t.Fatalf("expected one stop for task 7, got %v", stopper.calls)
	}
}

func TestTimerModelStopFailure(t *testing.T) {
	stopper := &stubStopper{err: errors.New("disk full")}
	m := NewTimerModel(context.Background(), stopper, testView(), fixedNow(time.Minute))

	_, cmd := m.Update(keyMsg("s"))
	next, _ := m.Update(cmd())
	if _, err := next.(TimerModel).Result(); err == nil || err.Error() != "disk full" {
		t.Fatalf("expected stop error, got %v", err)
	}
}

func TestTimerModelExitKeepsRunning(t *testing.T) {
	stopper := &stubStopper{}
	m := NewTimerModel(context.Background(), stopper, testView(), fixedNow(time.Minute))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit on esc")
	}
	if !next.(TimerModel).Exited() {
		t.Fatal("expected exited")
	}
	if len(stopper.calls) != 0 {
		t.Fatalf("expected no stop, got %v", stopper.calls)
	}
}

func TestTimerModelTick(t *testing.T) {
	m := NewTimerModel(context.Background(), &stubStopper{}, testView(), fixedNow(90*time.Second))
	next, cmd := m.Update(timerTickMsg{})
	if cmd == nil {
		t.Fatal("expected the clock to keep ticking")
	}
	if got := next.(TimerModel).elapsed; got != 90*time.Second {
		t.Fatalf("expected 90s elapsed, got %s", got)
	}

	// Clock skew never shows negative time.
	m = NewTimerModel(context.Background(), &stubStopper{}, testView(), fixedNow(-time.Minute))
	if m.elapsed != 0 {
		t.Fatalf("expected elapsed clamped to 0, got %s", m.elapsed)
	}
}

func TestTimerModelView(t *testing.T) {
	m := NewTimerModel(context.Background(), &stubStopper{}, testView(), fixedNow(time.Minute))
	if got := m.View(); got != "Loading..." {
		t.Fatalf("expected loading before the first size message, got %q", got)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := next.(TimerModel).View()
	for _, want := range []string{"#7", "Recording", "Redstone computer", "No audio clipping", "Started at"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}
}

func TestEstimateRatio(t *testing.T) {
	m := NewTimerModel(context.Background(), &stubStopper{}, testView(), fixedNow(15*time.Minute))
	ratio, ok := m.estimateRatio()
	if !ok || ratio != 0.75 {
		t.Fatalf("expected 0.75 of estimate, got %v %v", ratio, ok)
	}

	view := testView()
	view.Task.EstimateMinutes = 0
	m = NewTimerModel(context.Background(), &stubStopper{}, view, fixedNow(time.Minute))
	if _, ok := m.estimateRatio(); ok {
		t.Fatal("expected no ratio without an estimate")
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := map[float64]string{
		0:     "0.0m",
		3.75:  "3.8m",
		59.9:  "59.9m",
		65:    "1h 05m",
		180.4: "3h 00m",
	}
	for in, want := range tests {
		if got := FormatMinutes(in); got != want {
			t.Fatalf("FormatMinutes(%v): expected %q, got %q", in, want, got)
		}
	}
}

func TestRenderBlockedListsMissingItems(t *testing.T) {
	out := RenderBlocked(&workflow.CompletionBlockedError{
		TaskID:  4,
		Missing: []workflow.MissingItem{{ID: 2, Label: "Not too many filler words"}},
	})
	if !strings.Contains(out, "#4") || !strings.Contains(out, "Not too many filler words") {
		t.Fatalf("unexpected blocked message %q", out)
	}
}
