package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

func TestStartTimerTwice(t *testing.T) {
	f := newFixture(t, "")
	_, tasks := f.newProject(t)
	ctx := context.Background()
	edit := tasks[3].ID

	if _, err := f.engine.StartTimer(ctx, edit); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := f.engine.StartTimer(ctx, edit)
	if !errors.Is(err, apperr.ErrTimerAlreadyRunning) {
		t.Fatalf("expected timer already running, got %v", err)
	}
	if n := f.openSessions(t, edit); n != 1 {
		t.Fatalf("expected one open session, got %d", n)
	}
}

func TestStartTimerConcurrent(t *testing.T) {
	f := newFixture(t, "")
	_, tasks := f.newProject(t)
	edit := tasks[3].ID

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.StartTimer(context.Background(), edit)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperr.ErrTimerAlreadyRunning):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one start to win, got %d", successes)
	}
	if n := f.openSessions(t, edit); n != 1 {
		t.Fatalf("expected one open session, got %d", n)
	}
}

func TestStartTimerPromotesNotStartedTask(t *testing.T) {
	f := newFixture(t, "")
	project, tasks := f.newProject(t)
	record := tasks[2].ID

	session, err := f.engine.StartTimer(context.Background(), record)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !session.StartedAt.Equal(f.clock.Now()) || !session.Open() {
		t.Fatalf("unexpected session %+v", session)
	}
	// Gated task: promotion must not consult the checklist.
	if got := f.task(t, record).Status; got != models.StatusInProgress {
		t.Fatalf("expected in progress, got %s", got)
	}
	if got := f.project(t, project.ID).ProgressRate; got != 12.5 {
		t.Fatalf("expected progress 12.5, got %v", got)
	}
}

func TestStartTimerLeavesCompletedTaskAlone(t *testing.T) {
	f := newFixture(t, "")
	_, tasks := f.newProject(t)
	plan := tasks[1].ID
	f.forceStatus(t, plan, models.StatusCompleted)

	if _, err := f.engine.StartTimer(context.Background(), plan); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := f.task(t, plan).Status; got != models.StatusCompleted {
		t.Fatalf("expected status untouched, got %s", got)
	}
}

func TestStopTimerAccumulatesSessions(t *testing.T) {
	f := newFixture(t, "")
	_, tasks := f.newProject(t)
	ctx := context.Background()
	edit := tasks[3].ID

	if _, err := f.engine.StartTimer(ctx, edit); err != nil {
		t.Fatalf("start 1: %v", err)
	}
	f.clock.Advance(90 * time.Second)
	first, err := f.engine.StopTimer(ctx, edit)
	if err != nil {
		t.Fatalf("stop 1: %v", err)
	}
	if *first.Session.DurationMinutes != 1.5 || first.TotalActualMinutes != 1.5 {
		t.Fatalf("expected 1.5 minutes, got %+v", first)
	}

	f.clock.Advance(10 * time.Minute)
	if _, err := f.engine.StartTimer(ctx, edit); err != nil {
		t.Fatalf("start 2: %v", err)
	}
	f.clock.Advance(2*time.Minute + 15*time.Second)
	second, err := f.engine.StopTimer(ctx, edit)
	if err != nil {
		t.Fatalf("stop 2: %v", err)
	}

	want := *first.Session.DurationMinutes + *second.Session.DurationMinutes
	if math.Abs(second.TotalActualMinutes-want) > 1e-9 || math.Abs(want-3.75) > 1e-9 {
		t.Fatalf("expected total 3.75, got %v", second.TotalActualMinutes)
	}
	if got := f.task(t, edit).ActualMinutes; math.Abs(got-3.75) > 1e-9 {
		t.Fatalf("expected stored actual 3.75, got %v", got)
	}
	if n := f.openSessions(t, edit); n != 0 {
		t.Fatalf("expected no open sessions, got %d", n)
	}
}

func TestStopTimerWithoutSession(t *testing.T) {
	f := newFixture(t, "")
	_, tasks := f.newProject(t)

	_, err := f.engine.StopTimer(context.Background(), tasks[3].ID)
	if !errors.Is(err, apperr.ErrNoRunningTimer) {
		t.Fatalf("expected no running timer, got %v", err)
	}
}

func TestStopTimerClampsClockSkew(t *testing.T) {
	f := newFixture(t, "")
	_, tasks := f.newProject(t)
	ctx := context.Background()
	edit := tasks[3].ID

	if _, err := f.engine.StartTimer(ctx, edit); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Advance(-5 * time.Minute)
	res, err := f.engine.StopTimer(ctx, edit)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if *res.Session.DurationMinutes != 0 || res.TotalActualMinutes != 0 {
		t.Fatalf("expected zero duration, got %+v", res)
	}
}

func TestTimerStatus(t *testing.T) {
	f := newFixture(t, "")
	_, tasks := f.newProject(t)
	ctx := context.Background()
	edit := tasks[3].ID

	state, err := f.engine.TimerStatus(ctx, edit)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if state.Running {
		t.Fatalf("expected not running, got %+v", state)
	}

	if _, err := f.engine.StartTimer(ctx, edit); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Advance(45 * time.Second)
	state, err = f.engine.TimerStatus(ctx, edit)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !state.Running || state.ElapsedMinutes != 0.75 {
		t.Fatalf("expected running 0.75 minutes, got %+v", state)
	}
	if got := f.engine.Now().Sub(*state.StartedAt).Minutes(); got != state.ElapsedMinutes {
		t.Fatalf("engine clock disagrees with status: %v vs %v", got, state.ElapsedMinutes)
	}
	if n := f.openSessions(t, edit); n != 1 {
		t.Fatalf("expected status to leave the session open, got %d", n)
	}

	if _, err := f.engine.TimerStatus(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRunningTimers(t *testing.T) {
	f := newFixture(t, "")
	_, tasks := f.newProject(t)
	ctx := context.Background()

	states, err := f.engine.RunningTimers(ctx)
	if err != nil || len(states) != 0 {
		t.Fatalf("expected no running timers, got %v %v", states, err)
	}

	for _, id := range []uint{tasks[1].ID, tasks[3].ID} {
		if _, err := f.engine.StartTimer(ctx, id); err != nil {
			t.Fatalf("start %d: %v", id, err)
		}
		f.clock.Advance(time.Minute)
	}
	if _, err := f.engine.StopTimer(ctx, tasks[1].ID); err != nil {
		t.Fatalf("stop: %v", err)
	}

	states, err = f.engine.RunningTimers(ctx)
	if err != nil {
		t.Fatalf("running timers: %v", err)
	}
	if len(states) != 1 || states[0].TaskID != tasks[3].ID || states[0].ElapsedMinutes != 1 {
		t.Fatalf("expected task %d running for 1 minute, got %+v", tasks[3].ID, states)
	}
}
