package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/db"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

// StopResult is the outcome of stopping a timer.
type StopResult struct {
	Session            models.TimerSession
	Task               models.Task
	TotalActualMinutes float64
}

// TimerState describes a task's timer at one instant.
type TimerState struct {
	TaskID         uint
	Running        bool
	SessionID      uint
	StartedAt      *time.Time
	ElapsedMinutes float64
}

// StartTimer opens a new session for the task. It fails with
// apperr.ErrTimerAlreadyRunning when one is already open. A task that has
// not started moves to in progress without checklist gating.
func (e *Engine) StartTimer(ctx context.Context, taskID uint) (*models.TimerSession, error) {
	var (
		session  models.TimerSession
		promoted bool
		effect   projectEffect
		task     *models.Task
	)
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		var err error
		task, err = loadTask(tx, taskID)
		if err != nil {
			return err
		}
		open, err := tx.OpenSession(task.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return apperr.WithMetadata(apperr.CodeTimerAlreadyRunning,
				fmt.Sprintf("timer already running for task #%d since %s", task.ID, open.StartedAt.Format(time.DateTime)),
				map[string]string{"task_id": fmt.Sprint(task.ID), "session_id": fmt.Sprint(open.ID)})
		}

		session = models.TimerSession{TaskID: task.ID, StartedAt: e.clock.Now()}
		if err := tx.CreateSession(&session); err != nil {
			return err
		}

		if task.Status != models.StatusNotStarted {
			return nil
		}
		task.Status = models.StatusInProgress
		if err := tx.UpdateTaskStatus(task); err != nil {
			return err
		}
		promoted = true
		effect, err = e.applyProjectEffects(tx, task.ProjectID)
		return err
	})
	if err != nil {
		return nil, e.fail("start timer", err)
	}

	e.logger.Info().Uint("task_id", taskID).Uint("session_id", session.ID).Msg("timer started")
	if promoted {
		e.logger.Info().
			Uint("task_id", taskID).
			Str("from", string(models.StatusNotStarted)).
			Str("to", string(models.StatusInProgress)).
			Msg("task status changed")
		effect.log(e, task.ProjectID)
	}
	return &session, nil
}

// StopTimer closes the task's open session and recomputes the task's actual
// minutes from every closed session. It fails with apperr.ErrNoRunningTimer
// when nothing is running.
func (e *Engine) StopTimer(ctx context.Context, taskID uint) (*StopResult, error) {
	var result StopResult
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		task, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}
		open, err := tx.OpenSession(task.ID)
		if err != nil {
			return err
		}
		if open == nil {
			return apperr.WithMetadata(apperr.CodeNoRunningTimer,
				fmt.Sprintf("no running timer for task #%d", task.ID),
				map[string]string{"task_id": fmt.Sprint(task.ID)})
		}

		end := e.clock.Now()
		duration := workflow.DurationMinutes(open.StartedAt, end)
		open.EndedAt = &end
		open.DurationMinutes = &duration
		if err := tx.CloseSession(open); err != nil {
			return err
		}

		sessions, err := tx.ListSessions(task.ID)
		if err != nil {
			return err
		}
		task.ActualMinutes = workflow.TotalMinutes(sessions)
		if err := tx.UpdateTaskActualMinutes(task); err != nil {
			return err
		}

		result = StopResult{Session: *open, Task: *task, TotalActualMinutes: task.ActualMinutes}
		return nil
	})
	if err != nil {
		return nil, e.fail("stop timer", err)
	}

	e.logger.Info().
		Uint("task_id", taskID).
		Uint("session_id", result.Session.ID).
		Float64("duration_minutes", *result.Session.DurationMinutes).
		Float64("total_minutes", result.TotalActualMinutes).
		Msg("timer stopped")
	return &result, nil
}

// TimerStatus reports whether the task's timer is running and for how long.
// It only fails when the task does not exist.
func (e *Engine) TimerStatus(ctx context.Context, taskID uint) (*TimerState, error) {
	state := &TimerState{TaskID: taskID}
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		task, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}
		open, err := tx.OpenSession(task.ID)
		if err != nil || open == nil {
			return err
		}
		started := open.StartedAt
		state.Running = true
		state.SessionID = open.ID
		state.StartedAt = &started
		state.ElapsedMinutes = workflow.DurationMinutes(started, e.clock.Now())
		return nil
	})
	if err != nil {
		return nil, e.fail("timer status", err)
	}
	return state, nil
}

// ListSessions returns the task's session history, oldest first.
func (e *Engine) ListSessions(ctx context.Context, taskID uint) ([]models.TimerSession, error) {
	var sessions []models.TimerSession
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		task, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}
		sessions, err = tx.ListSessions(task.ID)
		return err
	})
	if err != nil {
		return nil, e.fail("list sessions", err)
	}
	return sessions, nil
}

// RunningTimers reports every open session across all tasks, oldest first.
func (e *Engine) RunningTimers(ctx context.Context) ([]TimerState, error) {
	sessions, err := e.store.WithContext(ctx).ListOpenSessions()
	if err != nil {
		return nil, e.fail("list running timers", err)
	}
	now := e.clock.Now()
	states := make([]TimerState, 0, len(sessions))
	for _, s := range sessions {
		started := s.StartedAt
		states = append(states, TimerState{
			TaskID:         s.TaskID,
			Running:        true,
			SessionID:      s.ID,
			StartedAt:      &started,
			ElapsedMinutes: workflow.DurationMinutes(started, now),
		})
	}
	return states, nil
}
