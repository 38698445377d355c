package engine

import (
	"context"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/db"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

// TransitionTaskStatus moves a task to status to.
//
// Requesting the current status returns the task unchanged. Moves the policy
// forbids fail with *workflow.InvalidTransitionError. Completing a task with
// unchecked required checklist items fails with
// *workflow.CompletionBlockedError. A committed change also recomputes the
// project's progress and evaluates its transition rules in the same
// transaction.
func (e *Engine) TransitionTaskStatus(ctx context.Context, taskID uint, to models.TaskStatus) (*models.Task, error) {
	if !to.Valid() {
		return nil, apperr.Newf(apperr.CodeInvalidArgument, "unknown status %q", to)
	}

	var (
		task    *models.Task
		from    models.TaskStatus
		changed bool
		effect  projectEffect
	)
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		var err error
		task, err = loadTask(tx, taskID)
		if err != nil {
			return err
		}
		from = task.Status
		if from == to {
			return nil
		}
		if err := e.transitions.CheckTransition(from, to); err != nil {
			return err
		}

		if to == models.StatusCompleted {
			missing, err := missingItems(tx, task)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				return &workflow.CompletionBlockedError{TaskID: task.ID, Missing: missing}
			}
		}

		task.Status = to
		if to == models.StatusCompleted {
			now := e.clock.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
		if err := tx.UpdateTaskStatus(task); err != nil {
			return err
		}
		changed = true

		effect, err = e.applyProjectEffects(tx, task.ProjectID)
		return err
	})
	if err != nil {
		return nil, e.fail("transition task status", err)
	}

	if changed {
		e.logger.Info().
			Uint("task_id", task.ID).
			Uint("project_id", task.ProjectID).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("task status changed")
		effect.log(e, task.ProjectID)
	}
	return task, nil
}

// projectEffect records what a task change did to its project.
type projectEffect struct {
	progress   float64
	transition TransitionResult
}

func (p projectEffect) log(e *Engine, projectID uint) {
	e.logger.Debug().
		Uint("project_id", projectID).
		Float64("progress_rate", p.progress).
		Msg("project progress recomputed")
	if p.transition.Transitioned {
		e.logger.Info().
			Uint("project_id", projectID).
			Uint("rule_id", p.transition.RuleID).
			Uint("from", p.transition.PreviousStatus).
			Uint("to", p.transition.NewStatus).
			Msg("project phase advanced")
	}
}

// applyProjectEffects recomputes progress and evaluates transition rules from
// one snapshot of the project's tasks.
func (e *Engine) applyProjectEffects(tx *db.Store, projectID uint) (projectEffect, error) {
	project, err := tx.GetProject(projectID)
	if err != nil {
		return projectEffect{}, err
	}
	tasks, err := tx.ListProjectTasks(projectID, false)
	if err != nil {
		return projectEffect{}, err
	}

	var effect projectEffect
	if effect.progress, err = e.storeProgress(tx, project, tasks); err != nil {
		return projectEffect{}, err
	}
	if effect.transition, err = e.advanceProject(tx, project, tasks); err != nil {
		return projectEffect{}, err
	}
	return effect, nil
}
