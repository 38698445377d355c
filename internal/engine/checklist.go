package engine

import (
	"context"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/db"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

// GetChecklist returns the task's checklist in display order.
func (e *Engine) GetChecklist(ctx context.Context, taskID uint) ([]workflow.ChecklistEntry, error) {
	var entries []workflow.ChecklistEntry
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		task, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}
		entries, err = checklist(tx, task)
		return err
	})
	if err != nil {
		return nil, e.fail("get checklist", err)
	}
	return entries, nil
}

// MissingChecklistItems runs the completion gate without changing anything.
func (e *Engine) MissingChecklistItems(ctx context.Context, taskID uint) ([]workflow.MissingItem, error) {
	var missing []workflow.MissingItem
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		task, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}
		missing, err = missingItems(tx, task)
		return err
	})
	if err != nil {
		return nil, e.fail("check completion gate", err)
	}
	return missing, nil
}

// UpdateChecklist sets the checked flag of the given items and returns the
// whole checklist. Items not in the update keep their state. Items that are
// not on the task's checklist are rejected and nothing is written.
func (e *Engine) UpdateChecklist(ctx context.Context, taskID uint, updates []workflow.ChecklistUpdate) ([]workflow.ChecklistEntry, error) {
	var entries []workflow.ChecklistEntry
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		task, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}
		required, err := tx.RequiredChecklistItems(task.TemplateID)
		if err != nil {
			return err
		}
		allowed := make(map[uint]bool, len(required))
		for _, item := range required {
			if item.Active {
				allowed[item.ID] = true
			}
		}
		for _, u := range updates {
			if !allowed[u.ItemID] {
				return apperr.Newf(apperr.CodeInvalidArgument, "check item %d is not on task #%d's checklist", u.ItemID, task.ID)
			}
		}

		for _, u := range updates {
			err := tx.SetChecklistResult(models.ChecklistResult{
				TaskID:          task.ID,
				ChecklistItemID: u.ItemID,
				Checked:         u.Checked,
			})
			if err != nil {
				return err
			}
		}
		entries, err = checklist(tx, task)
		return err
	})
	if err != nil {
		return nil, e.fail("update checklist", err)
	}

	e.logger.Info().Uint("task_id", taskID).Int("items", len(updates)).Msg("checklist updated")
	return entries, nil
}

func checklist(tx *db.Store, task *models.Task) ([]workflow.ChecklistEntry, error) {
	required, err := tx.RequiredChecklistItems(task.TemplateID)
	if err != nil {
		return nil, err
	}
	results, err := tx.ChecklistResults(task.ID)
	if err != nil {
		return nil, err
	}
	return workflow.BuildChecklist(required, results), nil
}

func missingItems(tx *db.Store, task *models.Task) ([]workflow.MissingItem, error) {
	required, err := tx.RequiredChecklistItems(task.TemplateID)
	if err != nil {
		return nil, err
	}
	if len(required) == 0 {
		return nil, nil
	}
	results, err := tx.ChecklistResults(task.ID)
	if err != nil {
		return nil, err
	}
	return workflow.MissingItems(required, results), nil
}
