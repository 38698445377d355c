package engine

import (
	"context"
	"strings"
	"time"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/db"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

// defaultInitialStatus is used when no phases are configured.
const defaultInitialStatus uint = 1

// TransitionResult is the outcome of evaluating a project's transition rules.
type TransitionResult struct {
	Transitioned   bool
	RuleID         uint
	PreviousStatus uint
	NewStatus      uint
}

// NewProject holds the data needed to create a project
type NewProject struct {
	Theme string
	Memo  string
	Due   *time.Time
}

// RecomputeProgress recomputes and stores the project's progress rate from
// its active tasks. The stored value is always replaced.
func (e *Engine) RecomputeProgress(ctx context.Context, projectID uint) (float64, error) {
	var rate float64
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		project, err := tx.GetProject(projectID)
		if err != nil {
			return err
		}
		tasks, err := tx.ListProjectTasks(projectID, false)
		if err != nil {
			return err
		}
		rate, err = e.storeProgress(tx, project, tasks)
		return err
	})
	if err != nil {
		return 0, e.fail("recompute progress", err)
	}
	e.logger.Debug().Uint("project_id", projectID).Float64("progress_rate", rate).Msg("project progress recomputed")
	return rate, nil
}

// EvaluateProjectTransition applies at most one transition rule to the
// project. Chained transitions need another call.
func (e *Engine) EvaluateProjectTransition(ctx context.Context, projectID uint) (*TransitionResult, error) {
	var result TransitionResult
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		project, err := tx.GetProject(projectID)
		if err != nil {
			return err
		}
		tasks, err := tx.ListProjectTasks(projectID, false)
		if err != nil {
			return err
		}
		result, err = e.advanceProject(tx, project, tasks)
		return err
	})
	if err != nil {
		return nil, e.fail("evaluate project transition", err)
	}
	projectEffect{transition: result}.log(e, projectID)
	return &result, nil
}

func (e *Engine) storeProgress(tx *db.Store, project *models.Project, tasks []models.Task) (float64, error) {
	project.ProgressRate = e.progress.ProgressRate(tasks)
	if err := tx.UpdateProjectProgress(project); err != nil {
		return 0, err
	}
	return project.ProgressRate, nil
}

func (e *Engine) advanceProject(tx *db.Store, project *models.Project, tasks []models.Task) (TransitionResult, error) {
	result := TransitionResult{PreviousStatus: project.Status, NewStatus: project.Status}
	rules, err := tx.ListActiveRules(project.Status)
	if err != nil {
		return result, err
	}
	if len(rules) == 0 {
		return result, nil
	}

	rule, ok := workflow.SelectRule(project.Status, rules, workflow.CompletedTemplates(tasks))
	if !ok {
		return result, nil
	}
	project.Status = rule.NextStatus
	if err := tx.UpdateProjectStatus(project); err != nil {
		return result, err
	}
	result.Transitioned = true
	result.RuleID = rule.ID
	result.NewStatus = rule.NextStatus
	return result, nil
}

// CreateProject creates a project in the first phase together with one task
// per active template. Each task keeps a snapshot of its template.
func (e *Engine) CreateProject(ctx context.Context, in NewProject) (*models.Project, error) {
	theme := strings.TrimSpace(in.Theme)
	if theme == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "project theme is required")
	}

	project := &models.Project{Theme: theme, Memo: in.Memo, Due: in.Due}
	var taskCount int
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		phases, err := tx.ListPhases()
		if err != nil {
			return err
		}
		project.Status = defaultInitialStatus
		if len(phases) > 0 {
			project.Status = phases[0].ID
		}
		if err := tx.CreateProject(project); err != nil {
			return err
		}

		templates, err := tx.ListActiveTemplates()
		if err != nil {
			return err
		}
		tasks := make([]models.Task, 0, len(templates))
		for _, t := range templates {
			tasks = append(tasks, models.Task{
				ProjectID:    project.ID,
				TemplateID:   t.ID,
				TaskSnapshot: t.Snapshot(),
				Status:       models.StatusNotStarted,
				Active:       true,
				SortOrder:    t.SortOrder,
			})
		}
		taskCount = len(tasks)
		return tx.CreateTasks(tasks)
	})
	if err != nil {
		return nil, e.fail("create project", err)
	}

	e.logger.Info().Uint("project_id", project.ID).Int("tasks", taskCount).Msg("project created")
	return project, nil
}

// GetProject retrieves a project by ID
func (e *Engine) GetProject(ctx context.Context, projectID uint) (*models.Project, error) {
	project, err := e.store.WithContext(ctx).GetProject(projectID)
	if err != nil {
		return nil, e.fail("get project", err)
	}
	return project, nil
}

// ListProjects returns every project, newest first
func (e *Engine) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := e.store.WithContext(ctx).ListProjects()
	if err != nil {
		return nil, e.fail("list projects", err)
	}
	return projects, nil
}

// ListTasks returns a project's active tasks in display order. A non-empty
// status keeps only tasks in that status.
func (e *Engine) ListTasks(ctx context.Context, projectID uint, status models.TaskStatus) ([]models.Task, error) {
	if status != "" && !status.Valid() {
		return nil, apperr.Newf(apperr.CodeInvalidArgument, "unknown status %q", status)
	}
	var tasks []models.Task
	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		if _, err := tx.GetProject(projectID); err != nil {
			return err
		}
		all, err := tx.ListProjectTasks(projectID, false)
		if err != nil {
			return err
		}
		for _, t := range all {
			if status == "" || t.Status == status {
				tasks = append(tasks, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, e.fail("list tasks", err)
	}
	return tasks, nil
}

// GetTask retrieves an active task by ID
func (e *Engine) GetTask(ctx context.Context, taskID uint) (*models.Task, error) {
	task, err := loadTask(e.store.WithContext(ctx), taskID)
	if err != nil {
		return nil, e.fail("get task", err)
	}
	return task, nil
}

// ListTemplates returns the templates new projects are built from
func (e *Engine) ListTemplates(ctx context.Context) ([]models.TaskTemplate, error) {
	templates, err := e.store.WithContext(ctx).ListActiveTemplates()
	if err != nil {
		return nil, e.fail("list templates", err)
	}
	return templates, nil
}

// ListPhases returns the active project phases in order
func (e *Engine) ListPhases(ctx context.Context) ([]models.Phase, error) {
	phases, err := e.store.WithContext(ctx).ListPhases()
	if err != nil {
		return nil, e.fail("list phases", err)
	}
	return phases, nil
}
