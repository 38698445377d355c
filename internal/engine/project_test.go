package engine

import (
	"context"
	"testing"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

func TestCreateProjectSnapshotsTemplates(t *testing.T) {
	f := newFixture(t, "")
	project, tasks := f.newProject(t)

	if project.Status != 1 {
		t.Fatalf("expected project in first phase, got %d", project.Status)
	}
	if project.ProgressRate != 0 {
		t.Fatalf("expected progress 0, got %v", project.ProgressRate)
	}
	if len(tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(tasks))
	}
	record := tasks[2]
	if record.Name != "Record" || record.EstimateMinutes != 60 || record.PhaseID != 2 {
		t.Fatalf("unexpected snapshot %+v", record.TaskSnapshot)
	}
	if record.Status != models.StatusNotStarted || !record.Active {
		t.Fatalf("expected active not started task, got %s active=%v", record.Status, record.Active)
	}
}

func TestCreateProjectRequiresTheme(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.engine.CreateProject(context.Background(), NewProject{Theme: "  "})
	if apperr.CodeOf(err) != apperr.CodeInvalidArgument {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestRecomputeProgressExample(t *testing.T) {
	f := newFixture(t, "")
	project, tasks := f.newProject(t)
	ctx := context.Background()

	f.forceStatus(t, tasks[1].ID, models.StatusCompleted)
	f.forceStatus(t, tasks[2].ID, models.StatusCompleted)
	f.forceStatus(t, tasks[3].ID, models.StatusInProgress)

	rate, err := f.engine.RecomputeProgress(ctx, project.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if rate != 62.5 {
		t.Fatalf("expected 62.5, got %v", rate)
	}
	again, err := f.engine.RecomputeProgress(ctx, project.ID)
	if err != nil {
		t.Fatalf("recompute again: %v", err)
	}
	if again != rate {
		t.Fatalf("expected idempotent %v, got %v", rate, again)
	}
	if stored := f.project(t, project.ID).ProgressRate; stored != 62.5 {
		t.Fatalf("expected stored 62.5, got %v", stored)
	}
}

func TestRecomputeProgressBinaryPolicy(t *testing.T) {
	f := newFixture(t, "", WithProgressPolicy(workflow.BinaryProgress))
	project, tasks := f.newProject(t)

	f.forceStatus(t, tasks[1].ID, models.StatusCompleted)
	f.forceStatus(t, tasks[2].ID, models.StatusCompleted)
	f.forceStatus(t, tasks[3].ID, models.StatusInProgress)

	rate, err := f.engine.RecomputeProgress(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if rate != 50 {
		t.Fatalf("expected 50, got %v", rate)
	}
}

func TestRecomputeProgressMissingProject(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.engine.RecomputeProgress(context.Background(), 404)
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

const tieRules = `
rules:
  - {id: 1, from: planning, to: recording, requires: [1, 2]}
  - {id: 2, from: planning, to: editing, requires: [1]}
`

func TestEvaluateTransitionLowestRuleIDWins(t *testing.T) {
	f := newFixture(t, tieRules)
	project, tasks := f.newProject(t)
	ctx := context.Background()

	f.forceStatus(t, tasks[1].ID, models.StatusCompleted)
	f.forceStatus(t, tasks[2].ID, models.StatusCompleted)

	res, err := f.engine.EvaluateProjectTransition(ctx, project.ID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.Transitioned || res.RuleID != 1 || res.NewStatus != 2 {
		t.Fatalf("expected rule 1 to move project to 2, got %+v", res)
	}
	if got := f.project(t, project.ID).Status; got != 2 {
		t.Fatalf("expected stored status 2, got %d", got)
	}

	res, err = f.engine.EvaluateProjectTransition(ctx, project.ID)
	if err != nil {
		t.Fatalf("evaluate again: %v", err)
	}
	if res.Transitioned {
		t.Fatalf("expected no rule from recording, got %+v", res)
	}
}

func TestEvaluateTransitionNoMatch(t *testing.T) {
	f := newFixture(t, tieRules)
	project, _ := f.newProject(t)

	res, err := f.engine.EvaluateProjectTransition(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Transitioned || res.NewStatus != 1 {
		t.Fatalf("expected no transition, got %+v", res)
	}
}

const chainRules = `
rules:
  - {id: 1, from: planning, to: recording, requires: [1]}
  - {id: 2, from: recording, to: editing, requires: []}
`

func TestStatusChangeAdvancesProjectWithoutCascade(t *testing.T) {
	f := newFixture(t, chainRules)
	project, tasks := f.newProject(t)
	ctx := context.Background()
	plan := tasks[1].ID

	if _, err := f.engine.TransitionTaskStatus(ctx, plan, models.StatusInProgress); err != nil {
		t.Fatalf("start plan: %v", err)
	}
	if got := f.project(t, project.ID).Status; got != 1 {
		t.Fatalf("expected project still planning, got %d", got)
	}
	if _, err := f.engine.TransitionTaskStatus(ctx, plan, models.StatusCompleted); err != nil {
		t.Fatalf("complete plan: %v", err)
	}
	if got := f.project(t, project.ID).Status; got != 2 {
		t.Fatalf("expected one step to recording, got %d", got)
	}

	res, err := f.engine.EvaluateProjectTransition(ctx, project.ID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.Transitioned || res.PreviousStatus != 2 || res.NewStatus != 3 {
		t.Fatalf("expected explicit second step 2 -> 3, got %+v", res)
	}
}
