package engine

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/catalog"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/db"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// Templates 1..4; template 2 is gated by items A and B (C is retired).
const testCatalog = `
phases:
  - {id: 1, key: planning, name: Planning, sort_order: 1}
  - {id: 2, key: recording, name: Recording, sort_order: 2}
  - {id: 3, key: editing, name: Editing, sort_order: 3}
templates:
  - {id: 1, name: Plan, phase: planning, estimate_minutes: 30, sort_order: 1}
  - {id: 2, name: Record, phase: recording, estimate_minutes: 60, sort_order: 2}
  - {id: 3, name: Edit, phase: editing, estimate_minutes: 180, sort_order: 3}
  - {id: 4, name: Upload, phase: editing, estimate_minutes: 15, sort_order: 4}
check_items:
  - {id: 1, label: A, sort_order: 1}
  - {id: 2, label: B, sort_order: 2}
  - {id: 3, label: C, sort_order: 3, active: false}
requirements:
  2: [1, 2, 3]
`

const (
	itemA uint = 1
	itemB uint = 2
	itemC uint = 3
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	engine *Engine
	store  *db.Store
	clock  *fakeClock
}

// newFixture opens a fresh database seeded with testCatalog plus extra YAML
// (usually a rules: block).
func newFixture(t *testing.T, extra string, opts ...Option) *fixture {
	t.Helper()

	store, err := db.Open(filepath.Join(t.TempDir(), "studio.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	c, err := catalog.Parse([]byte(testCatalog + extra))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	if _, err := store.SeedCatalog(context.Background(), c); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	clock := newFakeClock()
	opts = append([]Option{WithClock(clock)}, opts...)
	return &fixture{engine: New(store, opts...), store: store, clock: clock}
}

// newProject creates a project and returns it with its tasks keyed by template id.
func (f *fixture) newProject(t *testing.T) (*models.Project, map[uint]models.Task) {
	t.Helper()
	ctx := context.Background()

	project, err := f.engine.CreateProject(ctx, NewProject{Theme: "Redstone computer"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	tasks, err := f.engine.ListTasks(ctx, project.ID, "")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	byTemplate := make(map[uint]models.Task, len(tasks))
	for _, task := range tasks {
		byTemplate[task.TemplateID] = task
	}
	return project, byTemplate
}

// forceStatus writes a status directly, skipping the engine's rules and side effects.
func (f *fixture) forceStatus(t *testing.T, taskID uint, status models.TaskStatus) {
	t.Helper()
	err := f.store.Transaction(context.Background(), func(tx *db.Store) error {
		task, err := tx.GetTask(taskID)
		if err != nil {
			return err
		}
		task.Status = status
		return tx.UpdateTaskStatus(task)
	})
	if err != nil {
		t.Fatalf("force status: %v", err)
	}
}

func (f *fixture) task(t *testing.T, id uint) *models.Task {
	t.Helper()
	task, err := f.engine.GetTask(context.Background(), id)
	if err != nil {
		t.Fatalf("get task %d: %v", id, err)
	}
	return task
}

func (f *fixture) project(t *testing.T, id uint) *models.Project {
	t.Helper()
	project, err := f.engine.GetProject(context.Background(), id)
	if err != nil {
		t.Fatalf("get project %d: %v", id, err)
	}
	return project
}

func (f *fixture) openSessions(t *testing.T, taskID uint) int {
	t.Helper()
	sessions, err := f.engine.ListSessions(context.Background(), taskID)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	n := 0
	for _, s := range sessions {
		if s.Open() {
			n++
		}
	}
	return n
}
