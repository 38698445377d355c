package workflow

import (
	"testing"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

func tasksWith(statuses ...models.TaskStatus) []models.Task {
	tasks := make([]models.Task, len(statuses))
	for i, s := range statuses {
		tasks[i] = models.Task{ID: uint(i + 1), TemplateID: uint(i + 1), Status: s, Active: true}
	}
	return tasks
}

func TestProgressRate(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []models.Task
		weighted float64
		binary   float64
	}{
		{"empty", nil, 0, 0},
		{"mixed", tasksWith(co, co, ip, ns), 62.5, 50},
		{"all done", tasksWith(co, co), 100, 100},
		{"thirds", tasksWith(co, ns, ns), 33.3, 33.3},
		{"in progress only", tasksWith(ip, ip, ip), 50, 0},
		{"tie rounds to even", tasksWith(ip, ns, ns, ns, ns, ns, ns, ns), 6.2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeightedProgress.ProgressRate(tt.tasks); got != tt.weighted {
				t.Fatalf("weighted: expected %v, got %v", tt.weighted, got)
			}
			if got := BinaryProgress.ProgressRate(tt.tasks); got != tt.binary {
				t.Fatalf("binary: expected %v, got %v", tt.binary, got)
			}
		})
	}
}

func TestProgressRateIgnoresInactive(t *testing.T) {
	tasks := tasksWith(co, ns)
	tasks[1].Active = false
	if got := WeightedProgress.ProgressRate(tasks); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
	tasks[0].Active = false
	if got := WeightedProgress.ProgressRate(tasks); got != 0 {
		t.Fatalf("expected 0 with no active tasks, got %v", got)
	}
}

func TestDefaultProgressPolicyIsWeighted(t *testing.T) {
	if DefaultProgressPolicy != WeightedProgress {
		t.Fatalf("expected weighted default, got %s", DefaultProgressPolicy)
	}
	p, err := ParseProgressPolicy("binary")
	if err != nil || p != BinaryProgress {
		t.Fatalf("expected binary, got %s (%v)", p, err)
	}
	if _, err := ParseProgressPolicy("linear"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
