package models

import (
	"time"
)

// TaskStatus is the lifecycle state of a project task
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the three known statuses
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskSnapshot holds the template fields copied when the task is created.
// Later template edits never reach it.
type TaskSnapshot struct {
	Name            string `gorm:"column:name_snapshot;not null" json:"name"`
	PhaseID         uint   `gorm:"column:phase_id_snapshot;not null;default:0" json:"phase_id"`
	EstimateMinutes int    `gorm:"column:est_minutes_snapshot;not null;default:0" json:"estimate_minutes"`
}

// Task represents one production task inside a project
type Task struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectID  uint `gorm:"not null;index;uniqueIndex:uq_project_template,priority:1" json:"project_id"`
	TemplateID uint `gorm:"not null;uniqueIndex:uq_project_template,priority:2" json:"template_id"`

	TaskSnapshot `gorm:"embedded"`

	Status        TaskStatus `gorm:"size:20;not null;default:not_started" json:"status"`
	ActualMinutes float64    `gorm:"not null;default:0" json:"actual_minutes"`
	CompletedAt   *time.Time `json:"completed_at"`
	Active        bool       `gorm:"not null" json:"active"`
	SortOrder     int        `gorm:"not null;default:0" json:"sort_order"`
}

// TaskTemplate is master data from which project tasks are created
type TaskTemplate struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"not null" json:"name"`
	PhaseID         uint   `gorm:"not null" json:"phase_id"`
	EstimateMinutes int    `gorm:"not null;default:0" json:"estimate_minutes"`
	TimerTarget     bool   `gorm:"not null;default:false" json:"timer_target"`
	SortOrder       int    `gorm:"not null;default:0" json:"sort_order"`
	Active          bool   `gorm:"not null" json:"active"`
}

// Snapshot copies the fields a task keeps for its whole lifetime
func (t TaskTemplate) Snapshot() TaskSnapshot {
	return TaskSnapshot{
		Name:            t.Name,
		PhaseID:         t.PhaseID,
		EstimateMinutes: t.EstimateMinutes,
	}
}
