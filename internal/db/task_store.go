package db

import (
	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// GetTask retrieves a task by ID
func (s *Store) GetTask(id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		return nil, lookupErr("task", id, err)
	}
	return &task, nil
}

// ListProjectTasks returns a project's tasks in display order.
// Inactive tasks are included only when includeInactive is set.
func (s *Store) ListProjectTasks(projectID uint, includeInactive bool) ([]models.Task, error) {
	var tasks []models.Task
	q := s.db.Where("project_id = ?", projectID)
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	if err := q.Order("sort_order ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, apperr.Unavailable("list tasks", err)
	}
	return tasks, nil
}

// CreateTasks inserts a batch of tasks
func (s *Store) CreateTasks(tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return apperr.Unavailable("create tasks", s.db.Create(&tasks).Error)
}

// UpdateTaskStatus writes a task's status and completion timestamp
func (s *Store) UpdateTaskStatus(task *models.Task) error {
	err := s.db.Model(task).
		Select("status", "completed_at", "updated_at").
		Updates(models.Task{Status: task.Status, CompletedAt: task.CompletedAt}).Error
	return apperr.Unavailable("update task status", err)
}

// UpdateTaskActualMinutes writes a task's accumulated actual time
func (s *Store) UpdateTaskActualMinutes(task *models.Task) error {
	err := s.db.Model(task).
		Select("actual_minutes", "updated_at").
		Updates(models.Task{ActualMinutes: task.ActualMinutes}).Error
	return apperr.Unavailable("update task actual minutes", err)
}

// ListActiveTemplates returns the templates new projects are built from
func (s *Store) ListActiveTemplates() ([]models.TaskTemplate, error) {
	var templates []models.TaskTemplate
	err := s.db.Where("active = ?", true).Order("sort_order ASC, id ASC").Find(&templates).Error
	if err != nil {
		return nil, apperr.Unavailable("list templates", err)
	}
	return templates, nil
}
