package db

import (
	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// CreateProject inserts a new project
func (s *Store) CreateProject(project *models.Project) error {
	return apperr.Unavailable("create project", s.db.Create(project).Error)
}

// GetProject retrieves a project by ID
func (s *Store) GetProject(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, lookupErr("project", id, err)
	}
	return &project, nil
}

// ListProjects returns all projects, newest first
func (s *Store) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Order("id DESC").Find(&projects).Error; err != nil {
		return nil, apperr.Unavailable("list projects", err)
	}
	return projects, nil
}

// UpdateProjectProgress replaces a project's stored progress rate
func (s *Store) UpdateProjectProgress(project *models.Project) error {
	err := s.db.Model(project).
		Select("progress_rate", "updated_at").
		Updates(models.Project{ProgressRate: project.ProgressRate}).Error
	return apperr.Unavailable("update project progress", err)
}

// UpdateProjectStatus writes a project's phase
func (s *Store) UpdateProjectStatus(project *models.Project) error {
	err := s.db.Model(project).
		Select("status", "updated_at").
		Updates(models.Project{Status: project.Status}).Error
	return apperr.Unavailable("update project status", err)
}

// ListActiveRules returns the active transition rules leaving a status,
// lowest id first, with their required templates loaded
func (s *Store) ListActiveRules(currentStatus uint) ([]models.ProjectTransitionRule, error) {
	var rules []models.ProjectTransitionRule
	err := s.db.Preload("Requirements").
		Where("current_status = ? AND active = ?", currentStatus, true).
		Order("id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, apperr.Unavailable("list transition rules", err)
	}
	return rules, nil
}

// ListPhases returns the active phases in order
func (s *Store) ListPhases() ([]models.Phase, error) {
	var phases []models.Phase
	err := s.db.Where("active = ?", true).Order("sort_order ASC, id ASC").Find(&phases).Error
	if err != nil {
		return nil, apperr.Unavailable("list phases", err)
	}
	return phases, nil
}
