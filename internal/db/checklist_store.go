package db

import (
	"gorm.io/gorm/clause"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// RequiredChecklistItems returns the checklist items configured for a
// template, inactive ones included. Callers filter by the active flag.
func (s *Store) RequiredChecklistItems(templateID uint) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	err := s.db.
		Joins("JOIN task_checklist_requirements r ON r.checklist_item_id = checklist_items.id").
		Where("r.template_id = ?", templateID).
		Order("checklist_items.sort_order ASC, checklist_items.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, apperr.Unavailable("list checklist requirements", err)
	}
	return items, nil
}

// ChecklistResults returns the stored checklist results of a task
func (s *Store) ChecklistResults(taskID uint) ([]models.ChecklistResult, error) {
	var results []models.ChecklistResult
	if err := s.db.Where("task_id = ?", taskID).Find(&results).Error; err != nil {
		return nil, apperr.Unavailable("list checklist results", err)
	}
	return results, nil
}

// SetChecklistResult creates or updates one checklist result
func (s *Store) SetChecklistResult(result models.ChecklistResult) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "task_id"}, {Name: "checklist_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"checked"}),
	}).Create(&result).Error
	return apperr.Unavailable("save checklist result", err)
}
