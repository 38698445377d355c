package models

// ChecklistItem is a global check that can gate task completion
type ChecklistItem struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Label     string `gorm:"not null" json:"label"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
	Active    bool   `gorm:"not null" json:"active"`
}

// TaskChecklistRequirement links a task template to a checklist item that
// must be checked before tasks made from the template can complete.
type TaskChecklistRequirement struct {
	TemplateID      uint `gorm:"primaryKey" json:"template_id"`
	ChecklistItemID uint `gorm:"primaryKey" json:"checklist_item_id"`
}

// ChecklistResult records whether a task has a checklist item checked.
// A missing row means unchecked.
type ChecklistResult struct {
	TaskID          uint `gorm:"primaryKey" json:"task_id"`
	ChecklistItemID uint `gorm:"primaryKey" json:"checklist_item_id"`
	Checked         bool `gorm:"not null;default:false" json:"checked"`
}
