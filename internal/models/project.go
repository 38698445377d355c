package models

import (
	"time"
)

// Project is a video production whose status is a phase id
type Project struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Theme        string     `gorm:"not null" json:"theme"`
	Memo         string     `json:"memo"`
	Due          *time.Time `json:"due"`
	Status       uint       `gorm:"not null;default:1" json:"status"`
	ProgressRate float64    `gorm:"not null;default:0" json:"progress_rate"` // 0-100, one decimal
}

// Phase names a project status
type Phase struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Key       string `gorm:"uniqueIndex;not null" json:"key"`
	Name      string `gorm:"not null" json:"name"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
	Active    bool   `gorm:"not null" json:"active"`
}

// ProjectTransitionRule promotes a project from CurrentStatus to NextStatus
// once every template in RequiredTemplates has a completed task.
type ProjectTransitionRule struct {
	ID            uint `gorm:"primarykey" json:"id"`
	CurrentStatus uint `gorm:"not null;index" json:"current_status"`
	NextStatus    uint `gorm:"not null" json:"next_status"`
	Active        bool `gorm:"not null" json:"active"`

	// Relationships
	Requirements []RuleRequirement `gorm:"foreignKey:RuleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"requirements"`
}

// RequiredTemplates returns the template ids the rule waits on
func (r ProjectTransitionRule) RequiredTemplates() []uint {
	ids := make([]uint, 0, len(r.Requirements))
	for _, req := range r.Requirements {
		ids = append(ids, req.TemplateID)
	}
	return ids
}

// RuleRequirement is the join table for a rule's required templates
type RuleRequirement struct {
	RuleID     uint `gorm:"primaryKey"`
	TemplateID uint `gorm:"primaryKey"`
}
