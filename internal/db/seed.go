package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/catalog"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// SeedCounts reports how many rows of each kind a seed wrote
type SeedCounts struct {
	Phases       int
	Templates    int
	CheckItems   int
	Requirements int
	Rules        int
}

// SeedCatalog writes the catalog's master data, updating rows that already
// exist by id. Rule requirements are replaced so removed templates drop out.
func (s *Store) SeedCatalog(ctx context.Context, c *catalog.Catalog) (SeedCounts, error) {
	rows := c.Rows()
	counts := SeedCounts{
		Phases:       len(rows.Phases),
		Templates:    len(rows.Templates),
		CheckItems:   len(rows.CheckItems),
		Requirements: len(rows.Requirements),
		Rules:        len(rows.Rules),
	}

	err := s.Transaction(ctx, func(tx *Store) error {
		upsert := tx.db.Clauses(clause.OnConflict{UpdateAll: true}).Session(&gorm.Session{})
		if len(rows.Phases) > 0 {
			if err := upsert.Create(&rows.Phases).Error; err != nil {
				return err
			}
		}
		if len(rows.Templates) > 0 {
			if err := upsert.Create(&rows.Templates).Error; err != nil {
				return err
			}
		}
		if len(rows.CheckItems) > 0 {
			if err := upsert.Create(&rows.CheckItems).Error; err != nil {
				return err
			}
		}

		// Requirements are replaced wholesale for the templates in the catalog
		for _, t := range rows.Templates {
			if err := tx.db.Where("template_id = ?", t.ID).Delete(&models.TaskChecklistRequirement{}).Error; err != nil {
				return err
			}
		}
		if len(rows.Requirements) > 0 {
			if err := tx.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows.Requirements).Error; err != nil {
				return err
			}
		}

		for _, r := range rows.Rules {
			rule := r
			reqs := rule.Requirements
			rule.Requirements = nil
			if err := upsert.Create(&rule).Error; err != nil {
				return err
			}
			if err := tx.db.Where("rule_id = ?", rule.ID).Delete(&models.RuleRequirement{}).Error; err != nil {
				return err
			}
			if len(reqs) > 0 {
				if err := tx.db.Create(&reqs).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return SeedCounts{}, err
	}
	return counts, nil
}
