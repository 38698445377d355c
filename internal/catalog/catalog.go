// Package catalog loads the studio master data (phases, task templates,
// checklist items, checklist requirements and project transition rules) from
// YAML.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

//go:embed default.yaml
var defaultYAML []byte

// PhaseDef declares one project phase.
type PhaseDef struct {
	ID        uint   `yaml:"id"`
	Key       string `yaml:"key"`
	Name      string `yaml:"name"`
	SortOrder int    `yaml:"sort_order"`
	Active    *bool  `yaml:"active,omitempty"`
}

// TemplateDef declares a task template. Phase refers to a phase key.
type TemplateDef struct {
	ID              uint   `yaml:"id"`
	Name            string `yaml:"name"`
	Phase           string `yaml:"phase"`
	EstimateMinutes int    `yaml:"estimate_minutes"`
	TimerTarget     bool   `yaml:"timer_target"`
	SortOrder       int    `yaml:"sort_order"`
	Active          *bool  `yaml:"active,omitempty"`
}

// CheckItemDef declares a checklist item.
type CheckItemDef struct {
	ID        uint   `yaml:"id"`
	Label     string `yaml:"label"`
	SortOrder int    `yaml:"sort_order"`
	Active    *bool  `yaml:"active,omitempty"`
}

// RuleDef declares a project transition rule. From and To are phase keys,
// Requires lists template ids.
type RuleDef struct {
	ID       uint   `yaml:"id"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Requires []uint `yaml:"requires"`
	Active   *bool  `yaml:"active,omitempty"`
}

// Catalog is the whole master-data document.
type Catalog struct {
	Phases       []PhaseDef      `yaml:"phases"`
	Templates    []TemplateDef   `yaml:"templates"`
	CheckItems   []CheckItemDef  `yaml:"check_items"`
	Requirements map[uint][]uint `yaml:"requirements"`
	Rules        []RuleDef       `yaml:"rules"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Parse decodes and validates a catalog payload.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog: payload is empty")
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// Validate checks ids are unique and every reference resolves.
func (c *Catalog) Validate() error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	phaseKeys := make(map[string]bool, len(c.Phases))
	phaseIDs := make(map[uint]bool, len(c.Phases))
	for _, p := range c.Phases {
		if p.ID == 0 {
			addf("phase %q has no id", p.Key)
		}
		if strings.TrimSpace(p.Key) == "" {
			addf("phase %d has no key", p.ID)
		}
		if phaseIDs[p.ID] {
			addf("duplicate phase id %d", p.ID)
		}
		if phaseKeys[p.Key] {
			addf("duplicate phase key %q", p.Key)
		}
		phaseIDs[p.ID] = true
		phaseKeys[p.Key] = true
	}

	templateIDs := make(map[uint]bool, len(c.Templates))
	for _, t := range c.Templates {
		if t.ID == 0 {
			addf("template %q has no id", t.Name)
		}
		if templateIDs[t.ID] {
			addf("duplicate template id %d", t.ID)
		}
		if strings.TrimSpace(t.Name) == "" {
			addf("template %d has no name", t.ID)
		}
		if !phaseKeys[t.Phase] {
			addf("template %d refers to unknown phase %q", t.ID, t.Phase)
		}
		if t.EstimateMinutes < 0 {
			addf("template %d has a negative estimate", t.ID)
		}
		templateIDs[t.ID] = true
	}

	itemIDs := make(map[uint]bool, len(c.CheckItems))
	for _, item := range c.CheckItems {
		if item.ID == 0 {
			addf("check item %q has no id", item.Label)
		}
		if itemIDs[item.ID] {
			addf("duplicate check item id %d", item.ID)
		}
		itemIDs[item.ID] = true
	}

	for templateID, required := range c.Requirements {
		if !templateIDs[templateID] {
			addf("requirements refer to unknown template %d", templateID)
		}
		for _, itemID := range required {
			if !itemIDs[itemID] {
				addf("template %d requires unknown check item %d", templateID, itemID)
			}
		}
	}

	ruleIDs := make(map[uint]bool, len(c.Rules))
	for _, r := range c.Rules {
		if r.ID == 0 {
			addf("rule %s->%s has no id", r.From, r.To)
		}
		if ruleIDs[r.ID] {
			addf("duplicate rule id %d", r.ID)
		}
		ruleIDs[r.ID] = true
		if !phaseKeys[r.From] {
			addf("rule %d starts from unknown phase %q", r.ID, r.From)
		}
		if !phaseKeys[r.To] {
			addf("rule %d leads to unknown phase %q", r.ID, r.To)
		}
		if r.From == r.To {
			addf("rule %d does not change phase", r.ID)
		}
		for _, tid := range r.Requires {
			if !templateIDs[tid] {
				addf("rule %d requires unknown template %d", r.ID, tid)
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("catalog: invalid: %w", errors.New(strings.Join(problems, "; ")))
	}
	return nil
}

// Rows is the catalog converted to the rows the store persists.
type Rows struct {
	Phases       []models.Phase
	Templates    []models.TaskTemplate
	CheckItems   []models.ChecklistItem
	Requirements []models.TaskChecklistRequirement
	Rules        []models.ProjectTransitionRule
}

// Rows resolves phase keys to ids and returns the catalog as model rows.
// The catalog must already be valid.
func (c *Catalog) Rows() Rows {
	phaseID := make(map[string]uint, len(c.Phases))
	var rows Rows
	for _, p := range c.Phases {
		phaseID[p.Key] = p.ID
		rows.Phases = append(rows.Phases, models.Phase{
			ID: p.ID, Key: p.Key, Name: p.Name, SortOrder: p.SortOrder, Active: active(p.Active),
		})
	}
	for _, t := range c.Templates {
		rows.Templates = append(rows.Templates, models.TaskTemplate{
			ID:              t.ID,
			Name:            t.Name,
			PhaseID:         phaseID[t.Phase],
			EstimateMinutes: t.EstimateMinutes,
			TimerTarget:     t.TimerTarget,
			SortOrder:       t.SortOrder,
			Active:          active(t.Active),
		})
	}
	for _, item := range c.CheckItems {
		rows.CheckItems = append(rows.CheckItems, models.ChecklistItem{
			ID: item.ID, Label: item.Label, SortOrder: item.SortOrder, Active: active(item.Active),
		})
	}

	templateIDs := make([]uint, 0, len(c.Requirements))
	for tid := range c.Requirements {
		templateIDs = append(templateIDs, tid)
	}
	sort.Slice(templateIDs, func(i, j int) bool { return templateIDs[i] < templateIDs[j] })
	for _, tid := range templateIDs {
		for _, itemID := range c.Requirements[tid] {
			rows.Requirements = append(rows.Requirements, models.TaskChecklistRequirement{
				TemplateID: tid, ChecklistItemID: itemID,
			})
		}
	}

	for _, r := range c.Rules {
		rule := models.ProjectTransitionRule{
			ID:            r.ID,
			CurrentStatus: phaseID[r.From],
			NextStatus:    phaseID[r.To],
			Active:        active(r.Active),
		}
		for _, tid := range r.Requires {
			rule.Requirements = append(rule.Requirements, models.RuleRequirement{RuleID: r.ID, TemplateID: tid})
		}
		rows.Rules = append(rows.Rules, rule)
	}
	return rows
}

func active(v *bool) bool {
	return v == nil || *v
}
