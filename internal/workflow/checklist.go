package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// MissingItem is a required checklist item that is not checked yet
type MissingItem struct {
	ID    uint   `json:"check_item_id"`
	Label string `json:"label"`
}

// ChecklistEntry is one row of a task's checklist
type ChecklistEntry struct {
	ItemID  uint   `json:"check_item_id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// ChecklistUpdate sets the checked flag of one item
type ChecklistUpdate struct {
	ItemID  uint `json:"check_item_id"`
	Checked bool `json:"checked"`
}

// SortItems orders checklist items by sort order, then id.
func SortItems(items []models.ChecklistItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].ID < items[j].ID
	})
}

// BuildChecklist merges the items required for a task with its stored
// results. Inactive items are dropped and absent results read as unchecked.
func BuildChecklist(required []models.ChecklistItem, results []models.ChecklistResult) []ChecklistEntry {
	checked := make(map[uint]bool, len(results))
	for _, r := range results {
		checked[r.ChecklistItemID] = r.Checked
	}

	items := activeItems(required)
	entries := make([]ChecklistEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, ChecklistEntry{
			ItemID:  item.ID,
			Label:   item.Label,
			Checked: checked[item.ID],
		})
	}
	return entries
}

// MissingItems is the checklist gate: the required active items whose result
// is not checked, in display order. An empty result means the task may
// complete; a task with no requirements always passes.
func MissingItems(required []models.ChecklistItem, results []models.ChecklistResult) []MissingItem {
	var missing []MissingItem
	for _, entry := range BuildChecklist(required, results) {
		if !entry.Checked {
			missing = append(missing, MissingItem{ID: entry.ItemID, Label: entry.Label})
		}
	}
	return missing
}

func activeItems(items []models.ChecklistItem) []models.ChecklistItem {
	out := make([]models.ChecklistItem, 0, len(items))
	for _, item := range items {
		if item.Active {
			out = append(out, item)
		}
	}
	SortItems(out)
	return out
}

// CompletionBlockedError carries the checklist items that keep a task from
// completing.
type CompletionBlockedError struct {
	TaskID  uint
	Missing []MissingItem
}

func (e *CompletionBlockedError) Error() string {
	labels := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		labels[i] = m.Label
	}
	return fmt.Sprintf("task #%d cannot complete, unchecked: %s", e.TaskID, strings.Join(labels, ", "))
}

// Unwrap makes errors.Is(err, apperr.ErrCompletionBlocked) hold.
func (e *CompletionBlockedError) Unwrap() error {
	return apperr.ErrCompletionBlocked
}
