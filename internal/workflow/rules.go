package workflow

import (
	"sort"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// CompletedTemplates returns the template ids of the active completed tasks.
func CompletedTemplates(tasks []models.Task) map[uint]bool {
	done := make(map[uint]bool)
	for _, t := range tasks {
		if t.Active && t.Status == models.StatusCompleted {
			done[t.TemplateID] = true
		}
	}
	return done
}

// SelectRule picks the transition rule to apply to a project in status
// current. Only active rules for that status are considered, lowest id first;
// the first whose required templates are all completed wins. It returns
// false when no rule is satisfied.
func SelectRule(current uint, rules []models.ProjectTransitionRule, completed map[uint]bool) (models.ProjectTransitionRule, bool) {
	candidates := make([]models.ProjectTransitionRule, 0, len(rules))
	for _, r := range rules {
		if r.Active && r.CurrentStatus == current {
			candidates = append(candidates, r)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})

	for _, r := range candidates {
		if subsetOf(r.RequiredTemplates(), completed) {
			return r, true
		}
	}
	return models.ProjectTransitionRule{}, false
}

func subsetOf(ids []uint, set map[uint]bool) bool {
	for _, id := range ids {
		if !set[id] {
			return false
		}
	}
	return true
}
