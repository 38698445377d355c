package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

var statusAliases = map[string]models.TaskStatus{
	"not_started": models.StatusNotStarted,
	"not-started": models.StatusNotStarted,
	"todo":        models.StatusNotStarted,
	"未着手":         models.StatusNotStarted,
	"in_progress": models.StatusInProgress,
	"in-progress": models.StatusInProgress,
	"wip":         models.StatusInProgress,
	"doing":       models.StatusInProgress,
	"進行中":         models.StatusInProgress,
	"completed":   models.StatusCompleted,
	"done":        models.StatusCompleted,
	"完了":          models.StatusCompleted,
}

// ParseStatus converts user input to a task status.
// Accepts the stored names plus short aliases like "todo", "wip" and "done".
func ParseStatus(input string) (models.TaskStatus, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return "", fmt.Errorf("invalid status '%s'. Use: todo, wip, or done", input)
}

// ParseID parses a record id such as "12" or "#12"
func ParseID(input string) (uint, error) {
	s := strings.TrimPrefix(strings.TrimSpace(input), "#")
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id '%s'", input)
	}
	return uint(id), nil
}

// ParseChecklistUpdates parses check item arguments.
// "3" checks item 3 and "!3" or "-3" unchecks it. Comma separated lists are
// accepted, e.g. "1,2,!3". A later mention of an item wins.
func ParseChecklistUpdates(args []string) ([]workflow.ChecklistUpdate, error) {
	var updates []workflow.ChecklistUpdate
	index := make(map[uint]int)

	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			checked := true
			if strings.HasPrefix(part, "!") || strings.HasPrefix(part, "-") {
				checked = false
				part = part[1:]
			}
			id, err := ParseID(part)
			if err != nil {
				return nil, err
			}
			if i, seen := index[id]; seen {
				updates[i].Checked = checked
				continue
			}
			index[id] = len(updates)
			updates = append(updates, workflow.ChecklistUpdate{ItemID: id, Checked: checked})
		}
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no check items given")
	}
	return updates, nil
}
