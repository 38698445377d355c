package workflow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// ProgressPolicy decides how much each task status counts toward progress.
type ProgressPolicy int

const (
	// WeightedProgress counts completed as 1, in progress as 0.5.
	WeightedProgress ProgressPolicy = iota
	// BinaryProgress only counts completed tasks.
	BinaryProgress
)

// DefaultProgressPolicy is the policy used unless configuration picks another.
const DefaultProgressPolicy = WeightedProgress

func (p ProgressPolicy) String() string {
	switch p {
	case WeightedProgress:
		return "weighted"
	case BinaryProgress:
		return "binary"
	}
	return fmt.Sprintf("ProgressPolicy(%d)", int(p))
}

// ParseProgressPolicy maps a config value to a policy. Empty means default.
func ParseProgressPolicy(s string) (ProgressPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "weighted":
		return WeightedProgress, nil
	case "binary":
		return BinaryProgress, nil
	}
	return 0, fmt.Errorf("unknown progress policy %q (want weighted or binary)", s)
}

// Weight returns how much a task in status s counts.
func (p ProgressPolicy) Weight(s models.TaskStatus) float64 {
	switch s {
	case models.StatusCompleted:
		return 1
	case models.StatusInProgress:
		if p == WeightedProgress {
			return 0.5
		}
	}
	return 0
}

// ProgressRate returns the share of weighted work done over the active tasks,
// as a percentage rounded to one decimal. No active tasks means 0.
func (p ProgressPolicy) ProgressRate(tasks []models.Task) float64 {
	var score float64
	var n int
	for _, t := range tasks {
		if !t.Active {
			continue
		}
		n++
		score += p.Weight(t.Status)
	}
	if n == 0 {
		return 0
	}
	return Round1(100 * score / float64(n))
}

// Round1 rounds the exact binary value to one decimal place, ties to even,
// so 6.25 becomes 6.2.
func Round1(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
