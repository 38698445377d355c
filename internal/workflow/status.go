package workflow

import (
	"fmt"
	"strings"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// TransitionPolicy decides which direct status changes a user may request.
type TransitionPolicy int

const (
	// StrictTransitions only allows forward, one-step moves:
	// not_started -> in_progress -> completed.
	StrictTransitions TransitionPolicy = iota
	// RelaxedTransitions allows any edit except the two direct jumps
	// not_started -> completed and completed -> not_started.
	RelaxedTransitions
)

// DefaultTransitionPolicy is the policy used unless configuration picks another.
const DefaultTransitionPolicy = StrictTransitions

func (p TransitionPolicy) String() string {
	switch p {
	case StrictTransitions:
		return "strict"
	case RelaxedTransitions:
		return "relaxed"
	}
	return fmt.Sprintf("TransitionPolicy(%d)", int(p))
}

// ParseTransitionPolicy maps a config value to a policy. Empty means default.
func ParseTransitionPolicy(s string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return StrictTransitions, nil
	case "relaxed":
		return RelaxedTransitions, nil
	}
	return 0, fmt.Errorf("unknown transition policy %q (want strict or relaxed)", s)
}

// Allows reports whether the policy permits moving from one status to another.
// Staying in the same status is always allowed.
func (p TransitionPolicy) Allows(from, to models.TaskStatus) bool {
	if from == to {
		return true
	}
	switch p {
	case RelaxedTransitions:
		if from == models.StatusNotStarted && to == models.StatusCompleted {
			return false
		}
		if from == models.StatusCompleted && to == models.StatusNotStarted {
			return false
		}
		return true
	default:
		return (from == models.StatusNotStarted && to == models.StatusInProgress) ||
			(from == models.StatusInProgress && to == models.StatusCompleted)
	}
}

// CheckTransition returns an *InvalidTransitionError when the policy forbids
// the move, or an InvalidArgument error for an unknown status.
func (p TransitionPolicy) CheckTransition(from, to models.TaskStatus) error {
	if !to.Valid() {
		return apperr.Newf(apperr.CodeInvalidArgument, "unknown status %q", to)
	}
	if !p.Allows(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// InvalidTransitionError names the current and requested status of a
// rejected transition.
type InvalidTransitionError struct {
	From models.TaskStatus
	To   models.TaskStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move task from %s to %s", e.From, e.To)
}

// Unwrap makes errors.Is(err, apperr.ErrInvalidTransition) hold.
func (e *InvalidTransitionError) Unwrap() error {
	return apperr.ErrInvalidTransition
}
