package workflow

import (
	"errors"
	"testing"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

const (
	ns = models.StatusNotStarted
	ip = models.StatusInProgress
	co = models.StatusCompleted
)

func TestTransitionPolicyAllows(t *testing.T) {
	tests := []struct {
		from, to models.TaskStatus
		strict   bool
		relaxed  bool
	}{
		{ns, ns, true, true},
		{ns, ip, true, true},
		{ns, co, false, false},
		{ip, ns, false, true},
		{ip, ip, true, true},
		{ip, co, true, true},
		{co, ns, false, false},
		{co, ip, false, true},
		{co, co, true, true},
	}

	for _, tt := range tests {
		if got := StrictTransitions.Allows(tt.from, tt.to); got != tt.strict {
			t.Errorf("strict %s -> %s: expected %v, got %v", tt.from, tt.to, tt.strict, got)
		}
		if got := RelaxedTransitions.Allows(tt.from, tt.to); got != tt.relaxed {
			t.Errorf("relaxed %s -> %s: expected %v, got %v", tt.from, tt.to, tt.relaxed, got)
		}
	}
}

func TestDefaultTransitionPolicyIsStrict(t *testing.T) {
	if DefaultTransitionPolicy != StrictTransitions {
		t.Fatalf("expected strict default, got %s", DefaultTransitionPolicy)
	}
}

func TestCheckTransitionErrors(t *testing.T) {
	err := StrictTransitions.CheckTransition(co, ns)
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("expected *InvalidTransitionError, got %T", err)
	}
	if ite.From != co || ite.To != ns {
		t.Fatalf("expected completed -> not_started, got %s -> %s", ite.From, ite.To)
	}
	if apperr.IsRetryable(err) {
		t.Fatal("invalid transition must not be retryable")
	}

	err = StrictTransitions.CheckTransition(ns, "archived")
	if apperr.CodeOf(err) != apperr.CodeInvalidArgument {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	if err := StrictTransitions.CheckTransition(ip, co); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestParseTransitionPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    TransitionPolicy
		wantErr bool
	}{
		{"", StrictTransitions, false},
		{"strict", StrictTransitions, false},
		{" Relaxed ", RelaxedTransitions, false},
		{"loose", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTransitionPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%q: unexpected error state %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("%q: expected %s, got %s", tt.in, tt.want, got)
		}
	}
}
