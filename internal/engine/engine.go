// Package engine runs the task workflow against the store: status
// transitions with checklist gating, timer sessions, progress recomputation
// and project phase promotion. Each operation is one store transaction.
package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/apperr"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/db"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

// Clock is the engine's time source.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Engine exposes the workflow operations.
type Engine struct {
	store       *db.Store
	clock       Clock
	logger      zerolog.Logger
	transitions workflow.TransitionPolicy
	progress    workflow.ProgressPolicy
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the logger committed changes and store failures go to.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTransitionPolicy overrides workflow.DefaultTransitionPolicy.
func WithTransitionPolicy(p workflow.TransitionPolicy) Option {
	return func(e *Engine) { e.transitions = p }
}

// WithProgressPolicy overrides workflow.DefaultProgressPolicy.
func WithProgressPolicy(p workflow.ProgressPolicy) Option {
	return func(e *Engine) { e.progress = p }
}

// New returns an Engine over store. The caller owns the store's lifetime.
func New(store *db.Store, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		clock:       SystemClock,
		logger:      zerolog.Nop(),
		transitions: workflow.DefaultTransitionPolicy,
		progress:    workflow.DefaultProgressPolicy,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now reads the engine's clock.
func (e *Engine) Now() time.Time { return e.clock.Now() }

// TransitionPolicy reports the status policy in force.
func (e *Engine) TransitionPolicy() workflow.TransitionPolicy { return e.transitions }

// ProgressPolicy reports the progress weighting in force.
func (e *Engine) ProgressPolicy() workflow.ProgressPolicy { return e.progress }

// fail logs store failures before handing err back. Domain errors are the
// caller's to present and are not logged.
func (e *Engine) fail(op string, err error) error {
	if apperr.IsRetryable(err) {
		e.logger.Error().Err(err).Str("op", op).Msg("store failure")
	}
	return err
}

// loadTask returns an active task or NotFound.
func loadTask(tx *db.Store, id uint) (*models.Task, error) {
	task, err := tx.GetTask(id)
	if err != nil {
		return nil, err
	}
	if !task.Active {
		return nil, apperr.NotFound("task", id)
	}
	return task, nil
}
