package query

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
)

// Mutation is a user-initiated write. It runs once; failures are never retried.
type Mutation[V, R any] struct {
	Name string
	Fn   func(ctx context.Context, vars V) (R, error)

	// OnMutate runs before Fn and may return a rollback applied when Fn fails.
	OnMutate  func(vars V) (rollback func())
	OnSuccess func(ctx context.Context, vars V, result R)
	OnError   func(ctx context.Context, vars V, err error)

	Metrics *metrics.Recorder
	Logger  *slog.Logger
}

// Run executes the mutation and its callbacks in order.
func (m Mutation[V, R]) Run(ctx context.Context, vars V) (R, error) {
	var rollback func()
	if m.OnMutate != nil {
		rollback = m.OnMutate(vars)
	}

	result, err := m.Fn(ctx, vars)
	m.Metrics.RecordMutation(m.Name, err)
	if err != nil {
		if rollback != nil {
			rollback()
		}
		logging.Warn(m.Logger, "mutation failed", logging.FieldAction, m.Name, "error", err)
		if m.OnError != nil {
			m.OnError(ctx, vars, err)
		}
		var zero R
		return zero, err
	}

	logging.Info(m.Logger, "mutation succeeded", logging.FieldAction, m.Name)
	if m.OnSuccess != nil {
		m.OnSuccess(ctx, vars, result)
	}
	return result, nil
}
