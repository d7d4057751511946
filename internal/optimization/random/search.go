// Package random implements the uniform random-search baseline the course
// compares Bayesian optimisation against. It shares the optimizer contract
// and failure policies but builds no surrogate model.
package random

import (
	"context"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization"
)

// Config configures one random-search run.
type Config struct {
	// Space is the bounded parameter domain. Required.
	Space *optimization.Space

	// Budget is the total number of objective evaluations. Required.
	Budget int

	// Seed fixes the sample sequence; honoured as given, 0 included.
	Seed int64

	// FailurePolicy decides how a failed evaluation is handled. Defaults
	// to FailAbort.
	FailurePolicy optimization.FailurePolicy

	// PenaltyValue is recorded in place of a failed evaluation under
	// FailPenalize. Must be finite when that policy is chosen.
	PenaltyValue float64

	// Logger receives run diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Search draws independent uniform samples from the space and keeps the
// best one.
type Search struct {
	cfg    Config
	rng    *rand.Rand
	logger *zap.Logger
}

// New validates the configuration and creates a Search.
func New(cfg Config) (*Search, error) {
	const op = "random.New"

	if cfg.Space == nil {
		return nil, optimization.NewError(optimization.ErrInvalidDomain, "parameter space is required").WithOperation(op)
	}
	if cfg.Budget <= 0 {
		return nil, optimization.NewErrorf(optimization.ErrInsufficientBudget, "budget must be positive, got %d", cfg.Budget).WithOperation(op)
	}
	if cfg.FailurePolicy == "" {
		cfg.FailurePolicy = optimization.FailAbort
	}
	if !cfg.FailurePolicy.Valid() {
		return nil, optimization.NewErrorf(optimization.ErrEvaluation, "unknown failure policy %q", cfg.FailurePolicy).WithOperation(op)
	}
	if cfg.FailurePolicy == optimization.FailPenalize && (math.IsNaN(cfg.PenaltyValue) || math.IsInf(cfg.PenaltyValue, 0)) {
		return nil, optimization.NewError(optimization.ErrEvaluation, "penalize policy requires a finite penalty value").WithOperation(op)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Search{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: cfg.Logger.Named("random_search"),
	}, nil
}

// Optimize draws Budget uniform samples, evaluates each, and returns the
// trace with the minimal observation.
func (rs *Search) Optimize(ctx context.Context, objective optimization.ObjectiveFunc) (*optimization.Result, error) {
	const op = "random.Optimize"

	result := &optimization.Result{
		Observations: make([]optimization.Observation, 0, rs.cfg.Budget),
	}
	var best *optimization.Observation

	record := func(x []float64, value float64) {
		obs := optimization.Observation{Point: x, Value: value}
		result.Observations = append(result.Observations, obs)
		if best == nil || value < best.Value {
			best = &obs
		}
	}

	for i := 0; i < rs.cfg.Budget; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		x := rs.cfg.Space.Sample(rs.rng)
		value, err := objective(x)
		if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
			err = optimization.NewErrorf(optimization.ErrEvaluation, "objective returned non-finite value %v", value)
		}
		if err != nil {
			switch rs.cfg.FailurePolicy {
			case optimization.FailSkip:
				result.Skipped++
				rs.logger.Warn("evaluation failed, skipping point",
					zap.Float64s("point", x),
					zap.Error(err))
				continue
			case optimization.FailPenalize:
				result.Penalized++
				rs.logger.Warn("evaluation failed, recording penalty",
					zap.Float64s("point", x),
					zap.Float64("penalty", rs.cfg.PenaltyValue),
					zap.Error(err))
				record(x, rs.cfg.PenaltyValue)
				continue
			default:
				return nil, optimization.EvaluationError(x, err).WithOperation(op)
			}
		}
		result.Evaluated++
		record(x, value)
	}

	if best == nil {
		return nil, optimization.NewError(optimization.ErrEvaluation, "no evaluation succeeded within the budget").WithOperation(op)
	}

	result.Best = *best
	rs.logger.Info("random search finished",
		zap.Int("evaluated", result.Evaluated),
		zap.Int("penalized", result.Penalized),
		zap.Int("skipped", result.Skipped),
		zap.Float64("best_value", result.Best.Value))
	return result, nil
}
