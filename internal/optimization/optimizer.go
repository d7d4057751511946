package optimization

import (
	"context"
)

// ObjectiveFunc is the function being minimised. It receives a point inside
// the parameter space and returns a finite scalar. The value may be noisy:
// repeated evaluation at the same point is allowed to return different
// results, and the loop must not assume determinism.
type ObjectiveFunc func(x []float64) (float64, error)

// Optimizer is the contract shared by the Bayesian optimizer and the
// random-search baseline.
type Optimizer interface {
	// Optimize runs the full evaluation budget against the objective and
	// returns the result trace. The context bounds the run; cancellation
	// aborts between evaluations.
	Optimize(ctx context.Context, objective ObjectiveFunc) (*Result, error)
}

// FailurePolicy decides what happens when a single objective evaluation
// fails or returns a non-finite value.
type FailurePolicy string

const (
	// FailAbort stops the run and surfaces the evaluation error.
	FailAbort FailurePolicy = "abort"
	// FailSkip consumes the budget slot but records nothing.
	FailSkip FailurePolicy = "skip"
	// FailPenalize records the configured penalty value in place of the
	// missing observation.
	FailPenalize FailurePolicy = "penalize"
)

// Valid reports whether p is one of the supported policies.
func (p FailurePolicy) Valid() bool {
	switch p {
	case FailAbort, FailSkip, FailPenalize:
		return true
	}
	return false
}

// Observation is a single evaluated point paired with its objective value.
// An observation is only ever appended complete: a point without a value
// never enters a trace.
type Observation struct {
	Point []float64
	Value float64
}

// Result is the immutable outcome of one optimisation run.
type Result struct {
	// Best is the observation with the minimal value seen during the run.
	// With a noisy objective this is an estimate of the optimum, not a
	// guarantee.
	Best Observation

	// Observations is the full trace in evaluation order.
	Observations []Observation

	// Evaluated counts successful objective evaluations.
	Evaluated int

	// Penalized counts failed evaluations recorded with the penalty value.
	Penalized int

	// Skipped counts failed evaluations that consumed budget but were not
	// recorded.
	Skipped int
}
