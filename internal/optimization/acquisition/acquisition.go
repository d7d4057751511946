// Package acquisition provides the scoring functions that decide which
// point the Bayesian optimizer evaluates next. All functions assume
// minimisation and return a utility where higher means more promising.
package acquisition

import (
	"fmt"
)

// Function scores a candidate point from the surrogate's posterior mean and
// standard deviation at that point.
type Function interface {
	// Compute returns the utility of sampling at a point with posterior
	// mean mu and standard deviation sigma. Higher is better.
	Compute(mu, sigma float64) float64

	// UpdateBest tells the function the best (lowest) observed value so
	// far. Called once per iteration before the candidate search.
	UpdateBest(best float64)
}

// Known function names, used for configuration.
const (
	NameEI  = "ei"
	NamePI  = "pi"
	NameLCB = "lcb"
)

// New builds an acquisition function by name. xi is the exploration margin
// used by EI and PI; beta is the confidence width used by LCB.
func New(name string, xi, beta float64) (Function, error) {
	switch name {
	case NameEI, "":
		return NewExpectedImprovement(xi), nil
	case NamePI:
		return NewProbabilityOfImprovement(xi), nil
	case NameLCB:
		return NewLowerConfidenceBound(beta), nil
	}
	return nil, fmt.Errorf("unknown acquisition function %q", name)
}
