package acquisition

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ExpectedImprovement implements the Expected Improvement acquisition
// function for minimisation. It balances the probability and the magnitude
// of improving on the best observed value.
type ExpectedImprovement struct {
	// Best observed value so far
	bestObserved float64
	// Exploration-exploitation trade-off parameter (xi)
	xi float64
}

// NewExpectedImprovement creates a new ExpectedImprovement acquisition
// function. The incumbent starts at +Inf, so the caller must UpdateBest
// before the scores are meaningful.
func NewExpectedImprovement(xi float64) *ExpectedImprovement {
	return &ExpectedImprovement{
		bestObserved: math.Inf(1),
		xi:           xi,
	}
}

// Compute computes the Expected Improvement at a point with posterior mean
// mu and standard deviation sigma. The result is always non-negative.
func (ei *ExpectedImprovement) Compute(mu, sigma float64) float64 {
	// improvement = best_observed - mu - xi for minimisation
	improvement := ei.bestObserved - mu - ei.xi

	// If sigma is zero or very small we are certain about the prediction:
	// the improvement is all there is.
	if sigma <= 1e-10 {
		if improvement <= 0 {
			return 0.0
		}
		return improvement
	}

	// EI = improvement * Φ(z) + sigma * φ(z)
	// where Φ is the CDF and φ is the PDF of the standard normal distribution
	stdNormal := distuv.UnitNormal
	z := improvement / sigma

	return improvement*stdNormal.CDF(z) + sigma*stdNormal.Prob(z)
}

// UpdateBest updates the best observed value
func (ei *ExpectedImprovement) UpdateBest(best float64) {
	ei.bestObserved = best
}

// SetXi sets the exploration-exploitation trade-off parameter
func (ei *ExpectedImprovement) SetXi(xi float64) {
	ei.xi = xi
}

// BestObserved returns the best observed value
func (ei *ExpectedImprovement) BestObserved() float64 {
	return ei.bestObserved
}
