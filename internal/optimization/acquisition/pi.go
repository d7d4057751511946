package acquisition

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ProbabilityOfImprovement scores a point by the probability that it
// improves on the best observed value by at least xi. It is more
// conservative than Expected Improvement: it ignores how large the
// improvement would be.
type ProbabilityOfImprovement struct {
	bestObserved float64
	xi           float64
}

// NewProbabilityOfImprovement creates a new PI acquisition function.
func NewProbabilityOfImprovement(xi float64) *ProbabilityOfImprovement {
	return &ProbabilityOfImprovement{
		bestObserved: math.Inf(1),
		xi:           xi,
	}
}

// Compute returns P(f(x) < best - xi) under the posterior N(mu, sigma^2).
func (pi *ProbabilityOfImprovement) Compute(mu, sigma float64) float64 {
	improvement := pi.bestObserved - mu - pi.xi

	if sigma <= 1e-10 {
		if improvement > 0 {
			return 1.0
		}
		return 0.0
	}

	return distuv.UnitNormal.CDF(improvement / sigma)
}

// UpdateBest updates the best observed value
func (pi *ProbabilityOfImprovement) UpdateBest(best float64) {
	pi.bestObserved = best
}
