// Package report turns optimizer traces into the artefacts the course
// asks for: convergence curves, comparison tables, and saved plots.
package report

import (
	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization"
)

// CumulativeMin returns the running best-so-far value of a trace. The
// returned series is non-increasing and has one entry per observation.
func CumulativeMin(observations []optimization.Observation) []float64 {
	if len(observations) == 0 {
		return nil
	}

	series := make([]float64, len(observations))
	best := observations[0].Value
	for i, obs := range observations {
		if obs.Value < best {
			best = obs.Value
		}
		series[i] = best
	}
	return series
}

// Regret returns the per-step gap between the running best and the known
// optimum. Entries are non-negative whenever the optimum is truly global.
func Regret(observations []optimization.Observation, knownBest float64) []float64 {
	series := CumulativeMin(observations)
	for i := range series {
		series[i] -= knownBest
	}
	return series
}
