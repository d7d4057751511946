package optimization

import (
	"math"
	"math/rand"
)

// Space is a bounded parameter domain: one [lower, upper) interval per
// dimension. Dimensionality is fixed for the lifetime of a run.
type Space struct {
	bounds [][2]float64
}

// NewSpace validates the bounds and returns the parameter space. A space
// with no dimensions, a non-finite bound, or any interval where the lower
// bound is not strictly below the upper one (including the degenerate
// lo == hi case) is rejected with ErrInvalidDomain.
func NewSpace(bounds [][2]float64) (*Space, error) {
	const op = "NewSpace"

	if len(bounds) == 0 {
		return nil, NewError(ErrInvalidDomain, "space must have at least one dimension").WithOperation(op)
	}
	for i, b := range bounds {
		lo, hi := b[0], b[1]
		if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) {
			return nil, NewErrorf(ErrInvalidDomain, "dimension %d has non-finite bounds [%v, %v]", i, lo, hi).WithOperation(op)
		}
		if lo >= hi {
			return nil, NewErrorf(ErrInvalidDomain, "dimension %d has degenerate bounds [%v, %v]", i, lo, hi).WithOperation(op)
		}
	}

	cp := make([][2]float64, len(bounds))
	copy(cp, bounds)
	return &Space{bounds: cp}, nil
}

// Dim returns the number of dimensions.
func (s *Space) Dim() int {
	return len(s.bounds)
}

// Bounds returns a copy of the interval list.
func (s *Space) Bounds() [][2]float64 {
	cp := make([][2]float64, len(s.bounds))
	copy(cp, s.bounds)
	return cp
}

// Bound returns the interval for dimension i.
func (s *Space) Bound(i int) (lo, hi float64) {
	return s.bounds[i][0], s.bounds[i][1]
}

// Sample draws one uniform point from the space using the supplied
// generator. The generator is owned by the calling run; there is no
// process-wide random state.
func (s *Space) Sample(rng *rand.Rand) []float64 {
	x := make([]float64, len(s.bounds))
	for i, b := range s.bounds {
		x[i] = b[0] + rng.Float64()*(b[1]-b[0])
	}
	return x
}

// Clamp projects x onto the space in place and returns it.
func (s *Space) Clamp(x []float64) []float64 {
	for i := range x {
		x[i] = math.Max(s.bounds[i][0], math.Min(x[i], s.bounds[i][1]))
	}
	return x
}

// Contains reports whether x lies inside the space.
func (s *Space) Contains(x []float64) bool {
	if len(x) != len(s.bounds) {
		return false
	}
	for i, v := range x {
		if v < s.bounds[i][0] || v > s.bounds[i][1] {
			return false
		}
	}
	return true
}
