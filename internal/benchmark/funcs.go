// Package benchmark provides the analytic objective functions used to
// exercise and compare the optimizers, together with their known optima.
package benchmark

import (
	"fmt"
	"math"
	"sort"

	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization"
)

// Optimum is the analytically known global minimum of a benchmark.
type Optimum struct {
	Point []float64
	Value float64
}

// Benchmark bundles an objective with its domain and known optimum.
type Benchmark struct {
	Name        string
	Description string
	Objective   optimization.ObjectiveFunc
	Bounds      [][2]float64
	Known       Optimum
}

// Space builds the parameter space for the benchmark's bounds.
func (b Benchmark) Space() (*optimization.Space, error) {
	return optimization.NewSpace(b.Bounds)
}

// Supermat models a two-parameter synthesis yield surface on [0, 5]^2.
// It is a rescaled Branin function: multimodal, smooth, with a global
// minimum of ~0.3979 at ~(2.7139, 0.7583).
func Supermat(x, y float64) float64 {
	// Map [0,5]^2 onto the Branin domain [-5,10] x [0,15].
	u := 3*x - 5
	v := 3 * y

	const (
		a = 1.0
		r = 6.0
		s = 10.0
	)
	b := 5.1 / (4 * math.Pi * math.Pi)
	c := 5 / math.Pi
	t := 1 / (8 * math.Pi)

	term := v - b*u*u + c*u - r
	return a*term*term + s*(1-t)*math.Cos(u) + s
}

// SinLinear is the course's one-dimensional warm-up objective
// sin(x) + 0.1x on [-5, 5], minimised at x ~ -1.6710.
func SinLinear(x float64) float64 {
	return math.Sin(x) + 0.1*x
}

var registry = map[string]Benchmark{
	"supermat": {
		Name:        "supermat",
		Description: "2D synthesis yield surface (rescaled Branin)",
		Objective: func(x []float64) (float64, error) {
			if len(x) != 2 {
				return 0, fmt.Errorf("supermat expects 2 parameters, got %d", len(x))
			}
			return Supermat(x[0], x[1]), nil
		},
		Bounds: [][2]float64{{0, 5}, {0, 5}},
		Known: Optimum{
			Point: []float64{(math.Pi + 5) / 3, 2.275 / 3},
			Value: 5 / (4 * math.Pi),
		},
	},
	"sinlinear": {
		Name:        "sinlinear",
		Description: "1D warm-up objective sin(x) + 0.1x",
		Objective: func(x []float64) (float64, error) {
			if len(x) != 1 {
				return 0, fmt.Errorf("sinlinear expects 1 parameter, got %d", len(x))
			}
			return SinLinear(x[0]), nil
		},
		Bounds: [][2]float64{{-5, 5}},
		Known: Optimum{
			Point: []float64{-math.Acos(-0.1)},
			Value: -(math.Sqrt(0.99) + 0.1*math.Acos(-0.1)),
		},
	},
}

// Lookup returns the named benchmark.
func Lookup(name string) (Benchmark, error) {
	b, ok := registry[name]
	if !ok {
		return Benchmark{}, fmt.Errorf("unknown benchmark %q (available: %v)", name, Names())
	}
	return b, nil
}

// Names lists the registered benchmarks in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
