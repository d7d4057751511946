package benchmark

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization/bayesian"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization/random"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		b, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, b.Name)
		assert.NotNil(t, b.Objective)
		assert.NotEmpty(t, b.Bounds)
	}

	_, err := Lookup("rosenbrock")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown benchmark")
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"sinlinear", "supermat"}, Names())
}

func TestKnownOptima(t *testing.T) {
	for _, name := range Names() {
		b, err := Lookup(name)
		require.NoError(t, err)

		t.Run(name, func(t *testing.T) {
			// The stored optimum must match the objective at its argmin.
			val, err := b.Objective(b.Known.Point)
			require.NoError(t, err)
			assert.InDelta(t, b.Known.Value, val, 1e-9)

			// And it must be a minimum: perturbing the argmin in any
			// coordinate can only increase the value.
			for dim := range b.Known.Point {
				for _, h := range []float64{-1e-3, 1e-3} {
					x := append([]float64(nil), b.Known.Point...)
					x[dim] += h
					perturbed, err := b.Objective(x)
					require.NoError(t, err)
					assert.GreaterOrEqual(t, perturbed, val)
				}
			}
		})
	}
}

func TestObjectiveDimensionCheck(t *testing.T) {
	supermat, err := Lookup("supermat")
	require.NoError(t, err)
	_, err = supermat.Objective([]float64{1.0})
	require.Error(t, err)

	sinlinear, err := Lookup("sinlinear")
	require.NoError(t, err)
	_, err = sinlinear.Objective([]float64{1.0, 2.0})
	require.Error(t, err)
}

func TestSupermatSurface(t *testing.T) {
	// Spot values away from the optimum stay well above the minimum.
	assert.Greater(t, Supermat(0, 0), 10.0)
	assert.Greater(t, Supermat(5, 5), 10.0)

	min := 5 / (4 * math.Pi)
	assert.InDelta(t, min, Supermat((math.Pi+5)/3, 2.275/3), 1e-9)
}

func TestBayesianFindsSupermatMinimum(t *testing.T) {
	b, err := Lookup("supermat")
	require.NoError(t, err)
	space, err := b.Space()
	require.NoError(t, err)

	bo, err := bayesian.New(bayesian.Config{Space: space, Budget: 50, Seed: 42})
	require.NoError(t, err)

	result, err := bo.Optimize(context.Background(), b.Objective)
	require.NoError(t, err)

	// Generous margin: the surface is multimodal and the budget modest,
	// but the optimizer should land near one of the low basins.
	assert.Less(t, result.Best.Value, b.Known.Value+2.0)
}

func TestBayesianBeatsRandomOnAverage(t *testing.T) {
	if testing.Short() {
		t.Skip("multi-seed comparison is slow")
	}

	b, err := Lookup("sinlinear")
	require.NoError(t, err)
	space, err := b.Space()
	require.NoError(t, err)

	seeds := []int64{1, 2, 3, 4, 5}
	var boSum, rsSum float64
	for _, seed := range seeds {
		bo, err := bayesian.New(bayesian.Config{Space: space, Budget: 30, Seed: seed})
		require.NoError(t, err)
		boResult, err := bo.Optimize(context.Background(), b.Objective)
		require.NoError(t, err)
		boSum += boResult.Best.Value

		rs, err := random.New(random.Config{Space: space, Budget: 30, Seed: seed})
		require.NoError(t, err)
		rsResult, err := rs.Optimize(context.Background(), b.Objective)
		require.NoError(t, err)
		rsSum += rsResult.Best.Value
	}

	n := float64(len(seeds))
	assert.LessOrEqual(t, boSum/n, rsSum/n+0.05,
		"averaged over seeds, the model-based search should not lose to uniform sampling")
}
