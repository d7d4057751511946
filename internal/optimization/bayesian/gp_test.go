package bayesian

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization/kernels"
)

func newTestGP(t *testing.T) *GP {
	t.Helper()
	kernel, err := kernels.NewMatern52Kernel(1.0, 1.0)
	require.NoError(t, err)
	return NewGP(kernel, 1e-6, nil)
}

func TestGPFitValidation(t *testing.T) {
	gp := newTestGP(t)

	t.Run("nil inputs", func(t *testing.T) {
		err := gp.Fit(nil, nil)
		require.Error(t, err)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		X := mat.NewDense(3, 1, []float64{0, 1, 2})
		y := mat.NewVecDense(2, []float64{0, 1})
		err := gp.Fit(X, y)
		require.Error(t, err)
	})

	t.Run("predict before fit", func(t *testing.T) {
		fresh := newTestGP(t)
		_, _, err := fresh.Predict(mat.NewDense(1, 1, []float64{0}))
		require.Error(t, err)
	})
}

func TestGPInterpolatesTrainingPoints(t *testing.T) {
	gp := newTestGP(t)

	// f(x) = x^2 sampled at a few points
	xs := []float64{-2, -1, 0, 1, 2}
	X := mat.NewDense(len(xs), 1, nil)
	y := mat.NewVecDense(len(xs), nil)
	for i, x := range xs {
		X.Set(i, 0, x)
		y.SetVec(i, x*x)
	}

	require.NoError(t, gp.Fit(X, y))

	mean, variance, err := gp.Predict(X)
	require.NoError(t, err)

	for i, x := range xs {
		assert.InDelta(t, x*x, mean.AtVec(i), 0.1, "posterior mean at training point x=%v", x)
		assert.GreaterOrEqual(t, variance.AtVec(i), 0.0, "variance must be non-negative")
	}
}

func TestGPUncertaintyGrowsAwayFromData(t *testing.T) {
	gp := newTestGP(t)

	X := mat.NewDense(3, 1, []float64{-1, 0, 1})
	y := mat.NewVecDense(3, []float64{1, 0, 1})
	require.NoError(t, gp.Fit(X, y))

	near := mat.NewDense(1, 1, []float64{0.1})
	far := mat.NewDense(1, 1, []float64{8.0})

	_, varNear, err := gp.Predict(near)
	require.NoError(t, err)
	_, varFar, err := gp.Predict(far)
	require.NoError(t, err)

	assert.Greater(t, varFar.AtVec(0), varNear.AtVec(0),
		"posterior variance should grow with distance from the data")
}

func TestGPConstantTargets(t *testing.T) {
	// Constant targets make the sample standard deviation zero; the
	// standardisation guard must keep the fit finite.
	gp := newTestGP(t)

	X := mat.NewDense(3, 1, []float64{0, 1, 2})
	y := mat.NewVecDense(3, []float64{4, 4, 4})
	require.NoError(t, gp.Fit(X, y))

	mean, variance, err := gp.Predict(mat.NewDense(1, 1, []float64{0.5}))
	require.NoError(t, err)
	assert.False(t, math.IsNaN(mean.AtVec(0)))
	assert.False(t, math.IsNaN(variance.AtVec(0)))
	assert.InDelta(t, 4.0, mean.AtVec(0), 0.5)
}

func TestGPDuplicatePoints(t *testing.T) {
	// Duplicate rows make the Gram matrix singular up to noise; the jitter
	// escalation has to cope.
	gp := newTestGP(t)

	X := mat.NewDense(4, 1, []float64{1, 1, 2, 2})
	y := mat.NewVecDense(4, []float64{3, 3, 5, 5})
	require.NoError(t, gp.Fit(X, y))

	mean, _, err := gp.Predict(mat.NewDense(1, 1, []float64{1}))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, mean.AtVec(0), 0.5)
}

func TestMatrixPoolReusesSameSize(t *testing.T) {
	pool := NewMatrixPool()

	m := pool.GetSymDense(4)
	m.SetSym(0, 0, 42)
	pool.PutSymDense(m)

	again := pool.GetSymDense(4)
	assert.Same(t, m, again, "same-size request should reuse the pooled matrix")
	assert.Equal(t, 0.0, again.At(0, 0), "pooled matrix must be zeroed")

	other := pool.GetSymDense(5)
	assert.NotSame(t, m, other, "different size must allocate")

	v := pool.GetVecDense(3)
	pool.PutVecDense(v)
	assert.Same(t, v, pool.GetVecDense(3))

	d := pool.GetDense(2, 3)
	pool.PutDense(d)
	assert.Same(t, d, pool.GetDense(2, 3))
	assert.NotSame(t, d, pool.GetDense(3, 2))
}
