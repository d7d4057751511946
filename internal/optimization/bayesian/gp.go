package bayesian

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization/kernels"
)

// GP implements a Gaussian Process regression model used as the surrogate
// in the Bayesian optimizer. It is owned by exactly one optimizer instance
// for the duration of a run and is refit on the full observation set once
// per iteration.
//
// Target values are standardised internally (zero mean, unit variance over
// the training set) so the zero-mean prior and unit-scale kernel defaults
// stay meaningful regardless of the objective's output range. Predictions
// are mapped back to the original scale.
type GP struct {
	// Kernel function
	kernel kernels.Kernel

	// Noise variance added to the kernel diagonal
	noiseVar float64

	// Training data
	X *mat.Dense    // Input points (n_samples, n_features)
	y *mat.VecDense // Standardised target values (n_samples)

	// Standardisation constants of the current training set
	yMean float64
	yStd  float64

	// Precomputed values
	alpha *mat.VecDense
	chol  *mat.Cholesky

	// Matrix pool for reusing matrix allocations
	pool *MatrixPool

	// Logger for structured logging
	logger *zap.Logger
}

// NewGP creates a new Gaussian Process model. A nil logger disables
// diagnostics.
func NewGP(kernel kernels.Kernel, noiseVar float64, logger *zap.Logger) *GP {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GP{
		kernel:   kernel,
		noiseVar: noiseVar,
		yStd:     1.0,
		pool:     NewMatrixPool(),
		logger:   logger.Named("gaussian_process"),
	}
}

// Fit fits the GP model to the training data
func (gp *GP) Fit(X *mat.Dense, y *mat.VecDense) error {
	const op = "GP.Fit"

	if X == nil || y == nil {
		err := errors.New("input matrices must not be nil")
		return optimization.WrapError(err, "gaussian_process: "+op)
	}

	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		err := errors.New("input matrix X must not be empty")
		return optimization.WrapError(err, "gaussian_process: "+op)
	}
	if nSamples != y.Len() {
		err := fmt.Errorf("dimension mismatch: X has %d samples but y has length %d",
			nSamples, y.Len())
		return optimization.WrapError(err, "gaussian_process: "+op)
	}

	gp.logger.Debug("fitting GP model",
		zap.Int("samples", nSamples),
		zap.Int("features", nFeatures),
		zap.Float64("noise_var", gp.noiseVar),
	)

	// Standardise targets
	gp.yMean, gp.yStd = standardise(y)

	gp.X = mat.DenseCopyOf(X)
	gp.y = mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		gp.y.SetVec(i, (y.AtVec(i)-gp.yMean)/gp.yStd)
	}

	// Kernel matrix with noise on the diagonal
	K := gp.computeKernelMatrix(gp.X, nSamples)
	defer gp.pool.PutSymDense(K)

	// Factorize, escalating the diagonal jitter until the matrix is
	// numerically positive definite.
	chol, jitter, err := gp.factorizeWithJitter(K, nSamples)
	if err != nil {
		return optimization.WrapError(err, "gaussian_process: "+op)
	}
	if jitter > 0 {
		gp.logger.Debug("added diagonal jitter for numerical stability",
			zap.Float64("jitter", jitter))
	}
	gp.chol = chol

	// Solve K * alpha = y
	alpha := mat.NewVecDense(nSamples, nil)
	if err := chol.SolveVecTo(alpha, gp.y); err != nil {
		return optimization.WrapError(fmt.Errorf("failed to solve linear system: %w", err), "gaussian_process: "+op)
	}
	gp.alpha = alpha

	return nil
}

// Predict returns the posterior predictive mean and variance at the given
// test points, in the objective's original scale.
func (gp *GP) Predict(X *mat.Dense) (*mat.VecDense, *mat.VecDense, error) {
	const op = "GP.Predict"

	if X == nil {
		return nil, nil, optimization.WrapError(
			errors.New("input matrix X is nil"),
			"gaussian_process: "+op,
		)
	}
	if gp.X == nil || gp.alpha == nil || gp.chol == nil {
		return nil, nil, optimization.WrapError(
			errors.New("model not trained or no training data"),
			"gaussian_process: "+op,
		)
	}

	nTest, _ := X.Dims()
	nTrain, _ := gp.X.Dims()

	mean := mat.NewVecDense(nTest, nil)
	variance := mat.NewVecDense(nTest, nil)

	// Cross-covariance between test and training points, and the prior
	// variance at each test point.
	Kss := make([]float64, nTest)
	Kstar := gp.pool.GetDense(nTest, nTrain)
	defer gp.pool.PutDense(Kstar)

	for i := 0; i < nTest; i++ {
		xStar := X.RawRowView(i)
		Kss[i] = gp.kernel.Eval(xStar, xStar) + gp.noiseVar

		for j := 0; j < nTrain; j++ {
			Kstar.Set(i, j, gp.kernel.Eval(xStar, gp.X.RawRowView(j)))
		}
	}

	// Mean: K* * alpha
	mean.MulVec(Kstar, gp.alpha)

	// Variance: diag(K** - K* K^-1 K*^T) via the Cholesky factor
	v := mat.NewDense(nTrain, nTest, nil)
	if err := gp.chol.SolveTo(v, Kstar.T()); err != nil {
		return nil, nil, optimization.WrapError(
			fmt.Errorf("failed to solve linear system: %w", err),
			"gaussian_process: "+op,
		)
	}

	for i := 0; i < nTest; i++ {
		var sum float64
		for j := 0; j < nTrain; j++ {
			kij := Kstar.At(i, j)
			sum += kij * v.At(j, i)
		}
		vi := Kss[i] - sum
		if vi < 0 {
			gp.logger.Debug("negative variance clamped to zero",
				zap.Float64("variance", vi),
				zap.Int("test_point", i),
			)
			vi = 0
		}
		variance.SetVec(i, vi)
	}

	// Back to the original scale
	for i := 0; i < nTest; i++ {
		mean.SetVec(i, gp.yMean+gp.yStd*mean.AtVec(i))
		variance.SetVec(i, gp.yStd*gp.yStd*variance.AtVec(i))
	}

	return mean, variance, nil
}

// computeKernelMatrix builds the training Gram matrix with noise on the
// diagonal.
func (gp *GP) computeKernelMatrix(X *mat.Dense, nSamples int) *mat.SymDense {
	K := gp.pool.GetSymDense(nSamples)

	for i := 0; i < nSamples; i++ {
		xi := X.RawRowView(i)
		K.SetSym(i, i, gp.kernel.Eval(xi, xi)+gp.noiseVar)
		for j := i + 1; j < nSamples; j++ {
			K.SetSym(i, j, gp.kernel.Eval(xi, X.RawRowView(j)))
		}
	}

	return K
}

// factorizeWithJitter attempts a Cholesky factorization of K, adding an
// escalating diagonal jitter on failure. Returns the factorization and the
// jitter that was needed.
func (gp *GP) factorizeWithJitter(K *mat.SymDense, n int) (*mat.Cholesky, float64, error) {
	const maxAttempts = 12

	var chol mat.Cholesky
	if ok := chol.Factorize(K); ok {
		return &chol, 0, nil
	}

	jitter := 1e-10
	for attempt := 0; attempt < maxAttempts; attempt++ {
		Kj := gp.pool.GetSymDense(n)
		for i := 0; i < n; i++ {
			Kj.SetSym(i, i, K.At(i, i)+jitter)
			for j := i + 1; j < n; j++ {
				Kj.SetSym(i, j, K.At(i, j))
			}
		}

		ok := chol.Factorize(Kj)
		gp.pool.PutSymDense(Kj)
		if ok {
			return &chol, jitter, nil
		}

		gp.logger.Debug("Cholesky factorization failed, increasing jitter",
			zap.Int("attempt", attempt+1),
			zap.Float64("jitter", jitter))
		jitter *= 10
	}

	return nil, jitter, errors.New("Cholesky decomposition failed: matrix is not positive definite")
}

// standardise returns the mean and standard deviation of y, guarding the
// degenerate constant-target case.
func standardise(y *mat.VecDense) (mean, std float64) {
	n := y.Len()
	for i := 0; i < n; i++ {
		mean += y.AtVec(i)
	}
	mean /= float64(n)

	for i := 0; i < n; i++ {
		d := y.AtVec(i) - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(n))
	if std <= 1e-12 {
		std = 1.0
	}
	return mean, std
}
