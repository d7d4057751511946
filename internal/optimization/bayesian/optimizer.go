package bayesian

import (
	"context"
	"math"
	"math/rand"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization/acquisition"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization/kernels"
)

// Default policy knobs. Initialization takes a fraction of the total budget
// with a fixed floor, mirroring the common library default.
const (
	DefaultInitFraction  = 0.10
	DefaultMinInitPoints = 2
	DefaultNoiseVariance = 1e-6
	DefaultCandidates    = 100
)

// Config configures one Bayesian optimisation run.
type Config struct {
	// Space is the bounded parameter domain. Required.
	Space *optimization.Space

	// Budget is the total number of objective evaluations allowed,
	// initialization included. Required.
	Budget int

	// Seed fixes every pseudo-random choice of the run. The seed is
	// honoured as given (0 included): identical configs always produce
	// identical observation sequences.
	Seed int64

	// InitFraction is the share of the budget spent on the initial
	// space-filling sample. Defaults to DefaultInitFraction.
	InitFraction float64

	// MinInitPoints is the floor on the number of initialization points.
	// Defaults to DefaultMinInitPoints.
	MinInitPoints int

	// Kernel is the GP covariance function. Defaults to Matérn 5/2 with
	// unit hyperparameters.
	Kernel kernels.Kernel

	// NoiseVariance is added to the kernel diagonal. Defaults to
	// DefaultNoiseVariance.
	NoiseVariance float64

	// Acquisition scores candidate points. Defaults to Expected
	// Improvement with xi = 0.01.
	Acquisition acquisition.Function

	// Restarts is the number of Nelder-Mead starts per acquisition
	// maximisation. Defaults to 5 + 5*sqrt(dim).
	Restarts int

	// Candidates is the size of the random candidate scan used when the
	// Nelder-Mead search fails. Defaults to DefaultCandidates.
	Candidates int

	// FailurePolicy decides how a failed objective evaluation is handled.
	// Defaults to FailAbort.
	FailurePolicy optimization.FailurePolicy

	// PenaltyValue is recorded in place of a failed evaluation under
	// FailPenalize. Must be set (finite) when that policy is chosen.
	PenaltyValue float64

	// Logger receives run diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Optimizer runs Bayesian optimisation over a bounded space: an initial
// space-filling sample followed by iterations of GP fit, acquisition
// maximisation and objective evaluation, until the budget is spent.
type Optimizer struct {
	cfg    Config
	nInit  int
	gp     *GP
	acq    acquisition.Function
	rng    *rand.Rand
	logger *zap.Logger

	// Trace of the current run
	observations []optimization.Observation
	best         *optimization.Observation
}

// New validates the configuration and creates an Optimizer. Domain and
// budget problems are fatal here, before any evaluation happens.
func New(cfg Config) (*Optimizer, error) {
	const op = "bayesian.New"

	if cfg.Space == nil {
		return nil, optimization.NewError(optimization.ErrInvalidDomain, "parameter space is required").WithOperation(op)
	}
	if cfg.InitFraction <= 0 {
		cfg.InitFraction = DefaultInitFraction
	}
	if cfg.MinInitPoints < 1 {
		cfg.MinInitPoints = DefaultMinInitPoints
	}

	nInit := int(math.Round(cfg.InitFraction * float64(cfg.Budget)))
	if nInit < cfg.MinInitPoints {
		nInit = cfg.MinInitPoints
	}
	if cfg.Budget <= 0 {
		return nil, optimization.NewErrorf(optimization.ErrInsufficientBudget, "budget must be positive, got %d", cfg.Budget).WithOperation(op)
	}
	if cfg.Budget < nInit {
		return nil, optimization.NewErrorf(optimization.ErrInsufficientBudget, "budget %d is below the %d initialization points", cfg.Budget, nInit).WithOperation(op)
	}

	if cfg.Kernel == nil {
		kernel, err := kernels.NewMatern52Kernel(1.0, 1.0)
		if err != nil {
			return nil, optimization.WrapError(err, op)
		}
		cfg.Kernel = kernel
	}
	if cfg.NoiseVariance <= 0 {
		cfg.NoiseVariance = DefaultNoiseVariance
	}
	if cfg.Acquisition == nil {
		cfg.Acquisition = acquisition.NewExpectedImprovement(0.01)
	}
	if cfg.Restarts < 1 {
		cfg.Restarts = 5 + int(5*math.Sqrt(float64(cfg.Space.Dim())))
	}
	if cfg.Candidates < 1 {
		cfg.Candidates = DefaultCandidates
	}
	if cfg.FailurePolicy == "" {
		cfg.FailurePolicy = optimization.FailAbort
	}
	if !cfg.FailurePolicy.Valid() {
		return nil, optimization.NewErrorf(optimization.ErrEvaluation, "unknown failure policy %q", cfg.FailurePolicy).WithOperation(op)
	}
	if cfg.FailurePolicy == optimization.FailPenalize && (math.IsNaN(cfg.PenaltyValue) || math.IsInf(cfg.PenaltyValue, 0)) {
		return nil, optimization.NewError(optimization.ErrEvaluation, "penalize policy requires a finite penalty value").WithOperation(op)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Optimizer{
		cfg:    cfg,
		nInit:  nInit,
		gp:     NewGP(cfg.Kernel, cfg.NoiseVariance, cfg.Logger),
		acq:    cfg.Acquisition,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: cfg.Logger.Named("bayesian"),
	}, nil
}

// InitPoints returns the number of evaluations reserved for the
// initialization phase.
func (bo *Optimizer) InitPoints() int {
	return bo.nInit
}

// Optimize runs the optimisation until the evaluation budget is exhausted
// and returns the trace. The best observed value is an estimate when the
// objective is noisy.
func (bo *Optimizer) Optimize(ctx context.Context, objective optimization.ObjectiveFunc) (*optimization.Result, error) {
	const op = "bayesian.Optimize"

	bo.observations = make([]optimization.Observation, 0, bo.cfg.Budget)
	bo.best = nil

	result := &optimization.Result{}
	attempts := 0

	evaluate := func(x []float64) error {
		attempts++
		value, err := objective(x)
		if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
			err = optimization.NewErrorf(optimization.ErrEvaluation, "objective returned non-finite value %v", value)
		}
		if err != nil {
			switch bo.cfg.FailurePolicy {
			case optimization.FailSkip:
				result.Skipped++
				bo.logger.Warn("evaluation failed, skipping point",
					zap.Float64s("point", x),
					zap.Error(err))
				return nil
			case optimization.FailPenalize:
				result.Penalized++
				bo.logger.Warn("evaluation failed, recording penalty",
					zap.Float64s("point", x),
					zap.Float64("penalty", bo.cfg.PenaltyValue),
					zap.Error(err))
				bo.record(x, bo.cfg.PenaltyValue)
				return nil
			default:
				return optimization.EvaluationError(x, err).WithOperation(op)
			}
		}
		result.Evaluated++
		bo.record(x, value)
		return nil
	}

	// Initialization phase: Latin hypercube sample over the space.
	for _, x := range bo.latinHypercubeSample(bo.nInit) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := evaluate(x); err != nil {
			return nil, err
		}
	}

	// Iterative phase: fit the surrogate, maximise the acquisition,
	// evaluate, repeat until the budget is spent.
	for attempts < bo.cfg.Budget {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		x, err := bo.proposeNext()
		if err != nil {
			return nil, optimization.WrapError(err, op)
		}
		if err := evaluate(x); err != nil {
			return nil, err
		}
	}

	if bo.best == nil {
		return nil, optimization.NewError(optimization.ErrEvaluation, "no evaluation succeeded within the budget").WithOperation(op)
	}

	result.Best = *bo.best
	result.Observations = bo.observations
	bo.logger.Info("optimization finished",
		zap.Int("evaluated", result.Evaluated),
		zap.Int("penalized", result.Penalized),
		zap.Int("skipped", result.Skipped),
		zap.Float64("best_value", result.Best.Value),
		zap.Float64s("best_point", result.Best.Point))
	return result, nil
}

// record appends an observation and updates the incumbent.
func (bo *Optimizer) record(x []float64, value float64) {
	obs := optimization.Observation{
		Point: append([]float64(nil), x...),
		Value: value,
	}
	bo.observations = append(bo.observations, obs)
	if bo.best == nil || value < bo.best.Value {
		bo.best = &obs
	}
}

// proposeNext chooses the next point to evaluate. With fewer than two
// observations there is nothing to model, so the point is drawn uniformly.
func (bo *Optimizer) proposeNext() ([]float64, error) {
	if len(bo.observations) < 2 {
		return bo.cfg.Space.Sample(bo.rng), nil
	}

	X, y := bo.trainingData()
	if err := bo.gp.Fit(X, y); err != nil {
		return nil, err
	}
	bo.acq.UpdateBest(bo.best.Value)

	return bo.maximizeAcquisition(), nil
}

// trainingData packs the observation trace into gonum types for the GP.
func (bo *Optimizer) trainingData() (*mat.Dense, *mat.VecDense) {
	nSamples := len(bo.observations)
	nDims := bo.cfg.Space.Dim()

	X := mat.NewDense(nSamples, nDims, nil)
	y := mat.NewVecDense(nSamples, nil)

	for i, obs := range bo.observations {
		for j, v := range obs.Point {
			X.Set(i, j, v)
		}
		y.SetVec(i, obs.Value)
	}

	return X, y
}

// latinHypercubeSample generates n points using Latin hypercube sampling:
// each dimension is split into n strata holding exactly one point.
func (bo *Optimizer) latinHypercubeSample(n int) [][]float64 {
	nDims := bo.cfg.Space.Dim()
	samples := make([][]float64, n)
	for j := range samples {
		samples[j] = make([]float64, nDims)
	}

	for i := 0; i < nDims; i++ {
		// Stratified samples in [0,1)
		samples1D := make([]float64, n)
		for j := 0; j < n; j++ {
			samples1D[j] = (float64(j) + bo.rng.Float64()) / float64(n)
		}

		bo.rng.Shuffle(n, func(k, l int) {
			samples1D[k], samples1D[l] = samples1D[l], samples1D[k]
		})

		lo, hi := bo.cfg.Space.Bound(i)
		for j := 0; j < n; j++ {
			samples[j][i] = lo + samples1D[j]*(hi-lo)
		}
	}

	return samples
}

// maximizeAcquisition finds the point that maximises the acquisition
// function with a multi-start Nelder-Mead search clamped to the space. If
// every start fails it falls back to scoring random candidates rather than
// aborting the run. Ties go to the first maximiser found, which keeps the
// choice deterministic under a fixed seed.
func (bo *Optimizer) maximizeAcquisition() []float64 {
	nDims := bo.cfg.Space.Dim()

	// Negated acquisition over the clamped point, for minimisation.
	score := func(x []float64) float64 {
		clamped := bo.cfg.Space.Clamp(append([]float64(nil), x...))
		X := mat.NewDense(1, nDims, clamped)
		mu, sigmaSq, err := bo.gp.Predict(X)
		if err != nil {
			return math.Inf(1)
		}
		return -bo.acq.Compute(mu.AtVec(0), math.Sqrt(sigmaSq.AtVec(0)))
	}

	// Starts: the incumbent first, then uniform draws.
	starts := make([][]float64, bo.cfg.Restarts)
	starts[0] = append([]float64(nil), bo.best.Point...)
	for i := 1; i < len(starts); i++ {
		starts[i] = bo.cfg.Space.Sample(bo.rng)
	}

	problem := optimize.Problem{Func: score}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-6,
			Relative:   1e-6,
			Iterations: 100,
		},
	}

	var bestX []float64
	bestVal := math.Inf(1)

	for _, start := range starts {
		method := &optimize.NelderMead{
			Reflection:  1.0,
			Expansion:   2.0,
			Contraction: 0.5,
			Shrink:      0.5,
			SimplexSize: 0.2,
		}

		res, err := optimize.Minimize(problem, start, settings, method)
		if err != nil || res == nil {
			continue
		}
		if math.IsNaN(res.F) || math.IsInf(res.F, 0) {
			continue
		}
		if res.F < bestVal {
			bestVal = res.F
			bestX = bo.cfg.Space.Clamp(append([]float64(nil), res.X...))
		}
	}

	if bestX != nil {
		return bestX
	}

	// Fallback: the inner search failed to converge anywhere; score random
	// candidates directly instead of aborting the run.
	err := optimization.NewError(optimization.ErrAcquisition, "no Nelder-Mead start converged")
	bo.logger.Warn("falling back to random candidate scan", zap.Error(err))

	bestVal = math.Inf(-1)
	for i := 0; i < bo.cfg.Candidates; i++ {
		x := bo.cfg.Space.Sample(bo.rng)
		X := mat.NewDense(1, nDims, x)
		mu, sigmaSq, perr := bo.gp.Predict(X)
		if perr != nil {
			continue
		}
		if v := bo.acq.Compute(mu.AtVec(0), math.Sqrt(sigmaSq.AtVec(0))); v > bestVal {
			bestVal = v
			bestX = x
		}
	}
	if bestX != nil {
		return bestX
	}

	// The surrogate itself is unusable; a uniform draw keeps the run going.
	return bo.cfg.Space.Sample(bo.rng)
}
