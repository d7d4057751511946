package commands

import (
	"fmt"
	"math"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/G3h-nnA/MLforMaterials-CW/internal/benchmark"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/config"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/logging"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization/acquisition"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization/bayesian"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization/kernels"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/report"
)

var runFlags struct {
	benchmark   string
	budget      int
	seed        int64
	acquisition string
	xi          float64
	beta        float64
	kernel      string
	policy      string
	penalty     float64
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run Bayesian optimization on a benchmark",
	Long: `Run executes a single Bayesian optimization run against a named
benchmark, prints the best point found, and reports the gap to the
benchmark's known optimum.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.benchmark, "benchmark", "", "benchmark to optimize (overrides MATOPT_BENCHMARK)")
	runCmd.Flags().IntVar(&runFlags.budget, "budget", 0, "total evaluation budget (overrides MATOPT_BUDGET)")
	runCmd.Flags().Int64Var(&runFlags.seed, "seed", -1, "random seed (overrides MATOPT_SEED)")
	runCmd.Flags().StringVar(&runFlags.acquisition, "acquisition", "", "acquisition function: ei, pi, or lcb")
	runCmd.Flags().Float64Var(&runFlags.xi, "xi", 0, "exploration margin for ei/pi")
	runCmd.Flags().Float64Var(&runFlags.beta, "beta", 0, "confidence width for lcb")
	runCmd.Flags().StringVar(&runFlags.kernel, "kernel", "", "GP kernel: rbf or matern52")
	runCmd.Flags().StringVar(&runFlags.policy, "failure-policy", "", "failed evaluation handling: abort, skip, or penalize")
	runCmd.Flags().Float64Var(&runFlags.penalty, "penalty", math.NaN(), "value recorded for failed evaluations under penalize")
	rootCmd.AddCommand(runCmd)
}

// loadConfig merges environment settings with the command-line flags,
// flags winning.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if runFlags.benchmark != "" {
		cfg.Benchmark = runFlags.benchmark
	}
	if runFlags.budget > 0 {
		cfg.Budget = runFlags.budget
	}
	if runFlags.seed >= 0 {
		cfg.Seed = runFlags.seed
	}
	if runFlags.acquisition != "" {
		cfg.Optimizer.Acquisition = runFlags.acquisition
	}
	if runFlags.xi > 0 {
		cfg.Optimizer.Xi = runFlags.xi
	}
	if runFlags.beta > 0 {
		cfg.Optimizer.Beta = runFlags.beta
	}
	if runFlags.kernel != "" {
		cfg.Optimizer.Kernel = runFlags.kernel
	}
	if runFlags.policy != "" {
		cfg.Failure.Policy = runFlags.policy
	}
	if !math.IsNaN(runFlags.penalty) {
		cfg.Failure.Penalty = runFlags.penalty
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// buildBayesian assembles the optimizer configured by cfg over the space.
func buildBayesian(cfg *config.Config, space *optimization.Space, seed int64, logger *zap.Logger) (*bayesian.Optimizer, error) {
	var kernel kernels.Kernel
	var err error
	switch cfg.Optimizer.Kernel {
	case "rbf":
		kernel, err = kernels.NewRBFKernel(1.0, 1.0)
	default:
		kernel, err = kernels.NewMatern52Kernel(1.0, 1.0)
	}
	if err != nil {
		return nil, err
	}

	acq, err := acquisition.New(cfg.Optimizer.Acquisition, cfg.Optimizer.Xi, cfg.Optimizer.Beta)
	if err != nil {
		return nil, err
	}

	return bayesian.New(bayesian.Config{
		Space:         space,
		Budget:        cfg.Budget,
		Seed:          seed,
		Kernel:        kernel,
		NoiseVariance: cfg.Optimizer.NoiseVariance,
		Acquisition:   acq,
		Restarts:      cfg.Optimizer.Restarts,
		FailurePolicy: cfg.FailurePolicy(),
		PenaltyValue:  cfg.Failure.Penalty,
		Logger:        logger,
	})
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	bench, err := benchmark.Lookup(cfg.Benchmark)
	if err != nil {
		return err
	}
	space, err := bench.Space()
	if err != nil {
		return err
	}

	bo, err := buildBayesian(cfg, space, cfg.Seed, logger)
	if err != nil {
		return err
	}

	runner := report.NewRunner(logger)
	run, err := runner.Run(cmd.Context(), "bayesian", bo, bench.Objective)
	if err != nil {
		return err
	}

	result := run.Result
	bold := color.New(color.Bold)
	bold.Fprintf(cmd.OutOrStdout(), "benchmark %s (budget %d, seed %d)\n", bench.Name, cfg.Budget, cfg.Seed)
	fmt.Fprintf(cmd.OutOrStdout(), "best value: %.6f at %v\n", result.Best.Value, result.Best.Point)
	fmt.Fprintf(cmd.OutOrStdout(), "known optimum: %.6f at %v (gap %.6f)\n",
		bench.Known.Value, bench.Known.Point, result.Best.Value-bench.Known.Value)
	fmt.Fprintf(cmd.OutOrStdout(), "evaluated %d, skipped %d, penalized %d in %s\n",
		result.Evaluated, result.Skipped, result.Penalized, run.Duration().Round(time.Millisecond))
	return nil
}
