package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/G3h-nnA/MLforMaterials-CW/internal/benchmark"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/config"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization/random"
	"github.com/G3h-nnA/MLforMaterials-CW/internal/report"
)

var compareFlags struct {
	suite string
	plot  string
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare Bayesian optimization against random search",
	Long: `Compare runs Bayesian optimization and the uniform random-search
baseline with the same budget and seed, then prints a side-by-side
table. With --plot the convergence curves are written to an image file;
with --suite every scenario of a YAML suite file is compared in turn.`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareFlags.suite, "suite", "", "YAML suite file of scenarios to compare")
	compareCmd.Flags().StringVar(&compareFlags.plot, "plot", "", "write convergence curves to this image file")
	compareCmd.Flags().AddFlagSet(runCmd.Flags())
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	scenarios := []config.Scenario{{
		Benchmark:   cfg.Benchmark,
		Budget:      cfg.Budget,
		Seed:        cfg.Seed,
		Acquisition: cfg.Optimizer.Acquisition,
		Xi:          cfg.Optimizer.Xi,
		Beta:        cfg.Optimizer.Beta,
	}}
	if compareFlags.suite != "" {
		suite, err := config.LoadSuite(compareFlags.suite)
		if err != nil {
			return err
		}
		scenarios = suite.Scenarios
	}

	multi := len(scenarios) > 1
	for i, sc := range scenarios {
		if err := compareScenario(cmd.Context(), cmd, cfg, sc, logger, multi); err != nil {
			return err
		}
		if i < len(scenarios)-1 {
			cmd.Println()
		}
	}
	return nil
}

// scenarioPlotPath keeps suite runs from overwriting each other's plots.
func scenarioPlotPath(base, benchName string, seed int64, multi bool) string {
	if base == "" || !multi {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s_%s_seed%d%s", strings.TrimSuffix(base, ext), benchName, seed, ext)
}

func compareScenario(ctx context.Context, cmd *cobra.Command, base *config.Config, sc config.Scenario, logger *zap.Logger, multi bool) error {
	cfg := *base
	cfg.Benchmark = sc.Benchmark
	cfg.Budget = sc.Budget
	cfg.Seed = sc.Seed
	if sc.Acquisition != "" {
		cfg.Optimizer.Acquisition = sc.Acquisition
	}
	if sc.Xi > 0 {
		cfg.Optimizer.Xi = sc.Xi
	}
	if sc.Beta > 0 {
		cfg.Optimizer.Beta = sc.Beta
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	bench, err := benchmark.Lookup(cfg.Benchmark)
	if err != nil {
		return err
	}
	space, err := bench.Space()
	if err != nil {
		return err
	}

	bo, err := buildBayesian(&cfg, space, cfg.Seed, logger)
	if err != nil {
		return err
	}
	rs, err := random.New(random.Config{
		Space:         space,
		Budget:        cfg.Budget,
		Seed:          cfg.Seed,
		FailurePolicy: cfg.FailurePolicy(),
		PenaltyValue:  cfg.Failure.Penalty,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	// Both runs share budget and seed so the comparison is fair.
	runner := report.NewRunner(logger)
	if _, err := runner.Run(ctx, "bayesian", bo, bench.Objective); err != nil {
		return err
	}
	if _, err := runner.Run(ctx, "random", rs, bench.Objective); err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Fprintf(cmd.OutOrStdout(), "%s (budget %d, seed %d)\n", bench.Name, cfg.Budget, cfg.Seed)
	if err := report.WriteTable(cmd.OutOrStdout(), runner.Runs(), bench.Known.Value); err != nil {
		return err
	}

	plotPath := compareFlags.plot
	if plotPath == "" {
		plotPath = cfg.PlotPath
	}
	plotPath = scenarioPlotPath(plotPath, bench.Name, cfg.Seed, multi)
	if plotPath != "" {
		if err := report.SaveConvergencePlot(plotPath, bench.Name, runner.Runs()); err != nil {
			return err
		}
		cmd.Printf("convergence plot written to %s\n", plotPath)
	}
	return nil
}
