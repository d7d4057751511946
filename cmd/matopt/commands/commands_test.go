package commands

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRunFlags() {
	runFlags.benchmark = ""
	runFlags.budget = 0
	runFlags.seed = -1
	runFlags.acquisition = ""
	runFlags.xi = 0
	runFlags.beta = 0
	runFlags.kernel = ""
	runFlags.policy = ""
	runFlags.penalty = math.NaN()
	compareFlags.suite = ""
	compareFlags.plot = ""
}

func newTestCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetContext(context.Background())
	return cmd, &buf
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	resetRunFlags()
	runFlags.benchmark = "sinlinear"
	runFlags.budget = 20
	runFlags.seed = 9
	runFlags.acquisition = "pi"

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sinlinear", cfg.Benchmark)
	assert.Equal(t, 20, cfg.Budget)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, "pi", cfg.Optimizer.Acquisition)
}

func TestLoadConfigRejectsBadFlags(t *testing.T) {
	resetRunFlags()
	runFlags.acquisition = "thompson"

	_, err := loadConfig()
	require.Error(t, err)
}

func TestScenarioPlotPath(t *testing.T) {
	assert.Equal(t, "", scenarioPlotPath("", "supermat", 1, true))
	assert.Equal(t, "out.png", scenarioPlotPath("out.png", "supermat", 1, false))
	assert.Equal(t, "out_supermat_seed1.png", scenarioPlotPath("out.png", "supermat", 1, true))
}

func TestRunCommand(t *testing.T) {
	resetRunFlags()
	runFlags.benchmark = "sinlinear"
	runFlags.budget = 15
	runFlags.seed = 42

	cmd, buf := newTestCommand(t)
	require.NoError(t, runRun(cmd, nil))

	out := buf.String()
	assert.Contains(t, out, "benchmark sinlinear")
	assert.Contains(t, out, "best value")
	assert.Contains(t, out, "known optimum")
}

func TestCompareCommandWithPlot(t *testing.T) {
	resetRunFlags()
	runFlags.benchmark = "sinlinear"
	runFlags.budget = 15
	runFlags.seed = 42
	compareFlags.plot = filepath.Join(t.TempDir(), "cmp.png")

	cmd, buf := newTestCommand(t)
	require.NoError(t, runCompare(cmd, nil))

	out := buf.String()
	assert.Contains(t, out, "bayesian")
	assert.Contains(t, out, "random")
	assert.FileExists(t, compareFlags.plot)
}
