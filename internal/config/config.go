// Package config loads run settings from the environment and optional
// YAML suite files.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization"
)

// Config holds the settings for a single optimization run.
type Config struct {
	Benchmark string `env:"MATOPT_BENCHMARK" envDefault:"supermat"`
	Budget    int    `env:"MATOPT_BUDGET" envDefault:"50"`
	Seed      int64  `env:"MATOPT_SEED" envDefault:"42"`

	Optimizer struct {
		Acquisition   string  `env:"MATOPT_ACQUISITION" envDefault:"ei"`
		Xi            float64 `env:"MATOPT_XI" envDefault:"0.01"`
		Beta          float64 `env:"MATOPT_BETA" envDefault:"2.0"`
		Kernel        string  `env:"MATOPT_KERNEL" envDefault:"matern52"`
		NoiseVariance float64 `env:"MATOPT_NOISE_VARIANCE" envDefault:"1e-6"`
		Restarts      int     `env:"MATOPT_RESTARTS" envDefault:"0"`
	}

	Failure struct {
		Policy  string  `env:"MATOPT_FAILURE_POLICY" envDefault:"abort"`
		Penalty float64 `env:"MATOPT_PENALTY" envDefault:"0"`
	}

	Logging struct {
		Level  string `env:"MATOPT_LOG_LEVEL" envDefault:"info"`
		Format string `env:"MATOPT_LOG_FORMAT" envDefault:"console"`
		Output string `env:"MATOPT_LOG_OUTPUT" envDefault:"stderr"`
	}

	PlotPath string `env:"MATOPT_PLOT_PATH"`
}

// Load reads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that constructors cannot defend against
// on their own.
func (c *Config) Validate() error {
	if c.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %d", c.Budget)
	}
	policy := optimization.FailurePolicy(c.Failure.Policy)
	if !policy.Valid() {
		return fmt.Errorf("unknown failure policy %q", c.Failure.Policy)
	}
	if policy == optimization.FailPenalize && (math.IsNaN(c.Failure.Penalty) || math.IsInf(c.Failure.Penalty, 0)) {
		return fmt.Errorf("penalize policy requires a finite penalty")
	}
	switch c.Optimizer.Acquisition {
	case "", "ei", "pi", "lcb":
	default:
		return fmt.Errorf("unknown acquisition function %q", c.Optimizer.Acquisition)
	}
	switch c.Optimizer.Kernel {
	case "", "rbf", "matern52":
	default:
		return fmt.Errorf("unknown kernel %q", c.Optimizer.Kernel)
	}
	return nil
}

// FailurePolicy returns the typed failure policy.
func (c *Config) FailurePolicy() optimization.FailurePolicy {
	return optimization.FailurePolicy(c.Failure.Policy)
}

// Suite is a YAML-described batch of comparison scenarios.
type Suite struct {
	Name      string     `yaml:"name"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is one benchmark/budget pairing inside a suite.
type Scenario struct {
	Benchmark   string  `yaml:"benchmark"`
	Budget      int     `yaml:"budget"`
	Seed        int64   `yaml:"seed"`
	Acquisition string  `yaml:"acquisition,omitempty"`
	Xi          float64 `yaml:"xi,omitempty"`
	Beta        float64 `yaml:"beta,omitempty"`
}

// LoadSuite parses a suite file and validates every scenario.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file: %w", err)
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parsing suite file %s: %w", path, err)
	}

	if len(suite.Scenarios) == 0 {
		return nil, fmt.Errorf("suite %s defines no scenarios", path)
	}
	for i, sc := range suite.Scenarios {
		if sc.Benchmark == "" {
			return nil, fmt.Errorf("scenario %d is missing a benchmark", i)
		}
		if sc.Budget <= 0 {
			return nil, fmt.Errorf("scenario %d has non-positive budget %d", i, sc.Budget)
		}
	}
	return &suite, nil
}
