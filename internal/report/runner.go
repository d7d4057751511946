package report

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/G3h-nnA/MLforMaterials-CW/internal/optimization"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run records one optimizer execution: identity, timing, outcome.
type Run struct {
	ID        string
	Label     string
	Status    string
	StartTime time.Time
	EndTime   time.Time
	Result    *optimization.Result
	Err       error
}

// Duration is the wall-clock time the run took.
func (r *Run) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Runner executes optimizers and keeps the completed runs for reporting.
type Runner struct {
	logger *zap.Logger

	mu   sync.Mutex
	runs []*Run
}

// NewRunner creates a Runner. A nil logger is replaced with a no-op one.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger.Named("runner")}
}

// Run executes the optimizer against the objective under the given label
// and records the outcome. The run record is returned alongside any
// optimizer error.
func (rn *Runner) Run(ctx context.Context, label string, opt optimization.Optimizer, objective optimization.ObjectiveFunc) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Label:     label,
		Status:    StatusRunning,
		StartTime: time.Now(),
	}

	rn.logger.Info("starting run",
		zap.String("run_id", run.ID),
		zap.String("label", label))

	result, err := opt.Optimize(ctx, objective)
	run.EndTime = time.Now()
	run.Result = result
	run.Err = err

	if err != nil {
		run.Status = StatusFailed
		rn.logger.Error("run failed",
			zap.String("run_id", run.ID),
			zap.String("label", label),
			zap.Duration("duration", run.Duration()),
			zap.Error(err))
	} else {
		run.Status = StatusCompleted
		rn.logger.Info("run completed",
			zap.String("run_id", run.ID),
			zap.String("label", label),
			zap.Duration("duration", run.Duration()),
			zap.Float64("best_value", result.Best.Value),
			zap.Float64s("best_point", result.Best.Point))
	}

	rn.mu.Lock()
	rn.runs = append(rn.runs, run)
	rn.mu.Unlock()

	return run, err
}

// Runs returns the recorded runs in execution order.
func (rn *Runner) Runs() []*Run {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	return append([]*Run(nil), rn.runs...)
}
