package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

func init() {
	// Force color output even when not connected to a TTY. Users can
	// disable it with the NO_COLOR environment variable.
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	bestColor   = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
)

const timeResolution = time.Millisecond

// WriteTable renders the runs side by side: the cumulative minimum of
// every run per evaluation step, followed by a summary line per run.
// When knownBest is finite the summary adds a regret column, and the
// run with the lowest best value is highlighted.
func WriteTable(w io.Writer, runs []*Run, knownBest float64) error {
	if len(runs) == 0 {
		return fmt.Errorf("no runs to report")
	}

	if err := writeStepTable(w, runs); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return writeSummary(w, runs, knownBest)
}

// writeStepTable prints the best-so-far value of each completed run at
// every evaluation step, one run per column.
func writeStepTable(w io.Writer, runs []*Run) error {
	series := make([][]float64, 0, len(runs))
	labels := make([]string, 0, len(runs))
	steps := 0
	for _, run := range runs {
		if run.Status != StatusCompleted {
			continue
		}
		s := CumulativeMin(run.Result.Observations)
		series = append(series, s)
		labels = append(labels, run.Label)
		if len(s) > steps {
			steps = len(s)
		}
	}
	if steps == 0 {
		return fmt.Errorf("no completed runs to report")
	}

	header := fmt.Sprintf("%6s", "STEP")
	for _, label := range labels {
		header += fmt.Sprintf(" %12s", label)
	}
	if _, err := headerColor.Fprintln(w, header); err != nil {
		return err
	}

	for step := 0; step < steps; step++ {
		line := fmt.Sprintf("%6d", step+1)
		for _, s := range series {
			if step < len(s) {
				line += fmt.Sprintf(" %12.6f", s[step])
			} else {
				line += fmt.Sprintf(" %12s", "-")
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(w io.Writer, runs []*Run, knownBest float64) error {
	withRegret := !math.IsNaN(knownBest) && !math.IsInf(knownBest, 0)

	winner := -1
	winnerVal := math.Inf(1)
	for i, run := range runs {
		if run.Status == StatusCompleted && run.Result.Best.Value < winnerVal {
			winner = i
			winnerVal = run.Result.Best.Value
		}
	}

	header := fmt.Sprintf("%-16s %-10s %12s %8s %8s %10s", "RUN", "STATUS", "BEST", "EVALS", "SKIPPED", "TIME")
	if withRegret {
		header += fmt.Sprintf(" %12s", "REGRET")
	}
	if _, err := headerColor.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", len(header))); err != nil {
		return err
	}

	for i, run := range runs {
		if run.Status != StatusCompleted {
			_, err := failColor.Fprintf(w, "%-16s %-10s %12s %8s %8s %10s\n",
				run.Label, run.Status, "-", "-", "-", run.Duration().Round(timeResolution).String())
			if err != nil {
				return err
			}
			continue
		}

		line := fmt.Sprintf("%-16s %-10s %12.6f %8d %8d %10s",
			run.Label,
			run.Status,
			run.Result.Best.Value,
			run.Result.Evaluated,
			run.Result.Skipped,
			run.Duration().Round(timeResolution).String())
		if withRegret {
			line += fmt.Sprintf(" %12.6f", run.Result.Best.Value-knownBest)
		}

		var err error
		if i == winner {
			_, err = bestColor.Fprintln(w, line)
		} else {
			_, err = fmt.Fprintln(w, line)
		}
		if err != nil {
			return err
		}
	}

	return nil
}
