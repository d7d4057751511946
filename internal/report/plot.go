package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SaveConvergencePlot draws the best-so-far curve of each completed run
// and writes the figure to path. The format follows the file extension
// (.png, .svg, .pdf).
func SaveConvergencePlot(path, title string, runs []*Run) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "evaluation"
	p.Y.Label.Text = "best value so far"
	p.Legend.Top = true

	plotted := 0
	for i, run := range runs {
		if run.Status != StatusCompleted {
			continue
		}

		series := CumulativeMin(run.Result.Observations)
		pts := make(plotter.XYs, len(series))
		for j, v := range series {
			pts[j].X = float64(j + 1)
			pts[j].Y = v
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("building line for %s: %w", run.Label, err)
		}
		line.Color = plotutil.Color(i)

		p.Add(line)
		p.Legend.Add(run.Label, line)
		plotted++
	}

	if plotted == 0 {
		return fmt.Errorf("no completed runs to plot")
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot to %s: %w", path, err)
	}
	return nil
}
