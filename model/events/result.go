// SPDX-License-Identifier: MIT

package events

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/chronosim/spline"
)

// Posterior summarizes the pooled draws of one event.
type Posterior struct {
	Name  string
	Draws int
	Mean  float64
	SD    float64
	Lo95  float64 // 2.5% empirical quantile
	Hi95  float64 // 97.5% empirical quantile

	// Histogram: Counts[i] draws fall in [Dividers[i], Dividers[i+1]).
	Dividers []float64
	Counts   []float64

	Value *float64
}

// Result is the output of Finalize.
type Result struct {
	Events          []Posterior
	Chains          int
	ConvergedChains int

	// Curve is the smoothing spline of value against posterior mean date.
	// Nil when fewer than three events carry a value or when CurveErr is set.
	Curve    *spline.Fit
	CurveErr error
}

func summarize(study Study, traces [][]float64, bins int) *Result {
	res := &Result{Events: make([]Posterior, len(study.Events))}
	for i, e := range study.Events {
		p := Posterior{Name: e.Name, Value: e.Value, Mean: math.NaN(), SD: math.NaN()}
		var x []float64
		if i < len(traces) {
			x = append([]float64(nil), traces[i]...)
		}
		p.Draws = len(x)
		if len(x) > 0 {
			sort.Float64s(x)
			p.Mean, p.SD = stat.MeanStdDev(x, nil)
			p.Lo95 = stat.Quantile(0.025, stat.Empirical, x, nil)
			p.Hi95 = stat.Quantile(0.975, stat.Empirical, x, nil)
			p.Dividers, p.Counts = histogram(x, bins)
		}
		res.Events[i] = p
	}

	return res
}

// histogram bins sorted x into equal-width bins spanning its range.
func histogram(sorted []float64, bins int) (dividers, counts []float64) {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		hi = lo + 1
	} else {
		hi = math.Nextafter(hi, math.Inf(1))
	}
	dividers = floats.Span(make([]float64, bins+1), lo, hi)
	counts = stat.Histogram(nil, dividers, sorted, nil)

	return dividers, counts
}

// fitCurve smooths event values against posterior mean dates.
func (r *Result) fitCurve(minStep, alpha float64) error {
	type point struct{ t, y float64 }
	var pts []point
	for _, p := range r.Events {
		if p.Value != nil && p.Draws > 0 {
			pts = append(pts, point{p.Mean, *p.Value})
		}
	}
	if len(pts) < 3 {
		return nil
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].t < pts[j].t })

	raw := make([]float64, len(pts))
	y := make([]float64, len(pts))
	for i, p := range pts {
		raw[i], y[i] = p.t, p.y
	}
	knots, err := spline.PlaceKnots(raw, minStep)
	if err != nil {
		return fmt.Errorf("events: curve knots: %w", err)
	}
	pen, err := spline.NewPenalty(knots)
	if err != nil {
		return fmt.Errorf("events: curve penalty: %w", err)
	}
	fit, err := spline.Smooth(pen, y, nil, alpha)
	if err != nil {
		return fmt.Errorf("events: curve smoothing: %w", err)
	}
	r.Curve = fit

	return nil
}

// String renders a plain-text posterior table.
func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Posterior over %d chain(s), %d converged\n", r.Chains, r.ConvergedChains)
	for _, p := range r.Events {
		fmt.Fprintf(&b, "%-16s n=%-7d mean=%10.3f sd=%8.3f 95%%=[%.3f, %.3f]\n",
			p.Name, p.Draws, p.Mean, p.SD, p.Lo95, p.Hi95)
	}
	switch {
	case r.CurveErr != nil:
		fmt.Fprintf(&b, "Curve: %v\n", r.CurveErr)
	case r.Curve != nil:
		fmt.Fprintf(&b, "Curve: %d knots, alpha=%g\n", len(r.Curve.Knots), r.Curve.Alpha)
	}

	return b.String()
}
