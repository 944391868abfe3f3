// SPDX-License-Identifier: MIT

package spline

import (
	"fmt"
	"math"
	"sort"
)

// PlaceKnots returns the sorted knot set derived from raw times so that every
// adjacent gap is at least minStep.
//
// Implementation:
//   - Stage 1: validate; reject when (max-min) < (n-1)*minStep.
//   - Stage 2: sort a copy ascending.
//   - Stage 3: scan left to right. A gap below minStep opens a collision run.
//     The point just before the run is its fixed left boundary and never moves.
//     The run grows forward until the gap after it reopens AND the fixed
//     boundaries leave room for every member at minStep. If it reaches the
//     last point first, it grows backward instead until there is room.
//   - Stage 4: spread the run (see spreadRun) and resume the scan after it.
//
// Behavior highlights:
//   - First and last points of the sorted sequence are never moved.
//   - Output length equals input length; the input slice is not modified.
//   - Ties and near-ties are resolved by scan order. This is a stabilization
//     pass, not an optimal assignment.
//
// Errors:
//   - ErrEmptyInput, ErrInvalidStep, ErrNaNInf, ErrInfeasibleSpacing.
//
// Complexity:
//   - Time O(n log n) for the sort plus O(n²) worst case for run growth.
//   - Space O(n).
func PlaceKnots(raw []float64, minStep float64) ([]float64, error) {
	n := len(raw)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if !(minStep > 0) || math.IsInf(minStep, 1) {
		return nil, fmt.Errorf("PlaceKnots: minStep=%g: %w", minStep, ErrInvalidStep)
	}

	t := make([]float64, n)
	for i, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("PlaceKnots: raw[%d]=%g: %w", i, v, ErrNaNInf)
		}
		t[i] = v
	}
	sort.Float64s(t)
	if n == 1 {
		return t, nil
	}

	span := t[n-1] - t[0]
	if span < float64(n-1)*minStep {
		return nil, fmt.Errorf("PlaceKnots: span %g < %d × %g: %w", span, n-1, minStep, ErrInfeasibleSpacing)
	}

	var s, e int
	i := 0
	for i < n-1 {
		if t[i+1]-t[i] >= minStep {
			i++
			continue
		}
		s, e = collisionRun(t, i, minStep)
		spreadRun(t, s, e, minStep)
		// Gaps up to the right boundary e+1 now hold; resume from there.
		i = e + 1
	}

	return t, nil
}

// collisionRun returns the movable members [s, e] of the run opened by the
// collision between t[i] and t[i+1]. The fixed boundaries are s-1 and e+1,
// so 1 ≤ s ≤ e ≤ n-2 always holds for n ≥ 3.
func collisionRun(t []float64, i int, minStep float64) (s, e int) {
	n := len(t)
	s = max(i, 1)
	e = min(i+1, n-2)

	// Forward growth: stop once the gap after the run reopens and the
	// boundaries can hold every member, or when only the last point is left.
	for e+1 < n-1 && !(t[e+1]-t[e] >= minStep && hasRoom(t, s-1, e+1, minStep)) {
		e++
	}
	// Backward growth from the end. s==1 means the boundaries are the first
	// and last points, where room is guaranteed by the feasibility check.
	for s > 1 && !hasRoom(t, s-1, e+1, minStep) {
		s--
	}

	return s, e
}

// hasRoom reports whether r-l-1 members fit strictly between t[l] and t[r]
// with every gap at least minStep.
func hasRoom(t []float64, l, r int, minStep float64) bool {
	return t[r]-t[l] >= float64(r-l)*minStep
}

// spreadRun rewrites members [s, e] in place.
//
//   - Members after the first are placed exactly minStep after their predecessor.
//   - The run is shifted back by half of the distance its last member moved,
//     which recentres it around its original position.
//   - The run is clamped to [t[s-1]+minStep, t[e+1]-minStep].
func spreadRun(t []float64, s, e int, minStep float64) {
	origLast := t[e]
	var k int
	for k = s + 1; k <= e; k++ {
		t[k] = t[k-1] + minStep
	}

	shiftRun(t, s, e, -(t[e]-origLast)/2)

	lo := t[s-1] + minStep
	hi := t[e+1] - minStep
	if d := lo - t[s]; d > 0 {
		shiftRun(t, s, e, d)
	}
	if d := t[e] - hi; d > 0 {
		shiftRun(t, s, e, -d)
	}
}

// shiftRun adds d to every member in [s, e].
func shiftRun(t []float64, s, e int, d float64) {
	for k := s; k <= e; k++ {
		t[k] += d
	}
}
