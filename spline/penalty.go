// SPDX-License-Identifier: MIT

package spline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/chronosim/matrix"
)

// Penalty holds the roughness-penalty system built over a knot set.
//
// R and Q are allocated full n×n so that indices match knot indices; only
// the interior block is populated:
//
//	R[i][i]   = (H[i-1] + H[i]) / 3        i ∈ 1..n-2
//	R[i][i+1] = R[i+1][i] = H[i] / 6       i ∈ 1..n-3
//	Q[i-1][i] = 1/H[i-1]                   i ∈ 1..n-2
//	Q[i][i]   = -(1/H[i-1] + 1/H[i])
//	Q[i+1][i] = 1/H[i]
//
// A Penalty is immutable after construction and owned by its caller.
type Penalty struct {
	Knots []float64     // strictly increasing, len n
	H     []float64     // knot gaps, len n-1
	R     *matrix.Dense // n×n, symmetric tridiagonal interior
	Q     *matrix.Dense // n×n, three nonzeros per interior column
}

// NewPenalty assembles R and Q for knots.
//
// Errors:
//   - ErrTooFewKnots when len(knots) < 3.
//   - ErrNaNInf, ErrNotIncreasing on invalid knots.
//
// Complexity:
//   - Time O(n²) (zero-filled n×n storage), O(n) writes.
//   - Space O(n²).
func NewPenalty(knots []float64) (*Penalty, error) {
	n := len(knots)
	if n < 3 {
		return nil, fmt.Errorf("NewPenalty: n=%d: %w", n, ErrTooFewKnots)
	}

	t := make([]float64, n)
	copy(t, knots)
	h, err := gaps(t)
	if err != nil {
		return nil, err
	}

	r, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	q, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}

	var i int
	for i = 1; i <= n-2; i++ {
		if err = r.Set(i, i, (h[i-1]+h[i])/3); err != nil {
			return nil, err
		}
		if i <= n-3 {
			if err = r.Set(i, i+1, h[i]/6); err != nil {
				return nil, err
			}
			if err = r.Set(i+1, i, h[i]/6); err != nil {
				return nil, err
			}
		}
		if err = q.Set(i-1, i, qEntry(h, i-1, i)); err != nil {
			return nil, err
		}
		if err = q.Set(i, i, qEntry(h, i, i)); err != nil {
			return nil, err
		}
		if err = q.Set(i+1, i, qEntry(h, i+1, i)); err != nil {
			return nil, err
		}
	}

	return &Penalty{Knots: t, H: h, R: r, Q: q}, nil
}

// gaps validates t and returns H[i] = t[i+1]-t[i].
func gaps(t []float64) ([]float64, error) {
	h := make([]float64, len(t)-1)
	for i, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("knot[%d]=%g: %w", i, v, ErrNaNInf)
		}
		if i == 0 {
			continue
		}
		h[i-1] = v - t[i-1]
		if !(h[i-1] > 0) {
			return nil, fmt.Errorf("knot[%d]=%g after %g: %w", i, v, t[i-1], ErrNotIncreasing)
		}
	}

	return h, nil
}

// qEntry returns Q[row][col] from the gaps without touching storage.
// Valid for interior columns col ∈ 1..n-2; zero outside the band.
func qEntry(h []float64, row, col int) float64 {
	switch row - col {
	case -1:
		return 1 / h[col-1]
	case 0:
		return -(1/h[col-1] + 1/h[col])
	case 1:
		return 1 / h[col]
	default:
		return 0
	}
}

// Size returns the number of knots n.
func (p *Penalty) Size() int { return len(p.Knots) }

// BandR returns the interior block of R, rows/cols 1..n-2, as a compact
// symmetric band matrix of order n-2. Entry (a,b) maps to R[a+1][b+1].
//
// Complexity: O(n).
func (p *Penalty) BandR() *mat.SymBandDense {
	m := p.Size() - 2
	k := min(1, m-1)
	b := mat.NewSymBandDense(m, k, nil)
	for a := 0; a < m; a++ {
		b.SetSymBand(a, a, (p.H[a]+p.H[a+1])/3)
		if k > 0 && a+1 < m {
			b.SetSymBand(a, a+1, p.H[a+1]/6)
		}
	}

	return b
}

// BandQ returns the interior columns of Q as a compact n×(n-2) band matrix
// with two sub-diagonals. Entry (row, c) maps to Q[row][c+1].
//
// Complexity: O(n).
func (p *Penalty) BandQ() *mat.BandDense {
	n := p.Size()
	b := mat.NewBandDense(n, n-2, 2, 0, nil)
	for c := 0; c < n-2; c++ {
		col := c + 1
		b.SetBand(col-1, c, qEntry(p.H, col-1, col))
		b.SetBand(col, c, qEntry(p.H, col, col))
		b.SetBand(col+1, c, qEntry(p.H, col+1, col))
	}

	return b
}
