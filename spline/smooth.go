// SPDX-License-Identifier: MIT

package spline

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Fit is a natural cubic spline given by its values G and second
// derivatives Gamma at the knots (Gamma[0] = Gamma[n-1] = 0).
type Fit struct {
	Knots []float64
	G     []float64
	Gamma []float64
	Alpha float64
}

// Smooth fits the penalized natural cubic spline minimizing
//
//	Σ w[i](y[i] - g(t[i]))² + alpha ∫ g''(t)² dt
//
// with the Reinsch algorithm:
//
//	(R + alpha·QᵀW⁻¹Q) γ = Qᵀy
//	g = y - alpha·W⁻¹Qγ
//
// The system matrix is symmetric pentadiagonal of order n-2 and is solved
// with a banded Cholesky factorization.
//
// Inputs:
//   - p: penalty over the knots.
//   - y: observations at each knot, len n.
//   - w: positive weights, len n; nil means all ones.
//   - alpha: smoothing parameter ≥ 0; 0 interpolates y.
//
// Errors:
//   - ErrLengthMismatch, ErrInvalidWeight, ErrInvalidSmoothing, ErrNaNInf,
//     ErrNotPositiveDefinite.
//
// Complexity:
//   - Time O(n), Space O(n).
func Smooth(p *Penalty, y, w []float64, alpha float64) (*Fit, error) {
	n := p.Size()
	if len(y) != n {
		return nil, fmt.Errorf("Smooth: len(y)=%d, n=%d: %w", len(y), n, ErrLengthMismatch)
	}
	if w != nil && len(w) != n {
		return nil, fmt.Errorf("Smooth: len(w)=%d, n=%d: %w", len(w), n, ErrLengthMismatch)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, fmt.Errorf("Smooth: alpha=%g: %w", alpha, ErrNaNInf)
	}
	if alpha < 0 {
		return nil, fmt.Errorf("Smooth: alpha=%g: %w", alpha, ErrInvalidSmoothing)
	}

	winv := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return nil, fmt.Errorf("Smooth: y[%d]=%g: %w", i, y[i], ErrNaNInf)
		}
		winv[i] = 1
		if w != nil {
			if !(w[i] > 0) || math.IsInf(w[i], 1) {
				return nil, fmt.Errorf("Smooth: w[%d]=%g: %w", i, w[i], ErrInvalidWeight)
			}
			winv[i] = 1 / w[i]
		}
	}

	m := n - 2
	q := p.BandQ()
	sys := reinschSystem(p.BandR(), q, winv, alpha)

	yv := mat.NewVecDense(n, y)
	rhs := mat.NewVecDense(m, nil)
	rhs.MulVec(q.T(), yv)

	var ch mat.BandCholesky
	if ok := ch.Factorize(sys); !ok {
		return nil, ErrNotPositiveDefinite
	}
	sol := mat.NewVecDense(m, nil)
	if err := ch.SolveVecTo(sol, rhs); err != nil {
		return nil, fmt.Errorf("Smooth: %v: %w", err, ErrNotPositiveDefinite)
	}

	gamma := make([]float64, n)
	for c := 0; c < m; c++ {
		gamma[c+1] = sol.AtVec(c)
	}

	// g = y - alpha W⁻¹ Q γ
	qg := mat.NewVecDense(n, nil)
	qg.MulVec(q, sol)
	g := make([]float64, n)
	for k := 0; k < n; k++ {
		g[k] = y[k] - alpha*winv[k]*qg.AtVec(k)
	}

	knots := make([]float64, n)
	copy(knots, p.Knots)

	return &Fit{Knots: knots, G: g, Gamma: gamma, Alpha: alpha}, nil
}

// reinschSystem builds R + alpha·QᵀW⁻¹Q from the band views as a symmetric
// band matrix of order n-2 with bandwidth min(2, n-3).
func reinschSystem(r *mat.SymBandDense, q *mat.BandDense, winv []float64, alpha float64) *mat.SymBandDense {
	m, _ := r.Dims()
	k := min(2, m-1)
	sys := mat.NewSymBandDense(m, k, nil)

	var a, b, row int
	var v float64
	for a = 0; a < m; a++ {
		for b = a; b <= min(a+k, m-1); b++ {
			v = r.At(a, b)
			// Column a of Q has nonzeros in rows a..a+2.
			for row = b; row <= a+2; row++ {
				v += alpha * winv[row] * q.At(row, a) * q.At(row, b)
			}
			sys.SetSymBand(a, b, v)
		}
	}

	return sys
}

// Eval returns the fitted value at x.
//
// Between knots the natural cubic form is used; outside [t0, tn-1] the
// spline is extended linearly with its end slopes.
//
// Complexity: O(log n).
func (f *Fit) Eval(x float64) float64 {
	t, g, gam := f.Knots, f.G, f.Gamma
	n := len(t)
	if x <= t[0] {
		h := t[1] - t[0]
		slope := (g[1]-g[0])/h - h*gam[1]/6
		return g[0] + (x-t[0])*slope
	}
	if x >= t[n-1] {
		h := t[n-1] - t[n-2]
		slope := (g[n-1]-g[n-2])/h + h*gam[n-2]/6
		return g[n-1] + (x-t[n-1])*slope
	}

	// i such that t[i] <= x < t[i+1].
	i := sort.SearchFloat64s(t, x)
	if i < n && t[i] == x {
		return g[i]
	}
	i--
	h := t[i+1] - t[i]
	dl := x - t[i]
	dr := t[i+1] - x

	return (dl*g[i+1]+dr*g[i])/h -
		dl*dr*((1+dl/h)*gam[i+1]+(1+dr/h)*gam[i])/6
}
