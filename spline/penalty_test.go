// SPDX-License-Identifier: MIT

package spline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/chronosim/matrix"
	"github.com/katalvlaran/chronosim/spline"
)

// mustAt reads m[i][j] and fails the test on an indexing error.
func mustAt(t *testing.T, m *matrix.Dense, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

var unevenKnots = []float64{0, 1, 3, 3.5, 7, 12}

// TestNewPenalty_Gaps checks H = t[i+1]-t[i].
func TestNewPenalty_Gaps(t *testing.T) {
	p, err := spline.NewPenalty(unevenKnots)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 0.5, 3.5, 5}, p.H)
	assert.Equal(t, 6, p.Size())
	assert.Equal(t, 6, p.R.Rows())
	assert.Equal(t, 6, p.Q.Cols())
}

// TestNewPenalty_RSymmetricBand checks symmetry, band values and zeros.
func TestNewPenalty_RSymmetricBand(t *testing.T) {
	p, err := spline.NewPenalty(unevenKnots)
	require.NoError(t, err)
	n := p.Size()

	sym, err := p.R.IsSymmetric(0)
	require.NoError(t, err)
	assert.True(t, sym, "R must be exactly symmetric")
	for i := 1; i <= n-2; i++ {
		assert.Equal(t, (p.H[i-1]+p.H[i])/3, mustAt(t, p.R, i, i), "R diag %d", i)
	}
	for i := 1; i <= n-3; i++ {
		assert.Equal(t, p.H[i]/6, mustAt(t, p.R, i, i+1), "R off-diag %d", i)
	}
	// Border rows/cols and anything outside the tridiagonal stay zero.
	for k := 0; k < n; k++ {
		assert.Zero(t, mustAt(t, p.R, 0, k))
		assert.Zero(t, mustAt(t, p.R, n-1, k))
	}
	assert.Zero(t, mustAt(t, p.R, 1, 3))
}

// TestNewPenalty_QColumns checks the three-band structure and zero column sums.
func TestNewPenalty_QColumns(t *testing.T) {
	p, err := spline.NewPenalty(unevenKnots)
	require.NoError(t, err)
	n := p.Size()

	sum := make([]float64, n)
	nonzero := make([]int, n)
	p.Q.Do(func(_, j int, v float64) bool {
		sum[j] += v
		if v != 0 {
			nonzero[j]++
		}
		return true
	})
	for j := 0; j < n; j++ {
		if j == 0 || j == n-1 {
			assert.Zero(t, nonzero[j], "boundary column %d must be empty", j)
			continue
		}
		assert.Equal(t, 3, nonzero[j], "column %d", j)
		assert.InDelta(t, 0, sum[j], 1e-12, "column %d sum", j)
		assert.Equal(t, 1/p.H[j-1], mustAt(t, p.Q, j-1, j))
		assert.Equal(t, -(1/p.H[j-1] + 1/p.H[j]), mustAt(t, p.Q, j, j))
		assert.Equal(t, 1/p.H[j], mustAt(t, p.Q, j+1, j))
	}
}

// TestNewPenalty_ThreeKnots covers the smallest interior (a single cell).
func TestNewPenalty_ThreeKnots(t *testing.T) {
	p, err := spline.NewPenalty([]float64{0, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mustAt(t, p.R, 1, 1), 1e-15)
	assert.Equal(t, 0.5, mustAt(t, p.Q, 0, 1))
	assert.Equal(t, -1.5, mustAt(t, p.Q, 1, 1))
	assert.Equal(t, 1.0, mustAt(t, p.Q, 2, 1))

	br := p.BandR()
	r, c := br.Dims()
	assert.Equal(t, 1, r)
	assert.Equal(t, 1, c)
	assert.InDelta(t, 1.0, br.At(0, 0), 1e-15)
}

// TestPenalty_BandViewsMatchDense checks the compact index mapping.
func TestPenalty_BandViewsMatchDense(t *testing.T) {
	p, err := spline.NewPenalty(unevenKnots)
	require.NoError(t, err)
	n := p.Size()

	br := p.BandR()
	for a := 0; a < n-2; a++ {
		for b := 0; b < n-2; b++ {
			assert.Equal(t, mustAt(t, p.R, a+1, b+1), br.At(a, b), "R band (%d,%d)", a, b)
		}
	}
	bq := p.BandQ()
	rows, cols := bq.Dims()
	require.Equal(t, n, rows)
	require.Equal(t, n-2, cols)
	for i := 0; i < n; i++ {
		for c := 0; c < n-2; c++ {
			assert.Equal(t, mustAt(t, p.Q, i, c+1), bq.At(i, c), "Q band (%d,%d)", i, c)
		}
	}
}

// TestNewPenalty_Errors covers the input sentinels.
func TestNewPenalty_Errors(t *testing.T) {
	_, err := spline.NewPenalty([]float64{0, 1})
	assert.ErrorIs(t, err, spline.ErrTooFewKnots)

	_, err = spline.NewPenalty([]float64{0, 1, 1, 2})
	assert.ErrorIs(t, err, spline.ErrNotIncreasing)

	_, err = spline.NewPenalty([]float64{0, 2, 1})
	assert.ErrorIs(t, err, spline.ErrNotIncreasing)
}

// TestNewPenalty_OwnsKnots checks the input slice is copied.
func TestNewPenalty_OwnsKnots(t *testing.T) {
	in := []float64{0, 1, 2}
	p, err := spline.NewPenalty(in)
	require.NoError(t, err)
	in[1] = 1.5
	assert.Equal(t, 1.0, p.Knots[1])
}
