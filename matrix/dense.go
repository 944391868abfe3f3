// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// error context tags
const (
	ctxAt  = "At"
	ctxSet = "Set"
)

// denseErrorf attaches method context and coordinates to a sentinel.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values.
//   - r, c hold the dimensions.
//   - data holds r*c elements; element (i,j) lives at i*c + j.
type Dense struct {
	r, c int
	data []float64
}

var _ Matrix = (*Dense)(nil)

// NewDense creates an r×c zero matrix.
//
// Errors:
//   - ErrInvalidDimensions when rows or cols is not positive.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrInvalidDimensions)
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// indexOf computes the flat offset of (row, col) or returns ErrOutOfRange
// wrapped with the calling method.
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At returns the element at (row, col).
//
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf(ctxAt, row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns v at (row, col). Non-finite values are rejected.
//
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf(ctxSet, row, col)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[idx] = v

	return nil
}

// Do calls f for every element in row-major order until f returns false.
//
// Complexity: O(r*c), no allocations.
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			if !f(i, j, m.data[base+j]) {
				return
			}
		}
	}
}

// IsSymmetric reports whether m is square with |m[i][j]-m[j][i]| ≤ eps for
// every pair.
//
// Errors:
//   - ErrNonSquare when rows != cols.
func (m *Dense) IsSymmetric(eps float64) (bool, error) {
	if m.r != m.c {
		return false, fmt.Errorf("IsSymmetric(%dx%d): %w", m.r, m.c, ErrNonSquare)
	}
	for i := 0; i < m.r; i++ {
		for j := i + 1; j < m.c; j++ {
			if math.Abs(m.data[i*m.c+j]-m.data[j*m.c+i]) > eps {
				return false, nil
			}
		}
	}

	return true, nil
}

// Table renders the matrix as right-aligned columns with prec decimals.
// Exact zeros print as a single "0" to keep banded structure readable.
func (m *Dense) Table(prec int) string {
	cells := make([]string, len(m.data))
	width := 1
	for k, v := range m.data {
		if v == 0 {
			cells[k] = "0"
		} else {
			cells[k] = fmt.Sprintf("%.*f", prec, v)
		}
		width = max(width, len(cells[k]))
	}

	var b strings.Builder
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%*s", width, cells[i*m.c+j])
		}
		b.WriteByte('\n')
	}

	return b.String()
}
