// SPDX-License-Identifier: MIT

package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/chronosim/matrix"
)

// ExampleDense builds a small symmetric matrix and prints it as a table.
func ExampleDense() {
	m, err := matrix.NewDense(2, 2)
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = m.Set(0, 0, 4)
	_ = m.Set(0, 1, -1)
	_ = m.Set(1, 0, -1)
	_ = m.Set(1, 1, 4)
	ok, _ := m.IsSymmetric(0)
	fmt.Println("symmetric:", ok)
	fmt.Print(m.Table(1))
	// Output:
	// symmetric: true
	//  4.0 -1.0
	// -1.0  4.0
}
