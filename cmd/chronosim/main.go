// SPDX-License-Identifier: MIT

// Command chronosim runs Bayesian event-dating simulations and exposes the
// spline preprocessing kernel.
//
// Usage:
//
//	chronosim run --events study.yaml [--config chronosim.yaml] [--metrics-addr :9090]
//	chronosim knots [--min-step 1] t1 t2 ...
//	chronosim config [--config chronosim.yaml]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "chronosim:", err)
		os.Exit(1)
	}
}
