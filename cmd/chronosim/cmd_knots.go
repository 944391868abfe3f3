// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/chronosim/spline"
)

func newKnotsCmd(load loader) *cobra.Command {
	var minStep float64

	cmd := &cobra.Command{
		Use:   "knots t1 t2 ...",
		Short: "Place knots with a minimum spacing and print the penalty matrices",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("min-step") {
				cfg, err := load()
				if err != nil {
					return err
				}
				minStep = cfg.Spline.MinStep
			}
			raw := make([]float64, len(args))
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("knots: argument %d: %w", i+1, err)
				}
				raw[i] = v
			}

			knots, err := spline.PlaceKnots(raw, minStep)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "knots: %v\n", formatFloats(knots))
			if len(knots) < 3 {
				return nil
			}
			p, err := spline.NewPenalty(knots)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "h: %v\n", formatFloats(p.H))
			fmt.Fprintf(out, "R:\n%s", p.R.Table(4))
			fmt.Fprintf(out, "Q:\n%s", p.Q.Table(4))

			return nil
		},
	}
	cmd.Flags().Float64Var(&minStep, "min-step", 1, "minimum spacing between consecutive knots")

	return cmd
}

// formatFloats prints with %.6g to hide float noise from the spreading pass.
func formatFloats(xs []float64) string {
	return fmt.Sprintf("%.6g", xs)
}
