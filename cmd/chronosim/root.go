// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/chronosim/config"
)

// newRootCmd assembles the command tree. A fresh tree per call keeps flag
// state out of package globals.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "chronosim",
		Short:         "MCMC event dating and spline preprocessing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file (defaults plus CHRONOSIM_* env when empty)")

	load := func() (config.Config, error) { return config.Load(configPath, nil) }

	root.AddCommand(
		newRunCmd(load),
		newKnotsCmd(load),
		newConfigCmd(load),
	)

	return root
}

// loader returns the effective configuration.
type loader func() (config.Config, error)
