// SPDX-License-Identifier: MIT

package mcmc

// RunConfiguration holds the per-run parameters of the scheduler.
//
// Bounds (validated by the config package, not re-checked here):
//   - NumChains, NumBurnIter, MaxBatches, NumBatchIter ≥ 1
//   - NumRunIter ≥ 50
//   - 1 ≤ ThinningInterval ≤ NumRunIter/40
//   - 0 < MixingLevel < 1
//   - Seeds, when present: one nonzero seed per chain
//
// The scheduler takes a private copy at construction; later changes to the
// caller's value (including its Seeds slice) do not affect a run.
type RunConfiguration struct {
	NumChains        int     `yaml:"chains" env:"CHAINS" validate:"min=1"`
	NumBurnIter      int     `yaml:"burn_iterations" env:"BURN" validate:"min=1"`
	MaxBatches       int     `yaml:"max_batches" env:"MAX_BATCHES" validate:"min=1"`
	NumBatchIter     int     `yaml:"batch_iterations" env:"BATCH_ITERATIONS" validate:"min=1"`
	NumRunIter       int     `yaml:"run_iterations" env:"RUN_ITERATIONS" validate:"min=50"`
	ThinningInterval int     `yaml:"thinning" env:"THINNING" validate:"min=1"`
	MixingLevel      float64 `yaml:"mixing_level" env:"MIXING_LEVEL" validate:"gt=0,lt=1"`
	Seeds            []int64 `yaml:"seeds,omitempty" env:"SEEDS" envSeparator:"," validate:"omitempty,dive,ne=0"`
}

// Defaults for a fresh RunConfiguration.
const (
	DefaultNumChains        = 3
	DefaultNumBurnIter      = 1000
	DefaultMaxBatches       = 100
	DefaultNumBatchIter     = 500
	DefaultNumRunIter       = 100000
	DefaultThinningInterval = 10
	DefaultMixingLevel      = 0.99
)

// DefaultRunConfiguration returns the documented defaults with no explicit seeds.
func DefaultRunConfiguration() RunConfiguration {
	return RunConfiguration{
		NumChains:        DefaultNumChains,
		NumBurnIter:      DefaultNumBurnIter,
		MaxBatches:       DefaultMaxBatches,
		NumBatchIter:     DefaultNumBatchIter,
		NumRunIter:       DefaultNumRunIter,
		ThinningInterval: DefaultThinningInterval,
		MixingLevel:      DefaultMixingLevel,
	}
}

// MaxThinning returns the largest thinning interval allowed for NumRunIter.
func (c RunConfiguration) MaxThinning() int { return c.NumRunIter / 40 }

// Retained returns how many acquisition iterates are kept per chain,
// i.e. ceil(NumRunIter / ThinningInterval).
func (c RunConfiguration) Retained() int {
	k := max(c.ThinningInterval, 1)

	return (c.NumRunIter + k - 1) / k
}

// MaxIterationsPerChain is the iteration count of a chain whose adaptation
// uses every batch.
func (c RunConfiguration) MaxIterationsPerChain() int {
	return c.NumBurnIter + c.MaxBatches*c.NumBatchIter + c.NumRunIter
}

// clone returns a deep copy (Seeds is not shared).
func (c RunConfiguration) clone() RunConfiguration {
	if c.Seeds != nil {
		c.Seeds = append([]int64(nil), c.Seeds...)
	}

	return c
}
