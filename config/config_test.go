// SPDX-License-Identifier: MIT

package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/chronosim/config"
	"github.com/katalvlaran/chronosim/rng"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chronosim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.MCMC.NumChains)
	assert.InDelta(t, 1.0, cfg.Spline.MinStep, 0)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
mcmc:
  chains: 2
  run_iterations: 2000
  thinning: 5
spline:
  min_step: 2.5
log:
  level: debug
metrics:
  addr: ":9090"
`)
	cfg, err := config.Load(path, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.MCMC.NumChains)
	assert.Equal(t, 2000, cfg.MCMC.NumRunIter)
	assert.Equal(t, 5, cfg.MCMC.ThinningInterval)
	assert.Equal(t, 1000, cfg.MCMC.NumBurnIter, "untouched keys keep defaults")
	assert.InDelta(t, 2.5, cfg.Spline.MinStep, 0)
	assert.InDelta(t, 1.0, cfg.Spline.Smoothing, 0)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "mcmc:\n  chains: 2\n")
	cfg, err := config.Load(path, map[string]string{
		"CHRONOSIM_CHAINS":       "4",
		"CHRONOSIM_BURN":         "10",
		"CHRONOSIM_SEEDS":        "1,2,3,4",
		"CHRONOSIM_LOG_FORMAT":   "json",
		"CHRONOSIM_MIXING_LEVEL": "0.5",
		"UNRELATED":              "x",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MCMC.NumChains)
	assert.Equal(t, 10, cfg.MCMC.NumBurnIter)
	assert.Equal(t, []int64{1, 2, 3, 4}, cfg.MCMC.Seeds)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.InDelta(t, 0.5, cfg.MCMC.MixingLevel, 0)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		environ map[string]string
		is      error
		msg     string
	}{
		{"unknown key", "mcmc:\n  chainz: 2\n", nil, config.ErrMalformed, "chainz"},
		{"not yaml", "mcmc: [", nil, config.ErrMalformed, ""},
		{"too few run iterations", "mcmc:\n  run_iterations: 10\n  thinning: 1\n", nil, config.ErrInvalid, "NumRunIter"},
		{"thinning above bound", "mcmc:\n  run_iterations: 400\n  thinning: 11\n", nil, config.ErrInvalid, "ThinningInterval"},
		{"mixing out of range", "mcmc:\n  mixing_level: 1\n", nil, config.ErrInvalid, "MixingLevel"},
		{"seed count mismatch", "mcmc:\n  chains: 2\n  seeds: [5]\n", nil, config.ErrInvalid, "Seeds"},
		{"zero seed", "mcmc:\n  chains: 2\n  seeds: [5, 0]\n", nil, config.ErrInvalid, "Seeds[1]"},
		{"bad level", "log:\n  level: loud\n", nil, config.ErrInvalid, "Level"},
		{"bad min step", "spline:\n  min_step: 0\n", nil, config.ErrInvalid, "MinStep"},
		{"bad trace exporter", "trace:\n  exporter: zipkin\n", nil, config.ErrInvalid, "Exporter"},
		{"bad metrics addr", "metrics:\n  addr: nope\n", nil, config.ErrInvalid, "Addr"},
		{"bad env", "", map[string]string{"CHRONOSIM_CHAINS": "many"}, config.ErrInvalid, "environment"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			environ := tc.environ
			if environ == nil {
				environ = map[string]string{}
			}
			_, err := config.Load(writeFile(t, tc.body), environ)
			require.ErrorIs(t, err, tc.is)
			if tc.msg != "" {
				assert.Contains(t, err.Error(), tc.msg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), map[string]string{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EmptyPathAndFile(t *testing.T) {
	cfg, err := config.Load("", map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.Load(writeFile(t, ""), map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestRunConfiguration_Seeds(t *testing.T) {
	cfg := config.Default()
	assert.Empty(t, cfg.RunConfiguration().Seeds, "fresh seeds by default")

	cfg.MasterSeed = 42
	rc := cfg.RunConfiguration()
	require.Len(t, rc.Seeds, cfg.MCMC.NumChains)
	for i, s := range rc.Seeds {
		assert.Equal(t, rng.DeriveSeed(42, uint64(i)), s)
		assert.NotZero(t, s)
	}
	assert.Equal(t, rc.Seeds, cfg.RunConfiguration().Seeds, "derivation is deterministic")

	cfg.MCMC.Seeds = []int64{9, 8, 7}
	rc = cfg.RunConfiguration()
	assert.Equal(t, []int64{9, 8, 7}, rc.Seeds, "explicit seeds win")
	rc.Seeds[0] = 1
	assert.Equal(t, int64(9), cfg.MCMC.Seeds[0])
}

func TestYAML_RoundTripsThroughLoad(t *testing.T) {
	cfg := config.Default()
	cfg.MCMC.NumChains = 2
	cfg.MCMC.Seeds = []int64{3, 4}
	cfg.Log.Format = "json"

	data, err := cfg.YAML()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "mcmc:"))

	got, err := config.Load(writeFile(t, string(data)), map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := config.NewLogger(config.Log{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", slog.Int("chain", 1))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"chain":1`)

	buf.Reset()
	logger, err = config.NewLogger(config.Log{Level: "debug", Format: "text"}, &buf)
	require.NoError(t, err)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")

	_, err = config.NewLogger(config.Log{Level: "loud"}, &buf)
	require.ErrorIs(t, err, config.ErrInvalid)
	_, err = config.NewLogger(config.Log{Level: "info", Format: "xml"}, &buf)
	require.ErrorIs(t, err, config.ErrInvalid)
}
