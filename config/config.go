// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/chronosim/mcmc"
	"github.com/katalvlaran/chronosim/rng"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "CHRONOSIM_"

// Defaults outside the scheduler section.
const (
	DefaultMinStep   = 1.0
	DefaultSmoothing = 1.0
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the effective configuration of one chronosim process.
type Config struct {
	MCMC       mcmc.RunConfiguration `yaml:"mcmc"`
	MasterSeed int64                 `yaml:"master_seed,omitempty" env:"MASTER_SEED"`
	Spline     Spline                `yaml:"spline"`
	Log        Log                   `yaml:"log"`
	Metrics    Metrics               `yaml:"metrics"`
	Trace      Trace                 `yaml:"trace"`
}

// Spline holds the knot placement and smoothing parameters.
type Spline struct {
	MinStep   float64 `yaml:"min_step" env:"SPLINE_MIN_STEP" validate:"gt=0"`
	Smoothing float64 `yaml:"smoothing" env:"SPLINE_SMOOTHING" validate:"gte=0"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" validate:"oneof=text json"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Addr string `yaml:"addr,omitempty" env:"METRICS_ADDR" validate:"omitempty,hostname_port"`
}

// Trace exporters.
const (
	TraceNone   = "none"
	TraceStdout = "stdout"
)

// Trace selects the OpenTelemetry span exporter.
type Trace struct {
	Exporter string `yaml:"exporter" env:"TRACE_EXPORTER" validate:"oneof=none stdout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MCMC:   mcmc.DefaultRunConfiguration(),
		Spline: Spline{MinStep: DefaultMinStep, Smoothing: DefaultSmoothing},
		Log:    Log{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Trace:  Trace{Exporter: TraceNone},
	}
}

// Load builds the effective configuration from the defaults, the YAML file
// at path (skipped when path is empty) and the environment. A nil environ
// reads the process environment.
func Load(path string, environ map[string]string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err = Decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg, environ); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Decode overlays the YAML document in data onto cfg. Keys absent from the
// document keep their current value; unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return nil
}

// ApplyEnv overlays CHRONOSIM_* variables onto cfg. Unset variables leave
// the corresponding field untouched.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("%w: environment: %w", ErrInvalid, err)
	}

	return nil
}

// RunConfiguration returns the scheduler configuration with seeds resolved:
// explicit seeds win; otherwise a non-zero MasterSeed derives one seed per
// chain; otherwise the scheduler draws fresh seeds.
func (c Config) RunConfiguration() mcmc.RunConfiguration {
	rc := c.MCMC
	if len(rc.Seeds) > 0 {
		rc.Seeds = append([]int64(nil), rc.Seeds...)
		return rc
	}
	if c.MasterSeed != 0 {
		rc.Seeds = make([]int64, rc.NumChains)
		for i := range rc.Seeds {
			rc.Seeds[i] = rng.DeriveSeed(c.MasterSeed, uint64(i))
		}
	}

	return rc
}

// YAML renders the configuration as a YAML document.
func (c Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}

	return buf.Bytes(), nil
}
