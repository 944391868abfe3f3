// SPDX-License-Identifier: MIT

package events

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/chronosim/mcmc"
	"github.com/katalvlaran/chronosim/rng"
)

// Adaptation target band for the random-walk acceptance rate.
const (
	AcceptLow  = 0.41
	AcceptHigh = 0.47
)

// DefaultBins is the number of histogram bins per event.
const DefaultBins = 20

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSpline sets the minimum knot step and the smoothing parameter of the
// posterior curve.
func WithSpline(minStep, alpha float64) Option {
	return func(m *Model) {
		m.minStep, m.alpha = minStep, alpha
	}
}

// WithBins sets the histogram bin count; values below 1 are ignored.
func WithBins(n int) Option {
	return func(m *Model) {
		if n >= 1 {
			m.bins = n
		}
	}
}

// eventState is the sampler state of one event in the current chain.
type eventState struct {
	theta    float64
	logSigma float64
	like     distuv.Normal
	tried    int // random-walk proposals in the current batch
	accepted int
}

// Model implements mcmc.Model for a Study.
type Model struct {
	study  Study
	logger *slog.Logger

	minStep float64
	alpha   float64
	bins    int

	// Touched only by the scheduler worker.
	rand   *rng.Source
	mixing float64
	state  []eventState
	traces [][]float64 // per event, pooled over chains

	mu     sync.RWMutex
	result *Result
}

var _ mcmc.Model = (*Model)(nil)

// New returns a model for a validated study.
func New(study Study, opts ...Option) (*Model, error) {
	if err := study.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		study:   study,
		logger:  slog.Default(),
		minStep: 1,
		alpha:   1,
		bins:    DefaultBins,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Calibrate resets the pooled traces and describes the study.
func (m *Model) Calibrate(ctx context.Context) string {
	m.traces = make([][]float64, len(m.study.Events))
	m.mu.Lock()
	m.result = nil
	m.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Study period [%g, %g], %d events", m.study.Start, m.study.End, len(m.study.Events))
	for _, e := range m.study.Events {
		if !m.study.contains(e.Mean) {
			fmt.Fprintf(&b, "\nEvent %s: measurement %g lies outside the study period", e.Name, e.Mean)
			m.logger.WarnContext(ctx, "events: measurement outside study period",
				slog.String("event", e.Name),
				slog.Float64("mean", e.Mean),
			)
		}
	}

	return b.String()
}

// InitVariablesForChain draws a starting date per event from its
// measurement, clamped into the study period.
func (m *Model) InitVariablesForChain(c mcmc.ChainContext) {
	m.rand = c.Rand
	m.mixing = c.Config.MixingLevel
	m.state = make([]eventState, len(m.study.Events))
	for i, e := range m.study.Events {
		m.state[i] = eventState{
			theta: m.study.clamp(c.Rand.Normal(e.Mean, e.SD)),
			like:  distuv.Normal{Mu: e.Mean, Sigma: e.SD},
		}
	}
}

// InitMCMC sets every proposal width to the measurement error.
func (m *Model) InitMCMC(c mcmc.ChainContext) {
	for i, e := range m.study.Events {
		m.state[i].logSigma = math.Log(e.SD)
		m.state[i].tried, m.state[i].accepted = 0, 0
	}
	m.logger.Debug("events: chain initialized", slog.Int("chain", c.Index), slog.Int64("seed", c.Seed))
}

// Update performs one Metropolis-Hastings step per event.
func (m *Model) Update(s mcmc.Step) {
	for i := range m.state {
		st := &m.state[i]
		if m.rand.Uniform() < m.mixing {
			st.tried++
			if m.randomWalk(st) {
				st.accepted++
			}
		} else {
			m.independent(st)
		}
		if s.Keep() {
			m.traces[i] = append(m.traces[i], st.theta)
		}
	}
}

// randomWalk proposes θ' ~ N(θ, σ). The proposal is symmetric, so the
// ratio is the posterior ratio.
func (m *Model) randomWalk(st *eventState) bool {
	cand := m.rand.Normal(st.theta, math.Exp(st.logSigma))
	if !m.study.contains(cand) {
		return false
	}
	logRatio := st.like.LogProb(cand) - st.like.LogProb(st.theta)

	return m.accept(st, cand, logRatio)
}

// independent proposes θ' from the measurement density. Likelihood and
// proposal cancel, leaving the prior ratio.
func (m *Model) independent(st *eventState) bool {
	cand := m.rand.Normal(st.like.Mu, st.like.Sigma)
	if !m.study.contains(cand) {
		return false
	}

	return m.accept(st, cand, 0)
}

func (m *Model) accept(st *eventState, cand, logRatio float64) bool {
	if logRatio >= 0 || math.Log(m.rand.Uniform()) < logRatio {
		st.theta = cand
		return true
	}

	return false
}

// Adapt moves each log σ towards the target band and reports whether every
// event was inside it for the batch just completed.
func (m *Model) Adapt(batch int) bool {
	delta := min(0.01, 1/math.Sqrt(float64(max(batch, 1))))
	converged := true
	for i := range m.state {
		st := &m.state[i]
		if st.tried > 0 {
			rate := float64(st.accepted) / float64(st.tried)
			switch {
			case rate < AcceptLow:
				st.logSigma -= delta
				converged = false
			case rate > AcceptHigh:
				st.logSigma += delta
				converged = false
			}
		}
		st.tried, st.accepted = 0, 0
	}

	return converged
}

// Finalize builds the posterior summary from the pooled traces.
func (m *Model) Finalize(chains []mcmc.ChainState) {
	converged := 0
	for _, c := range chains {
		if c.AdaptConverged {
			converged++
		}
	}
	res := summarize(m.study, m.traces, m.bins)
	res.Chains = len(chains)
	res.ConvergedChains = converged

	if err := res.fitCurve(m.minStep, m.alpha); err != nil {
		res.CurveErr = err
		m.logger.Warn("events: posterior curve skipped", slog.String("error", err.Error()))
	}

	m.mu.Lock()
	m.result = res
	m.mu.Unlock()
	m.logger.Info("events: posterior ready",
		slog.Int("events", len(res.Events)),
		slog.Int("converged_chains", converged),
	)
}

// Result returns the posterior summary of the last finalized run.
func (m *Model) Result() (*Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.result == nil {
		return nil, ErrNoResult
	}

	return m.result, nil
}
