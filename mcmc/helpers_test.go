// SPDX-License-Identifier: MIT

package mcmc_test

import (
	"context"
	"sync"

	"github.com/katalvlaran/chronosim/mcmc"
)

// scenario is the small configuration most scheduler tests run with:
// 100 burn + 5x50 adapt + 200 acquire = 550 iterations per chain.
func scenario() mcmc.RunConfiguration {
	return mcmc.RunConfiguration{
		NumChains:        2,
		NumBurnIter:      100,
		MaxBatches:       5,
		NumBatchIter:     50,
		NumRunIter:       200,
		ThinningInterval: 4,
		MixingLevel:      0.1,
	}
}

// stubModel records every hook call. Hooks may be customized per test.
type stubModel struct {
	mu sync.Mutex

	calibrations int
	initVars     []mcmc.ChainContext
	initMCMC     []mcmc.ChainContext
	updates      map[int]map[mcmc.RunPhase]int // chain -> phase -> count
	kept         map[int]int
	adaptCalls   []int
	finalized    [][]mcmc.ChainState
	draws        map[int][]float64

	convergeAt int                  // Adapt returns true when batch == convergeAt
	onUpdate   func(step mcmc.Step) // optional
	calibrate  func(ctx context.Context) string
}

var _ mcmc.Model = (*stubModel)(nil)

func newStubModel() *stubModel {
	return &stubModel{
		updates: make(map[int]map[mcmc.RunPhase]int),
		kept:    make(map[int]int),
		draws:   make(map[int][]float64),
	}
}

func (m *stubModel) Calibrate(ctx context.Context) string {
	m.mu.Lock()
	m.calibrations++
	m.mu.Unlock()
	if m.calibrate != nil {
		return m.calibrate(ctx)
	}

	return "stub calibrated"
}

func (m *stubModel) InitVariablesForChain(c mcmc.ChainContext) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initVars = append(m.initVars, c)
}

func (m *stubModel) InitMCMC(c mcmc.ChainContext) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initMCMC = append(m.initMCMC, c)
	m.draws[c.Index] = append(m.draws[c.Index], c.Rand.Uniform())
}

func (m *stubModel) Update(step mcmc.Step) {
	m.mu.Lock()
	perPhase, ok := m.updates[step.Chain]
	if !ok {
		perPhase = make(map[mcmc.RunPhase]int)
		m.updates[step.Chain] = perPhase
	}
	perPhase[step.Phase]++
	if step.Keep() {
		m.kept[step.Chain]++
	}
	m.mu.Unlock()

	if m.onUpdate != nil {
		m.onUpdate(step)
	}
}

func (m *stubModel) Adapt(batch int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adaptCalls = append(m.adaptCalls, batch)

	return m.convergeAt > 0 && batch == m.convergeAt
}

func (m *stubModel) Finalize(chains []mcmc.ChainState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finalized = append(m.finalized, chains)
}

func (m *stubModel) total(chain int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.updates[chain] {
		n += v
	}

	return n
}

// recordingReporter keeps every event in order.
type recordingReporter struct {
	mu     sync.Mutex
	events []mcmc.Event
}

func (r *recordingReporter) PhaseChanged(label string, min, max int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, mcmc.Event{Kind: mcmc.EventPhase, Label: label, Min: min, Max: max})
}

func (r *recordingReporter) Progress(value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, mcmc.Event{Kind: mcmc.EventProgress, Value: value})
}

func (r *recordingReporter) labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Kind == mcmc.EventPhase {
			out = append(out, e.Label)
		}
	}

	return out
}
