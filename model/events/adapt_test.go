// SPDX-License-Identifier: MIT

package events

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/chronosim/mcmc"
	"github.com/katalvlaran/chronosim/rng"
)

func newAdaptModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(Study{End: 100, Events: []Measurement{
		{Name: "low", Mean: 50, SD: 2},
		{Name: "high", Mean: 50, SD: 2},
		{Name: "fine", Mean: 50, SD: 2},
	}})
	require.NoError(t, err)
	cc := mcmc.ChainContext{Rand: rng.New(7), Config: mcmc.DefaultRunConfiguration()}
	m.InitVariablesForChain(cc)
	m.InitMCMC(cc)

	return m
}

func TestAdapt_MovesSigmaTowardsBand(t *testing.T) {
	m := newAdaptModel(t)
	set := func(acc ...int) {
		for i, a := range acc {
			m.state[i].tried, m.state[i].accepted = 100, a
		}
	}

	set(10, 90, 44)
	assert.False(t, m.Adapt(1))
	assert.InDelta(t, math.Log(2)-0.01, m.state[0].logSigma, 1e-12, "too few accepted: shrink")
	assert.InDelta(t, math.Log(2)+0.01, m.state[1].logSigma, 1e-12, "too many accepted: widen")
	assert.InDelta(t, math.Log(2), m.state[2].logSigma, 1e-12)
	for _, st := range m.state {
		assert.Zero(t, st.tried, "counters reset after each batch")
	}

	set(41, 47, 44)
	assert.True(t, m.Adapt(2), "band edges are inside")
}

func TestAdapt_DeltaShrinksWithBatch(t *testing.T) {
	m := newAdaptModel(t)
	m.state[0].tried, m.state[0].accepted = 10, 0
	before := m.state[0].logSigma
	m.Adapt(1e6)
	assert.InDelta(t, before-0.001, m.state[0].logSigma, 1e-12)
}

func TestAdapt_NoProposalsCountsAsInBand(t *testing.T) {
	m := newAdaptModel(t)
	assert.True(t, m.Adapt(1))
	assert.InDelta(t, 2.0, math.Exp(m.state[0].logSigma), 1e-12)
}
