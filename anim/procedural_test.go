// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcSineOscillatesAroundOffset(t *testing.T) {
	p := ProcScalar{Kind: ProcSine, Amp: 2, FreqHz: 1, Offset: 5}
	v, err := p.Sample(ctxAt(0))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, float64(v), 1e-9)
}

func TestProcNoise1DIsDeterministic(t *testing.T) {
	p := ProcScalar{Kind: ProcNoise1D, Amp: 1, FreqHz: 2}
	v1, err := p.Sample(ctxAt(7))
	require.NoError(t, err)
	v2, err := p.Sample(ctxAt(7))
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestProcNoise1DDiffersAcrossSeeds(t *testing.T) {
	p := ProcScalar{Kind: ProcNoise1D, Amp: 1, FreqHz: 2}
	ctxA := ctxAt(7)
	ctxB := ctxAt(7)
	ctxB.Seed = ctxA.Seed + 1
	va, err := p.Sample(ctxA)
	require.NoError(t, err)
	vb, err := p.Sample(ctxB)
	require.NoError(t, err)
	assert.NotEqual(t, va, vb)
}

func TestProcEnvelopeRampsAttackDecayRelease(t *testing.T) {
	p := ProcScalar{Kind: ProcEnvelope, Attack: 10, Decay: 10, Release: 10, Sustain: 0.5}

	v, err := p.Sample(ctxAt(0))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, float64(v), 1e-9)

	v, err = p.Sample(ctxAt(5))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, float64(v), 1e-9)

	v, err = p.Sample(ctxAt(10))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, float64(v), 1e-9)

	v, err = p.Sample(ctxAt(15))
	require.NoError(t, err)
	assert.InDelta(t, 0.75, float64(v), 1e-9)

	v, err = p.Sample(ctxAt(35))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, float64(v), 1e-9)
}

func TestProcSpringIsNotImplemented(t *testing.T) {
	p := ProcScalar{Kind: ProcSpring}
	_, err := p.Sample(ctxAt(0))
	assert.Error(t, err)
}

func TestProcVec2CombinesXAndY(t *testing.T) {
	p := ProcVec2{
		X: ProcScalar{Kind: ProcSine, Amp: 0, Offset: 1},
		Y: ProcScalar{Kind: ProcSine, Amp: 0, Offset: 2},
	}
	v, err := p.Sample(ctxAt(0))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, float64(v.X), 1e-9)
	assert.InDelta(t, 2.0, float64(v.Y), 1e-9)
}
