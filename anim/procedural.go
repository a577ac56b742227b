// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package anim

import (
	"math"

	"wavyte.dev/wavyte/base/randx"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/internal/werror"
	"wavyte.dev/wavyte/math32"
)

// ProcKind selects the closed-form function a ProcScalar evaluates.
// Stateless by construction: every variant is a pure function of
// (frame, fps, seed), matching spec.md §9's procedural design note.
type ProcKind int

const (
	ProcSine ProcKind = iota
	ProcNoise1D
	ProcEnvelope
	ProcSpring
)

// ProcScalar is one stateless scalar procedural generator.
type ProcScalar struct {
	Kind ProcKind

	// Sine
	Amp, FreqHz, Phase, Offset float64

	// Noise1D (reuses Sine's Amp/FreqHz/Offset fields)

	// Envelope, all in frames, plus Sustain level in [0,1]
	Attack, Decay, Release foundation.FrameIndex
	Sustain                float64

	// Spring (deliberately unimplemented, see DESIGN.md)
	Stiffness, Damping, Target float64
}

// Sample evaluates the scalar procedural generator at ctx.
func (p ProcScalar) Sample(ctx SampleCtx) (Scalar, error) {
	t := float64(ctx.ClipLocal) / ctx.Fps.Float64()
	switch p.Kind {
	case ProcSine:
		v := p.Offset + p.Amp*math.Sin(2*math.Pi*p.FreqHz*t+p.Phase)
		return Scalar(v), nil
	case ProcNoise1D:
		return Scalar(p.Offset + p.Amp*seededNoise(ctx.Seed, p.FreqHz, t)), nil
	case ProcEnvelope:
		return Scalar(p.sampleEnvelope(ctx)), nil
	case ProcSpring:
		return 0, werror.Evaluationf("procedural: spring sampling is not implemented")
	default:
		return 0, werror.Validationf("procedural: unknown kind")
	}
}

func (p ProcScalar) sampleEnvelope(ctx SampleCtx) float64 {
	f := uint64(ctx.ClipLocal)
	a, d, r := uint64(p.Attack), uint64(p.Decay), uint64(p.Release)
	switch {
	case f < a:
		if a == 0 {
			return 1
		}
		return float64(f) / float64(a)
	case f < a+d:
		if d == 0 {
			return p.Sustain
		}
		frac := float64(f-a) / float64(d)
		return 1 + (p.Sustain-1)*frac
	case f < a+d+r:
		// sustain phase folds into release start in this closed-form
		// model: release ramps from Sustain to 0 starting right after
		// attack+decay, since there is no note-off event in a pure
		// frame->value function.
		if r == 0 {
			return 0
		}
		frac := float64(f-a-d) / float64(r)
		return p.Sustain * (1 - frac)
	default:
		return 0
	}
}

// seededNoise produces deterministic, bounded pseudo-noise in [-1,1]
// for a given (seed, frequency, time), by reseeding a fresh Rand per
// integer "noise cell" and interpolating — deterministic and
// side-effect free across calls, unlike a long-lived stateful RNG.
func seededNoise(seed uint64, freqHz, t float64) float64 {
	pos := freqHz * t
	cell := math.Floor(pos)
	frac := pos - cell

	n0 := noiseAt(seed, int64(cell))
	n1 := noiseAt(seed, int64(cell)+1)
	// smoothstep interpolation between the two cell values
	s := frac * frac * (3 - 2*frac)
	return n0 + (n1-n0)*s
}

func noiseAt(seed uint64, cell int64) float64 {
	r := randx.NewSysRand(int64(seed ^ (uint64(cell) * 0x9E3779B97F4A7C15)))
	return r.Float64()*2 - 1
}

// ProcVec2 combines two independent ProcScalar generators for X and Y,
// matching the original engine's ProceduralKind::Vec2 variant.
type ProcVec2 struct {
	X, Y ProcScalar
}

func (p ProcVec2) Sample(ctx SampleCtx) (math32.Vector2, error) {
	x, err := p.X.Sample(ctx)
	if err != nil {
		return math32.Vector2{}, err
	}
	y, err := p.Y.Sample(ctx)
	if err != nil {
		return math32.Vector2{}, err
	}
	return math32.Vec2(float32(x), float32(y)), nil
}
