// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package anim

import (
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/internal/werror"
)

// LoopMode selects how Loop wraps its inner animation's clip-local
// frame once a period is exceeded.
type LoopMode int

const (
	Repeat LoopMode = iota
	PingPong
)

// Delay shifts the inner animation's clip-local frame later by by
// frames; before that, it samples the inner animation at frame 0.
type Delay[T Interpolator[T]] struct {
	Inner Anim[T]
	By    foundation.FrameIndex
}

func (d *Delay[T]) Sample(ctx SampleCtx) (T, error) {
	f := ctx.ClipLocal
	var mapped foundation.FrameIndex
	if f < d.By {
		mapped = 0
	} else {
		mapped = f - d.By
	}
	return d.Inner.Sample(withClipLocal(ctx, mapped))
}

// Speed maps the inner animation's clip-local frame by factor (>0);
// factor > 1 plays faster, factor < 1 plays slower.
type Speed[T Interpolator[T]] struct {
	Inner  Anim[T]
	Factor float64
}

func (s *Speed[T]) Sample(ctx SampleCtx) (T, error) {
	var zero T
	if s.Factor <= 0 {
		return zero, werror.Validationf("speed: factor must be > 0")
	}
	f := float64(ctx.ClipLocal) * s.Factor
	if f < 0 {
		f = 0
	}
	mapped := foundation.FrameIndex(f)
	return s.Inner.Sample(withClipLocal(ctx, mapped))
}

// Reverse plays the inner animation backwards over duration frames.
type Reverse[T Interpolator[T]] struct {
	Inner    Anim[T]
	Duration foundation.FrameIndex
}

func (r *Reverse[T]) Sample(ctx SampleCtx) (T, error) {
	var zero T
	if r.Duration == 0 {
		return zero, werror.Validationf("reverse: duration must be > 0")
	}
	max := r.Duration - 1
	f := ctx.ClipLocal
	if f > max {
		f = max
	}
	mapped := max - f
	return r.Inner.Sample(withClipLocal(ctx, mapped))
}

// Loop repeats or ping-pongs the inner animation every period frames.
type Loop[T Interpolator[T]] struct {
	Inner  Anim[T]
	Period foundation.FrameIndex
	Mode   LoopMode
}

func (l *Loop[T]) Sample(ctx SampleCtx) (T, error) {
	var zero T
	if l.Period == 0 {
		return zero, werror.Validationf("loop: period must be > 0")
	}
	f := ctx.ClipLocal
	var mapped foundation.FrameIndex
	switch l.Mode {
	case PingPong:
		if l.Period == 1 {
			mapped = 0
		} else {
			cycle := 2 * (l.Period - 1)
			pos := f % cycle
			if pos < l.Period {
				mapped = pos
			} else {
				mapped = cycle - pos
			}
		}
	default: // Repeat
		mapped = f % l.Period
	}
	return l.Inner.Sample(withClipLocal(ctx, mapped))
}

// Mix blends A and B by a time-varying weight T (itself an Anim[Scalar]),
// clamped to [0,1].
type Mix[T Interpolator[T]] struct {
	A, B Anim[T]
	T    Anim[Scalar]
}

func (m *Mix[T]) Sample(ctx SampleCtx) (T, error) {
	var zero T
	tt, err := m.T.Sample(ctx)
	if err != nil {
		return zero, err
	}
	t := float64(tt)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	av, err := m.A.Sample(ctx)
	if err != nil {
		return zero, err
	}
	bv, err := m.B.Sample(ctx)
	if err != nil {
		return zero, err
	}
	return av.Lerp(bv, t), nil
}

// Scalar is a float32 wrapped to satisfy Interpolator, used for plain
// numeric animated properties (e.g. opacity).
type Scalar float32

func (s Scalar) Lerp(o Scalar, t float64) Scalar {
	return Scalar(float64(s) + (float64(o)-float64(s))*t)
}
