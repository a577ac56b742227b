// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package anim implements the Anim[T] sum type: an animated property is
// one of Constant (a single-key Keyframes), Keyframes, Procedural, or
// Expr (a reference into a precompiled expression program, sampled
// through the Sampler contract — the expression VM itself is an
// external collaborator per spec.md §1). Expr-composition ops
// (Delay/Speed/Reverse/Loop/PingPong/Mix) wrap an inner Anim[T].
// Sampling is the pure function (SampleCtx) -> T design note in
// spec.md §9; clamping and range checks happen outside the sampler.
package anim

import (
	"wavyte.dev/wavyte/foundation"
)

// Interpolator is the constraint every Anim[T] value type must satisfy
// so Keyframes and Mix can blend between two values.
type Interpolator[T any] interface {
	Lerp(o T, t float64) T
}

// SampleCtx carries everything a sampler needs to produce a
// deterministic value: the global frame, the composition fps, the
// clip-local frame (frame - clip.range.Start), and a per-clip
// deterministic seed (FNV1a64(composition.seed, clip.id)).
type SampleCtx struct {
	Frame     foundation.FrameIndex
	Fps       foundation.Fps
	ClipLocal foundation.FrameIndex
	Seed      uint64
}

// withClipLocal returns a copy of ctx with ClipLocal remapped and Frame
// shifted by the same delta, matching the original engine's
// with_clip_local helper used by every Expr composition op.
func withClipLocal(ctx SampleCtx, clipLocal foundation.FrameIndex) SampleCtx {
	delta := int64(clipLocal) - int64(ctx.ClipLocal)
	nf := int64(ctx.Frame) + delta
	if nf < 0 {
		nf = 0
	}
	ctx.Frame = foundation.FrameIndex(nf)
	ctx.ClipLocal = clipLocal
	return ctx
}

// Anim is an animated property value sampled at a frame.
type Anim[T Interpolator[T]] interface {
	Sample(ctx SampleCtx) (T, error)
}

// Constant returns an Anim that always samples to value.
func Constant[T Interpolator[T]](value T) Anim[T] {
	return &Keyframes[T]{
		Keys: []Keyframe[T]{{Frame: 0, Value: value, Ease: Linear}},
		Mode: Hold,
	}
}
