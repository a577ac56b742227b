// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model holds the immutable composition data model: the
// timeline of tracks and clips, the animated clip properties, and the
// asset variants they reference. A Composition is assembled through
// Builder, which runs Validate before handing back an immutable value;
// nothing downstream (evaluator, compiler, session) ever mutates one.
package model

import (
	"wavyte.dev/wavyte/anim"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/math32"
)

// BlendMode selects how a layer composites onto what is beneath it.
// Normal is a plain Porter-Duff source-over; every other mode computes
// its blend function on unpremultiplied color before recombining
// under alpha (spec.md §4.5's Over composite op).
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendDarken
	BlendLighten
	BlendOverlay
	BlendDifference
)

func (b BlendMode) String() string {
	switch b {
	case BlendNormal:
		return "normal"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	case BlendDarken:
		return "darken"
	case BlendLighten:
		return "lighten"
	case BlendOverlay:
		return "overlay"
	case BlendDifference:
		return "difference"
	default:
		return "unknown"
	}
}

// Composition is the immutable input to the evaluator and compiler: a
// fixed canvas and frame rate, a total duration in frames, a
// deterministic seed, an ordered asset map, and an ordered sequence of
// tracks. Build one through Builder; do not construct directly in
// production code paths, since only Builder runs Validate.
type Composition struct {
	Fps      foundation.Fps
	Canvas   foundation.Canvas
	Duration foundation.FrameIndex
	Seed     uint64

	// AssetKeys preserves declaration order; Assets is keyed by the same
	// strings. Keeping the order separate from the map (which has none)
	// is what lets PreparedAssetStore iterate assets deterministically.
	AssetKeys []string
	Assets    map[string]Asset

	Tracks []Track
}

// Track is an ordered sequence of clips sharing a z-base offset.
type Track struct {
	Name  string
	ZBase int
	Clips []Clip
}

// Clip places one asset on the timeline.
type Clip struct {
	ID    string
	Asset string
	Range foundation.FrameRange
	Props ClipProps

	ZOffset int
	Effects []EffectInstance

	TransitionIn  *TransitionSpec
	TransitionOut *TransitionSpec
}

// ClipProps is the animated, per-clip rendering state.
type ClipProps struct {
	Transform anim.Anim[math32.Transform2D]
	Opacity   anim.Anim[anim.Scalar]
	Blend     BlendMode
}

// EffectInstance is an opaque effect reference resolved by the
// compiler; Params is pre-canonicalized JSON (sorted object keys) so
// the fingerprinter and the effect-parse memo can hash it directly.
type EffectInstance struct {
	Kind   string
	Params string
}

// TransitionSpec describes one clip-boundary transition. Params is
// pre-canonicalized JSON (sorted object keys), same convention as
// EffectInstance.Params; the compiler reads kind-specific fields out of
// it (e.g. wipe's "dir"/"soft_edge").
type TransitionSpec struct {
	Kind           string
	Params         string
	DurationFrames foundation.FrameIndex
	Ease           anim.Ease
}

// Validate checks DurationFrames > 0 and a non-empty Kind.
func (t TransitionSpec) Validate() error {
	if trimEmpty(t.Kind) {
		return validationf("transition: kind must be non-empty")
	}
	if t.DurationFrames == 0 {
		return validationf("transition: duration_frames must be > 0")
	}
	return nil
}

func trimEmpty(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' {
			return false
		}
	}
	return true
}
