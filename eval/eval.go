// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eval turns a Composition plus a frame index into an
// EvaluatedGraph: the flat, painter-ordered list of clips visible at
// that frame, with every animated property sampled down to a concrete
// value. Nothing past this package ever looks at a Composition again;
// the compiler and fingerprinter only see EvaluatedGraph.
package eval

import (
	"sort"

	"wavyte.dev/wavyte/anim"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/internal/fnvhash"
	"wavyte.dev/wavyte/internal/werror"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

// EvaluatedGraph is the flat, painter-ordered scene for one frame.
type EvaluatedGraph struct {
	Frame foundation.FrameIndex
	Nodes []EvaluatedClipNode
}

// EvaluatedClipNode is one visible clip with every animated property
// sampled to a concrete value at the graph's frame.
type EvaluatedClipNode struct {
	ClipID  string
	Asset   string
	Z       int
	Affine  math32.Matrix2
	Opacity float64
	Blend   model.BlendMode

	Effects []ResolvedEffect

	TransitionIn  *ResolvedTransition
	TransitionOut *ResolvedTransition

	// SourceTimeS is the video source time this node's frame samples
	// from, set only when Asset resolves to a model.VideoAsset
	// (spec.md §3 EvaluatedClipNode: "optional source_time_s for
	// video").
	SourceTimeS *float64
}

// ResolvedEffect is an effect instance with its kind and opaque,
// already-canonical JSON params, ready for the compiler to parse.
type ResolvedEffect struct {
	Kind   string
	Params string
}

// ResolvedTransition is a transition window resolved to a concrete
// progress value in [0,1] at the graph's frame.
type ResolvedTransition struct {
	Kind     string
	Params   string
	Progress float64
}

// Evaluator evaluates frames of a single Composition.
type Evaluator struct {
	Comp model.Composition
}

// New returns an Evaluator over comp. comp should already be built
// through model.Builder (and therefore already Validate'd); EvalFrame
// still re-validates defensively since comp is a plain value callers
// could have mutated after Build.
func New(comp model.Composition) *Evaluator {
	return &Evaluator{Comp: comp}
}

// EvalFrame evaluates the composition at frame, returning every clip
// whose range contains frame, sorted into painter order: ascending z,
// then track index, then clip range start, then clip id (spec.md §4.2).
func (e *Evaluator) EvalFrame(frame foundation.FrameIndex) (EvaluatedGraph, error) {
	comp := &e.Comp
	if err := comp.Validate(); err != nil {
		return EvaluatedGraph{}, err
	}
	if frame >= comp.Duration {
		return EvaluatedGraph{}, werror.Evaluationf("eval: frame %d is out of bounds for duration %d", frame, comp.Duration)
	}

	type keyedNode struct {
		z          int
		trackIndex int
		rangeStart foundation.FrameIndex
		clipID     string
		node       EvaluatedClipNode
	}

	var keyed []keyedNode
	for trackIndex, track := range comp.Tracks {
		for _, clip := range track.Clips {
			if !clip.Range.Contains(frame) {
				continue
			}
			node, err := e.evalClip(comp, track, clip, frame)
			if err != nil {
				return EvaluatedGraph{}, err
			}
			keyed = append(keyed, keyedNode{
				z:          node.Z,
				trackIndex: trackIndex,
				rangeStart: clip.Range.Start,
				clipID:     clip.ID,
				node:       node,
			})
		}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i], keyed[j]
		if a.z != b.z {
			return a.z < b.z
		}
		if a.trackIndex != b.trackIndex {
			return a.trackIndex < b.trackIndex
		}
		if a.rangeStart != b.rangeStart {
			return a.rangeStart < b.rangeStart
		}
		return a.clipID < b.clipID
	})

	nodes := make([]EvaluatedClipNode, len(keyed))
	for i, k := range keyed {
		nodes[i] = k.node
	}
	return EvaluatedGraph{Frame: frame, Nodes: nodes}, nil
}

func (e *Evaluator) evalClip(comp *model.Composition, track model.Track, clip model.Clip, frame foundation.FrameIndex) (EvaluatedClipNode, error) {
	clipLocal := frame - clip.Range.Start
	seed := fnvhash.StableHash64(comp.Seed, clip.ID)
	ctx := anim.SampleCtx{Frame: frame, Fps: comp.Fps, ClipLocal: clipLocal, Seed: seed}

	opacityVal, err := clip.Props.Opacity.Sample(ctx)
	if err != nil {
		return EvaluatedClipNode{}, werror.Wrap(werror.Evaluation, err)
	}
	opacity := float64(opacityVal)
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}

	transformVal, err := clip.Props.Transform.Sample(ctx)
	if err != nil {
		return EvaluatedClipNode{}, werror.Wrap(werror.Evaluation, err)
	}

	effects := make([]ResolvedEffect, 0, len(clip.Effects))
	for _, fx := range clip.Effects {
		if trimEmpty(fx.Kind) {
			return EvaluatedClipNode{}, werror.Evaluationf("eval: clip %q has an effect with an empty kind", clip.ID)
		}
		effects = append(effects, ResolvedEffect{Kind: fx.Kind, Params: fx.Params})
	}

	clipLen := clip.Range.Len()
	var transitionIn, transitionOut *ResolvedTransition
	if clip.TransitionIn != nil {
		transitionIn = resolveTransitionWindow(clip.TransitionIn, frame, clip.Range, clip.Range.Start, edgeIn, clipLen)
	}
	if clip.TransitionOut != nil {
		transitionOut = resolveTransitionWindow(clip.TransitionOut, frame, clip.Range, clip.Range.End, edgeOut, clipLen)
	}

	var sourceTimeS *float64
	if video, ok := comp.Assets[clip.Asset].(model.VideoAsset); ok {
		t := videoSourceTimeS(video, float64(clipLocal), comp.Fps.Float64())
		sourceTimeS = &t
	}

	return EvaluatedClipNode{
		ClipID:        clip.ID,
		Asset:         clip.Asset,
		Z:             track.ZBase + clip.ZOffset,
		Affine:        transformVal.Affine(),
		Opacity:       opacity,
		Blend:         clip.Props.Blend,
		Effects:       effects,
		TransitionIn:  transitionIn,
		TransitionOut: transitionOut,
		SourceTimeS:   sourceTimeS,
	}, nil
}

// videoSourceTimeS maps a clip-local frame to the video asset's source
// time in seconds: trim_start plus elapsed clip-local seconds scaled
// by playback_rate, clamped to [trim_start, trim_end] (spec.md §4.8's
// source_start_sec formula, reused here per-frame for video paint).
func videoSourceTimeS(video model.VideoAsset, clipLocalFrame, fps float64) float64 {
	if fps <= 0 {
		fps = 1
	}
	localSec := clipLocalFrame / fps
	t := video.TrimStartSec + localSec*video.PlaybackRate
	if t < video.TrimStartSec {
		t = video.TrimStartSec
	}
	if video.TrimEndSec != nil && t > *video.TrimEndSec {
		t = *video.TrimEndSec
	}
	return t
}

type transitionEdge int

const (
	edgeIn transitionEdge = iota
	edgeOut
)

// resolveTransitionWindow computes the transition's active window and,
// if frame falls inside it, its eased progress in [0,1]. Returns nil if
// the transition has zero duration, the clip itself has zero length, or
// frame is outside the window. Mirrors resolve_transition_window from
// the original engine.
func resolveTransitionWindow(spec *model.TransitionSpec, frame foundation.FrameIndex, clipRange foundation.FrameRange, edgeFrame foundation.FrameIndex, edge transitionEdge, clipLen int) *ResolvedTransition {
	if spec.DurationFrames == 0 || clipLen == 0 {
		return nil
	}

	dur := spec.DurationFrames
	if dur > foundation.FrameIndex(clipLen) {
		dur = foundation.FrameIndex(clipLen)
	}

	var windowStart, windowEndExcl foundation.FrameIndex
	switch edge {
	case edgeIn:
		windowStart = edgeFrame
		windowEndExcl = windowStart + dur
	default: // edgeOut
		windowEndExcl = edgeFrame
		if dur > windowEndExcl {
			windowStart = 0
		} else {
			windowStart = windowEndExcl - dur
		}
	}

	if frame < windowStart || frame >= windowEndExcl {
		return nil
	}

	offset := frame - windowStart
	var denom foundation.FrameIndex
	if dur > 0 {
		denom = dur - 1
	}

	var t float64
	if denom == 0 {
		t = 1.0
	} else {
		t = float64(offset) / float64(denom)
	}

	progress := spec.Ease.Apply(t)
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}

	return &ResolvedTransition{Kind: spec.Kind, Params: spec.Params, Progress: progress}
}

func trimEmpty(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' {
			return false
		}
	}
	return true
}
