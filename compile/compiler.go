// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/eval"
	"wavyte.dev/wavyte/internal/werror"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

// compositePairTolerance is the progress-difference tolerance the
// composite pairing rule allows between an out-transition and the
// following in-transition before they pair into a single crossfade or
// wipe op (spec.md §4.3).
const compositePairTolerance = 0.05

// layer is one compiled node's terminal surface plus its resolved
// transition windows, used only during composite-pass assembly.
type layer struct {
	surface SurfaceID
	blend   model.BlendMode

	transitionIn  *ParsedTransition
	inProgress    float64
	transitionOut *ParsedTransition
	outProgress   float64
}

// memo is a two-level parse cache keyed by (kind, canonical params):
// the original engine hashes this key for collision-safety; a plain Go
// map key serves the same purpose without needing a collision bucket
// (see DESIGN.md).
type memo struct {
	effects     map[string]Effect
	transitions map[string]ParsedTransition
}

func newMemo() *memo {
	return &memo{effects: map[string]Effect{}, transitions: map[string]ParsedTransition{}}
}

func (m *memo) parseEffect(inst model.EffectInstance) (Effect, error) {
	key := inst.Kind + "\x00" + inst.Params
	if e, ok := m.effects[key]; ok {
		return e, nil
	}
	e, err := ParseEffect(inst)
	if err != nil {
		return Effect{}, err
	}
	m.effects[key] = e
	return e, nil
}

func (m *memo) parseTransition(kind, params string) (ParsedTransition, error) {
	key := kind + "\x00" + params
	if t, ok := m.transitions[key]; ok {
		return t, nil
	}
	t, err := ParseTransition(kind, params)
	if err != nil {
		return ParsedTransition{}, err
	}
	m.transitions[key] = t
	return t, nil
}

// Compile turns one EvaluatedGraph into a RenderPlan. comp supplies the
// asset map (for Kind dispatch and, for Path assets, inline geometry);
// no decoded asset bytes are needed at compile time (spec.md §4.3 is
// pure in (Composition, EvaluatedGraph) — the PreparedAssetStore
// argument in the original signature only matters at execute time, so
// Compile does not take one — see DESIGN.md).
func Compile(comp *model.Composition, g eval.EvaluatedGraph) (*RenderPlan, error) {
	plan := &RenderPlan{Canvas: comp.Canvas}
	plan.NewSurface(comp.Canvas.Width, comp.Canvas.Height) // surface 0: the canvas

	m := newMemo()
	var layers []layer

	for _, node := range g.Nodes {
		asset, ok := comp.Assets[node.Asset]
		if !ok {
			return nil, werror.Evaluationf("compile: clip %q references missing asset key %q", node.ClipID, node.Asset)
		}
		if asset.Kind() == model.AssetAudio {
			continue // audio-only nodes have no visual surface
		}

		effects := make([]Effect, 0, len(node.Effects))
		for _, fx := range node.Effects {
			parsed, err := m.parseEffect(model.EffectInstance{Kind: fx.Kind, Params: fx.Params})
			if err != nil {
				return nil, err
			}
			effects = append(effects, parsed)
		}
		pipeline := NormalizeEffects(effects)

		opacity := node.Opacity * pipeline.Inline.OpacityMul
		if opacity < 0 {
			opacity = 0
		} else if opacity > 1 {
			opacity = 1
		}
		if opacity <= 0 {
			continue
		}

		transform := node.Affine.Mul(pipeline.Inline.Transform)
		blend := node.Blend
		if pipeline.Inline.HasBlend {
			blend = pipeline.Inline.Blend
		}

		op, err := buildDrawOp(asset, node, transform, opacity, blend)
		if err != nil {
			return nil, err
		}

		target := plan.NewSurface(comp.Canvas.Width, comp.Canvas.Height)
		plan.Passes = append(plan.Passes, Pass{
			Kind: PassScene, Target: target, Ops: []DrawOp{op}, ClearToTransparent: true,
		})

		current := target
		for _, passFx := range pipeline.Passes {
			next := plan.NewSurface(comp.Canvas.Width, comp.Canvas.Height)
			plan.Passes = append(plan.Passes, Pass{Kind: PassOffscreen, Input: current, Output: next, Fx: passFx})
			current = next
		}

		l := layer{surface: current, blend: blend}
		if node.TransitionIn != nil {
			parsed, err := m.parseTransition(node.TransitionIn.Kind, node.TransitionIn.Params)
			if err != nil {
				return nil, err
			}
			l.transitionIn = &parsed
			l.inProgress = node.TransitionIn.Progress
		}
		if node.TransitionOut != nil {
			parsed, err := m.parseTransition(node.TransitionOut.Kind, node.TransitionOut.Params)
			if err != nil {
				return nil, err
			}
			l.transitionOut = &parsed
			l.outProgress = node.TransitionOut.Progress
		}
		layers = append(layers, l)
	}

	plan.Passes = append(plan.Passes, Pass{Kind: PassComposite, Target: 0, CompositeOps: compositeOpsFor(layers)})
	plan.FinalSurface = 0
	return plan, nil
}

// compositeOpsFor implements the v0.2 composite pairing rule: adjacent
// layers whose out/in transitions match (same kind, and for Wipe,
// identical direction/soft_edge) pair into one Crossfade or Wipe op;
// everything else emits an unpaired Over with opacity
// in.progress * (1 - out.progress) (spec.md §4.3). Only Crossfade and
// Wipe ever pair — Slide/Zoom/Iris transitions, not named by the
// pairing rule, always fall through to the unpaired path.
func compositeOpsFor(layers []layer) []CompositeOp {
	var ops []CompositeOp
	i := 0
	for i < len(layers) {
		if i+1 < len(layers) && pairable(layers[i], layers[i+1]) {
			a, b := layers[i], layers[i+1]
			switch a.transitionOut.Kind {
			case TransitionCrossfade:
				ops = append(ops, CompositeOp{Kind: CompositeCrossfade, A: a.surface, B: b.surface, T: b.inProgress})
			case TransitionWipe:
				ops = append(ops, CompositeOp{
					Kind: CompositeWipe, A: a.surface, B: b.surface, T: b.inProgress,
					Dir: a.transitionOut.Dir, SoftEdge: a.transitionOut.SoftEdge,
				})
			}
			i += 2
			continue
		}

		l := layers[i]
		opacity := 1.0
		if l.transitionIn != nil {
			opacity *= l.inProgress
		}
		if l.transitionOut != nil {
			opacity *= 1 - l.outProgress
		}
		if opacity > 0 {
			ops = append(ops, CompositeOp{Kind: CompositeOver, Src: l.surface, Opacity: opacity, Blend: l.blend})
		}
		i++
	}
	return ops
}

func pairable(a, b layer) bool {
	if a.transitionOut == nil || b.transitionIn == nil {
		return false
	}
	if a.transitionOut.Kind != TransitionCrossfade && a.transitionOut.Kind != TransitionWipe {
		return false
	}
	if !transitionsMatch(*a.transitionOut, *b.transitionIn) {
		return false
	}
	return abs(a.outProgress-b.inProgress) <= compositePairTolerance
}

func buildDrawOp(asset model.Asset, node eval.EvaluatedClipNode, transform math32.Matrix2, opacity float64, blend model.BlendMode) (DrawOp, error) {
	base := DrawOp{Transform: transform, Opacity: opacity, Blend: blend, Z: node.Z}

	switch a := asset.(type) {
	case model.PathAsset:
		path, err := math32.ParsePathD(a.SvgPathD)
		if err != nil {
			return DrawOp{}, werror.Wrap(werror.Evaluation, err)
		}
		base.Kind = DrawFillPath
		base.Path = path
		base.Color = color.FromStraightRGBA8(255, 255, 255, 255)
		return base, nil
	case model.ImageAsset:
		base.Kind = DrawImage
		base.AssetKey = node.Asset
		return base, nil
	case model.SvgAsset:
		base.Kind = DrawSvg
		base.AssetKey = node.Asset
		return base, nil
	case model.TextAsset:
		base.Kind = DrawText
		base.AssetKey = node.Asset
		return base, nil
	case model.VideoAsset:
		base.Kind = DrawVideo
		base.AssetKey = node.Asset
		if node.SourceTimeS != nil {
			base.SourceTimeS = *node.SourceTimeS
		}
		return base, nil
	default:
		return DrawOp{}, werror.Evaluationf("compile: unsupported asset kind for clip %q", node.ClipID)
	}
}
