// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wavyte.dev/wavyte/anim"
	wavyteEval "wavyte.dev/wavyte/eval"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

func pathComp() model.Composition {
	b := model.NewBuilder(foundation.Canvas{Width: 64, Height: 48}, foundation.Fps{Num: 30, Den: 1}, 10, 1)
	b.AddAsset("p0", model.PathAsset{SvgPathD: "M0 0L10 10"})
	b.AddTrack(model.Track{Name: "main", Clips: []model.Clip{{
		ID:    "c0",
		Asset: "p0",
		Range: foundation.FrameRange{Start: 0, End: 10},
		Props: model.ClipProps{
			Transform: anim.Constant(math32.IdentityTransform2D()),
			Opacity:   anim.Constant[anim.Scalar](1),
		},
	}}})
	comp, err := b.Build()
	if err != nil {
		panic(err)
	}
	return comp
}

func TestCompileAllocatesCanvasAndNodeSurface(t *testing.T) {
	comp := pathComp()
	g, err := wavyteEval.New(comp).EvalFrame(0)
	require.NoError(t, err)

	plan, err := Compile(&comp, g)
	require.NoError(t, err)
	assert.Equal(t, SurfaceID(0), plan.FinalSurface)
	assert.Len(t, plan.Surfaces, 2) // canvas + the one visible node
	require.Len(t, plan.Passes, 2)  // Scene + Composite (no pass fx)
	assert.Equal(t, PassScene, plan.Passes[0].Kind)
	assert.Equal(t, PassComposite, plan.Passes[1].Kind)
}

func TestCompileSkipsZeroOpacityNode(t *testing.T) {
	comp := pathComp()
	comp.Tracks[0].Clips[0].Props.Opacity = anim.Constant[anim.Scalar](0)
	g, err := wavyteEval.New(comp).EvalFrame(0)
	require.NoError(t, err)

	plan, err := Compile(&comp, g)
	require.NoError(t, err)
	assert.Len(t, plan.Surfaces, 1) // canvas only
	require.Len(t, plan.Passes, 1)
	assert.Empty(t, plan.Passes[0].CompositeOps)
}

func TestCompileBlurEffectAddsOffscreenPass(t *testing.T) {
	comp := pathComp()
	comp.Tracks[0].Clips[0].Effects = []model.EffectInstance{{Kind: "blur", Params: `{"radius_px":4}`}}
	g, err := wavyteEval.New(comp).EvalFrame(0)
	require.NoError(t, err)

	plan, err := Compile(&comp, g)
	require.NoError(t, err)
	require.Len(t, plan.Passes, 3) // Scene, Offscreen(blur), Composite
	assert.Equal(t, PassOffscreen, plan.Passes[1].Kind)
	assert.Equal(t, EffectBlur, plan.Passes[1].Fx.Kind)
}

func TestCompileMissingAssetKeyErrors(t *testing.T) {
	comp := pathComp()
	comp.Tracks[0].Clips[0].Asset = "does-not-exist"
	g := wavyteEval.EvaluatedGraph{Frame: 0, Nodes: []wavyteEval.EvaluatedClipNode{{
		ClipID: "c0", Asset: "does-not-exist", Affine: math32.Identity3(), Opacity: 1,
	}}}
	_, err := Compile(&comp, g)
	assert.Error(t, err)
}

func TestCompositeOpsForPairsMatchingCrossfade(t *testing.T) {
	cf := ParsedTransition{Kind: TransitionCrossfade}
	layers := []layer{
		{surface: 1, transitionOut: &cf, outProgress: 0.4},
		{surface: 2, transitionIn: &cf, inProgress: 0.42},
	}
	ops := compositeOpsFor(layers)
	require.Len(t, ops, 1)
	assert.Equal(t, CompositeCrossfade, ops[0].Kind)
	assert.Equal(t, SurfaceID(1), ops[0].A)
	assert.Equal(t, SurfaceID(2), ops[0].B)
}

func TestCompositeOpsForFallsBackToOverWhenProgressDiffers(t *testing.T) {
	cf := ParsedTransition{Kind: TransitionCrossfade}
	layers := []layer{
		{surface: 1, transitionOut: &cf, outProgress: 0.1},
		{surface: 2, transitionIn: &cf, inProgress: 0.9},
	}
	ops := compositeOpsFor(layers)
	require.Len(t, ops, 2)
	assert.Equal(t, CompositeOver, ops[0].Kind)
	assert.Equal(t, CompositeOver, ops[1].Kind)
}

func TestCompositeOpsForSkipsZeroOpacityUnpairedLayer(t *testing.T) {
	cf := ParsedTransition{Kind: TransitionCrossfade}
	layers := []layer{
		{surface: 1, transitionIn: &cf, inProgress: 0},
	}
	ops := compositeOpsFor(layers)
	assert.Empty(t, ops)
}
