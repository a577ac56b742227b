// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wavyte.dev/wavyte/anim"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

func compWithClipRange(start, end foundation.FrameIndex) model.Composition {
	b := model.NewBuilder(foundation.Canvas{Width: 640, Height: 360}, foundation.Fps{Num: 30, Den: 1}, 60, 7)
	b.AddAsset("p0", model.PathAsset{SvgPathD: "M0 0L1 1"})
	b.AddTrack(model.Track{Name: "main", Clips: []model.Clip{{
		ID:    "c0",
		Asset: "p0",
		Range: foundation.FrameRange{Start: start, End: end},
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

func TestVisibilityRespectsFrameRange(t *testing.T) {
	comp := compWithClipRange(10, 20)
	e := New(comp)

	g, err := e.EvalFrame(9)
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)

	g, err = e.EvalFrame(10)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)

	g, err = e.EvalFrame(19)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)

	g, err = e.EvalFrame(20)
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
}

func TestEvalFrameRejectsOutOfBoundsFrame(t *testing.T) {
	comp := compWithClipRange(0, 10)
	e := New(comp)
	_, err := e.EvalFrame(comp.Duration)
	assert.Error(t, err)
}

func TestOpacityIsClamped(t *testing.T) {
	b := model.NewBuilder(foundation.Canvas{Width: 640, Height: 360}, foundation.Fps{Num: 30, Den: 1}, 10, 1)
	b.AddAsset("p0", model.PathAsset{SvgPathD: "M0 0L1 1"})
	b.AddTrack(model.Track{Name: "main", Clips: []model.Clip{{
		ID:    "c0",
		Asset: "p0",
		Range: foundation.FrameRange{Start: 0, End: 10},
		Props: model.ClipProps{
			Transform: anim.Constant(math32.IdentityTransform2D()),
			Opacity:   anim.Constant[anim.Scalar](5),
		},
	}}})
	comp, err := b.Build()
	require.NoError(t, err)

	e := New(comp)
	g, err := e.EvalFrame(0)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, 1.0, g.Nodes[0].Opacity)
}

func TestTransitionProgressBoundariesIn(t *testing.T) {
	comp := compWithClipRange(5, 20)
	comp.Tracks[0].Clips[0].TransitionIn = &model.TransitionSpec{
		Kind: "crossfade", DurationFrames: 3, Ease: anim.Linear,
	}
	e := New(comp)

	g, err := e.EvalFrame(5)
	require.NoError(t, err)
	require.NotNil(t, g.Nodes[0].TransitionIn)
	assert.InDelta(t, 0.0, g.Nodes[0].TransitionIn.Progress, 1e-9)

	g, err = e.EvalFrame(7)
	require.NoError(t, err)
	require.NotNil(t, g.Nodes[0].TransitionIn)
	assert.InDelta(t, 1.0, g.Nodes[0].TransitionIn.Progress, 1e-9)

	g, err = e.EvalFrame(8)
	require.NoError(t, err)
	assert.Nil(t, g.Nodes[0].TransitionIn)
}

func TestTransitionProgressBoundariesOut(t *testing.T) {
	comp := compWithClipRange(0, 15)
	comp.Tracks[0].Clips[0].TransitionOut = &model.TransitionSpec{
		Kind: "crossfade", DurationFrames: 3, Ease: anim.Linear,
	}
	e := New(comp)

	g, err := e.EvalFrame(12)
	require.NoError(t, err)
	require.NotNil(t, g.Nodes[0].TransitionOut)
	assert.InDelta(t, 0.0, g.Nodes[0].TransitionOut.Progress, 1e-9)

	g, err = e.EvalFrame(14)
	require.NoError(t, err)
	require.NotNil(t, g.Nodes[0].TransitionOut)
	assert.InDelta(t, 1.0, g.Nodes[0].TransitionOut.Progress, 1e-9)
}

func TestPainterOrderSortsByZThenTrackThenStartThenID(t *testing.T) {
	b := model.NewBuilder(foundation.Canvas{Width: 640, Height: 360}, foundation.Fps{Num: 30, Den: 1}, 30, 1)
	b.AddAsset("p0", model.PathAsset{SvgPathD: "M0 0L1 1"})
	clipAt := func(id string, z int, start foundation.FrameIndex) model.Clip {
		return model.Clip{
			ID: id, Asset: "p0", ZOffset: z,
			Range: foundation.FrameRange{Start: start, End: 30},
			Props: model.ClipProps{
				Transform: anim.Constant(math32.IdentityTransform2D()),
				Opacity:   anim.Constant[anim.Scalar](1),
			},
		}
	}
	b.AddTrack(model.Track{Name: "back", Clips: []model.Clip{clipAt("b", 1, 0), clipAt("a", 0, 5)}})
	b.AddTrack(model.Track{Name: "front", Clips: []model.Clip{clipAt("c", 0, 0)}})
	comp, err := b.Build()
	require.NoError(t, err)

	e := New(comp)
	g, err := e.EvalFrame(10)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 3)

	ids := []string{g.Nodes[0].ClipID, g.Nodes[1].ClipID, g.Nodes[2].ClipID}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
}

func TestEvalRejectsEmptyEffectKind(t *testing.T) {
	comp := compWithClipRange(0, 10)
	comp.Tracks[0].Clips[0].Effects = []model.EffectInstance{{Kind: ""}}
	e := New(comp)
	_, err := e.EvalFrame(0)
	assert.Error(t, err)
}

func TestSampleSeedIsStablePerClip(t *testing.T) {
	comp := compWithClipRange(0, 10)
	e := New(comp)
	g1, err := e.EvalFrame(0)
	require.NoError(t, err)
	g2, err := e.EvalFrame(0)
	require.NoError(t, err)
	assert.Equal(t, g1.Nodes[0].Affine, g2.Nodes[0].Affine)
}
