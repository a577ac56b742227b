// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wavyte.dev/wavyte/anim"
	"wavyte.dev/wavyte/encode"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

func staticComp(duration foundation.FrameIndex) *model.Composition {
	b := model.NewBuilder(foundation.Canvas{Width: 16, Height: 16}, foundation.Fps{Num: 30, Den: 1}, duration, 1)
	b.AddAsset("p0", model.PathAsset{SvgPathD: "M0 0L16 0L16 16L0 16Z"})
	b.AddTrack(model.Track{Name: "main", Clips: []model.Clip{{
		ID:    "c0",
		Asset: "p0",
		Range: foundation.FrameRange{Start: 0, End: duration},
		Props: model.ClipProps{
			Transform: anim.Constant(math32.IdentityTransform2D()),
			Opacity:   anim.Constant[anim.Scalar](1),
		},
	}}})
	comp, err := b.Build()
	if err != nil {
		panic(err)
	}
	return &comp
}

func varyingComp(duration foundation.FrameIndex) *model.Composition {
	b := model.NewBuilder(foundation.Canvas{Width: 16, Height: 16}, foundation.Fps{Num: 30, Den: 1}, duration, 1)
	b.AddAsset("p0", model.PathAsset{SvgPathD: "M0 0L16 0L16 16L0 16Z"})
	opacity := &anim.Keyframes[anim.Scalar]{
		Keys: []anim.Keyframe[anim.Scalar]{
			{Frame: 0, Value: 0, Ease: anim.Linear},
			{Frame: duration - 1, Value: 1},
		},
		Mode: anim.LinearInterp,
	}
	b.AddTrack(model.Track{Name: "main", Clips: []model.Clip{{
		ID:    "c0",
		Asset: "p0",
		Range: foundation.FrameRange{Start: 0, End: duration},
		Props: model.ClipProps{
			Transform: anim.Constant(math32.IdentityTransform2D()),
			Opacity:   opacity,
		},
	}}})
	comp, err := b.Build()
	if err != nil {
		panic(err)
	}
	return &comp
}

func TestRenderFrameRejectsOutOfRange(t *testing.T) {
	comp := staticComp(8)
	s, err := New(comp, t.TempDir(), DefaultOpts())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.RenderFrame(8)
	require.Error(t, err)
}

func TestRenderRangeSequentialDeliversInOrder(t *testing.T) {
	comp := staticComp(8)
	opts := DefaultOpts()
	opts.EnableAudio = false
	s, err := New(comp, t.TempDir(), opts)
	require.NoError(t, err)
	defer s.Close()

	sink := encode.NewInMemorySink()
	stats, err := s.RenderRange(foundation.FrameRange{Start: 0, End: 8}, sink)
	require.NoError(t, err)
	require.Equal(t, Stats{FramesTotal: 8, FramesRendered: 8}, stats)
	require.Len(t, sink.Frames, 8)
	for i, f := range sink.Frames {
		require.Equal(t, foundation.FrameIndex(i), f.Index)
	}
}

func TestRenderRangeStaticElisionReusesFrames(t *testing.T) {
	comp := staticComp(8)
	opts := DefaultOpts()
	opts.EnableAudio = false
	opts.StaticFrameElision = true
	s, err := New(comp, t.TempDir(), opts)
	require.NoError(t, err)
	defer s.Close()

	sink := encode.NewInMemorySink()
	stats, err := s.RenderRange(foundation.FrameRange{Start: 0, End: 8}, sink)
	require.NoError(t, err)
	require.Equal(t, uint64(8), stats.FramesTotal)
	require.Equal(t, uint64(1), stats.FramesRendered)
	require.Equal(t, uint64(7), stats.FramesElided)
	require.Len(t, sink.Frames, 8)
	for _, f := range sink.Frames {
		require.True(t, f.Frame.Equal(sink.Frames[0].Frame))
	}
}

func TestRenderRangeParallelMatchesSequential(t *testing.T) {
	comp := varyingComp(8)
	opts := DefaultOpts()
	opts.EnableAudio = false

	sSeq, err := New(comp, t.TempDir(), opts)
	require.NoError(t, err)
	defer sSeq.Close()
	sinkSeq := encode.NewInMemorySink()
	_, err = sSeq.RenderRange(foundation.FrameRange{Start: 0, End: 8}, sinkSeq)
	require.NoError(t, err)

	optsPar := opts
	optsPar.Parallel = true
	optsPar.Workers = 2
	sPar, err := New(comp, t.TempDir(), optsPar)
	require.NoError(t, err)
	defer sPar.Close()
	sinkPar := encode.NewInMemorySink()
	statsPar, err := sPar.RenderRange(foundation.FrameRange{Start: 0, End: 8}, sinkPar)
	require.NoError(t, err)
	require.Equal(t, uint64(8), statsPar.FramesRendered)

	require.Len(t, sinkPar.Frames, len(sinkSeq.Frames))
	for i := range sinkSeq.Frames {
		require.Equal(t, sinkSeq.Frames[i].Index, sinkPar.Frames[i].Index)
		require.True(t, sinkSeq.Frames[i].Frame.Equal(sinkPar.Frames[i].Frame))
	}

	// Frame-to-frame variation: first and last frame must differ since
	// opacity ramps 0 -> 1 across the range.
	require.False(t, sinkSeq.Frames[0].Frame.Equal(sinkSeq.Frames[7].Frame))
}
