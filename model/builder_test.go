// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wavyte.dev/wavyte/anim"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/math32"
)

func basicClip() Clip {
	return Clip{
		ID:    "c0",
		Asset: "t0",
		Range: foundation.FrameRange{Start: 0, End: 60},
		Props: ClipProps{
			Transform: anim.Constant(math32.IdentityTransform2D()),
			Opacity:   anim.Constant[anim.Scalar](1),
			Blend:     BlendNormal,
		},
		Effects: []EffectInstance{{Kind: "noop"}},
		TransitionIn: &TransitionSpec{
			Kind:           "crossfade",
			DurationFrames: 10,
			Ease:           anim.Linear,
		},
	}
}

func basicComposition(t *testing.T) Composition {
	t.Helper()
	b := NewBuilder(foundation.Canvas{Width: 1920, Height: 1080}, foundation.Fps{Num: 30, Den: 1}, 60, 123)
	b.AddAsset("t0", TextAsset{Text: "hello", SizePx: 24})
	b.AddTrack(Track{Name: "main", Clips: []Clip{basicClip()}})
	comp, err := b.Build()
	require.NoError(t, err)
	return comp
}

func TestBuilderBuildsValidComposition(t *testing.T) {
	comp := basicComposition(t)
	assert.Equal(t, 1920, comp.Canvas.Width)
	assert.Len(t, comp.AssetKeys, 1)
}

func TestValidateRejectsMissingAsset(t *testing.T) {
	comp := basicComposition(t)
	comp.Tracks[0].Clips[0].Asset = "missing"
	assert.Error(t, comp.Validate())
}

func TestValidateRejectsOutOfBoundsRange(t *testing.T) {
	comp := basicComposition(t)
	comp.Tracks[0].Clips[0].Range = foundation.FrameRange{Start: 0, End: 999}
	assert.Error(t, comp.Validate())
}

func TestValidateRejectsBadFps(t *testing.T) {
	comp := basicComposition(t)
	comp.Fps = foundation.Fps{Num: 30, Den: 0}
	assert.Error(t, comp.Validate())
}

func TestValidateRejectsEmptyEffectKind(t *testing.T) {
	comp := basicComposition(t)
	comp.Tracks[0].Clips[0].Effects = []EffectInstance{{Kind: ""}}
	assert.Error(t, comp.Validate())
}

func TestValidateRejectsBadTransition(t *testing.T) {
	comp := basicComposition(t)
	comp.Tracks[0].Clips[0].TransitionIn = &TransitionSpec{Kind: "crossfade", DurationFrames: 0}
	assert.Error(t, comp.Validate())
}

func TestAssetValidateRejectsBadVideoFields(t *testing.T) {
	v := VideoAsset{Source: "a.mp4", PlaybackRate: 0, Volume: 1}
	assert.Error(t, v.Validate())
}

func TestAssetValidateAcceptsWellFormedVideo(t *testing.T) {
	v := VideoAsset{Source: "a.mp4", PlaybackRate: 1, Volume: 1}
	assert.NoError(t, v.Validate())
}
