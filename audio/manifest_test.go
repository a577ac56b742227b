// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package audio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/model"
)

func fps30() foundation.Fps { return foundation.Fps{Num: 30, Den: 1} }

func audioComposition(clip model.Clip, asset model.Asset) *model.Composition {
	return &model.Composition{
		Fps:       fps30(),
		Duration:  150,
		AssetKeys: []string{"a"},
		Assets:    map[string]model.Asset{"a": asset},
		Tracks:    []model.Track{{Name: "t", Clips: []model.Clip{clip}}},
	}
}

func TestBuildManifestRejectsEmptyRange(t *testing.T) {
	comp := audioComposition(model.Clip{ID: "c", Asset: "a", Range: foundation.FrameRange{Start: 0, End: 30}},
		model.AudioAsset{Source: "x.wav", PlaybackRate: 1, Volume: 1})
	_, err := BuildManifest(comp, nil, foundation.FrameRange{Start: 10, End: 10})
	require.Error(t, err)
}

func TestBuildManifestSkipsMutedClip(t *testing.T) {
	asset := model.AudioAsset{Source: "x.wav", PlaybackRate: 1, Volume: 1, Mute: true}
	clip := model.Clip{ID: "c", Asset: "a", Range: foundation.FrameRange{Start: 0, End: 30}}
	comp := audioComposition(clip, asset)

	m, err := BuildManifest(comp, nil, foundation.FrameRange{Start: 0, End: 30})
	require.NoError(t, err)
	require.Empty(t, m.Segments)
}

func TestBuildManifestSkipsZeroVolumeClip(t *testing.T) {
	asset := model.AudioAsset{Source: "x.wav", PlaybackRate: 1, Volume: 0}
	clip := model.Clip{ID: "c", Asset: "a", Range: foundation.FrameRange{Start: 0, End: 30}}
	comp := audioComposition(clip, asset)

	m, err := BuildManifest(comp, nil, foundation.FrameRange{Start: 0, End: 30})
	require.NoError(t, err)
	require.Empty(t, m.Segments)
}

func TestBuildManifestSkipsNonAudioAsset(t *testing.T) {
	asset := model.ImageAsset{Source: "x.png"}
	clip := model.Clip{ID: "c", Asset: "a", Range: foundation.FrameRange{Start: 0, End: 30}}
	comp := audioComposition(clip, asset)

	m, err := BuildManifest(comp, nil, foundation.FrameRange{Start: 0, End: 30})
	require.NoError(t, err)
	require.Empty(t, m.Segments)
}
