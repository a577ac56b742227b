// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"testing"

	"github.com/stretchr/testify/require"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/model"
)

func buildTestComposition(t *testing.T) model.Composition {
	t.Helper()
	b := model.NewBuilder(foundation.Canvas{Width: 640, Height: 360}, foundation.Fps{Num: 30, Den: 1}, 90, 1)
	b.AddAsset("circle", model.PathAsset{SvgPathD: "M0 0 L10 0 L10 10 Z"})
	b.AddAsset("caption", model.TextAsset{Text: "hello wavyte", SizePx: 24})
	b.AddTrack(model.Track{Name: "main", Clips: []model.Clip{
		{ID: "c1", Asset: "circle", Range: foundation.FrameRange{Start: 0, End: 30}},
		{ID: "c2", Asset: "caption", Range: foundation.FrameRange{Start: 30, End: 60}},
	}})
	comp, err := b.Build()
	require.NoError(t, err)
	return comp
}

func TestStorePreparesEveryAssetKey(t *testing.T) {
	comp := buildTestComposition(t)
	store, err := NewStore(comp, t.TempDir())
	require.NoError(t, err)

	pathPrepared, ok := store.GetByKey("circle")
	require.True(t, ok)
	require.Equal(t, model.AssetPath, pathPrepared.Kind)
	require.NotEmpty(t, pathPrepared.Path.Path)

	textPrepared, ok := store.GetByKey("caption")
	require.True(t, ok)
	require.Equal(t, model.AssetText, textPrepared.Kind)
	require.NotEmpty(t, textPrepared.Text.Layout.Runs)
}

func TestStoreIDsAreStableAndContentAddressed(t *testing.T) {
	comp := buildTestComposition(t)
	store, err := NewStore(comp, t.TempDir())
	require.NoError(t, err)

	id1, ok := store.IDForKey("circle")
	require.True(t, ok)

	other, err := NewStore(comp, t.TempDir())
	require.NoError(t, err)
	id2, ok := other.IDForKey("circle")
	require.True(t, ok)

	require.Equal(t, id1, id2, "identical asset keys must hash to the same AssetId across stores")
}

func TestStoreRejectsMissingFile(t *testing.T) {
	b := model.NewBuilder(foundation.Canvas{Width: 100, Height: 100}, foundation.Fps{Num: 25, Den: 1}, 10, 1)
	b.AddAsset("img", model.ImageAsset{Source: "missing.png"})
	b.AddTrack(model.Track{Name: "t", Clips: []model.Clip{
		{ID: "c1", Asset: "img", Range: foundation.FrameRange{Start: 0, End: 10}},
	}})
	comp, err := b.Build()
	require.NoError(t, err)

	_, err = NewStore(comp, t.TempDir())
	require.Error(t, err)
}
