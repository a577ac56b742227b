// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wavyte.dev/wavyte/model"
)

func TestParseOpacityMul(t *testing.T) {
	fx, err := ParseEffect(model.EffectInstance{Kind: "OpacityMul", Params: `{"value":0.5}`})
	require.NoError(t, err)
	assert.Equal(t, EffectOpacityMul, fx.Kind)
	assert.Equal(t, 0.5, fx.OpacityMul)
}

func TestParseEffectRejectsEmptyKind(t *testing.T) {
	_, err := ParseEffect(model.EffectInstance{Kind: "  "})
	assert.Error(t, err)
}

func TestParseEffectRejectsUnknownKind(t *testing.T) {
	_, err := ParseEffect(model.EffectInstance{Kind: "not-a-real-effect"})
	assert.Error(t, err)
}

func TestParseBlurDefaultsSigmaFromRadius(t *testing.T) {
	fx, err := ParseEffect(model.EffectInstance{Kind: "blur", Params: `{"radius_px":8}`})
	require.NoError(t, err)
	assert.Equal(t, 8, fx.BlurRadiusPx)
	assert.Equal(t, 4.0, fx.BlurSigma)
}

func TestNormalizeFoldsOpacityAndDropsNoopBlur(t *testing.T) {
	effects := []Effect{
		{Kind: EffectOpacityMul, OpacityMul: 0.5},
		{Kind: EffectOpacityMul, OpacityMul: 0.5},
		{Kind: EffectBlur, BlurRadiusPx: 0},
	}
	pipeline := NormalizeEffects(effects)
	assert.Equal(t, 0.25, pipeline.Inline.OpacityMul)
	assert.Empty(t, pipeline.Passes)
}

func TestNormalizeChainsMultipleBlursInOrder(t *testing.T) {
	effects := []Effect{
		{Kind: EffectBlur, BlurRadiusPx: 4, BlurSigma: 2},
		{Kind: EffectBlur, BlurRadiusPx: 8, BlurSigma: 4},
	}
	pipeline := NormalizeEffects(effects)
	require.Len(t, pipeline.Passes, 2)
	assert.Equal(t, 4, pipeline.Passes[0].BlurRadiusPx)
	assert.Equal(t, 8, pipeline.Passes[1].BlurRadiusPx)
}

func TestDefaultPipelineIsDefault(t *testing.T) {
	assert.True(t, NormalizeEffects(nil).IsDefault())
}

func TestTransformPostComposesOntoInline(t *testing.T) {
	fx, err := ParseEffect(model.EffectInstance{Kind: "transformpost", Params: `{"translate":[10,0]}`})
	require.NoError(t, err)
	pipeline := NormalizeEffects([]Effect{fx})
	assert.False(t, pipeline.IsDefault())
	assert.Equal(t, float32(10), pipeline.Inline.Transform.X0)
}
