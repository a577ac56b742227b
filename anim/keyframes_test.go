// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wavyte.dev/wavyte/foundation"
)

func TestKeyframesValidateRequiresKeyOrDefault(t *testing.T) {
	k := &Keyframes[Scalar]{}
	assert.Error(t, k.Validate())

	def := Scalar(1)
	k2 := &Keyframes[Scalar]{Default: &def}
	assert.NoError(t, k2.Validate())
}

func TestKeyframesValidateRejectsUnsorted(t *testing.T) {
	k := &Keyframes[Scalar]{Keys: []Keyframe[Scalar]{
		{Frame: 5, Value: 0},
		{Frame: 1, Value: 1},
	}}
	assert.Error(t, k.Validate())
}

func TestKeyframesSampleBeforeFirstAndAfterLast(t *testing.T) {
	k := &Keyframes[Scalar]{
		Mode: LinearInterp,
		Keys: []Keyframe[Scalar]{
			{Frame: 10, Value: 1, Ease: Linear},
			{Frame: 20, Value: 2, Ease: Linear},
		},
	}
	v, err := k.Sample(ctxAt(0))
	require.NoError(t, err)
	assert.Equal(t, Scalar(1), v)

	v, err = k.Sample(ctxAt(30))
	require.NoError(t, err)
	assert.Equal(t, Scalar(2), v)
}

func TestKeyframesSampleInteriorLinear(t *testing.T) {
	k := &Keyframes[Scalar]{
		Mode: LinearInterp,
		Keys: []Keyframe[Scalar]{
			{Frame: 0, Value: 0, Ease: Linear},
			{Frame: 10, Value: 10, Ease: Linear},
		},
	}
	v, err := k.Sample(ctxAt(5))
	require.NoError(t, err)
	assert.Equal(t, Scalar(5), v)
}

func TestKeyframesSampleHoldMode(t *testing.T) {
	k := &Keyframes[Scalar]{
		Mode: Hold,
		Keys: []Keyframe[Scalar]{
			{Frame: 0, Value: 1, Ease: Linear},
			{Frame: 10, Value: 2, Ease: Linear},
		},
	}
	v, err := k.Sample(ctxAt(5))
	require.NoError(t, err)
	assert.Equal(t, Scalar(1), v)
}

func TestConstantAlwaysReturnsSameValue(t *testing.T) {
	c := Constant[Scalar](Scalar(42))
	for _, f := range []foundation.FrameIndex{0, 1, 1000} {
		v, err := c.Sample(ctxAt(f))
		require.NoError(t, err)
		assert.Equal(t, Scalar(42), v)
	}
}
