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

func rampKeyframes(n int) *Keyframes[Scalar] {
	keys := make([]Keyframe[Scalar], n)
	for i := range keys {
		keys[i] = Keyframe[Scalar]{Frame: foundation.FrameIndex(i), Value: Scalar(i), Ease: Linear}
	}
	return &Keyframes[Scalar]{Keys: keys, Mode: LinearInterp}
}

func ctxAt(f foundation.FrameIndex) SampleCtx {
	return SampleCtx{Frame: f, Fps: foundation.Fps{Num: 30, Den: 1}, ClipLocal: f, Seed: 7}
}

func TestDelayHoldsThenShifts(t *testing.T) {
	inner := rampKeyframes(10)
	d := &Delay[Scalar]{Inner: inner, By: 3}

	v, err := d.Sample(ctxAt(0))
	require.NoError(t, err)
	assert.Equal(t, Scalar(0), v)

	v, err = d.Sample(ctxAt(2))
	require.NoError(t, err)
	assert.Equal(t, Scalar(0), v)

	v, err = d.Sample(ctxAt(5))
	require.NoError(t, err)
	assert.Equal(t, Scalar(2), v)
}

func TestSpeedRejectsNonPositiveFactor(t *testing.T) {
	s := &Speed[Scalar]{Inner: rampKeyframes(10), Factor: 0}
	_, err := s.Sample(ctxAt(1))
	assert.Error(t, err)
}

func TestSpeedScalesClipLocal(t *testing.T) {
	s := &Speed[Scalar]{Inner: rampKeyframes(10), Factor: 2}
	v, err := s.Sample(ctxAt(3))
	require.NoError(t, err)
	assert.Equal(t, Scalar(6), v)
}

func TestReverseMapsAroundDuration(t *testing.T) {
	r := &Reverse[Scalar]{Inner: rampKeyframes(10), Duration: 5}
	v, err := r.Sample(ctxAt(0))
	require.NoError(t, err)
	assert.Equal(t, Scalar(4), v)

	v, err = r.Sample(ctxAt(4))
	require.NoError(t, err)
	assert.Equal(t, Scalar(0), v)

	// frames beyond duration clamp to the last mapped value
	v, err = r.Sample(ctxAt(9))
	require.NoError(t, err)
	assert.Equal(t, Scalar(0), v)
}

func TestReverseRejectsZeroDuration(t *testing.T) {
	r := &Reverse[Scalar]{Inner: rampKeyframes(10), Duration: 0}
	_, err := r.Sample(ctxAt(0))
	assert.Error(t, err)
}

func TestLoopRepeatWraps(t *testing.T) {
	l := &Loop[Scalar]{Inner: rampKeyframes(10), Period: 4, Mode: Repeat}
	v, err := l.Sample(ctxAt(5))
	require.NoError(t, err)
	assert.Equal(t, Scalar(1), v)
}

func TestLoopPingPongReflects(t *testing.T) {
	l := &Loop[Scalar]{Inner: rampKeyframes(10), Period: 4, Mode: PingPong}
	// cycle = 2*(4-1) = 6; frames 0..3 forward, 4..5 reflect to 2,1
	cases := map[foundation.FrameIndex]Scalar{0: 0, 1: 1, 2: 2, 3: 3, 4: 2, 5: 1, 6: 0, 7: 1}
	for f, want := range cases {
		v, err := l.Sample(ctxAt(f))
		require.NoError(t, err)
		assert.Equal(t, want, v, "frame %d", f)
	}
}

func TestLoopPingPongPeriodOneIsConstant(t *testing.T) {
	l := &Loop[Scalar]{Inner: rampKeyframes(10), Period: 1, Mode: PingPong}
	for _, f := range []foundation.FrameIndex{0, 1, 5, 100} {
		v, err := l.Sample(ctxAt(f))
		require.NoError(t, err)
		assert.Equal(t, Scalar(0), v)
	}
}

func TestLoopRejectsZeroPeriod(t *testing.T) {
	l := &Loop[Scalar]{Inner: rampKeyframes(10), Period: 0}
	_, err := l.Sample(ctxAt(0))
	assert.Error(t, err)
}

func TestMixClampsAndBlends(t *testing.T) {
	a := Constant[Scalar](Scalar(0))
	b := Constant[Scalar](Scalar(10))
	weight := Constant[Scalar](Scalar(0.5))
	m := &Mix[Scalar]{A: a, B: b, T: weight}

	v, err := m.Sample(ctxAt(0))
	require.NoError(t, err)
	assert.Equal(t, Scalar(5), v)

	over := &Mix[Scalar]{A: a, B: b, T: Constant[Scalar](Scalar(2))}
	v, err = over.Sample(ctxAt(0))
	require.NoError(t, err)
	assert.Equal(t, Scalar(10), v)

	under := &Mix[Scalar]{A: a, B: b, T: Constant[Scalar](Scalar(-1))}
	v, err = under.Sample(ctxAt(0))
	require.NoError(t, err)
	assert.Equal(t, Scalar(0), v)
}
