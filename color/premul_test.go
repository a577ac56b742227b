// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverOpacityZeroIsNoop(t *testing.T) {
	dst := Premul{R: 10, G: 20, B: 30, A: 200}
	src := Premul{R: 255, G: 255, B: 255, A: 255}
	assert.Equal(t, dst, Over(dst, src, 0))
}

func TestOverSrcTransparentIsNoop(t *testing.T) {
	dst := Premul{R: 10, G: 20, B: 30, A: 200}
	src := Premul{R: 255, G: 255, B: 255, A: 0}
	assert.Equal(t, dst, Over(dst, src, 1))
}

func TestOverOpaqueSrcReplacesDst(t *testing.T) {
	dst := Premul{R: 10, G: 20, B: 30, A: 200}
	src := Premul{R: 255, G: 128, B: 0, A: 255}
	assert.Equal(t, src, Over(dst, src, 1))
}

func TestLerpEndpoints(t *testing.T) {
	a := Premul{R: 10, G: 20, B: 30, A: 40}
	b := Premul{R: 200, G: 150, B: 100, A: 250}
	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
}

func TestMul8(t *testing.T) {
	assert.Equal(t, uint8(255), Mul8(255, 255))
	assert.Equal(t, uint8(0), Mul8(0, 255))
	assert.Equal(t, uint8(128), Mul8(255, 128))
}

func TestUnpremultiplyRepremultiplyRoundTrip(t *testing.T) {
	p := Premul{R: 100, G: 50, B: 25, A: 200}
	r, g, b := p.Unpremultiply()
	got := Repremultiply(r, g, b, p.A)
	assert.InDelta(t, p.R, got.R, 1)
	assert.InDelta(t, p.G, got.G, 1)
	assert.InDelta(t, p.B, got.B, 1)
	assert.Equal(t, p.A, got.A)
}
