// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rasterize

import (
	"testing"

	"github.com/stretchr/testify/require"
	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

func solidBuffer(w, h int, p color.Premul) *color.Buffer {
	b := color.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(x, y, p)
		}
	}
	return b
}

func TestCompositeOverOpacityZeroIsNoop(t *testing.T) {
	dst := solidBuffer(2, 2, color.Premul{R: 1, G: 2, B: 3, A: 4})
	src := solidBuffer(2, 2, color.Premul{R: 200, G: 200, B: 200, A: 200})
	before := append([]byte(nil), dst.Data...)
	CompositeOver(dst, src, 0, model.BlendNormal)
	require.Equal(t, before, dst.Data)
}

func TestCompositeOverOpaqueReplacesDst(t *testing.T) {
	dst := solidBuffer(1, 1, color.Premul{A: 255})
	src := solidBuffer(1, 1, color.Premul{R: 255, A: 255})
	CompositeOver(dst, src, 1, model.BlendNormal)
	require.Equal(t, color.Premul{R: 255, A: 255}, dst.At(0, 0))
}

func TestCompositeCrossfadeEndpoints(t *testing.T) {
	a := solidBuffer(1, 1, color.Premul{R: 10, G: 20, B: 30, A: 40})
	b := solidBuffer(1, 1, color.Premul{R: 200, G: 210, B: 220, A: 230})
	dst := color.NewBuffer(1, 1)

	CompositeCrossfade(dst, a, b, 0)
	require.Equal(t, a.At(0, 0), dst.At(0, 0))

	dst = color.NewBuffer(1, 1)
	CompositeCrossfade(dst, a, b, 1)
	require.Equal(t, b.At(0, 0), dst.At(0, 0))
}

func TestCompositeWipeHardEdgeSplitsAtT(t *testing.T) {
	a := solidBuffer(10, 1, color.Premul{A: 255})
	b := solidBuffer(10, 1, color.Premul{R: 255, A: 255})
	dst := color.NewBuffer(10, 1)

	CompositeWipe(dst, a, b, 0.5, LeftToRight, 0)

	require.Equal(t, b.At(0, 0), dst.At(0, 0), "left of the edge reveals b")
	require.Equal(t, a.At(9, 0), dst.At(9, 0), "right of the edge stays a")
}

func TestCompositeSlideAtT1SettlesToB(t *testing.T) {
	a := solidBuffer(4, 4, color.Premul{A: 255})
	b := solidBuffer(4, 4, color.Premul{R: 255, A: 255})
	dst := color.NewBuffer(4, 4)

	CompositeSlide(dst, a, b, 1, LeftToRight, false)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			require.Equal(t, b.At(x, y), dst.At(x, y))
		}
	}
}

func TestCompositeIrisGrowsFromOrigin(t *testing.T) {
	a := solidBuffer(11, 11, color.Premul{A: 255})
	b := solidBuffer(11, 11, color.Premul{R: 255, A: 255})
	dst := color.NewBuffer(11, 11)

	CompositeIris(dst, a, b, 0.1, math32.Vec2(0.5, 0.5), IrisCircle, 0)

	require.Equal(t, b.At(5, 5), dst.At(5, 5), "center is revealed first")
	require.Equal(t, a.At(0, 0), dst.At(0, 0), "far corner stays a at low t")
}

func TestBlurRadiusZeroIsIdentity(t *testing.T) {
	src := color.NewBuffer(2, 2)
	src.Set(0, 0, color.Premul{R: 1, G: 2, B: 3, A: 4})
	out, err := Blur(src, 0, 1)
	require.NoError(t, err)
	require.True(t, out.Equal(src))
}

func TestBlurConstantImageIsIdentity(t *testing.T) {
	src := solidBuffer(4, 3, color.Premul{R: 10, G: 20, B: 30, A: 40})
	out, err := Blur(src, 3, 2.0)
	require.NoError(t, err)
	require.True(t, out.Equal(src))
}

func TestBlurSpreadsEnergyFromSinglePixel(t *testing.T) {
	src := color.NewBuffer(5, 5)
	src.Set(2, 2, color.Premul{R: 255, G: 255, B: 255, A: 255})

	out, err := Blur(src, 2, 1.2)
	require.NoError(t, err)

	nonzero := 0
	sumA := 0
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			p := out.At(x, y)
			if p.A != 0 {
				nonzero++
			}
			sumA += int(p.A)
		}
	}
	require.Greater(t, nonzero, 1)
	require.InDelta(t, 255, sumA, 4)
}
