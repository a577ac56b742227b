// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rasterize

import (
	"math"

	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/internal/werror"
)

// Blur applies a separable Gaussian blur to src, ported exactly from
// blur_cpu.rs's blur_rgba8_premul: a Q16 fixed-point kernel, two
// single-axis passes, clamp-to-edge sampling. radius 0 is the identity.
func Blur(src *color.Buffer, radius int, sigma float64) (*color.Buffer, error) {
	if radius == 0 {
		out := color.NewBuffer(src.Width, src.Height)
		color.CloneInto(out, src)
		return out, nil
	}
	kernel, err := gaussianKernelQ16(radius, sigma)
	if err != nil {
		return nil, err
	}
	tmp := color.NewBuffer(src.Width, src.Height)
	out := color.NewBuffer(src.Width, src.Height)
	horizontalPass(src, tmp, kernel)
	verticalPass(tmp, out, kernel)
	return out, nil
}

// gaussianKernelQ16 builds a (2*radius+1)-tap kernel of Q16 fixed-point
// weights summing to exactly 65536, with any rounding residual folded
// into the center weight (blur_cpu.rs's gaussian_kernel_q16).
func gaussianKernelQ16(radius int, sigma float64) ([]uint32, error) {
	if !isFinitePositive(sigma) {
		return nil, werror.Validationf("blur sigma must be > 0")
	}

	weightsF := make([]float64, 2*radius+1)
	sum := 0.0
	denom := 2 * sigma * sigma
	for i := -radius; i <= radius; i++ {
		x := float64(i)
		w := math.Exp(-x * x / denom)
		weightsF[i+radius] = w
		sum += w
	}
	if sum <= 0 {
		return nil, werror.Evaluationf("gaussian kernel sum is zero")
	}

	weights := make([]uint32, len(weightsF))
	var acc int64
	for i, wf := range weightsF {
		q := color.RoundHalfAwayFromZero(wf / sum * 65536)
		if q < 0 {
			q = 0
		}
		if q > 65536 {
			q = 65536
		}
		weights[i] = uint32(q)
		acc += int64(q)
	}

	const target = int64(65536)
	delta := target - acc
	if delta != 0 {
		mid := len(weights) / 2
		newMid := int64(weights[mid]) + delta
		if newMid < 0 {
			newMid = 0
		}
		if newMid > 65536 {
			newMid = 65536
		}
		weights[mid] = uint32(newMid)
	}
	return weights, nil
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func horizontalPass(src, dst *color.Buffer, k []uint32) {
	radius := len(k) / 2
	w, h := src.Width, src.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [4]uint64
			for ki, kw := range k {
				dx := ki - radius
				sx := clampInt(x+dx, 0, w-1)
				p := src.AtUnclamped(sx, y)
				acc[0] += uint64(kw) * uint64(p.R)
				acc[1] += uint64(kw) * uint64(p.G)
				acc[2] += uint64(kw) * uint64(p.B)
				acc[3] += uint64(kw) * uint64(p.A)
			}
			dst.Set(x, y, color.Premul{
				R: q16ToU8(acc[0]), G: q16ToU8(acc[1]),
				B: q16ToU8(acc[2]), A: q16ToU8(acc[3]),
			})
		}
	}
}

func verticalPass(src, dst *color.Buffer, k []uint32) {
	radius := len(k) / 2
	w, h := src.Width, src.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [4]uint64
			for ki, kw := range k {
				dy := ki - radius
				sy := clampInt(y+dy, 0, h-1)
				p := src.AtUnclamped(x, sy)
				acc[0] += uint64(kw) * uint64(p.R)
				acc[1] += uint64(kw) * uint64(p.G)
				acc[2] += uint64(kw) * uint64(p.B)
				acc[3] += uint64(kw) * uint64(p.A)
			}
			dst.Set(x, y, color.Premul{
				R: q16ToU8(acc[0]), G: q16ToU8(acc[1]),
				B: q16ToU8(acc[2]), A: q16ToU8(acc[3]),
			})
		}
	}
}

func q16ToU8(acc uint64) uint8 {
	v := (acc + 32768) >> 16
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
