// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rasterize

import "wavyte.dev/wavyte/color"

// MaskMode mirrors compile.MaskMode (see WipeDir's rationale in
// composite.go for why rasterize keeps its own copy).
type MaskMode int

const (
	MaskAlpha MaskMode = iota
	MaskLuma
	MaskStencil
)

// MaskApply scales src's alpha (and premultiplied color) by a per-pixel
// weight derived from mask, per compile.Effect's MaskApply fields
// (spec.md §4.5). Alpha mode uses the mask's own alpha channel, Luma
// uses Rec. 709 luma of the mask's color, Stencil thresholds luma to a
// hard 0/1 weight; inverted flips the resulting weight.
func MaskApply(src, mask *color.Buffer, mode MaskMode, inverted bool, threshold float64) *color.Buffer {
	out := color.NewBuffer(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			m := mask.AtUnclamped(x, y)
			weight := maskWeight(m, mode, threshold)
			if inverted {
				weight = 1 - weight
			}
			p := src.AtUnclamped(x, y)
			out.Set(x, y, color.Premul{
				R: color.ClampByte(float64(p.R) * weight),
				G: color.ClampByte(float64(p.G) * weight),
				B: color.ClampByte(float64(p.B) * weight),
				A: color.ClampByte(float64(p.A) * weight),
			})
		}
	}
	return out
}

func maskWeight(m color.Premul, mode MaskMode, threshold float64) float64 {
	switch mode {
	case MaskLuma:
		return m.Luma() / 255
	case MaskStencil:
		if m.Luma()/255 >= threshold {
			return 1
		}
		return 0
	default: // MaskAlpha
		return float64(m.A) / 255
	}
}
