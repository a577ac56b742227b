// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rasterize

import "wavyte.dev/wavyte/color"

// ColorMatrix applies a row-major 4x5 color matrix to every pixel of
// src, operating on unpremultiplied color (compile.Effect.ColorMatrix,
// spec.md §4.5: "ColorMatrix operates on unpremultiplied color then
// re-premultiplies"). Channels are normalized to [0,1] for the
// multiply, the SVG feColorMatrix convention: row i, column j is
// matrix[i*5+j]; column 4 of each row is the additive bias.
func ColorMatrix(src *color.Buffer, matrix [20]float64) *color.Buffer {
	out := color.NewBuffer(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			p := src.AtUnclamped(x, y)
			r255, g255, b255 := p.Unpremultiply()
			r, g, b, a := r255/255, g255/255, b255/255, float64(p.A)/255

			row := func(i int) float64 {
				return matrix[i*5]*r + matrix[i*5+1]*g + matrix[i*5+2]*b + matrix[i*5+3]*a + matrix[i*5+4]
			}
			out.Set(x, y, color.Repremultiply(row(0)*255, row(1)*255, row(2)*255, color.ClampByte(row(3)*255)))
		}
	}
	return out
}
