// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rasterize

import (
	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/model"
)

// DropShadow composites a blurred, tinted, offset copy of src's alpha
// silhouette underneath src (compile.Effect's Shadow* fields, spec.md
// §4.5). The shadow layer's alpha is src's own alpha translated by
// offset, blurred with Blur, tinted to shadowColor, then src is drawn
// normally on top.
func DropShadow(src *color.Buffer, offsetX, offsetY int, blurRadiusPx int, sigma float64, shadowColor color.Premul) (*color.Buffer, error) {
	silhouette := color.NewBuffer(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			sx, sy := x-offsetX, y-offsetY
			a := src.AtUnclamped(sx, sy).A
			if a == 0 {
				continue
			}
			silhouette.Set(x, y, color.Premul{
				R: color.Mul8(shadowColor.R, a),
				G: color.Mul8(shadowColor.G, a),
				B: color.Mul8(shadowColor.B, a),
				A: color.Mul8(shadowColor.A, a),
			})
		}
	}

	blurred, err := Blur(silhouette, blurRadiusPx, sigma)
	if err != nil {
		return nil, err
	}

	out := color.NewBuffer(src.Width, src.Height)
	color.CloneInto(out, blurred)
	CompositeOver(out, src, 1, model.BlendNormal)
	return out, nil
}
