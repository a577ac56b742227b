// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rasterize

import (
	"image"
	gocolor "image/color"

	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

// Pixmap is a decoded premultiplied RGBA8 image, the common content
// type behind Image, rasterized-SVG, and decoded-Video paints.
type Pixmap struct {
	Width, Height int
	Data          []byte // premul RGBA8, row-major
}

func (p Pixmap) at(x, y int) color.Premul {
	x = clampInt(x, 0, p.Width-1)
	y = clampInt(y, 0, p.Height-1)
	i := (y*p.Width + x) * 4
	return color.Premul{R: p.Data[i], G: p.Data[i+1], B: p.Data[i+2], A: p.Data[i+3]}
}

// invTransformSampler is an image.Image over infinite destination
// space: At(x,y) maps a destination pixel back into pixmap space via
// inv and bilinearly samples, clamping to the pixmap edge. This is what
// lets quadPath's rasterized coverage mask carry an arbitrarily
// rotated/scaled source image (spec.md §4.5's per-op transform).
type invTransformSampler struct {
	pixmap Pixmap
	inv    math32.Matrix2
}

func (s invTransformSampler) ColorModel() gocolor.Model { return gocolor.RGBA64Model }
func (s invTransformSampler) Bounds() image.Rectangle {
	return image.Rect(-1 << 20, -1 << 20, 1<<20, 1<<20)
}

func (s invTransformSampler) At(x, y int) gocolor.Color {
	src := s.inv.MulPoint(math32.Vec2(float32(x)+0.5, float32(y)+0.5))
	return premulColor(bilinear(s.pixmap, src.X-0.5, src.Y-0.5))
}

func bilinear(p Pixmap, x, y float32) color.Premul {
	x0, y0 := int(floorf(x)), int(floorf(y))
	fx, fy := x-floorf(x), y-floorf(y)

	c00, c10 := p.at(x0, y0), p.at(x0+1, y0)
	c01, c11 := p.at(x0, y0+1), p.at(x0+1, y0+1)

	lerp := func(a, b uint8, t float32) uint8 {
		return color.ClampByte(float64(a) + float64(t)*(float64(b)-float64(a)))
	}
	top := color.Premul{R: lerp(c00.R, c10.R, fx), G: lerp(c00.G, c10.G, fx), B: lerp(c00.B, c10.B, fx), A: lerp(c00.A, c10.A, fx)}
	bot := color.Premul{R: lerp(c01.R, c11.R, fx), G: lerp(c01.G, c11.G, fx), B: lerp(c01.B, c11.B, fx), A: lerp(c01.A, c11.A, fx)}
	return color.Premul{
		R: lerp(top.R, bot.R, fy), G: lerp(top.G, bot.G, fy),
		B: lerp(top.B, bot.B, fy), A: lerp(top.A, bot.A, fy),
	}
}

func floorf(v float32) float32 {
	i := float32(int(v))
	if v < 0 && i != v {
		i--
	}
	return i
}

// PaintPixmap places pixmap's content into dst through transform, which
// maps the pixmap's own [0,W]x[0,H] pixel rect into dst's pixel space
// (spec.md §4.5: Image/Svg/Video paints all resolve to a pixmap bound
// as a paint source). Sampling is bilinear with clamp-to-edge, and the
// quad's rasterized coverage clips the result to the transformed rect
// (so rotation doesn't leak content past the image's own edges).
func PaintPixmap(dst *color.Buffer, pixmap Pixmap, transform math32.Matrix2, opacity float64, blend model.BlendMode) {
	if pixmap.Width <= 0 || pixmap.Height <= 0 {
		return
	}
	quad := quadPath(float32(pixmap.Width), float32(pixmap.Height))
	cmds := transformBezPath(quad, transform)
	sampler := invTransformSampler{pixmap: pixmap, inv: transform.Inverse()}
	renderMasked(dst, cmds, sampler, opacity, blend)
}
