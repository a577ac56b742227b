// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rasterize implements the CPU pass executor's paint and
// offscreen-fx primitives: everything that turns one DrawOp or PassFx
// into pixels in a color.Buffer (spec.md §4.5). It builds on
// golang.org/x/image/vector for path coverage, the way
// _examples/cogentcore-core/paint implies the teacher's own rasterizer
// is built, and operates throughout in the pipeline's one pixel format,
// premultiplied RGBA8.
package rasterize

import (
	"image"
	gocolor "image/color"
	"image/draw"

	"wavyte.dev/wavyte/color"
)

// bufferImage adapts a *color.Buffer to draw.Image so golang.org/x/image/
// vector.Rasterizer can composite straight into it. Go's standard color
// model is already alpha-premultiplied at the RGBA() level, which is
// exactly color.Premul's invariant, so no conversion happens in either
// direction beyond 8-to-16-bit channel replication.
type bufferImage struct {
	buf *color.Buffer
}

func (b bufferImage) ColorModel() gocolor.Model { return gocolor.RGBA64Model }

func (b bufferImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.buf.Width, b.buf.Height)
}

func (b bufferImage) At(x, y int) gocolor.Color {
	p := b.buf.AtUnclamped(x, y)
	return premulColor(p)
}

func (b bufferImage) Set(x, y int, c gocolor.Color) {
	r, g, bl, a := c.RGBA()
	b.buf.Set(x, y, color.Premul{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8)})
}

var _ draw.Image = bufferImage{}

// premulColor wraps a color.Premul as a gocolor.Color whose RGBA()
// method reports the same premultiplied channels scaled to 16 bits,
// matching the convention every Go image.Image is expected to follow.
type premulColor color.Premul

func (p premulColor) RGBA() (r, g, b, a uint32) {
	r = uint32(p.R) * 0x101
	g = uint32(p.G) * 0x101
	b = uint32(p.B) * 0x101
	a = uint32(p.A) * 0x101
	return
}

// uniformSampler is a constant-color image.Image, used as the content
// source for FillPath and Text (glyph fill) paints.
type uniformSampler struct {
	c gocolor.Color
}

func (u uniformSampler) ColorModel() gocolor.Model { return gocolor.RGBA64Model }
func (u uniformSampler) Bounds() image.Rectangle   { return image.Rect(-1e6, -1e6, 1e6, 1e6) }
func (u uniformSampler) At(x, y int) gocolor.Color { return u.c }
