// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package color provides the single pixel format used end-to-end by the
// render pipeline: premultiplied RGBA8. Every intermediate surface and
// every delivered frame is in this format (spec.md §3 invariants).
package color

import "math"

// Premul is a premultiplied RGBA8 pixel: each of R, G, B is already
// scaled by A/255.
type Premul struct {
	R, G, B, A uint8
}

// FromStraightRGBA8 premultiplies a straight-alpha RGBA8 color.
func FromStraightRGBA8(r, g, b, a uint8) Premul {
	return Premul{
		R: Mul8(r, a),
		G: Mul8(g, a),
		B: Mul8(b, a),
		A: a,
	}
}

// Mul8 computes round(x*y/255), the channel-math rule spec.md §4.5
// mandates for all u8*u8 products.
func Mul8(x, y uint8) uint8 {
	return uint8(RoundHalfAwayFromZero(float64(x) * float64(y) / 255))
}

// RoundHalfAwayFromZero implements the rounding rule spec.md §4.5
// mandates for all integer conversions.
func RoundHalfAwayFromZero(v float64) int {
	if v >= 0 {
		return int(math.Floor(v + 0.5))
	}
	return int(math.Ceil(v - 0.5))
}

// ClampByte saturates v to [0, 255] and rounds half-away-from-zero.
func ClampByte(v float64) uint8 {
	r := RoundHalfAwayFromZero(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

// Lerp linearly interpolates two premultiplied pixels by t in [0,1]
// (unclamped; callers clamp t).
func Lerp(a, b Premul, t float64) Premul {
	l := func(x, y uint8) uint8 {
		return ClampByte(float64(x) + (float64(y)-float64(x))*t)
	}
	return Premul{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: l(a.A, b.A)}
}

// Lerp is the method form of Lerp, satisfying anim.Interpolator so
// Premul can be used as a keyframed animated property value.
func (p Premul) Lerp(o Premul, t float64) Premul { return Lerp(p, o, t) }

// Over composites src over dst (both premultiplied), with an extra
// opacity multiplier applied to src first, using standard Porter-Duff
// source-over: out = src*opacity + dst*(1 - src.A*opacity/255).
func Over(dst, src Premul, opacity float64) Premul {
	if opacity <= 0 {
		return dst
	}
	sr := float64(src.R) * opacity
	sg := float64(src.G) * opacity
	sb := float64(src.B) * opacity
	sa := float64(src.A) * opacity
	inv := 1 - sa/255
	return Premul{
		R: ClampByte(sr + float64(dst.R)*inv),
		G: ClampByte(sg + float64(dst.G)*inv),
		B: ClampByte(sb + float64(dst.B)*inv),
		A: ClampByte(sa + float64(dst.A)*inv),
	}
}

// Unpremultiply converts a premultiplied pixel to straight RGB channels
// in [0,255] as float64, leaving alpha untouched. Used by ColorMatrix,
// which operates on unpremultiplied color (spec.md §4.5).
func (p Premul) Unpremultiply() (r, g, b float64) {
	if p.A == 0 {
		return 0, 0, 0
	}
	a := float64(p.A)
	return float64(p.R) * 255 / a, float64(p.G) * 255 / a, float64(p.B) * 255 / a
}

// Repremultiply builds a premultiplied pixel from straight RGB channels
// (0..255, unclamped input) and an alpha byte.
func Repremultiply(r, g, b float64, a uint8) Premul {
	af := float64(a) / 255
	return Premul{
		R: ClampByte(r * af),
		G: ClampByte(g * af),
		B: ClampByte(b * af),
		A: a,
	}
}

// Luma returns the Rec. 709 luma of a premultiplied pixel's color
// channels, per spec.md's MaskApply Luma formula:
// 0.2126R + 0.7152G + 0.0722B.
func (p Premul) Luma() float64 {
	return 0.2126*float64(p.R) + 0.7152*float64(p.G) + 0.0722*float64(p.B)
}
