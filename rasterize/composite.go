// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rasterize

import (
	"math"

	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

// CompositeOver composites src onto dst in place, both premultiplied
// RGBA8 buffers of identical dimensions, with an extra opacity
// multiplier and optional non-Normal blend mode (spec.md §4.5's Over
// composite op; pixel math grounded on composite_cpu.rs's over, which
// color.Over already implements exactly for BlendNormal).
func CompositeOver(dst, src *color.Buffer, opacity float64, blend model.BlendMode) {
	if opacity <= 0 {
		return
	}
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			d := dst.AtUnclamped(x, y)
			s := src.AtUnclamped(x, y)
			if blend != model.BlendNormal {
				s = applyBlendMode(d, s, blend)
			}
			dst.Set(x, y, color.Over(d, s, opacity))
		}
	}
}

// applyBlendMode recombines src's blend function B(sc,dc) under alpha:
// out_p = sp*(1-da) + dp*(1-sa) + B(sc,dc)*sa*da (spec.md §4.5, Over
// with a non-Normal blend). Operates on unpremultiplied color per
// channel via Premul.Unpremultiply, returning a premultiplied pixel
// that color.Over's opacity/source-alpha math composites normally.
func applyBlendMode(dst, src color.Premul, blend model.BlendMode) color.Premul {
	sr, sg, sb := src.Unpremultiply()
	dr, dg, db := dst.Unpremultiply()
	sa, da := float64(src.A)/255, float64(dst.A)/255

	b := func(sc, dc float64) float64 {
		switch blend {
		case model.BlendMultiply:
			return sc * dc / 255
		case model.BlendScreen:
			return 255 - (255-sc)*(255-dc)/255
		case model.BlendDarken:
			return math.Min(sc, dc)
		case model.BlendLighten:
			return math.Max(sc, dc)
		case model.BlendOverlay:
			if dc <= 127.5 {
				return 2 * sc * dc / 255
			}
			return 255 - 2*(255-sc)*(255-dc)/255
		case model.BlendDifference:
			return math.Abs(sc - dc)
		default:
			return sc
		}
	}

	mix := func(sc, dc float64) float64 {
		return sc*(1-da) + b(sc, dc)*da
	}

	// Recombine the blended straight color back under src's own alpha
	// so the returned pixel is premultiplied and ready for color.Over,
	// which contributes the dp*(1-sa) term.
	if src.A == 0 {
		return color.Premul{}
	}
	return color.Premul{
		R: color.ClampByte(mix(sr, dr) * sa),
		G: color.ClampByte(mix(sg, dg) * sa),
		B: color.ClampByte(mix(sb, db) * sa),
		A: src.A,
	}
}

// CompositeCrossfade computes lerp(a,b,t) and composites it onto dst
// via source-over at opacity 1 (spec.md §4.5's Crossfade composite op:
// "pixel = lerp(a, b, t) then source-over onto destination with
// opacity 1"; lerp math grounded on composite_cpu.rs's crossfade).
func CompositeCrossfade(dst, a, b *color.Buffer, t float64) {
	t = clamp01(t)
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			blended := color.Lerp(a.AtUnclamped(x, y), b.AtUnclamped(x, y), t)
			dst.Set(x, y, color.Over(dst.AtUnclamped(x, y), blended, 1))
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// smoothstep is the classic 3t^2-2t^3 Hermite ease used for every
// composite op's soft edge (spec.md §4.5: "soft edge applied via
// smoothstep").
func smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// WipeDir mirrors compile.WipeDir without importing compile (rasterize
// sits below compile in the dependency graph); the render package
// translates compile.WipeDir values across the package boundary.
type WipeDir int

const (
	LeftToRight WipeDir = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

// axisLen and axisPos give a wipe/slide op's position and extent along
// its direction's axis, in pixels from the leading edge.
func axisPos(x, y, w, h int, dir WipeDir) (pos float64, axisLen float64) {
	switch dir {
	case LeftToRight:
		return float64(x), float64(w)
	case RightToLeft:
		return float64(w - 1 - x), float64(w)
	case TopToBottom:
		return float64(y), float64(h)
	default: // BottomToTop
		return float64(h - 1 - y), float64(h)
	}
}

// CompositeWipe reveals b over a along dir as t goes 0→1 (spec.md
// §4.5's Wipe composite op): "compute per-pixel position; if
// soft_edge = 0, the mask is step at edge = t*axis_len; otherwise
// smoothstep from edge-soft_px to edge+soft_px."
func CompositeWipe(dst, a, b *color.Buffer, t float64, dir WipeDir, softEdge float64) {
	t = clamp01(t)
	w, h := dst.Width, dst.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pos, axisLen := axisPos(x, y, w, h, dir)
			edge := t * axisLen
			var mask float64
			if softEdge <= 0 {
				if pos < edge {
					mask = 1
				}
			} else {
				softPx := softEdge * axisLen
				mask = 1 - smoothstep(edge-softPx, edge+softPx, pos)
			}
			pa, pb := a.AtUnclamped(x, y), b.AtUnclamped(x, y)
			dst.Set(x, y, color.Lerp(pa, pb, mask))
		}
	}
}

// CompositeSlide translates b in from dir's leading side by
// (1-t)*axis_len, and when push also translates a out by t*axis_len,
// sampling clamp-to-transparent past either buffer's edge (spec.md
// §4.5's Slide composite op).
func CompositeSlide(dst, a, b *color.Buffer, t float64, dir WipeDir, push bool) {
	t = clamp01(t)
	w, h := dst.Width, dst.Height
	dx, dy := slideOffset(dir, t, w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// b enters from the leading side: offset by (1-t)*axisLen.
			bPix := b.AtUnclamped(x-int(round(dx)), y-int(round(dy)))

			aPix := a.AtUnclamped(x, y)
			if push {
				// a leaves toward the far side: offset by t*axisLen.
				pdx, pdy := slideOffset(dir, 1+t, w, h)
				aPix = a.AtUnclamped(x-int(round(pdx)), y-int(round(pdy)))
			}
			dst.Set(x, y, color.Over(aPix, bPix, 1))
		}
	}
}

// slideOffset returns the (dx,dy) translation applied to the incoming
// layer at progress t along dir: at t=0 it sits fully offscreen on the
// leading side, at t=1 it sits at rest.
func slideOffset(dir WipeDir, t float64, w, h int) (dx, dy float64) {
	rem := 1 - t
	switch dir {
	case LeftToRight:
		return -rem * float64(w), 0
	case RightToLeft:
		return rem * float64(w), 0
	case TopToBottom:
		return 0, -rem * float64(h)
	default: // BottomToTop
		return 0, rem * float64(h)
	}
}

func round(v float64) float64 { return float64(color.RoundHalfAwayFromZero(v)) }

// CompositeZoom scales b around origin (normalized [0,1]^2 within the
// surface) from fromScale toward 1 as t goes 0→1, then crossfades a→b
// by t (spec.md §4.5's Zoom composite op).
func CompositeZoom(dst, a, b *color.Buffer, t float64, origin math32.Vector2, fromScale float64) {
	t = clamp01(t)
	scale := fromScale + (1-fromScale)*t
	if scale <= 0 {
		scale = 0.0001
	}
	w, h := dst.Width, dst.Height
	ox, oy := float64(origin.X)*float64(w), float64(origin.Y)*float64(h)

	zoomed := color.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx := ox + (float64(x)-ox)/scale
			sy := oy + (float64(y)-oy)/scale
			zoomed.Set(x, y, b.AtUnclamped(int(round(sx)), int(round(sy))))
		}
	}
	CompositeCrossfade(dst, a, zoomed, t)
}

// IrisShape mirrors compile.IrisShape (see WipeDir's rationale above).
type IrisShape int

const (
	IrisCircle IrisShape = iota
	IrisRect
	IrisDiamond
)

// irisDistance returns the shape-weighted distance from origin to
// (x,y), normalized so 1.0 reaches the farthest corner of the surface
// (spec.md §4.5: Circle=Euclidean, Rect=Chebyshev, Diamond=Manhattan).
func irisDistance(x, y int, w, h int, origin math32.Vector2, shape IrisShape) float64 {
	ox, oy := float64(origin.X)*float64(w), float64(origin.Y)*float64(h)
	dx, dy := float64(x)-ox, float64(y)-oy

	maxDx := math.Max(ox, float64(w)-ox)
	maxDy := math.Max(oy, float64(h)-oy)

	switch shape {
	case IrisRect:
		nx, ny := 0.0, 0.0
		if maxDx > 0 {
			nx = math.Abs(dx) / maxDx
		}
		if maxDy > 0 {
			ny = math.Abs(dy) / maxDy
		}
		return math.Max(nx, ny)
	case IrisDiamond:
		nx, ny := 0.0, 0.0
		if maxDx > 0 {
			nx = math.Abs(dx) / maxDx
		}
		if maxDy > 0 {
			ny = math.Abs(dy) / maxDy
		}
		return (nx + ny) / 2
	default: // IrisCircle
		maxR := math.Hypot(maxDx, maxDy)
		if maxR <= 0 {
			return 0
		}
		return math.Hypot(dx, dy) / maxR
	}
}

// CompositeIris reveals b over a via a shape-weighted distance mask
// from origin, growing outward as t goes 0→1, with soft_edge applied
// via smoothstep (spec.md §4.5's Iris composite op).
func CompositeIris(dst, a, b *color.Buffer, t float64, origin math32.Vector2, shape IrisShape, softEdge float64) {
	t = clamp01(t)
	w, h := dst.Width, dst.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := irisDistance(x, y, w, h, origin, shape)
			var mask float64
			if softEdge <= 0 {
				if d < t {
					mask = 1
				}
			} else {
				mask = smoothstep(-softEdge, softEdge, t-d)
			}
			pa, pb := a.AtUnclamped(x, y), b.AtUnclamped(x, y)
			dst.Set(x, y, color.Lerp(pa, pb, mask))
		}
	}
}
