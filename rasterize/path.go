// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rasterize

import (
	"image"

	"golang.org/x/image/vector"

	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

// renderMasked rasterizes path (already in the target surface's pixel
// space) into a fully-transparent scratch buffer the size of dst using
// src as the per-pixel content, then composites the scratch buffer onto
// dst with opacity and blend (spec.md §4.5: "Opacity < 1 is expressed
// as a push/pop opacity layer"). Separating coverage-rasterization from
// composite lets every DrawOp kind share one blend-aware composite step
// regardless of how its content pixels were produced.
func renderMasked(dst *color.Buffer, path []pathCmd, src image.Image, opacity float64, blend model.BlendMode) {
	scratch := color.NewBuffer(dst.Width, dst.Height)
	z := vector.NewRasterizer(dst.Width, dst.Height)
	for _, cmd := range path {
		cmd.apply(z)
	}
	z.Draw(bufferImage{scratch}, image.Rect(0, 0, scratch.Width, scratch.Height), src, image.Point{})
	CompositeOver(dst, scratch, opacity, blend)
}

// pathCmd is one transformed path segment, deferred so FillPath and
// PaintPixmap/PaintText can build a command list before touching the
// rasterizer (keeps the transform math in one place: transformBezPath).
type pathCmd struct {
	op  math32.BezPathOp
	pts [3]math32.Vector2
}

func (c pathCmd) apply(z *vector.Rasterizer) {
	switch c.op {
	case math32.MoveTo:
		z.MoveTo(c.pts[0].X, c.pts[0].Y)
	case math32.LineTo:
		z.LineTo(c.pts[0].X, c.pts[0].Y)
	case math32.QuadTo:
		z.QuadTo(c.pts[0].X, c.pts[0].Y, c.pts[1].X, c.pts[1].Y)
	case math32.CubeTo:
		z.CubeTo(c.pts[0].X, c.pts[0].Y, c.pts[1].X, c.pts[1].Y, c.pts[2].X, c.pts[2].Y)
	case math32.ClosePath:
		z.ClosePath()
	}
}

func transformBezPath(path math32.BezPath, transform math32.Matrix2) []pathCmd {
	cmds := make([]pathCmd, len(path))
	for i, seg := range path {
		var pts [3]math32.Vector2
		for j, p := range seg.Pts {
			pts[j] = transform.MulPoint(p)
		}
		cmds[i] = pathCmd{op: seg.Op, pts: pts}
	}
	return cmds
}

// FillPath rasterizes a solid-color path (spec.md §4.5's "Scene pass"
// FillPath draw op), filling with the nonzero winding rule via
// golang.org/x/image/vector's default fill rule.
func FillPath(dst *color.Buffer, path math32.BezPath, transform math32.Matrix2, fill color.Premul, opacity float64, blend model.BlendMode) {
	cmds := transformBezPath(path, transform)
	renderMasked(dst, cmds, uniformSampler{premulColor(fill)}, opacity, blend)
}

// PaintText fills each glyph run in layout with brush, one fill per run
// as spec.md §4.5 requires ("Text paint: glyph runs from the prepared
// layout; one fill per run using its brush color"). Each run's path is
// already baked to the layout's local pixel space at prepare time; here
// it is transformed the same way any other paint op's geometry is.
func PaintText(dst *color.Buffer, runs []math32.BezPath, transform math32.Matrix2, brush color.Premul, opacity float64, blend model.BlendMode) {
	for _, run := range runs {
		cmds := transformBezPath(run, transform)
		renderMasked(dst, cmds, uniformSampler{premulColor(brush)}, opacity, blend)
	}
}

// quadPath returns the four-corner outline of [0,w]x[0,h], the local
// pixel-space rectangle Image/Svg/Video paints place their content in
// before the draw op's transform maps it into the surface.
func quadPath(w, h float32) math32.BezPath {
	var p math32.BezPath
	p.MoveTo(math32.Vec2(0, 0))
	p.LineTo(math32.Vec2(w, 0))
	p.LineTo(math32.Vec2(w, h))
	p.LineTo(math32.Vec2(0, h))
	p.Close()
	return p
}
