// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// BezPathOp is one segment operation in a BezPath.
type BezPathOp int

const (
	// MoveTo starts a new subpath at Pts[0].
	MoveTo BezPathOp = iota
	// LineTo draws a straight line to Pts[0].
	LineTo
	// QuadTo draws a quadratic Bezier via control Pts[0] to endpoint Pts[1].
	QuadTo
	// CubeTo draws a cubic Bezier via controls Pts[0],Pts[1] to endpoint Pts[2].
	CubeTo
	// ClosePath closes the current subpath back to its start.
	ClosePath
)

// BezPathSeg is one op of a BezPath plus its operand points.
type BezPathSeg struct {
	Op  BezPathOp
	Pts [3]Vector2
}

// BezPath is a sequence of path segments, the parsed form of an SVG
// path "d" attribute (spec.md §3, Asset.Path).
type BezPath []BezPathSeg

// MoveTo appends a MoveTo segment.
func (p *BezPath) MoveTo(pt Vector2) { *p = append(*p, BezPathSeg{Op: MoveTo, Pts: [3]Vector2{pt}}) }

// LineTo appends a LineTo segment.
func (p *BezPath) LineTo(pt Vector2) { *p = append(*p, BezPathSeg{Op: LineTo, Pts: [3]Vector2{pt}}) }

// QuadTo appends a QuadTo segment.
func (p *BezPath) QuadTo(ctrl, pt Vector2) {
	*p = append(*p, BezPathSeg{Op: QuadTo, Pts: [3]Vector2{ctrl, pt}})
}

// CubeTo appends a CubeTo segment.
func (p *BezPath) CubeTo(c1, c2, pt Vector2) {
	*p = append(*p, BezPathSeg{Op: CubeTo, Pts: [3]Vector2{c1, c2, pt}})
}

// Close appends a ClosePath segment.
func (p *BezPath) Close() { *p = append(*p, BezPathSeg{Op: ClosePath}) }

// Bounds computes the axis-aligned bounding box of the path's on-curve
// and control points (a loose but cheap bound, sufficient for sizing
// raster targets).
func (p BezPath) Bounds() (min, max Vector2) {
	first := true
	consider := func(v Vector2) {
		if first {
			min, max = v, v
			first = false
			return
		}
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	for _, seg := range p {
		switch seg.Op {
		case MoveTo, LineTo:
			consider(seg.Pts[0])
		case QuadTo:
			consider(seg.Pts[0])
			consider(seg.Pts[1])
		case CubeTo:
			consider(seg.Pts[0])
			consider(seg.Pts[1])
			consider(seg.Pts[2])
		}
	}
	return min, max
}
