// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import "math"

// Matrix2 is a 2D affine transform matrix, stored in the layout
//
//	| XX  XY  X0 |
//	| YX  YY  Y0 |
//	| 0   0   1  |
//
// so that MulPoint applies XX,YX,XY,YY as the linear part and X0,Y0 as
// the translation. This is the only transform representation used
// end-to-end by the evaluator, compiler, and executor (spec's "Affine").
type Matrix2 struct {
	XX, YX, XY, YY, X0, Y0 float32
}

// Identity3 returns the identity affine transform.
func Identity3() Matrix2 {
	return Matrix2{XX: 1, YY: 1}
}

// Translate2D returns a pure translation transform.
func Translate2D(x, y float32) Matrix2 {
	return Matrix2{XX: 1, YY: 1, X0: x, Y0: y}
}

// Scale2D returns a pure scale transform.
func Scale2D(x, y float32) Matrix2 {
	return Matrix2{XX: x, YY: y}
}

// Rotate2D returns a pure rotation transform of angle radians,
// turning +X toward +Y, which is clockwise on screen in a Y-down pixel
// space.
func Rotate2D(angle float32) Matrix2 {
	s, c := math.Sincos(float64(angle))
	return Matrix2{XX: float32(c), YX: float32(s), XY: float32(-s), YY: float32(c)}
}

// Skew2D returns a pure skew transform, angles in radians.
func Skew2D(x, y float32) Matrix2 {
	return Matrix2{XX: 1, YX: float32(math.Tan(float64(y))), XY: float32(math.Tan(float64(x))), YY: 1}
}

// Mul returns m composed with o such that the result applies o first,
// then m: (m.Mul(o)).MulPoint(p) == m.MulPoint(o.MulPoint(p)).
func (m Matrix2) Mul(o Matrix2) Matrix2 {
	return Matrix2{
		XX: m.XX*o.XX + m.XY*o.YX,
		YX: m.YX*o.XX + m.YY*o.YX,
		XY: m.XX*o.XY + m.XY*o.YY,
		YY: m.YX*o.XY + m.YY*o.YY,
		X0: m.XX*o.X0 + m.XY*o.Y0 + m.X0,
		Y0: m.YX*o.X0 + m.YY*o.Y0 + m.Y0,
	}
}

// MulPoint applies the affine transform to a point.
func (m Matrix2) MulPoint(p Vector2) Vector2 {
	return Vector2{
		X: m.XX*p.X + m.XY*p.Y + m.X0,
		Y: m.YX*p.X + m.YY*p.Y + m.Y0,
	}
}

// MulVector applies only the linear part (no translation) to a vector.
func (m Matrix2) MulVector(v Vector2) Vector2 {
	return Vector2{X: m.XX*v.X + m.XY*v.Y, Y: m.YX*v.X + m.YY*v.Y}
}

// Determinant returns the determinant of the linear part.
func (m Matrix2) Determinant() float32 {
	return m.XX*m.YY - m.XY*m.YX
}

// Inverse returns the inverse transform. Returns the identity if m is
// singular (determinant exactly 0).
func (m Matrix2) Inverse() Matrix2 {
	det := m.Determinant()
	if det == 0 {
		return Identity3()
	}
	inv := 1 / det
	xx := m.YY * inv
	yx := -m.YX * inv
	xy := -m.XY * inv
	yy := m.XX * inv
	return Matrix2{
		XX: xx, YX: yx, XY: xy, YY: yy,
		X0: -(xx*m.X0 + xy*m.Y0),
		Y0: -(yx*m.X0 + yy*m.Y0),
	}
}

// ExtractRot extracts the rotation angle (radians) encoded in the
// linear part, assuming no skew.
func (m Matrix2) ExtractRot() float32 {
	return float32(math.Atan2(float64(m.YX), float64(m.XX)))
}

// MaxScale returns the larger of the two approximate axis scale
// factors carried by the linear part, used to size raster targets for
// vector content (SVG) relative to their base size.
func (m Matrix2) MaxScale() float32 {
	sx := Vec2(m.XX, m.YX).Length()
	sy := Vec2(m.XY, m.YY).Length()
	if sx > sy {
		return sx
	}
	return sy
}

// IsFinite reports whether every coefficient is finite.
func (m Matrix2) IsFinite() bool {
	for _, f := range [...]float32{m.XX, m.YX, m.XY, m.YY, m.X0, m.Y0} {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}

// Coeffs returns the six affine coefficients in the fixed order used by
// the fingerprinter: XX, YX, XY, YY, X0, Y0.
func (m Matrix2) Coeffs() [6]float32 {
	return [6]float32{m.XX, m.YX, m.XY, m.YY, m.X0, m.Y0}
}
