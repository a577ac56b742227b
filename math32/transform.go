// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Transform2D is the animatable, decomposed form of a node's placement:
// translate, rotation, scale, and an anchor point used as the pivot for
// both rotation and scale. Skew is not independently animatable but is
// folded in at zero by default, matching spec.md's realization order.
type Transform2D struct {
	Translate Vector2
	RotateRad float32
	Scale     Vector2
	Anchor    Vector2
	Skew      Vector2 // radians, (x, y); zero unless the transform value sets it
}

// IdentityTransform2D returns a Transform2D with no translation,
// rotation, unit scale, and no anchor offset.
func IdentityTransform2D() Transform2D {
	return Transform2D{Scale: Vec2(1, 1)}
}

// Lerp linearly interpolates each component independently (translate,
// rotation angle, scale, anchor, skew), matching the original engine's
// component-wise Transform2D lerp.
func (t Transform2D) Lerp(o Transform2D, f float64) Transform2D {
	return Transform2D{
		Translate: t.Translate.Lerp(o.Translate, f),
		RotateRad: t.RotateRad + (o.RotateRad-t.RotateRad)*float32(f),
		Scale:     t.Scale.Lerp(o.Scale, f),
		Anchor:    t.Anchor.Lerp(o.Anchor, f),
		Skew:      t.Skew.Lerp(o.Skew, f),
	}
}

// Affine realizes the decomposed transform as a single affine matrix:
//
//	T(translate) . T(anchor) . Skew . R(rot) . S(scale) . T(-anchor)
//
// matching spec.md §3 exactly.
func (t Transform2D) Affine() Matrix2 {
	m := Translate2D(t.Translate.X, t.Translate.Y)
	m = m.Mul(Translate2D(t.Anchor.X, t.Anchor.Y))
	if t.Skew.X != 0 || t.Skew.Y != 0 {
		m = m.Mul(Skew2D(t.Skew.X, t.Skew.Y))
	}
	m = m.Mul(Rotate2D(t.RotateRad))
	m = m.Mul(Scale2D(t.Scale.X, t.Scale.Y))
	m = m.Mul(Translate2D(-t.Anchor.X, -t.Anchor.Y))
	return m
}
