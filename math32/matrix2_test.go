// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const standardTol = float32(1.0e-5)

func tolAssertEqualVector(t *testing.T, want, got Vector2) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, float64(standardTol))
	assert.InDelta(t, want.Y, got.Y, float64(standardTol))
}

func TestMatrix2Basics(t *testing.T) {
	v0 := Vec2(0, 0)
	vx := Vec2(1, 0)
	vy := Vec2(0, 1)
	vxy := Vec2(1, 1)

	rot90 := DegToRad(90)
	rot45 := DegToRad(45)

	assert.Equal(t, vx, Identity3().MulPoint(vx))
	assert.Equal(t, vy, Identity3().MulPoint(vy))
	assert.Equal(t, vxy, Identity3().MulPoint(vxy))

	assert.Equal(t, vxy, Translate2D(1, 1).MulPoint(v0))
	assert.Equal(t, vxy.MulScalar(2), Scale2D(2, 2).MulPoint(vxy))

	tolAssertEqualVector(t, vy, Rotate2D(rot90).MulPoint(vx))
	tolAssertEqualVector(t, vx, Rotate2D(-rot90).MulPoint(vy))
	tolAssertEqualVector(t, vxy.Normal(), Rotate2D(rot45).MulPoint(vx))

	tolAssertEqualVector(t, vxy, Rotate2D(-rot45).Mul(Rotate2D(rot45)).MulPoint(vxy))

	assert.InDelta(t, float64(rot45), float64(Rotate2D(rot45).ExtractRot()), float64(standardTol))
}

func TestMatrix2Inverse(t *testing.T) {
	m := Translate2D(3, 4).Mul(Rotate2D(DegToRad(30))).Mul(Scale2D(2, 0.5))
	inv := m.Inverse()
	p := Vec2(5, -2)
	roundTrip := inv.MulPoint(m.MulPoint(p))
	tolAssertEqualVector(t, p, roundTrip)
}

func TestTransform2DAffine(t *testing.T) {
	tr := Transform2D{
		Translate: Vec2(10, 0),
		RotateRad: DegToRad(90),
		Scale:     Vec2(1, 1),
		Anchor:    Vec2(0, 0),
	}
	got := tr.Affine().MulPoint(Vec2(1, 0))
	tolAssertEqualVector(t, Vec2(10, 1), got)
}

func TestTransform2DAnchorPivot(t *testing.T) {
	// Rotating 180 degrees around anchor (1,0) should map (2,0) to (0,0).
	tr := Transform2D{
		RotateRad: DegToRad(180),
		Scale:     Vec2(1, 1),
		Anchor:    Vec2(1, 0),
	}
	got := tr.Affine().MulPoint(Vec2(2, 0))
	tolAssertEqualVector(t, Vec2(0, 0), got)
}
