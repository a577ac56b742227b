// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math32 provides the foundation numeric types the render
// pipeline is built on: 2D vectors, affine transforms, Bezier paths, and
// SVG path-data parsing. It deliberately covers only what the composition model
// needs (no 3D, no quaternions).
package math32

import "math"

// Vector2 is a 2D vector or point with float32 components.
type Vector2 struct {
	X, Y float32
}

// Vec2 returns a new Vector2 with the given components.
func Vec2(x, y float32) Vector2 { return Vector2{X: x, Y: y} }

// Vector2Scalar returns a new Vector2 with both components set to s.
func Vector2Scalar(s float32) Vector2 { return Vector2{X: s, Y: s} }

// Add returns the sum of two vectors.
func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }

// Sub returns the difference of two vectors.
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }

// MulScalar scales the vector by s.
func (v Vector2) MulScalar(s float32) Vector2 { return Vector2{v.X * s, v.Y * s} }

// Lerp linearly interpolates between v and o by t in [0,1].
func (v Vector2) Lerp(o Vector2, t float64) Vector2 {
	return Vector2{
		X: v.X + (o.X-v.X)*float32(t),
		Y: v.Y + (o.Y-v.Y)*float32(t),
	}
}

// Length returns the Euclidean length of the vector.
func (v Vector2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normal returns a unit vector in the same direction; the zero vector
// if v is zero.
func (v Vector2) Normal() Vector2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.MulScalar(1 / l)
}

// IsFinite reports whether both components are finite (not NaN or Inf).
func (v Vector2) IsFinite() bool {
	return !math.IsNaN(float64(v.X)) && !math.IsInf(float64(v.X), 0) &&
		!math.IsNaN(float64(v.Y)) && !math.IsInf(float64(v.Y), 0)
}

// DegToRad converts degrees to radians.
func DegToRad(d float32) float32 { return d * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(r float32) float32 { return r * 180 / math.Pi }

// Clamp01 clamps v to [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
