// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePathDUnitSquare(t *testing.T) {
	p, err := ParsePathD("M0,0 L1,0 L1,1 L0,1 Z")
	assert.NoError(t, err)
	assert.Len(t, p, 5)
	assert.Equal(t, MoveTo, p[0].Op)
	assert.Equal(t, ClosePath, p[4].Op)
	min, max := p.Bounds()
	assert.Equal(t, Vec2(0, 0), min)
	assert.Equal(t, Vec2(1, 1), max)
}

func TestParsePathDRelativeAndCurve(t *testing.T) {
	p, err := ParsePathD("M10,10 c1,2 3,4 5,6 z")
	assert.NoError(t, err)
	assert.Len(t, p, 3)
	assert.Equal(t, CubeTo, p[1].Op)
	assert.Equal(t, Vec2(15, 16), p[1].Pts[2])
}

func TestParsePathDRejectsArc(t *testing.T) {
	_, err := ParsePathD("M0,0 A1,1 0 0 0 1,1")
	assert.Error(t, err)
}
