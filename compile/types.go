// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile turns one EvaluatedGraph into a RenderPlan: a DAG of
// surfaces and passes the CPU executor replays with no further
// knowledge of the composition (spec.md §4.3). Compile is pure — no
// I/O, no clock reads, no pool allocation (that happens at execute
// time against the surface pool).
package compile

import (
	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

// SurfaceID indexes RenderPlan.Surfaces. 0 is always the final canvas
// surface.
type SurfaceID int

// SurfaceDesc describes one surface's allocation bucket.
type SurfaceDesc struct {
	Width, Height int
}

// RenderPlan is the compiled, pure description of one frame: every
// surface it needs and the ordered passes that fill them.
type RenderPlan struct {
	Canvas       foundation.Canvas
	Surfaces     []SurfaceDesc
	Passes       []Pass
	FinalSurface SurfaceID
}

// NewSurface appends a surface of the given dimensions and returns its id.
func (p *RenderPlan) NewSurface(w, h int) SurfaceID {
	id := SurfaceID(len(p.Surfaces))
	p.Surfaces = append(p.Surfaces, SurfaceDesc{Width: w, Height: h})
	return id
}

// PassKind tags which Pass variant is populated.
type PassKind int

const (
	PassScene PassKind = iota
	PassOffscreen
	PassComposite
)

// Pass is one step of the plan: render leaves into a surface (Scene),
// apply an offscreen fx between two surfaces (Offscreen), or composite
// several surfaces into one (Composite).
type Pass struct {
	Kind PassKind

	// Scene
	Target             SurfaceID
	Ops                []DrawOp
	ClearToTransparent bool

	// Offscreen
	Input, Output SurfaceID
	Fx            PassFx

	// Composite (reuses Target)
	CompositeOps []CompositeOp
}

// DrawOpKind tags which payload fields of DrawOp are populated.
type DrawOpKind int

const (
	DrawFillPath DrawOpKind = iota
	DrawImage
	DrawSvg
	DrawText
	DrawVideo
)

// DrawOp is one leaf paint operation within a Scene pass.
type DrawOp struct {
	Kind      DrawOpKind
	Transform math32.Matrix2
	Opacity   float64
	Blend     model.BlendMode
	Z         int

	// FillPath
	Path  math32.BezPath
	Color color.Premul

	// Image/Svg/Text/Video: the asset key resolved against the
	// composition's asset map (a Go-native stand-in for the original
	// engine's hashed AssetId — see DESIGN.md).
	AssetKey string

	// Video only
	SourceTimeS float64
}

// CompositeOpKind tags which payload fields of CompositeOp are
// populated.
type CompositeOpKind int

const (
	CompositeOver CompositeOpKind = iota
	CompositeCrossfade
	CompositeWipe
	CompositeSlide
	CompositeZoom
	CompositeIris
)

// CompositeOp is one step of a Composite pass, each reading one or two
// surfaces and writing into the pass's target.
type CompositeOp struct {
	Kind CompositeOpKind

	// Over
	Src     SurfaceID
	Opacity float64
	Blend   model.BlendMode

	// Crossfade/Wipe/Slide/Zoom/Iris
	A, B SurfaceID
	T    float64

	// Wipe/Slide
	Dir       WipeDir
	SoftEdge  float64
	Push      bool
	ZoomFrom  float64
	Origin    math32.Vector2
	IrisShape IrisShape
}
