// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render is the CPU pass executor: it replays a compile.RenderPlan
// against a surfacepool.Pool and an assets.Store with no further knowledge
// of the composition that produced it (spec.md §4.5). Every surface
// referenced by the plan is borrowed from the pool at first use and
// returned on frame completion, success or failure alike.
package render

import (
	"wavyte.dev/wavyte/assets"
	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/compile"
	"wavyte.dev/wavyte/internal/werror"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
	"wavyte.dev/wavyte/rasterize"
	"wavyte.dev/wavyte/surfacepool"
)

// Config bounds one Executor's session-scoped behavior.
type Config struct {
	// ClearColor is the premultiplied color surface 0 starts each frame
	// with, before any pass writes into it (spec.md §4.5: "Surface 0 is
	// pre-cleared to the session clear color (premultiplied) or
	// transparent").
	ClearColor color.Premul

	VideoCacheCapacity  int
	VideoPrefetchFrames int
}

// Executor replays compiled RenderPlans. One Executor is built per
// RenderSession and reused across every frame in that session, so its
// image/svg pixmap caches and video frame cache persist across frames.
type Executor struct {
	assets *assets.Store
	pool   *surfacepool.Pool
	cfg    Config

	videoCache *VideoFrameCache
	imageCache map[string]rasterize.Pixmap
	svgCache   map[svgCacheKey]rasterize.Pixmap
}

// NewExecutor constructs an Executor against a decoded asset store and a
// surface pool, both owned by the caller for the session's lifetime.
func NewExecutor(store *assets.Store, pool *surfacepool.Pool, cfg Config) *Executor {
	return &Executor{
		assets:     store,
		pool:       pool,
		cfg:        cfg,
		videoCache: NewVideoFrameCache(cfg.VideoCacheCapacity, cfg.VideoPrefetchFrames),
		imageCache: map[string]rasterize.Pixmap{},
		svgCache:   map[svgCacheKey]rasterize.Pixmap{},
	}
}

// Close releases every open video decoder. Call once at session teardown.
func (e *Executor) Close() {
	e.videoCache.Close()
}

// Execute renders one compiled plan to a freshly allocated buffer holding
// plan.FinalSurface's pixels. Every surface the plan touches is borrowed
// from the pool and released back to it before Execute returns, whether
// it returns a frame or an error (spec.md §4.5, §7: "The executor
// guarantees that the surface pool is left in a consistent state
// regardless of which op failed").
func (e *Executor) Execute(plan *compile.RenderPlan) (*color.Buffer, error) {
	surfaces := make([]*color.Buffer, len(plan.Surfaces))
	borrowed := make([]bool, len(plan.Surfaces))

	borrow := func(id compile.SurfaceID) *color.Buffer {
		if surfaces[id] == nil {
			surfaces[id] = e.pool.Borrow(plan.Surfaces[id])
			borrowed[id] = true
		}
		return surfaces[id]
	}

	release := func() {
		for id, buf := range surfaces {
			if borrowed[id] && buf != nil {
				e.pool.Release(plan.Surfaces[compile.SurfaceID(id)], buf)
			}
		}
	}

	canvas := borrow(0)
	fillColor(canvas, e.cfg.ClearColor)

	for _, pass := range plan.Passes {
		var err error
		switch pass.Kind {
		case compile.PassScene:
			err = e.execScene(plan, pass, borrow)
		case compile.PassOffscreen:
			err = e.execOffscreen(pass, borrow)
		case compile.PassComposite:
			err = e.execComposite(pass, borrow)
		default:
			err = werror.Evaluationf("render: unknown pass kind %d", pass.Kind)
		}
		if err != nil {
			release()
			return nil, err
		}
	}

	final, ok := surfaceAt(surfaces, plan.FinalSurface)
	if !ok {
		release()
		return nil, werror.Evaluationf("render: final surface %d was never produced", plan.FinalSurface)
	}
	out := color.NewBuffer(final.Width, final.Height)
	color.CloneInto(out, final)
	release()
	return out, nil
}

func surfaceAt(surfaces []*color.Buffer, id compile.SurfaceID) (*color.Buffer, bool) {
	if int(id) < 0 || int(id) >= len(surfaces) || surfaces[id] == nil {
		return nil, false
	}
	return surfaces[id], true
}

func fillColor(buf *color.Buffer, c color.Premul) {
	if c == (color.Premul{}) {
		buf.Clear()
		return
	}
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			buf.Set(x, y, c)
		}
	}
}

// execScene runs a Scene pass's draw ops in order (spec.md §4.5: "each
// node gets its own individual Scene pass"). clear_to_transparent passes
// memset their target first; the rest render into a scratch surface and
// source-over the result onto the (already-populated) target.
func (e *Executor) execScene(plan *compile.RenderPlan, pass compile.Pass, borrow func(compile.SurfaceID) *color.Buffer) error {
	target := borrow(pass.Target)
	if pass.ClearToTransparent {
		target.Clear()
		for _, op := range pass.Ops {
			if err := e.execDrawOp(target, op); err != nil {
				return err
			}
		}
		return nil
	}

	desc := plan.Surfaces[pass.Target]
	scratch := color.NewBuffer(desc.Width, desc.Height)
	for _, op := range pass.Ops {
		if err := e.execDrawOp(scratch, op); err != nil {
			return err
		}
	}
	rasterize.CompositeOver(target, scratch, 1, model.BlendNormal)
	return nil
}

func (e *Executor) execDrawOp(dst *color.Buffer, op compile.DrawOp) error {
	switch op.Kind {
	case compile.DrawFillPath:
		rasterize.FillPath(dst, op.Path, op.Transform, op.Color, op.Opacity, op.Blend)
		return nil

	case compile.DrawImage:
		pm, err := e.imagePixmap(op.AssetKey)
		if err != nil {
			return err
		}
		rasterize.PaintPixmap(dst, pm, op.Transform, op.Opacity, op.Blend)
		return nil

	case compile.DrawSvg:
		pm, err := e.svgPixmap(op.AssetKey, op.Transform)
		if err != nil {
			return err
		}
		rasterize.PaintPixmap(dst, pm, op.Transform, op.Opacity, op.Blend)
		return nil

	case compile.DrawVideo:
		pm, err := e.videoPixmap(op.AssetKey, op.SourceTimeS)
		if err != nil {
			return err
		}
		rasterize.PaintPixmap(dst, pm, op.Transform, op.Opacity, op.Blend)
		return nil

	case compile.DrawText:
		prepared, ok := e.assets.GetByKey(op.AssetKey)
		if !ok {
			return werror.Evaluationf("render: unknown asset key %q", op.AssetKey)
		}
		if prepared.Kind != model.AssetText {
			return werror.Evaluationf("render: asset %q is not text", op.AssetKey)
		}
		brush := prepared.Text.Brush
		runs := make([]math32.BezPath, len(prepared.Text.Layout.Runs))
		for i, r := range prepared.Text.Layout.Runs {
			runs[i] = r.Path
		}
		rasterize.PaintText(dst, runs, op.Transform, color.Premul{R: brush.R, G: brush.G, B: brush.B, A: brush.A}, op.Opacity, op.Blend)
		return nil

	default:
		return werror.Evaluationf("render: unknown draw op kind %d", op.Kind)
	}
}

// execOffscreen applies one pass-effect between two surfaces (spec.md
// §4.5's four offscreen-pass algorithms).
func (e *Executor) execOffscreen(pass compile.Pass, borrow func(compile.SurfaceID) *color.Buffer) error {
	in := borrow(pass.Input)
	out := borrow(pass.Output)

	switch pass.Fx.Kind {
	case compile.EffectBlur:
		blurred, err := rasterize.Blur(in, pass.Fx.BlurRadiusPx, pass.Fx.BlurSigma)
		if err != nil {
			return err
		}
		color.CloneInto(out, blurred)

	case compile.EffectColorMatrix:
		color.CloneInto(out, rasterize.ColorMatrix(in, pass.Fx.ColorMatrix))

	case compile.EffectMaskApply:
		maskPm, err := e.resolvePixmap(pass.Fx.MaskAssetKey, 0)
		if err != nil {
			return err
		}
		maskBuf := color.NewBuffer(in.Width, in.Height)
		rasterize.PaintPixmap(maskBuf, maskPm, fitTransform(maskPm, in.Width, in.Height), 1, model.BlendNormal)
		masked := rasterize.MaskApply(in, maskBuf, rasterize.MaskMode(pass.Fx.MaskMode), pass.Fx.MaskInverted, pass.Fx.MaskThreshold)
		color.CloneInto(out, masked)

	case compile.EffectDropShadow:
		shadowed, err := rasterize.DropShadow(in, int(pass.Fx.ShadowOffset.X), int(pass.Fx.ShadowOffset.Y), pass.Fx.ShadowBlurRadiusPx, pass.Fx.ShadowSigma, pass.Fx.ShadowColor)
		if err != nil {
			return err
		}
		color.CloneInto(out, shadowed)

	default:
		return werror.Evaluationf("render: unsupported offscreen effect kind %d", pass.Fx.Kind)
	}
	return nil
}

// fitTransform stretches a pixmap's intrinsic w*h to exactly fill
// targetW*targetH — MaskApply needs a mask the same size as its input,
// and mask assets carry no layout of their own to preserve aspect ratio
// against.
func fitTransform(pm rasterize.Pixmap, targetW, targetH int) math32.Matrix2 {
	if pm.Width == 0 || pm.Height == 0 {
		return math32.Identity3()
	}
	return math32.Scale2D(float32(targetW)/float32(pm.Width), float32(targetH)/float32(pm.Height))
}

// execComposite runs the frame's single terminal Composite pass (spec.md
// §4.5's five composite-op algorithms).
func (e *Executor) execComposite(pass compile.Pass, borrow func(compile.SurfaceID) *color.Buffer) error {
	target := borrow(pass.Target)
	for _, op := range pass.CompositeOps {
		switch op.Kind {
		case compile.CompositeOver:
			rasterize.CompositeOver(target, borrow(op.Src), op.Opacity, op.Blend)
		case compile.CompositeCrossfade:
			rasterize.CompositeCrossfade(target, borrow(op.A), borrow(op.B), op.T)
		case compile.CompositeWipe:
			rasterize.CompositeWipe(target, borrow(op.A), borrow(op.B), op.T, rasterize.WipeDir(op.Dir), op.SoftEdge)
		case compile.CompositeSlide:
			rasterize.CompositeSlide(target, borrow(op.A), borrow(op.B), op.T, rasterize.WipeDir(op.Dir), op.Push)
		case compile.CompositeZoom:
			rasterize.CompositeZoom(target, borrow(op.A), borrow(op.B), op.T, op.Origin, op.ZoomFrom)
		case compile.CompositeIris:
			rasterize.CompositeIris(target, borrow(op.A), borrow(op.B), op.T, op.Origin, rasterize.IrisShape(op.IrisShape), op.SoftEdge)
		default:
			return werror.Evaluationf("render: unknown composite op kind %d", op.Kind)
		}
	}
	return nil
}
