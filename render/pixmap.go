// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"hash/fnv"
	"math"

	"wavyte.dev/wavyte/assets"
	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/internal/werror"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
	"wavyte.dev/wavyte/rasterize"
)

type svgCacheKey struct {
	assetKey      string
	rasterW, rasterH int
}

// imagePixmap builds a rasterize.Pixmap directly from a decoded image
// asset's premultiplied bytes, memoized per asset key since the bytes
// never change across frames in a session.
func (e *Executor) imagePixmap(assetKey string) (rasterize.Pixmap, error) {
	if pm, ok := e.imageCache[assetKey]; ok {
		return pm, nil
	}
	prepared, ok := e.assets.GetByKey(assetKey)
	if !ok {
		return rasterize.Pixmap{}, werror.Evaluationf("render: unknown asset key %q", assetKey)
	}
	if prepared.Kind != model.AssetImage {
		return rasterize.Pixmap{}, werror.Evaluationf("render: asset %q is not an image", assetKey)
	}
	pm := rasterize.Pixmap{Width: prepared.Image.Width, Height: prepared.Image.Height, Data: prepared.Image.Rgba8Premul}
	e.imageCache[assetKey] = pm
	return pm, nil
}

// svgPixmap rasterizes an SVG asset on demand, sized to
// ceil(intrinsic_size * transform.MaxScale()) and cached by
// (asset, raster_w, raster_h) (spec.md §4.5). No SVG parsing library
// exists anywhere in the corpus (see assets.PreparedSvg and DESIGN.md),
// so the "rasterization" here is a flat, deterministic placeholder: a
// solid fill tinted from a hash of the document bytes, at the document's
// intrinsic aspect ratio. This is an explicit, documented limitation,
// not an attempt at real vector rendering.
func (e *Executor) svgPixmap(assetKey string, transform math32.Matrix2) (rasterize.Pixmap, error) {
	prepared, ok := e.assets.GetByKey(assetKey)
	if !ok {
		return rasterize.Pixmap{}, werror.Evaluationf("render: unknown asset key %q", assetKey)
	}
	if prepared.Kind != model.AssetSvg {
		return rasterize.Pixmap{}, werror.Evaluationf("render: asset %q is not an svg", assetKey)
	}
	svg := prepared.Svg

	scale := float64(transform.MaxScale())
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(svg.Width * scale))
	h := int(math.Ceil(svg.Height * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	key := svgCacheKey{assetKey: assetKey, rasterW: w, rasterH: h}
	if pm, ok := e.svgCache[key]; ok {
		return pm, nil
	}
	pm := rasterizeSvgPlaceholder(svg, w, h)
	e.svgCache[key] = pm
	return pm, nil
}

func rasterizeSvgPlaceholder(svg assets.PreparedSvg, w, h int) rasterize.Pixmap {
	hasher := fnv.New32a()
	hasher.Write(svg.Bytes)
	sum := hasher.Sum32()
	tint := color.FromStraightRGBA8(byte(sum), byte(sum>>8), byte(sum>>16), 255)

	data := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		o := i * 4
		data[o], data[o+1], data[o+2], data[o+3] = tint.R, tint.G, tint.B, tint.A
	}
	return rasterize.Pixmap{Width: w, Height: h, Data: data}
}

// videoPixmap resolves the decoded frame nearest sourceTimeS for a video
// asset, via the executor's session-scoped VideoFrameCache.
func (e *Executor) videoPixmap(assetKey string, sourceTimeS float64) (rasterize.Pixmap, error) {
	prepared, ok := e.assets.GetByKey(assetKey)
	if !ok {
		return rasterize.Pixmap{}, werror.Evaluationf("render: unknown asset key %q", assetKey)
	}
	if prepared.Kind != model.AssetVideo {
		return rasterize.Pixmap{}, werror.Evaluationf("render: asset %q is not a video", assetKey)
	}
	return e.videoCache.Frame(assetKey, prepared.Video.SourcePath, prepared.Video.FPS, sourceTimeS)
}

// resolvePixmap dispatches to the right pixmap resolver by the asset's
// actual kind, for contexts like MaskApply where an effect names an
// asset key without specifying which draw-op kind it is.
func (e *Executor) resolvePixmap(assetKey string, sourceTimeS float64) (rasterize.Pixmap, error) {
	prepared, ok := e.assets.GetByKey(assetKey)
	if !ok {
		return rasterize.Pixmap{}, werror.Evaluationf("render: unknown asset key %q", assetKey)
	}
	switch prepared.Kind {
	case model.AssetImage:
		return e.imagePixmap(assetKey)
	case model.AssetSvg:
		return e.svgPixmap(assetKey, math32.Identity3())
	case model.AssetVideo:
		return e.videoPixmap(assetKey, sourceTimeS)
	default:
		return rasterize.Pixmap{}, werror.Evaluationf("render: asset %q (kind %v) cannot be used as a mask", assetKey, prepared.Kind)
	}
}
