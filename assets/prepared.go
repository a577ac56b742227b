// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

// PreparedImage is a decoded raster image, already premultiplied.
type PreparedImage struct {
	Width, Height int
	Rgba8Premul   []byte
}

// PreparedSvg is a parsed SVG document's intrinsic size plus its raw
// bytes; rasterization to a pixmap happens on demand at render time,
// sized to the transform's scale (spec.md §4.5) — no SVG parsing
// library exists anywhere in the corpus (golang.org/x/image has no SVG
// support), so the store keeps the document opaque past intrinsic
// sizing; see DESIGN.md.
type PreparedSvg struct {
	Width, Height float64
	Bytes         []byte
}

// TextBrush is the flat premultiplied fill color a prepared text
// layout's glyph runs paint with.
type TextBrush struct {
	R, G, B, A uint8
}

// PreparedText is a shaped layout whose glyph outlines are already
// baked into positioned BezPaths at prepare time (see decode_text.go),
// so the rasterizer only ever transforms and fills vector paths — it
// never reopens a font face at render time.
type PreparedText struct {
	Layout     ShapedLayout
	FontFamily string
	Brush      TextBrush
}

// PreparedPath is first-party vector geometry, already parsed.
type PreparedPath struct {
	Path math32.BezPath
}

// PreparedAudio is decoded, resampled interleaved PCM.
type PreparedAudio struct {
	SampleRate int
	Channels   int
	Interleaved []float32
}

// PreparedVideo is a probed video's intrinsic metadata plus its
// decoded audio track, if it has one. SourcePath is the resolved file
// the render session's video-frame decoder reopens on demand — probing
// metadata up front does not require decoding any frames, so those
// stay unread until a Scene pass actually asks for one.
type PreparedVideo struct {
	Width, Height int
	FPS           float64
	DurationSec   float64
	HasAudio      bool
	Audio         *PreparedAudio
	SourcePath    string
}

// PreparedAsset holds exactly one of the above, tagged by
// model.AssetKind.
type PreparedAsset struct {
	Kind  model.AssetKind
	Image PreparedImage
	Svg   PreparedSvg
	Text  PreparedText
	Path  PreparedPath
	Video PreparedVideo
	Audio PreparedAudio
}
