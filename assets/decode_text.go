// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

// ShapedLayout is a text asset baked down to fill-ready glyph outlines
// at prepare time, so the rasterizer never reopens a font face: it just
// transforms and fills each run's BezPath (spec.md §4.1, "Text layout
// contract", and §4.5's "Text paint: glyph runs from the prepared
// layout; one fill per run").
type ShapedLayout struct {
	Runs          []GlyphRun
	Width, Height float64
}

// GlyphRun is one glyph's outline, already positioned at its pen
// location within the layout (baseline origin at the layout's top-left,
// y increasing downward).
type GlyphRun struct {
	Path math32.BezPath
}

var defaultLanguage = language.NewLanguage("en")

// decodeText shapes TextAsset into a ShapedLayout. Word-wrap, when
// MaxWidthPx > 0, breaks on space boundaries greedily and aligns every
// line to the start (spec.md §4.1).
func decodeText(a model.TextAsset, db *FontDB) (PreparedText, error) {
	_, face, _, err := db.Resolve(a.FontSource)
	if err != nil {
		return PreparedText{}, err
	}

	lines := wrapLines(a.Text, a.MaxWidthPx, face, a.SizePx)

	lineHeight := a.SizePx * 1.2
	var runs []GlyphRun
	maxWidth := 0.0
	for i, line := range lines {
		out := shapeLine(line, face, a.SizePx)
		penY := lineHeight * (float64(i) + 1)
		penX := 0.0
		for _, g := range out.Glyphs {
			gx := penX + fixedToFloat(g.XOffset)
			gy := penY - fixedToFloat(g.YOffset)
			outline := glyphOutline(face, g.GlyphID, a.SizePx)
			runs = append(runs, GlyphRun{Path: translatePath(outline, gx, gy)})
			penX += fixedToFloat(g.XAdvance)
		}
		if penX > maxWidth {
			maxWidth = penX
		}
	}

	height := lineHeight * float64(len(lines))
	if len(lines) == 0 {
		height = lineHeight
	}
	if a.MaxWidthPx > 0 {
		maxWidth = a.MaxWidthPx
	}

	brush := TextBrush{R: a.ColorRgba8[0], G: a.ColorRgba8[1], B: a.ColorRgba8[2], A: a.ColorRgba8[3]}
	premul := color.FromStraightRGBA8(brush.R, brush.G, brush.B, brush.A)

	return PreparedText{
		Layout:     ShapedLayout{Runs: runs, Width: maxWidth, Height: height},
		FontFamily: a.FontSource,
		Brush:      TextBrush{R: premul.R, G: premul.G, B: premul.B, A: premul.A},
	}, nil
}

func shapeLine(text string, face *font.Font, sizePx float64) shaping.Output {
	runes := []rune(text)
	shaper := shaping.HarfbuzzShaper{}
	return shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      face,
		Size:      fixed.I(int(sizePx)),
		Script:    language.Latin,
		Language:  defaultLanguage,
	})
}

// wrapLines greedily packs space-separated words into lines no wider
// than maxWidthPx (0 disables wrapping: lines break only at "\n").
func wrapLines(text string, maxWidthPx float64, face *font.Font, sizePx float64) []string {
	if maxWidthPx <= 0 {
		return strings.Split(text, "\n")
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			candidate := cur + " " + w
			if lineWidth(candidate, face, sizePx) > maxWidthPx {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur = candidate
		}
		lines = append(lines, cur)
	}
	return lines
}

func lineWidth(text string, face *font.Font, sizePx float64) float64 {
	return fixedToFloat(shapeLine(text, face, sizePx).Advance)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// glyphOutline extracts gid's outline scaled to sizePx, using the
// font's units-per-em to derive the scale factor.
func glyphOutline(face *font.Font, gid font.GID, sizePx float64) math32.BezPath {
	upem := float64(face.Upem())
	if upem <= 0 {
		upem = 1000
	}
	scale := sizePx / upem

	data := face.GlyphData(gid)
	outline, ok := data.(font.GlyphOutline)
	if !ok {
		return math32.BezPath{}
	}

	var path math32.BezPath
	for _, seg := range outline.Segments {
		p0 := scalePt(seg.Args[0], scale)
		switch seg.Op {
		case font.SegmentOpMoveTo:
			path.MoveTo(p0)
		case font.SegmentOpLineTo:
			path.LineTo(p0)
		case font.SegmentOpQuadTo:
			path.QuadTo(p0, scalePt(seg.Args[1], scale))
		case font.SegmentOpCubeTo:
			path.CubeTo(p0, scalePt(seg.Args[1], scale), scalePt(seg.Args[2], scale))
		}
	}
	return path
}

func scalePt(p font.SegmentPoint, scale float64) math32.Vector2 {
	return math32.Vec2(float32(float64(p.X)*scale), float32(-float64(p.Y)*scale))
}

func translatePath(p math32.BezPath, dx, dy float64) math32.BezPath {
	fdx, fdy := float32(dx), float32(dy)
	out := make(math32.BezPath, len(p))
	for i, seg := range p {
		ns := seg
		for j := range ns.Pts {
			ns.Pts[j].X += fdx
			ns.Pts[j].Y += fdy
		}
		out[i] = ns
	}
	return out
}
