// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

// AssetKind tags which Asset variant a value holds; also used as the
// kind_tag_byte input to content-addressed AssetId hashing (spec
// language: "hash(kind_tag, normalized_relative_path, canonical_params)").
type AssetKind byte

const (
	AssetPath AssetKind = iota + 1
	AssetImage
	AssetSvg
	AssetText
	AssetVideo
	AssetAudio
)

func (k AssetKind) String() string {
	switch k {
	case AssetPath:
		return "path"
	case AssetImage:
		return "image"
	case AssetSvg:
		return "svg"
	case AssetText:
		return "text"
	case AssetVideo:
		return "video"
	case AssetAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// Asset is implemented by every asset variant. Kind identifies the
// variant for content-addressing and dispatch in the asset store.
type Asset interface {
	Kind() AssetKind
	// Validate checks the asset's own fields in isolation; composition-
	// level checks (e.g. clip references a known asset key) live in
	// Composition.Validate.
	Validate() error
}

// PathAsset is first-party vector geometry expressed as an SVG path
// "d" attribute string (see math32.ParsePathD).
type PathAsset struct {
	SvgPathD string
}

func (PathAsset) Kind() AssetKind { return AssetPath }

func (a PathAsset) Validate() error {
	if trimEmpty(a.SvgPathD) {
		return validationf("path asset: svg_path_d must be non-empty")
	}
	return nil
}

// ImageAsset references a raster image file, resolved against the
// asset store's assets_root.
type ImageAsset struct {
	Source string
}

func (ImageAsset) Kind() AssetKind { return AssetImage }

func (a ImageAsset) Validate() error {
	return validateSource("image", a.Source)
}

// SvgAsset references a vector SVG document file.
type SvgAsset struct {
	Source string
}

func (SvgAsset) Kind() AssetKind { return AssetSvg }

func (a SvgAsset) Validate() error {
	return validateSource("svg", a.Source)
}

// TextAsset shapes a run of text into a layout at prepare time.
type TextAsset struct {
	Text       string
	FontSource string // empty selects the bundled fallback font
	SizePx     float64
	MaxWidthPx float64 // 0 disables word-wrap
	ColorRgba8 [4]uint8
}

func (TextAsset) Kind() AssetKind { return AssetText }

func (a TextAsset) Validate() error {
	if a.SizePx <= 0 {
		return validationf("text asset: size_px must be > 0")
	}
	if a.MaxWidthPx < 0 {
		return validationf("text asset: max_width_px must be >= 0")
	}
	return nil
}

// VideoAsset references a video file; its audio track, if present, is
// decoded alongside the picture by the asset store.
type VideoAsset struct {
	Source       string
	TrimStartSec float64
	TrimEndSec   *float64
	PlaybackRate float64
	Volume       float64
	Mute         bool
	FadeInSec    float64
	FadeOutSec   float64
}

func (VideoAsset) Kind() AssetKind { return AssetVideo }

func (a VideoAsset) Validate() error {
	if err := validateSource("video", a.Source); err != nil {
		return err
	}
	return validatePlaybackFields(a.TrimStartSec, a.TrimEndSec, a.PlaybackRate, a.Volume, a.FadeInSec, a.FadeOutSec)
}

// AudioAsset references a standalone audio file, sharing VideoAsset's
// playback-shaping fields (spec.md §3: "Audio{…same fields}").
type AudioAsset struct {
	Source       string
	TrimStartSec float64
	TrimEndSec   *float64
	PlaybackRate float64
	Volume       float64
	Mute         bool
	FadeInSec    float64
	FadeOutSec   float64
}

func (AudioAsset) Kind() AssetKind { return AssetAudio }

func (a AudioAsset) Validate() error {
	if err := validateSource("audio", a.Source); err != nil {
		return err
	}
	return validatePlaybackFields(a.TrimStartSec, a.TrimEndSec, a.PlaybackRate, a.Volume, a.FadeInSec, a.FadeOutSec)
}

func validateSource(kind, source string) error {
	if trimEmpty(source) {
		return validationf("%s asset: source must be non-empty", kind)
	}
	return nil
}

func validatePlaybackFields(trimStart float64, trimEnd *float64, rate, volume, fadeIn, fadeOut float64) error {
	if trimStart < 0 {
		return validationf("trim_start_sec must be >= 0")
	}
	if trimEnd != nil && *trimEnd <= trimStart {
		return validationf("trim_end_sec must be > trim_start_sec")
	}
	if rate <= 0 {
		return validationf("playback_rate must be > 0")
	}
	if volume < 0 {
		return validationf("volume must be >= 0")
	}
	if fadeIn < 0 || fadeOut < 0 {
		return validationf("fade_in_sec and fade_out_sec must be >= 0")
	}
	return nil
}
