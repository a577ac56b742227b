// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"os"
	"path/filepath"
	"strconv"

	"wavyte.dev/wavyte/internal/werror"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

// Store is the PreparedAssetStore: every Asset a Composition references,
// decoded once up front and looked up by content-addressed ID from then
// on (spec.md §4.1). Built once per RenderSession and read-only for the
// rest of that session's life.
type Store struct {
	byID  map[ID]*PreparedAsset
	byKey map[string]ID // composition asset key -> ID
}

// NewStore decodes every asset in comp (in AssetKeys order) against
// files resolved under assetsRoot.
func NewStore(comp model.Composition, assetsRoot string) (*Store, error) {
	fonts := NewFontDB(assetsRoot)
	s := &Store{byID: map[ID]*PreparedAsset{}, byKey: map[string]ID{}}

	for _, key := range comp.AssetKeys {
		asset := comp.Assets[key]
		id, prepared, err := prepareAsset(asset, assetsRoot, fonts)
		if err != nil {
			return nil, werror.Evaluationf("asset key %q: %w", key, err)
		}
		s.byID[id] = prepared
		s.byKey[key] = id
	}

	return s, nil
}

// IDForKey returns the AssetId a composition asset key resolved to
// during construction.
func (s *Store) IDForKey(key string) (ID, bool) {
	id, ok := s.byKey[key]
	return id, ok
}

// Get returns the decoded asset for id.
func (s *Store) Get(id ID) (*PreparedAsset, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// GetByKey is a convenience combining IDForKey and Get.
func (s *Store) GetByKey(key string) (*PreparedAsset, bool) {
	id, ok := s.IDForKey(key)
	if !ok {
		return nil, false
	}
	return s.Get(id)
}

// IntrinsicSize returns a video asset's probed pixel dimensions. Since
// NewStore decodes (probes) every video eagerly, a video whose
// intrinsic size could not be determined already failed store
// construction — this method never itself triggers decode work, it
// just surfaces what NewStore already resolved.
func (s *Store) IntrinsicSize(key string) (width, height int, err error) {
	prepared, ok := s.GetByKey(key)
	if !ok {
		return 0, 0, werror.Evaluationf("assets: unknown asset key %q", key)
	}
	if prepared.Kind != model.AssetVideo {
		return 0, 0, werror.Evaluationf("assets: asset key %q is not a video asset", key)
	}
	return prepared.Video.Width, prepared.Video.Height, nil
}

func prepareAsset(asset model.Asset, assetsRoot string, fonts *FontDB) (ID, *PreparedAsset, error) {
	switch a := asset.(type) {
	case model.PathAsset:
		path, err := math32.ParsePathD(a.SvgPathD)
		if err != nil {
			return 0, nil, werror.Evaluationf("assets: parse path asset: %v", err)
		}
		key := NewKey(a.SvgPathD, nil)
		id := hashID(byte(model.AssetPath), key)
		return id, &PreparedAsset{Kind: model.AssetPath, Path: PreparedPath{Path: path}}, nil

	case model.ImageAsset:
		norm, err := NormalizeRelPath(a.Source)
		if err != nil {
			return 0, nil, err
		}
		raw, err := readAssetFile(assetsRoot, norm)
		if err != nil {
			return 0, nil, err
		}
		img, err := decodeImage(raw)
		if err != nil {
			return 0, nil, err
		}
		id := hashID(byte(model.AssetImage), NewKey(norm, nil))
		return id, &PreparedAsset{Kind: model.AssetImage, Image: img}, nil

	case model.SvgAsset:
		norm, err := NormalizeRelPath(a.Source)
		if err != nil {
			return 0, nil, err
		}
		raw, err := readAssetFile(assetsRoot, norm)
		if err != nil {
			return 0, nil, err
		}
		svg, err := decodeSvg(raw)
		if err != nil {
			return 0, nil, err
		}
		id := hashID(byte(model.AssetSvg), NewKey(norm, nil))
		return id, &PreparedAsset{Kind: model.AssetSvg, Svg: svg}, nil

	case model.TextAsset:
		text, err := decodeText(a, fonts)
		if err != nil {
			return 0, nil, err
		}
		id := hashID(byte(model.AssetText), NewKey(a.FontSource, textParams(a)))
		return id, &PreparedAsset{Kind: model.AssetText, Text: text}, nil

	case model.VideoAsset:
		norm, err := NormalizeRelPath(a.Source)
		if err != nil {
			return 0, nil, err
		}
		video, err := decodeVideoFile(filepath.Join(assetsRoot, filepath.FromSlash(norm)))
		if err != nil {
			return 0, nil, err
		}
		id := hashID(byte(model.AssetVideo), NewKey(norm, playbackParams(a.TrimStartSec, a.TrimEndSec, a.PlaybackRate)))
		return id, &PreparedAsset{Kind: model.AssetVideo, Video: video}, nil

	case model.AudioAsset:
		norm, err := NormalizeRelPath(a.Source)
		if err != nil {
			return 0, nil, err
		}
		audio, err := decodeAudioFile(filepath.Join(assetsRoot, filepath.FromSlash(norm)))
		if err != nil {
			return 0, nil, err
		}
		id := hashID(byte(model.AssetAudio), NewKey(norm, playbackParams(a.TrimStartSec, a.TrimEndSec, a.PlaybackRate)))
		return id, &PreparedAsset{Kind: model.AssetAudio, Audio: audio}, nil

	default:
		return 0, nil, werror.Evaluationf("assets: unknown asset type %T", asset)
	}
}

func readAssetFile(assetsRoot, normPath string) ([]byte, error) {
	full := filepath.Join(assetsRoot, filepath.FromSlash(normPath))
	raw, err := os.ReadFile(full)
	if err != nil {
		return nil, werror.Evaluationf("assets: read %q: %v", full, err)
	}
	return raw, nil
}

func textParams(a model.TextAsset) []KV {
	return []KV{
		{K: "text", V: a.Text},
		{K: "size_px", V: ftoa(a.SizePx)},
		{K: "max_width_px", V: ftoa(a.MaxWidthPx)},
	}
}

func playbackParams(trimStart float64, trimEnd *float64, rate float64) []KV {
	end := "none"
	if trimEnd != nil {
		end = ftoa(*trimEnd)
	}
	return []KV{
		{K: "trim_start_sec", V: ftoa(trimStart)},
		{K: "trim_end_sec", V: end},
		{K: "playback_rate", V: ftoa(rate)},
	}
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
