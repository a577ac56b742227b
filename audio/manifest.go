// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package audio builds and mixes the timeline's audio contribution for
// a render range, independent of the visual pipeline (spec.md §4.8).
// Building the manifest and mixing it both run outside the per-frame
// render hot loop.
package audio

import (
	"wavyte.dev/wavyte/assets"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/internal/werror"
	"wavyte.dev/wavyte/model"
)

// Segment is one clip's scheduled audio contribution in timeline sample
// space, grounded on original_source/wavyte/src/audio/manifest.rs's
// AudioSegment.
type Segment struct {
	TimelineStartSample int64
	TimelineEndSample   int64

	SourceStartSec float64
	SourceEndSec   *float64
	PlaybackRate   float64
	Volume         float32
	FadeInSec      float64
	FadeOutSec     float64

	SourceSampleRate int
	SourceChannels   int
	SourceInterleaved []float32
}

// Manifest is the audio rendering plan for one timeline frame range.
type Manifest struct {
	SampleRate   int
	Channels     int
	TotalSamples int64
	Segments     []Segment
}

// playbackFields is the set of fields AudioAsset and VideoAsset share,
// factored out since Go has no common struct between the two model
// variants (each embeds them independently).
type playbackFields struct {
	trimStartSec float64
	trimEndSec   *float64
	playbackRate float64
	volume       float64
	mute         bool
	fadeInSec    float64
	fadeOutSec   float64
}

// BuildManifest walks every clip of comp whose Range intersects rng and
// whose asset is audio-capable (Audio, or Video with a decoded audio
// track), scheduling one Segment per clip per the original engine's
// close_segment. Unlike original_source's IR, this model has no
// Switch/Collection nodes — clips are simply present across their own
// Range — so there is no per-frame visibility walk or switch-active
// constancy check to perform; each clip contributes at most one segment
// directly from its own Range intersected with rng.
func BuildManifest(comp *model.Composition, store *assets.Store, rng foundation.FrameRange) (*Manifest, error) {
	if rng.Len() == 0 {
		return nil, werror.Validationf("audio: manifest range must be non-empty")
	}
	if uint64(rng.End) > uint64(comp.Duration) {
		return nil, werror.Validationf("audio: manifest range must be within composition duration")
	}

	m := &Manifest{
		SampleRate:   assets.MixSampleRate,
		Channels:     assets.MixChannels,
		TotalSamples: foundation.FrameToSample(int64(rng.Len()), comp.Fps, assets.MixSampleRate),
	}

	for _, track := range comp.Tracks {
		for _, clip := range track.Clips {
			seg, ok, err := buildSegment(comp, store, rng, clip)
			if err != nil {
				return nil, err
			}
			if ok {
				m.Segments = append(m.Segments, seg)
			}
		}
	}
	return m, nil
}

func buildSegment(comp *model.Composition, store *assets.Store, rng foundation.FrameRange, clip model.Clip) (Segment, bool, error) {
	asset, ok := comp.Assets[clip.Asset]
	if !ok {
		return Segment{}, false, werror.Evaluationf("audio: clip %q references missing asset key %q", clip.ID, clip.Asset)
	}

	pf, ok := extractPlaybackFields(asset)
	if !ok {
		return Segment{}, false, nil // not audio-capable
	}
	if pf.mute || pf.volume <= 0 {
		return Segment{}, false, nil
	}

	pcm, hasAudio, err := resolvePcm(store, clip.Asset, asset.Kind())
	if err != nil {
		return Segment{}, false, err
	}
	if !hasAudio || len(pcm.Interleaved) == 0 {
		return Segment{}, false, nil
	}

	start := maxFrame(clip.Range.Start, rng.Start)
	end := minFrame(clip.Range.End, rng.End)
	if start >= end {
		return Segment{}, false, nil
	}

	timelineStart := foundation.FrameToSample(int64(start-rng.Start), comp.Fps, assets.MixSampleRate)
	timelineEnd := foundation.FrameToSample(int64(end-rng.Start), comp.Fps, assets.MixSampleRate)

	localStartFrame := start - clip.Range.Start
	secPerFrame := float64(comp.Fps.Den) / float64(comp.Fps.Num)
	localStartSec := float64(localStartFrame) * secPerFrame

	sourceStart := pf.trimStartSec + localStartSec*pf.playbackRate
	if pf.trimEndSec != nil {
		end := *pf.trimEndSec
		if end < pf.trimStartSec {
			end = pf.trimStartSec
		}
		if sourceStart > end {
			sourceStart = end
		}
	}
	if sourceStart < 0 {
		sourceStart = 0
	}

	return Segment{
		TimelineStartSample: timelineStart,
		TimelineEndSample:   timelineEnd,
		SourceStartSec:      sourceStart,
		SourceEndSec:        pf.trimEndSec,
		PlaybackRate:        pf.playbackRate,
		Volume:              float32(maxF(pf.volume, 0)),
		FadeInSec:           maxF(pf.fadeInSec, 0),
		FadeOutSec:          maxF(pf.fadeOutSec, 0),
		SourceSampleRate:    pcm.SampleRate,
		SourceChannels:      pcm.Channels,
		SourceInterleaved:   pcm.Interleaved,
	}, true, nil
}

func extractPlaybackFields(asset model.Asset) (playbackFields, bool) {
	switch a := asset.(type) {
	case model.AudioAsset:
		return playbackFields{
			trimStartSec: a.TrimStartSec, trimEndSec: a.TrimEndSec, playbackRate: a.PlaybackRate,
			volume: a.Volume, mute: a.Mute, fadeInSec: a.FadeInSec, fadeOutSec: a.FadeOutSec,
		}, true
	case model.VideoAsset:
		return playbackFields{
			trimStartSec: a.TrimStartSec, trimEndSec: a.TrimEndSec, playbackRate: a.PlaybackRate,
			volume: a.Volume, mute: a.Mute, fadeInSec: a.FadeInSec, fadeOutSec: a.FadeOutSec,
		}, true
	default:
		return playbackFields{}, false
	}
}

func resolvePcm(store *assets.Store, assetKey string, kind model.AssetKind) (assets.PreparedAudio, bool, error) {
	prepared, ok := store.GetByKey(assetKey)
	if !ok {
		return assets.PreparedAudio{}, false, werror.Evaluationf("audio: unknown asset key %q", assetKey)
	}
	switch kind {
	case model.AssetAudio:
		return prepared.Audio, true, nil
	case model.AssetVideo:
		if prepared.Video.Audio == nil {
			return assets.PreparedAudio{}, false, nil
		}
		return *prepared.Video.Audio, true, nil
	default:
		return assets.PreparedAudio{}, false, nil
	}
}

func maxFrame(a, b foundation.FrameIndex) foundation.FrameIndex {
	if a > b {
		return a
	}
	return b
}

func minFrame(a, b foundation.FrameIndex) foundation.FrameIndex {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
