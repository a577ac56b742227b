// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package audio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
)

// MixManifest resamples and sums every segment's contribution into one
// interleaved buffer at m.SampleRate/m.Channels, additively (overlapping
// segments add rather than overwrite), then clamps to [-1, 1]. Grounded
// on original_source/wavyte/src/audio/mix.rs's mix_manifest.
func MixManifest(m *Manifest) []float32 {
	out := make([]float32, m.TotalSamples*int64(m.Channels))
	secPerTimelineSample := 1.0 / float64(m.SampleRate)
	for _, seg := range m.Segments {
		mixSegment(out, m.Channels, secPerTimelineSample, seg)
	}
	for i, v := range out {
		out[i] = float32(clamp(float64(v), -1, 1))
	}
	return out
}

func mixSegment(out []float32, channels int, secPerTimelineSample float64, seg Segment) {
	if seg.SourceSampleRate <= 0 || seg.SourceChannels <= 0 || len(seg.SourceInterleaved) == 0 {
		return
	}
	srcFrames := len(seg.SourceInterleaved) / seg.SourceChannels
	segLenSamples := seg.TimelineEndSample - seg.TimelineStartSample
	if segLenSamples <= 0 {
		return
	}
	segLenSec := float64(segLenSamples) * secPerTimelineSample

	for dst := seg.TimelineStartSample; dst < seg.TimelineEndSample; dst++ {
		relSec := float64(dst-seg.TimelineStartSample) * secPerTimelineSample
		srcSec := seg.SourceStartSec + relSec*seg.PlaybackRate
		if seg.SourceEndSec != nil && srcSec >= *seg.SourceEndSec {
			break
		}

		srcPos := srcSec * float64(seg.SourceSampleRate)
		if math.IsNaN(srcPos) || math.IsInf(srcPos, 0) || srcPos < 0 {
			break
		}
		srcFrame0 := int(srcPos)
		if srcFrame0 >= srcFrames {
			break
		}
		frac := srcPos - float64(srcFrame0)
		srcFrame1 := srcFrame0 + 1
		if srcFrame1 >= srcFrames {
			srcFrame1 = srcFrame0
		}

		gain := float64(seg.Volume) * fadeGain(relSec, segLenSec, seg.FadeInSec, seg.FadeOutSec)
		if gain == 0 {
			continue
		}

		l0, r0 := stereoFrame(seg, srcFrame0)
		l1, r1 := stereoFrame(seg, srcFrame1)
		l := l0 + (l1-l0)*frac
		r := r0 + (r1-r0)*frac

		dstIdx := dst * int64(channels)
		if int(dstIdx)+channels > len(out) {
			continue
		}
		if channels == 1 {
			out[dstIdx] += float32(((l + r) / 2) * gain)
		} else {
			out[dstIdx] += float32(l * gain)
			out[dstIdx+1] += float32(r * gain)
		}
	}
}

func stereoFrame(seg Segment, frame int) (l, r float64) {
	base := frame * seg.SourceChannels
	if base < 0 || base >= len(seg.SourceInterleaved) {
		return 0, 0
	}
	l = float64(seg.SourceInterleaved[base])
	if seg.SourceChannels >= 2 {
		r = float64(seg.SourceInterleaved[base+1])
	} else {
		r = l
	}
	return l, r
}

func fadeGain(relSec, segLenSec, fadeInSec, fadeOutSec float64) float64 {
	gain := 1.0
	if fadeInSec > 0 {
		gain *= clamp01(relSec / fadeInSec)
	}
	if fadeOutSec > 0 {
		gain *= clamp01((segLenSec - relSec) / fadeOutSec)
	}
	return gain
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WriteMixToF32LEFile writes samples as raw interleaved little-endian
// float32 bytes, creating parent directories first. Grounded on
// original_source/wavyte/src/audio/mix.rs's write_mix_to_f32le_file.
func WriteMixToF32LEFile(samples []float32, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return os.WriteFile(path, buf, 0o644)
}
