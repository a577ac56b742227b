// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"

	"wavyte.dev/wavyte/internal/werror"
)

// MixSampleRate is the fixed mix sample rate every decoded audio track
// is resampled to, and the rate the final mixdown is produced at
// (spec.md §6: "sample rate = mix rate (48 kHz by default)").
const MixSampleRate = 48000

// MixChannels is the fixed channel count of the mix (spec.md §4.8:
// "interleaved stereo f32").
const MixChannels = 2

// DefaultResampleQuality matches beep.Resample's documented "good"
// quality setting.
const DefaultResampleQuality = 4

// ResampleQuality controls the linear-interpolation order beep.Resample
// uses when a decoded audio file's native sample rate differs from
// MixSampleRate (SPEC_FULL.md §11). A RenderSession may lower it for
// throughput or raise it for fidelity before assets are decoded.
var ResampleQuality = DefaultResampleQuality

// decodeAudioFile decodes path's audio track to interleaved stereo f32
// PCM at MixSampleRate, resampling through beep.Resample if the source
// rate differs.
func decodeAudioFile(path string) (PreparedAudio, error) {
	f, err := os.Open(path)
	if err != nil {
		return PreparedAudio{}, werror.Evaluationf("assets: open audio %q: %v", path, err)
	}
	defer f.Close()

	stream, format, err := decodeByExt(path, f)
	if err != nil {
		return PreparedAudio{}, werror.Evaluationf("assets: decode audio %q: %v", path, err)
	}
	defer stream.Close()

	var streamer beep.Streamer = stream
	if format.SampleRate != beep.SampleRate(MixSampleRate) {
		streamer = beep.Resample(ResampleQuality, format.SampleRate, beep.SampleRate(MixSampleRate), stream)
	}

	return PreparedAudio{
		SampleRate:  MixSampleRate,
		Channels:    MixChannels,
		Interleaved: streamToInterleaved(streamer),
	}, nil
}

func decodeByExt(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	default:
		return mp3.Decode(f)
	}
}

// streamToInterleaved drains stream into interleaved stereo float32,
// converting beep's per-channel [-1,1] float64 samples directly.
func streamToInterleaved(stream beep.Streamer) []float32 {
	const chunk = 4096
	buf := make([][2]float64, chunk)
	var out []float32
	for {
		n, ok := stream.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, float32(buf[i][0]), float32(buf[i][1]))
		}
		if !ok {
			break
		}
	}
	return out
}

// resampleInterleaved linearly resamples interleaved stereo PCM from
// srcRate to dstRate (spec.md §4.8: "uniformly resampled to the mix
// sample rate").
func resampleInterleaved(src []float32, srcRate, dstRate int) []float32 {
	if srcRate <= 0 || dstRate <= 0 || srcRate == dstRate {
		return src
	}
	frames := len(src) / MixChannels
	if frames == 0 {
		return src
	}
	ratio := float64(srcRate) / float64(dstRate)
	outFrames := int(float64(frames) / ratio)
	out := make([]float32, outFrames*MixChannels)
	for i := 0; i < outFrames; i++ {
		srcPos := float64(i) * ratio
		i0 := int(srcPos)
		frac := srcPos - float64(i0)
		i1 := i0 + 1
		if i1 >= frames {
			i1 = frames - 1
		}
		if i0 >= frames {
			i0 = frames - 1
		}
		for c := 0; c < MixChannels; c++ {
			a := src[i0*MixChannels+c]
			b := src[i1*MixChannels+c]
			out[i*MixChannels+c] = a + float32(frac)*(b-a)
		}
	}
	return out
}
