// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/reisen"

	"wavyte.dev/wavyte/internal/werror"
)

// decodeVideoFile probes path for its intrinsic picture metadata and,
// if it carries an audio track, decodes that track to interleaved
// stereo f32 PCM at MixSampleRate (spec.md §4.1: "video → probe
// metadata only, plus decode its audio track if present").
func decodeVideoFile(path string) (PreparedVideo, error) {
	media, err := reisen.NewMedia(path)
	if err != nil {
		return PreparedVideo{}, werror.Evaluationf("assets: open video %q: %v", path, err)
	}
	defer media.Close()

	if err := media.OpenDecode(); err != nil {
		return PreparedVideo{}, werror.Evaluationf("assets: probe video %q: %v", path, err)
	}

	vStreams := media.VideoStreams()
	if len(vStreams) == 0 {
		return PreparedVideo{}, werror.Evaluationf("assets: video %q has no video stream", path)
	}
	v := vStreams[0]

	dur, err := media.Duration()
	if err != nil {
		return PreparedVideo{}, werror.Evaluationf("assets: video %q duration: %v", path, err)
	}

	aStreams := media.AudioStreams()
	hasAudio := len(aStreams) > 0

	out := PreparedVideo{
		Width:       v.Width(),
		Height:      v.Height(),
		FPS:         v.FrameRate(),
		DurationSec: dur.Seconds(),
		HasAudio:    hasAudio,
		SourcePath:  path,
	}
	if out.Width <= 0 || out.Height <= 0 {
		return PreparedVideo{}, werror.Evaluationf("assets: video %q reports non-positive intrinsic size", path)
	}

	if hasAudio {
		a := aStreams[0]
		if err := a.OpenDecode(); err != nil {
			return PreparedVideo{}, werror.Evaluationf("assets: open audio track of %q: %v", path, err)
		}
		pcm, err := decodeAudioTrack(media, a)
		if err != nil {
			return PreparedVideo{}, err
		}
		out.Audio = &pcm
	}

	return out, nil
}

// decodeAudioTrack drains a's packets from media into interleaved
// stereo f32 PCM, resampling to MixSampleRate and downmixing or
// duplicating channels as needed.
func decodeAudioTrack(media *reisen.Media, a *reisen.AudioStream) (PreparedAudio, error) {
	srcRate := a.SampleRate()
	srcChannels := a.ChannelCount()
	if srcChannels <= 0 {
		srcChannels = 1
	}

	var raw []float32
	for {
		packet, gotPacket, err := media.ReadPacket()
		if err != nil {
			return PreparedAudio{}, werror.Evaluationf("assets: read video packet: %v", err)
		}
		if !gotPacket {
			break
		}
		if packet.Type() != reisen.StreamAudio || packet.StreamIndex() != a.Index() {
			continue
		}
		frame, gotFrame, err := a.ReadAudioFrame()
		if err != nil {
			return PreparedAudio{}, werror.Evaluationf("assets: decode audio frame: %v", err)
		}
		if !gotFrame {
			continue
		}
		raw = append(raw, decodeFrameSamplesF32(frame.Data())...)
	}

	stereo := downmixToStereo(raw, srcChannels)
	if srcRate != MixSampleRate {
		stereo = resampleInterleaved(stereo, srcRate, MixSampleRate)
	}
	return PreparedAudio{SampleRate: MixSampleRate, Channels: MixChannels, Interleaved: stereo}, nil
}

// decodeFrameSamplesF32 reinterprets a raw PCM frame payload as
// little-endian float64 samples (reisen's decoded sample format) and
// narrows them to float32.
func decodeFrameSamplesF32(data []byte) []float32 {
	n := len(data) / 8
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		out[i] = float32(math.Float64frombits(bits))
	}
	return out
}

// downmixToStereo converts channels-interleaved samples to stereo:
// mono is duplicated to both channels, multichannel keeps only the
// first two.
func downmixToStereo(src []float32, channels int) []float32 {
	if channels == MixChannels {
		return src
	}
	frames := len(src) / channels
	out := make([]float32, frames*MixChannels)
	for i := 0; i < frames; i++ {
		base := i * channels
		l := src[base]
		r := l
		if channels >= 2 {
			r = src[base+1]
		}
		out[i*MixChannels] = l
		out[i*MixChannels+1] = r
	}
	return out
}
