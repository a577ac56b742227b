// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encode implements the sink contract rendered frames are
// delivered to in strictly increasing frame-index order (spec.md §4.9):
// an in-memory sink for tests, and an ffmpeg subprocess sink for MP4
// output, grounded on original_source/wavyte/src/encode/sink.rs.
package encode

import (
	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/internal/werror"
)

// AudioInputConfig names a raw interleaved f32le PCM file the sink
// should mux in as the output's audio track.
type AudioInputConfig struct {
	Path       string
	SampleRate int
	Channels   int
}

// SinkConfig is passed to Sink.Begin once, before any frames are pushed.
type SinkConfig struct {
	Width, Height int
	Fps           foundation.Fps
	Audio         *AudioInputConfig
}

// Sink consumes rendered frames in strictly increasing FrameIndex order.
// Lifecycle: exactly one Begin, zero or more Push with strictly
// increasing indices, then exactly one End once Begin has succeeded —
// called regardless of whether the rest of the range render succeeded,
// so a started sink can always release its resources. A sink whose
// Begin fails gets no End.
type Sink interface {
	Begin(cfg SinkConfig) error
	Push(idx foundation.FrameIndex, frame *color.Buffer) error
	End() error
}

// InMemorySink collects frames for tests and debugging.
type InMemorySink struct {
	cfg    SinkConfig
	Frames []PushedFrame
}

// PushedFrame is one frame captured by InMemorySink, in delivery order.
type PushedFrame struct {
	Index foundation.FrameIndex
	Frame *color.Buffer
}

// NewInMemorySink constructs an empty InMemorySink.
func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

func (s *InMemorySink) Begin(cfg SinkConfig) error {
	s.cfg = cfg
	s.Frames = s.Frames[:0]
	return nil
}

func (s *InMemorySink) Push(idx foundation.FrameIndex, frame *color.Buffer) error {
	if len(s.Frames) > 0 && idx <= s.Frames[len(s.Frames)-1].Index {
		return werror.Evaluationf("encode: frame index %d is not strictly increasing after %d", idx, s.Frames[len(s.Frames)-1].Index)
	}
	clone := color.NewBuffer(frame.Width, frame.Height)
	color.CloneInto(clone, frame)
	s.Frames = append(s.Frames, PushedFrame{Index: idx, Frame: clone})
	return nil
}

func (s *InMemorySink) End() error { return nil }

// Config returns the SinkConfig captured in Begin.
func (s *InMemorySink) Config() SinkConfig { return s.cfg }
