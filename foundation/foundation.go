// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package foundation holds the timeline-addressing types shared by
// every layer of the render pipeline: the output canvas, the frame
// rate, and frame indices/ranges on the timeline.
package foundation

import "fmt"

// Canvas is the fixed output surface size.
type Canvas struct {
	Width, Height int
}

// Even reports whether both dimensions are even, required only at
// MP4-encode time (spec.md §1, §6), not at composition-build time.
func (c Canvas) Even() bool {
	return c.Width%2 == 0 && c.Height%2 == 0
}

// Fps is a rational frames-per-second value.
type Fps struct {
	Num, Den uint32
}

// Float64 returns the frame rate as a float64.
func (f Fps) Float64() float64 {
	if f.Den == 0 {
		return 0
	}
	return float64(f.Num) / float64(f.Den)
}

// String renders "num/den".
func (f Fps) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

// FrameIndex addresses one frame on the composition timeline.
type FrameIndex uint64

// FrameRange is a half-open [Start, End) range of frame indices.
type FrameRange struct {
	Start, End FrameIndex
}

// Len returns End - Start, or 0 if the range is empty/inverted.
func (r FrameRange) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return int(r.End - r.Start)
}

// Contains reports whether frame is in [Start, End).
func (r FrameRange) Contains(frame FrameIndex) bool {
	return frame >= r.Start && frame < r.End
}

// Valid reports whether Start <= End.
func (r FrameRange) Valid() bool {
	return r.Start <= r.End
}

// FrameToSample converts a frame delta on the Fps timeline to a sample
// count at the given sample rate, using rational rounding:
// round(frames * sampleRate * fps.Den / fps.Num).
func FrameToSample(frames int64, fps Fps, sampleRate int) int64 {
	if fps.Num == 0 {
		return 0
	}
	num := frames * int64(sampleRate) * int64(fps.Den)
	den := int64(fps.Num)
	return roundDiv(num, den)
}

func roundDiv(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	neg := (num < 0) != (den < 0)
	if num < 0 {
		num = -num
	}
	if den < 0 {
		den = -den
	}
	q := num / den
	r := num % den
	if 2*r >= den {
		q++
	}
	if neg {
		q = -q
	}
	return q
}
