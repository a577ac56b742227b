// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package color

// Buffer is a row-major premultiplied RGBA8 pixel buffer: a flat byte
// slice with Data.Len() == Width*Height*4, matching spec.md's FrameRGBA
// and intermediate-surface layout exactly.
type Buffer struct {
	Width, Height int
	Data          []byte
}

// NewBuffer allocates a zeroed (fully transparent) buffer of the given
// dimensions.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{Width: w, Height: h, Data: make([]byte, w*h*4)}
}

// Clear memsets the buffer to fully transparent.
func (b *Buffer) Clear() {
	for i := range b.Data {
		b.Data[i] = 0
	}
}

// At returns the pixel at (x, y). Out-of-bounds coordinates are clamped
// (spec.md's "clamp01(x, y)" edge handling rule).
func (b *Buffer) At(x, y int) Premul {
	x, y = b.clampCoords(x, y)
	i := (y*b.Width + x) * 4
	return Premul{R: b.Data[i], G: b.Data[i+1], B: b.Data[i+2], A: b.Data[i+3]}
}

// AtUnclamped returns the pixel at (x, y), or transparent black if out
// of bounds (used by Slide's "sample with clamp-to-transparent").
func (b *Buffer) AtUnclamped(x, y int) Premul {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return Premul{}
	}
	i := (y*b.Width + x) * 4
	return Premul{R: b.Data[i], G: b.Data[i+1], B: b.Data[i+2], A: b.Data[i+3]}
}

// Set writes the pixel at (x, y). Out-of-bounds writes are silently
// ignored.
func (b *Buffer) Set(x, y int, p Premul) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 4
	b.Data[i], b.Data[i+1], b.Data[i+2], b.Data[i+3] = p.R, p.G, p.B, p.A
}

func (b *Buffer) clampCoords(x, y int) (int, int) {
	if x < 0 {
		x = 0
	}
	if x >= b.Width {
		x = b.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= b.Height {
		y = b.Height - 1
	}
	return x, y
}

// CloneInto copies src's pixels into dst, which must have the same
// dimensions.
func CloneInto(dst, src *Buffer) {
	copy(dst.Data, src.Data)
}

// Equal reports whether two buffers have identical dimensions and
// pixel bytes, used by the round-trip/idempotence property tests.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Width != o.Width || b.Height != o.Height {
		return false
	}
	if len(b.Data) != len(o.Data) {
		return false
	}
	for i := range b.Data {
		if b.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}
