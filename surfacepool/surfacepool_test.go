// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surfacepool

import (
	"testing"

	"github.com/stretchr/testify/require"
	"wavyte.dev/wavyte/compile"
)

func desc(w, h int) compile.SurfaceDesc {
	return compile.SurfaceDesc{Width: w, Height: h}
}

func TestPoolHonorsBucketCap(t *testing.T) {
	p := New(Opts{MaxPoolBytes: 1 << 30, MaxSurfacesPerBucket: 1})
	d := desc(8, 8)

	a := p.Borrow(d)
	b := p.Borrow(d)
	p.Release(d, a)
	p.Release(d, b)

	require.Equal(t, 1, p.Stats().RetainedSurfaces)
}

func TestPoolHonorsGlobalByteCap(t *testing.T) {
	bytes8x8 := 8 * 8 * 4
	p := New(Opts{MaxPoolBytes: bytes8x8, MaxSurfacesPerBucket: 8})
	d := desc(8, 8)

	a := p.Borrow(d)
	b := p.Borrow(d)
	p.Release(d, a)
	p.Release(d, b)

	st := p.Stats()
	require.Equal(t, bytes8x8, st.RetainedBytes)
	require.Equal(t, 1, st.RetainedSurfaces)
	require.GreaterOrEqual(t, st.DroppedOnRelease, int64(1))
}

func TestBorrowReusesReleasedBuffer(t *testing.T) {
	p := New(DefaultOpts())
	d := desc(4, 4)
	a := p.Borrow(d)
	a.Data[0] = 42
	p.Release(d, a)

	b := p.Borrow(d)
	require.Equal(t, byte(42), b.Data[0], "borrow should reuse the released buffer, not allocate fresh")
	require.Equal(t, int64(1), p.Stats().AllocSurfaces)
}

func TestReleaseAllClearsPool(t *testing.T) {
	p := New(DefaultOpts())
	d := desc(4, 4)
	p.Release(d, p.Borrow(d))
	p.ReleaseAll()

	st := p.Stats()
	require.Zero(t, st.RetainedSurfaces)
	require.Zero(t, st.RetainedBytes)
}

func TestPeakRetainedBytesTracksHighWaterMark(t *testing.T) {
	p := New(DefaultOpts())
	small, big := desc(2, 2), desc(8, 8)

	p.Release(big, p.Borrow(big))
	peakAfterBig := p.Stats().PeakRetainedBytes
	require.Equal(t, big.Width*big.Height*4, peakAfterBig)

	// Releasing a smaller surface on top adds its bytes to the retained
	// total, so the recorded peak rises to the new total.
	p.Release(small, p.Borrow(small))
	require.Equal(t, peakAfterBig+small.Width*small.Height*4, p.Stats().PeakRetainedBytes)

	p.ReleaseAll()
	require.Zero(t, p.Stats().PeakRetainedBytes)
}
