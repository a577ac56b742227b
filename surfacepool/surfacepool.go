// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package surfacepool implements the bounded, bucketed reuse of
// intermediate premultiplied RGBA8 pixmaps the CPU pass executor
// borrows and releases once per surface per frame (spec.md §4.6).
package surfacepool

import (
	"sync/atomic"

	"wavyte.dev/wavyte/base/atomiccounter"
	"wavyte.dev/wavyte/base/atomicx"
	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/compile"
)

// Opts bounds a Pool's retained memory.
type Opts struct {
	// MaxPoolBytes caps total retained bytes across every bucket. A
	// release that would exceed it drops the buffer instead.
	MaxPoolBytes int
	// MaxSurfacesPerBucket caps retained buffers within one (w,h) bucket.
	MaxSurfacesPerBucket int
}

// DefaultOpts matches the original engine's conservative v0.3 default.
func DefaultOpts() Opts {
	return Opts{MaxPoolBytes: 256 * 1024 * 1024, MaxSurfacesPerBucket: 8}
}

type key struct {
	w, h int
}

func (k key) byteLen() int {
	return k.w * k.h * 4
}

type bucket struct {
	surfaces []*color.Buffer
}

// Stats reports pool occupancy and lifetime allocation counters. All
// fields are read with a consistent snapshot under no lock contention
// since each Pool is exclusively owned by one worker (spec.md §5: "no
// locks in the per-frame hot path").
type Stats struct {
	RetainedSurfaces  int
	RetainedBytes     int
	PeakRetainedBytes int
	AllocSurfaces     int64
	AllocBytes        int64
	DroppedOnRelease  int64
}

// Pool is a bounded pooled allocator for CPU surfaces used during
// RenderPlan execution. Keyed by (width, height); format is always
// Rgba8Premul, the pipeline's only surface format, so it is not part
// of the bucket key.
type Pool struct {
	opts Opts

	retainedSurfaces  atomiccounter.Counter
	retainedBytes     atomiccounter.Counter
	peakRetainedBytes int32
	allocSurfaces     atomiccounter.Counter
	allocBytes        atomiccounter.Counter
	droppedOnRelease  atomiccounter.Counter

	buckets map[key]*bucket
}

// New constructs a Pool with the given bounds.
func New(opts Opts) *Pool {
	return &Pool{opts: opts, buckets: map[key]*bucket{}}
}

// Stats returns a snapshot of the pool's current occupancy and
// lifetime counters.
func (p *Pool) Stats() Stats {
	return Stats{
		RetainedSurfaces:  int(p.retainedSurfaces.Value()),
		RetainedBytes:     int(p.retainedBytes.Value()),
		PeakRetainedBytes: int(atomic.LoadInt32(&p.peakRetainedBytes)),
		AllocSurfaces:     p.allocSurfaces.Value(),
		AllocBytes:        p.allocBytes.Value(),
		DroppedOnRelease:  p.droppedOnRelease.Value(),
	}
}

func descKey(desc compile.SurfaceDesc) key {
	return key{w: desc.Width, h: desc.Height}
}

// Borrow returns either a popped cached buffer (its bytes are whatever
// the last owner left, not cleared) or a freshly allocated one. Scene
// passes that set ClearToTransparent are responsible for memsetting
// their borrowed target; see render.Executor's scene pass.
func (p *Pool) Borrow(desc compile.SurfaceDesc) *color.Buffer {
	k := descKey(desc)
	if b, ok := p.buckets[k]; ok && len(b.surfaces) > 0 {
		n := len(b.surfaces) - 1
		buf := b.surfaces[n]
		b.surfaces = b.surfaces[:n]
		p.retainedSurfaces.Dec()
		p.retainedBytes.Sub(int64(k.byteLen()))
		return buf
	}

	p.allocSurfaces.Inc()
	p.allocBytes.Add(int64(k.byteLen()))
	return color.NewBuffer(desc.Width, desc.Height)
}

// Release reinstates buf into its bucket, subject to the pool's byte
// and per-bucket-count bounds. Buffers that would exceed either bound
// are dropped (counted, not retained).
func (p *Pool) Release(desc compile.SurfaceDesc, buf *color.Buffer) {
	if p.opts.MaxPoolBytes == 0 || p.opts.MaxSurfacesPerBucket == 0 {
		p.droppedOnRelease.Inc()
		return
	}

	k := descKey(desc)
	bytes := int64(k.byteLen())
	if p.retainedBytes.Value()+bytes > int64(p.opts.MaxPoolBytes) {
		p.droppedOnRelease.Inc()
		return
	}

	b, ok := p.buckets[k]
	if !ok {
		b = &bucket{}
		p.buckets[k] = b
	}
	if len(b.surfaces) >= p.opts.MaxSurfacesPerBucket {
		p.droppedOnRelease.Inc()
		return
	}

	b.surfaces = append(b.surfaces, buf)
	p.retainedSurfaces.Inc()
	newTotal := p.retainedBytes.Add(bytes)
	atomicx.MaxInt32(&p.peakRetainedBytes, int32(newTotal))
}

// ReleaseAll drops every buffer the pool currently retains, used when
// a session-owned pool is torn down.
func (p *Pool) ReleaseAll() {
	p.buckets = map[key]*bucket{}
	p.retainedSurfaces.Set(0)
	p.retainedBytes.Set(0)
	atomic.StoreInt32(&p.peakRetainedBytes, 0)
}
