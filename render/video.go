// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"container/list"
	"image"

	"github.com/cogentcore/reisen"

	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/internal/werror"
	"wavyte.dev/wavyte/rasterize"
)

// DefaultVideoCacheCapacity and DefaultVideoPrefetchFrames are the
// WAVYTE_VIDEO_CACHE_CAPACITY / WAVYTE_VIDEO_PREFETCH_FRAMES defaults
// (spec.md §6).
const (
	DefaultVideoCacheCapacity = 64
	DefaultVideoPrefetchFrames = 12
)

type videoCacheKey struct {
	assetKey string
	timeMs   int64
}

// VideoFrameCache is the session-scoped decoded-frame cache: it maps
// (asset, source_time_ms) to a decoded RGBA frame in an LRU of bounded
// capacity. On a miss it decodes a batch of prefetch frames starting at
// the first frame at or after the requested time; batches are not
// aligned to fixed frame buckets. One forward-only reisen decoder is
// kept open per video asset; reisen exposes no true seek, so a request
// for a time behind the decoder's cursor reopens the stream from the
// start and decodes forward to catch up (documented limitation, see
// DESIGN.md).
type VideoFrameCache struct {
	capacity int
	prefetch int

	decoders map[string]*videoDecoder
	lru      *list.List
	elems    map[videoCacheKey]*list.Element
	frames   map[videoCacheKey]rasterize.Pixmap
}

// NewVideoFrameCache constructs a cache with the given bounds. Pass
// DefaultVideoCacheCapacity/DefaultVideoPrefetchFrames, or values
// parsed from WAVYTE_VIDEO_CACHE_CAPACITY/WAVYTE_VIDEO_PREFETCH_FRAMES.
func NewVideoFrameCache(capacity, prefetch int) *VideoFrameCache {
	if capacity <= 0 {
		capacity = DefaultVideoCacheCapacity
	}
	if prefetch <= 0 {
		prefetch = DefaultVideoPrefetchFrames
	}
	return &VideoFrameCache{
		capacity: capacity,
		prefetch: prefetch,
		decoders: map[string]*videoDecoder{},
		lru:      list.New(),
		elems:    map[videoCacheKey]*list.Element{},
		frames:   map[videoCacheKey]rasterize.Pixmap{},
	}
}

// Frame returns the decoded frame for assetKey at sourceTimeS, keyed by
// round(sourceTimeS*1000) per spec.md §4.5's millisecond bucketing.
func (c *VideoFrameCache) Frame(assetKey, sourcePath string, fps float64, sourceTimeS float64) (rasterize.Pixmap, error) {
	timeMs := int64(color.RoundHalfAwayFromZero(sourceTimeS * 1000))
	key := videoCacheKey{assetKey: assetKey, timeMs: timeMs}
	if pm, ok := c.frames[key]; ok {
		c.touch(key)
		return pm, nil
	}

	dec, err := c.decoderFor(assetKey, sourcePath)
	if err != nil {
		return rasterize.Pixmap{}, err
	}

	batch, err := dec.decodeBatchFrom(sourceTimeS, fps, c.prefetch)
	if err != nil {
		return rasterize.Pixmap{}, err
	}
	for _, f := range batch {
		c.insert(videoCacheKey{assetKey: assetKey, timeMs: f.timeMs}, f.pixmap)
	}

	pm, ok := c.frames[key]
	if !ok {
		return rasterize.Pixmap{}, werror.Evaluationf("render: video %q produced no frame for t=%.3fs", assetKey, sourceTimeS)
	}
	return pm, nil
}

func (c *VideoFrameCache) decoderFor(assetKey, sourcePath string) (*videoDecoder, error) {
	if dec, ok := c.decoders[assetKey]; ok {
		return dec, nil
	}
	dec, err := newVideoDecoder(sourcePath)
	if err != nil {
		return nil, err
	}
	c.decoders[assetKey] = dec
	return dec, nil
}

func (c *VideoFrameCache) insert(key videoCacheKey, pm rasterize.Pixmap) {
	if _, ok := c.frames[key]; ok {
		c.touch(key)
		return
	}
	c.frames[key] = pm
	c.elems[key] = c.lru.PushFront(key)
	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		ok := oldest.Value.(videoCacheKey)
		c.lru.Remove(oldest)
		delete(c.elems, ok)
		delete(c.frames, ok)
	}
}

func (c *VideoFrameCache) touch(key videoCacheKey) {
	if e, ok := c.elems[key]; ok {
		c.lru.MoveToFront(e)
	}
}

// Close releases every open decoder. Call once at session teardown.
func (c *VideoFrameCache) Close() {
	for _, dec := range c.decoders {
		dec.close()
	}
}

type decodedFrame struct {
	timeMs int64
	pixmap rasterize.Pixmap
}

// videoDecoder wraps one forward-only reisen video stream, re-opened
// from the start whenever a requested time falls behind its cursor
// (original_source/ has no Go analog to reference for seek; this
// mirrors the forward-iterator pattern decode_audio.go already uses
// for reisen's packet/frame API).
type videoDecoder struct {
	path   string
	media  *reisen.Media
	stream *reisen.VideoStream
	cursor float64 // seconds of the last frame decoded; -1 before the first
}

func newVideoDecoder(path string) (*videoDecoder, error) {
	d := &videoDecoder{path: path}
	if err := d.reopen(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *videoDecoder) reopen() error {
	if d.media != nil {
		d.media.Close()
	}
	media, err := reisen.NewMedia(d.path)
	if err != nil {
		return werror.Evaluationf("render: reopen video %q: %v", d.path, err)
	}
	if err := media.OpenDecode(); err != nil {
		return werror.Evaluationf("render: decode video %q: %v", d.path, err)
	}
	streams := media.VideoStreams()
	if len(streams) == 0 {
		return werror.Evaluationf("render: video %q has no video stream", d.path)
	}
	if err := streams[0].OpenDecode(); err != nil {
		return werror.Evaluationf("render: open video stream %q: %v", d.path, err)
	}
	d.media = media
	d.stream = streams[0]
	d.cursor = -1
	return nil
}

// decodeBatchFrom decodes n frames starting at the first frame at or
// after sourceTimeS, reopening the stream first if sourceTimeS lies
// behind the decoder's current cursor.
func (d *videoDecoder) decodeBatchFrom(sourceTimeS float64, fps float64, n int) ([]decodedFrame, error) {
	if sourceTimeS < d.cursor {
		if err := d.reopen(); err != nil {
			return nil, err
		}
	}

	var out []decodedFrame
	for len(out) < n {
		packet, gotPacket, err := d.media.ReadPacket()
		if err != nil {
			return nil, werror.Evaluationf("render: read video packet %q: %v", d.path, err)
		}
		if !gotPacket {
			break
		}
		if packet.Type() != reisen.StreamVideo || packet.StreamIndex() != d.stream.Index() {
			continue
		}
		frame, gotFrame, err := d.stream.ReadVideoFrame()
		if err != nil {
			return nil, werror.Evaluationf("render: decode video frame %q: %v", d.path, err)
		}
		if !gotFrame || frame == nil {
			continue
		}
		if d.cursor < 0 {
			d.cursor = 0
		} else {
			d.cursor += 1 / fps
		}
		if d.cursor < sourceTimeS-1e-6 {
			continue
		}
		out = append(out, decodedFrame{
			timeMs: int64(color.RoundHalfAwayFromZero(d.cursor * 1000)),
			pixmap: frameToPixmap(frame),
		})
	}
	return out, nil
}

func (d *videoDecoder) close() {
	if d.media != nil {
		d.media.Close()
	}
}

// frameToPixmap premultiplies a decoded straight-alpha RGBA frame into
// the pipeline's pixmap format.
func frameToPixmap(img *image.RGBA) rasterize.Pixmap {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	data := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			r, g, b, a := img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
			p := color.FromStraightRGBA8(r, g, b, a)
			o := (y*w + x) * 4
			data[o], data[o+1], data[o+2], data[o+3] = p.R, p.G, p.B, p.A
		}
	}
	return rasterize.Pixmap{Width: w, Height: h, Data: data}
}
