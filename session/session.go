// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session is the session-oriented renderer (spec.md §4.7):
// it front-loads asset decode and owns the executor, surface pool, and
// video decoders for its lifetime, then offers efficient single-frame
// and range rendering against that shared state. Range rendering
// streams frames to a encode.Sink in strictly increasing order via a
// dedicated encoder goroutine, optionally fanning frame production out
// across a worker pool.
package session

import (
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"wavyte.dev/wavyte/assets"
	"wavyte.dev/wavyte/audio"
	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/compile"
	"wavyte.dev/wavyte/encode"
	"wavyte.dev/wavyte/eval"
	"wavyte.dev/wavyte/fingerprint"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/internal/werror"
	"wavyte.dev/wavyte/model"
	"wavyte.dev/wavyte/render"
	"wavyte.dev/wavyte/surfacepool"
)

// Opts controls Session.RenderRange's streaming/parallel behavior.
type Opts struct {
	// Parallel enables frame-level parallelism across a worker pool.
	Parallel bool
	// ChunkSize is the unit of work producers claim at a time.
	ChunkSize int
	// Workers overrides the worker pool size; 0 uses runtime.GOMAXPROCS.
	Workers int
	// StaticFrameElision skips re-rendering frames that evaluate
	// identically within a chunk (spec.md §4.4/§4.7).
	StaticFrameElision bool
	// ChannelCapacity bounds the producer-to-encoder channel.
	ChannelCapacity int
	// EnableAudio builds and mixes an audio manifest for the range
	// before streaming frames, passing it to the sink as AudioInputConfig.
	EnableAudio bool

	ClearColor          color.Premul
	VideoCacheCapacity  int
	VideoPrefetchFrames int

	// Logger receives diagnostic-only events (range start and completion
	// with frame counts, the mixed audio file's format); it never gates
	// control flow. Nil uses
	// slog.Default().
	Logger *slog.Logger
}

// DefaultOpts mirrors original_source/wavyte/src/v03/session/render_session.rs's
// RenderSessionOpts::default.
func DefaultOpts() Opts {
	return Opts{
		ChunkSize:       64,
		ChannelCapacity: 4,
		EnableAudio:     true,
	}
}

// Stats reports how many frames a range render actually computed versus
// elided.
type Stats struct {
	FramesTotal    uint64
	FramesRendered uint64
	FramesElided   uint64
}

// Session owns the decoded asset store, surface pool, and video decoder
// cache for one composition's lifetime.
type Session struct {
	comp       *model.Composition
	assetsRoot string
	store      *assets.Store
	pool       *surfacepool.Pool
	executor   *render.Executor
	opts       Opts
	log        *slog.Logger
}

// New validates comp, decodes every referenced asset under assetsRoot,
// and builds the pooled executor the session reuses across every frame.
func New(comp *model.Composition, assetsRoot string, opts Opts) (*Session, error) {
	if err := comp.Validate(); err != nil {
		return nil, err
	}
	store, err := assets.NewStore(*comp, assetsRoot)
	if err != nil {
		return nil, err
	}
	pool := surfacepool.New(surfacepool.DefaultOpts())
	executor := render.NewExecutor(store, pool, render.Config{
		ClearColor:          opts.ClearColor,
		VideoCacheCapacity:  opts.VideoCacheCapacity,
		VideoPrefetchFrames: opts.VideoPrefetchFrames,
	})
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		comp:       comp,
		assetsRoot: assetsRoot,
		store:      store,
		pool:       pool,
		executor:   executor,
		opts:       opts,
		log:        log,
	}, nil
}

// Close releases the session's open video decoders.
func (s *Session) Close() {
	s.executor.Close()
}

// RenderFrame renders exactly one frame.
func (s *Session) RenderFrame(frame foundation.FrameIndex) (*color.Buffer, error) {
	if uint64(frame) >= uint64(s.comp.Duration) {
		return nil, werror.Validationf("session: render_frame frame must be within composition duration")
	}
	g, err := eval.New(*s.comp).EvalFrame(frame)
	if err != nil {
		return nil, err
	}
	plan, err := compile.Compile(s.comp, g)
	if err != nil {
		return nil, err
	}
	return s.executor.Execute(plan)
}

// RenderRange streams every frame in rng to sink in strictly increasing
// index order (spec.md §4.7/§4.9), optionally mixing audio for the range
// first.
func (s *Session) RenderRange(rng foundation.FrameRange, sink encode.Sink) (Stats, error) {
	if rng.Len() == 0 {
		return Stats{}, werror.Validationf("session: render_range range must be non-empty")
	}
	if uint64(rng.End) > uint64(s.comp.Duration) {
		return Stats{}, werror.Validationf("session: render_range range must be within composition duration")
	}

	s.log.Debug("render_range starting", "start", rng.Start, "end", rng.End, "parallel", s.opts.Parallel)

	var audioCfg *encode.AudioInputConfig
	if s.opts.EnableAudio {
		cfg, cleanup, err := s.prepareAudio(rng)
		if err != nil {
			return Stats{}, err
		}
		if cleanup != nil {
			defer cleanup()
		}
		audioCfg = cfg
		if cfg != nil {
			s.log.Debug("audio manifest mixed", "sample_rate", cfg.SampleRate, "channels", cfg.Channels, "path", cfg.Path)
		}
	}

	sinkCfg := encode.SinkConfig{
		Width:  s.comp.Canvas.Width,
		Height: s.comp.Canvas.Height,
		Fps:    s.comp.Fps,
		Audio:  audioCfg,
	}

	chunkSize := s.opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 1
	}
	if rng.Len() < chunkSize {
		chunkSize = rng.Len()
	}
	channelCap := s.opts.ChannelCapacity
	if channelCap < 1 {
		channelCap = 1
	}

	type frameMsg struct {
		idx   foundation.FrameIndex
		frame *color.Buffer
	}
	ch := make(chan frameMsg, channelCap)

	var encErr error
	encDone := make(chan struct{})
	go func() {
		defer close(encDone)
		if err := sink.Begin(sinkCfg); err != nil {
			encErr = err
			for range ch {
			}
			return
		}
		next := rng.Start
		pending := map[foundation.FrameIndex]*color.Buffer{}
		for msg := range ch {
			pending[msg.idx] = msg.frame
			for {
				frame, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				if err := sink.Push(next, frame); err != nil {
					encErr = err
					for range ch {
					}
					_ = sink.End()
					return
				}
				next++
			}
		}
		encErr = sink.End()
	}()

	stats, produceErr := s.produce(rng, chunkSize, func(idx foundation.FrameIndex, frame *color.Buffer) {
		ch <- frameMsg{idx: idx, frame: frame}
	})
	close(ch)
	<-encDone

	if produceErr != nil {
		return Stats{}, produceErr
	}
	if encErr != nil {
		return Stats{}, encErr
	}
	s.log.Debug("render_range complete", "frames_total", stats.FramesTotal, "frames_rendered", stats.FramesRendered, "frames_elided", stats.FramesElided)
	return stats, nil
}

// prepareAudio builds and mixes the range's audio manifest to a temp
// f32le file, returning nil config (no cleanup) if the range carries no
// audio. Grounded on render_session.rs's TempFileGuard.
func (s *Session) prepareAudio(rng foundation.FrameRange) (*encode.AudioInputConfig, func(), error) {
	manifest, err := audio.BuildManifest(s.comp, s.store, rng)
	if err != nil {
		return nil, nil, err
	}
	if len(manifest.Segments) == 0 {
		return nil, nil, nil
	}
	mixed := audio.MixManifest(manifest)

	f, err := os.CreateTemp("", "wavyte_audio_mix_*.f32le")
	if err != nil {
		return nil, nil, werror.Evaluationf("session: create temp audio file: %v", err)
	}
	path := f.Name()
	_ = f.Close()

	if err := audio.WriteMixToF32LEFile(mixed, path); err != nil {
		os.Remove(path)
		return nil, nil, err
	}

	cleanup := func() { os.Remove(path) }
	return &encode.AudioInputConfig{
		Path:       path,
		SampleRate: manifest.SampleRate,
		Channels:   manifest.Channels,
	}, cleanup, nil
}

// produce renders every frame in rng chunk by chunk, invoking emit with
// each rendered frame. Sequentially when Parallel is off; fanned out
// across a worker pool via errgroup otherwise. Stats accumulate across
// chunks regardless of mode.
func (s *Session) produce(rng foundation.FrameRange, chunkSize int, emit func(foundation.FrameIndex, *color.Buffer)) (Stats, error) {
	var stats Stats
	start := rng.Start
	for start < rng.End {
		end := start + foundation.FrameIndex(chunkSize)
		if end > rng.End {
			end = rng.End
		}

		var chunkStats Stats
		var err error
		if s.opts.Parallel {
			chunkStats, err = s.renderChunkParallel(start, end, emit)
		} else {
			chunkStats, err = s.renderChunkSequential(start, end, emit)
		}
		if err != nil {
			return Stats{}, err
		}
		stats.FramesTotal += chunkStats.FramesTotal
		stats.FramesRendered += chunkStats.FramesRendered
		stats.FramesElided += chunkStats.FramesElided

		start = end
	}
	return stats, nil
}

func (s *Session) renderChunkSequential(start, end foundation.FrameIndex, emit func(foundation.FrameIndex, *color.Buffer)) (Stats, error) {
	ev := eval.New(*s.comp)
	var cache map[fingerprint.FrameFingerprint]*color.Buffer
	if s.opts.StaticFrameElision {
		cache = map[fingerprint.FrameFingerprint]*color.Buffer{}
	}

	var stats Stats
	for f := start; f < end; f++ {
		stats.FramesTotal++
		g, err := ev.EvalFrame(f)
		if err != nil {
			return Stats{}, err
		}

		if cache != nil {
			fp, err := fingerprint.Eval(g)
			if err != nil {
				return Stats{}, err
			}
			if frame, ok := cache[fp]; ok {
				stats.FramesElided++
				emit(f, frame)
				continue
			}
			plan, err := compile.Compile(s.comp, g)
			if err != nil {
				return Stats{}, err
			}
			frame, err := s.executor.Execute(plan)
			if err != nil {
				return Stats{}, err
			}
			cache[fp] = frame
			stats.FramesRendered++
			emit(f, frame)
			continue
		}

		plan, err := compile.Compile(s.comp, g)
		if err != nil {
			return Stats{}, err
		}
		frame, err := s.executor.Execute(plan)
		if err != nil {
			return Stats{}, err
		}
		stats.FramesRendered++
		emit(f, frame)
	}
	return stats, nil
}

// renderChunkParallel fans a chunk's frames out across a worker pool.
// Each frame's task gets its own Evaluator, Executor and surface pool,
// since none of them is safe for concurrent use; the tasks share only
// the session's asset store.
func (s *Session) renderChunkParallel(start, end foundation.FrameIndex, emit func(foundation.FrameIndex, *color.Buffer)) (Stats, error) {
	workers := s.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n := int(end - start); workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	if s.opts.StaticFrameElision {
		return s.renderChunkParallelElided(start, end, workers, emit)
	}

	type result struct {
		idx   foundation.FrameIndex
		frame *color.Buffer
	}
	results := make([]result, int(end-start))

	var g errgroup.Group
	g.SetLimit(workers)
	for f := start; f < end; f++ {
		f := f
		g.Go(func() error {
			ev := eval.New(*s.comp)
			ex := render.NewExecutor(s.store, surfacepool.New(surfacepool.DefaultOpts()), render.Config{
				ClearColor:          s.opts.ClearColor,
				VideoCacheCapacity:  s.opts.VideoCacheCapacity,
				VideoPrefetchFrames: s.opts.VideoPrefetchFrames,
			})
			defer ex.Close()

			evg, err := ev.EvalFrame(f)
			if err != nil {
				return err
			}
			plan, err := compile.Compile(s.comp, evg)
			if err != nil {
				return err
			}
			frame, err := ex.Execute(plan)
			if err != nil {
				return err
			}
			results[int(f-start)] = result{idx: f, frame: frame}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	for _, r := range results {
		emit(r.idx, r.frame)
	}
	return Stats{FramesTotal: uint64(end - start), FramesRendered: uint64(end - start)}, nil
}

// renderChunkParallelElided deduplicates frames by fingerprint (computed
// serially, cheaply, on the main goroutine) before fanning only the
// unique frames out to the worker pool.
func (s *Session) renderChunkParallelElided(start, end foundation.FrameIndex, workers int, emit func(foundation.FrameIndex, *color.Buffer)) (Stats, error) {
	ev := eval.New(*s.comp)
	frames := make([]foundation.FrameIndex, 0, int(end-start))
	for f := start; f < end; f++ {
		frames = append(frames, f)
	}

	seen := map[fingerprint.FrameFingerprint]int{}
	var uniqueFrames []foundation.FrameIndex
	frameToUnique := make([]int, len(frames))

	for i, f := range frames {
		g, err := ev.EvalFrame(f)
		if err != nil {
			return Stats{}, err
		}
		fp, err := fingerprint.Eval(g)
		if err != nil {
			return Stats{}, err
		}
		u, ok := seen[fp]
		if !ok {
			u = len(uniqueFrames)
			seen[fp] = u
			uniqueFrames = append(uniqueFrames, f)
		}
		frameToUnique[i] = u
	}

	rendered := make([]*color.Buffer, len(uniqueFrames))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, f := range uniqueFrames {
		i, f := i, f
		g.Go(func() error {
			localEv := eval.New(*s.comp)
			ex := render.NewExecutor(s.store, surfacepool.New(surfacepool.DefaultOpts()), render.Config{
				ClearColor:          s.opts.ClearColor,
				VideoCacheCapacity:  s.opts.VideoCacheCapacity,
				VideoPrefetchFrames: s.opts.VideoPrefetchFrames,
			})
			defer ex.Close()

			evg, err := localEv.EvalFrame(f)
			if err != nil {
				return err
			}
			plan, err := compile.Compile(s.comp, evg)
			if err != nil {
				return err
			}
			frame, err := ex.Execute(plan)
			if err != nil {
				return err
			}
			rendered[i] = frame
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	for i, f := range frames {
		emit(f, rendered[frameToUnique[i]])
	}

	total := uint64(end - start)
	uniqueCount := uint64(len(uniqueFrames))
	return Stats{
		FramesTotal:    total,
		FramesRendered: uniqueCount,
		FramesElided:   total - uniqueCount,
	}, nil
}
