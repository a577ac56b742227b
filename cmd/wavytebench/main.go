// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command wavytebench renders a synthetic composition repeatedly and
// reports wall-clock percentiles, per spec.md §6's "CLI flags (bench
// harness, informational)" — none of these flags affect pixel
// semantics, only the shape of this external collaborator.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"wavyte.dev/wavyte/anim"
	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/encode"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
	"wavyte.dev/wavyte/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type benchArgs struct {
	width, height      int
	fps                int
	seconds            int
	warmup, repeats    int
	backend            string
	parallel           bool
	threads            int
	chunkSize          int
	staticFrameElision bool
	noEncode           bool
	blurRadius         int
	outPath            string
}

func parseArgs() (benchArgs, error) {
	a := benchArgs{}
	flag.IntVar(&a.width, "width", 640, "output width in pixels (must be even)")
	flag.IntVar(&a.height, "height", 360, "output height in pixels (must be even)")
	flag.IntVar(&a.fps, "fps", 30, "frames per second")
	flag.IntVar(&a.seconds, "seconds", 10, "composition duration in seconds")
	flag.IntVar(&a.warmup, "warmup", 1, "warmup runs before timed runs")
	flag.IntVar(&a.repeats, "repeats", 10, "timed runs")
	flag.StringVar(&a.backend, "backend", "cpu", "render backend (only cpu is implemented)")
	flag.BoolVar(&a.parallel, "parallel", false, "render chunks across a worker pool")
	flag.IntVar(&a.threads, "threads", 0, "worker count for --parallel (0 = GOMAXPROCS)")
	flag.IntVar(&a.chunkSize, "chunk-size", 64, "frames per render chunk")
	flag.BoolVar(&a.staticFrameElision, "static-frame-elision", false, "reuse output for fingerprint-identical frames")
	flag.BoolVar(&a.noEncode, "no-encode", false, "render frames without spawning ffmpeg")
	flag.IntVar(&a.blurRadius, "blur-radius", 0, "blur pass radius in pixels (0 disables)")
	flag.StringVar(&a.outPath, "out", "wavytebench_out.mp4", "MP4 output path, ignored with --no-encode")
	flag.Parse()

	if a.width <= 0 || a.height <= 0 {
		return a, fmt.Errorf("--width/--height must be > 0")
	}
	if !a.noEncode && (a.width%2 != 0 || a.height%2 != 0) {
		return a, fmt.Errorf("--width/--height must be even to encode MP4")
	}
	if a.fps <= 0 || a.seconds <= 0 {
		return a, fmt.Errorf("--fps and --seconds must be > 0")
	}
	if a.chunkSize <= 0 {
		return a, fmt.Errorf("--chunk-size must be >= 1")
	}
	if a.backend != "cpu" {
		return a, fmt.Errorf("unknown --backend %q (only cpu is implemented)", a.backend)
	}
	return a, nil
}

func run() error {
	args, err := parseArgs()
	if err != nil {
		return err
	}

	comp := buildBenchComposition(args)

	opts := session.DefaultOpts()
	opts.Parallel = args.parallel
	opts.Workers = args.threads
	opts.ChunkSize = args.chunkSize
	opts.StaticFrameElision = args.staticFrameElision
	opts.EnableAudio = false
	opts.ClearColor = color.Premul{R: 18, G: 20, B: 28, A: 255}
	opts.VideoCacheCapacity = envInt("WAVYTE_VIDEO_CACHE_CAPACITY", 64)
	opts.VideoPrefetchFrames = envInt("WAVYTE_VIDEO_PREFETCH_FRAMES", 12)

	assetsRoot, err := os.MkdirTemp("", "wavytebench_assets")
	if err != nil {
		return fmt.Errorf("create scratch assets dir: %w", err)
	}
	defer os.RemoveAll(assetsRoot)

	rng := foundation.FrameRange{Start: 0, End: comp.Duration}

	slog.Info("wavytebench starting",
		"frames", rng.Len(), "seconds", args.seconds, "fps", args.fps,
		"parallel", args.parallel, "chunk_size", args.chunkSize,
		"static_frame_elision", args.staticFrameElision, "encode", !args.noEncode)

	runOnce := func() (time.Duration, error) {
		s, err := session.New(&comp, assetsRoot, opts)
		if err != nil {
			return 0, fmt.Errorf("new session: %w", err)
		}
		defer s.Close()

		var sink encode.Sink
		if args.noEncode {
			sink = &discardSink{}
		} else {
			sink = encode.NewFFmpegSink(args.outPath)
		}

		start := time.Now()
		stats, err := s.RenderRange(rng, sink)
		elapsed := time.Since(start)
		if err != nil {
			return 0, fmt.Errorf("render range: %w", err)
		}
		slog.Debug("run complete", "elapsed", elapsed, "frames_rendered", stats.FramesRendered, "frames_elided", stats.FramesElided)
		return elapsed, nil
	}

	for i := 0; i < args.warmup; i++ {
		if _, err := runOnce(); err != nil {
			return fmt.Errorf("warmup run %d: %w", i, err)
		}
	}

	durations := make([]time.Duration, 0, args.repeats)
	for i := 0; i < args.repeats; i++ {
		d, err := runOnce()
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		durations = append(durations, d)
	}

	reportPercentiles(durations)
	return nil
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n <= 0 {
		return def
	}
	return n
}

// buildBenchComposition builds a synthetic composition exercising a
// fading rectangle and an optional blur pass, scaled to the
// requested canvas/duration (spec.md §6's bench harness has no
// defined asset set, so the scene is self-contained rather than
// depending on files outside the module).
func buildBenchComposition(args benchArgs) model.Composition {
	frames := foundation.FrameIndex(args.fps * args.seconds)
	b := model.NewBuilder(
		foundation.Canvas{Width: args.width, Height: args.height},
		foundation.Fps{Num: uint32(args.fps), Den: 1},
		frames, 1,
	)
	b.AddAsset("rect", model.PathAsset{
		SvgPathD: fmt.Sprintf("M0 0L%d 0L%d %d L0 %d Z", args.width/2, args.width/2, args.height/2, args.height/2),
	})

	opacity := &anim.Keyframes[anim.Scalar]{
		Mode: anim.LinearInterp,
		Keys: []anim.Keyframe[anim.Scalar]{
			{Frame: 0, Value: 0.2, Ease: anim.Linear},
			{Frame: frames / 2, Value: 1},
			{Frame: frames - 1, Value: 0.2},
		},
	}

	clip := model.Clip{
		ID:    "rect0",
		Asset: "rect",
		Range: foundation.FrameRange{Start: 0, End: frames},
		Props: model.ClipProps{
			Transform: anim.Constant(math32.IdentityTransform2D()),
			Opacity:   opacity,
		},
	}
	if args.blurRadius > 0 {
		clip.Effects = []model.EffectInstance{{
			Kind:   "blur",
			Params: fmt.Sprintf(`{"radius_px":%d}`, args.blurRadius),
		}}
	}
	b.AddTrack(model.Track{Name: "main", Clips: []model.Clip{clip}})

	comp, err := b.Build()
	if err != nil {
		// buildBenchComposition only ever constructs a scene from
		// internally-controlled literals; a validation failure here is
		// a bug in this function, not a user input error.
		panic(err)
	}
	return comp
}

func reportPercentiles(durations []time.Duration) {
	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	pick := func(p float64) time.Duration {
		if len(sorted) == 0 {
			return 0
		}
		idx := int(p * float64(len(sorted)-1))
		return sorted[idx]
	}
	fmt.Printf("runs=%d  p50=%s  p90=%s  p99=%s\n", len(sorted), pick(0.50), pick(0.90), pick(0.99))
}

// discardSink satisfies encode.Sink for --no-encode: frames are
// dropped after the sink's own bookkeeping, so timings measure
// eval+compile+render without the encoder's I/O cost.
type discardSink struct {
	cfg encode.SinkConfig
}

func (s *discardSink) Begin(cfg encode.SinkConfig) error {
	s.cfg = cfg
	return nil
}

func (s *discardSink) Push(foundation.FrameIndex, *color.Buffer) error { return nil }

func (s *discardSink) End() error { return nil }
