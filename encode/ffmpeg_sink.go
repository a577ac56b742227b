// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/internal/werror"
)

// FFmpegSink spawns a system ffmpeg binary and pipes raw premultiplied
// RGBA8 frames to it over stdin, flattening each frame onto
// BackgroundColor before writing (spec.md §6: "a session-configured
// background color is composited underneath using the same premul
// arithmetic"). Exit status and stderr are surfaced verbatim on failure.
type FFmpegSink struct {
	// OutputPath is the destination MP4 file.
	OutputPath string
	// BackgroundColor flattens transparent pixels before encode; the
	// zero value is transparent black, which leaves each pixel's
	// premultiplied color unchanged (once yuv420p drops alpha, the same
	// as flattening onto opaque black).
	BackgroundColor color.Premul
	// BinaryPath overrides the ffmpeg executable name/path; empty means
	// "ffmpeg" resolved from PATH.
	BinaryPath string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	flat   *color.Buffer
	cfg    SinkConfig
}

// NewFFmpegSink constructs a sink writing to outputPath.
func NewFFmpegSink(outputPath string) *FFmpegSink {
	return &FFmpegSink{OutputPath: outputPath}
}

func (s *FFmpegSink) Begin(cfg SinkConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return werror.Validationf("encode: ffmpeg sink requires positive dimensions")
	}
	if cfg.Width%2 != 0 || cfg.Height%2 != 0 {
		return werror.Validationf("encode: ffmpeg sink requires even width/height for yuv420p, got %dx%d", cfg.Width, cfg.Height)
	}
	s.cfg = cfg
	s.flat = color.NewBuffer(cfg.Width, cfg.Height)

	bin := s.BinaryPath
	if bin == "" {
		bin = "ffmpeg"
	}
	args := s.buildArgs(cfg)

	cmd := exec.CommandContext(context.Background(), bin, args...)
	s.stderr = &bytes.Buffer{}
	cmd.Stderr = s.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return werror.Evaluationf("encode: ffmpeg stdin pipe: %v", err)
	}
	s.stdin = stdin

	if err := cmd.Start(); err != nil {
		return werror.Evaluationf("encode: start ffmpeg: %v", err)
	}
	s.cmd = cmd
	return nil
}

// buildArgs constructs the fixed flag set spec.md §6 specifies:
// "-f rawvideo -pix_fmt rgba -s WxH -r fps -i pipe:0 -an -c:v libx264
// -pix_fmt yuv420p -movflags +faststart out.mp4", plus an optional
// muxed PCM audio input.
func (s *FFmpegSink) buildArgs(cfg SinkConfig) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-r", fmt.Sprintf("%d/%d", cfg.Fps.Num, cfg.Fps.Den),
		"-i", "pipe:0",
	}
	if cfg.Audio != nil {
		args = append(args,
			"-f", "f32le",
			"-ar", fmt.Sprintf("%d", cfg.Audio.SampleRate),
			"-ac", fmt.Sprintf("%d", cfg.Audio.Channels),
			"-i", cfg.Audio.Path,
			"-c:a", "aac",
		)
	} else {
		args = append(args, "-an")
	}
	args = append(args,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		s.OutputPath,
	)
	return args
}

func (s *FFmpegSink) Push(idx foundation.FrameIndex, frame *color.Buffer) error {
	if frame.Width != s.cfg.Width || frame.Height != s.cfg.Height {
		return werror.Evaluationf("encode: frame %d is %dx%d, sink expects %dx%d", idx, frame.Width, frame.Height, s.cfg.Width, s.cfg.Height)
	}
	flattenOver(s.flat, frame, s.BackgroundColor)
	if _, err := s.stdin.Write(s.flat.Data); err != nil {
		return werror.Evaluationf("encode: write frame %d to ffmpeg: %v", idx, err)
	}
	return nil
}

func (s *FFmpegSink) End() error {
	if s.stdin != nil {
		_ = s.stdin.Close()
	}
	if s.cmd == nil {
		return nil
	}
	if err := s.cmd.Wait(); err != nil {
		return werror.Evaluationf("encode: ffmpeg exited with error: %v\nstderr:\n%s", err, s.stderr.String())
	}
	return nil
}

// flattenOver composites src (premultiplied, possibly transparent) over
// a flat background color into dst, pixel by pixel (spec.md §6).
func flattenOver(dst, src *color.Buffer, bg color.Premul) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			dst.Set(x, y, color.Over(bg, src.At(x, y), 1))
		}
	}
}
