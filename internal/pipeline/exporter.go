package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/asciivid/internal/ascii"
	"github.com/keagan/asciivid/internal/config"
	"github.com/keagan/asciivid/internal/ffmpeg"
	"github.com/keagan/asciivid/internal/frameset"
	"github.com/keagan/asciivid/internal/video"
	"github.com/keagan/asciivid/pkg/util"
)

// Exporter converts a whole video into a persisted FrameSet
type Exporter struct {
	logger zerolog.Logger
	opener video.Opener
}

// New creates an exporter reading sources through opener
func New(logger zerolog.Logger, opener video.Opener) *Exporter {
	return &Exporter{
		logger: logger.With().Str("component", "exporter").Logger(),
		opener: opener,
	}
}

// NewFromConfig wires an exporter to an ffmpeg executor built from cfg
func NewFromConfig(logger zerolog.Logger, cfg *config.Config) (*Exporter, error) {
	exec, err := ffmpeg.New(logger, ffmpeg.Options{
		BinaryPath: cfg.FFmpeg.BinaryPath,
		ProbePath:  cfg.FFmpeg.ProbePath,
		Threads:    cfg.FFmpeg.Threads,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}
	return New(logger, exec), nil
}

// OptionsFromConfig builds export options from the export section
func OptionsFromConfig(cfg *config.Config) ExportOptions {
	params := cfg.Export.Render.Params()
	return ExportOptions{
		TargetFPS:     cfg.Export.TargetFPS,
		Palette:       ascii.Palette(cfg.Palette),
		Params:        &params,
		Bounds:        cfg.Export.Bounds.Bounds(),
		ProgressEvery: cfg.Export.ProgressEvery,
	}
}

// Export samples src and renders every selected frame. A cancelled ctx is
// not an error: the frames rendered so far are returned with Interrupted
// set.
func (e *Exporter) Export(ctx context.Context, src video.Source, opts ExportOptions) (*ExportResult, error) {
	opts = opts.withDefaults()
	start := time.Now()
	info := src.Info()

	renderer, err := ascii.NewRenderer(opts.Palette, *opts.Params)
	if err != nil {
		return nil, err
	}

	width, height := opts.Bounds.Fit(info.Width, info.Height)
	sampler := video.NewSampler(src, opts.TargetFPS)
	fs := frameset.New(int(math.Round(opts.TargetFPS)), width, height)

	e.logger.Info().
		Str("video", info.Path).
		Float64("fps", info.FPS).
		Int("frames", info.TotalFrames).
		Int("width", width).
		Int("height", height).
		Int("stride", sampler.Stride()).
		Float64("effective_fps", video.EffectiveFPS(info.FPS, sampler.Stride())).
		Msg("exporting")

	result := &ExportResult{
		FrameSet: fs,
		Stride:   sampler.Stride(),
	}

	for {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}

		sample, err := sampler.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				result.Interrupted = true
				break
			}
			return nil, fmt.Errorf("export stopped at frame %d: %w", sampler.Decoded(), err)
		}
		if !sample.Selected {
			continue
		}

		frame, err := renderer.Render(sample.Image, width, height)
		if err != nil {
			return nil, fmt.Errorf("failed to render frame %d: %w", sample.Index, err)
		}
		fs.Append(frame)

		if fs.TotalFrames%opts.ProgressEvery == 0 {
			p := Progress{Rendered: fs.TotalFrames, Decoded: sampler.Decoded(), Total: info.TotalFrames}
			e.logger.Info().
				Int("rendered", p.Rendered).
				Int("decoded", p.Decoded).
				Msg("progress")
			if opts.OnProgress != nil {
				opts.OnProgress(p)
			}
		}
	}

	result.Decoded = sampler.Decoded()
	result.Elapsed = time.Since(start)

	if result.Interrupted {
		e.logger.Warn().
			Int("rendered", fs.TotalFrames).
			Msg("export interrupted")
	}

	return result, nil
}

// Run opens path, exports it and writes the frame set to output. The frame
// set is written even when the export was interrupted.
func (e *Exporter) Run(ctx context.Context, path, output string, opts ExportOptions) (*ExportResult, error) {
	if path == "" {
		return nil, fmt.Errorf("input path cannot be empty")
	}
	if output == "" {
		output = "frames.json"
	}

	src, err := e.opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	result, err := e.Export(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	e.logger.Info().Str("output", output).Msg("saving frames")
	if err := frameset.Save(output, result.FrameSet); err != nil {
		return nil, err
	}

	result.Output = output
	result.Bytes = util.FileSize(output)

	e.logger.Info().
		Int("frames", result.FrameSet.TotalFrames).
		Str("size", fmt.Sprintf("%.2f MB", float64(result.Bytes)/1024/1024)).
		Dur("elapsed", result.Elapsed).
		Msg("export complete")

	return result, nil
}
