// Package player replays a video as ASCII art in the terminal.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/asciivid/internal/ascii"
	"github.com/keagan/asciivid/internal/config"
	"github.com/keagan/asciivid/internal/ffmpeg"
	"github.com/keagan/asciivid/internal/terminal"
	"github.com/keagan/asciivid/internal/video"
	"github.com/keagan/asciivid/pkg/util"
)

var ErrFrameOutOfRange = errors.New("frame number out of range")

// State is the lifecycle stage of a Player
type State int

const (
	StateSetup State = iota
	StatePlaying
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a Player
type Options struct {
	TargetFPS float64
	// StartDelay is the pause between the summary and the first frame
	StartDelay time.Duration
	Palette    ascii.Palette
	// Params nil selects ascii.LivePreset; a zero pair is honored
	Params *ascii.Params
	// Geometry is the terminal size sampled at startup
	Geometry terminal.Geometry
	// Bounds derives the sizing box from the terminal size
	Bounds func(columns, rows int) ascii.Bounds
	Clock  Clock
}

// DefaultOptions returns live playback defaults for terminal g
func DefaultOptions(g terminal.Geometry) Options {
	params := ascii.LivePreset
	return Options{
		TargetFPS:  30,
		StartDelay: 2 * time.Second,
		Params:     &params,
		Geometry:   g,
		Bounds:     ascii.LiveBounds,
		Clock:      SystemClock{},
	}
}

// OptionsFromConfig builds player options from the play section
func OptionsFromConfig(cfg *config.Config, g terminal.Geometry) Options {
	params := cfg.Play.Render.Params()
	return Options{
		TargetFPS:  cfg.Play.TargetFPS,
		StartDelay: cfg.Play.StartDelay,
		Palette:    ascii.Palette(cfg.Palette),
		Params:     &params,
		Geometry:   g,
		Bounds:     cfg.Play.LiveBounds,
		Clock:      SystemClock{},
	}
}

// Player renders frames straight from a video source to the terminal
type Player struct {
	logger zerolog.Logger
	opener video.Opener
	reader video.FrameReader
	screen *terminal.Screen
	opts   Options

	state  State
	layout Layout
	drawn  int
}

// New creates a player writing to out
func New(logger zerolog.Logger, opener video.Opener, reader video.FrameReader, out io.Writer, opts Options) *Player {
	def := DefaultOptions(opts.Geometry)
	if !(opts.TargetFPS > 0) {
		opts.TargetFPS = def.TargetFPS
	}
	if opts.Params == nil {
		opts.Params = def.Params
	}
	if opts.Geometry.Columns <= 0 || opts.Geometry.Rows <= 0 {
		opts.Geometry = terminal.Fallback
	}
	if opts.Bounds == nil {
		opts.Bounds = def.Bounds
	}
	if opts.Clock == nil {
		opts.Clock = def.Clock
	}

	return &Player{
		logger: logger.With().Str("component", "player").Logger(),
		opener: opener,
		reader: reader,
		screen: terminal.NewScreen(out),
		opts:   opts,
	}
}

// NewFromConfig wires a player to an ffmpeg executor and samples the
// terminal size once
func NewFromConfig(logger zerolog.Logger, cfg *config.Config, out io.Writer) (*Player, error) {
	exec, err := ffmpeg.New(logger, ffmpeg.Options{
		BinaryPath: cfg.FFmpeg.BinaryPath,
		ProbePath:  cfg.FFmpeg.ProbePath,
		Threads:    cfg.FFmpeg.Threads,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}

	g := terminal.SizeOr(terminal.Stdout(), terminal.Geometry{
		Columns: cfg.Play.FallbackColumns,
		Rows:    cfg.Play.FallbackRows,
	})
	return New(logger, exec, exec, out, OptionsFromConfig(cfg, g)), nil
}

func (p *Player) State() State {
	return p.state
}

// Layout returns the layout of the current or last run
func (p *Player) Layout() Layout {
	return p.layout
}

// Drawn returns how many frames the last run put on screen
func (p *Player) Drawn() int {
	return p.drawn
}

// Play streams path to the terminal until the video ends or ctx is
// cancelled. Cancellation stops playback cleanly and is not an error.
func (p *Player) Play(ctx context.Context, path string) error {
	p.state = StateSetup
	p.drawn = 0
	defer func() { p.state = StateStopped }()

	src, err := p.opener.Open(ctx, path)
	if err != nil {
		return err
	}
	defer src.Close()

	renderer, err := ascii.NewRenderer(p.opts.Palette, *p.opts.Params)
	if err != nil {
		return err
	}

	info := src.Info()
	p.layout = p.layoutFor(info)
	p.printSummary(info)

	if p.opts.StartDelay > 0 {
		if err := p.opts.Clock.Sleep(ctx, p.opts.StartDelay); err != nil {
			p.logger.Info().Msg("playback cancelled before start")
			return nil
		}
	}

	sampler := video.NewSampler(src, p.opts.TargetFPS)
	interval := util.FrameInterval(p.opts.TargetFPS)

	p.state = StatePlaying
	p.logger.Debug().
		Int("stride", sampler.Stride()).
		Dur("interval", interval).
		Msg("playback started")

	start := p.opts.Clock.Now()
	for {
		if ctx.Err() != nil {
			p.logger.Info().Int("frames", p.drawn).Msg("playback stopped")
			return nil
		}

		sample, err := sampler.Next()
		if errors.Is(err, io.EOF) {
			p.logger.Debug().Int("frames", p.drawn).Msg("end of video")
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("playback stopped at frame %d: %w", sampler.Decoded(), err)
		}
		if !sample.Selected {
			continue
		}

		frame, err := renderer.Render(sample.Image, p.layout.Width, p.layout.Height)
		if err != nil {
			return fmt.Errorf("failed to render frame %d: %w", sample.Index, err)
		}
		if err := p.screen.Draw(Center(frame, p.layout.MarginLeft, p.layout.MarginTop)); err != nil {
			return err
		}
		p.drawn++

		// anchored to start; a late frame never shifts later deadlines
		target := start.Add(time.Duration(sample.Ordinal) * interval)
		if wait := target.Sub(p.opts.Clock.Now()); wait > 0 {
			if err := p.opts.Clock.Sleep(ctx, wait); err != nil {
				p.logger.Info().Int("frames", p.drawn).Msg("playback stopped")
				return nil
			}
		}
	}
}

// Debug renders the single frame at index, centered, without the timed
// loop
func (p *Player) Debug(ctx context.Context, path string, index int) error {
	p.state = StateSetup
	defer func() { p.state = StateStopped }()

	info, err := p.reader.Probe(ctx, path)
	if err != nil {
		return err
	}
	if index < 0 || (info.TotalFrames > 0 && index >= info.TotalFrames) {
		return fmt.Errorf("%w: frame %d exceeds total frames %d", ErrFrameOutOfRange, index, info.TotalFrames)
	}

	img, err := p.reader.ReadFrameAt(ctx, path, index)
	if err != nil {
		return err
	}

	renderer, err := ascii.NewRenderer(p.opts.Palette, *p.opts.Params)
	if err != nil {
		return err
	}

	p.layout = p.layoutFor(info)
	frame, err := renderer.Render(img, p.layout.Width, p.layout.Height)
	if err != nil {
		return err
	}

	p.screen.Printf("--- Debug: Frame %d ASCII Art (%dx%d) Centered ---\n", index, p.layout.Width, p.layout.Height)
	return p.screen.Println(Center(frame, p.layout.MarginLeft, p.layout.MarginTop))
}

func (p *Player) layoutFor(info video.Info) Layout {
	g := p.opts.Geometry
	return NewLayout(info, g, p.opts.Bounds(g.Columns, g.Rows))
}

func (p *Player) printSummary(info video.Info) {
	g := p.opts.Geometry
	p.screen.Printf("%s", terminal.Summary("asciivid", []terminal.Field{
		{Label: "Video", Value: fmt.Sprintf("%dx%d @ %.2ffps", info.Width, info.Height, info.FPS)},
		{Label: "ASCII", Value: fmt.Sprintf("%dx%d @ %gfps", p.layout.Width, p.layout.Height, p.opts.TargetFPS)},
		{Label: "Terminal", Value: fmt.Sprintf("%dx%d", g.Columns, g.Rows)},
		{Label: "Margins", Value: fmt.Sprintf("H=%d, V=%d", p.layout.MarginLeft, p.layout.MarginTop)},
	}, "Press Ctrl+C to stop..."))
}
