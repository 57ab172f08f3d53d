// Package frameset holds the persisted result of an export: the rendered
// ASCII frames plus the metadata a player needs to replay them.
package frameset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/keagan/asciivid/pkg/util"
)

var ErrInvalid = errors.New("invalid frameset")

// FrameSet is the single JSON artifact produced by an export
type FrameSet struct {
	FPS         int      `json:"fps"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	TotalFrames int      `json:"total_frames"`
	Frames      []string `json:"frames"`
}

// New returns an empty frame set for the given playback rate and grid
func New(fps, width, height int) *FrameSet {
	return &FrameSet{
		FPS:    fps,
		Width:  width,
		Height: height,
		Frames: make([]string, 0),
	}
}

// Append adds a rendered frame and keeps TotalFrames in step
func (fs *FrameSet) Append(frame string) {
	fs.Frames = append(fs.Frames, frame)
	fs.TotalFrames = len(fs.Frames)
}

// Duration is the playback length in seconds at FPS
func (fs *FrameSet) Duration() float64 {
	if fs.FPS <= 0 {
		return 0
	}
	return float64(fs.TotalFrames) / float64(fs.FPS)
}

// Validate checks the count and the shape of every frame
func (fs *FrameSet) Validate() error {
	if fs.Width < 1 || fs.Height < 1 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, fs.Width, fs.Height)
	}
	if fs.TotalFrames != len(fs.Frames) {
		return fmt.Errorf("%w: total_frames %d but %d frames", ErrInvalid, fs.TotalFrames, len(fs.Frames))
	}
	for i, frame := range fs.Frames {
		lines := strings.Split(frame, "\n")
		if len(lines) != fs.Height {
			return fmt.Errorf("%w: frame %d has %d lines, want %d", ErrInvalid, i, len(lines), fs.Height)
		}
		for j, line := range lines {
			if len(line) != fs.Width {
				return fmt.Errorf("%w: frame %d line %d is %d wide, want %d", ErrInvalid, i, j, len(line), fs.Width)
			}
		}
	}
	return nil
}

// Save writes fs as compact JSON, creating parent directories as needed
func Save(path string, fs *FrameSet) error {
	if err := util.EnsureParentDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, fs); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// Load reads and validates a frame set from disk
func Load(path string) (*FrameSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fs FrameSet
	if err := json.NewDecoder(bufio.NewReader(f)).Decode(&fs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if fs.Frames == nil {
		fs.Frames = make([]string, 0)
	}
	if err := fs.Validate(); err != nil {
		return nil, err
	}
	return &fs, nil
}
