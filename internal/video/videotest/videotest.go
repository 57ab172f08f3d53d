// Package videotest provides in-memory video sources for tests.
package videotest

import (
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/keagan/asciivid/internal/video"
)

// Source replays a fixed list of frames
type Source struct {
	info   video.Info
	frames []image.Image
	pos    int

	// FailAt makes Next return Err at that index when Err is set
	FailAt int
	Err    error
	// OnNext runs before each frame is handed out
	OnNext func(index int)

	Closed int
}

// New returns a source of n gradient frames of the given geometry
func New(n, width, height int, fps float64) *Source {
	frames := make([]image.Image, n)
	for i := range frames {
		frames[i] = Gradient(width, height, uint8(i*7))
	}
	return &Source{
		info: video.Info{
			Path:        "memory",
			Width:       width,
			Height:      height,
			FPS:         fps,
			TotalFrames: n,
		},
		frames: frames,
		FailAt: -1,
	}
}

// Gradient draws a horizontal luminance ramp offset by shift
func Gradient(width, height int, shift uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x*255/max(width-1, 1)) + shift
			img.SetRGBA(x, y, color.RGBA{v, v, v, 0xff})
		}
	}
	return img
}

func (s *Source) Info() video.Info {
	return s.info
}

func (s *Source) Next() (image.Image, error) {
	if s.Closed > 0 {
		return nil, errors.New("videotest: source closed")
	}
	if s.Err != nil && s.pos == s.FailAt {
		return nil, s.Err
	}
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	if s.OnNext != nil {
		s.OnNext(s.pos)
	}
	img := s.frames[s.pos]
	s.pos++
	return img, nil
}

func (s *Source) Close() error {
	s.Closed++
	return nil
}

// Read reports how many frames were handed out
func (s *Source) Read() int {
	return s.pos
}
