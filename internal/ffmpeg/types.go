package ffmpeg

import (
	"errors"
	"time"

	"github.com/keagan/asciivid/internal/video"
)

var (
	// ErrSourceOpen means the video could not be opened or probed
	ErrSourceOpen = errors.New("cannot open video source")
	// ErrSourceRead means a frame failed to decode mid-stream
	ErrSourceRead = errors.New("cannot read video frame")
	// ErrStreamClosed is returned by Next after Close
	ErrStreamClosed = errors.New("frame stream closed")
)

// VideoInfo contains metadata about a video file
type VideoInfo struct {
	FilePath string
	// StreamIndex is the container index of the decoded video stream
	StreamIndex int
	Duration    time.Duration
	Width       int
	Height      int
	FPS         float64
	TotalFrames int
	Bitrate     int64
	VideoCodec  string
	HasAudio    bool
	AudioCodec  string
}

// Info converts probe output into the decoder-neutral description
func (v *VideoInfo) Info() video.Info {
	return video.Info{
		Path:        v.FilePath,
		Width:       v.Width,
		Height:      v.Height,
		FPS:         v.FPS,
		TotalFrames: v.TotalFrames,
		Duration:    v.Duration,
		Codec:       v.VideoCodec,
	}
}

// Options configures the executor
type Options struct {
	BinaryPath string
	ProbePath  string
	Threads    int
}

// Decoder output settings
const (
	// PixelFormat matches image.RGBA's memory layout
	PixelFormat   = "rgba"
	bytesPerPixel = 4

	// stderrTailLines is how much ffmpeg output is kept for error messages
	stderrTailLines = 8
)
