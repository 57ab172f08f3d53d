package video

import (
	"context"
	"image"
	"time"
)

// Info describes a decodable video stream
type Info struct {
	Path        string
	Width       int
	Height      int
	FPS         float64
	TotalFrames int
	Duration    time.Duration
	Codec       string
}

// Source yields decoded frames in presentation order.
// Next returns io.EOF once the stream is exhausted. The returned image is
// only valid until the following call to Next.
type Source interface {
	Info() Info
	Next() (image.Image, error)
	Close() error
}

// Opener opens a Source for a path
type Opener interface {
	Open(ctx context.Context, path string) (Source, error)
}

// FrameReader reads single frames by index without streaming the whole
// video
type FrameReader interface {
	Probe(ctx context.Context, path string) (Info, error)
	ReadFrameAt(ctx context.Context, path string, index int) (image.Image, error)
}
