package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"

	"github.com/keagan/asciivid/internal/video"
)

// Probe satisfies video.FrameReader
func (e *Executor) Probe(ctx context.Context, path string) (video.Info, error) {
	info, err := e.ProbeVideo(ctx, path)
	if err != nil {
		return video.Info{}, err
	}
	return info.Info(), nil
}

// ReadFrameAt decodes the single frame with the given zero-based index
func (e *Executor) ReadFrameAt(ctx context.Context, path string, index int) (image.Image, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: negative frame index %d", ErrSourceRead, index)
	}

	info, err := e.ProbeVideo(ctx, path)
	if err != nil {
		return nil, err
	}

	filter := NewFilterBuilder().SelectFrame(index).Build()
	args := e.decodeArgs(path, info.StreamIndex, filter, 1)

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Int("frame", index).
		Strs("args", args).
		Msg("extracting frame")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	tail := newLogTail(e.logger)
	cmd.Stderr = tail

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: frame %d: %v: %s", ErrSourceRead, index, err, tail.String())
	}

	size := info.Width * info.Height * bytesPerPixel
	if out.Len() < size {
		return nil, fmt.Errorf("%w: frame %d: got %d bytes, want %d", ErrSourceRead, index, out.Len(), size)
	}

	img := image.NewRGBA(image.Rect(0, 0, info.Width, info.Height))
	copy(img.Pix, out.Bytes()[:size])
	return img, nil
}
