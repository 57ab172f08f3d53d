package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"

	"github.com/keagan/asciivid/internal/video"
)

// FrameStream decodes a video into RGBA frames through an ffmpeg pipe.
// It implements video.Source.
type FrameStream struct {
	exec   *Executor
	info   *VideoInfo
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *logTail
	cancel context.CancelFunc

	frame  *image.RGBA
	read   int
	closed bool
	waited bool
	err    error
}

var _ video.Source = (*FrameStream)(nil)

// Open satisfies video.Opener
func (e *Executor) Open(ctx context.Context, path string) (video.Source, error) {
	return e.OpenStream(ctx, path)
}

// OpenStream probes path and starts decoding it. The ffmpeg process runs
// in its own process group so a terminal interrupt reaches only us; it is
// stopped by Close.
func (e *Executor) OpenStream(ctx context.Context, path string) (*FrameStream, error) {
	info, err := e.ProbeVideo(ctx, path)
	if err != nil {
		return nil, err
	}

	procCtx, cancel := context.WithCancel(context.Background())

	args := e.decodeArgs(path, info.StreamIndex, "", 0)
	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", args).
		Msg("starting frame stream")

	cmd := exec.CommandContext(procCtx, e.ffmpegPath, args...)
	detach(cmd)

	tail := newLogTail(e.logger)
	cmd.Stderr = tail

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: failed to start ffmpeg: %v", ErrSourceOpen, err)
	}

	return &FrameStream{
		exec:   e,
		info:   info,
		cmd:    cmd,
		stdout: stdout,
		stderr: tail,
		cancel: cancel,
		frame:  image.NewRGBA(image.Rect(0, 0, info.Width, info.Height)),
	}, nil
}

// Info returns the probed stream description
func (s *FrameStream) Info() video.Info {
	return s.info.Info()
}

// Next reads the next frame. The returned image is reused by the
// following call.
func (s *FrameStream) Next() (image.Image, error) {
	if s.closed {
		return nil, ErrStreamClosed
	}
	if s.err != nil {
		return nil, s.err
	}

	_, err := io.ReadFull(s.stdout, s.frame.Pix)
	switch {
	case err == nil:
		s.read++
		return s.frame, nil
	case errors.Is(err, io.EOF):
		s.err = s.finish()
	case errors.Is(err, io.ErrUnexpectedEOF):
		s.finish()
		s.err = fmt.Errorf("%w: truncated frame %d: %s", ErrSourceRead, s.read, s.stderr.String())
	default:
		s.err = fmt.Errorf("%w: frame %d: %v", ErrSourceRead, s.read, err)
	}
	return nil, s.err
}

// finish reaps ffmpeg at end of stream and classifies its exit
func (s *FrameStream) finish() error {
	if s.waited {
		return io.EOF
	}
	s.waited = true

	if err := s.cmd.Wait(); err != nil {
		if s.read == 0 {
			return fmt.Errorf("%w: %s: %v: %s", ErrSourceOpen, s.info.FilePath, err, s.stderr.String())
		}
		// frames were produced; a trailing decode error ends the stream
		s.exec.logger.Warn().
			Err(err).
			Int("frames", s.read).
			Str("stderr", s.stderr.String()).
			Msg("ffmpeg exited with error after producing frames")
	}
	return io.EOF
}

// Close stops ffmpeg and releases the pipe. It is safe to call twice.
func (s *FrameStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.cancel()
	s.stdout.Close()
	if !s.waited {
		s.waited = true
		// killed by cancel, the exit status carries no information
		_ = s.cmd.Wait()
	}

	s.exec.logger.Debug().
		Int("frames", s.read).
		Msg("frame stream closed")
	return nil
}
