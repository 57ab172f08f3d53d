package ffmpeg

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Executor handles all ffmpeg operations
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	threads     int
}

// New creates a new ffmpeg executor
func New(logger zerolog.Logger, opts Options) (*Executor, error) {
	if opts.BinaryPath == "" {
		opts.BinaryPath = "ffmpeg"
	}
	if opts.ProbePath == "" {
		opts.ProbePath = "ffprobe"
	}

	ffmpegPath, err := exec.LookPath(opts.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath(opts.ProbePath)
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		threads:     opts.Threads,
	}, nil
}

// decodeArgs builds a rawvideo decode command line for the stream at
// index writing to stdout
func (e *Executor) decodeArgs(input string, index int, filters string, maxFrames int) []string {
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error"}

	if e.threads > 0 {
		args = append(args, "-threads", fmt.Sprintf("%d", e.threads))
	}

	args = append(args, "-noautorotate", "-i", input, "-map", fmt.Sprintf("0:%d", index), "-an", "-sn", "-dn")

	if filters != "" {
		args = append(args, "-vf", filters)
	}

	// one output frame per decoded frame, no duplication or dropping
	args = append(args, "-vsync", "passthrough")

	if maxFrames > 0 {
		args = append(args, "-frames:v", fmt.Sprintf("%d", maxFrames))
	}

	return append(args, "-pix_fmt", PixelFormat, "-f", "rawvideo", "pipe:1")
}

// logTail forwards ffmpeg stderr to the logger and keeps the last lines
// for error reporting
type logTail struct {
	logger zerolog.Logger

	mu      sync.Mutex
	partial bytes.Buffer
	lines   []string
}

func newLogTail(logger zerolog.Logger) *logTail {
	return &logTail{logger: logger}
}

func (t *logTail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.partial.Write(p)
	for {
		line, err := t.partial.ReadString('\n')
		if err != nil {
			// incomplete line, keep it for the next write
			t.partial.Reset()
			t.partial.WriteString(line)
			break
		}
		t.push(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

func (t *logTail) push(line string) {
	if line == "" {
		return
	}
	t.logger.Debug().Str("ffmpeg", line).Msg("decoder output")
	t.lines = append(t.lines, line)
	if len(t.lines) > stderrTailLines {
		t.lines = t.lines[len(t.lines)-stderrTailLines:]
	}
}

// String returns the retained stderr lines
func (t *logTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := t.lines
	if t.partial.Len() > 0 {
		lines = append(append([]string(nil), lines...), t.partial.String())
	}
	return strings.Join(lines, "; ")
}
