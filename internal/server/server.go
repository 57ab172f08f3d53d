// Package server serves an exported frame set and its browser player over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"

	"github.com/keagan/asciivid/internal/config"
	"github.com/keagan/asciivid/internal/logging"
	"github.com/keagan/asciivid/internal/terminal"
	"github.com/keagan/asciivid/pkg/util"
)

var (
	ErrMissingAsset = errors.New("required file missing")
	ErrNoFreePort   = errors.New("no free port")
)

const shutdownTimeout = 5 * time.Second

// Options configures the file server
type Options struct {
	Dir      string
	Port     int
	Index    string
	FrameSet string
	// Video is reported by Preflight but never required
	Video           string
	OpenBrowser     bool
	MaxPortAttempts int
	// AccessLog, when set, is a file that request lines are appended to
	// as JSON
	AccessLog string
}

// DefaultOptions serves the working directory on port 8000
func DefaultOptions() Options {
	return Options{
		Dir:             ".",
		Port:            8000,
		Index:           "index.html",
		FrameSet:        "frames.json",
		Video:           "BadApple.mp4",
		OpenBrowser:     true,
		MaxPortAttempts: 50,
	}
}

// OptionsFromConfig builds server options from the serve section
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Dir:             cfg.Serve.Dir,
		Port:            cfg.Serve.Port,
		Index:           cfg.Serve.Index,
		FrameSet:        cfg.Serve.FrameSet,
		Video:           cfg.Serve.Video,
		OpenBrowser:     cfg.Serve.OpenBrowser,
		MaxPortAttempts: cfg.Serve.MaxPortAttempts,
		AccessLog:       cfg.Serve.AccessLog,
	}
}

// Server is a static file server with permissive CORS
type Server struct {
	logger zerolog.Logger
	access zerolog.Logger
	opts   Options
	out    io.Writer

	openURL func(url string) error
}

// New creates a server that prints its banner to out
func New(logger zerolog.Logger, opts Options, out io.Writer) *Server {
	def := DefaultOptions()
	if opts.Dir == "" {
		opts.Dir = def.Dir
	}
	if opts.Port <= 0 || opts.Port > 65535 {
		opts.Port = def.Port
	}
	if opts.Index == "" {
		opts.Index = def.Index
	}
	if opts.FrameSet == "" {
		opts.FrameSet = def.FrameSet
	}
	if opts.MaxPortAttempts <= 0 {
		opts.MaxPortAttempts = def.MaxPortAttempts
	}

	s := &Server{
		logger:  logger.With().Str("component", "server").Logger(),
		opts:    opts,
		out:     out,
		openURL: browser.OpenURL,
	}
	s.access = s.logger
	return s
}

// WithAccessLog writes request lines to w instead of the server logger
func (s *Server) WithAccessLog(w io.Writer) *Server {
	s.access = logging.NewLogger(w).With().Str("component", "access").Logger()
	return s
}

func (s *Server) openAccessLog() (io.Closer, error) {
	path := s.opts.AccessLog
	if err := util.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("failed to create access log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open access log: %w", err)
	}
	s.WithAccessLog(f)
	s.logger.Info().Str("path", path).Msg("access log enabled")
	return f, nil
}

// Handler serves Dir with CORS headers and access logging
func (s *Server) Handler() http.Handler {
	return withCORS(s.accessLog(http.FileServer(http.Dir(s.opts.Dir))))
}

// Listen binds the configured port, moving to the next one while the
// address is in use
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	var lc net.ListenConfig
	port := s.opts.Port

	for attempt := 0; attempt < s.opts.MaxPortAttempts; attempt++ {
		ln, err := lc.Listen(ctx, "tcp", ":"+strconv.Itoa(port))
		if err == nil {
			return ln, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("failed to start server: %w", err)
		}

		s.logger.Warn().
			Int("port", port).
			Int("next", port+1).
			Msg("port in use, trying next")
		port++
	}

	return nil, fmt.Errorf("%w: tried %d ports from %d", ErrNoFreePort, s.opts.MaxPortAttempts, s.opts.Port)
}

// Serve checks the assets, binds a port and serves until ctx is cancelled
func (s *Server) Serve(ctx context.Context) error {
	report := s.Preflight()
	fmt.Fprint(s.out, report.Format())
	if err := report.Err(); err != nil {
		return err
	}

	if s.opts.AccessLog != "" {
		f, err := s.openAccessLog()
		if err != nil {
			return err
		}
		defer f.Close()
	}

	ln, err := s.Listen(ctx)
	if err != nil {
		return err
	}

	port := ln.Addr().(*net.TCPAddr).Port
	s.printBanner(port)

	if s.opts.OpenBrowser {
		url := fmt.Sprintf("http://localhost:%d/%s", port, s.opts.Index)
		if err := s.openURL(url); err != nil {
			s.logger.Debug().Err(err).Msg("failed to open browser")
			fmt.Fprintln(s.out, terminal.Status("Open manually in your browser: "+url))
		} else {
			fmt.Fprintln(s.out, "Opened the player in your browser")
		}
		fmt.Fprintln(s.out, terminal.Rule(50))
	}

	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) printBanner(port int) {
	dir, err := filepath.Abs(s.opts.Dir)
	if err != nil {
		dir = s.opts.Dir
	}

	fmt.Fprint(s.out, terminal.Summary("asciivid player server", []terminal.Field{
		{Label: "Directory", Value: dir},
		{Label: "Local", Value: fmt.Sprintf("http://localhost:%d", port)},
		{Label: "Network", Value: fmt.Sprintf("http://%s:%d", LocalIP(), port)},
		{Label: "Player", Value: fmt.Sprintf("http://localhost:%d/%s", port, s.opts.Index)},
	}, "Press Ctrl+C to stop the server"))
	fmt.Fprintln(s.out, terminal.Rule(50))
}

// LocalIP returns the address of the interface used for outbound traffic,
// or 127.0.0.1. No packet is sent.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && addr.IP != nil {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
