package server

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/keagan/asciivid/pkg/util"
)

// FileEntry is one checked asset
type FileEntry struct {
	Name     string
	Path     string
	Exists   bool
	Size     int64
	Required bool
}

// FileReport lists the assets found in the served directory
type FileReport struct {
	Entries []FileEntry
}

// Preflight checks the player page, the frame set and the source video
func (s *Server) Preflight() FileReport {
	check := func(name string, required bool) FileEntry {
		path := filepath.Join(s.opts.Dir, name)
		e := FileEntry{Name: name, Path: path, Required: required, Size: -1}
		if util.FileExists(path) {
			e.Exists = true
			e.Size = util.FileSize(path)
		}
		return e
	}

	r := FileReport{Entries: []FileEntry{
		check(s.opts.Index, true),
		check(s.opts.FrameSet, true),
	}}
	if s.opts.Video != "" {
		r.Entries = append(r.Entries, check(s.opts.Video, false))
	}
	return r
}

// Err reports the first missing required file
func (r FileReport) Err() error {
	for _, e := range r.Entries {
		if e.Required && !e.Exists {
			return fmt.Errorf("%w: %s", ErrMissingAsset, e.Path)
		}
	}
	return nil
}

// Format renders the report as a checklist
func (r FileReport) Format() string {
	var b strings.Builder
	b.WriteString("File check:\n")
	for _, e := range r.Entries {
		mark := "[ ]"
		size := ""
		if e.Exists {
			mark = "[x]"
			if e.Size >= 0 {
				size = " (" + util.FormatBytes(e.Size) + ")"
			}
		}
		fmt.Fprintf(&b, "  %s %s%s\n", mark, e.Name, size)
	}
	return b.String()
}
