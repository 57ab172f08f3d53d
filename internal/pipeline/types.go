package pipeline

import (
	"time"

	"github.com/keagan/asciivid/internal/ascii"
	"github.com/keagan/asciivid/internal/frameset"
)

// Progress is reported every ExportOptions.ProgressEvery rendered frames
type Progress struct {
	Rendered int
	Decoded  int
	// Total is the probed frame count of the source, 0 when unknown
	Total int
}

// ProgressFunc receives export progress
type ProgressFunc func(Progress)

// ExportOptions configures an export run
type ExportOptions struct {
	TargetFPS float64
	Palette   ascii.Palette
	// Params nil selects ascii.ExportPreset; a zero pair is honored
	Params        *ascii.Params
	Bounds        ascii.Bounds
	ProgressEvery int
	OnProgress    ProgressFunc
}

// DefaultExportOptions mirrors the built-in export configuration
func DefaultExportOptions() ExportOptions {
	params := ascii.ExportPreset
	return ExportOptions{
		TargetFPS:     24,
		Params:        &params,
		Bounds:        ascii.ExportBounds,
		ProgressEvery: 100,
	}
}

func (o ExportOptions) withDefaults() ExportOptions {
	def := DefaultExportOptions()
	if !(o.TargetFPS > 0) {
		o.TargetFPS = def.TargetFPS
	}
	if o.Params == nil {
		o.Params = def.Params
	}
	if o.Bounds == (ascii.Bounds{}) {
		o.Bounds = def.Bounds
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = def.ProgressEvery
	}
	return o
}

// ExportResult describes a finished, possibly interrupted, export
type ExportResult struct {
	FrameSet *frameset.FrameSet
	// Output and Bytes are set by Run once the frame set is on disk
	Output      string
	Bytes       int64
	Decoded     int
	Stride      int
	Interrupted bool
	Elapsed     time.Duration
}
