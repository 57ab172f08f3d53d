package ffmpeg

import (
	"fmt"
	"strings"
)

// FilterBuilder helps construct ffmpeg filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]string, 0),
	}
}

// SelectFrame keeps only the frame with the given zero-based index
func (fb *FilterBuilder) SelectFrame(index int) *FilterBuilder {
	if index < 0 {
		return fb
	}
	// the comma inside eq() must be escaped within a filter chain
	fb.filters = append(fb.filters, fmt.Sprintf(`select=eq(n\,%d)`, index))
	return fb
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return ""
	}
	return strings.Join(fb.filters, ",")
}
