package player

import (
	"strings"

	"github.com/keagan/asciivid/internal/ascii"
	"github.com/keagan/asciivid/internal/terminal"
	"github.com/keagan/asciivid/internal/video"
)

// Layout is the grid size and placement of frames on the terminal. It is
// computed once per run.
type Layout struct {
	Width      int
	Height     int
	MarginLeft int
	MarginTop  int
}

// NewLayout fits the video into the terminal with the given bounds and
// centers the result
func NewLayout(info video.Info, g terminal.Geometry, b ascii.Bounds) Layout {
	w, h := b.Fit(info.Width, info.Height)
	left, top := Margins(g, w, h)
	return Layout{Width: w, Height: h, MarginLeft: left, MarginTop: top}
}

// Margins returns the left and top padding that centers a w×h grid
func Margins(g terminal.Geometry, w, h int) (left, top int) {
	return max(0, (g.Columns-w)/2), max(0, (g.Rows-h)/2)
}

// Center pads every line of frame with left spaces and prepends top blank
// lines as wide as the first padded line
func Center(frame string, left, top int) string {
	lines := strings.Split(frame, "\n")
	pad := strings.Repeat(" ", max(left, 0))
	for i := range lines {
		lines[i] = pad + lines[i]
	}

	out := make([]string, 0, max(top, 0)+len(lines))
	blank := strings.Repeat(" ", len(lines[0]))
	for i := 0; i < top; i++ {
		out = append(out, blank)
	}
	out = append(out, lines...)
	return strings.Join(out, "\n")
}
