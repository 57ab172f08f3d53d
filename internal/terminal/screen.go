package terminal

import (
	"bufio"
	"fmt"
	"io"
)

// ClearHome erases the display and homes the cursor
const ClearHome = "\x1b[2J\x1b[H"

// Screen writes whole frames to a terminal. Every Draw clears and rewrites
// the display; there is no differential redraw.
type Screen struct {
	w *bufio.Writer
}

func NewScreen(w io.Writer) *Screen {
	return &Screen{w: bufio.NewWriterSize(w, 64*1024)}
}

// Draw replaces the display contents with frame
func (s *Screen) Draw(frame string) error {
	s.w.WriteString(ClearHome)
	s.w.WriteString(frame)
	return s.w.Flush()
}

func (s *Screen) Println(a ...any) error {
	fmt.Fprintln(s.w, a...)
	return s.w.Flush()
}

func (s *Screen) Printf(format string, a ...any) error {
	fmt.Fprintf(s.w, format, a...)
	return s.w.Flush()
}
