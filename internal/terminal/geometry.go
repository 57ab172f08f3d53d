// Package terminal discovers the terminal size and redraws full frames.
package terminal

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// Geometry is a terminal size in character cells
type Geometry struct {
	Columns int
	Rows    int
}

// Fallback is used when no size can be discovered
var Fallback = Geometry{Columns: 120, Rows: 40}

// Size samples the size of the terminal on fd. COLUMNS and LINES override
// the tty; Fallback applies when neither answers.
func Size(fd int) Geometry {
	return SizeOr(fd, Fallback)
}

// SizeOr is Size with a caller-supplied fallback
func SizeOr(fd int, fallback Geometry) Geometry {
	if g, ok := fromEnv(); ok {
		return g
	}
	if cols, rows, err := term.GetSize(fd); err == nil && cols > 0 && rows > 0 {
		return Geometry{Columns: cols, Rows: rows}
	}
	if fallback.Columns <= 0 || fallback.Rows <= 0 {
		return Fallback
	}
	return fallback
}

// Stdout returns the descriptor of the process's standard output
func Stdout() int {
	return int(os.Stdout.Fd())
}

func fromEnv() (Geometry, bool) {
	cols, err1 := strconv.Atoi(os.Getenv("COLUMNS"))
	rows, err2 := strconv.Atoi(os.Getenv("LINES"))
	if err1 != nil || err2 != nil || cols <= 0 || rows <= 0 {
		return Geometry{}, false
	}
	return Geometry{Columns: cols, Rows: rows}, true
}
