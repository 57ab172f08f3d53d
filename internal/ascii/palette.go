package ascii

import (
	"errors"
	"fmt"
)

// DefaultPalette orders characters from lightest to darkest visual weight
const DefaultPalette Palette = " .'`^\",:;Il!i~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$"

// ErrInvalidPalette is returned for empty or non-ASCII palettes
var ErrInvalidPalette = errors.New("invalid palette")

// Palette is an ordered ramp of single-byte characters
type Palette string

// Len returns the number of characters in the ramp
func (p Palette) Len() int {
	return len(p)
}

// Validate checks the palette is non-empty and one byte per cell
func (p Palette) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidPalette)
	}
	for i := 0; i < len(p); i++ {
		if p[i] < 0x20 || p[i] > 0x7e {
			return fmt.Errorf("%w: byte %q at %d is not printable ASCII", ErrInvalidPalette, p[i], i)
		}
	}
	return nil
}

// Index maps a brightness byte to its palette slot:
// clamp(round(v*(N-1)/255), 0, N-1)
func (p Palette) Index(v uint8) int {
	n := len(p)
	if n <= 1 {
		return 0
	}
	// round half up in integers: floor((2*v*(N-1) + 255) / 510)
	idx := (2*int(v)*(n-1) + 255) / 510
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// table precomputes the character for every brightness value
func (p Palette) table() [256]byte {
	var t [256]byte
	for v := 0; v < 256; v++ {
		t[v] = p[p.Index(uint8(v))]
	}
	return t
}
