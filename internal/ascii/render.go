package ascii

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
)

var (
	ErrInvalidSize   = errors.New("invalid output size")
	ErrEmptyFrame    = errors.New("empty frame")
	ErrInvalidParams = errors.New("invalid render params")
)

// Params is the linear contrast/brightness adjustment applied to luma
// before resizing: v' = clamp(Contrast*v + Brightness, 0, 255)
type Params struct {
	Contrast   float64 `json:"contrast" yaml:"contrast"`
	Brightness float64 `json:"brightness" yaml:"brightness"`
}

// Named presets for the call sites
var (
	LibraryDefault = Params{Contrast: 1.5, Brightness: 0}
	ExportPreset   = Params{Contrast: 1.7, Brightness: -30}
	LivePreset     = Params{Contrast: 1.7, Brightness: -30}
)

// Validate rejects non-finite parameters
func (p Params) Validate() error {
	if math.IsNaN(p.Contrast) || math.IsInf(p.Contrast, 0) {
		return fmt.Errorf("%w: contrast %v", ErrInvalidParams, p.Contrast)
	}
	if math.IsNaN(p.Brightness) || math.IsInf(p.Brightness, 0) {
		return fmt.Errorf("%w: brightness %v", ErrInvalidParams, p.Brightness)
	}
	return nil
}

// Adjust applies the contrast/brightness transform to one value
func (p Params) Adjust(v uint8) uint8 {
	f := p.Contrast*float64(v) + p.Brightness
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f)
}

// Renderer turns color frames into fixed-size character grids.
// A Renderer is immutable and safe for concurrent use.
type Renderer struct {
	palette Palette
	adjust  [256]uint8
	chars   [256]byte
}

// NewRenderer builds a renderer; an empty palette selects DefaultPalette
func NewRenderer(palette Palette, params Params) (*Renderer, error) {
	if palette == "" {
		palette = DefaultPalette
	}
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		palette: palette,
		chars:   palette.table(),
	}
	for v := 0; v < 256; v++ {
		r.adjust[v] = params.Adjust(uint8(v))
	}
	return r, nil
}

// Palette returns the renderer's character ramp
func (r *Renderer) Palette() Palette {
	return r.palette
}

// Render converts img into height lines of width characters joined by '\n'
func (r *Renderer) Render(img image.Image, width, height int) (string, error) {
	if width < 1 || height < 1 {
		return "", fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if img == nil || img.Bounds().Empty() {
		return "", ErrEmptyFrame
	}

	gray := r.adjusted(img)

	scaled := bilinear(gray, width, height)

	var sb strings.Builder
	sb.Grow(width*height + height - 1)
	for y := 0; y < height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		row := scaled.Pix[y*scaled.Stride : y*scaled.Stride+width]
		for _, v := range row {
			sb.WriteByte(r.chars[v])
		}
	}
	return sb.String(), nil
}

// adjusted produces the luma grid with contrast/brightness applied,
// anchored at the origin
func (r *Renderer) adjusted(img image.Image) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < h; y++ {
			in := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X)*4:]
			dst := out.Pix[y*out.Stride : y*out.Stride+w]
			for x := range dst {
				p := in[x*4 : x*4+3 : x*4+3]
				dst[x] = r.adjust[luma(p[0], p[1], p[2])]
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			in := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X):]
			dst := out.Pix[y*out.Stride : y*out.Stride+w]
			for x := range dst {
				dst[x] = r.adjust[in[x]]
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
				out.Pix[y*out.Stride+x] = r.adjust[g.Y]
			}
		}
	}
	return out
}

// luma matches color.GrayModel for opaque 8-bit channels
func luma(r8, g8, b8 uint8) uint8 {
	r := uint32(r8) * 0x101
	g := uint32(g8) * 0x101
	b := uint32(b8) * 0x101
	return uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 24)
}
