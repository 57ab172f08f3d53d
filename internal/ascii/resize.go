package ascii

import (
	"image"
	"math"
)

// tap is one output coordinate's source index and weight of the next sample
type tap struct {
	i0, i1 int
	f      float64
}

// taps maps dst output positions onto a src-wide axis with pixel centers
// aligned: s = (d+0.5)*src/dst - 0.5, clamped at both edges
func taps(src, dst int) []tap {
	scale := float64(src) / float64(dst)
	out := make([]tap, dst)
	for d := range out {
		s := (float64(d)+0.5)*scale - 0.5
		i0 := int(math.Floor(s))
		f := s - float64(i0)
		if s < 0 {
			i0, f = 0, 0
		}
		if i0 >= src-1 {
			i0, f = src-1, 0
		}
		i1 := i0 + 1
		if i1 > src-1 {
			i1 = src - 1
		}
		out[d] = tap{i0: i0, i1: i1, f: f}
	}
	return out
}

// bilinear resamples an origin-anchored gray image to width x height using
// two taps per axis at any scale factor
func bilinear(src *image.Gray, width, height int) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, width, height))
	xs := taps(b.Dx(), width)
	ys := taps(b.Dy(), height)

	for y, ty := range ys {
		r0 := src.Pix[ty.i0*src.Stride:]
		r1 := src.Pix[ty.i1*src.Stride:]
		dst := out.Pix[y*out.Stride : y*out.Stride+width]
		for x, tx := range xs {
			top := (1-tx.f)*float64(r0[tx.i0]) + tx.f*float64(r0[tx.i1])
			bot := (1-tx.f)*float64(r1[tx.i0]) + tx.f*float64(r1[tx.i1])
			v := math.Round((1-ty.f)*top + ty.f*bot)
			switch {
			case v <= 0:
				dst[x] = 0
			case v >= 255:
				dst[x] = 255
			default:
				dst[x] = uint8(v)
			}
		}
	}
	return out
}
