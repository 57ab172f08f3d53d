package video

import (
	"image"
	"math"
)

// Stride returns the decimation step that approximates targetFPS from
// nativeFPS: max(1, round(native/target)). Unknown rates give 1.
//
// This is nearest-stride decimation, so the effective output rate is
// native/stride; 30 fps sampled for 24 fps keeps every frame.
func Stride(nativeFPS, targetFPS float64) int {
	if !(nativeFPS > 0) || !(targetFPS > 0) || math.IsInf(nativeFPS, 0) || math.IsInf(targetFPS, 0) {
		return 1
	}
	s := int(math.Round(nativeFPS / targetFPS))
	if s < 1 {
		return 1
	}
	return s
}

// Selected reports whether the zero-based frame index is on stride
func Selected(index, stride int) bool {
	if stride <= 1 {
		return true
	}
	return index%stride == 0
}

// EffectiveFPS is the rate actually produced by the stride
func EffectiveFPS(nativeFPS float64, stride int) float64 {
	if stride < 1 {
		stride = 1
	}
	return nativeFPS / float64(stride)
}

// Sample is one decoded frame together with its sampling decision
type Sample struct {
	Image image.Image
	// Index counts every decoded frame from zero
	Index int
	// Ordinal is the position among selected frames; valid when Selected
	Ordinal  int
	Selected bool
}

// Sampler walks a Source and marks frames on the decimation stride.
// Off-stride frames are still decoded.
type Sampler struct {
	src    Source
	stride int
	next   int
}

// NewSampler wraps src, deriving the stride from its native frame rate
func NewSampler(src Source, targetFPS float64) *Sampler {
	return &Sampler{
		src:    src,
		stride: Stride(src.Info().FPS, targetFPS),
	}
}

// Stride returns the decimation step in use
func (s *Sampler) Stride() int {
	return s.stride
}

// Decoded returns how many frames have been read so far
func (s *Sampler) Decoded() int {
	return s.next
}

// Next decodes the following frame. Errors from the source, including
// io.EOF, are returned unchanged.
func (s *Sampler) Next() (Sample, error) {
	img, err := s.src.Next()
	if err != nil {
		return Sample{}, err
	}

	i := s.next
	s.next++

	return Sample{
		Image:    img,
		Index:    i,
		Ordinal:  i / s.stride,
		Selected: Selected(i, s.stride),
	}, nil
}
