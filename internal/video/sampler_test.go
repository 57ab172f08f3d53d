package video_test

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/keagan/asciivid/internal/video"
	"github.com/keagan/asciivid/internal/video/videotest"
)

func TestStride(t *testing.T) {
	tests := []struct {
		native, target float64
		want           int
	}{
		{30, 24, 1}, // round(1.25); output stays at 30 fps
		{60, 24, 3}, // round(2.5) rounds half away from zero
		{60, 30, 2},
		{25, 24, 1},
		{120, 24, 5},
		{10, 24, 1},
		{0, 24, 1},
		{-5, 24, 1},
		{30, 0, 1},
		{math.NaN(), 24, 1},
		{math.Inf(1), 24, 1},
	}

	for _, tt := range tests {
		if got := video.Stride(tt.native, tt.target); got != tt.want {
			t.Errorf("Stride(%v, %v): expected %d, got %d", tt.native, tt.target, tt.want, got)
		}
	}
}

func TestEffectiveFPS(t *testing.T) {
	if got := video.EffectiveFPS(30, video.Stride(30, 24)); got != 30 {
		t.Errorf("expected 30 fps, got %v", got)
	}
	if got := video.EffectiveFPS(60, 3); got != 20 {
		t.Errorf("expected 20 fps, got %v", got)
	}
}

func TestSelected(t *testing.T) {
	for _, stride := range []int{1, 2, 3, 7} {
		if !video.Selected(0, stride) {
			t.Errorf("stride %d: index 0 must always be selected", stride)
		}
	}
	if video.Selected(4, 3) || !video.Selected(6, 3) {
		t.Errorf("stride 3 selection wrong for 4 or 6")
	}
}

func TestSamplerWalk(t *testing.T) {
	src := videotest.New(10, 8, 6, 60)
	s := video.NewSampler(src, 24)

	if s.Stride() != 3 {
		t.Fatalf("expected stride 3, got %d", s.Stride())
	}

	var selected, ordinals []int
	for {
		sample, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if sample.Selected {
			selected = append(selected, sample.Index)
			ordinals = append(ordinals, sample.Ordinal)
		}
	}

	want := []int{0, 3, 6, 9}
	if len(selected) != len(want) {
		t.Fatalf("expected %v selected, got %v", want, selected)
	}
	for i := range want {
		if selected[i] != want[i] || ordinals[i] != i {
			t.Errorf("position %d: expected index %d ordinal %d, got %d/%d", i, want[i], i, selected[i], ordinals[i])
		}
	}
	if s.Decoded() != 10 {
		t.Errorf("every frame must be decoded, got %d", s.Decoded())
	}
}

func TestSamplerKeepsEveryFrameAt30For24(t *testing.T) {
	src := videotest.New(12, 4, 4, 30)
	s := video.NewSampler(src, 24)

	count := 0
	for {
		sample, err := s.Next()
		if err != nil {
			break
		}
		if !sample.Selected {
			t.Fatalf("frame %d dropped at stride %d", sample.Index, s.Stride())
		}
		count++
	}
	if count != 12 {
		t.Errorf("expected 12 frames, got %d", count)
	}
}

func TestSamplerPropagatesErrors(t *testing.T) {
	boom := errors.New("decode failed")
	src := videotest.New(5, 4, 4, 30)
	src.FailAt = 2
	src.Err = boom

	s := video.NewSampler(src, 30)
	for i := 0; i < 2; i++ {
		if _, err := s.Next(); err != nil {
			t.Fatalf("frame %d: unexpected error %v", i, err)
		}
	}
	if _, err := s.Next(); !errors.Is(err, boom) {
		t.Errorf("expected decode error, got %v", err)
	}
}
