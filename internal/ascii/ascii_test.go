package ascii

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand"
	"strings"
	"testing"
)

func noiseFrame(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rng.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func solidFrame(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDefaultPaletteValid(t *testing.T) {
	if err := DefaultPalette.Validate(); err != nil {
		t.Fatalf("default palette invalid: %v", err)
	}
	if DefaultPalette.Len() != 70 {
		t.Errorf("expected 70 characters, got %d", DefaultPalette.Len())
	}
	if DefaultPalette[0] != ' ' || DefaultPalette[DefaultPalette.Len()-1] != '$' {
		t.Errorf("unexpected palette ends %q..%q", DefaultPalette[0], DefaultPalette[DefaultPalette.Len()-1])
	}
}

func TestPaletteValidate(t *testing.T) {
	tests := []struct {
		name    string
		palette Palette
		wantErr bool
	}{
		{"single", " ", false},
		{"ramp", " .:#@", false},
		{"empty", "", true},
		{"newline", " \n#", true},
		{"multibyte", " ░▒▓█", true},
	}

	for _, tt := range tests {
		err := tt.palette.Validate()
		if tt.wantErr && !errors.Is(err, ErrInvalidPalette) {
			t.Errorf("%s: expected ErrInvalidPalette, got %v", tt.name, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
	}
}

func TestPaletteIndex(t *testing.T) {
	p := Palette(" .:-=+*#%@") // N = 10
	tests := []struct {
		v    uint8
		want int
	}{
		{0, 0},
		{14, 0},  // 0.494
		{15, 1},  // 0.529
		{127, 4}, // 4.48
		{128, 5}, // 4.52
		{255, 9},
	}

	for _, tt := range tests {
		if got := p.Index(tt.v); got != tt.want {
			t.Errorf("Index(%d): expected %d, got %d", tt.v, tt.want, got)
		}
	}

	if got := Palette(" ").Index(255); got != 0 {
		t.Errorf("single-character palette: expected 0, got %d", got)
	}
}

func TestParamsAdjust(t *testing.T) {
	tests := []struct {
		params Params
		v      uint8
		want   uint8
	}{
		{Params{1, 0}, 100, 100},
		{ExportPreset, 0, 0},       // -30 clamps
		{ExportPreset, 100, 140},   // 170-30
		{ExportPreset, 200, 255},   // 310 clamps
		{LibraryDefault, 101, 151}, // 151.5 truncates
	}

	for _, tt := range tests {
		if got := tt.params.Adjust(tt.v); got != tt.want {
			t.Errorf("%+v Adjust(%d): expected %d, got %d", tt.params, tt.v, tt.want, got)
		}
	}
}

func TestNewRendererRejectsBadInput(t *testing.T) {
	if _, err := NewRenderer("é", LibraryDefault); !errors.Is(err, ErrInvalidPalette) {
		t.Errorf("expected ErrInvalidPalette, got %v", err)
	}

	nan := Params{Contrast: 1, Brightness: math.NaN()}
	if _, err := NewRenderer("", nan); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}

	r, err := NewRenderer("", LibraryDefault)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	if r.Palette() != DefaultPalette {
		t.Errorf("empty palette should select the default")
	}
}

func TestRenderSolidBlackSingleCharPalette(t *testing.T) {
	r, err := NewRenderer(" ", Params{Contrast: 1.0, Brightness: 0})
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	black := solidFrame(2, 2, color.Black)

	tests := []struct {
		width, height int
		want          string
	}{
		{1, 2, " \n "},
		{2, 1, "  "},
		{2, 2, "  \n  "},
	}

	for _, tt := range tests {
		got, err := r.Render(black, tt.width, tt.height)
		if err != nil {
			t.Fatalf("Render(%dx%d) failed: %v", tt.width, tt.height, err)
		}
		if got != tt.want {
			t.Errorf("Render(%dx%d): expected %q, got %q", tt.width, tt.height, tt.want, got)
		}
	}
}

func TestRenderSolidExtremes(t *testing.T) {
	r, err := NewRenderer(DefaultPalette, Params{Contrast: 1, Brightness: 0})
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	white, err := r.Render(solidFrame(8, 8, color.White), 4, 2)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if white != "$$$$\n$$$$" {
		t.Errorf("white frame: expected darkest glyph everywhere, got %q", white)
	}

	black, err := r.Render(solidFrame(8, 8, color.Black), 4, 2)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if black != "    \n    " {
		t.Errorf("black frame: expected lightest glyph everywhere, got %q", black)
	}
}

func TestRenderShapeAndMembership(t *testing.T) {
	presets := []Params{LibraryDefault, ExportPreset, LivePreset, {Contrast: 0, Brightness: 300}, {Contrast: -2, Brightness: 10}}
	sizes := [][2]int{{1, 1}, {60, 20}, {100, 40}, {37, 13}, {400, 3}}
	frame := noiseFrame(64, 48, 7)

	for _, params := range presets {
		r, err := NewRenderer("", params)
		if err != nil {
			t.Fatalf("NewRenderer(%+v) failed: %v", params, err)
		}
		for _, sz := range sizes {
			out, err := r.Render(frame, sz[0], sz[1])
			if err != nil {
				t.Fatalf("Render(%v) failed: %v", sz, err)
			}
			lines := strings.Split(out, "\n")
			if len(lines) != sz[1] {
				t.Fatalf("%+v %v: expected %d lines, got %d", params, sz, sz[1], len(lines))
			}
			for i, line := range lines {
				if len(line) != sz[0] {
					t.Fatalf("%+v %v: line %d has width %d", params, sz, i, len(line))
				}
				for _, c := range []byte(line) {
					if strings.IndexByte(string(DefaultPalette), c) < 0 {
						t.Fatalf("character %q not in palette", c)
					}
				}
			}
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	r, err := NewRenderer("", ExportPreset)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	frame := noiseFrame(320, 240, 42)

	first, err := r.Render(frame, 100, 40)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Render(frame, 100, 40)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if again != first {
			t.Fatalf("render %d differs from the first", i)
		}
	}
}

func TestRenderImageKindsAgree(t *testing.T) {
	r, err := NewRenderer("", LivePreset)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	rgba := noiseFrame(40, 30, 3)

	// same pixels behind a generic image.Image
	nrgba := image.NewNRGBA(rgba.Rect)
	copy(nrgba.Pix, rgba.Pix)

	a, err := r.Render(rgba, 20, 10)
	if err != nil {
		t.Fatalf("Render RGBA failed: %v", err)
	}
	b, err := r.Render(nrgba, 20, 10)
	if err != nil {
		t.Fatalf("Render NRGBA failed: %v", err)
	}
	if a != b {
		t.Errorf("RGBA fast path and generic path disagree")
	}

	// sub-image with a non-zero origin
	sub := noiseFrame(80, 60, 5).SubImage(image.Rect(10, 10, 50, 40))
	if _, err := r.Render(sub, 20, 10); err != nil {
		t.Errorf("Render sub-image failed: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	r, err := NewRenderer("", LibraryDefault)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	if _, err := r.Render(solidFrame(2, 2, color.Black), 0, 5); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
	if _, err := r.Render(nil, 5, 5); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame for nil, got %v", err)
	}
	if _, err := r.Render(image.NewRGBA(image.Rect(0, 0, 0, 0)), 5, 5); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame for empty bounds, got %v", err)
	}
}

func TestLuma(t *testing.T) {
	tests := []struct {
		r, g, b uint8
	}{
		{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {12, 200, 99},
	}
	for _, tt := range tests {
		want := color.GrayModel.Convert(color.RGBA{tt.r, tt.g, tt.b, 0xff}).(color.Gray).Y
		if got := luma(tt.r, tt.g, tt.b); got != want {
			t.Errorf("luma(%d,%d,%d): expected %d, got %d", tt.r, tt.g, tt.b, want, got)
		}
	}
}
