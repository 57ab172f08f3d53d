package ascii

import "math"

// Live player limits
const (
	LiveMinWidth   = 60
	LiveMinHeight  = 20
	LiveMaxWidth   = 100
	LiveMaxHeight  = 80
	LiveCharAspect = 0.6

	// columns and rows kept free around the picture
	liveMarginColumns = 4
	liveMarginRows    = 6
)

// ExportBounds is the fixed canvas used for batch export
var ExportBounds = Bounds{
	MinWidth:   60,
	MinHeight:  20,
	MaxWidth:   100,
	MaxHeight:  40,
	CharAspect: 0.4,
}

// Bounds is the box an output grid must fit in. CharAspect corrects for
// character cells being taller than they are wide.
type Bounds struct {
	MinWidth   int
	MinHeight  int
	MaxWidth   int
	MaxHeight  int
	CharAspect float64
}

// LiveBounds derives the player's box from the terminal size
func LiveBounds(columns, rows int) Bounds {
	return Bounds{
		MinWidth:   LiveMinWidth,
		MinHeight:  LiveMinHeight,
		MaxWidth:   min(columns-liveMarginColumns, LiveMaxWidth),
		MaxHeight:  min(rows-liveMarginRows, LiveMaxHeight),
		CharAspect: LiveCharAspect,
	}
}

// normalized guarantees max >= 1 and a usable aspect factor
func (b Bounds) normalized() Bounds {
	if b.MaxWidth < 1 {
		b.MaxWidth = 1
	}
	if b.MaxHeight < 1 {
		b.MaxHeight = 1
	}
	if b.CharAspect <= 0 || math.IsNaN(b.CharAspect) || math.IsInf(b.CharAspect, 0) {
		b.CharAspect = 1
	}
	return b
}

// Fit picks the grid size for a video of the given pixel dimensions.
// The result always lies within [Min, Max]; when Min exceeds Max the
// maximum wins.
func (b Bounds) Fit(videoWidth, videoHeight int) (width, height int) {
	b = b.normalized()

	aspect := 1.0
	if videoWidth > 0 && videoHeight > 0 {
		aspect = float64(videoWidth) / float64(videoHeight)
	}
	corrected := aspect * b.CharAspect

	if corrected > float64(b.MaxWidth)/float64(b.MaxHeight) {
		width = b.MaxWidth
		height = int(math.Round(float64(width) / corrected))
	} else {
		height = b.MaxHeight
		width = int(math.Round(float64(height) * corrected))
	}

	return clamp(width, b.MinWidth, b.MaxWidth), clamp(height, b.MinHeight, b.MaxHeight)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
