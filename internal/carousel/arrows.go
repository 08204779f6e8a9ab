package carousel

import "math"

// Arrows reports which navigation controls are visible.
type Arrows struct {
	Prev bool `json:"prev"`
	Next bool `json:"next"`
}

// Visibility computes arrow visibility from scroll geometry. Both arrows are
// hidden when the content fits the viewport; otherwise prev is hidden at the
// start and next is hidden at the end, within one unit of rounding.
func Visibility(offset, viewport, content float64) Arrows {
	if !scrollable(viewport, content) {
		return Arrows{}
	}
	return Arrows{
		Prev: offset > 0,
		Next: !atEnd(offset, viewport, content),
	}
}

func scrollable(viewport, content float64) bool {
	return content > viewport
}

func atEnd(offset, viewport, content float64) bool {
	return math.Round(offset+viewport) >= content-1
}

func maxOffset(viewport, content float64) float64 {
	return math.Max(0, content-viewport)
}

func clamp(offset, viewport, content float64) float64 {
	return math.Min(math.Max(offset, 0), maxOffset(viewport, content))
}
