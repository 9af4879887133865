// Package geometry computes element placement on the canvas: grid snapping
// and bounds clamping for a moving element.
package geometry

type Mode string

const (
	ModeDesign  Mode = "design"
	ModePreview Mode = "preview"
)

func (m Mode) Valid() bool {
	return m == ModeDesign || m == ModePreview
}

const (
	GridSize = 10

	// Box size assumed for elements without an explicit width/height.
	DefaultElementWidth  = 100
	DefaultElementHeight = 50
)

type Point struct {
	X int
	Y int
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultCanvas is the canvas used when none is configured or stored.
var DefaultCanvas = Size{Width: 900, Height: 640}

func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Snap rounds v to the nearest grid line, halves rounding up.
func Snap(v int) int {
	return floorDiv(v+GridSize/2, GridSize) * GridSize
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// BoxSize resolves optional dimensions to the size used for placement.
func BoxSize(width, height *int) (int, int) {
	w, h := DefaultElementWidth, DefaultElementHeight
	if width != nil && *width > 0 {
		w = *width
	}
	if height != nil && *height > 0 {
		h = *height
	}
	return w, h
}

// MaxOrigin is the largest origin that keeps a w×h box inside the canvas.
// Boxes larger than the canvas are pinned to 0 on that axis.
func MaxOrigin(canvas Size, w, h int) Point {
	return Point{X: max(0, canvas.Width-w), Y: max(0, canvas.Height-h)}
}

// Clamp keeps p inside [0, MaxOrigin] on both axes.
func Clamp(p Point, canvas Size, w, h int) Point {
	limit := MaxOrigin(canvas, w, h)
	return Point{
		X: clampAxis(p.X, limit.X),
		Y: clampAxis(p.Y, limit.Y),
	}
}

func clampAxis(v, limit int) int {
	return max(0, min(v, limit))
}

// Place computes where an element at origin lands after being dragged by
// (dx, dy). Preview mode never moves anything. In design mode the result is
// snapped to the grid and clamped so the whole box stays on the canvas; the
// upper bound is floored to the grid so the result is aligned as well.
func Place(origin Point, dx, dy int, mode Mode, canvas Size, width, height *int) Point {
	if mode != ModeDesign {
		return origin
	}
	w, h := BoxSize(width, height)
	limit := MaxOrigin(canvas, w, h)
	limit.X = floorDiv(limit.X, GridSize) * GridSize
	limit.Y = floorDiv(limit.Y, GridSize) * GridSize

	return Point{
		X: clampAxis(Snap(origin.X+dx), limit.X),
		Y: clampAxis(Snap(origin.Y+dy), limit.Y),
	}
}
