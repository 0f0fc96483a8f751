package rectpack

import "fmt"

// Point describes a location in 2D space.
type Point struct {
	// X is the location on the horizontal x-axis.
	X int `json:"x"`
	// Y is the location on the vertical y-axis.
	Y int `json:"y"`
}

// Eq tests whether the receiver and another point have the same value.
func (p *Point) Eq(point Point) bool {
	return p.X == point.X && p.Y == point.Y
}

// Size describes the dimensions of an entity in 2D space, along with the
// caller-defined identifier it pertains to.
type Size struct {
	// ID is a caller-defined identifier that distinguishes this entry from
	// every other entry submitted to the same packing run.
	ID string `json:"id"`
	// Width is the dimension on the horizontal x-axis.
	Width int `json:"width"`
	// Height is the dimension on the vertical y-axis.
	Height int `json:"height"`
}

// NewSize creates a new size with the specified identifier and dimensions.
func NewSize(id string, width, height int) Size {
	return Size{ID: id, Width: width, Height: height}
}

// String returns a string describing the size.
func (sz *Size) String() string {
	return fmt.Sprintf("[%v, %v]", sz.Width, sz.Height)
}

// Area returns the total area (width * height).
func (sz *Size) Area() int {
	return sz.Width * sz.Height
}

// Perimeter returns the total length of all sides.
func (sz *Size) Perimeter() int {
	return (sz.Width + sz.Height) << 1
}

// MaxSide returns the value of the greater side.
func (sz *Size) MaxSide() int {
	return max(sz.Width, sz.Height)
}

// MinSide returns the value of the lesser side.
func (sz *Size) MinSide() int {
	return min(sz.Width, sz.Height)
}

// Rect describes a location (top-left corner) and size in 2D space. It is
// the placement record produced for each successfully packed size: the
// Rotated flag indicates that Width/Height are swapped relative to the
// size that was submitted.
type Rect struct {
	Point
	Size
	// Rotated indicates if the rectangle was rotated 90 degrees to achieve
	// a better fit. Always false for strategies that never rotate.
	Rotated bool `json:"rotated,omitempty"`
}

// NewRect initializes a new rectangle using the specified position and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{
		Point: Point{X: x, Y: y},
		Size:  Size{Width: w, Height: h},
	}
}

// String returns a string describing the rectangle.
func (r *Rect) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", r.X, r.Y, r.Width, r.Height)
}

// Left returns the coordinate of the left edge on the x-axis.
func (r *Rect) Left() int {
	return r.X
}

// Top returns the coordinate of the top edge on the y-axis.
func (r *Rect) Top() int {
	return r.Y
}

// Right returns the coordinate of the right edge on the x-axis.
func (r *Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the coordinate of the bottom edge on the y-axis.
func (r *Rect) Bottom() int {
	return r.Y + r.Height
}

// ContainsRect tests whether the specified rectangle is contained within the
// bounds of the receiver.
func (r *Rect) ContainsRect(rect Rect) bool {
	return r.X <= rect.X &&
		rect.X+rect.Width <= r.X+r.Width &&
		r.Y <= rect.Y &&
		rect.Y+rect.Height <= r.Y+r.Height
}

// Contains tests whether the specified coordinates are within the bounds of
// the receiver.
func (r *Rect) Contains(x, y int) bool {
	return r.X <= x && x < r.X+r.Width && r.Y <= y && y < r.Y+r.Height
}

// IsEmpty tests whether the width or height is less than one.
func (r *Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects tests whether the receiver has any overlap with the specified
// rectangle.
func (r *Rect) Intersects(rect Rect) bool {
	return rect.X < r.X+r.Width &&
		r.X < rect.X+rect.Width &&
		rect.Y < r.Y+r.Height &&
		r.Y < rect.Y+rect.Height
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x >= 0 {
		return x
	}
	return -x
}

// padSize grows a size by the configured padding on all four sides.
func padSize(size *Size, padding int) {
	if padding <= 0 {
		return
	}
	size.Width += padding * 2
	size.Height += padding * 2
}

// unpadRect strips the padding previously applied with padSize, restoring
// the rectangle to the dimensions that were originally submitted.
func unpadRect(rect *Rect, padding int) {
	if padding <= 0 {
		return
	}
	rect.X += padding
	rect.Y += padding
	rect.Width -= padding * 2
	rect.Height -= padding * 2
}

// boundingSize computes the minimum size required to contain all of the
// specified rectangles.
func boundingSize(rects []Rect) (width, height int) {
	for i := range rects {
		width = max(width, rects[i].Right())
		height = max(height, rects[i].Bottom())
	}
	return width, height
}
