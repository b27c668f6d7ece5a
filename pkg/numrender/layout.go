// Package numrender computes and renders curved operation arrows for an
// operation-tracking number line: circular or elliptical arcs between two
// values, self-loops for zero-amount operations, arrowhead orientation,
// growth animation, and SVG/PNG output of whole scenes.
package numrender

import "github.com/zijianstudio/numline-toolkit/pkg/numline"

// Point represents a 2D screen coordinate.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle given by its corners.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Width returns the rectangle's horizontal extent.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Layout maps number line values to screen coordinates. The line is
// horizontal: a value v sits at x = OriginX + v*Scale, y = OriginY.
type Layout struct {
	OriginX float64 // screen x of value zero
	OriginY float64 // screen y of the line
	Scale   float64 // pixels per unit value
}

// ValueToX converts a number line value to a screen x coordinate.
func (l Layout) ValueToX(v float64) float64 {
	return l.OriginX + v*l.Scale
}

// XToValue converts a screen x coordinate back to a value.
func (l Layout) XToValue(x float64) float64 {
	return (x - l.OriginX) / l.Scale
}

// PositionOf returns the on-line screen position of a value.
func (l Layout) PositionOf(v float64) Point {
	return Point{X: l.ValueToX(v), Y: l.OriginY}
}

// RangeRect returns the screen rectangle spanning the displayed range's
// x extent with the given vertical padding on each side of the line.
func (l Layout) RangeRect(r numline.Range, verticalPad float64) Rect {
	return Rect{
		MinX: l.ValueToX(r.Min),
		MinY: l.OriginY - verticalPad,
		MaxX: l.ValueToX(r.Max),
		MaxY: l.OriginY + verticalPad,
	}
}
