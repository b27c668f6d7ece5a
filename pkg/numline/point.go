package numline

import "github.com/lucasb-eyer/go-colorful"

// Point marks one value on the number line: either the starting point,
// which is always on the line, or an operation's endpoint, which is on the
// line only while its operation is active.
type Point struct {
	Value      *Property[float64]
	IsDragging *Property[bool]
	Opacity    *Property[float64]

	color   colorful.Color
	initial colorful.Color
}

// NewPoint creates a fully opaque point at the given value.
func NewPoint(value float64, c colorful.Color) *Point {
	return &Point{
		Value:      NewProperty(value),
		IsDragging: NewProperty(false),
		Opacity:    NewProperty(1.0),
		color:      c,
		initial:    c,
	}
}

// Color returns the point's base color, before opacity is applied.
func (p *Point) Color() colorful.Color {
	return p.color
}

// SetColor replaces the point's base color.
func (p *Point) SetColor(c colorful.Color) {
	p.color = c
}

// DisplayColor blends the base color toward a background color by the
// point's current opacity, for renderers without an alpha channel.
func (p *Point) DisplayColor(background colorful.Color) colorful.Color {
	return background.BlendRgb(p.color, p.Opacity.Get())
}

// ResetAppearance restores the original color and full opacity.
func (p *Point) ResetAppearance() {
	p.color = p.initial
	p.Opacity.Set(1.0)
}
