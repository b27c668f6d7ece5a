package numrender

import (
	"math"

	"github.com/zijianstudio/numline-toolkit/pkg/numline"
)

// Geometry constants for curved operation arrows.
const (
	// ApexDistance is how far the curve bulges from the number line at
	// its midpoint, in pixels.
	ApexDistance = 25.0

	// ArrowheadLength is the length of the arrowhead, used for tangent
	// compensation so the head sits flush with the curve.
	ArrowheadLength = 15.0

	// ArrowheadVisibleProportion suppresses the arrowhead until the
	// growth animation is nearly complete.
	ArrowheadVisibleProportion = 0.9

	// Self-loop control point offsets, as multiples of ApexDistance.
	loopControlSpread = 2.0 * ApexDistance
	loopControlHeight = 1.5 * ApexDistance

	// ellipticalTipCorrection scales the empirical arrowhead angle
	// adjustment for elliptical arcs.
	ellipticalTipCorrection = math.Pi * 0.1

	// loopTipWidthFactor scales the empirical arrowhead angle adjustment
	// for self-loops, applied to the loop's bounding-box width.
	loopTipWidthFactor = 0.01
)

// CurveKind selects the arc model used for an operation arrow.
type CurveKind int

const (
	CircularArc   CurveKind = iota // wide spans
	EllipticalArc                  // narrow spans
	Loop                           // zero-amount operations
)

// Curve is the computed shape of one operation arrow, drawn up to a
// proportion of its full extent. Analytic parameters are retained so
// renderers can emit native arc commands and tests can verify geometry.
type Curve struct {
	Kind       CurveKind
	Start, End Point   // full-extent endpoints on the line
	Proportion float64 // how much of the curve is drawn, 0..1

	// Circular and elliptical arcs.
	Center           Point
	Radius           float64 // circular only
	RadiusX, RadiusY float64 // elliptical only
	StartAngle       float64
	Sweep            float64 // full signed angular extent

	// Self-loops: cubic Bézier control points P0..P3.
	Controls [4]Point

	// Arrowhead placement.
	Tip      Point
	TipAngle float64 // direction the head points, radians
	ShowTip  bool
}

// ComputeCurve builds the curve connecting start to end on the given side
// of the line, drawn up to proportion. The operation type selects the
// self-loop orientation for zero-span operations.
//
// Three cases, by the horizontal span relative to the apex distance:
// wide spans use a circular arc whose radius comes from the sagitta
// formula, narrow spans use half an elliptical arc, and zero spans use a
// cubic Bézier self-loop.
func ComputeCurve(start, end Point, aboveLine bool, opType numline.OperationType, proportion float64) Curve {
	proportion = clamp(proportion, 0, 1)
	deltaX := end.X - start.X

	var c Curve
	switch {
	case math.Abs(deltaX)/2 >= ApexDistance:
		c = computeCircularArc(start, end, aboveLine, proportion)
	case deltaX != 0:
		c = computeEllipticalArc(start, end, aboveLine, proportion)
	default:
		c = computeLoop(start, aboveLine, opType, proportion)
	}
	c.Start = start
	c.End = end
	c.Proportion = proportion
	c.ShowTip = proportion > ArrowheadVisibleProportion
	return c
}

// computeCircularArc models the curve as a circular arc. The radius comes
// from the sagitta relation for the chord between start and end and the
// fixed apex height.
func computeCircularArc(start, end Point, aboveLine bool, proportion float64) Curve {
	chord := math.Hypot(end.X-start.X, end.Y-start.Y)
	radius := chord*chord/(8*ApexDistance) + ApexDistance/2

	center := Point{X: (start.X + end.X) / 2}
	if aboveLine {
		// Apex above the line, circle center below it.
		center.Y = start.Y - ApexDistance + radius
	} else {
		center.Y = start.Y + ApexDistance - radius
	}

	startAngle := math.Atan2(start.Y-center.Y, start.X-center.X)
	endAngle := math.Atan2(end.Y-center.Y, end.X-center.X)

	// Screen y grows downward, so an arc over the line with the end to
	// the right is traversed with increasing angle, and each of the other
	// three cases flips.
	increasing := aboveLine == (end.X > start.X)
	sweep := math.Mod(endAngle-startAngle, 2*math.Pi)
	if increasing && sweep < 0 {
		sweep += 2 * math.Pi
	}
	if !increasing && sweep > 0 {
		sweep -= 2 * math.Pi
	}

	drawnEnd := startAngle + sweep*proportion
	tip := Point{
		X: center.X + radius*math.Cos(drawnEnd),
		Y: center.Y + radius*math.Sin(drawnEnd),
	}

	// Back the arrowhead's anchor angle off along the arc by half a head
	// length so the head lies flush with the curve, then rotate to the
	// travel tangent.
	dir := 1.0
	if sweep < 0 {
		dir = -1.0
	}
	compensated := drawnEnd - dir*ArrowheadLength/(2*radius)
	tipAngle := compensated + dir*math.Pi/2

	return Curve{
		Kind:       CircularArc,
		Center:     center,
		Radius:     radius,
		StartAngle: startAngle,
		Sweep:      sweep,
		Tip:        tip,
		TipAngle:   tipAngle,
	}
}

// computeEllipticalArc models narrow spans as half an elliptical arc with
// horizontal radius |deltaX|/2 and vertical radius ApexDistance.
func computeEllipticalArc(start, end Point, aboveLine bool, proportion float64) Curve {
	deltaX := end.X - start.X
	rx := math.Abs(deltaX) / 2
	ry := ApexDistance
	center := Point{X: (start.X + end.X) / 2, Y: start.Y}

	// Start angle and sweep direction, one case per (side, direction).
	// The half ellipse above the line is the negative-sine half in
	// screen coordinates.
	var startAngle, sweep float64
	switch {
	case aboveLine && deltaX > 0:
		startAngle, sweep = math.Pi, math.Pi
	case aboveLine && deltaX < 0:
		startAngle, sweep = 0, -math.Pi
	case !aboveLine && deltaX > 0:
		startAngle, sweep = math.Pi, -math.Pi
	default:
		startAngle, sweep = 0, math.Pi
	}

	theta := startAngle + sweep*proportion
	tip := Point{
		X: center.X + rx*math.Cos(theta),
		Y: center.Y + ry*math.Sin(theta),
	}

	dir := 1.0
	if sweep < 0 {
		dir = -1.0
	}
	tangent := math.Atan2(dir*ry*math.Cos(theta), -dir*rx*math.Sin(theta))
	tipAngle := tangent - dir*(rx/ry)*ellipticalTipCorrection

	return Curve{
		Kind:       EllipticalArc,
		Center:     center,
		RadiusX:    rx,
		RadiusY:    ry,
		StartAngle: startAngle,
		Sweep:      sweep,
		Tip:        tip,
		TipAngle:   tipAngle,
	}
}

// computeLoop draws a zero-amount operation as a cubic Bézier that starts
// and ends at the same point. The operation type mirrors the loop so the
// arrowhead approaches from the matching side.
func computeLoop(at Point, aboveLine bool, opType numline.OperationType, proportion float64) Curve {
	vSign := 1.0
	if aboveLine {
		vSign = -1.0
	}

	left := Point{X: at.X - loopControlSpread, Y: at.Y + vSign*loopControlHeight}
	right := Point{X: at.X + loopControlSpread, Y: at.Y + vSign*loopControlHeight}

	controls := [4]Point{at, left, right, at}
	if opType == numline.Subtraction {
		controls = [4]Point{at, right, left, at}
	}

	tip := cubicPoint(controls, proportion)

	// The arrowhead angle is tuned from the loop's rendered width; the
	// analytic tangent at the closing point overrotates the head.
	width := loopBoundsWidth(controls)
	tangentVec := Point{
		X: controls[3].X - controls[2].X,
		Y: controls[3].Y - controls[2].Y,
	}
	base := math.Atan2(tangentVec.Y, tangentVec.X)
	adjust := width * loopTipWidthFactor
	switch {
	case opType == numline.Addition && aboveLine:
		base -= adjust
	case opType == numline.Addition && !aboveLine:
		base += adjust
	case opType == numline.Subtraction && aboveLine:
		base += adjust
	default:
		base -= adjust
	}

	return Curve{
		Kind:     Loop,
		Controls: controls,
		Tip:      tip,
		TipAngle: base,
	}
}

// Sample returns n+1 points along the drawn portion of the curve,
// including both ends.
func (c Curve) Sample(n int) []Point {
	if n < 1 {
		n = 1
	}
	points := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		points = append(points, c.PointAt(t))
	}
	return points
}

// PointAt evaluates the drawn curve at parameter t in [0,1], where 1 is
// the end of the drawn (proportion-limited) portion.
func (c Curve) PointAt(t float64) Point {
	t = clamp(t, 0, 1)
	switch c.Kind {
	case CircularArc:
		theta := c.StartAngle + c.Sweep*c.Proportion*t
		return Point{
			X: c.Center.X + c.Radius*math.Cos(theta),
			Y: c.Center.Y + c.Radius*math.Sin(theta),
		}
	case EllipticalArc:
		theta := c.StartAngle + c.Sweep*c.Proportion*t
		return Point{
			X: c.Center.X + c.RadiusX*math.Cos(theta),
			Y: c.Center.Y + c.RadiusY*math.Sin(theta),
		}
	default:
		return cubicPoint(c.Controls, c.Proportion*t)
	}
}

// Bounds returns the bounding box of the drawn curve, sampled.
func (c Curve) Bounds() Rect {
	samples := c.Sample(64)
	r := Rect{
		MinX: samples[0].X, MinY: samples[0].Y,
		MaxX: samples[0].X, MaxY: samples[0].Y,
	}
	for _, p := range samples {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r
}

// cubicPoint evaluates a cubic Bézier at t.
func cubicPoint(p [4]Point, t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t
	return Point{
		X: mt3*p[0].X + 3*mt2*t*p[1].X + 3*mt*t2*p[2].X + t3*p[3].X,
		Y: mt3*p[0].Y + 3*mt2*t*p[1].Y + 3*mt*t2*p[2].Y + t3*p[3].Y,
	}
}

// loopBoundsWidth samples the full loop and returns its width.
func loopBoundsWidth(controls [4]Point) float64 {
	minX, maxX := controls[0].X, controls[0].X
	steps := 32
	for i := 0; i <= steps; i++ {
		p := cubicPoint(controls, float64(i)/float64(steps))
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}
	return maxX - minX
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
