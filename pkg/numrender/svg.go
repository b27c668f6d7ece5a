package numrender

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/zijianstudio/numline-toolkit/pkg/numline"
)

// SVGOptions controls native SVG rendering of a number line scene.
type SVGOptions struct {
	Width      int     // canvas width in pixels
	Height     int     // canvas height in pixels
	Title      string  // scene title
	FontSize   int     // base font size for tick labels
	TitleSize  int     // font size for title (0 = FontSize + 4)
	Padding    int     // padding around the line's x extent
	PointR     float64 // point marker radius
	Proportion float64 // how much of each arrow to draw (0 = full)
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:    800,
		Height:   400,
		FontSize: 14,
		Padding:  50,
		PointR:   6,
	}
}

// SceneLayout computes the value-to-screen mapping used by both renderers
// for the given canvas size and displayed range.
func SceneLayout(r numline.Range, width, height, padding int) Layout {
	scale := float64(width-2*padding) / (r.Max - r.Min)
	return Layout{
		OriginX: float64(padding) - r.Min*scale,
		OriginY: float64(height) / 2,
		Scale:   scale,
	}
}

// Arrow stroke colors by operation type.
var (
	svgAdditionStroke    = "#e5a800"
	svgSubtractionStroke = "#d44fb2"
	svgLineStroke        = "#333"
	svgBackground        = colorful.Color{R: 1, G: 1, B: 1}
)

// RenderSVG renders the number line, its resident points, and one curved
// arrow per active operation. Arrows alternate sides: even operation
// indices draw above the line, odd below.
func RenderSVG(model *numline.NumberLine, opts SVGOptions) string {
	if opts.Width == 0 {
		opts.Width = 800
	}
	if opts.Height == 0 {
		opts.Height = 400
	}
	if opts.FontSize == 0 {
		opts.FontSize = 14
	}
	if opts.TitleSize == 0 {
		opts.TitleSize = opts.FontSize + 4
	}
	if opts.Padding == 0 {
		opts.Padding = 50
	}
	if opts.PointR == 0 {
		opts.PointR = 6
	}
	proportion := opts.Proportion
	if proportion <= 0 {
		proportion = 1
	}

	r := model.DisplayedRange.Get()
	layout := SceneLayout(r, opts.Width, opts.Height, opts.Padding)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, opts.Width, opts.Height, opts.Width, opts.Height))
	sb.WriteString(`<style>
  .numline { stroke: ` + svgLineStroke + `; stroke-width: 2; }
  .tick { stroke: ` + svgLineStroke + `; stroke-width: 1; }
  .ticklabel { font-family: sans-serif; fill: #333; text-anchor: middle; }
  .oparrow { fill: none; stroke-width: 2.5; stroke-linecap: round; }
</style>
`)
	sb.WriteString(`<rect width="100%" height="100%" fill="white"/>
`)

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(
			`<text x="%d" y="%d" font-size="%d" font-family="sans-serif" text-anchor="middle" font-weight="bold">%s</text>
`,
			opts.Width/2, opts.TitleSize+10, opts.TitleSize, escapeXML(opts.Title)))
	}

	drawLineAndTicks(&sb, layout, r, opts)

	// Clip paths first, then arrows referencing them.
	for i, op := range model.Operations {
		if !op.IsActive.Get() {
			continue
		}
		if clip, ok := OperationClipRect(model, op, layout); ok {
			sb.WriteString(fmt.Sprintf(
				`<clipPath id="op%d-clip"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/></clipPath>
`,
				i, clip.MinX, clip.MinY, clip.MaxX-clip.MinX, clip.MaxY-clip.MinY))
		}
	}
	for i, op := range model.Operations {
		if !op.IsActive.Get() {
			continue
		}
		drawOperationArrow(&sb, model, op, i, layout, proportion)
	}

	// Points on top of everything else.
	for _, p := range model.Points() {
		pos := layout.PositionOf(p.Value.Get())
		sb.WriteString(fmt.Sprintf(
			`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`,
			pos.X, pos.Y, opts.PointR, p.DisplayColor(svgBackground).Hex()))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func drawLineAndTicks(sb *strings.Builder, layout Layout, r numline.Range, opts SVGOptions) {
	y := layout.OriginY
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="numline"/>
`,
		layout.ValueToX(r.Min), y, layout.ValueToX(r.Max), y))

	step := tickStep(r)
	tickHalf := 6.0
	for v := math.Ceil(r.Min/step) * step; v <= r.Max+1e-9; v += step {
		x := layout.ValueToX(v)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="tick"/>
`,
			x, y-tickHalf, x, y+tickHalf))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" class="ticklabel">%s</text>
`,
			x, y+tickHalf+float64(opts.FontSize)+4, opts.FontSize, formatTick(v)))
	}
}

func drawOperationArrow(sb *strings.Builder, model *numline.NumberLine, op *numline.Operation, index int, layout Layout, proportion float64) {
	start := layout.PositionOf(model.OperationStartValue(op))
	end := layout.PositionOf(model.OperationResult(op))
	aboveLine := index%2 == 0
	curve := ComputeCurve(start, end, aboveLine, op.Type.Get(), proportion)

	stroke := svgAdditionStroke
	if op.Type.Get() == numline.Subtraction {
		stroke = svgSubtractionStroke
	}

	clipAttr := ""
	if _, ok := OperationClipRect(model, op, layout); ok {
		clipAttr = fmt.Sprintf(` clip-path="url(#op%d-clip)"`, index)
	}

	sb.WriteString(fmt.Sprintf(`<path d="%s" class="oparrow" stroke="%s"%s/>
`,
		curvePathData(curve), stroke, clipAttr))

	if curve.ShowTip {
		sb.WriteString(arrowheadPolygon(curve, stroke, clipAttr))
	}
}

// curvePathData emits native SVG arc/cubic commands for fully drawn
// curves and falls back to a sampled polyline for partial ones.
func curvePathData(c Curve) string {
	if c.Proportion < 1 {
		samples := c.Sample(48)
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("M%.1f,%.1f", samples[0].X, samples[0].Y))
		for _, p := range samples[1:] {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
		}
		return sb.String()
	}

	first := c.PointAt(0)
	last := c.PointAt(1)
	switch c.Kind {
	case CircularArc:
		large := 0
		if math.Abs(c.Sweep) > math.Pi {
			large = 1
		}
		sweepFlag := 0
		if c.Sweep > 0 {
			sweepFlag = 1
		}
		return fmt.Sprintf("M%.1f,%.1f A%.1f,%.1f 0 %d %d %.1f,%.1f",
			first.X, first.Y, c.Radius, c.Radius, large, sweepFlag, last.X, last.Y)
	case EllipticalArc:
		sweepFlag := 0
		if c.Sweep > 0 {
			sweepFlag = 1
		}
		return fmt.Sprintf("M%.1f,%.1f A%.1f,%.1f 0 0 %d %.1f,%.1f",
			first.X, first.Y, c.RadiusX, c.RadiusY, sweepFlag, last.X, last.Y)
	default:
		p := c.Controls
		return fmt.Sprintf("M%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f",
			p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y, p[3].X, p[3].Y)
	}
}

// arrowheadPolygon draws the arrowhead as a filled triangle at the tip,
// rotated to the curve's computed tip angle.
func arrowheadPolygon(c Curve, fill, clipAttr string) string {
	halfWidth := ArrowheadLength * 0.4
	back := Point{
		X: c.Tip.X - ArrowheadLength*math.Cos(c.TipAngle),
		Y: c.Tip.Y - ArrowheadLength*math.Sin(c.TipAngle),
	}
	perp := Point{X: -math.Sin(c.TipAngle), Y: math.Cos(c.TipAngle)}
	left := Point{X: back.X + perp.X*halfWidth, Y: back.Y + perp.Y*halfWidth}
	right := Point{X: back.X - perp.X*halfWidth, Y: back.Y - perp.Y*halfWidth}
	return fmt.Sprintf(`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"%s/>
`,
		c.Tip.X, c.Tip.Y, left.X, left.Y, right.X, right.Y, fill, clipAttr)
}

// tickStep picks a tick spacing that keeps the label count manageable.
func tickStep(r numline.Range) float64 {
	span := r.Max - r.Min
	step := 1.0
	for span/step > 24 {
		step *= 5
		if span/step <= 24 {
			break
		}
		step *= 2
	}
	return step
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%g", v)
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
