// Native PNG rendering for number line scenes.
// Mirrors the SVG renderer output using Go's image packages.

package numrender

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/zijianstudio/numline-toolkit/pkg/numline"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width      int
	Height     int
	Padding    int
	FontSize   int
	PointR     float64
	Title      string
	Proportion float64 // how much of each arrow to draw (0 = full)
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:    800,
		Height:   400,
		Padding:  50,
		FontSize: 14,
		PointR:   6,
	}
}

// Colors used in rendering
var (
	pngWhite       = color.RGBA{255, 255, 255, 255}
	pngBlack       = color.RGBA{51, 51, 51, 255}  // #333
	pngAddition    = color.RGBA{229, 168, 0, 255} // #e5a800
	pngSubtraction = color.RGBA{212, 79, 178, 255}
)

// renderContext holds rendering parameters including scale.
type renderContext struct {
	img       *image.RGBA
	scale     float64
	lineWidth float64
	face      font.Face
	clip      *Rect // when set, drawing outside is suppressed
}

func newRenderContext(img *image.RGBA, scale int, fontSize int) *renderContext {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // should never happen with embedded font
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone, // supersampling instead of hinting
	})
	if err != nil {
		panic(err)
	}

	return &renderContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: float64(scale) * 2,
		face:      face,
	}
}

// set writes one pixel, honoring the active clip region.
func (ctx *renderContext) set(x, y float64, c color.Color) {
	if ctx.clip != nil && !ctx.clip.Contains(Point{X: x, Y: y}) {
		return
	}
	ctx.img.Set(int(x), int(y), c)
}

// RenderPNG renders a number line scene to PNG format.
// Uses 4x supersampling for smoother output.
func RenderPNG(model *numline.NumberLine, w io.Writer, opts PNGOptions) error {
	if opts.Width == 0 {
		opts.Width = 800
	}
	if opts.Height == 0 {
		opts.Height = 400
	}
	if opts.Padding == 0 {
		opts.Padding = 50
	}
	if opts.FontSize == 0 {
		opts.FontSize = 14
	}
	if opts.PointR == 0 {
		opts.PointR = 6
	}

	scale := 4
	largeOpts := opts
	largeOpts.Width = opts.Width * scale
	largeOpts.Height = opts.Height * scale
	largeOpts.Padding = opts.Padding * scale
	largeOpts.PointR = opts.PointR * float64(scale)

	largeImg := renderPNGInternal(model, largeOpts, scale)

	finalImg := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(finalImg, finalImg.Bounds(), largeImg, largeImg.Bounds(), draw.Over, nil)

	return png.Encode(w, finalImg)
}

func renderPNGInternal(model *numline.NumberLine, opts PNGOptions, scale int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	ctx := newRenderContext(img, scale, opts.FontSize)

	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			img.Set(x, y, pngWhite)
		}
	}

	proportion := opts.Proportion
	if proportion <= 0 {
		proportion = 1
	}

	r := model.DisplayedRange.Get()
	layout := SceneLayout(r, opts.Width, opts.Height, opts.Padding)

	if opts.Title != "" {
		drawTextCentered(ctx, opts.Width/2, int(float64(opts.FontSize)*1.5*ctx.scale), opts.Title, pngBlack)
	}

	drawAxisPNG(ctx, layout, r, opts)

	for i, op := range model.Operations {
		if !op.IsActive.Get() {
			continue
		}
		drawOperationArrowPNG(ctx, model, op, i, layout, proportion)
	}

	for _, p := range model.Points() {
		pos := layout.PositionOf(p.Value.Get())
		drawDisc(ctx, pos.X, pos.Y, opts.PointR, toRGBA(p.DisplayColor(colorful.Color{R: 1, G: 1, B: 1})))
	}

	return img
}

func drawAxisPNG(ctx *renderContext, layout Layout, r numline.Range, opts PNGOptions) {
	y := layout.OriginY
	drawLine(ctx, layout.ValueToX(r.Min), y, layout.ValueToX(r.Max), y, pngBlack)

	step := tickStep(r)
	tickHalf := 6.0 * ctx.scale
	for v := math.Ceil(r.Min/step) * step; v <= r.Max+1e-9; v += step {
		x := layout.ValueToX(v)
		drawLine(ctx, x, y-tickHalf, x, y+tickHalf, pngBlack)
		drawTextCentered(ctx, int(x), int(y+tickHalf+float64(opts.FontSize)*ctx.scale), formatTick(v), pngBlack)
	}
}

func drawOperationArrowPNG(ctx *renderContext, model *numline.NumberLine, op *numline.Operation, index int, layout Layout, proportion float64) {
	start := layout.PositionOf(model.OperationStartValue(op))
	end := layout.PositionOf(model.OperationResult(op))
	aboveLine := index%2 == 0
	curve := ComputeCurve(start, end, aboveLine, op.Type.Get(), proportion)

	stroke := pngAddition
	if op.Type.Get() == numline.Subtraction {
		stroke = pngSubtraction
	}

	if clip, ok := OperationClipRect(model, op, layout); ok {
		ctx.clip = &clip
		defer func() { ctx.clip = nil }()
	}

	samples := curve.Sample(120)
	for i := 1; i < len(samples); i++ {
		drawLine(ctx, samples[i-1].X, samples[i-1].Y, samples[i].X, samples[i].Y, stroke)
	}

	if curve.ShowTip {
		drawArrowheadPNG(ctx, curve, stroke)
	}
}

// drawArrowheadPNG fills the arrowhead triangle at the curve's tip.
func drawArrowheadPNG(ctx *renderContext, c Curve, col color.Color) {
	length := ArrowheadLength * ctx.scale / 2
	halfWidth := length * 0.4
	back := Point{
		X: c.Tip.X - length*math.Cos(c.TipAngle),
		Y: c.Tip.Y - length*math.Sin(c.TipAngle),
	}
	perp := Point{X: -math.Sin(c.TipAngle), Y: math.Cos(c.TipAngle)}
	left := Point{X: back.X + perp.X*halfWidth, Y: back.Y + perp.Y*halfWidth}
	right := Point{X: back.X - perp.X*halfWidth, Y: back.Y - perp.Y*halfWidth}

	for t := 0.0; t <= 1.0; t += 0.02 {
		mx := left.X + (right.X-left.X)*t
		my := left.Y + (right.Y-left.Y)*t
		drawLine(ctx, c.Tip.X, c.Tip.Y, mx, my, col)
	}
}

// drawDisc fills a circle, for point markers.
func drawDisc(ctx *renderContext, cx, cy, r float64, c color.Color) {
	for dy := -r; dy <= r; dy++ {
		yNorm := dy / r
		if yNorm*yNorm <= 1 {
			xExtent := r * math.Sqrt(1-yNorm*yNorm)
			for dx := -xExtent; dx <= xExtent; dx++ {
				ctx.set(cx+dx, cy+dy, c)
			}
		}
	}
}

// drawLine draws a line between two points with thickness from context.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	thickness := ctx.lineWidth

	dx := x2 - x1
	dy := y2 - y1
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}

	halfThick := thickness / 2

	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				ctx.set(x1+tx, y1+ty, c)
			}
		}
		return
	}

	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			ctx.set(cx+perpX*offset, cy+perpY*offset, c)
		}
	}
}

// drawTextCentered draws text centered at the given position using Go Regular font.
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()

	metrics := ctx.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	baselineY := y + int(float64(ascent)*0.15)

	point := fixed.Point26_6{
		X: fixed.I(x - width/2),
		Y: fixed.I(baselineY),
	}

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  point,
	}
	d.DrawString(text)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
