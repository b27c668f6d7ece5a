package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/zijianstudio/numline-toolkit/pkg/numline"
	"github.com/zijianstudio/numline-toolkit/pkg/numrender"
)

// Styles
var (
	styleDefault     = tcell.StyleDefault
	styleTitle       = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleAxis        = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTickLabel   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleStartPoint  = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleEndpoint    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleFadedPoint  = tcell.StyleDefault.Foreground(tcell.ColorDarkBlue)
	styleAddition    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleSubtraction = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleOpSel       = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleOp          = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDragging    = tcell.StyleDefault.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite)
	styleStatus      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgError    = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess  = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp        = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Virtual pixel canvas the curves are computed in before being mapped to
// terminal cells. Cells are roughly 8x16 pixels.
const (
	virtualWidth   = 960.0
	virtualPadding = 40.0
	cellWidthPx    = 8.0
	cellHeightPx   = 16.0
)

// virtualLayout maps number line values into the virtual pixel canvas.
func (ed *Editor) virtualLayout() numrender.Layout {
	r := ed.model.DisplayedRange.Get()
	scale := (virtualWidth - 2*virtualPadding) / (r.Max - r.Min)
	return numrender.Layout{
		OriginX: virtualPadding - r.Min*scale,
		OriginY: 0, // line row; arrows curve to negative (above) and positive (below) y
		Scale:   scale,
	}
}

// toCell converts a virtual pixel position to terminal cell coordinates,
// given the line's cell row and the screen width.
func toCell(p numrender.Point, lineRow, screenW int) (int, int) {
	xFactor := float64(screenW) * cellWidthPx / virtualWidth
	col := int(math.Round(p.X * xFactor / cellWidthPx))
	row := lineRow + int(math.Round(p.Y/cellHeightPx))
	return col, row
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()
	lineRow := h / 2

	ed.drawTitle(w)
	ed.drawAxis(w, lineRow)
	for i := range ed.model.Operations {
		ed.drawArrow(i, w, lineRow)
	}
	ed.drawPoints(w, lineRow)
	ed.drawOperationPanel(w, h)
	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawTitle(w int) {
	title := ed.filename
	if ed.scenario.Name != "" {
		title = ed.scenario.Name
	}
	if ed.modified {
		title += " [modified]"
	}
	drawText(ed.screen, (w-len(title))/2, 0, styleTitle, title)
}

func (ed *Editor) drawAxis(w, lineRow int) {
	r := ed.model.DisplayedRange.Get()
	layout := ed.virtualLayout()

	for col := 0; col < w; col++ {
		ed.screen.SetContent(col, lineRow, '─', nil, styleAxis)
	}

	// Ticks at integer steps, labels beneath.
	step := 1.0
	for (r.Max-r.Min)/step > float64(w)/6 {
		step *= 5
	}
	for v := math.Ceil(r.Min/step) * step; v <= r.Max+1e-9; v += step {
		col, _ := toCell(layout.PositionOf(v), lineRow, w)
		if col < 0 || col >= w {
			continue
		}
		ed.screen.SetContent(col, lineRow, '┼', nil, styleAxis)
		label := fmt.Sprintf("%g", v)
		drawText(ed.screen, col-len(label)/2, lineRow+1, styleTickLabel, label)
	}
}

func (ed *Editor) drawArrow(index, w, lineRow int) {
	arrow := ed.arrows[index]
	curve, ok := arrow.Curve()
	if !ok {
		return
	}
	op := ed.model.Operations[index]
	style := styleAddition
	if op.Type.Get() == numline.Subtraction {
		style = styleSubtraction
	}

	clip, clipped := arrow.ClipRect()

	for _, p := range curve.Sample(3 * w) {
		if clipped && !clip.Contains(p) {
			continue
		}
		col, row := toCell(p, lineRow, w)
		if col < 0 || col >= w || row == lineRow {
			continue
		}
		ed.screen.SetContent(col, row, '·', nil, style)
	}

	if curve.ShowTip && (!clipped || clip.Contains(curve.Tip)) {
		col, row := toCell(curve.Tip, lineRow, w)
		if col >= 0 && col < w {
			ed.screen.SetContent(col, row, tipRune(curve.TipAngle), nil, style.Bold(true))
		}
	}
}

// tipRune picks an arrowhead glyph for the tip's pointing direction.
func tipRune(angle float64) rune {
	a := math.Mod(angle+2*math.Pi, 2*math.Pi)
	switch {
	case a < math.Pi/4 || a >= 7*math.Pi/4:
		return '▶'
	case a < 3*math.Pi/4:
		return '▼'
	case a < 5*math.Pi/4:
		return '◀'
	default:
		return '▲'
	}
}

func (ed *Editor) drawPoints(w, lineRow int) {
	layout := ed.virtualLayout()

	style := styleStartPoint
	if ed.model.StartPoint.Opacity.Get() < 0.7 {
		style = styleFadedPoint
	}
	col, _ := toCell(layout.PositionOf(ed.model.StartPoint.Value.Get()), lineRow, w)
	if col >= 0 && col < w {
		ed.screen.SetContent(col, lineRow, '●', nil, style)
	}

	for i, op := range ed.model.Operations {
		if !op.IsActive.Get() {
			continue
		}
		endpoint := ed.model.Endpoint(i)
		epStyle := styleEndpoint
		if endpoint.IsDragging.Get() {
			epStyle = styleDragging
		}
		col, _ := toCell(layout.PositionOf(endpoint.Value.Get()), lineRow, w)
		if col >= 0 && col < w {
			ed.screen.SetContent(col, lineRow, '◆', nil, epStyle)
		}
	}
}

func (ed *Editor) drawOperationPanel(w, h int) {
	row := 2
	drawText(ed.screen, 2, row, styleOp, fmt.Sprintf("start: %g", ed.model.StartingValue.Get()))
	row++
	for i, op := range ed.model.Operations {
		style := styleOp
		if i == ed.selected {
			style = styleOpSel
		}
		line := fmt.Sprintf(" op%d %s ", i, op)
		if op.IsActive.Get() {
			line += fmt.Sprintf(" %g -> %g", ed.model.OperationStartValue(op), ed.model.OperationResult(op))
		}
		drawText(ed.screen, 2, row, style, line)
		row++
	}
	drawText(ed.screen, 2, row, styleOp, fmt.Sprintf("end: %g", ed.model.CurrentEndValue()))
}

func (ed *Editor) drawStatusBar(w, h int) {
	for col := 0; col < w; col++ {
		ed.screen.SetContent(col, h-2, ' ', nil, styleStatus)
	}
	msgStyle := styleStatus
	switch ed.messageType {
	case MsgError:
		msgStyle = styleMsgError
	case MsgSuccess:
		msgStyle = styleMsgSuccess
	}
	status := ed.message
	if status == "" {
		status = fmt.Sprintf("operation %d selected", ed.selected)
	}
	drawText(ed.screen, 1, h-2, msgStyle, status)

	help := "←/→ select  a active  t type  +/- amount  d drag  r reset  s save  q quit"
	if ed.mode == ModeDrag {
		help = "←/→ or h/l move endpoint  enter/esc finish drag"
	}
	drawText(ed.screen, 1, h-1, styleHelp, help)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
