package numrender

import "github.com/zijianstudio/numline-toolkit/pkg/numline"

// ArrowState is the rendering state of one operation arrow.
type ArrowState int

const (
	ArrowInactive  ArrowState = iota // operation off, nothing drawn
	ArrowAnimating                   // proportion sweeping 0 to 1
	ArrowStatic                      // fully drawn, redrawn instantly
)

// ArrowOptions configures an operation arrow.
type ArrowOptions struct {
	AboveLine       bool
	AnimateOnActive bool    // grow the arrow when the operation activates
	Duration        float64 // growth duration in seconds
	Easing          EasingFunc
}

// DefaultArrowOptions returns the standard growth animation settings.
func DefaultArrowOptions(aboveLine bool) ArrowOptions {
	return ArrowOptions{
		AboveLine:       aboveLine,
		AnimateOnActive: true,
		Duration:        0.75,
		Easing:          EaseInOutCubic,
	}
}

// Arrow renders one operation of a number line as a curved arrow. It only
// reads the model, recomputing its curve whenever the operation's amount,
// type, or active flag changes, and owns the grow-on-activate animation.
type Arrow struct {
	model  *numline.NumberLine
	op     *numline.Operation
	layout Layout
	opts   ArrowOptions

	state ArrowState
	armed bool // activation seen while AnimateOnActive; latched until drawn
	anim  *Animator
	clock numline.Clock
	dirty bool
}

// NewArrow wires an arrow to one operation of the model. The clock
// supplies animation time, usually shared with the model's clock.
func NewArrow(model *numline.NumberLine, op *numline.Operation, layout Layout, clock numline.Clock, opts ArrowOptions) *Arrow {
	a := &Arrow{
		model:  model,
		op:     op,
		layout: layout,
		opts:   opts,
		anim:   NewAnimator(opts.Duration, opts.Easing),
		clock:  clock,
	}

	op.IsActive.LazyLink(func(active, _ bool) {
		if active && opts.AnimateOnActive {
			a.armed = true
		}
		a.invalidate()
	})
	op.Amount.LazyLink(func(float64, float64) { a.invalidate() })
	op.Type.LazyLink(func(numline.OperationType, numline.OperationType) { a.invalidate() })
	model.StartingValue.LazyLink(func(float64, float64) { a.invalidate() })

	a.refresh()
	return a
}

// invalidate cancels any in-flight animation and recomputes the state on
// the next refresh. A dependency change mid-animation either restarts the
// grow (if rearmed) or snaps to the static drawing.
func (a *Arrow) invalidate() {
	a.anim.Cancel()
	a.dirty = true
	a.refresh()
}

// refresh applies the arrow state machine transitions.
func (a *Arrow) refresh() {
	if !a.op.IsActive.Get() {
		a.state = ArrowInactive
		a.armed = false
		return
	}

	start := a.layout.PositionOf(a.model.OperationStartValue(a.op))
	end := a.layout.PositionOf(a.model.OperationResult(a.op))

	if a.armed && start != end {
		a.armed = false
		a.anim = NewAnimator(a.opts.Duration, a.opts.Easing)
		a.anim.Start(a.clock.Now())
		a.state = ArrowAnimating
		return
	}
	a.armed = false
	a.state = ArrowStatic
}

// State returns the arrow's current rendering state, promoting a finished
// animation to static.
func (a *Arrow) State() ArrowState {
	if a.state == ArrowAnimating && a.anim.State(a.clock.Now()) == AnimDone {
		a.state = ArrowStatic
	}
	return a.state
}

// Proportion returns how much of the curve to draw right now.
func (a *Arrow) Proportion() float64 {
	switch a.State() {
	case ArrowInactive:
		return 0
	case ArrowStatic:
		return 1
	}
	return a.anim.Proportion(a.clock.Now())
}

// Curve computes the arrow's current shape, or ok=false when nothing
// should be drawn.
func (a *Arrow) Curve() (Curve, bool) {
	if a.State() == ArrowInactive {
		return Curve{}, false
	}
	start := a.layout.PositionOf(a.model.OperationStartValue(a.op))
	end := a.layout.PositionOf(a.model.OperationResult(a.op))
	return ComputeCurve(start, end, a.opts.AboveLine, a.op.Type.Get(), a.Proportion()), true
}

// ClipRect returns the rectangle the drawn curve must be clipped to, or
// ok=false when no clipping applies. Operations fully outside or only
// partially inside the displayed range (with a nonzero amount) terminate
// visually at the edge of the visible line.
func (a *Arrow) ClipRect() (Rect, bool) {
	return OperationClipRect(a.model, a.op, a.layout)
}

// clipVerticalPad is the generous vertical margin of the clip rectangle.
const clipVerticalPad = 4 * ApexDistance

// OperationClipRect implements the clip-area rule for one operation.
func OperationClipRect(model *numline.NumberLine, op *numline.Operation, layout Layout) (Rect, bool) {
	needsClip := model.IsOperationCompletelyOutOfDisplayedRange(op) ||
		(model.IsOperationPartiallyInDisplayedRange(op) && op.Amount.Get() != 0)
	if !needsClip {
		return Rect{}, false
	}
	return layout.RangeRect(model.DisplayedRange.Get(), clipVerticalPad), true
}
