package numline

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Range is the displayed numeric window of the number line.
type Range struct {
	Min, Max float64
}

// Contains reports whether v lies inside the range, inclusive of the edges.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Timing constants for operation auto-deactivation.
const (
	// DefaultExpireDelay is how long an operation stays active before
	// folding into the starting value, in seconds.
	DefaultExpireDelay = 5.0

	// DefaultFadeLead is how long before expiry the starting point
	// begins to fade, in seconds.
	DefaultFadeLead = 2.0

	// minFadeOpacity is the floor the fade approaches as expiry nears.
	minFadeOpacity = 0.2
)

// Options configures an operation-tracking number line.
type Options struct {
	// OperationCount is the number of tracked operation slots, 1 or 2.
	OperationCount int

	// InitialValue seeds the starting value. Ignored when StartingValue
	// is supplied.
	InitialValue float64

	// StartingValue optionally shares an externally owned property as the
	// chain's seed value.
	StartingValue *Property[float64]

	// PointColors lists the colors for the starting point followed by one
	// color per operation endpoint. Must have OperationCount+1 entries
	// when non-nil.
	PointColors []colorful.Color

	// DisplayedRange is the visible numeric window.
	DisplayedRange Range

	// AutoDeactivate enables the expire-and-fold behavior for operations
	// that become active.
	AutoDeactivate bool

	// ExpireDelay and FadeLead override the default timing constants
	// when positive.
	ExpireDelay float64
	FadeLead    float64

	// Clock overrides the default step-driven clock.
	Clock Clock
}

// DefaultOptions returns a single-operation line over [-10, 10].
func DefaultOptions() Options {
	return Options{
		OperationCount: 1,
		DisplayedRange: Range{Min: -10, Max: 10},
		ExpireDelay:    DefaultExpireDelay,
		FadeLead:       DefaultFadeLead,
	}
}

// NumberLine tracks a chain of operations applied to a starting value and
// keeps one endpoint per operation synchronized with the chain.
//
// The model is the source of truth: renderers read derived start/end values
// and never write back, except through the endpoint drag protocol.
type NumberLine struct {
	// StartingValue seeds the whole chain.
	StartingValue *Property[float64]

	// StartPoint marks the starting value. Always on the line.
	StartPoint *Point

	// Operations are the fixed operation slots, in application order.
	Operations []*Operation

	// DisplayedRange is the visible numeric window.
	DisplayedRange *Property[Range]

	endpoints       []*Point
	expirationTimes map[int]float64 // operation index -> absolute expiry
	clock           Clock
	stepClock       *StepClock // non-nil when the line owns its clock
	autoDeactivate  bool
	expireDelay     float64
	fadeLead        float64
	initialValue    float64
}

// New creates an operation-tracking number line. The operation count must
// be 1 or 2 and, when colors are supplied, their count must match.
func New(opts Options) (*NumberLine, error) {
	if opts.OperationCount < 1 || opts.OperationCount > 2 {
		return nil, fmt.Errorf("operation count must be 1 or 2, got %d", opts.OperationCount)
	}
	if opts.PointColors != nil && len(opts.PointColors) != opts.OperationCount+1 {
		return nil, fmt.Errorf("need %d point colors (start + endpoints), got %d",
			opts.OperationCount+1, len(opts.PointColors))
	}

	colors := opts.PointColors
	if colors == nil {
		colors = defaultPointColors(opts.OperationCount + 1)
	}

	starting := opts.StartingValue
	if starting == nil {
		starting = NewProperty(opts.InitialValue)
	}

	expireDelay := opts.ExpireDelay
	if expireDelay <= 0 {
		expireDelay = DefaultExpireDelay
	}
	fadeLead := opts.FadeLead
	if fadeLead <= 0 {
		fadeLead = DefaultFadeLead
	}

	nl := &NumberLine{
		StartingValue:   starting,
		StartPoint:      NewPoint(starting.Get(), colors[0]),
		DisplayedRange:  NewProperty(opts.DisplayedRange),
		expirationTimes: make(map[int]float64),
		autoDeactivate:  opts.AutoDeactivate,
		expireDelay:     expireDelay,
		fadeLead:        fadeLead,
		initialValue:    starting.Get(),
	}

	if opts.Clock != nil {
		nl.clock = opts.Clock
	} else {
		nl.stepClock = &StepClock{}
		nl.clock = nl.stepClock
	}

	for i := 0; i < opts.OperationCount; i++ {
		op := NewOperation(Addition, 0)
		endpoint := NewPoint(starting.Get(), colors[i+1])
		nl.Operations = append(nl.Operations, op)
		nl.endpoints = append(nl.endpoints, endpoint)
		nl.wireOperation(i, op, endpoint)
	}

	nl.StartingValue.LazyLink(func(newValue, _ float64) {
		nl.StartPoint.Value.Set(newValue)
		nl.updateEndpoints()
	})

	return nl, nil
}

// wireOperation installs the bidirectional synchronization listeners for
// one operation slot.
func (nl *NumberLine) wireOperation(index int, op *Operation, endpoint *Point) {
	// Operation -> endpoints. Any change to the operation shifts the
	// values of every endpoint at or after it, so recompute all of them.
	recompute := func(float64, float64) { nl.updateEndpoints() }
	op.Amount.LazyLink(recompute)
	op.Type.LazyLink(func(OperationType, OperationType) { nl.updateEndpoints() })
	op.IsActive.LazyLink(func(active, _ bool) {
		if active && nl.autoDeactivate {
			nl.expirationTimes[index] = nl.clock.Now() + nl.expireDelay
		}
		if !active {
			delete(nl.expirationTimes, index)
			nl.StartPoint.Opacity.Set(1.0)
		}
		nl.updateEndpoints()
	})

	// Dragging the endpoint of an inactive operation is prevented
	// structurally by callers; hitting it here is a programming error.
	endpoint.IsDragging.LazyLink(func(dragging, _ bool) {
		if dragging && !op.IsActive.Get() {
			panic("numline: cannot drag the endpoint of an inactive operation")
		}
	})

	// Endpoint -> operation, only while the user is driving the endpoint.
	// The isDragging guard is the sole reentrancy barrier between the two
	// directions: a drag-driven amount change re-enters updateEndpoints,
	// which skips the dragging endpoint.
	endpoint.Value.LazyLink(func(value, _ float64) {
		if !endpoint.IsDragging.Get() {
			return
		}
		start := nl.OperationStartValue(op)
		if op.Type.Get() == Subtraction {
			op.Amount.Set(start - value)
		} else {
			op.Amount.Set(value - start)
		}
	})
}

// updateEndpoints recomputes every endpoint's value in sequence order.
// Active operations land on their result; inactive operations fall through
// to the value preceding them. Endpoints being dragged are left alone.
func (nl *NumberLine) updateEndpoints() {
	value := nl.StartingValue.Get()
	for i, op := range nl.Operations {
		if op.IsActive.Get() {
			value = op.Result(value)
		}
		if !nl.endpoints[i].IsDragging.Get() {
			nl.endpoints[i].Value.Set(value)
		}
	}
}

// Endpoint returns the point owned by the operation at the given index.
func (nl *NumberLine) Endpoint(index int) *Point {
	return nl.endpoints[index]
}

// EndpointFor returns the point owned by the given operation.
func (nl *NumberLine) EndpointFor(op *Operation) *Point {
	return nl.endpoints[nl.indexOf(op)]
}

// Points returns the points currently resident on the line: the starting
// point plus the endpoint of each active operation, in order.
func (nl *NumberLine) Points() []*Point {
	points := []*Point{nl.StartPoint}
	for i, op := range nl.Operations {
		if op.IsActive.Get() {
			points = append(points, nl.endpoints[i])
		}
	}
	return points
}

// indexOf asserts ownership. Asking about a foreign operation is a
// programming error, per the model's precondition philosophy.
func (nl *NumberLine) indexOf(op *Operation) int {
	for i, candidate := range nl.Operations {
		if candidate == op {
			return i
		}
	}
	panic("numline: operation does not belong to this number line")
}

// OperationStartValue folds the starting value through every active
// operation strictly before op in sequence order.
func (nl *NumberLine) OperationStartValue(op *Operation) float64 {
	index := nl.indexOf(op)
	value := nl.StartingValue.Get()
	for i := 0; i < index; i++ {
		if nl.Operations[i].IsActive.Get() {
			value = nl.Operations[i].Result(value)
		}
	}
	return value
}

// OperationResult folds through op inclusively. An inactive op contributes
// nothing, so its result equals its start value.
func (nl *NumberLine) OperationResult(op *Operation) float64 {
	value := nl.OperationStartValue(op)
	if op.IsActive.Get() {
		value = op.Result(value)
	}
	return value
}

// CurrentEndValue folds the starting value through all active operations.
func (nl *NumberLine) CurrentEndValue() float64 {
	value := nl.StartingValue.Get()
	for _, op := range nl.Operations {
		if op.IsActive.Get() {
			value = op.Result(value)
		}
	}
	return value
}

// ActiveOperations returns the active operations in sequence order.
func (nl *NumberLine) ActiveOperations() []*Operation {
	var active []*Operation
	for _, op := range nl.Operations {
		if op.IsActive.Get() {
			active = append(active, op)
		}
	}
	return active
}

// DeactivateAllOperations turns every operation off. Idempotent.
func (nl *NumberLine) DeactivateAllOperations() {
	for _, op := range nl.Operations {
		op.IsActive.Set(false)
	}
}

// IsOperationCompletelyOutOfDisplayedRange reports whether both the start
// and end values of op lie strictly on the same side of the displayed range.
func (nl *NumberLine) IsOperationCompletelyOutOfDisplayedRange(op *Operation) bool {
	r := nl.DisplayedRange.Get()
	s := nl.OperationStartValue(op)
	e := nl.OperationResult(op)
	return (s < r.Min && e < r.Min) || (s > r.Max && e > r.Max)
}

// IsOperationAtEdgeOfDisplayedRange reports whether op touches the displayed
// range's min or max exactly, with its other end on the inward side.
func (nl *NumberLine) IsOperationAtEdgeOfDisplayedRange(op *Operation) bool {
	r := nl.DisplayedRange.Get()
	s := nl.OperationStartValue(op)
	e := nl.OperationResult(op)
	return (s == r.Min && e >= r.Min) || (e == r.Min && s >= r.Min) ||
		(s == r.Max && e <= r.Max) || (e == r.Max && s <= r.Max)
}

// IsOperationPartiallyInDisplayedRange reports whether exactly one of op's
// start/end values is inside the displayed range, or op's span strictly
// contains the whole range.
func (nl *NumberLine) IsOperationPartiallyInDisplayedRange(op *Operation) bool {
	if nl.IsOperationAtEdgeOfDisplayedRange(op) {
		return false
	}
	r := nl.DisplayedRange.Get()
	s := nl.OperationStartValue(op)
	e := nl.OperationResult(op)
	if r.Contains(s) != r.Contains(e) {
		return true
	}
	return (s < r.Min && e > r.Max) || (s > r.Max && e < r.Min)
}

// Step advances the expiration bookkeeping. When the line owns its clock,
// dt (seconds) advances it; with an injected clock dt is only a frame hint.
//
// An operation past its expiry folds its result into the starting value and
// deactivates; one inside the fade lead window dims the starting point
// linearly down toward the minimum opacity.
func (nl *NumberLine) Step(dt float64) {
	if nl.stepClock != nil {
		nl.stepClock.Advance(dt)
	}
	now := nl.clock.Now()

	// Expire in chain order so that simultaneous expirations fold the
	// same way the operations apply.
	for index, op := range nl.Operations {
		expiry, pending := nl.expirationTimes[index]
		if !pending {
			continue
		}
		if now >= expiry {
			result := nl.OperationResult(op)
			delete(nl.expirationTimes, index)
			nl.StartPoint.Opacity.Set(1.0)
			op.IsActive.Set(false)
			nl.StartingValue.Set(result)
			continue
		}
		if remaining := expiry - now; remaining <= nl.fadeLead {
			opacity := remaining / nl.fadeLead
			if opacity < minFadeOpacity {
				opacity = minFadeOpacity
			}
			nl.StartPoint.Opacity.Set(opacity)
		}
	}
}

// Reset deactivates every operation, restores the initial starting value,
// and restores the starting point's appearance. Only the starting point
// remains on the line afterwards.
func (nl *NumberLine) Reset() {
	nl.DeactivateAllOperations()
	for _, op := range nl.Operations {
		op.Amount.Reset()
		op.Type.Reset()
	}
	nl.StartingValue.Set(nl.initialValue)
	nl.StartPoint.ResetAppearance()
	for k := range nl.expirationTimes {
		delete(nl.expirationTimes, k)
	}
}

// defaultPointColors returns the stock palette: blue start point, then
// magenta and orange endpoints.
func defaultPointColors(n int) []colorful.Color {
	palette := []colorful.Color{
		{R: 0.17, G: 0.35, B: 0.80},
		{R: 0.78, G: 0.12, B: 0.55},
		{R: 0.95, G: 0.52, B: 0.11},
	}
	colors := make([]colorful.Color, n)
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}
