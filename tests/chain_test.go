// Package tests contains cross-package property tests verifying the
// number line model and the arrow geometry against each other.
package tests

import (
	"math"
	"testing"

	"github.com/zijianstudio/numline-toolkit/pkg/numline"
	"github.com/zijianstudio/numline-toolkit/pkg/numrender"
)

// =============================================================================
// Chain arithmetic properties
// =============================================================================

// TestChain_DragRoundTrip verifies that dragging an endpoint to a value V
// always leaves the operation's result at exactly V, for both operation
// types across a spread of targets.
func TestChain_DragRoundTrip(t *testing.T) {
	targets := []float64{-15, -3.25, 0, 0.5, 7, 19}
	for _, opType := range []numline.OperationType{numline.Addition, numline.Subtraction} {
		for _, target := range targets {
			nl, err := numline.New(numline.Options{
				OperationCount: 2,
				InitialValue:   3,
				DisplayedRange: numline.Range{Min: -20, Max: 20},
			})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			op0 := nl.Operations[0]
			op0.Amount.Set(2)
			op0.IsActive.Set(true)

			op1 := nl.Operations[1]
			op1.Type.Set(opType)
			op1.IsActive.Set(true)

			endpoint := nl.EndpointFor(op1)
			endpoint.IsDragging.Set(true)
			endpoint.Value.Set(target)
			endpoint.IsDragging.Set(false)

			if got := nl.OperationResult(op1); got != target {
				t.Errorf("%v drag to %g: result = %g", opType, target, got)
			}
		}
	}
}

// TestChain_EndValueMatchesLastResult verifies the fold consistency
// property over all activation masks and several amount combinations.
func TestChain_EndValueMatchesLastResult(t *testing.T) {
	amountPairs := [][2]float64{{3, 7}, {-4, 2}, {0, 0}, {10.5, -0.5}}
	for _, amounts := range amountPairs {
		for mask := 0; mask < 4; mask++ {
			nl, err := numline.New(numline.Options{
				OperationCount: 2,
				InitialValue:   1,
				DisplayedRange: numline.Range{Min: -50, Max: 50},
			})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			for i, op := range nl.Operations {
				op.Amount.Set(amounts[i])
				op.IsActive.Set(mask&(1<<i) != 0)
			}
			last := nl.Operations[len(nl.Operations)-1]
			if nl.CurrentEndValue() != nl.OperationResult(last) {
				t.Errorf("amounts %v mask %02b: end %g != last result %g",
					amounts, mask, nl.CurrentEndValue(), nl.OperationResult(last))
			}
		}
	}
}

// TestChain_InactiveEndpointRestsAtNextActiveStart verifies the
// fall-through invariant for the endpoint of an inactive operation.
func TestChain_InactiveEndpointRestsAtNextActiveStart(t *testing.T) {
	nl, err := numline.New(numline.Options{
		OperationCount: 2,
		InitialValue:   5,
		DisplayedRange: numline.Range{Min: -50, Max: 50},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	op0, op1 := nl.Operations[0], nl.Operations[1]
	op0.Amount.Set(11)
	op1.Amount.Set(4)
	op1.IsActive.Set(true)

	// op0 inactive: its endpoint must rest where op1 starts.
	if got, want := nl.EndpointFor(op0).Value.Get(), nl.OperationStartValue(op1); got != want {
		t.Errorf("inactive endpoint 0 = %g, want next active start %g", got, want)
	}

	// No active operation after an inactive one: rests at the end value.
	op1.IsActive.Set(false)
	op0.IsActive.Set(true)
	if got, want := nl.EndpointFor(op1).Value.Get(), nl.CurrentEndValue(); got != want {
		t.Errorf("inactive endpoint 1 = %g, want end value %g", got, want)
	}
}

// =============================================================================
// Geometry properties against the model
// =============================================================================

// TestGeometry_ArrowConnectsModelValues verifies that the curve computed
// for an operation lands exactly on the layout positions of the model's
// derived start and result values.
func TestGeometry_ArrowConnectsModelValues(t *testing.T) {
	nl, err := numline.New(numline.Options{
		OperationCount: 1,
		InitialValue:   -4,
		DisplayedRange: numline.Range{Min: -20, Max: 20},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	op := nl.Operations[0]
	op.Amount.Set(9)
	op.IsActive.Set(true)

	layout := numrender.SceneLayout(nl.DisplayedRange.Get(), 800, 400, 50)
	start := layout.PositionOf(nl.OperationStartValue(op))
	end := layout.PositionOf(nl.OperationResult(op))
	curve := numrender.ComputeCurve(start, end, true, op.Type.Get(), 1)

	if d := math.Hypot(curve.PointAt(0).X-start.X, curve.PointAt(0).Y-start.Y); d > 1e-6 {
		t.Errorf("curve start off by %g", d)
	}
	if d := math.Hypot(curve.PointAt(1).X-end.X, curve.PointAt(1).Y-end.Y); d > 1e-6 {
		t.Errorf("curve end off by %g", d)
	}
	if curve.Kind == numrender.Loop {
		t.Error("nonzero amount produced a loop")
	}
}

// TestGeometry_ZeroAmountLoopsOnlyAtIdenticalPositions verifies a loop is
// produced exactly when the operation's screen span collapses.
func TestGeometry_ZeroAmountLoopsOnlyAtIdenticalPositions(t *testing.T) {
	layout := numrender.SceneLayout(numline.Range{Min: -20, Max: 20}, 800, 400, 50)
	at := layout.PositionOf(3)

	loop := numrender.ComputeCurve(at, at, true, numline.Addition, 1)
	if loop.Kind != numrender.Loop {
		t.Fatalf("identical positions: kind = %v, want Loop", loop.Kind)
	}
	if loop.PointAt(0) != loop.PointAt(1) {
		t.Error("loop does not close on itself")
	}
	if b := loop.Bounds(); b.Width() == 0 {
		t.Error("loop is degenerate despite nonzero control offsets")
	}

	almost := layout.PositionOf(3.001)
	if c := numrender.ComputeCurve(at, almost, true, numline.Addition, 1); c.Kind == numrender.Loop {
		t.Error("distinct positions produced a loop")
	}
}
