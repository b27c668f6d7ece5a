package numline

import (
	"math"
	"testing"
)

func newTestLine(t *testing.T, count int, startingValue float64) *NumberLine {
	t.Helper()
	nl, err := New(Options{
		OperationCount: count,
		InitialValue:   startingValue,
		DisplayedRange: Range{Min: -20, Max: 20},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return nl
}

func TestNewRejectsBadOperationCount(t *testing.T) {
	for _, count := range []int{0, 3, -1} {
		if _, err := New(Options{OperationCount: count}); err == nil {
			t.Errorf("OperationCount=%d: expected error", count)
		}
	}
}

func TestNewRejectsMismatchedColors(t *testing.T) {
	_, err := New(Options{
		OperationCount: 2,
		PointColors:    defaultPointColors(2), // needs 3
	})
	if err == nil {
		t.Error("expected error for color count mismatch")
	}
}

func TestSingleAdditionChain(t *testing.T) {
	nl := newTestLine(t, 1, 0)
	op := nl.Operations[0]
	op.Amount.Set(5)
	op.IsActive.Set(true)

	if got := nl.OperationStartValue(op); got != 0 {
		t.Errorf("start value = %g, want 0", got)
	}
	if got := nl.OperationResult(op); got != 5 {
		t.Errorf("result = %g, want 5", got)
	}
	if got := nl.CurrentEndValue(); got != 5 {
		t.Errorf("end value = %g, want 5", got)
	}
	if got := nl.Endpoint(0).Value.Get(); got != 5 {
		t.Errorf("endpoint value = %g, want 5", got)
	}

	// Deactivating falls the endpoint back to the starting value.
	op.IsActive.Set(false)
	if got := nl.Endpoint(0).Value.Get(); got != 0 {
		t.Errorf("inactive endpoint value = %g, want 0", got)
	}
	if got := nl.CurrentEndValue(); got != 0 {
		t.Errorf("end value after deactivate = %g, want 0", got)
	}
}

func TestTwoOperationChain(t *testing.T) {
	nl := newTestLine(t, 2, 10)
	op0, op1 := nl.Operations[0], nl.Operations[1]

	op0.Amount.Set(3)
	op0.IsActive.Set(true)
	op1.Type.Set(Subtraction)
	op1.Amount.Set(7)
	op1.IsActive.Set(true)

	if got := nl.OperationStartValue(op0); got != 10 {
		t.Errorf("op0 start = %g, want 10", got)
	}
	if got := nl.OperationResult(op0); got != 13 {
		t.Errorf("op0 result = %g, want 13", got)
	}
	if got := nl.OperationStartValue(op1); got != 13 {
		t.Errorf("op1 start = %g, want 13", got)
	}
	if got := nl.OperationResult(op1); got != 6 {
		t.Errorf("op1 result = %g, want 6", got)
	}
	if got := nl.CurrentEndValue(); got != 6 {
		t.Errorf("end value = %g, want 6", got)
	}
}

func TestFoldConsistency(t *testing.T) {
	// CurrentEndValue must equal the last operation's result for every
	// active/inactive combination.
	amounts := [2]float64{4, -9}
	for mask := 0; mask < 4; mask++ {
		nl := newTestLine(t, 2, 2)
		for i, op := range nl.Operations {
			op.Amount.Set(amounts[i])
			op.IsActive.Set(mask&(1<<i) != 0)
		}
		last := nl.Operations[1]
		if nl.CurrentEndValue() != nl.OperationResult(last) {
			t.Errorf("mask %02b: end value %g != last result %g",
				mask, nl.CurrentEndValue(), nl.OperationResult(last))
		}
		if mask == 0 && nl.CurrentEndValue() != 2 {
			t.Errorf("no active operations: end value %g, want starting value 2", nl.CurrentEndValue())
		}
	}
}

func TestInactiveFallThrough(t *testing.T) {
	nl := newTestLine(t, 2, 1)
	op0, op1 := nl.Operations[0], nl.Operations[1]

	// op0 inactive, op1 active: op0's endpoint rests at the starting
	// value, which is also op1's start value.
	op0.Amount.Set(5)
	op1.Amount.Set(3)
	op1.IsActive.Set(true)

	if got := nl.Endpoint(0).Value.Get(); got != 1 {
		t.Errorf("inactive endpoint 0 = %g, want starting value 1", got)
	}
	if got := nl.OperationStartValue(op1); got != 1 {
		t.Errorf("op1 start = %g, want 1", got)
	}
	if got := nl.Endpoint(1).Value.Get(); got != 4 {
		t.Errorf("endpoint 1 = %g, want 4", got)
	}

	// op0 active, op1 inactive: op1's endpoint rests at op0's result.
	op0.IsActive.Set(true)
	op1.IsActive.Set(false)
	if got := nl.Endpoint(1).Value.Get(); got != 6 {
		t.Errorf("inactive endpoint 1 = %g, want op0 result 6", got)
	}
}

func TestDragRoundTrip(t *testing.T) {
	for _, opType := range []OperationType{Addition, Subtraction} {
		for _, target := range []float64{4, -6, 0, 17.5} {
			nl := newTestLine(t, 1, 10)
			op := nl.Operations[0]
			op.Type.Set(opType)
			op.IsActive.Set(true)

			endpoint := nl.Endpoint(0)
			endpoint.IsDragging.Set(true)
			endpoint.Value.Set(target)
			endpoint.IsDragging.Set(false)

			if got := nl.OperationResult(op); got != target {
				t.Errorf("%v drag to %g: result = %g", opType, target, got)
			}
		}
	}
}

func TestDragDerivedAmountSign(t *testing.T) {
	// Dragging an addition's endpoint below its start value yields a
	// negative amount; the sign flows through arithmetically.
	nl := newTestLine(t, 1, 10)
	op := nl.Operations[0]
	op.IsActive.Set(true)

	endpoint := nl.Endpoint(0)
	endpoint.IsDragging.Set(true)
	endpoint.Value.Set(4)
	endpoint.IsDragging.Set(false)

	if got := op.Amount.Get(); got != -6 {
		t.Errorf("addition amount = %g, want -6", got)
	}

	// Same drag on a subtraction flips the sign.
	nl2 := newTestLine(t, 1, 10)
	op2 := nl2.Operations[0]
	op2.Type.Set(Subtraction)
	op2.IsActive.Set(true)

	endpoint2 := nl2.Endpoint(0)
	endpoint2.IsDragging.Set(true)
	endpoint2.Value.Set(4)
	endpoint2.IsDragging.Set(false)

	if got := op2.Amount.Get(); got != 6 {
		t.Errorf("subtraction amount = %g, want 6", got)
	}
}

func TestDraggingEndpointNotOverwritten(t *testing.T) {
	nl := newTestLine(t, 2, 0)
	op0, op1 := nl.Operations[0], nl.Operations[1]
	op0.Amount.Set(2)
	op0.IsActive.Set(true)
	op1.Amount.Set(3)
	op1.IsActive.Set(true)

	// While endpoint 0 drags, changing op0's amount through the drag
	// must still push endpoint 1, but never endpoint 0.
	endpoint0 := nl.Endpoint(0)
	endpoint0.IsDragging.Set(true)
	endpoint0.Value.Set(7)
	if got := endpoint0.Value.Get(); got != 7 {
		t.Errorf("dragging endpoint overwritten to %g", got)
	}
	if got := nl.Endpoint(1).Value.Get(); got != 10 {
		t.Errorf("endpoint 1 = %g, want 10", got)
	}
	endpoint0.IsDragging.Set(false)
}

func TestDragInactiveOperationPanics(t *testing.T) {
	nl := newTestLine(t, 1, 0)
	defer func() {
		if recover() == nil {
			t.Error("expected panic dragging an inactive operation's endpoint")
		}
	}()
	nl.Endpoint(0).IsDragging.Set(true)
}

func TestForeignOperationPanics(t *testing.T) {
	nl := newTestLine(t, 1, 0)
	foreign := NewOperation(Addition, 1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for foreign operation")
		}
	}()
	nl.OperationStartValue(foreign)
}

func TestStartingValueChangeShiftsEndpoints(t *testing.T) {
	nl := newTestLine(t, 1, 0)
	op := nl.Operations[0]
	op.Amount.Set(5)
	op.IsActive.Set(true)

	nl.StartingValue.Set(100)
	if got := nl.Endpoint(0).Value.Get(); got != 105 {
		t.Errorf("endpoint after starting value change = %g, want 105", got)
	}
	if got := nl.StartPoint.Value.Get(); got != 100 {
		t.Errorf("start point = %g, want 100", got)
	}
}

func TestPointsResidency(t *testing.T) {
	nl := newTestLine(t, 2, 0)
	if got := len(nl.Points()); got != 1 {
		t.Fatalf("points on fresh line = %d, want 1", got)
	}
	nl.Operations[0].IsActive.Set(true)
	nl.Operations[1].IsActive.Set(true)
	if got := len(nl.Points()); got != 3 {
		t.Errorf("points with both active = %d, want 3", got)
	}
	nl.Operations[0].IsActive.Set(false)
	points := nl.Points()
	if len(points) != 2 || points[1] != nl.Endpoint(1) {
		t.Errorf("expected start point plus endpoint 1, got %d points", len(points))
	}
}

func TestRangePredicatesMutuallyExclusive(t *testing.T) {
	// Sweep start/end value pairs across and around the displayed range;
	// at most one predicate may hold for any pair.
	values := []float64{-30, -20.5, -20, -19, -3, 0, 8, 19, 20, 20.5, 30}
	for _, s := range values {
		for _, e := range values {
			nl := newTestLine(t, 1, s)
			op := nl.Operations[0]
			op.Amount.Set(e - s)
			op.IsActive.Set(true)

			trueCount := 0
			if nl.IsOperationCompletelyOutOfDisplayedRange(op) {
				trueCount++
			}
			if nl.IsOperationAtEdgeOfDisplayedRange(op) {
				trueCount++
			}
			if nl.IsOperationPartiallyInDisplayedRange(op) {
				trueCount++
			}
			if trueCount > 1 {
				t.Errorf("start=%g end=%g: %d range predicates true", s, e, trueCount)
			}
		}
	}
}

func TestRangePredicateCases(t *testing.T) {
	cases := []struct {
		name           string
		start, end     float64
		out, edge, par bool
	}{
		{"fully inside", 0, 5, false, false, false},
		{"both above max", 25, 30, true, false, false},
		{"both below min", -30, -25, true, false, false},
		{"straddles max", 15, 25, false, false, true},
		{"straddles min", -25, -15, false, false, true},
		{"spans whole range", -25, 25, false, false, true},
		{"spans whole range reversed", 25, -25, false, false, true},
		{"end at max", 10, 20, false, true, false},
		{"start at min", -20, -10, false, true, false},
		{"start at max going in", 20, 0, false, true, false},
	}
	for _, tc := range cases {
		nl := newTestLine(t, 1, tc.start)
		op := nl.Operations[0]
		op.Amount.Set(tc.end - tc.start)
		op.IsActive.Set(true)

		if got := nl.IsOperationCompletelyOutOfDisplayedRange(op); got != tc.out {
			t.Errorf("%s: completely out = %v, want %v", tc.name, got, tc.out)
		}
		if got := nl.IsOperationAtEdgeOfDisplayedRange(op); got != tc.edge {
			t.Errorf("%s: at edge = %v, want %v", tc.name, got, tc.edge)
		}
		if got := nl.IsOperationPartiallyInDisplayedRange(op); got != tc.par {
			t.Errorf("%s: partially in = %v, want %v", tc.name, got, tc.par)
		}
	}
}

func TestActiveOperationsOrder(t *testing.T) {
	nl := newTestLine(t, 2, 0)
	nl.Operations[1].IsActive.Set(true)
	nl.Operations[0].IsActive.Set(true)

	active := nl.ActiveOperations()
	if len(active) != 2 || active[0] != nl.Operations[0] || active[1] != nl.Operations[1] {
		t.Error("active operations not in sequence order")
	}

	nl.DeactivateAllOperations()
	if len(nl.ActiveOperations()) != 0 {
		t.Error("operations still active after DeactivateAllOperations")
	}
	// Idempotent
	nl.DeactivateAllOperations()
}

func TestExpirationFoldsIntoStartingValue(t *testing.T) {
	nl, err := New(Options{
		OperationCount: 1,
		InitialValue:   2,
		DisplayedRange: Range{Min: -20, Max: 20},
		AutoDeactivate: true,
		ExpireDelay:    5,
		FadeLead:       2,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	op := nl.Operations[0]
	op.Amount.Set(7)
	op.IsActive.Set(true)

	// Inside the fade window the start point dims linearly.
	nl.Step(4)
	opacity := nl.StartPoint.Opacity.Get()
	if math.Abs(opacity-0.5) > 1e-9 {
		t.Errorf("opacity 1s before expiry = %g, want 0.5", opacity)
	}

	// Past the expiry the result folds into the starting value.
	nl.Step(1.5)
	if op.IsActive.Get() {
		t.Error("operation still active past expiry")
	}
	if got := nl.StartingValue.Get(); got != 9 {
		t.Errorf("starting value after expiry = %g, want 9", got)
	}
	if got := nl.StartPoint.Opacity.Get(); got != 1.0 {
		t.Errorf("start point opacity = %g, want restored 1.0", got)
	}
	if got := nl.CurrentEndValue(); got != 9 {
		t.Errorf("end value after expiry = %g, want 9", got)
	}
}

func TestFadeOpacityFloor(t *testing.T) {
	clock := &StepClock{}
	nl, err := New(Options{
		OperationCount: 1,
		DisplayedRange: Range{Min: -20, Max: 20},
		AutoDeactivate: true,
		ExpireDelay:    10,
		FadeLead:       2,
		Clock:          clock,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	op := nl.Operations[0]
	op.Amount.Set(1)
	op.IsActive.Set(true)

	clock.Advance(9.95) // 0.05s remaining, linear fade would be 0.025
	nl.Step(0)
	if got := nl.StartPoint.Opacity.Get(); got != 0.2 {
		t.Errorf("opacity = %g, want floor 0.2", got)
	}
}

func TestManualDeactivateCancelsExpiration(t *testing.T) {
	nl, err := New(Options{
		OperationCount: 1,
		DisplayedRange: Range{Min: -20, Max: 20},
		AutoDeactivate: true,
		ExpireDelay:    5,
		FadeLead:       2,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	op := nl.Operations[0]
	op.Amount.Set(7)
	op.IsActive.Set(true)
	op.IsActive.Set(false)

	nl.Step(10)
	if got := nl.StartingValue.Get(); got != 0 {
		t.Errorf("starting value = %g, want unchanged 0", got)
	}
}

func TestReset(t *testing.T) {
	nl := newTestLine(t, 2, 3)
	nl.Operations[0].Amount.Set(4)
	nl.Operations[0].IsActive.Set(true)
	nl.Operations[1].Type.Set(Subtraction)
	nl.Operations[1].IsActive.Set(true)
	nl.StartingValue.Set(50)
	nl.StartPoint.Opacity.Set(0.4)

	nl.Reset()

	if got := nl.StartingValue.Get(); got != 3 {
		t.Errorf("starting value = %g, want 3", got)
	}
	if len(nl.ActiveOperations()) != 0 {
		t.Error("operations active after reset")
	}
	if got := len(nl.Points()); got != 1 {
		t.Errorf("points after reset = %d, want 1", got)
	}
	if got := nl.StartPoint.Opacity.Get(); got != 1.0 {
		t.Errorf("start point opacity = %g, want 1.0", got)
	}
	if got := nl.Operations[1].Type.Get(); got != Addition {
		t.Errorf("operation type after reset = %v, want Addition", got)
	}
}

func TestSharedStartingValueProperty(t *testing.T) {
	shared := NewProperty(4.0)
	nl, err := New(Options{
		OperationCount: 1,
		StartingValue:  shared,
		DisplayedRange: Range{Min: -20, Max: 20},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	op := nl.Operations[0]
	op.Amount.Set(1)
	op.IsActive.Set(true)

	shared.Set(8)
	if got := nl.CurrentEndValue(); got != 9 {
		t.Errorf("end value = %g, want 9", got)
	}
}
