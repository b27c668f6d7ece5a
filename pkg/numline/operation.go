package numline

import "fmt"

// OperationType distinguishes addition from subtraction steps.
type OperationType int

const (
	Addition OperationType = iota
	Subtraction
)

// String returns the lowercase name used in scenario files.
func (t OperationType) String() string {
	switch t {
	case Addition:
		return "addition"
	case Subtraction:
		return "subtraction"
	}
	return fmt.Sprintf("OperationType(%d)", int(t))
}

// ParseOperationType converts a scenario-file name to an OperationType.
func ParseOperationType(s string) (OperationType, error) {
	switch s {
	case "addition", "add", "+":
		return Addition, nil
	case "subtraction", "subtract", "-":
		return Subtraction, nil
	}
	return Addition, fmt.Errorf("unknown operation type %q", s)
}

// Operation is one tracked addition or subtraction step. The amount is a
// signed value and flows through arithmetically; the type only selects the
// sign convention (subtraction subtracts the amount) and display direction.
// An addition of a negative amount is therefore a legal decrease.
//
// Operations are created once, at number line construction, and are only
// ever activated and deactivated afterwards.
type Operation struct {
	Type     *Property[OperationType]
	Amount   *Property[float64]
	IsActive *Property[bool]
}

// NewOperation creates an inactive operation with the given type and amount.
func NewOperation(opType OperationType, amount float64) *Operation {
	return &Operation{
		Type:     NewProperty(opType),
		Amount:   NewProperty(amount),
		IsActive: NewProperty(false),
	}
}

// Result applies this operation to a start value. Inactive operations still
// compute; callers decide whether an inactive operation contributes.
func (o *Operation) Result(startValue float64) float64 {
	if o.Type.Get() == Subtraction {
		return startValue - o.Amount.Get()
	}
	return startValue + o.Amount.Get()
}

// SignedDelta returns the effective change this operation applies:
// the amount for addition, its negation for subtraction.
func (o *Operation) SignedDelta() float64 {
	if o.Type.Get() == Subtraction {
		return -o.Amount.Get()
	}
	return o.Amount.Get()
}

// String describes the operation for CLI output and labels.
func (o *Operation) String() string {
	sym := "+"
	if o.Type.Get() == Subtraction {
		sym = "-"
	}
	state := "inactive"
	if o.IsActive.Get() {
		state = "active"
	}
	return fmt.Sprintf("%s %g (%s)", sym, o.Amount.Get(), state)
}
