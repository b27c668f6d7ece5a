package numline

import (
	"encoding/json"
	"fmt"
	"os"
)

// ScenarioOperation is one operation slot in a scenario file.
type ScenarioOperation struct {
	Type   string  `json:"type"` // "addition" or "subtraction"
	Amount float64 `json:"amount"`
	Active bool    `json:"active"`
}

// Scenario is the on-disk description of a number line setup.
type Scenario struct {
	Name           string              `json:"name,omitempty"`
	StartingValue  float64             `json:"starting_value"`
	RangeMin       float64             `json:"range_min"`
	RangeMax       float64             `json:"range_max"`
	Operations     []ScenarioOperation `json:"operations"`
	AutoDeactivate bool                `json:"auto_deactivate,omitempty"`
}

// LoadScenario reads a scenario JSON file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// SaveScenario writes a scenario as indented JSON.
func SaveScenario(s *Scenario, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate checks that the scenario is well-formed.
func (s *Scenario) Validate() error {
	if len(s.Operations) < 1 || len(s.Operations) > 2 {
		return fmt.Errorf("scenario must have 1 or 2 operations, has %d", len(s.Operations))
	}
	if s.RangeMin >= s.RangeMax {
		return fmt.Errorf("range [%g, %g] is empty", s.RangeMin, s.RangeMax)
	}
	for i, op := range s.Operations {
		if _, err := ParseOperationType(op.Type); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

// Build constructs a number line matching the scenario.
func (s *Scenario) Build() (*NumberLine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	nl, err := New(Options{
		OperationCount: len(s.Operations),
		InitialValue:   s.StartingValue,
		DisplayedRange: Range{Min: s.RangeMin, Max: s.RangeMax},
		AutoDeactivate: s.AutoDeactivate,
	})
	if err != nil {
		return nil, err
	}
	for i, so := range s.Operations {
		opType, _ := ParseOperationType(so.Type)
		op := nl.Operations[i]
		op.Type.Set(opType)
		op.Amount.Set(so.Amount)
		op.IsActive.Set(so.Active)
	}
	return nl, nil
}
