package numline

import (
	"path/filepath"
	"testing"
)

func TestScenarioRoundTrip(t *testing.T) {
	s := &Scenario{
		Name:          "two ops",
		StartingValue: 10,
		RangeMin:      -20,
		RangeMax:      20,
		Operations: []ScenarioOperation{
			{Type: "addition", Amount: 3, Active: true},
			{Type: "subtraction", Amount: 7, Active: true},
		},
	}

	path := filepath.Join(t.TempDir(), "scenario.json")
	if err := SaveScenario(s, path); err != nil {
		t.Fatalf("SaveScenario failed: %v", err)
	}

	loaded, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}
	if loaded.StartingValue != 10 || len(loaded.Operations) != 2 {
		t.Errorf("loaded scenario does not match saved one: %+v", loaded)
	}

	nl, err := loaded.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := nl.CurrentEndValue(); got != 6 {
		t.Errorf("end value = %g, want 6", got)
	}
}

func TestScenarioValidate(t *testing.T) {
	bad := []Scenario{
		{RangeMin: -5, RangeMax: 5}, // no operations
		{RangeMin: 5, RangeMax: -5, Operations: []ScenarioOperation{{Type: "addition"}}},
		{RangeMin: -5, RangeMax: 5, Operations: []ScenarioOperation{{Type: "modulo"}}},
		{RangeMin: -5, RangeMax: 5, Operations: []ScenarioOperation{
			{Type: "addition"}, {Type: "addition"}, {Type: "addition"},
		}},
	}
	for i, s := range bad {
		if err := s.Validate(); err == nil {
			t.Errorf("scenario %d: expected validation error", i)
		}
	}
}
