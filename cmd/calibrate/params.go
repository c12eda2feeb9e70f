package main

import (
	"fmt"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/traits"
)

// ParamSpec defines a single calibrated species parameter.
type ParamSpec struct {
	Species components.Species
	Param   string  // Parameter name accepted by traits.Params.Set
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Reference value
}

// Name returns the column name used in logs.
func (s ParamSpec) Name() string {
	if s.Species == components.Carnivore {
		return "carn_" + s.Param
	}
	return "herb_" + s.Param
}

// ParamVector holds the set of all calibrated parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of calibrated parameters.
func NewParamVector() *ParamVector {
	h, c := components.Herbivore, components.Carnivore
	return &ParamVector{
		Specs: []ParamSpec{
			// Herbivore
			{Species: h, Param: "gamma", Min: 0.05, Max: 0.6, Default: 0.2},
			{Species: h, Param: "mu", Min: 0.0, Max: 0.6, Default: 0.25},
			{Species: h, Param: "omega", Min: 0.1, Max: 0.8, Default: 0.4},
			{Species: h, Param: "eta", Min: 0.02, Max: 0.15, Default: 0.05},
			{Species: h, Param: "F", Min: 5, Max: 20, Default: 10},
			// Carnivore
			{Species: c, Param: "gamma", Min: 0.2, Max: 1.0, Default: 0.8},
			{Species: c, Param: "mu", Min: 0.1, Max: 0.8, Default: 0.4},
			{Species: c, Param: "omega", Min: 0.3, Max: 1.0, Default: 0.9},
			{Species: c, Param: "eta", Min: 0.05, Max: 0.25, Default: 0.125},
			{Species: c, Param: "F", Min: 10, Max: 80, Default: 50},
			{Species: c, Param: "DeltaPhiMax", Min: 2, Max: 20, Default: 10},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToTable writes clamped values into a species table through the
// validated setter, one call per species.
func (pv *ParamVector) ApplyToTable(t *traits.Table, values []float64) error {
	clamped := pv.Clamp(values)

	updates := make(map[components.Species]map[string]float64, components.NumSpecies)
	for i, spec := range pv.Specs {
		if updates[spec.Species] == nil {
			updates[spec.Species] = make(map[string]float64)
		}
		updates[spec.Species][spec.Param] = clamped[i]
	}

	for _, s := range components.AllSpecies {
		if len(updates[s]) == 0 {
			continue
		}
		if err := t.Set(s, updates[s]); err != nil {
			return fmt.Errorf("applying %s parameters: %w", s, err)
		}
	}
	return nil
}
