// Package traits defines the species parameter tables that drive animal behavior.
package traits

import (
	"fmt"
	"math"
	"sort"

	"github.com/pthm-cable/biosim/components"
)

// Params is the parameter table for one species.
// YAML keys match the names accepted by Set.
type Params struct {
	WBirth     float64 `yaml:"w_birth"`     // Mean birth weight
	SigmaBirth float64 `yaml:"sigma_birth"` // Birth weight standard deviation
	Beta       float64 `yaml:"beta"`        // Fraction of eaten food converted to weight
	Eta        float64 `yaml:"eta"`         // Annual metabolic weight loss fraction
	AHalf      float64 `yaml:"a_half"`      // Age fitness midpoint
	PhiAge     float64 `yaml:"phi_age"`     // Age fitness steepness
	WHalf      float64 `yaml:"w_half"`      // Weight fitness midpoint
	PhiWeight  float64 `yaml:"phi_weight"`  // Weight fitness steepness
	Mu         float64 `yaml:"mu"`          // Migration propensity
	Lambda     float64 `yaml:"lambda"`      // Kept for configuration compatibility
	Gamma      float64 `yaml:"gamma"`       // Breeding propensity
	Zeta       float64 `yaml:"zeta"`        // Breeding weight threshold factor
	Xi         float64 `yaml:"xi"`          // Parent weight loss per newborn weight
	Omega      float64 `yaml:"omega"`       // Natural death baseline
	F          float64 `yaml:"F"`           // Appetite cap per year

	// Kill probability saturation, carnivores only.
	DeltaPhiMax float64 `yaml:"DeltaPhiMax,omitempty"`
}

// Table holds the parameter tables of every species.
type Table struct {
	Herbivore Params `yaml:"herbivore"`
	Carnivore Params `yaml:"carnivore"`
}

// DefaultHerbivore returns the reference herbivore parameters.
func DefaultHerbivore() Params {
	return Params{
		WBirth:     8.0,
		SigmaBirth: 1.5,
		Beta:       0.9,
		Eta:        0.05,
		AHalf:      40.0,
		PhiAge:     0.2,
		WHalf:      10.0,
		PhiWeight:  0.1,
		Mu:         0.25,
		Lambda:     1.0,
		Gamma:      0.2,
		Zeta:       3.5,
		Xi:         1.2,
		Omega:      0.4,
		F:          10.0,
	}
}

// DefaultCarnivore returns the reference carnivore parameters.
func DefaultCarnivore() Params {
	return Params{
		WBirth:      6.0,
		SigmaBirth:  1.0,
		Beta:        0.75,
		Eta:         0.125,
		AHalf:       60.0,
		PhiAge:      0.4,
		WHalf:       4.0,
		PhiWeight:   0.4,
		Mu:          0.4,
		Lambda:      1.0,
		Gamma:       0.8,
		Zeta:        3.5,
		Xi:          1.1,
		Omega:       0.9,
		F:           50.0,
		DeltaPhiMax: 10.0,
	}
}

// DefaultTable returns a table with reference parameters for both species.
func DefaultTable() *Table {
	return &Table{
		Herbivore: DefaultHerbivore(),
		Carnivore: DefaultCarnivore(),
	}
}

// For returns the live parameter table of a species.
func (t *Table) For(s components.Species) *Params {
	if s == components.Carnivore {
		return &t.Carnivore
	}
	return &t.Herbivore
}

// Set applies a set of named values to the species table. Every name and
// value is checked before anything is written, so a rejected call leaves
// the table untouched.
func (t *Table) Set(s components.Species, values map[string]float64) error {
	return t.For(s).Set(s, values)
}

// Validate checks both species tables.
func (t *Table) Validate() error {
	if err := t.Herbivore.Validate(components.Herbivore); err != nil {
		return err
	}
	return t.Carnivore.Validate(components.Carnivore)
}

// paramField binds a parameter name to its storage and domain.
type paramField struct {
	name          string
	ref           func(p *Params) *float64
	maxValue      float64 // 0 means unbounded above
	carnivoreOnly bool
}

var paramFields = []paramField{
	{name: "w_birth", ref: func(p *Params) *float64 { return &p.WBirth }},
	{name: "sigma_birth", ref: func(p *Params) *float64 { return &p.SigmaBirth }},
	{name: "beta", ref: func(p *Params) *float64 { return &p.Beta }},
	{name: "eta", ref: func(p *Params) *float64 { return &p.Eta }, maxValue: 1},
	{name: "a_half", ref: func(p *Params) *float64 { return &p.AHalf }},
	{name: "phi_age", ref: func(p *Params) *float64 { return &p.PhiAge }},
	{name: "w_half", ref: func(p *Params) *float64 { return &p.WHalf }},
	{name: "phi_weight", ref: func(p *Params) *float64 { return &p.PhiWeight }},
	{name: "mu", ref: func(p *Params) *float64 { return &p.Mu }},
	{name: "lambda", ref: func(p *Params) *float64 { return &p.Lambda }},
	{name: "gamma", ref: func(p *Params) *float64 { return &p.Gamma }},
	{name: "zeta", ref: func(p *Params) *float64 { return &p.Zeta }},
	{name: "xi", ref: func(p *Params) *float64 { return &p.Xi }},
	{name: "omega", ref: func(p *Params) *float64 { return &p.Omega }},
	{name: "F", ref: func(p *Params) *float64 { return &p.F }},
	{name: "DeltaPhiMax", ref: func(p *Params) *float64 { return &p.DeltaPhiMax }, carnivoreOnly: true},
}

// Names returns the parameter names accepted for a species.
func Names(s components.Species) []string {
	names := make([]string, 0, len(paramFields))
	for _, f := range paramFields {
		if f.carnivoreOnly && s != components.Carnivore {
			continue
		}
		names = append(names, f.name)
	}
	return names
}

func lookupField(s components.Species, name string) (paramField, bool) {
	for _, f := range paramFields {
		if f.name != name {
			continue
		}
		if f.carnivoreOnly && s != components.Carnivore {
			return paramField{}, false
		}
		return f, true
	}
	return paramField{}, false
}

// Get returns a parameter by name.
func (p *Params) Get(s components.Species, name string) (float64, bool) {
	f, ok := lookupField(s, name)
	if !ok {
		return 0, false
	}
	return *f.ref(p), true
}

// Set applies named values to p for species s. Nothing is written unless
// every name is known and every value lies in its domain.
func (p *Params) Set(s components.Species, values map[string]float64) error {
	owner := s.String()

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	next := *p
	for _, name := range names {
		f, ok := lookupField(s, name)
		if !ok {
			return &ParamError{
				Owner:      owner,
				Name:       name,
				Value:      values[name],
				Err:        ErrUnknownParameter,
				Suggestion: Suggest(name, Names(s)),
			}
		}
		if err := checkValue(owner, f, values[name]); err != nil {
			return err
		}
		*f.ref(&next) = values[name]
	}

	*p = next
	return nil
}

// Validate checks every field of p against its domain.
func (p *Params) Validate(s components.Species) error {
	for _, f := range paramFields {
		if f.carnivoreOnly && s != components.Carnivore {
			continue
		}
		if err := checkValue(s.String(), f, *f.ref(p)); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(owner string, f paramField, v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &ParamError{Owner: owner, Name: f.name, Value: v, Err: ErrInvalidParameter, Reason: "must be finite"}
	case v < 0:
		return &ParamError{Owner: owner, Name: f.name, Value: v, Err: ErrInvalidParameter, Reason: "must be non-negative"}
	case f.maxValue > 0 && v > f.maxValue:
		return &ParamError{Owner: owner, Name: f.name, Value: v, Err: ErrInvalidParameter, Reason: fmt.Sprintf("must not exceed %g", f.maxValue)}
	}
	return nil
}
