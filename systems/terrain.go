package systems

import (
	"fmt"
	"math"
	"sort"

	"github.com/pthm-cable/biosim/traits"
)

// Terrain is the landscape type of a cell.
type Terrain uint8

const (
	TerrainOcean    Terrain = iota // Inaccessible, no fodder
	TerrainMountain                // Inaccessible, no fodder
	TerrainDesert                  // Accessible, fodder fixed at zero
	TerrainSavanna                 // Accessible, logistic regrowth
	TerrainJungle                  // Accessible, resets to f_max every year
)

// ParseTerrain maps a map symbol to its terrain.
func ParseTerrain(symbol rune) (Terrain, bool) {
	switch symbol {
	case 'O':
		return TerrainOcean, true
	case 'M':
		return TerrainMountain, true
	case 'D':
		return TerrainDesert, true
	case 'S':
		return TerrainSavanna, true
	case 'J':
		return TerrainJungle, true
	}
	return 0, false
}

// Symbol returns the map symbol of the terrain.
func (t Terrain) Symbol() rune {
	switch t {
	case TerrainMountain:
		return 'M'
	case TerrainDesert:
		return 'D'
	case TerrainSavanna:
		return 'S'
	case TerrainJungle:
		return 'J'
	}
	return 'O'
}

func (t Terrain) String() string {
	switch t {
	case TerrainOcean:
		return "Ocean"
	case TerrainMountain:
		return "Mountain"
	case TerrainDesert:
		return "Desert"
	case TerrainSavanna:
		return "Savanna"
	case TerrainJungle:
		return "Jungle"
	}
	return fmt.Sprintf("Terrain(%d)", uint8(t))
}

// Accessible reports whether animals may live on the terrain.
func (t Terrain) Accessible() bool {
	return t == TerrainDesert || t == TerrainSavanna || t == TerrainJungle
}

// JungleParams holds jungle fodder parameters.
type JungleParams struct {
	FMax float64 `yaml:"f_max"`
}

// SavannaParams holds savanna fodder parameters.
type SavannaParams struct {
	FMax  float64 `yaml:"f_max"`
	Alpha float64 `yaml:"alpha"`
}

// LandscapeParams holds the fodder parameters of the producing terrains.
type LandscapeParams struct {
	Jungle  JungleParams  `yaml:"jungle"`
	Savanna SavannaParams `yaml:"savanna"`
}

// DefaultLandscapeParams returns the reference fodder parameters.
func DefaultLandscapeParams() *LandscapeParams {
	return &LandscapeParams{
		Jungle:  JungleParams{FMax: 800},
		Savanna: SavannaParams{FMax: 300, Alpha: 0.3},
	}
}

// FMax returns the fodder capacity of a terrain.
func (lp *LandscapeParams) FMax(t Terrain) float64 {
	switch t {
	case TerrainJungle:
		return lp.Jungle.FMax
	case TerrainSavanna:
		return lp.Savanna.FMax
	}
	return 0
}

// Regrow returns the fodder of a terrain after one year of regrowth.
func (lp *LandscapeParams) Regrow(t Terrain, fodder float64) float64 {
	switch t {
	case TerrainJungle:
		return lp.Jungle.FMax
	case TerrainSavanna:
		fmax := lp.Savanna.FMax
		fodder += lp.Savanna.Alpha * (fmax - fodder)
		return math.Max(0, math.Min(fodder, fmax))
	}
	return 0
}

// landscapeField binds a parameter name to its storage in LandscapeParams.
type landscapeField struct {
	name     string
	ref      func(lp *LandscapeParams) *float64
	maxValue float64 // 0 means unbounded above
}

func landscapeFields(t Terrain) []landscapeField {
	switch t {
	case TerrainJungle:
		return []landscapeField{
			{name: "f_max", ref: func(lp *LandscapeParams) *float64 { return &lp.Jungle.FMax }},
		}
	case TerrainSavanna:
		return []landscapeField{
			{name: "f_max", ref: func(lp *LandscapeParams) *float64 { return &lp.Savanna.FMax }},
			{name: "alpha", ref: func(lp *LandscapeParams) *float64 { return &lp.Savanna.Alpha }, maxValue: 1},
		}
	}
	return nil
}

// Set applies named values to the parameters of the terrain with the given
// symbol. Nothing is written unless every name and value is valid.
func (lp *LandscapeParams) Set(symbol string, values map[string]float64) error {
	var t Terrain
	ok := len(symbol) == 1
	if ok {
		t, ok = ParseTerrain(rune(symbol[0]))
	}
	if !ok {
		return &traits.ParamError{Owner: "landscape", Name: symbol, Err: traits.ErrUnknownParameter, Suggestion: traits.Suggest(symbol, []string{"J", "S"})}
	}

	fields := landscapeFields(t)
	known := make([]string, len(fields))
	for i, f := range fields {
		known[i] = f.name
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	next := *lp
	for _, name := range names {
		v := values[name]
		var field *landscapeField
		for i := range fields {
			if fields[i].name == name {
				field = &fields[i]
			}
		}
		if field == nil {
			return &traits.ParamError{
				Owner:      symbol,
				Name:       name,
				Value:      v,
				Err:        traits.ErrUnknownParameter,
				Suggestion: traits.Suggest(name, known),
			}
		}
		if err := checkLandscapeValue(symbol, *field, v); err != nil {
			return err
		}
		*field.ref(&next) = v
	}

	*lp = next
	return nil
}

// Validate checks every landscape parameter against its domain.
func (lp *LandscapeParams) Validate() error {
	for _, t := range []Terrain{TerrainJungle, TerrainSavanna} {
		for _, f := range landscapeFields(t) {
			if err := checkLandscapeValue(string(t.Symbol()), f, *f.ref(lp)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkLandscapeValue(owner string, f landscapeField, v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &traits.ParamError{Owner: owner, Name: f.name, Value: v, Err: traits.ErrInvalidParameter, Reason: "must be finite"}
	case v < 0:
		return &traits.ParamError{Owner: owner, Name: f.name, Value: v, Err: traits.ErrInvalidParameter, Reason: "must be non-negative"}
	case f.maxValue > 0 && v > f.maxValue:
		return &traits.ParamError{Owner: owner, Name: f.name, Value: v, Err: traits.ErrInvalidParameter, Reason: fmt.Sprintf("must not exceed %g", f.maxValue)}
	}
	return nil
}
