package island

import (
	"fmt"
	"math"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/systems"
)

// AnimalSpec describes one animal in a stocking request. A nil Weight
// means the weight is drawn from the species birth weight distribution.
type AnimalSpec struct {
	Species string   `yaml:"species"`
	Age     float64  `yaml:"age"`
	Weight  *float64 `yaml:"weight"`
}

// StockRequest places a population on one cell.
type StockRequest struct {
	Loc components.Location
	Pop []AnimalSpec
}

type stockEntry struct {
	cell    *systems.Cell
	species components.Species
	age     int
	weight  *float64
}

// Stock validates every request and then adds the animals. A single
// invalid entry rejects the whole call and nothing is added.
func (i *Island) Stock(requests []StockRequest) error {
	var entries []stockEntry
	for _, req := range requests {
		cell := i.Cell(req.Loc)
		if cell == nil {
			return &StockError{Loc: req.Loc, Index: -1, Reason: "location is outside the island"}
		}
		if !cell.Accessible() {
			return &StockError{Loc: req.Loc, Index: -1, Reason: fmt.Sprintf("%v is not habitable", cell.Terrain)}
		}
		for idx, spec := range req.Pop {
			entry, err := validateSpec(cell, spec)
			if err != nil {
				return &StockError{Loc: req.Loc, Index: idx, Reason: err.Error()}
			}
			entries = append(entries, entry)
		}
	}

	for _, e := range entries {
		var w float64
		if e.weight != nil {
			w = *e.weight
		} else {
			w = max(0, systems.BirthWeight(i.rng, i.table.For(e.species)))
		}
		i.arena.Spawn(e.cell, components.Animal{Species: e.species, Age: e.age, Weight: w})
	}

	i.logger.Debug("stocked island", "animals", len(entries), "requests", len(requests))
	return nil
}

func validateSpec(cell *systems.Cell, spec AnimalSpec) (stockEntry, error) {
	species, err := components.ParseSpecies(spec.Species)
	if err != nil {
		return stockEntry{}, err
	}
	age := spec.Age
	switch {
	case math.IsNaN(age) || math.IsInf(age, 0):
		return stockEntry{}, fmt.Errorf("age %v is not a number of years", age)
	case age < 0:
		return stockEntry{}, fmt.Errorf("age %v is negative", age)
	case age != math.Trunc(age):
		return stockEntry{}, fmt.Errorf("age %v is not a whole number", age)
	}
	if w := spec.Weight; w != nil {
		if math.IsNaN(*w) || math.IsInf(*w, 0) || *w <= 0 {
			return stockEntry{}, fmt.Errorf("weight %v must be positive", *w)
		}
	}
	return stockEntry{cell: cell, species: species, age: int(age), weight: spec.Weight}, nil
}
