package sim

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/island"
)

//go:embed default_population.yaml
var defaultPopulationYAML []byte

type populationEntry struct {
	Loc []int               `yaml:"loc"`
	Pop []island.AnimalSpec `yaml:"pop"`
}

// ParsePopulation decodes a YAML stocking list. Each entry places animals
// in one cell, for example
//
//	loc: [2, 3]
//	pop: [{species: Herbivore, age: 5, weight: 20}, {species: Carnivore, age: 1}]
//
// A missing weight is drawn from the species birth weight distribution.
func ParsePopulation(data []byte) ([]island.StockRequest, error) {
	var entries []populationEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing population: %w", err)
	}

	requests := make([]island.StockRequest, len(entries))
	for i, e := range entries {
		if len(e.Loc) != 2 {
			return nil, fmt.Errorf("population entry %d: loc must be [row, col], got %v: %w", i, e.Loc, island.ErrInvalidStock)
		}
		requests[i] = island.StockRequest{
			Loc: components.Location{Row: e.Loc[0], Col: e.Loc[1]},
			Pop: e.Pop,
		}
	}
	return requests, nil
}

// LoadPopulation reads a stocking list from a YAML file.
func LoadPopulation(path string) ([]island.StockRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading population file: %w", err)
	}
	return ParsePopulation(data)
}

// DefaultPopulation returns the stocking list used when none is configured:
// 100 newborn herbivores in the north-east and 20 carnivores in the south.
func DefaultPopulation() []island.StockRequest {
	reqs, err := ParsePopulation(defaultPopulationYAML)
	if err != nil {
		panic(fmt.Sprintf("sim: embedded default population: %v", err))
	}
	return reqs
}
