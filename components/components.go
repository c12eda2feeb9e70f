// Package components defines ECS components for the simulation.
package components

import "fmt"

// Species identifies which parameter table an animal uses.
type Species uint8

const (
	Herbivore Species = iota // Grazes fodder
	Carnivore                // Preys on herbivores
)

// NumSpecies is the number of species in the model.
const NumSpecies = 2

// AllSpecies lists every species in census order.
var AllSpecies = [NumSpecies]Species{Herbivore, Carnivore}

// String returns the name used in population requests and output.
func (s Species) String() string {
	switch s {
	case Herbivore:
		return "Herbivore"
	case Carnivore:
		return "Carnivore"
	}
	return fmt.Sprintf("Species(%d)", uint8(s))
}

// ParseSpecies maps a population-request name to a Species.
func ParseSpecies(name string) (Species, error) {
	switch name {
	case "Herbivore":
		return Herbivore, nil
	case "Carnivore":
		return Carnivore, nil
	}
	return 0, fmt.Errorf("unknown species %q", name)
}

// Animal holds per-individual state.
// Fitness is derived from Age and Weight and is never stored.
type Animal struct {
	Species Species
	Age     int
	Weight  float64

	// Per-year transient state, cleared at the end of every annual cycle.
	Eaten    float64 // Food consumed during the current feeding phase (carnivores)
	Migrated bool    // Migration already evaluated this year
	Newborn  bool    // Born this year; skipped by migration and natural death
}

// DeathCause records why an animal was removed.
type DeathCause uint8

const (
	DeathNatural   DeathCause = iota // Natural death phase
	DeathPredation                   // Killed by a carnivore
)

func (c DeathCause) String() string {
	if c == DeathPredation {
		return "predation"
	}
	return "natural"
}
