package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/traits"
)

// Desirability holds, per species, the attractiveness of every accessible
// cell. A location missing from the map is not a valid destination.
type Desirability [components.NumSpecies]map[components.Location]float64

// CellLookup resolves a coordinate to a cell, or nil when it lies outside
// the grid.
type CellLookup func(loc components.Location) *Cell

// CellDesirability scores one cell for a species from its current state.
func CellDesirability(arena *Arena, table *traits.Table, cell *Cell, s components.Species) float64 {
	p := table.For(s)
	if p.F <= 0 {
		return 0
	}
	switch s {
	case components.Herbivore:
		return cell.Fodder / (float64(cell.Count(components.Herbivore)+1) * p.F)
	case components.Carnivore:
		biomass := 0.0
		for _, e := range cell.residents[components.Herbivore] {
			biomass += arena.Get(e).Weight
		}
		return biomass / (float64(cell.Count(components.Carnivore)+1) * p.F)
	}
	return 0
}

// ComputeDesirability scores every accessible cell. It must run before any
// cell migrates so that all decisions in a year see the same state.
func ComputeDesirability(arena *Arena, table *traits.Table, cells []*Cell) Desirability {
	var ek Desirability
	for _, s := range components.AllSpecies {
		ek[s] = make(map[components.Location]float64, len(cells))
	}
	for _, cell := range cells {
		if !cell.Accessible() {
			continue
		}
		for _, s := range components.AllSpecies {
			ek[s][cell.Loc] = CellDesirability(arena, table, cell, s)
		}
	}
	return ek
}

// ChooseDestination picks a neighbor of from by cumulative sampling over
// the species desirability. It returns from itself when no accessible
// neighbor exists or all candidates score zero; only then is no random
// number drawn.
func ChooseDestination(rng *rand.Rand, from components.Location, ek map[components.Location]float64) components.Location {
	var (
		candidates [4]components.Location
		weights    [4]float64
		n          int
		total      float64
	)
	for _, nb := range from.Neighbors() {
		v, ok := ek[nb]
		if !ok {
			continue
		}
		candidates[n] = nb
		weights[n] = v
		total += v
		n++
	}
	if n == 0 || total == 0 {
		return from
	}

	r := rng.Float64()
	cum := 0.0
	for i := 0; i < n; i++ {
		cum += weights[i] / total
		if r < cum {
			return candidates[i]
		}
	}
	// Rounding can leave cum just under 1.
	for i := n - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return candidates[i]
		}
	}
	return from
}

// MigrationSystem moves animals between neighboring cells.
type MigrationSystem struct {
	arena *Arena
	table *traits.Table
	rng   *rand.Rand
}

// NewMigrationSystem creates a new migration system.
func NewMigrationSystem(arena *Arena, table *traits.Table, rng *rand.Rand) *MigrationSystem {
	return &MigrationSystem{arena: arena, table: table, rng: rng}
}

// Destination evaluates the migration decision for animal e living at from
// and marks it as evaluated. It returns from when the animal stays.
func (s *MigrationSystem) Destination(e ecs.Entity, from components.Location, ek Desirability) components.Location {
	a := s.arena.Get(e)
	p := s.table.For(a.Species)
	a.Migrated = true

	if s.rng.Float64() >= p.Mu*Fitness(a, p) {
		return from
	}
	return ChooseDestination(s.rng, from, ek[a.Species])
}

// Update runs the cell-local half of migration and returns the number of
// animals that left. Animals already evaluated this year and newborns are
// skipped. Departures take effect immediately.
func (s *MigrationSystem) Update(cell *Cell, ek Desirability, lookup CellLookup) int {
	moved := 0
	for _, species := range components.AllSpecies {
		for _, e := range cell.Residents(species) {
			a := s.arena.Get(e)
			if a.Migrated || a.Newborn {
				continue
			}
			to := s.Destination(e, cell.Loc, ek)
			if to == cell.Loc {
				continue
			}
			dest := lookup(to)
			if dest == nil || !dest.Accessible() {
				continue
			}
			s.arena.Move(cell, dest, e)
			s.arena.Recorder().RecordMigration(species)
			moved++
		}
	}
	return moved
}
