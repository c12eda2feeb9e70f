package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/traits"
)

// DeathProbability returns the chance of natural death for an animal with
// the given fitness.
func DeathProbability(p *traits.Params, fitness float64) float64 {
	if fitness <= 0 {
		return 1
	}
	return min(1, p.Omega*(1-fitness))
}

// DeathSystem handles natural death inside a cell.
type DeathSystem struct {
	arena *Arena
	table *traits.Table
	rng   *rand.Rand
}

// NewDeathSystem creates a new death system.
func NewDeathSystem(arena *Arena, table *traits.Table, rng *rand.Rand) *DeathSystem {
	return &DeathSystem{arena: arena, table: table, rng: rng}
}

// Dies decides whether the animal e dies this year. Zero fitness is
// certain death and uses no random draw.
func (s *DeathSystem) Dies(e ecs.Entity) bool {
	a := s.arena.Get(e)
	p := s.table.For(a.Species)
	fit := Fitness(a, p)
	if fit <= 0 {
		return true
	}
	return s.rng.Float64() < DeathProbability(p, fit)
}

// Update runs the natural death phase for one cell and returns the number
// of animals removed.
func (s *DeathSystem) Update(cell *Cell) int {
	removed := 0
	for _, species := range components.AllSpecies {
		for _, e := range cell.Residents(species) {
			if s.arena.Get(e).Newborn {
				continue
			}
			if s.Dies(e) {
				s.arena.Destroy(cell, e, components.DeathNatural)
				removed++
			}
		}
	}
	return removed
}
