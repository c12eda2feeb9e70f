package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/traits"
)

// BirthWeight draws a weight from the species' birth weight distribution.
// The result may be zero or negative; callers decide how to treat it.
func BirthWeight(rng *rand.Rand, p *traits.Params) float64 {
	dist := distuv.Normal{Mu: p.WBirth, Sigma: p.SigmaBirth, Src: rng}
	return dist.Rand()
}

// BreedingProbability returns the chance that an animal with the given
// fitness breeds in a cell holding n animals of its species.
func BreedingProbability(p *traits.Params, fitness float64, n int) float64 {
	if n < 2 {
		return 0
	}
	return min(1, p.Gamma*fitness*float64(n-1))
}

// BreedingSystem handles reproduction inside a cell.
type BreedingSystem struct {
	arena *Arena
	table *traits.Table
	rng   *rand.Rand
}

// NewBreedingSystem creates a new breeding system.
func NewBreedingSystem(arena *Arena, table *traits.Table, rng *rand.Rand) *BreedingSystem {
	return &BreedingSystem{arena: arena, table: table, rng: rng}
}

// Breed gives the animal e one chance to reproduce, where n is the number
// of animals of its species in the cell before the breeding phase. It
// returns the newborn on success.
func (s *BreedingSystem) Breed(cell *Cell, e ecs.Entity, n int) (ecs.Entity, bool) {
	parent := s.arena.Get(e)
	species := parent.Species
	p := s.table.For(species)

	if parent.Weight < p.Zeta*(p.WBirth+p.SigmaBirth) {
		return ecs.Entity{}, false
	}
	prob := BreedingProbability(p, Fitness(parent, p), n)
	if prob <= 0 || s.rng.Float64() >= prob {
		return ecs.Entity{}, false
	}

	w := BirthWeight(s.rng, p)
	if w <= 0 || p.Xi*w > parent.Weight {
		return ecs.Entity{}, false
	}
	parent.Weight -= p.Xi * w

	child := s.arena.Spawn(cell, components.Animal{
		Species: species,
		Weight:  w,
		Newborn: true,
	})
	s.arena.Recorder().RecordBirth(species)
	return child, true
}

// Update runs the breeding phase for one cell. Only animals present when
// the phase starts may breed, and each sees the pre-phase head count.
func (s *BreedingSystem) Update(cell *Cell) {
	var residents [components.NumSpecies][]ecs.Entity
	for _, species := range components.AllSpecies {
		residents[species] = cell.Residents(species)
	}
	for _, species := range components.AllSpecies {
		n := len(residents[species])
		for _, e := range residents[species] {
			s.Breed(cell, e, n)
		}
	}
}
