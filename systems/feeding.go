package systems

import (
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/traits"
)

// FeedingSystem handles grazing and predation inside a cell.
type FeedingSystem struct {
	arena *Arena
	table *traits.Table
	rng   *rand.Rand
}

// NewFeedingSystem creates a new feeding system.
func NewFeedingSystem(arena *Arena, table *traits.Table, rng *rand.Rand) *FeedingSystem {
	return &FeedingSystem{arena: arena, table: table, rng: rng}
}

// Graze lets a herbivore request its appetite cap from the cell and returns
// the fodder actually granted.
func (s *FeedingSystem) Graze(cell *Cell, e ecs.Entity) float64 {
	p := &s.table.Herbivore
	granted := cell.Grant(p.F)
	s.arena.Get(e).Weight += granted * p.Beta
	return granted
}

// KillProbability returns the chance that a predator with fitness predFit
// kills prey with fitness preyFit. A non-positive deltaPhiMax saturates it.
func KillProbability(predFit, preyFit, deltaPhiMax float64) float64 {
	if predFit < preyFit {
		return 0
	}
	if deltaPhiMax <= 0 {
		return 1
	}
	return min(1, (predFit-preyFit)/deltaPhiMax)
}

// AttemptKill makes one predation attempt of predator on prey. On success
// the predator eats the prey, which is destroyed before returning.
func (s *FeedingSystem) AttemptKill(cell *Cell, predator, prey ecs.Entity) bool {
	p := &s.table.Carnivore
	pred := s.arena.Get(predator)
	target := s.arena.Get(prey)

	predFit := Fitness(pred, p)
	preyFit := Fitness(target, &s.table.Herbivore)
	if predFit < preyFit || pred.Eaten >= p.F {
		return false
	}

	success := s.rng.Float64() < KillProbability(predFit, preyFit, p.DeltaPhiMax)
	s.arena.Recorder().RecordKillAttempt(success)
	if !success {
		return false
	}

	meal := target.Weight
	pred.Eaten += meal
	pred.Weight += meal * p.Beta
	s.arena.Destroy(cell, prey, components.DeathPredation)
	return true
}

// FeedGrazers lets herbivores graze, fittest first, until the cell's fodder
// runs out.
func (s *FeedingSystem) FeedGrazers(cell *Cell) {
	for _, e := range s.byFitness(cell, components.Herbivore, true) {
		if cell.Fodder <= 0 {
			return
		}
		s.Graze(cell, e)
	}
}

// FeedPredators lets carnivores hunt, fittest first. Each predator tries the
// weakest remaining prey first until its appetite is met or prey runs out.
// Per-year consumption is reset once every predator in the cell has fed.
func (s *FeedingSystem) FeedPredators(cell *Cell) {
	predators := s.byFitness(cell, components.Carnivore, true)
	if len(predators) == 0 {
		return
	}
	prey := s.byFitness(cell, components.Herbivore, false)
	appetite := s.table.Carnivore.F

	for _, pred := range predators {
		for i := 0; i < len(prey); {
			if s.arena.Get(pred).Eaten >= appetite {
				break
			}
			if s.AttemptKill(cell, pred, prey[i]) {
				prey = slices.Delete(prey, i, i+1)
				continue
			}
			i++
		}
	}

	for _, pred := range predators {
		s.arena.Get(pred).Eaten = 0
	}
}

// byFitness returns the residents of a species sorted by fitness. Ties keep
// their order in the cell.
func (s *FeedingSystem) byFitness(cell *Cell, species components.Species, descending bool) []ecs.Entity {
	return sortByFitness(s.arena, s.table.For(species), cell.Residents(species), descending)
}

func sortByFitness(arena *Arena, p *traits.Params, entities []ecs.Entity, descending bool) []ecs.Entity {
	fit := make(map[ecs.Entity]float64, len(entities))
	for _, e := range entities {
		fit[e] = Fitness(arena.Get(e), p)
	}
	sort.SliceStable(entities, func(i, j int) bool {
		if descending {
			return fit[entities[i]] > fit[entities[j]]
		}
		return fit[entities[i]] < fit[entities[j]]
	})
	return entities
}
