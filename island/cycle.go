package island

import (
	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/systems"
)

// AnnualCycle advances the island by one year. The phase order is fixed:
// regrowth, grazing then predation, breeding, migration, ageing and weight
// loss, natural death.
func (i *Island) AnnualCycle() {
	if i.perf != nil {
		i.perf.StartCycle()
		defer i.perf.EndCycle()
	}

	i.startPhase(systems.PhaseRegrow)
	i.RegrowFodder()

	i.startPhase(systems.PhaseFeedGrazers)
	i.FeedGrazers()
	i.startPhase(systems.PhaseFeedPredator)
	i.FeedPredators()

	i.startPhase(systems.PhaseBreeding)
	i.Breed()

	i.startPhase(systems.PhaseDesirability)
	ek := i.Desirability()
	i.startPhase(systems.PhaseMigration)
	i.Migrate(ek)

	i.startPhase(systems.PhaseAging)
	i.AgeAndMetabolize()

	i.startPhase(systems.PhaseDeath)
	i.NaturalDeath()

	i.lifecycle.EndYear()
	i.year++

	i.logger.Debug("annual cycle",
		"year", i.year,
		"herbivores", i.arena.Census(components.Herbivore),
		"carnivores", i.arena.Census(components.Carnivore),
	)
}

func (i *Island) startPhase(id string) {
	if i.perf != nil {
		i.perf.StartPhase(id)
	}
}

// RegrowFodder regrows fodder in every habitable cell.
func (i *Island) RegrowFodder() {
	for _, c := range i.accessible {
		c.RegrowFodder(i.landscape)
	}
}

// FeedGrazers lets herbivores graze in every cell.
func (i *Island) FeedGrazers() {
	for _, c := range i.accessible {
		i.feeding.FeedGrazers(c)
	}
}

// FeedPredators lets carnivores hunt in every cell.
func (i *Island) FeedPredators() {
	for _, c := range i.accessible {
		i.feeding.FeedPredators(c)
	}
}

// Breed runs the breeding phase in every cell.
func (i *Island) Breed() {
	for _, c := range i.accessible {
		i.breeding.Update(c)
	}
}

// Desirability scores every habitable cell from the current state.
func (i *Island) Desirability() systems.Desirability {
	return systems.ComputeDesirability(i.arena, i.table, i.accessible)
}

// Migrate runs migration in every cell using ek, then clears the
// per-year migration flags.
func (i *Island) Migrate(ek systems.Desirability) {
	moved := 0
	for _, c := range i.accessible {
		moved += i.migration.Update(c, ek, i.Cell)
	}
	i.lifecycle.ResetMigration()
	i.logger.Debug("migration", "year", i.year+1, "moved", moved)
}

// AgeAndMetabolize ages every animal and applies metabolic weight loss.
func (i *Island) AgeAndMetabolize() {
	i.lifecycle.AgeAndMetabolize()
}

// NaturalDeath runs the natural death phase in every cell.
func (i *Island) NaturalDeath() {
	for _, c := range i.accessible {
		i.death.Update(c)
	}
}
