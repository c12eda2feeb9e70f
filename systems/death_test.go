package systems

import (
	"testing"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/traits"
)

func TestDeathProbability(t *testing.T) {
	p := traits.DefaultHerbivore()
	if got := DeathProbability(&p, 0); got != 1 {
		t.Errorf("DeathProbability(0) = %v, want 1", got)
	}
	if got := DeathProbability(&p, 1); got != 0 {
		t.Errorf("DeathProbability(1) = %v, want 0", got)
	}
	if got, want := DeathProbability(&p, 0.5), 0.2; got != want {
		t.Errorf("DeathProbability(0.5) = %v, want %v", got, want)
	}
}

func TestDies_ZeroFitnessWithoutDraw(t *testing.T) {
	arena, table := newTestArena()
	table.Herbivore.Omega = 0
	cell := newTestCell(1, 1, TerrainJungle)
	rng := newTestRNG(11)
	death := NewDeathSystem(arena, table, rng)

	e := arena.Spawn(cell, components.Animal{Species: components.Herbivore, Age: 3, Weight: 0})
	if !death.Dies(e) {
		t.Error("zero-weight animal survived")
	}
	if got, want := rng.Float64(), newTestRNG(11).Float64(); got != want {
		t.Error("certain death consumed a random draw")
	}
}

func TestDeathUpdate(t *testing.T) {
	t.Run("zero omega spares the fit", func(t *testing.T) {
		arena, table := newTestArena()
		table.Herbivore.Omega = 0
		cell := newTestCell(1, 1, TerrainJungle)
		death := NewDeathSystem(arena, table, newTestRNG(12))
		spawnN(arena, cell, 50, components.Animal{Species: components.Herbivore, Age: 5, Weight: 20})

		if removed := death.Update(cell); removed != 0 {
			t.Errorf("removed %d, want 0", removed)
		}
	})

	t.Run("huge omega kills everyone", func(t *testing.T) {
		arena, table := newTestArena()
		table.Herbivore.Omega = 1e9
		table.Carnivore.Omega = 1e9
		rec := &countingRecorder{}
		arena.SetRecorder(rec)
		cell := newTestCell(1, 1, TerrainJungle)
		death := NewDeathSystem(arena, table, newTestRNG(13))
		spawnN(arena, cell, 10, components.Animal{Species: components.Herbivore, Age: 5, Weight: 20})
		spawnN(arena, cell, 4, components.Animal{Species: components.Carnivore, Age: 5, Weight: 20})

		if removed := death.Update(cell); removed != 14 {
			t.Errorf("removed %d, want 14", removed)
		}
		if arena.Total() != 0 {
			t.Errorf("census total = %d, want 0", arena.Total())
		}
		if rec.deaths[components.Herbivore] != 10 || rec.deaths[components.Carnivore] != 4 {
			t.Errorf("recorded deaths %v, want [10 4]", rec.deaths)
		}
		checkCensus(t, arena, cell)
	})

	t.Run("newborns are spared", func(t *testing.T) {
		arena, table := newTestArena()
		cell := newTestCell(1, 1, TerrainJungle)
		death := NewDeathSystem(arena, table, newTestRNG(14))
		spawnN(arena, cell, 5, components.Animal{Species: components.Herbivore, Weight: 0, Newborn: true})

		if removed := death.Update(cell); removed != 0 {
			t.Errorf("removed %d newborns, want 0", removed)
		}
	})
}
