package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/biosim/components"
)

func TestAgeAndMetabolize(t *testing.T) {
	arena, table := newTestArena()
	cell := newTestCell(1, 1, TerrainJungle)
	h := arena.Spawn(cell, components.Animal{Species: components.Herbivore, Age: 3, Weight: 20})
	c := arena.Spawn(cell, components.Animal{Species: components.Carnivore, Age: 0, Weight: 8, Newborn: true})

	lc := NewLifecycleSystem(arena, table)
	lc.AgeAndMetabolize()

	tests := []struct {
		name   string
		got    *components.Animal
		age    int
		weight float64
	}{
		{"herbivore", arena.Get(h), 4, 20 * (1 - table.Herbivore.Eta)},
		{"newborn carnivore", arena.Get(c), 1, 8 * (1 - table.Carnivore.Eta)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Age != tt.age {
				t.Errorf("age = %d, want %d", tt.got.Age, tt.age)
			}
			if math.Abs(tt.got.Weight-tt.weight) > 1e-9 {
				t.Errorf("weight = %v, want %v", tt.got.Weight, tt.weight)
			}
		})
	}
}

func TestEndYearClearsFlags(t *testing.T) {
	arena, table := newTestArena()
	cell := newTestCell(1, 1, TerrainJungle)
	e := arena.Spawn(cell, components.Animal{Species: components.Carnivore, Weight: 8, Newborn: true, Migrated: true, Eaten: 12})

	lc := NewLifecycleSystem(arena, table)
	lc.EndYear()

	a := arena.Get(e)
	if a.Newborn || a.Migrated || a.Eaten != 0 {
		t.Errorf("flags not cleared: %+v", *a)
	}
}

func TestResetMigration(t *testing.T) {
	arena, table := newTestArena()
	cell := newTestCell(1, 1, TerrainJungle)
	herd := spawnN(arena, cell, 3, components.Animal{Species: components.Herbivore, Weight: 8, Migrated: true, Newborn: true})

	NewLifecycleSystem(arena, table).ResetMigration()

	for _, e := range herd {
		a := arena.Get(e)
		if a.Migrated {
			t.Error("migration flag survived reset")
		}
		if !a.Newborn {
			t.Error("reset cleared the newborn flag")
		}
	}
}
