package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/traits"
)

func TestBreedingProbability(t *testing.T) {
	p := traits.DefaultHerbivore()
	tests := []struct {
		name    string
		fitness float64
		n       int
		want    float64
	}{
		{"alone", 1, 1, 0},
		{"empty cell", 1, 0, 0},
		{"pair", 0.5, 2, 0.1},
		{"crowd saturates", 0.9, 100, 1},
		{"zero fitness", 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BreedingProbability(&p, tt.fitness, tt.n)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("BreedingProbability(%v, %d) = %v, want %v", tt.fitness, tt.n, got, tt.want)
			}
		})
	}
}

func TestBreed_Success(t *testing.T) {
	arena, table := newTestArena()
	table.Herbivore.Gamma = 10
	rec := &countingRecorder{}
	arena.SetRecorder(rec)
	cell := newTestCell(1, 1, TerrainJungle)
	breeding := NewBreedingSystem(arena, table, newTestRNG(7))

	parents := spawnN(arena, cell, 2, components.Animal{Species: components.Herbivore, Age: 5, Weight: 60})

	child, ok := breeding.Breed(cell, parents[0], 2)
	if !ok {
		t.Fatal("Breed failed with saturated probability")
	}
	c := arena.Get(child)
	if !c.Newborn || c.Age != 0 || c.Species != components.Herbivore {
		t.Errorf("newborn = %+v, want age 0 herbivore flagged newborn", *c)
	}
	if c.Weight <= 0 {
		t.Errorf("newborn weight = %v, want positive", c.Weight)
	}
	want := 60 - table.Herbivore.Xi*c.Weight
	if got := arena.Get(parents[0]).Weight; math.Abs(got-want) > 1e-9 {
		t.Errorf("parent weight = %v, want %v", got, want)
	}
	if cell.Count(components.Herbivore) != 3 || rec.births[components.Herbivore] != 1 {
		t.Errorf("cell holds %d, births %d; want 3 and 1", cell.Count(components.Herbivore), rec.births[components.Herbivore])
	}
	checkCensus(t, arena, cell)
}

func TestBreed_Refused(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		n      int
		tweak  func(*traits.Params)
	}{
		// zeta*(w_birth+sigma_birth) = 3.5*9.5 = 33.25
		{"below weight threshold", 33, 2, nil},
		{"alone in cell", 60, 1, nil},
		{"zero propensity", 60, 2, func(p *traits.Params) { p.Gamma = 0 }},
		{"newborn heavier than parent allows", 60, 2, func(p *traits.Params) { p.Xi = 1000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arena, table := newTestArena()
			table.Herbivore.Gamma = 10
			if tt.tweak != nil {
				tt.tweak(&table.Herbivore)
			}
			cell := newTestCell(1, 1, TerrainJungle)
			breeding := NewBreedingSystem(arena, table, newTestRNG(8))

			parent := arena.Spawn(cell, components.Animal{Species: components.Herbivore, Age: 5, Weight: tt.weight})
			if tt.n > 1 {
				arena.Spawn(cell, components.Animal{Species: components.Herbivore, Age: 5, Weight: tt.weight})
			}

			if _, ok := breeding.Breed(cell, parent, tt.n); ok {
				t.Fatal("Breed succeeded, want refusal")
			}
			if got := arena.Get(parent).Weight; got != tt.weight {
				t.Errorf("parent weight = %v, want unchanged %v", got, tt.weight)
			}
			want := 1
			if tt.n > 1 {
				want = 2
			}
			if got := cell.Count(components.Herbivore); got != want {
				t.Errorf("cell holds %d herbivores, want %d", got, want)
			}
		})
	}
}

func TestBreedingUpdate_SnapshotLimitsBirths(t *testing.T) {
	arena, table := newTestArena()
	table.Herbivore.Gamma = 10
	table.Carnivore.Gamma = 10
	cell := newTestCell(1, 1, TerrainJungle)
	breeding := NewBreedingSystem(arena, table, newTestRNG(9))

	spawnN(arena, cell, 4, components.Animal{Species: components.Herbivore, Age: 5, Weight: 100})
	spawnN(arena, cell, 3, components.Animal{Species: components.Carnivore, Age: 5, Weight: 100})

	breeding.Update(cell)

	// Each resident breeds at most once; newborns never breed in their birth phase.
	if got := cell.Count(components.Herbivore); got != 8 {
		t.Errorf("herbivores = %d, want 8", got)
	}
	if got := cell.Count(components.Carnivore); got != 6 {
		t.Errorf("carnivores = %d, want 6", got)
	}
	checkCensus(t, arena, cell)
}

func TestBirthWeight_Distribution(t *testing.T) {
	p := traits.DefaultHerbivore()
	rng := newTestRNG(10)
	const n = 5000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += BirthWeight(rng, &p)
	}
	if mean := sum / n; math.Abs(mean-p.WBirth) > 0.15 {
		t.Errorf("mean birth weight = %v, want about %v", mean, p.WBirth)
	}
}
