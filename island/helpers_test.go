package island

import (
	"math/rand/v2"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
)

const testMap = `
	OOOOOOOOOOOOO
	OJJJJJOOOOOOO
	OJJJJJJJJJSSO
	OJJJDDDSSSSSO
	OOJJJJDDSSSMO
	OOOOOOOOOOOOO`

func newTestRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func mustNew(t *testing.T, mapText string, seed uint64, opts ...Option) *Island {
	t.Helper()
	isl, err := New(mapText, newTestRNG(seed), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return isl
}

func weight(w float64) *float64 { return &w }

func herd(species string, n, age int, w float64) []AnimalSpec {
	pop := make([]AnimalSpec, n)
	for i := range pop {
		pop[i] = AnimalSpec{Species: species, Age: float64(age), Weight: weight(w)}
	}
	return pop
}

func loc(row, col int) components.Location {
	return components.Location{Row: row, Col: col}
}

// checkInvariants fails when the census and cell lists disagree, or when a
// fitness or fodder value leaves its valid range.
func checkInvariants(t *testing.T, isl *Island, phase string) {
	t.Helper()
	for _, s := range components.AllSpecies {
		sum := 0
		for _, c := range isl.Cells() {
			sum += c.Count(s)
			if !c.Accessible() && c.Count(s) > 0 {
				t.Fatalf("%s: %d %v in inaccessible cell %v", phase, c.Count(s), s, c.Loc)
			}
		}
		if got := isl.Arena().Census(s); got != sum {
			t.Fatalf("%s: %v census %d, cells hold %d", phase, s, got, sum)
		}
		for _, f := range isl.Fitnesses(s) {
			if f < 0 || f > 1 {
				t.Fatalf("%s: %v fitness %v outside [0, 1]", phase, s, f)
			}
		}
	}
	for _, c := range isl.Cells() {
		if fmax := isl.Landscape().FMax(c.Terrain); c.Fodder < 0 || c.Fodder > fmax {
			t.Fatalf("%s: cell %v fodder %v outside [0, %v]", phase, c.Loc, c.Fodder, fmax)
		}
	}
}

// positionsOf records the location of every living animal.
func positionsOf(isl *Island) map[ecs.Entity]components.Location {
	out := make(map[ecs.Entity]components.Location, isl.NumAnimals())
	for _, c := range isl.Cells() {
		for _, s := range components.AllSpecies {
			for _, e := range c.Residents(s) {
				out[e] = c.Loc
			}
		}
	}
	return out
}
