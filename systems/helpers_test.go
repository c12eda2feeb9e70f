package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/traits"
)

func newTestRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newTestArena() (*Arena, *traits.Table) {
	return NewArena(ecs.NewWorld()), traits.DefaultTable()
}

func newTestCell(row, col int, t Terrain) *Cell {
	return NewCell(components.Location{Row: row, Col: col}, t, DefaultLandscapeParams())
}

func spawnN(arena *Arena, cell *Cell, n int, a components.Animal) []ecs.Entity {
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = arena.Spawn(cell, a)
	}
	return out
}

// checkCensus fails when the arena census disagrees with the cell lists.
func checkCensus(t *testing.T, arena *Arena, cells ...*Cell) {
	t.Helper()
	for _, s := range components.AllSpecies {
		sum := 0
		for _, c := range cells {
			sum += c.Count(s)
		}
		if got := arena.Census(s); got != sum {
			t.Errorf("%v census = %d, cells hold %d", s, got, sum)
		}
	}
}

type countingRecorder struct {
	births     [components.NumSpecies]int
	deaths     [components.NumSpecies]int
	kills      int
	attempts   int
	migrations [components.NumSpecies]int
}

func (r *countingRecorder) RecordBirth(s components.Species)                          { r.births[s]++ }
func (r *countingRecorder) RecordDeath(s components.Species, _ components.DeathCause) { r.deaths[s]++ }
func (r *countingRecorder) RecordKillAttempt(success bool) {
	r.attempts++
	if success {
		r.kills++
	}
}
func (r *countingRecorder) RecordMigration(s components.Species) { r.migrations[s]++ }
