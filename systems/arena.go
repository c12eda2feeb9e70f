package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
)

// Recorder receives population events. telemetry.Collector implements it.
type Recorder interface {
	RecordBirth(s components.Species)
	RecordDeath(s components.Species, cause components.DeathCause)
	RecordKillAttempt(success bool)
	RecordMigration(s components.Species)
}

type nopRecorder struct{}

func (nopRecorder) RecordBirth(components.Species)                        {}
func (nopRecorder) RecordDeath(components.Species, components.DeathCause) {}
func (nopRecorder) RecordKillAttempt(bool)                                {}
func (nopRecorder) RecordMigration(components.Species)                    {}

// Arena owns every living animal. Each animal is an ECS entity carrying
// Animal and Location components; cells refer to animals by entity handle.
// All creation and destruction goes through the arena so the census, the
// ECS world and the owning cell never disagree.
type Arena struct {
	world     *ecs.World
	mapper    *ecs.Map2[components.Animal, components.Location]
	animals   *ecs.Map[components.Animal]
	locations *ecs.Map[components.Location]
	census    [components.NumSpecies]int
	rec       Recorder
}

// NewArena creates an arena storing animals in w.
func NewArena(w *ecs.World) *Arena {
	return &Arena{
		world:     w,
		mapper:    ecs.NewMap2[components.Animal, components.Location](w),
		animals:   ecs.NewMap[components.Animal](w),
		locations: ecs.NewMap[components.Location](w),
		rec:       nopRecorder{},
	}
}

// World returns the ECS world backing the arena.
func (a *Arena) World() *ecs.World {
	return a.world
}

// SetRecorder installs the population event sink. nil disables recording.
func (a *Arena) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	a.rec = r
}

// Recorder returns the installed event sink.
func (a *Arena) Recorder() Recorder {
	return a.rec
}

// Spawn creates an animal owned by cell.
func (a *Arena) Spawn(cell *Cell, animal components.Animal) ecs.Entity {
	loc := cell.Loc
	e := a.mapper.NewEntity(&animal, &loc)
	cell.add(animal.Species, e)
	a.census[animal.Species]++
	return e
}

// Destroy removes an animal from its cell, from the world and from the
// census in one step.
func (a *Arena) Destroy(cell *Cell, e ecs.Entity, cause components.DeathCause) {
	s := a.animals.Get(e).Species
	if !cell.remove(s, e) {
		panic(fmt.Sprintf("arena: entity %v is not a resident of cell %v", e, cell.Loc))
	}
	a.world.RemoveEntity(e)
	a.census[s]--
	a.rec.RecordDeath(s, cause)
}

// Move transfers ownership of an animal between cells.
func (a *Arena) Move(from, to *Cell, e ecs.Entity) {
	s := a.animals.Get(e).Species
	if !from.remove(s, e) {
		panic(fmt.Sprintf("arena: entity %v is not a resident of cell %v", e, from.Loc))
	}
	to.add(s, e)
	*a.locations.Get(e) = to.Loc
}

// Get returns the state of a living animal. The pointer is only valid
// until the next Spawn or Destroy.
func (a *Arena) Get(e ecs.Entity) *components.Animal {
	return a.animals.Get(e)
}

// Location returns the cell coordinate of a living animal.
func (a *Arena) Location(e ecs.Entity) components.Location {
	return *a.locations.Get(e)
}

// Alive reports whether e refers to a living animal.
func (a *Arena) Alive(e ecs.Entity) bool {
	return a.world.Alive(e)
}

// Census returns the number of living animals of a species.
func (a *Arena) Census(s components.Species) int {
	return a.census[s]
}

// Total returns the number of living animals.
func (a *Arena) Total() int {
	total := 0
	for _, n := range a.census {
		total += n
	}
	return total
}
