package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/traits"
)

// LifecycleSystem applies the grid-wide per-animal updates that do not
// depend on the owning cell.
type LifecycleSystem struct {
	table   *traits.Table
	animals *ecs.Filter1[components.Animal]
}

// NewLifecycleSystem creates a lifecycle system over every animal in the
// arena's world.
func NewLifecycleSystem(arena *Arena, table *traits.Table) *LifecycleSystem {
	return &LifecycleSystem{
		table:   table,
		animals: ecs.NewFilter1[components.Animal](arena.World()),
	}
}

// ResetMigration clears the per-year migration flag on every animal.
func (s *LifecycleSystem) ResetMigration() {
	query := s.animals.Query()
	for query.Next() {
		query.Get().Migrated = false
	}
}

// AgeAndMetabolize ages every animal by one year and applies metabolic
// weight loss.
func (s *LifecycleSystem) AgeAndMetabolize() {
	query := s.animals.Query()
	for query.Next() {
		a := query.Get()
		eta := s.table.For(a.Species).Eta
		a.Age++
		a.Weight -= eta * a.Weight
	}
}

// EndYear clears the flags that only last for one annual cycle.
func (s *LifecycleSystem) EndYear() {
	query := s.animals.Query()
	for query.Next() {
		a := query.Get()
		a.Newborn = false
		a.Migrated = false
		a.Eaten = 0
	}
}
