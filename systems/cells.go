package systems

import (
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
)

// Cell is one grid square. It owns the animals physically present in it;
// the animals' state lives in the Arena and the cell keeps their handles.
type Cell struct {
	Loc     components.Location
	Terrain Terrain
	Fodder  float64

	residents [components.NumSpecies][]ecs.Entity
}

// NewCell creates a cell with fodder at the terrain's capacity.
func NewCell(loc components.Location, t Terrain, lp *LandscapeParams) *Cell {
	return &Cell{
		Loc:     loc,
		Terrain: t,
		Fodder:  lp.FMax(t),
	}
}

// Accessible reports whether animals may live in the cell.
func (c *Cell) Accessible() bool {
	return c.Terrain.Accessible()
}

// Count returns the number of residents of a species.
func (c *Cell) Count(s components.Species) int {
	return len(c.residents[s])
}

// Residents returns a snapshot of the residents of a species. Later
// changes to the cell do not affect the returned slice.
func (c *Cell) Residents(s components.Species) []ecs.Entity {
	return slices.Clone(c.residents[s])
}

// RegrowFodder applies one year of fodder regrowth.
func (c *Cell) RegrowFodder(lp *LandscapeParams) {
	c.Fodder = lp.Regrow(c.Terrain, c.Fodder)
}

// Grant hands out up to requested fodder and returns the amount granted.
func (c *Cell) Grant(requested float64) float64 {
	if requested <= 0 || c.Fodder <= 0 {
		return 0
	}
	granted := min(requested, c.Fodder)
	c.Fodder -= granted
	return granted
}

func (c *Cell) add(s components.Species, e ecs.Entity) {
	c.residents[s] = append(c.residents[s], e)
}

// remove deletes e keeping the order of the remaining residents.
func (c *Cell) remove(s components.Species, e ecs.Entity) bool {
	i := slices.Index(c.residents[s], e)
	if i < 0 {
		return false
	}
	c.residents[s] = slices.Delete(c.residents[s], i, i+1)
	return true
}
