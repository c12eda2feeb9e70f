// Package island holds the island grid and runs the annual cycle.
package island

import (
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/systems"
	"github.com/pthm-cable/biosim/telemetry"
	"github.com/pthm-cable/biosim/traits"
)

// Island is a rectangular grid of cells together with the animals living
// on it. Cells are stored and visited row-major.
type Island struct {
	rows, cols int
	cells      []*systems.Cell
	accessible []*systems.Cell

	arena     *systems.Arena
	table     *traits.Table
	landscape *systems.LandscapeParams
	rng       *rand.Rand

	feeding   *systems.FeedingSystem
	breeding  *systems.BreedingSystem
	death     *systems.DeathSystem
	migration *systems.MigrationSystem
	lifecycle *systems.LifecycleSystem

	perf   *telemetry.PerfCollector
	logger *slog.Logger

	year int
}

// Option configures an Island.
type Option func(*Island)

// WithTable sets the species parameter table. The island keeps the pointer,
// so later changes to the table take effect at the next phase that reads it.
func WithTable(t *traits.Table) Option {
	return func(i *Island) { i.table = t }
}

// WithLandscape sets the terrain fodder parameters.
func WithLandscape(lp *systems.LandscapeParams) Option {
	return func(i *Island) { i.landscape = lp }
}

// WithRecorder installs a population event sink.
func WithRecorder(r systems.Recorder) Option {
	return func(i *Island) { i.arena.SetRecorder(r) }
}

// WithPerf enables phase timing.
func WithPerf(p *telemetry.PerfCollector) Option {
	return func(i *Island) { i.perf = p }
}

// WithLogger sets the logger used for per-cycle debug output.
func WithLogger(l *slog.Logger) Option {
	return func(i *Island) { i.logger = l }
}

// New builds an island from map text. All randomness is drawn from rng.
// Nothing is built if the map is invalid.
func New(mapText string, rng *rand.Rand, opts ...Option) (*Island, error) {
	grid, err := ParseMap(mapText)
	if err != nil {
		return nil, err
	}

	i := &Island{
		rows:      len(grid),
		cols:      len(grid[0]),
		arena:     systems.NewArena(ecs.NewWorld()),
		table:     traits.DefaultTable(),
		landscape: systems.DefaultLandscapeParams(),
		rng:       rng,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}

	i.cells = make([]*systems.Cell, 0, i.rows*i.cols)
	for r, row := range grid {
		for c, t := range row {
			cell := systems.NewCell(components.Location{Row: r, Col: c}, t, i.landscape)
			i.cells = append(i.cells, cell)
			if cell.Accessible() {
				i.accessible = append(i.accessible, cell)
			}
		}
	}

	i.feeding = systems.NewFeedingSystem(i.arena, i.table, rng)
	i.breeding = systems.NewBreedingSystem(i.arena, i.table, rng)
	i.death = systems.NewDeathSystem(i.arena, i.table, rng)
	i.migration = systems.NewMigrationSystem(i.arena, i.table, rng)
	i.lifecycle = systems.NewLifecycleSystem(i.arena, i.table)

	return i, nil
}

// Rows returns the number of grid rows.
func (i *Island) Rows() int { return i.rows }

// Cols returns the number of grid columns.
func (i *Island) Cols() int { return i.cols }

// Year returns the number of completed annual cycles.
func (i *Island) Year() int { return i.year }

// Table returns the live species parameter table.
func (i *Island) Table() *traits.Table { return i.table }

// Landscape returns the live terrain parameters.
func (i *Island) Landscape() *systems.LandscapeParams { return i.landscape }

// Arena returns the animal arena.
func (i *Island) Arena() *systems.Arena { return i.arena }

// Cell returns the cell at loc, or nil when loc is outside the grid.
func (i *Island) Cell(loc components.Location) *systems.Cell {
	if loc.Row < 0 || loc.Row >= i.rows || loc.Col < 0 || loc.Col >= i.cols {
		return nil
	}
	return i.cells[loc.Row*i.cols+loc.Col]
}

// Cells returns every cell in row-major order.
func (i *Island) Cells() []*systems.Cell {
	return i.cells
}
