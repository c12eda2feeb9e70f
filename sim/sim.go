// Package sim drives an island simulation year by year and wires the
// telemetry around it.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/island"
	"github.com/pthm-cable/biosim/telemetry"
)

// BioSim owns an island, its random source and the telemetry pipeline.
type BioSim struct {
	island *island.Island
	opts   Options
	logger *slog.Logger

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
}

// NewRNG returns the generator used for a given seed.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New builds an island from mapText, stocks it with ini and prepares
// telemetry. Equal seeds and equal call sequences give equal trajectories.
func New(mapText string, ini []island.StockRequest, seed uint64, opts Options) (*BioSim, error) {
	opts.applyDefaults()

	b := &BioSim{
		opts:      opts,
		logger:    opts.Logger,
		collector: telemetry.NewCollector(0),
		bookmarks: telemetry.NewBookmarkDetector(opts.BookmarkHistory, opts.Bookmarks),
	}

	islandOpts := []island.Option{
		island.WithTable(opts.Table),
		island.WithLandscape(opts.Landscape),
		island.WithRecorder(b.collector),
		island.WithLogger(opts.Logger),
	}
	if opts.PerfEvery > 0 {
		b.perf = telemetry.NewPerfCollector(opts.PerfWindow)
		islandOpts = append(islandOpts, island.WithPerf(b.perf))
	}

	isl, err := island.New(mapText, NewRNG(seed), islandOpts...)
	if err != nil {
		return nil, fmt.Errorf("building island: %w", err)
	}
	b.island = isl

	if err := isl.Stock(ini); err != nil {
		return nil, fmt.Errorf("initial population: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir, opts.Distribution)
	if err != nil {
		return nil, err
	}
	b.output = output
	if opts.Config != nil {
		if err := output.WriteConfig(opts.Config); err != nil {
			b.logger.Error("failed to write config", "error", err)
		}
	}
	if opts.Distribution {
		b.writeDistribution()
	}

	return b, nil
}

// SetAnimalParameters updates the parameters of the named species. Nothing
// changes if any name or value is rejected.
func (b *BioSim) SetAnimalParameters(species string, params map[string]float64) error {
	s, err := components.ParseSpecies(species)
	if err != nil {
		return err
	}
	return b.island.Table().Set(s, params)
}

// SetLandscapeParameters updates the fodder parameters of a terrain symbol.
func (b *BioSim) SetLandscapeParameters(symbol string, params map[string]float64) error {
	return b.island.Landscape().Set(symbol, params)
}

// AddPopulation stocks the island. The whole call is rejected if any entry
// is invalid.
func (b *BioSim) AddPopulation(pop []island.StockRequest) error {
	return b.island.Stock(pop)
}

// Simulate runs the given number of annual cycles. Telemetry failures are
// logged and do not stop the run.
func (b *BioSim) Simulate(years int) {
	for range years {
		b.island.AnnualCycle()
		b.endYear()
	}
}

func (b *BioSim) endYear() {
	year := b.island.Year()
	stats := b.collector.Flush(year, b.island.Snapshot())

	if b.opts.StatsCallback != nil {
		b.opts.StatsCallback(stats)
	}
	if b.opts.LogEvery > 0 && year%b.opts.LogEvery == 0 {
		stats.LogStats()
	}
	if err := b.output.WriteYear(stats); err != nil {
		b.logger.Error("failed to write population stats", "error", err)
	}

	if b.perf != nil && year%b.opts.PerfEvery == 0 {
		perfStats := b.perf.Stats()
		if b.opts.LogEvery > 0 {
			perfStats.LogStats()
		}
		if err := b.output.WritePerf(perfStats, year); err != nil {
			b.logger.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range b.bookmarks.Check(stats) {
		if b.opts.LogEvery > 0 {
			bm.LogBookmark()
		}
		if err := b.output.WriteBookmark(bm); err != nil {
			b.logger.Error("failed to write bookmark", "error", err)
		}
	}

	if b.opts.Distribution && year%b.opts.DistributionEvery == 0 {
		b.writeDistribution()
	}
}

func (b *BioSim) writeDistribution() {
	if err := b.output.WriteDistribution(b.AnimalDistribution()); err != nil {
		b.logger.Error("failed to write distribution", "error", err)
	}
}

// Close flushes and closes telemetry output.
func (b *BioSim) Close() error {
	return b.output.Close()
}

// Year returns the number of simulated years.
func (b *BioSim) Year() int {
	return b.island.Year()
}

// NumAnimals returns the total number of living animals.
func (b *BioSim) NumAnimals() int {
	return b.island.NumAnimals()
}

// NumAnimalsPerSpecies returns the living animals keyed by species name.
func (b *BioSim) NumAnimalsPerSpecies() map[string]int {
	return b.island.NumAnimalsPerSpecies()
}

// AnimalDistribution returns the per-cell population for the current year
// in row-major order.
func (b *BioSim) AnimalDistribution() []telemetry.CellRecord {
	return telemetry.DistributionSnapshot(b.island.Year(), b.island.CellCounts())
}

// Island returns the simulated island for read-only queries.
func (b *BioSim) Island() *island.Island {
	return b.island
}
