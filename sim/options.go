package sim

import (
	"log/slog"

	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/systems"
	"github.com/pthm-cable/biosim/telemetry"
	"github.com/pthm-cable/biosim/traits"
)

// Options configures a BioSim. The zero value runs with reference
// parameters and no telemetry output.
type Options struct {
	Table     *traits.Table            // nil = reference species parameters
	Landscape *systems.LandscapeParams // nil = reference terrain parameters

	OutputDir         string // Empty disables CSV output
	Distribution      bool   // Write distribution.csv
	DistributionEvery int    // Years between distribution snapshots
	PerfWindow        int    // Cycles averaged per perf sample
	PerfEvery         int    // Years between perf rows (0 = no timing)
	LogEvery          int    // Years between stats log lines (0 = never)
	BookmarkHistory   int
	Bookmarks         telemetry.BookmarkThresholds

	// Config is written to the output directory as config.yaml when set.
	Config *config.Config

	Logger *slog.Logger

	// StatsCallback, if set, receives the statistics of every simulated year.
	StatsCallback func(telemetry.YearStats)
}

// OptionsFromConfig builds Options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	landscape := cfg.Landscape
	return Options{
		Table:             cfg.Table(),
		Landscape:         &landscape,
		OutputDir:         cfg.Telemetry.OutputDir,
		Distribution:      cfg.Telemetry.Distribution,
		DistributionEvery: cfg.Telemetry.DistributionEvery,
		PerfWindow:        cfg.Telemetry.PerfWindow,
		PerfEvery:         cfg.Telemetry.PerfEvery,
		LogEvery:          cfg.Simulation.LogEvery,
		BookmarkHistory:   cfg.Telemetry.BookmarkHistory,
		Bookmarks: telemetry.BookmarkThresholds{
			CrashFraction:  cfg.Bookmarks.CrashFraction,
			RecoveryFactor: cfg.Bookmarks.RecoveryFactor,
			StableYears:    cfg.Bookmarks.StableYears,
		},
		Config: cfg,
	}
}

func (o *Options) applyDefaults() {
	if o.Table == nil {
		o.Table = traits.DefaultTable()
	}
	if o.Landscape == nil {
		o.Landscape = systems.DefaultLandscapeParams()
	}
	if o.DistributionEvery < 1 {
		o.DistributionEvery = 1
	}
	if o.Bookmarks == (telemetry.BookmarkThresholds{}) {
		o.Bookmarks = telemetry.DefaultBookmarkThresholds()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
