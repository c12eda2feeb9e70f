package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mapPath := flag.String("map", "", "Path to an island map file (empty = use config)")
	populationPath := flag.String("population", "", "Path to a YAML stocking file (empty = use config)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = use config, or time-based if config seed is 0)")
	years := flag.Int("years", 0, "Years to simulate (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Log yearly stats via slog (unset = use config log_every)")
	logFormat := flag.String("log-format", "json", "Log format: json or text")
	debug := flag.Bool("debug", false, "Log every annual cycle")

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	if *logFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = uint64(time.Now().UnixNano())
	}
	if *years > 0 {
		cfg.Simulation.Years = *years
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *populationPath != "" {
		cfg.Simulation.PopulationFile = *populationPath
	}
	if *mapPath != "" {
		data, err := os.ReadFile(*mapPath)
		if err != nil {
			slog.Error("failed to read map", "error", err)
			os.Exit(1)
		}
		cfg.Simulation.Map = string(data)
	}
	if flagSet(flag.CommandLine, "log-stats") {
		cfg.Simulation.LogEvery = logEvery(*logStats, cfg.Simulation.LogEvery)
	}

	ini := sim.DefaultPopulation()
	if cfg.Simulation.PopulationFile != "" {
		var err error
		ini, err = sim.LoadPopulation(cfg.Simulation.PopulationFile)
		if err != nil {
			slog.Error("failed to load population", "error", err)
			os.Exit(1)
		}
	}

	opts := sim.OptionsFromConfig(cfg)
	b, err := sim.New(cfg.Simulation.Map, ini, cfg.Simulation.Seed, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", cfg.Simulation.Seed,
		"years", cfg.Simulation.Years,
		"rows", b.Island().Rows(),
		"cols", b.Island().Cols(),
		"animals", b.NumAnimals(),
		"output_dir", cfg.Telemetry.OutputDir,
	)

	start := time.Now()
	b.Simulate(cfg.Simulation.Years)

	counts := b.NumAnimalsPerSpecies()
	slog.Info("simulation finished",
		"year", b.Year(),
		"herbivores", counts["Herbivore"],
		"carnivores", counts["Carnivore"],
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)

	if err := b.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
}

// flagSet reports whether a flag was passed explicitly.
func flagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// logEvery applies an explicit -log-stats to the configured interval.
func logEvery(enabled bool, configured int) int {
	switch {
	case !enabled:
		return 0
	case configured == 0:
		return 1
	}
	return configured
}
