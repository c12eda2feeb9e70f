// Island map generator - prints a procedurally generated map that the
// simulator accepts.
//
// Usage: go run ./cmd/islandgen -width 30 -height 20 -seed 7 > island.txt
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/island"
	"github.com/pthm-cable/biosim/systems"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	width := flag.Int("width", 0, "Map width in cells (0 = use config)")
	height := flag.Int("height", 0, "Map height in cells (0 = use config)")
	seed := flag.Int64("seed", 0, "Noise seed (0 = use config)")
	stats := flag.Bool("stats", false, "Log terrain counts to stderr")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	gen := cfg.IslandGen
	if *width > 0 {
		gen.Width = *width
	}
	if *height > 0 {
		gen.Height = *height
	}
	if *seed != 0 {
		gen.Seed = *seed
	}

	text, err := systems.GenerateIslandMap(gen)
	if err != nil {
		slog.Error("failed to generate map", "error", err)
		os.Exit(1)
	}

	grid, err := island.ParseMap(text)
	if err != nil {
		slog.Error("generated map is invalid", "error", err)
		os.Exit(1)
	}

	if *stats {
		counts := make(map[systems.Terrain]int)
		for _, row := range grid {
			for _, t := range row {
				counts[t]++
			}
		}
		attrs := []any{"width", gen.Width, "height", gen.Height, "seed", gen.Seed}
		for _, t := range []systems.Terrain{systems.TerrainOcean, systems.TerrainMountain, systems.TerrainDesert, systems.TerrainSavanna, systems.TerrainJungle} {
			attrs = append(attrs, t.String(), counts[t])
		}
		slog.Info("island generated", attrs...)
	}

	fmt.Println(text)
}
