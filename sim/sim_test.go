package sim

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/island"
	"github.com/pthm-cable/biosim/telemetry"
	"github.com/pthm-cable/biosim/traits"
)

const testMap = `
	OOOOO
	OJJSO
	OJDJO
	OOOOO`

func herd(species string, n, age int, w float64) []island.AnimalSpec {
	pop := make([]island.AnimalSpec, n)
	for i := range pop {
		weight := w
		pop[i] = island.AnimalSpec{Species: species, Age: float64(age), Weight: &weight}
	}
	return pop
}

func herbivores() []island.StockRequest {
	return []island.StockRequest{
		{Loc: components.Location{Row: 1, Col: 1}, Pop: herd("Herbivore", 50, 5, 20)},
	}
}

func carnivores() []island.StockRequest {
	return []island.StockRequest{
		{Loc: components.Location{Row: 1, Col: 1}, Pop: herd("Carnivore", 20, 5, 20)},
	}
}

func mustNew(t *testing.T, seed uint64, opts Options) *BioSim {
	t.Helper()
	b, err := New(testMap, herbivores(), seed, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestNew_Errors(t *testing.T) {
	_, err := New("OOO\nOXO\nOOO", nil, 1, Options{})
	if !errors.Is(err, island.ErrInvalidMap) {
		t.Errorf("bad map: got %v, want ErrInvalidMap", err)
	}

	bad := []island.StockRequest{{Loc: components.Location{Row: 0, Col: 0}, Pop: herd("Herbivore", 1, 1, 5)}}
	_, err = New(testMap, bad, 1, Options{})
	if !errors.Is(err, island.ErrInvalidStock) {
		t.Errorf("ocean stock: got %v, want ErrInvalidStock", err)
	}
}

func TestSimulate_CountsYears(t *testing.T) {
	var years []int
	b := mustNew(t, 3, Options{StatsCallback: func(s telemetry.YearStats) {
		years = append(years, s.Year)
	}})

	if b.Year() != 0 {
		t.Fatalf("Year before simulating = %d", b.Year())
	}
	b.Simulate(3)
	b.Simulate(2)

	if b.Year() != 5 {
		t.Errorf("Year = %d, want 5", b.Year())
	}
	want := []int{1, 2, 3, 4, 5}
	if len(years) != len(want) {
		t.Fatalf("callback saw years %v, want %v", years, want)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Errorf("callback year %d = %d, want %d", i, years[i], want[i])
		}
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	run := func(seed uint64) []map[string]int {
		b := mustNew(t, seed, Options{})
		if err := b.AddPopulation(carnivores()); err != nil {
			t.Fatalf("AddPopulation: %v", err)
		}
		var out []map[string]int
		for range 15 {
			b.Simulate(1)
			out = append(out, b.NumAnimalsPerSpecies())
		}
		return out
	}

	a, b := run(42), run(42)
	for year := range a {
		if !maps.Equal(a[year], b[year]) {
			t.Fatalf("year %d: %v != %v", year+1, a[year], b[year])
		}
	}
}

func TestAddPopulation(t *testing.T) {
	b := mustNew(t, 1, Options{})

	if err := b.AddPopulation(carnivores()); err != nil {
		t.Fatalf("AddPopulation: %v", err)
	}
	got := b.NumAnimalsPerSpecies()
	if got["Herbivore"] != 50 || got["Carnivore"] != 20 {
		t.Errorf("NumAnimalsPerSpecies = %v", got)
	}
	if b.NumAnimals() != 70 {
		t.Errorf("NumAnimals = %d, want 70", b.NumAnimals())
	}

	bad := []island.StockRequest{
		{Loc: components.Location{Row: 2, Col: 2}, Pop: herd("Herbivore", 3, 1, 5)},
		{Loc: components.Location{Row: 1, Col: 2}, Pop: herd("Carnivore", 1, -1, 5)},
	}
	if err := b.AddPopulation(bad); err == nil {
		t.Fatal("AddPopulation accepted a negative age")
	}
	if b.NumAnimals() != 70 {
		t.Errorf("rejected request changed population to %d", b.NumAnimals())
	}
}

func TestSetAnimalParameters(t *testing.T) {
	b := mustNew(t, 1, Options{})

	if err := b.SetAnimalParameters("Herbivore", map[string]float64{"F": 15, "mu": 0}); err != nil {
		t.Fatalf("SetAnimalParameters: %v", err)
	}
	if p := b.Island().Table().Herbivore; p.F != 15 || p.Mu != 0 {
		t.Errorf("herbivore params = %+v", p)
	}

	tests := []struct {
		name    string
		species string
		params  map[string]float64
		is      error
	}{
		{"unknown name", "Carnivore", map[string]float64{"apetite": 3}, traits.ErrUnknownParameter},
		{"herbivore saturation", "Herbivore", map[string]float64{"DeltaPhiMax": 3}, traits.ErrUnknownParameter},
		{"negative value", "Carnivore", map[string]float64{"beta": -0.1}, traits.ErrInvalidParameter},
		{"unknown species", "Omnivore", map[string]float64{"F": 3}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := *b.Island().Table()
			err := b.SetAnimalParameters(tt.species, tt.params)
			if err == nil {
				t.Fatal("SetAnimalParameters succeeded, want error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v does not wrap %v", err, tt.is)
			}
			if *b.Island().Table() != before {
				t.Error("rejected call changed the parameter table")
			}
		})
	}
}

func TestSetLandscapeParameters(t *testing.T) {
	b := mustNew(t, 1, Options{})

	if err := b.SetLandscapeParameters("J", map[string]float64{"f_max": 700}); err != nil {
		t.Fatalf("SetLandscapeParameters: %v", err)
	}
	if got := b.Island().Landscape().Jungle.FMax; got != 700 {
		t.Errorf("jungle f_max = %v, want 700", got)
	}

	if err := b.SetLandscapeParameters("S", map[string]float64{"f_max": -1}); err == nil {
		t.Error("negative savanna f_max accepted")
	}
	if got := b.Island().Landscape().Savanna.FMax; got != 300 {
		t.Errorf("savanna f_max = %v after rejected call, want 300", got)
	}
}

func TestAnimalDistribution(t *testing.T) {
	b := mustNew(t, 1, Options{})

	records := b.AnimalDistribution()
	if len(records) != 20 {
		t.Fatalf("got %d records, want 20", len(records))
	}
	occupied := telemetry.Occupied(records)
	if len(occupied) != 1 {
		t.Fatalf("occupied cells = %v", occupied)
	}
	if r := occupied[0]; r.Row != 1 || r.Col != 1 || r.Herbivore != 50 || r.Year != 0 {
		t.Errorf("record = %+v", r)
	}
}

func TestSimulate_WritesOutput(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	dir := t.TempDir()
	opts := OptionsFromConfig(cfg)
	opts.OutputDir = dir
	opts.Distribution = true
	opts.DistributionEvery = 2
	opts.PerfEvery = 2
	opts.LogEvery = 0

	b, err := New(testMap, herbivores(), 9, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.Simulate(4)
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tests := []struct {
		file  string
		lines int
	}{
		{"population.csv", 1 + 4},
		{"perf.csv", 1 + 2},
		{"distribution.csv", 1 + 20*3}, // initial state, years 2 and 4
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatalf("reading %s: %v", tt.file, err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != tt.lines {
				t.Errorf("%s has %d lines, want %d", tt.file, len(lines), tt.lines)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}

	opts := OptionsFromConfig(cfg)
	opts.Table.Carnivore.F = 1
	opts.Landscape.Jungle.FMax = 1
	if cfg.Carnivore.F == 1 || cfg.Landscape.Jungle.FMax == 1 {
		t.Error("Options share parameter storage with the config")
	}
	if opts.Bookmarks.StableYears != cfg.Bookmarks.StableYears {
		t.Errorf("stable years = %d, want %d", opts.Bookmarks.StableYears, cfg.Bookmarks.StableYears)
	}
}
