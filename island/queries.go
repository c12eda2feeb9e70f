package island

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/systems"
	"github.com/pthm-cable/biosim/telemetry"
)

// NumAnimals returns the number of living animals.
func (i *Island) NumAnimals() int {
	return i.arena.Total()
}

// NumAnimalsPerSpecies returns the number of living animals keyed by
// species name.
func (i *Island) NumAnimalsPerSpecies() map[string]int {
	out := make(map[string]int, components.NumSpecies)
	for _, s := range components.AllSpecies {
		out[s.String()] = i.arena.Census(s)
	}
	return out
}

// CellCounts returns the population of every cell in row-major order.
func (i *Island) CellCounts() []telemetry.CellCount {
	out := make([]telemetry.CellCount, len(i.cells))
	for idx, c := range i.cells {
		out[idx].Loc = c.Loc
		for _, s := range components.AllSpecies {
			out[idx].Counts[s] = c.Count(s)
		}
	}
	return out
}

// Heatmap returns the per-cell count of a species as a rows x cols grid.
func (i *Island) Heatmap(s components.Species) [][]int {
	grid := make([][]int, i.rows)
	for r := range grid {
		grid[r] = make([]int, i.cols)
	}
	for _, c := range i.cells {
		grid[c.Loc.Row][c.Loc.Col] = c.Count(s)
	}
	return grid
}

// AgeGroup summarizes the animals of one age bucket.
type AgeGroup struct {
	Label      string
	MinAge     int
	MaxAge     int // -1 means no upper bound
	Count      int
	Biomass    float64
	MeanWeight float64
}

var ageBuckets = []struct{ min, max int }{
	{0, 1}, {2, 4}, {5, 9}, {10, 14}, {15, -1},
}

// AgeGroups buckets the animals of a species by age.
func (i *Island) AgeGroups(s components.Species) []AgeGroup {
	groups := make([]AgeGroup, len(ageBuckets))
	for idx, b := range ageBuckets {
		label := fmt.Sprintf("%d-%d", b.min, b.max)
		if b.max < 0 {
			label = fmt.Sprintf("%d+", b.min)
		}
		groups[idx] = AgeGroup{Label: label, MinAge: b.min, MaxAge: b.max}
	}

	i.eachAnimal(s, func(a *components.Animal) {
		for idx := range groups {
			g := &groups[idx]
			if a.Age >= g.MinAge && (g.MaxAge < 0 || a.Age <= g.MaxAge) {
				g.Count++
				g.Biomass += a.Weight
				return
			}
		}
	})

	for idx := range groups {
		if groups[idx].Count > 0 {
			groups[idx].MeanWeight = groups[idx].Biomass / float64(groups[idx].Count)
		}
	}
	return groups
}

// Biomass is the island-wide total of fodder and animal weight.
type Biomass struct {
	Fodder    float64
	Herbivore float64
	Carnivore float64
}

// Biomass returns total fodder and the total weight of each species.
func (i *Island) Biomass() Biomass {
	fodder := make([]float64, len(i.accessible))
	for idx, c := range i.accessible {
		fodder[idx] = c.Fodder
	}
	return Biomass{
		Fodder:    floats.Sum(fodder),
		Herbivore: floats.Sum(i.Weights(components.Herbivore)),
		Carnivore: floats.Sum(i.Weights(components.Carnivore)),
	}
}

// Weights returns the weight of every animal of a species, row-major.
func (i *Island) Weights(s components.Species) []float64 {
	out := make([]float64, 0, i.arena.Census(s))
	i.eachAnimal(s, func(a *components.Animal) {
		out = append(out, a.Weight)
	})
	return out
}

// Fitnesses returns the fitness of every animal of a species, row-major.
func (i *Island) Fitnesses(s components.Species) []float64 {
	p := i.table.For(s)
	out := make([]float64, 0, i.arena.Census(s))
	i.eachAnimal(s, func(a *components.Animal) {
		out = append(out, systems.Fitness(a, p))
	})
	return out
}

// WeightStats summarizes the weight distribution of a species.
type WeightStats struct {
	Mean, P10, P50, P90 float64
}

// WeightStats returns the weight distribution of a species.
func (i *Island) WeightStats(s components.Species) WeightStats {
	mean, p10, p50, p90 := telemetry.ComputeWeightStats(i.Weights(s))
	return WeightStats{Mean: mean, P10: p10, P50: p50, P90: p90}
}

// FitnessStats returns the mean and standard deviation of fitness for a species.
func (i *Island) FitnessStats(s components.Species) (mean, std float64) {
	return telemetry.ComputeSpread(i.Fitnesses(s))
}

// Snapshot captures the state summarized in yearly statistics.
func (i *Island) Snapshot() telemetry.PopulationSnapshot {
	var snap telemetry.PopulationSnapshot
	for _, s := range components.AllSpecies {
		snap.Counts[s] = i.arena.Census(s)
		snap.Weights[s] = i.Weights(s)
		snap.FitnessMean[s], snap.FitnessStd[s] = i.FitnessStats(s)
	}
	snap.Fodder = i.Biomass().Fodder
	return snap
}

func (i *Island) eachAnimal(s components.Species, fn func(a *components.Animal)) {
	for _, c := range i.accessible {
		for _, e := range c.Residents(s) {
			fn(i.arena.Get(e))
		}
	}
}
