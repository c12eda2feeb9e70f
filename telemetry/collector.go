package telemetry

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/biosim/components"
)

// PopulationSnapshot is the end-of-year state the Collector summarizes.
// Weights holds one value per living animal.
type PopulationSnapshot struct {
	Counts      [components.NumSpecies]int
	Weights     [components.NumSpecies][]float64
	FitnessMean [components.NumSpecies]float64
	FitnessStd  [components.NumSpecies]float64
	Fodder      float64
}

// Collector accumulates population events over one simulated year and
// produces YearStats. It satisfies the arena's event recorder interface.
type Collector struct {
	startYear int

	counts       [numEventTypes][components.NumSpecies]int
	killAttempts int
}

// NewCollector creates a collector whose first window starts at year.
func NewCollector(year int) *Collector {
	return &Collector{startYear: year}
}

// RecordBirth records a birth.
func (c *Collector) RecordBirth(s components.Species) {
	c.counts[EventBirth][s]++
}

// RecordDeath records a death of the given cause.
func (c *Collector) RecordDeath(s components.Species, cause components.DeathCause) {
	c.counts[deathEvent(cause)][s]++
}

// RecordKillAttempt records a contested predation attempt.
func (c *Collector) RecordKillAttempt(success bool) {
	c.killAttempts++
}

// RecordMigration records an animal leaving its cell.
func (c *Collector) RecordMigration(s components.Species) {
	c.counts[EventMigration][s]++
}

// Count returns how many events of a type were recorded since the last flush.
func (c *Collector) Count(t EventType, s components.Species) int {
	return c.counts[t][s]
}

// Flush produces the YearStats for year and resets counters.
func (c *Collector) Flush(year int, snap PopulationSnapshot) YearStats {
	h, k := components.Herbivore, components.Carnivore

	kills := c.counts[EventKill][h]
	var killRate float64
	if c.killAttempts > 0 {
		killRate = float64(kills) / float64(c.killAttempts)
	}

	hMean, hP10, hP50, hP90 := ComputeWeightStats(snap.Weights[h])
	kMean, kP10, kP50, kP90 := ComputeWeightStats(snap.Weights[k])

	stats := YearStats{
		Year:       year,
		Herbivores: snap.Counts[h],
		Carnivores: snap.Counts[k],

		HerbivoreBirths:     c.counts[EventBirth][h],
		CarnivoreBirths:     c.counts[EventBirth][k],
		HerbivoreDeaths:     c.counts[EventNaturalDeath][h],
		CarnivoreDeaths:     c.counts[EventNaturalDeath][k],
		HerbivoreMigrations: c.counts[EventMigration][h],
		CarnivoreMigrations: c.counts[EventMigration][k],

		KillAttempts: c.killAttempts,
		Kills:        kills,
		KillRate:     killRate,

		Fodder:           snap.Fodder,
		HerbivoreBiomass: floats.Sum(snap.Weights[h]),
		CarnivoreBiomass: floats.Sum(snap.Weights[k]),

		HerbivoreWeightMean: hMean,
		HerbivoreWeightP10:  hP10,
		HerbivoreWeightP50:  hP50,
		HerbivoreWeightP90:  hP90,
		CarnivoreWeightMean: kMean,
		CarnivoreWeightP10:  kP10,
		CarnivoreWeightP50:  kP50,
		CarnivoreWeightP90:  kP90,

		HerbivoreFitnessMean: snap.FitnessMean[h],
		HerbivoreFitnessStd:  snap.FitnessStd[h],
		CarnivoreFitnessMean: snap.FitnessMean[k],
		CarnivoreFitnessStd:  snap.FitnessStd[k],
	}

	c.startYear = year
	c.counts = [numEventTypes][components.NumSpecies]int{}
	c.killAttempts = 0

	return stats
}

// StartYear returns the year the current window started.
func (c *Collector) StartYear() int {
	return c.startYear
}
