package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// YearStats holds aggregated statistics for one simulated year.
type YearStats struct {
	Year int `csv:"year"`

	// Population counts at year end
	Herbivores int `csv:"herbivores"`
	Carnivores int `csv:"carnivores"`

	// Events during the year
	HerbivoreBirths     int `csv:"herbivore_births"`
	CarnivoreBirths     int `csv:"carnivore_births"`
	HerbivoreDeaths     int `csv:"herbivore_deaths"` // natural causes only
	CarnivoreDeaths     int `csv:"carnivore_deaths"`
	HerbivoreMigrations int `csv:"herbivore_migrations"`
	CarnivoreMigrations int `csv:"carnivore_migrations"`

	// Hunting
	KillAttempts int     `csv:"kill_attempts"`
	Kills        int     `csv:"kills"`
	KillRate     float64 `csv:"kill_rate"`

	// Biomass
	Fodder           float64 `csv:"fodder"`
	HerbivoreBiomass float64 `csv:"herbivore_biomass"`
	CarnivoreBiomass float64 `csv:"carnivore_biomass"`

	// Weight distribution
	HerbivoreWeightMean float64 `csv:"herbivore_weight_mean"`
	HerbivoreWeightP10  float64 `csv:"herbivore_weight_p10"`
	HerbivoreWeightP50  float64 `csv:"herbivore_weight_p50"`
	HerbivoreWeightP90  float64 `csv:"herbivore_weight_p90"`

	CarnivoreWeightMean float64 `csv:"carnivore_weight_mean"`
	CarnivoreWeightP10  float64 `csv:"carnivore_weight_p10"`
	CarnivoreWeightP50  float64 `csv:"carnivore_weight_p50"`
	CarnivoreWeightP90  float64 `csv:"carnivore_weight_p90"`

	HerbivoreFitnessMean float64 `csv:"herbivore_fitness_mean"`
	HerbivoreFitnessStd  float64 `csv:"herbivore_fitness_std"`
	CarnivoreFitnessMean float64 `csv:"carnivore_fitness_mean"`
	CarnivoreFitnessStd  float64 `csv:"carnivore_fitness_std"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	// Interpolate as an offset from lo so equal neighbors return exactly.
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// ComputeWeightStats calculates mean and percentiles from weight values.
func ComputeWeightStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// ComputeSpread returns the mean and population standard deviation.
func ComputeSpread(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s YearStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("year", s.Year),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("herbivore_births", s.HerbivoreBirths),
		slog.Int("carnivore_births", s.CarnivoreBirths),
		slog.Int("herbivore_deaths", s.HerbivoreDeaths),
		slog.Int("carnivore_deaths", s.CarnivoreDeaths),
		slog.Int("kills", s.Kills),
		slog.Float64("kill_rate", s.KillRate),
		slog.Float64("fodder", s.Fodder),
		slog.Float64("herbivore_biomass", s.HerbivoreBiomass),
		slog.Float64("carnivore_biomass", s.CarnivoreBiomass),
	)
}

// LogStats logs the year stats using slog.
func (s YearStats) LogStats() {
	slog.Info("stats",
		"year", s.Year,
		"herbivores", s.Herbivores,
		"carnivores", s.Carnivores,
		"herbivore_births", s.HerbivoreBirths,
		"carnivore_births", s.CarnivoreBirths,
		"herbivore_deaths", s.HerbivoreDeaths,
		"carnivore_deaths", s.CarnivoreDeaths,
		"herbivore_migrations", s.HerbivoreMigrations,
		"carnivore_migrations", s.CarnivoreMigrations,
		"kill_attempts", s.KillAttempts,
		"kills", s.Kills,
		"kill_rate", s.KillRate,
		"fodder", s.Fodder,
		"herbivore_biomass", s.HerbivoreBiomass,
		"carnivore_biomass", s.CarnivoreBiomass,
		"herbivore_weight_p50", s.HerbivoreWeightP50,
		"carnivore_weight_p50", s.CarnivoreWeightP50,
		"herbivore_fitness_mean", s.HerbivoreFitnessMean,
		"herbivore_fitness_std", s.HerbivoreFitnessStd,
		"carnivore_fitness_mean", s.CarnivoreFitnessMean,
		"carnivore_fitness_std", s.CarnivoreFitnessStd,
	)
}
