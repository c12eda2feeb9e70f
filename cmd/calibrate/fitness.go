package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/island"
	"github.com/pthm-cable/biosim/sim"
	"github.com/pthm-cable/biosim/telemetry"
)

// FitnessEvaluator runs simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxYears   int
	seeds      []uint64
	baseConfig *config.Config
	population []island.StockRequest

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxYears int, seeds []uint64, baseCfg *config.Config, pop []island.StockRequest) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxYears:   maxYears,
		seeds:      seeds,
		baseConfig: baseCfg,
		population: pop,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A species below minViablePop for extinctionGraceYears consecutive years
// counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceYears = 5
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalYears int // years before functional extinction (or maxYears if both survived)
	years         []telemetry.YearStats
}

type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run in parallel; each run owns its island and random source.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			result, err := fe.runSimulation(x, s)
			if err != nil {
				results[idx] = seedResult{fitness: 0}
				return
			}
			quality := computeQuality(result.years)
			results[idx] = seedResult{
				fitness: computeFitness(result.survivalYears, quality),
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation runs one island until functional extinction or maxYears.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed uint64) (*runResult, error) {
	opts := sim.OptionsFromConfig(fe.baseConfig)
	if err := fe.params.ApplyToTable(opts.Table, x); err != nil {
		return nil, err
	}
	opts.OutputDir = ""
	opts.LogEvery = 0
	opts.PerfEvery = 0
	opts.Config = nil

	result := &runResult{}
	opts.StatsCallback = func(s telemetry.YearStats) {
		result.years = append(result.years, s)
	}

	b, err := sim.New(fe.baseConfig.Simulation.Map, fe.population, seed, opts)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	var herbBelow, carnBelow int
	for b.Year() < fe.maxYears {
		b.Simulate(1)
		last := result.years[len(result.years)-1]

		if last.Herbivores == 0 || last.Carnivores == 0 {
			result.survivalYears = b.Year()
			return result, nil
		}

		herbBelow = belowCount(herbBelow, last.Herbivores)
		carnBelow = belowCount(carnBelow, last.Carnivores)
		if herbBelow >= extinctionGraceYears || carnBelow >= extinctionGraceYears {
			result.survivalYears = b.Year()
			return result, nil
		}
	}

	result.survivalYears = fe.maxYears
	return result, nil
}

func belowCount(run, n int) int {
	if n < minViablePop {
		return run + 1
	}
	return 0
}

// computeFitness combines survival and quality into a scalar to minimize.
// Survival dominates; quality adds up to 20% to separate similar runs.
func computeFitness(survivalYears int, quality float64) float64 {
	return -(float64(survivalYears) * (1.0 + 0.2*quality))
}

// survivalFromFitness recovers the survival years behind a fitness value.
func survivalFromFitness(fitness, quality float64) float64 {
	return -fitness / (1.0 + 0.2*quality)
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.40
	qualityWeightStability = 0.35
	qualityWeightHunting   = 0.25

	qualityWarmupYears = 10 // skip the first N years
	qualityTargetRatio = 8.0
)

// computeQuality scores coexistence in [0, 1] from yearly stats.
func computeQuality(years []telemetry.YearStats) float64 {
	if len(years) <= qualityWarmupYears {
		return 0
	}

	var ratioSum, huntSum float64
	var ratioCount, huntCount int
	herbCounts := make([]float64, 0, len(years))
	carnCounts := make([]float64, 0, len(years))

	for _, y := range years[qualityWarmupYears:] {
		if y.Herbivores < minViablePop || y.Carnivores < minViablePop {
			continue
		}
		herbCounts = append(herbCounts, float64(y.Herbivores))
		carnCounts = append(carnCounts, float64(y.Carnivores))

		ratio := float64(y.Herbivores) / float64(y.Carnivores)
		logErr := math.Log(ratio / qualityTargetRatio)
		ratioSum += math.Exp(-logErr * logErr)
		ratioCount++

		if y.KillAttempts > 0 {
			huntSum += math.Exp(-math.Pow((y.KillRate-0.3)/0.2, 2))
			huntCount++
		}
	}

	if ratioCount == 0 {
		return 0
	}

	ratioScore := ratioSum / float64(ratioCount)

	stabilityScore := 0.0
	if len(herbCounts) >= 2 {
		cvHerb := cv(herbCounts)
		cvCarn := cv(carnCounts)
		stabilityScore = math.Exp(-(cvHerb*cvHerb + cvCarn*cvCarn))
	}

	huntScore := 0.0
	if huntCount > 0 {
		huntScore = huntSum / float64(huntCount)
	}

	quality := qualityWeightRatio*ratioScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*huntScore
	return min(max(quality, 0), 1)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := telemetry.ComputeSpread(values)
	if mean == 0 {
		return 0
	}
	return std / mean
}
