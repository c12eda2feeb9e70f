// Package main searches species parameters with CMA-ES for islands on
// which herbivores and carnivores coexist.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/island"
	"github.com/pthm-cable/biosim/sim"
)

type options struct {
	configPath string
	maxYears   int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.maxYears, "max-years", 300, "Maximum simulated years per run")
	flag.IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if err := run(opts, logger); err != nil {
		logger.Error("calibration failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger) error {
	if opts.outputDir == "" {
		return errors.New("-output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	pop := sim.DefaultPopulation()
	if baseCfg.Simulation.PopulationFile != "" {
		if pop, err = sim.LoadPopulation(baseCfg.Simulation.PopulationFile); err != nil {
			return err
		}
	}
	// Fail early rather than scoring every evaluation as an immediate failure.
	if _, err := island.New(baseCfg.Simulation.Map, sim.NewRNG(1)); err != nil {
		return fmt.Errorf("invalid map: %w", err)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, opts.maxYears, evalSeeds(opts.seeds), baseCfg, pop)

	tracker, err := newProgress(opts.outputDir, params.Specs, opts.maxEvals, logger)
	if err != nil {
		return err
	}
	defer tracker.close()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			if err := tracker.record(fitness, evaluator.LastQuality(), params.Clamp(raw)); err != nil {
				logger.Warn("failed to record evaluation", "error", err)
			}
			return fitness
		},
	}
	// Seeds already run in parallel, so evaluations stay sequential.
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   populationSize(opts.population, params.Dim()),
	}

	logger.Info("starting CMA-ES calibration",
		"params", params.Dim(),
		"population", method.Population,
		"max_evals", opts.maxEvals,
		"seeds", opts.seeds,
		"max_years", opts.maxYears,
	)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method)
	if err != nil {
		logger.Info("optimization ended", "reason", err)
	}

	best := tracker.bestParams
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return errors.New("no evaluation completed")
	}

	attrs := []any{"evals", tracker.evals, "best_fitness", tracker.best, "elapsed", time.Since(tracker.start).Round(time.Second).String()}
	for i, spec := range params.Specs {
		attrs = append(attrs, spec.Name(), best[i])
	}
	logger.Info("calibration complete", attrs...)

	return writeBestConfig(opts.configPath, filepath.Join(opts.outputDir, "best_config.yaml"), params, best)
}

// evalSeeds returns n fixed, well separated seeds.
func evalSeeds(n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = uint64(i*1000 + 42)
	}
	return seeds
}

// populationSize returns the CMA-ES population, defaulting to 4 + 3n/2.
func populationSize(requested, dim int) int {
	if requested > 0 {
		return requested
	}
	return 4 + 3*dim/2
}

// writeBestConfig overlays the best parameters on the base config and saves it.
func writeBestConfig(configPath, outPath string, params *ParamVector, best []float64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	table := cfg.Table()
	if err := params.ApplyToTable(table, best); err != nil {
		return fmt.Errorf("applying best parameters: %w", err)
	}
	cfg.Herbivore, cfg.Carnivore = table.Herbivore, table.Carnivore
	return cfg.WriteYAML(outPath)
}
