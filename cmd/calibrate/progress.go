package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

// EvalRecord is one row of optimize_log.csv.
type EvalRecord struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	Quality       float64 `csv:"quality"`
	SurvivalYears float64 `csv:"survival_years"`
	Best          float64 `csv:"best_fitness"`
	ElapsedSec    float64 `csv:"elapsed_sec"`
}

// ParamRecord is one row of optimize_params.csv: the clamped value of one
// parameter at one evaluation.
type ParamRecord struct {
	Eval  int     `csv:"eval"`
	Param string  `csv:"param"`
	Value float64 `csv:"value"`
}

// csvLog appends csv-tagged records to a file, writing the header once.
type csvLog struct {
	f      *os.File
	header bool
}

func openCSVLog(path string) (*csvLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	return &csvLog{f: f}, nil
}

func (l *csvLog) append(records any) error {
	if l.header {
		return gocsv.MarshalWithoutHeaders(records, l.f)
	}
	if err := gocsv.Marshal(records, l.f); err != nil {
		return err
	}
	l.header = true
	return nil
}

// progress tracks the best evaluation so far and logs every evaluation.
type progress struct {
	specs    []ParamSpec
	maxEvals int
	logger   *slog.Logger
	start    time.Time

	evals      int
	best       float64
	bestParams []float64

	evalLog  *csvLog
	paramLog *csvLog
}

func newProgress(dir string, specs []ParamSpec, maxEvals int, logger *slog.Logger) (*progress, error) {
	p := &progress{
		specs:    specs,
		maxEvals: maxEvals,
		logger:   logger,
		start:    time.Now(),
		best:     math.Inf(1),
	}
	var err error
	if p.evalLog, err = openCSVLog(filepath.Join(dir, "optimize_log.csv")); err != nil {
		return nil, err
	}
	if p.paramLog, err = openCSVLog(filepath.Join(dir, "optimize_params.csv")); err != nil {
		p.close()
		return nil, err
	}
	return p, nil
}

// record logs one evaluation. params must be the clamped values that were
// actually simulated.
func (p *progress) record(fitness, quality float64, params []float64) error {
	p.evals++
	if fitness < p.best {
		p.best = fitness
		p.bestParams = append([]float64(nil), params...)
	}

	elapsed := time.Since(p.start)
	survival := survivalFromFitness(fitness, quality)
	rec := EvalRecord{
		Eval:          p.evals,
		Fitness:       fitness,
		Quality:       quality,
		SurvivalYears: survival,
		Best:          p.best,
		ElapsedSec:    elapsed.Seconds(),
	}
	if err := p.evalLog.append([]EvalRecord{rec}); err != nil {
		return fmt.Errorf("writing eval %d: %w", p.evals, err)
	}

	rows := make([]ParamRecord, len(p.specs))
	for i, spec := range p.specs {
		rows[i] = ParamRecord{Eval: p.evals, Param: spec.Name(), Value: params[i]}
	}
	if err := p.paramLog.append(rows); err != nil {
		return fmt.Errorf("writing params %d: %w", p.evals, err)
	}

	remaining := time.Duration(p.maxEvals-p.evals) * (elapsed / time.Duration(p.evals))
	p.logger.Info("eval",
		"n", p.evals,
		"of", p.maxEvals,
		"survived_years", math.Round(survival),
		"quality", quality,
		"best", p.best,
		"elapsed", elapsed.Round(time.Second).String(),
		"eta", max(remaining, 0).Round(time.Second).String(),
	)
	return nil
}

func (p *progress) close() error {
	var firstErr error
	for _, l := range []*csvLog{p.evalLog, p.paramLog} {
		if l == nil {
			continue
		}
		if err := l.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
