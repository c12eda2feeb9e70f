package telemetry

import (
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/pthm-cable/biosim/systems"
)

// PerfSample holds timing data for a single annual cycle.
type PerfSample struct {
	CycleDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks cycle timing over a rolling window of years.
// Phases are reported in the order and grouping of the phase registry.
type PerfCollector struct {
	registry *systems.PhaseRegistry

	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    map[string]time.Duration
	cycleStart time.Time
	phaseStart time.Time
	lastPhase  string
}

// NewPerfCollector creates a collector averaging over windowSize cycles.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 10
	}
	return &PerfCollector{
		registry:   systems.NewPhaseRegistry(),
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
		current:    make(map[string]time.Duration),
	}
}

// StartCycle begins timing a new annual cycle.
func (p *PerfCollector) StartCycle() {
	p.cycleStart = time.Now()
	p.current = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.lastPhase = phase
}

// EndCycle finishes timing the current cycle and records the sample.
func (p *PerfCollector) EndCycle() {
	now := time.Now()
	p.closePhase(now)

	p.samples[p.writeIndex] = PerfSample{
		CycleDuration: now.Sub(p.cycleStart),
		Phases:        p.current,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.lastPhase != "" {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}
}

// PhaseTiming is the averaged cost of one phase over the window.
type PhaseTiming struct {
	ID       string
	Name     string
	Category string
	Avg      time.Duration
	Pct      float64 // share of the average cycle
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgCycleDuration time.Duration
	MinCycleDuration time.Duration
	MaxCycleDuration time.Duration
	CyclesPerSecond  float64

	// Timed phases in cycle order. Phases the registry does not know
	// about follow the registered ones.
	Phases []PhaseTiming

	// Share of the average cycle spent per phase category.
	CategoryPct map[string]float64
}

// Phase returns the timing for a phase ID.
func (s PerfStats) Phase(id string) (PhaseTiming, bool) {
	for _, pt := range s.Phases {
		if pt.ID == id {
			return pt, true
		}
	}
	return PhaseTiming{}, false
}

func (s PerfStats) pct(id string) float64 {
	pt, _ := s.Phase(id)
	return pt.Pct
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{CategoryPct: make(map[string]float64)}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.CycleDuration
		if i == 0 || s.CycleDuration < stats.MinCycleDuration {
			stats.MinCycleDuration = s.CycleDuration
		}
		stats.MaxCycleDuration = max(stats.MaxCycleDuration, s.CycleDuration)
		for phase, dur := range s.Phases {
			sums[phase] += dur
		}
	}

	n := time.Duration(p.sampleCount)
	stats.AvgCycleDuration = total / n
	if stats.AvgCycleDuration > 0 {
		stats.CyclesPerSecond = float64(time.Second) / float64(stats.AvgCycleDuration)
	}

	timing := func(id, category string) PhaseTiming {
		pt := PhaseTiming{ID: id, Name: p.registry.GetName(id), Category: category, Avg: sums[id] / n}
		if stats.AvgCycleDuration > 0 {
			pt.Pct = float64(pt.Avg) / float64(stats.AvgCycleDuration) * 100
		}
		return pt
	}

	for _, info := range p.registry.All() {
		if _, ok := sums[info.ID]; ok {
			stats.Phases = append(stats.Phases, timing(info.ID, info.Category))
		}
	}
	for _, id := range slices.Sorted(maps.Keys(sums)) {
		if _, ok := p.registry.Get(id); !ok {
			stats.Phases = append(stats.Phases, timing(id, ""))
		}
	}

	for _, category := range systems.PhaseCategories {
		for _, info := range p.registry.ByCategory(category) {
			if pt, ok := stats.Phase(info.ID); ok {
				stats.CategoryPct[category] += pt.Pct
			}
		}
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue groups phase shares under their category, keyed by display name.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_cycle_us", s.AvgCycleDuration.Microseconds()),
		slog.Int64("min_cycle_us", s.MinCycleDuration.Microseconds()),
		slog.Int64("max_cycle_us", s.MaxCycleDuration.Microseconds()),
		slog.Int("cycles_per_sec", int(s.CyclesPerSecond)),
	}
	for _, category := range systems.PhaseCategories {
		var group []any
		for _, pt := range s.Phases {
			if pt.Category == category && pt.Pct > 0.1 {
				group = append(group, slog.Float64(pt.Name, float64(int(pt.Pct*10))/10))
			}
		}
		if len(group) > 0 {
			attrs = append(attrs, slog.Group(category, group...))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Year         int     `csv:"year"`
	AvgCycleUS   int64   `csv:"avg_cycle_us"`
	MinCycleUS   int64   `csv:"min_cycle_us"`
	MaxCycleUS   int64   `csv:"max_cycle_us"`
	CyclesPerSec float64 `csv:"cycles_per_sec"`

	EnvironmentPct float64 `csv:"environment_pct"`
	FeedingPct     float64 `csv:"feeding_pct"`
	PopulationPct  float64 `csv:"population_pct"`
	MovementPct    float64 `csv:"movement_pct"`

	RegrowPct       float64 `csv:"regrow_pct"`
	GrazingPct      float64 `csv:"grazing_pct"`
	PredationPct    float64 `csv:"predation_pct"`
	BreedingPct     float64 `csv:"breeding_pct"`
	DesirabilityPct float64 `csv:"desirability_pct"`
	MigrationPct    float64 `csv:"migration_pct"`
	AgingPct        float64 `csv:"aging_pct"`
	DeathPct        float64 `csv:"death_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(year int) PerfStatsCSV {
	return PerfStatsCSV{
		Year:         year,
		AvgCycleUS:   s.AvgCycleDuration.Microseconds(),
		MinCycleUS:   s.MinCycleDuration.Microseconds(),
		MaxCycleUS:   s.MaxCycleDuration.Microseconds(),
		CyclesPerSec: s.CyclesPerSecond,

		EnvironmentPct: s.CategoryPct[systems.CategoryEnvironment],
		FeedingPct:     s.CategoryPct[systems.CategoryFeeding],
		PopulationPct:  s.CategoryPct[systems.CategoryPopulation],
		MovementPct:    s.CategoryPct[systems.CategoryMovement],

		RegrowPct:       s.pct(systems.PhaseRegrow),
		GrazingPct:      s.pct(systems.PhaseFeedGrazers),
		PredationPct:    s.pct(systems.PhaseFeedPredator),
		BreedingPct:     s.pct(systems.PhaseBreeding),
		DesirabilityPct: s.pct(systems.PhaseDesirability),
		MigrationPct:    s.pct(systems.PhaseMigration),
		AgingPct:        s.pct(systems.PhaseAging),
		DeathPct:        s.pct(systems.PhaseDeath),
	}
}
