package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/biosim/components"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction       BookmarkType = "extinction"
	BookmarkHerbivoreCrash   BookmarkType = "herbivore_crash"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPredationSurge   BookmarkType = "predation_surge"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark marks a notable year in the simulation.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Year        int          `csv:"year"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"year", b.Year,
		"description", b.Description,
	)
}

// BookmarkThresholds tunes when bookmarks trigger.
type BookmarkThresholds struct {
	CrashFraction  float64 // Drop from recent peak that counts as a crash
	RecoveryFactor int     // Predator growth from recent low that counts as a recovery
	StableYears    int     // Consecutive low-variance years for a stable ecosystem
}

// DefaultBookmarkThresholds returns thresholds suited to island-scale populations.
func DefaultBookmarkThresholds() BookmarkThresholds {
	return BookmarkThresholds{CrashFraction: 0.3, RecoveryFactor: 3, StableYears: 5}
}

// BookmarkDetector detects notable years from the YearStats series.
type BookmarkDetector struct {
	thresholds BookmarkThresholds

	// Rolling history (circular buffer)
	history     []YearStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	extinct          [components.NumSpecies]bool
	recentPredMin    int // minimum carnivore count since the last recovery
	recentHerbPeak   int // peak herbivore count since the last crash
	stableYearsCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, th BookmarkThresholds) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	if th.StableYears < 1 {
		th.StableYears = 1
	}
	return &BookmarkDetector{
		thresholds:    th,
		history:       make([]YearStats, historySize),
		historySize:   historySize,
		recentPredMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats YearStats) []Bookmark {
	var bookmarks []Bookmark

	bookmarks = append(bookmarks, bd.checkExtinction(stats)...)

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkPredationSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkHerbivoreCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if bd.recentPredMin < 0 || stats.Carnivores < bd.recentPredMin {
		bd.recentPredMin = stats.Carnivores
	}
	if stats.Herbivores > bd.recentHerbPeak {
		bd.recentHerbPeak = stats.Herbivores
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats YearStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n most recent history entries, oldest first.
func (bd *BookmarkDetector) recent(n int) []YearStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	n = min(n, size)
	out := make([]YearStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats YearStats) []Bookmark {
	var out []Bookmark
	counts := [components.NumSpecies]int{stats.Herbivores, stats.Carnivores}
	for _, s := range components.AllSpecies {
		switch {
		case counts[s] == 0 && !bd.extinct[s] && bd.seen(s):
			bd.extinct[s] = true
			out = append(out, Bookmark{
				Type:        BookmarkExtinction,
				Year:        stats.Year,
				Description: fmt.Sprintf("%s population died out", s),
			})
		case counts[s] > 0:
			bd.extinct[s] = false
		}
	}
	return out
}

// seen reports whether the species was alive in the previous year.
func (bd *BookmarkDetector) seen(s components.Species) bool {
	prev := bd.recent(1)
	if len(prev) == 0 {
		return false
	}
	if s == components.Herbivore {
		return prev[0].Herbivores > 0
	}
	return prev[0].Carnivores > 0
}

func (bd *BookmarkDetector) checkPredationSurge(stats YearStats) *Bookmark {
	history := bd.recent(bd.historySize)
	if len(history) < 3 {
		return nil
	}

	var totalKills int
	for _, h := range history {
		totalKills += h.Kills
	}
	avgKills := float64(totalKills) / float64(len(history))
	if avgKills == 0 {
		return nil
	}

	if float64(stats.Kills) > avgKills*2 && stats.Kills >= 10 {
		return &Bookmark{
			Type:        BookmarkPredationSurge,
			Year:        stats.Year,
			Description: fmt.Sprintf("%d kills is %.1fx the recent average (%.1f)", stats.Kills, float64(stats.Kills)/avgKills, avgKills),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats YearStats) *Bookmark {
	if bd.recentPredMin <= 0 || bd.recentPredMin > 3 {
		return nil
	}

	threshold := bd.recentPredMin * bd.thresholds.RecoveryFactor
	if stats.Carnivores >= threshold && stats.Carnivores >= 6 {
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.Carnivores

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Year:        stats.Year,
			Description: fmt.Sprintf("Carnivore population recovered from %d to %d", oldMin, stats.Carnivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkHerbivoreCrash(stats YearStats) *Bookmark {
	if bd.recentHerbPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Herbivores)/float64(bd.recentHerbPeak)
	if drop > bd.thresholds.CrashFraction && stats.Herbivores < bd.recentHerbPeak-10 {
		oldPeak := bd.recentHerbPeak
		bd.recentHerbPeak = stats.Herbivores

		return &Bookmark{
			Type:        BookmarkHerbivoreCrash,
			Year:        stats.Year,
			Description: fmt.Sprintf("Herbivores crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Herbivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats YearStats) *Bookmark {
	if stats.Herbivores < 10 || stats.Carnivores < 3 {
		bd.stableYearsCount = 0
		return nil
	}

	window := append(bd.recent(3), stats)
	if len(window) < 4 {
		return nil
	}

	herb := make([]float64, len(window))
	carn := make([]float64, len(window))
	for i, h := range window {
		herb[i] = float64(h.Herbivores)
		carn[i] = float64(h.Carnivores)
	}
	herbMean, herbStd := ComputeSpread(herb)
	carnMean, carnStd := ComputeSpread(carn)

	// Coefficient of variation below 20% for both species.
	if herbStd < 0.2*herbMean && carnStd < 0.2*carnMean {
		bd.stableYearsCount++
	} else {
		bd.stableYearsCount = 0
	}

	if bd.stableYearsCount == bd.thresholds.StableYears {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Year:        stats.Year,
			Description: fmt.Sprintf("Stable coexistence with %d herbivores, %d carnivores over %d years", stats.Herbivores, stats.Carnivores, bd.thresholds.StableYears),
		}
	}
	return nil
}
