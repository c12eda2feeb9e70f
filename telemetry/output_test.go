package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/biosim/config"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("", true)
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Every method is a no-op on a nil manager.
	if err := om.WriteYear(YearStats{}); err != nil {
		t.Errorf("WriteYear: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Errorf("WriteBookmark: %v", err)
	}
	if err := om.WriteDistribution([]CellRecord{{}}); err != nil {
		t.Errorf("WriteDistribution: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir = %q", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir, true)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for y := 1; y <= 3; y++ {
		if err := om.WriteYear(YearStats{Year: y, Herbivores: 10 * y}); err != nil {
			t.Fatalf("WriteYear: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkExtinction, Year: 3, Description: "gone"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 3); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	records := DistributionSnapshot(3, []CellCount{{}, {}})
	if err := om.WriteDistribution(records); err != nil {
		t.Fatalf("WriteDistribution: %v", err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tests := []struct {
		file   string
		lines  int
		header string
	}{
		{"population.csv", 4, "year,herbivores,carnivores,"},
		{"bookmarks.csv", 2, "type,year,description"},
		{"perf.csv", 2, "year,avg_cycle_us,"},
		{"distribution.csv", 3, "year,row,col,herbivore,carnivore"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			lines := readLines(t, filepath.Join(dir, tt.file))
			if len(lines) != tt.lines {
				t.Errorf("%s has %d lines, want %d", tt.file, len(lines), tt.lines)
			}
			if !strings.HasPrefix(lines[0], tt.header) {
				t.Errorf("%s header = %q, want prefix %q", tt.file, lines[0], tt.header)
			}
		})
	}

	if lines := readLines(t, filepath.Join(dir, "population.csv")); !strings.HasPrefix(lines[3], "3,30,") {
		t.Errorf("last population row = %q", lines[3])
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func TestOutputManager_NoDistribution(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, false)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	if err := om.WriteDistribution([]CellRecord{{Year: 1}}); err != nil {
		t.Errorf("WriteDistribution: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "distribution.csv")); !os.IsNotExist(err) {
		t.Errorf("distribution.csv should not exist, stat err = %v", err)
	}
}
