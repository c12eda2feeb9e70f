package telemetry

import "github.com/pthm-cable/biosim/components"

// CellRecord is one row of the per-cell population distribution.
type CellRecord struct {
	Year      int `csv:"year"`
	Row       int `csv:"row"`
	Col       int `csv:"col"`
	Herbivore int `csv:"herbivore"`
	Carnivore int `csv:"carnivore"`
}

// CellCount is the population of one cell.
type CellCount struct {
	Loc    components.Location
	Counts [components.NumSpecies]int
}

// DistributionSnapshot converts per-cell counts into CSV records for year.
// Cells without animals are kept so every snapshot covers the whole grid.
func DistributionSnapshot(year int, cells []CellCount) []CellRecord {
	records := make([]CellRecord, len(cells))
	for i, c := range cells {
		records[i] = CellRecord{
			Year:      year,
			Row:       c.Loc.Row,
			Col:       c.Loc.Col,
			Herbivore: c.Counts[components.Herbivore],
			Carnivore: c.Counts[components.Carnivore],
		}
	}
	return records
}

// Occupied filters records down to cells holding at least one animal.
func Occupied(records []CellRecord) []CellRecord {
	var out []CellRecord
	for _, r := range records {
		if r.Herbivore > 0 || r.Carnivore > 0 {
			out = append(out, r)
		}
	}
	return out
}
