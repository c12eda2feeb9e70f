package telemetry

import (
	"testing"

	"github.com/pthm-cable/biosim/components"
)

func TestDistributionSnapshot(t *testing.T) {
	cells := []CellCount{
		{Loc: components.Location{Row: 0, Col: 0}},
		{Loc: components.Location{Row: 1, Col: 2}, Counts: [components.NumSpecies]int{7, 0}},
		{Loc: components.Location{Row: 2, Col: 3}, Counts: [components.NumSpecies]int{0, 3}},
	}

	records := DistributionSnapshot(9, cells)
	if len(records) != len(cells) {
		t.Fatalf("got %d records, want %d", len(records), len(cells))
	}

	want := CellRecord{Year: 9, Row: 1, Col: 2, Herbivore: 7}
	if records[1] != want {
		t.Errorf("records[1] = %+v, want %+v", records[1], want)
	}
	if records[2].Carnivore != 3 || records[2].Herbivore != 0 {
		t.Errorf("records[2] = %+v", records[2])
	}

	occupied := Occupied(records)
	if len(occupied) != 2 {
		t.Fatalf("Occupied returned %d records, want 2", len(occupied))
	}
	if occupied[0].Row != 1 || occupied[1].Row != 2 {
		t.Errorf("Occupied changed order: %+v", occupied)
	}
}

func TestOccupied_Empty(t *testing.T) {
	if got := Occupied(DistributionSnapshot(0, nil)); len(got) != 0 {
		t.Errorf("Occupied(nil) = %v", got)
	}
}
