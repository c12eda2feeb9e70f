package components

import "fmt"

// Location is a grid coordinate. It is both the ECS component recording
// which cell owns an animal and the key used to address cells.
type Location struct {
	Row, Col int
}

// East returns the neighbor one column to the right.
func (l Location) East() Location { return Location{l.Row, l.Col + 1} }

// West returns the neighbor one column to the left.
func (l Location) West() Location { return Location{l.Row, l.Col - 1} }

// North returns the neighbor one row up.
func (l Location) North() Location { return Location{l.Row - 1, l.Col} }

// South returns the neighbor one row down.
func (l Location) South() Location { return Location{l.Row + 1, l.Col} }

// Neighbors returns the four axis-aligned neighbors in migration order:
// east, west, north, south.
func (l Location) Neighbors() [4]Location {
	return [4]Location{l.East(), l.West(), l.North(), l.South()}
}

func (l Location) String() string {
	return fmt.Sprintf("(%d, %d)", l.Row, l.Col)
}
