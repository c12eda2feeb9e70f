package island

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/biosim/components"
)

var (
	// ErrInvalidMap is returned when map text cannot form an island.
	ErrInvalidMap = errors.New("invalid island map")
	// ErrInvalidStock is returned when a stocking request is rejected.
	ErrInvalidStock = errors.New("invalid stocking request")
)

// MapError locates the first problem found in map text.
type MapError struct {
	Row, Col int
	Symbol   rune
	Reason   string
}

func (e *MapError) Error() string {
	if e.Symbol != 0 {
		return fmt.Sprintf("%v: %s at (%d, %d): %q", ErrInvalidMap, e.Reason, e.Row, e.Col, e.Symbol)
	}
	return fmt.Sprintf("%v: %s at row %d", ErrInvalidMap, e.Reason, e.Row)
}

func (e *MapError) Unwrap() error {
	return ErrInvalidMap
}

// StockError describes the first invalid entry of a stocking request.
type StockError struct {
	Loc    components.Location
	Index  int // Position of the animal in the request's population, -1 for the location itself
	Reason string
}

func (e *StockError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %v: %s", ErrInvalidStock, e.Loc, e.Reason)
	}
	return fmt.Sprintf("%v: %v animal %d: %s", ErrInvalidStock, e.Loc, e.Index, e.Reason)
}

func (e *StockError) Unwrap() error {
	return ErrInvalidStock
}
