package systems

import (
	"math"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/traits"
)

// Fitness returns the fitness of an animal in [0, 1]. It is recomputed on
// every call so it always reflects the current age and weight.
func Fitness(a *components.Animal, p *traits.Params) float64 {
	if a.Weight <= 0 {
		return 0
	}
	ageTerm := 1 / (1 + math.Exp(p.PhiAge*(float64(a.Age)-p.AHalf)))
	weightTerm := 1 / (1 + math.Exp(-p.PhiWeight*(a.Weight-p.WHalf)))
	return ageTerm * weightTerm
}
