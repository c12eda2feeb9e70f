package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/traits"
)

func TestFitness_ZeroWhenWeightNonPositive(t *testing.T) {
	p := traits.DefaultHerbivore()
	for _, w := range []float64{0, -1, -1e-9} {
		a := components.Animal{Species: components.Herbivore, Age: 3, Weight: w}
		if got := Fitness(&a, &p); got != 0 {
			t.Errorf("Fitness(weight=%v) = %v, want 0", w, got)
		}
	}
}

func TestFitness_AtMidpoints(t *testing.T) {
	p := traits.DefaultHerbivore()
	a := components.Animal{Species: components.Herbivore, Age: int(p.AHalf), Weight: p.WHalf}
	if got := Fitness(&a, &p); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("Fitness at both midpoints = %v, want 0.25", got)
	}
}

func TestFitness_Bounded(t *testing.T) {
	table := traits.DefaultTable()
	for _, s := range components.AllSpecies {
		p := table.For(s)
		for age := 0; age <= 200; age += 7 {
			for _, w := range []float64{1e-6, 0.5, 5, 50, 500, 1e6} {
				a := components.Animal{Species: s, Age: age, Weight: w}
				got := Fitness(&a, p)
				if got < 0 || got > 1 || math.IsNaN(got) {
					t.Fatalf("%v age %d weight %v: fitness %v outside [0, 1]", s, age, w, got)
				}
			}
		}
	}
}

func TestFitness_Monotone(t *testing.T) {
	p := traits.DefaultCarnivore()
	young := components.Animal{Species: components.Carnivore, Age: 1, Weight: 10}
	old := components.Animal{Species: components.Carnivore, Age: 80, Weight: 10}
	if Fitness(&young, &p) <= Fitness(&old, &p) {
		t.Error("fitness should decrease with age")
	}
	light := components.Animal{Species: components.Carnivore, Age: 5, Weight: 2}
	heavy := components.Animal{Species: components.Carnivore, Age: 5, Weight: 20}
	if Fitness(&light, &p) >= Fitness(&heavy, &p) {
		t.Error("fitness should increase with weight")
	}
}
