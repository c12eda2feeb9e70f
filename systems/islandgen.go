package systems

import (
	"fmt"
	"math"
	"strings"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds procedural island generation parameters.
type GenConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Seed          int64   `yaml:"-"`
	Scale         float64 `yaml:"scale"`          // Noise frequency per cell
	Octaves       int     `yaml:"octaves"`        // Noise layers summed per sample
	SeaLevel      float64 `yaml:"sea_level"`      // Elevation below which cells are ocean
	MountainLevel float64 `yaml:"mountain_level"` // Elevation above which cells are mountain
	DesertLevel   float64 `yaml:"desert_level"`   // Moisture below which land is desert
	JungleLevel   float64 `yaml:"jungle_level"`   // Moisture above which land is jungle
}

// DefaultGenConfig returns a medium island with a mix of every terrain.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:         21,
		Height:        13,
		Seed:          1,
		Scale:         0.18,
		Octaves:       3,
		SeaLevel:      0.28,
		MountainLevel: 0.78,
		DesertLevel:   0.35,
		JungleLevel:   0.55,
	}
}

// Validate checks that the configuration can produce a map.
func (c GenConfig) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("island size %dx%d: width and height must be positive", c.Width, c.Height)
	case c.Scale <= 0:
		return fmt.Errorf("scale %v: must be positive", c.Scale)
	case c.Octaves < 1:
		return fmt.Errorf("octaves %d: must be at least 1", c.Octaves)
	case c.SeaLevel > c.MountainLevel:
		return fmt.Errorf("sea level %v above mountain level %v", c.SeaLevel, c.MountainLevel)
	case c.DesertLevel > c.JungleLevel:
		return fmt.Errorf("desert level %v above jungle level %v", c.DesertLevel, c.JungleLevel)
	}
	return nil
}

// GenerateIslandMap produces a map in the island text grammar. Border cells
// are always ocean, so any valid configuration yields a parseable map.
func GenerateIslandMap(cfg GenConfig) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	elevNoise := opensimplex.NewNormalized(cfg.Seed)
	moistNoise := opensimplex.NewNormalized(cfg.Seed + 1)

	cx := float64(cfg.Width-1) / 2
	cy := float64(cfg.Height-1) / 2

	var sb strings.Builder
	for row := 0; row < cfg.Height; row++ {
		for col := 0; col < cfg.Width; col++ {
			if row == 0 || col == 0 || row == cfg.Height-1 || col == cfg.Width-1 {
				sb.WriteRune(TerrainOcean.Symbol())
				continue
			}
			x, y := float64(col), float64(row)
			elev := octaveNoise(elevNoise, x, y, cfg.Octaves, cfg.Scale)
			moist := octaveNoise(moistNoise, x, y, cfg.Octaves, cfg.Scale)

			// Pull elevation down toward the edges so land forms an island.
			dx := (x - cx) / max(cx, 1)
			dy := (y - cy) / max(cy, 1)
			falloff := 1 - math.Pow(math.Sqrt(dx*dx+dy*dy)/math.Sqrt2, 3)
			elev *= max(falloff, 0)

			sb.WriteRune(classify(elev, moist, cfg).Symbol())
		}
		if row < cfg.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

func classify(elev, moist float64, cfg GenConfig) Terrain {
	switch {
	case elev < cfg.SeaLevel:
		return TerrainOcean
	case elev > cfg.MountainLevel:
		return TerrainMountain
	case moist < cfg.DesertLevel:
		return TerrainDesert
	case moist > cfg.JungleLevel:
		return TerrainJungle
	}
	return TerrainSavanna
}

// octaveNoise sums octaves of normalized noise and returns a value in [0, 1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, scale float64) float64 {
	total, amp, norm := 0.0, 1.0, 0.0
	freq := scale
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return total / norm
}
