package systems

import (
	"strings"
	"testing"
)

func TestGenerateIslandMap(t *testing.T) {
	cfg := DefaultGenConfig()
	text, err := GenerateIslandMap(cfg)
	if err != nil {
		t.Fatalf("GenerateIslandMap: %v", err)
	}

	rows := strings.Split(text, "\n")
	if len(rows) != cfg.Height {
		t.Fatalf("rows = %d, want %d", len(rows), cfg.Height)
	}
	for r, row := range rows {
		if len(row) != cfg.Width {
			t.Fatalf("row %d has %d cells, want %d", r, len(row), cfg.Width)
		}
		for c, sym := range row {
			terrain, ok := ParseTerrain(sym)
			if !ok {
				t.Fatalf("illegal symbol %q at (%d, %d)", sym, r, c)
			}
			border := r == 0 || c == 0 || r == cfg.Height-1 || c == cfg.Width-1
			if border && terrain != TerrainOcean {
				t.Errorf("border cell (%d, %d) is %v", r, c, terrain)
			}
		}
	}

	again, _ := GenerateIslandMap(cfg)
	if again != text {
		t.Error("same seed produced a different map")
	}
}

func TestGenerateIslandMap_Tiny(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 2, 1
	text, err := GenerateIslandMap(cfg)
	if err != nil {
		t.Fatalf("GenerateIslandMap: %v", err)
	}
	if text != "OO" {
		t.Errorf("map = %q, want %q", text, "OO")
	}
}

func TestGenConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*GenConfig)
	}{
		{"zero width", func(c *GenConfig) { c.Width = 0 }},
		{"negative height", func(c *GenConfig) { c.Height = -3 }},
		{"zero scale", func(c *GenConfig) { c.Scale = 0 }},
		{"no octaves", func(c *GenConfig) { c.Octaves = 0 }},
		{"sea above mountains", func(c *GenConfig) { c.SeaLevel = 0.9 }},
		{"desert above jungle", func(c *GenConfig) { c.DesertLevel = 0.9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGenConfig()
			tt.modify(&cfg)
			if _, err := GenerateIslandMap(cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
