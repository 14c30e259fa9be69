package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/sitegrid/internal/testutil"
)

func TestDefaultSimConfig(t *testing.T) {
	cfg := DefaultSimConfig()

	if cfg.Capacity == nil || *cfg.Capacity != 8 {
		t.Errorf("Expected Capacity 8, got %v", cfg.Capacity)
	}
	if cfg.Variant == nil || *cfg.Variant != VariantGrowth {
		t.Errorf("Expected Variant growth, got %v", cfg.Variant)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	empty := EmptySimConfig()
	if cfg.GetCapacity() != empty.GetCapacity() {
		t.Errorf("GetCapacity() = %d, want %d", cfg.GetCapacity(), empty.GetCapacity())
	}
	if cfg.GetSize() != empty.GetSize() {
		t.Errorf("GetSize() = %f, want %f", cfg.GetSize(), empty.GetSize())
	}
	if cfg.GetOrigin() != empty.GetOrigin() {
		t.Errorf("GetOrigin() = %v, want %v", cfg.GetOrigin(), empty.GetOrigin())
	}
	if cfg.GetTicks() != empty.GetTicks() {
		t.Errorf("GetTicks() = %d, want %d", cfg.GetTicks(), empty.GetTicks())
	}
	if cfg.GetDBPath() != empty.GetDBPath() {
		t.Errorf("GetDBPath() = %q, want %q", cfg.GetDBPath(), empty.GetDBPath())
	}
	if cfg.GetSnapshotEvery() != empty.GetSnapshotEvery() {
		t.Errorf("GetSnapshotEvery() = %d, want %d", cfg.GetSnapshotEvery(), empty.GetSnapshotEvery())
	}
	if cfg.GetKeepSnapshots() != empty.GetKeepSnapshots() {
		t.Errorf("GetKeepSnapshots() = %d, want %d", cfg.GetKeepSnapshots(), empty.GetKeepSnapshots())
	}
	if cfg.GetChunkRadius() != empty.GetChunkRadius() {
		t.Errorf("GetChunkRadius() = %d, want %d", cfg.GetChunkRadius(), empty.GetChunkRadius())
	}
	if cfg.GetOreChance() != empty.GetOreChance() {
		t.Errorf("GetOreChance() = %f, want %f", cfg.GetOreChance(), empty.GetOreChance())
	}
	if cfg.GetTickInterval() != 0 {
		t.Errorf("GetTickInterval() = %v, want 0", cfg.GetTickInterval())
	}
	if _, ok := cfg.GetSeed(); ok {
		t.Error("default config should not fix a seed")
	}
}

func TestLoadSimConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sim.json")

	testJSON := `{
  "variant": "vein",
  "capacity": 12,
  "size": 2.5,
  "origin": [10, 40, -10],
  "tick_interval": "25ms",
  "seed": 99,
  "snapshot_every": 0
}`
	testutil.AssertNoError(t, os.WriteFile(configPath, []byte(testJSON), 0644))

	cfg, err := LoadSimConfig(configPath)
	testutil.AssertNoError(t, err)

	if cfg.GetVariant() != VariantVein {
		t.Errorf("GetVariant() = %q, want vein", cfg.GetVariant())
	}
	if cfg.GetCapacity() != 12 {
		t.Errorf("GetCapacity() = %d, want 12", cfg.GetCapacity())
	}
	if cfg.GetSize() != 2.5 {
		t.Errorf("GetSize() = %f, want 2.5", cfg.GetSize())
	}
	if cfg.GetOrigin() != [3]int{10, 40, -10} {
		t.Errorf("GetOrigin() = %v", cfg.GetOrigin())
	}
	if cfg.GetTickInterval() != 25*time.Millisecond {
		t.Errorf("GetTickInterval() = %v, want 25ms", cfg.GetTickInterval())
	}
	if seed, ok := cfg.GetSeed(); !ok || seed != 99 {
		t.Errorf("GetSeed() = %d, %v; want 99, true", seed, ok)
	}
	if cfg.GetSnapshotEvery() != 0 {
		t.Errorf("GetSnapshotEvery() = %d, want 0", cfg.GetSnapshotEvery())
	}
	// Omitted fields fall back to defaults.
	if cfg.GetTicks() != 200 {
		t.Errorf("GetTicks() = %d, want default 200", cfg.GetTicks())
	}
}

func TestLoadSimConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("sim.yaml", "{}"), "must have .json extension"},
		{"missing file", filepath.Join(tmpDir, "nope.json"), "failed to stat"},
		{"bad json", write("bad.json", "{"), "failed to parse"},
		{"bad variant", write("variant.json", `{"variant": "lava"}`), "variant must be"},
		{"zero capacity", write("cap.json", `{"capacity": 0}`), "capacity must be positive"},
		{"negative size", write("size.json", `{"size": -1}`), "size must be non-negative"},
		{"bad interval", write("interval.json", `{"tick_interval": "soon"}`), "invalid tick_interval"},
		{"ore chance", write("ore.json", `{"ore_chance": 1.5}`), "ore_chance must be between"},
		{"negative radius", write("radius.json", `{"chunk_radius": -2}`), "chunk_radius must be non-negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSimConfig(tt.path)
			testutil.AssertError(t, err)
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSimConfig_TooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.json")
	big := make([]byte, 1024*1024+1)
	for i := range big {
		big[i] = ' '
	}
	if err := os.WriteFile(p, big, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSimConfig(p); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected too large error, got %v", err)
	}
}

func TestDefaultsFileMatchesDefaultSimConfig(t *testing.T) {
	cfg, err := LoadSimConfig(filepath.Join("..", "..", DefaultConfigPath))
	if err != nil {
		t.Fatalf("load defaults file: %v", err)
	}
	def := DefaultSimConfig()
	if cfg.GetCapacity() != def.GetCapacity() || cfg.GetSize() != def.GetSize() ||
		cfg.GetVariant() != def.GetVariant() || cfg.GetTicks() != def.GetTicks() ||
		cfg.GetSnapshotEvery() != def.GetSnapshotEvery() || cfg.GetOrigin() != def.GetOrigin() {
		t.Errorf("defaults file drifted from DefaultSimConfig: %+v", cfg)
	}
}
