package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical simulation defaults file.
const DefaultConfigPath = "config/sitegrid.defaults.json"

// Supported variants.
const (
	VariantGrowth = "growth"
	VariantVein   = "vein"
)

// SimConfig is the root configuration for a site simulation run. Fields
// omitted from the JSON keep their defaults through the Get* methods.
type SimConfig struct {
	// Effect params
	Variant  *string  `json:"variant,omitempty"`
	Capacity *int     `json:"capacity,omitempty"`
	Size     *float64 `json:"size,omitempty"`
	Origin   *[3]int  `json:"origin,omitempty"`

	// Run params
	Ticks        *int    `json:"ticks,omitempty"`
	TickInterval *string `json:"tick_interval,omitempty"` // duration string like "50ms"
	Seed         *uint64 `json:"seed,omitempty"`          // unset means a random seed

	// Persistence params
	DBPath        *string `json:"db_path,omitempty"`
	SnapshotEvery *int    `json:"snapshot_every,omitempty"` // ticks between snapshots
	KeepSnapshots *int    `json:"keep_snapshots,omitempty"`

	// World params
	ChunkRadius *int     `json:"chunk_radius,omitempty"`
	OreChance   *float64 `json:"ore_chance,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptySimConfig returns a SimConfig with all fields set to nil.
func EmptySimConfig() *SimConfig {
	return &SimConfig{}
}

// DefaultSimConfig returns a SimConfig with every field set to its default.
func DefaultSimConfig() *SimConfig {
	origin := [3]int{0, 64, 0}
	return &SimConfig{
		Variant:       ptrString(VariantGrowth),
		Capacity:      ptrInt(8),
		Size:          ptrFloat64(4),
		Origin:        &origin,
		Ticks:         ptrInt(200),
		TickInterval:  ptrString("0s"),
		DBPath:        ptrString("sitegrid.db"),
		SnapshotEvery: ptrInt(50),
		KeepSnapshots: ptrInt(10),
		ChunkRadius:   ptrInt(1),
		OreChance:     ptrFloat64(0.05),
	}
}

// LoadSimConfig loads a SimConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadSimConfig(path string) (*SimConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySimConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *SimConfig) Validate() error {
	if c.Variant != nil && *c.Variant != VariantGrowth && *c.Variant != VariantVein {
		return fmt.Errorf("variant must be %q or %q, got %q", VariantGrowth, VariantVein, *c.Variant)
	}
	if c.Capacity != nil && *c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", *c.Capacity)
	}
	if c.Size != nil && *c.Size < 0 {
		return fmt.Errorf("size must be non-negative, got %f", *c.Size)
	}
	if c.Ticks != nil && *c.Ticks < 0 {
		return fmt.Errorf("ticks must be non-negative, got %d", *c.Ticks)
	}
	if c.TickInterval != nil && *c.TickInterval != "" {
		if _, err := time.ParseDuration(*c.TickInterval); err != nil {
			return fmt.Errorf("invalid tick_interval '%s': %w", *c.TickInterval, err)
		}
	}
	if c.SnapshotEvery != nil && *c.SnapshotEvery < 0 {
		return fmt.Errorf("snapshot_every must be non-negative, got %d", *c.SnapshotEvery)
	}
	if c.ChunkRadius != nil && *c.ChunkRadius < 0 {
		return fmt.Errorf("chunk_radius must be non-negative, got %d", *c.ChunkRadius)
	}
	if c.OreChance != nil && (*c.OreChance < 0 || *c.OreChance > 1) {
		return fmt.Errorf("ore_chance must be between 0 and 1, got %f", *c.OreChance)
	}
	return nil
}

// GetVariant returns the variant or the default.
func (c *SimConfig) GetVariant() string {
	if c.Variant == nil || *c.Variant == "" {
		return VariantGrowth // default
	}
	return *c.Variant
}

// GetCapacity returns the capacity or the default.
func (c *SimConfig) GetCapacity() int {
	if c.Capacity == nil {
		return 8 // default
	}
	return *c.Capacity
}

// GetSize returns the search size or the default.
func (c *SimConfig) GetSize() float64 {
	if c.Size == nil {
		return 4 // default
	}
	return *c.Size
}

// GetOrigin returns the effect origin or the default.
func (c *SimConfig) GetOrigin() [3]int {
	if c.Origin == nil {
		return [3]int{0, 64, 0} // default
	}
	return *c.Origin
}

// GetTicks returns the number of ticks to run or the default.
func (c *SimConfig) GetTicks() int {
	if c.Ticks == nil {
		return 200 // default
	}
	return *c.Ticks
}

// GetTickInterval parses and returns the TickInterval as a time.Duration.
func (c *SimConfig) GetTickInterval() time.Duration {
	if c.TickInterval == nil || *c.TickInterval == "" {
		return 0 // default
	}
	d, err := time.ParseDuration(*c.TickInterval)
	if err != nil {
		return 0 // default on parse error
	}
	return d
}

// GetSeed returns the configured seed and whether one was set.
func (c *SimConfig) GetSeed() (uint64, bool) {
	if c.Seed == nil {
		return 0, false
	}
	return *c.Seed, true
}

// GetDBPath returns the snapshot database path or the default.
func (c *SimConfig) GetDBPath() string {
	if c.DBPath == nil || *c.DBPath == "" {
		return "sitegrid.db" // default
	}
	return *c.DBPath
}

// GetSnapshotEvery returns the snapshot cadence in ticks or the default.
// Zero disables periodic snapshots.
func (c *SimConfig) GetSnapshotEvery() int {
	if c.SnapshotEvery == nil {
		return 50 // default
	}
	return *c.SnapshotEvery
}

// GetKeepSnapshots returns how many snapshots to retain per effect.
// Zero or less keeps all of them.
func (c *SimConfig) GetKeepSnapshots() int {
	if c.KeepSnapshots == nil {
		return 10 // default
	}
	return *c.KeepSnapshots
}

// GetChunkRadius returns the loaded chunk radius or the default.
func (c *SimConfig) GetChunkRadius() int {
	if c.ChunkRadius == nil {
		return 1 // default
	}
	return *c.ChunkRadius
}

// GetOreChance returns the ore generation chance or the default.
func (c *SimConfig) GetOreChance() float64 {
	if c.OreChance == nil {
		return 0.05 // default
	}
	return *c.OreChance
}
