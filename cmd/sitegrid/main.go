// Command sitegrid runs a site effect against generated terrain, persisting
// registry snapshots to SQLite between runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/sitegrid/internal/config"
	"github.com/banshee-data/sitegrid/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a simulation config JSON (default "+config.DefaultConfigPath+" when present)")
	variantFlag = flag.String("variant", "", "Effect variant: growth or vein (overrides config)")
	ticksFlag   = flag.Int("ticks", -1, "Number of ticks to run (overrides config)")
	dbFlag      = flag.String("db", "", "Snapshot database path (overrides config)")
	seedFlag    = flag.Uint64("seed", 0, "Random seed (overrides config; 0 keeps config or picks one)")
	resume      = flag.Bool("resume", true, "Restore the latest snapshot of the same variant before running")
	plotPath    = flag.String("plot", "", "Write a PNG scatter of final site placements to this path")
	chartPath   = flag.String("chart", "", "Write an HTML chart of chanced pick odds to this path")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if flag.NArg() > 0 {
		if err := runCommand(os.Stdout, cfg.GetDBPath(), cfg.GetVariant(), flag.Args()); err != nil {
			log.Fatalf("%s failed: %v", flag.Arg(0), err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := runOptions{Resume: *resume, PlotPath: *plotPath, ChartPath: *chartPath}
	if err := run(ctx, cfg, opts); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

// loadConfig reads path, or the defaults file when path is empty and the
// file exists, or falls back to the built-in defaults.
func loadConfig(path string) (*config.SimConfig, error) {
	if path != "" {
		return config.LoadSimConfig(path)
	}
	if _, err := os.Stat(config.DefaultConfigPath); err == nil {
		return config.LoadSimConfig(config.DefaultConfigPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return config.DefaultSimConfig(), nil
}

func applyFlags(cfg *config.SimConfig) {
	if *variantFlag != "" {
		cfg.Variant = variantFlag
	}
	if *ticksFlag >= 0 {
		cfg.Ticks = ticksFlag
	}
	if *dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	if *seedFlag != 0 {
		cfg.Seed = seedFlag
	}
}
