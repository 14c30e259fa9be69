package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/banshee-data/sitegrid/internal/config"
	"github.com/banshee-data/sitegrid/internal/effects"
	"github.com/banshee-data/sitegrid/internal/fsutil"
	"github.com/banshee-data/sitegrid/internal/grid"
	"github.com/banshee-data/sitegrid/internal/randsrc"
	"github.com/banshee-data/sitegrid/internal/report"
	"github.com/banshee-data/sitegrid/internal/security"
	"github.com/banshee-data/sitegrid/internal/sites"
	"github.com/banshee-data/sitegrid/internal/storage/sqlite"
	"github.com/banshee-data/sitegrid/internal/timeutil"
	"github.com/banshee-data/sitegrid/internal/world"
)

type runOptions struct {
	Resume    bool
	PlotPath  string
	ChartPath string
	// Clock paces ticks and stamps snapshots. Nil means the wall clock.
	Clock timeutil.Clock
	// FS receives report outputs. Nil means the OS filesystem.
	FS fsutil.FileSystem
}

// runSummary is what a finished run reports back.
type runSummary struct {
	EffectID   string
	Origin     grid.Pos
	Size       float64
	Seed       uint64
	Ticks      int
	Placed     int
	Removed    int
	Snapshots  int
	Restored   bool
	FinalCount int
	Spread     sites.Spread
}

func run(ctx context.Context, cfg *config.SimConfig, opts runOptions) error {
	var (
		sum runSummary
		err error
	)
	switch cfg.GetVariant() {
	case config.VariantVein:
		sum, err = runEffect(ctx, effects.VeinVariant(), cfg, opts)
	default:
		sum, err = runEffect(ctx, effects.GrowthVariant(), cfg, opts)
	}
	if err != nil {
		return err
	}
	log.Printf("[effect] run complete: effect=%s seed=%d ticks=%d placed=%d removed=%d snapshots=%d sites=%d mean_dist=%.2f stddev=%.2f edge=%.2f",
		sum.EffectID, sum.Seed, sum.Ticks, sum.Placed, sum.Removed, sum.Snapshots, sum.FinalCount,
		sum.Spread.Mean, sum.Spread.StdDev, sum.Spread.EdgeFraction)
	return nil
}

func runEffect[E sites.Element](ctx context.Context, v effects.Variant[E], cfg *config.SimConfig, opts runOptions) (runSummary, error) {
	var sum runSummary

	for _, p := range []string{opts.PlotPath, opts.ChartPath} {
		if p == "" {
			continue
		}
		if err := security.ValidateOutputPath(p); err != nil {
			return sum, err
		}
	}
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}

	seed, err := randsrc.Resolve(cfg.GetSeed())
	if err != nil {
		return sum, err
	}
	sum.Seed = seed
	rng := randsrc.New(seed)

	o := cfg.GetOrigin()
	origin := grid.P(o[0], o[1], o[2])

	gp := world.DefaultGenerateParams()
	gp.ChunkRadius = cfg.GetChunkRadius()
	gp.OreChance = cfg.GetOreChance()
	w, err := world.Generate(rng, origin, gp)
	if err != nil {
		return sum, fmt.Errorf("generate world: %w", err)
	}
	log.Printf("[world] generated %d chunks around %s (seed=%d)", w.LoadedChunks(), origin, seed)

	store, err := sqlite.Open(cfg.GetDBPath())
	if err != nil {
		return sum, fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()

	eff, err := effects.New(v, effects.Params{Origin: origin, Size: cfg.GetSize(), Capacity: cfg.GetCapacity()}, rng)
	if err != nil {
		return sum, err
	}
	eff.Clock = clock

	if opts.Resume {
		snap, err := store.LatestSnapshotByKind(v.Kind)
		switch {
		case errors.Is(err, sqlite.ErrSnapshotNotFound):
			log.Printf("[effect] no %s snapshot to resume, starting fresh", v.Kind)
		case err != nil:
			return sum, fmt.Errorf("load latest snapshot: %w", err)
		default:
			if err := eff.Restore(snap); err != nil {
				return sum, fmt.Errorf("restore snapshot %d: %w", snap.SnapshotID, err)
			}
			sum.Restored = true
			log.Printf("[effect] resumed %s %s from snapshot %d with %d sites", eff.Kind, eff.ID, snap.SnapshotID, eff.Sites.Count())
			// The world was generated around the configured origin, so the
			// configured placement wins over the snapshot's.
			if eff.Origin != origin || eff.Size != cfg.GetSize() {
				log.Printf("[effect] snapshot origin %s size %g differ from config origin %s size %g, using config",
					eff.Origin, eff.Size, origin, cfg.GetSize())
				eff.Origin = origin
				eff.Size = cfg.GetSize()
			}
		}
	}
	sum.EffectID = eff.ID
	sum.Origin = eff.Origin
	sum.Size = eff.Size

	persist := func(reason string) error {
		if _, err := eff.Persist(store, reason); err != nil {
			return err
		}
		sum.Snapshots++
		if keep := cfg.GetKeepSnapshots(); keep > 0 {
			if _, err := store.PruneSnapshots(eff.ID, keep); err != nil {
				return fmt.Errorf("prune snapshots: %w", err)
			}
		}
		return nil
	}

	var tick <-chan time.Time
	if d := cfg.GetTickInterval(); d > 0 {
		t := clock.NewTicker(d)
		defer t.Stop()
		tick = t.C()
	}

	every := cfg.GetSnapshotEvery()
loop:
	for i := 0; i < cfg.GetTicks(); i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				break loop
			case <-tick:
			}
		} else if ctx.Err() != nil {
			break loop
		}

		res := eff.Tick(w)
		sum.Ticks++
		if res.Placed {
			sum.Placed++
		}
		if res.Removed {
			sum.Removed++
		}
		if every > 0 && sum.Ticks%every == 0 {
			if err := persist("periodic"); err != nil {
				return sum, err
			}
		}
	}

	if err := persist("final"); err != nil {
		return sum, err
	}
	sum.FinalCount = eff.Sites.Count()
	sum.Spread = eff.Sites.Spread(origin)

	if opts.PlotPath != "" {
		path := plotFile(fsys, opts.PlotPath, eff.Kind, eff.ID)
		if err := report.PlotPlacements(fsys, eff.Sites.Positions(), origin, fmt.Sprintf("%s sites (%s)", eff.Kind, eff.ID), path); err != nil {
			return sum, err
		}
		log.Printf("[report] wrote placements plot to %s", path)
	}
	if opts.ChartPath != "" {
		if err := report.WriteChanceChart(fsys, opts.ChartPath, eff.Sites.Capacity()); err != nil {
			return sum, err
		}
		log.Printf("[report] wrote chance chart to %s", opts.ChartPath)
	}
	return sum, nil
}

// plotFile names the plot after the effect when path is an existing
// directory.
func plotFile(fsys fsutil.FileSystem, path, kind, effectID string) string {
	if fsys.IsDir(path) {
		return filepath.Join(path, security.SanitizeFilename(kind+"_"+effectID)+".png")
	}
	return path
}
