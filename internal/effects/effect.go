package effects

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/banshee-data/sitegrid/internal/grid"
	"github.com/banshee-data/sitegrid/internal/monitoring"
	"github.com/banshee-data/sitegrid/internal/sites"
	"github.com/banshee-data/sitegrid/internal/tag"
	"github.com/banshee-data/sitegrid/internal/timeutil"
	"github.com/banshee-data/sitegrid/internal/world"
)

// Variant kinds, stored with every snapshot.
const (
	KindGrowth = "growth"
	KindVein   = "vein"
)

// ErrKindMismatch is returned when restoring a snapshot of another variant.
var ErrKindMismatch = errors.New("effects: snapshot kind mismatch")

// Variant bundles what a concrete site type plugs into an Effect.
type Variant[E sites.Element] struct {
	Kind     string
	Verifier sites.Predicate[world.Block]
	Factory  sites.Factory[E, world.Block]
	// Pulse acts on a chanced element and reports whether it is used up.
	Pulse func(E) bool
}

// Params places and sizes an Effect.
type Params struct {
	Origin   grid.Pos
	Size     float64
	Capacity int
}

// Effect anchors a site registry at an origin and drives it once per tick.
type Effect[E sites.Element] struct {
	ID     string
	Kind   string
	Origin grid.Pos
	Size   float64
	Ticks  int64

	Sites *sites.Registry[E, world.Block]
	// Clock stamps snapshots.
	Clock timeutil.Clock

	pulse func(E) bool
}

// validSize rejects negative, NaN and infinite search sizes.
func validSize(size float64) bool {
	return size >= 0 && !math.IsInf(size, 1)
}

// TickResult reports what one Tick did.
type TickResult struct {
	Placed  bool
	Pulsed  bool
	Removed bool
	At      grid.Pos
}

// New builds an Effect with a fresh ID.
func New[E sites.Element](v Variant[E], p Params, rng sites.Rand) (*Effect[E], error) {
	if !validSize(p.Size) {
		return nil, fmt.Errorf("effect size must be non-negative, got %g", p.Size)
	}
	if v.Pulse == nil {
		return nil, fmt.Errorf("variant %q has no pulse", v.Kind)
	}
	reg, err := sites.New[E, world.Block](p.Capacity, v.Verifier, v.Factory, rng)
	if err != nil {
		return nil, fmt.Errorf("create %s registry: %w", v.Kind, err)
	}
	return &Effect[E]{
		ID:     uuid.New().String(),
		Kind:   v.Kind,
		Origin: p.Origin,
		Size:   p.Size,
		Sites:  reg,
		Clock:  timeutil.RealClock{},
		pulse:  v.Pulse,
	}, nil
}

// Tick makes one placement attempt, then pulses a chanced element. Elements
// whose pulse reports them used up are removed.
func (e *Effect[E]) Tick(env sites.Environment[world.Block]) TickResult {
	e.Ticks++
	res := TickResult{Placed: e.Sites.FindNewPosition(env, e.Origin, e.Size)}

	el, ok := e.Sites.RandomElementChanced()
	if !ok {
		return res
	}
	res.Pulsed = true
	res.At = el.Pos()
	if e.pulse(el) {
		res.Removed = e.Sites.RemoveElement(el.Pos())
	}
	return res
}

// Snapshot is one persisted Effect state.
type Snapshot struct {
	SnapshotID     int64
	EffectID       string
	Kind           string
	TakenUnixNanos int64
	Capacity       int
	ElementCount   int
	Reason         string
	Blob           []byte
}

// SnapshotStore persists snapshots. Implemented by sqlite.Store.
type SnapshotStore interface {
	InsertSnapshot(s *Snapshot) (int64, error)
}

// Encode writes the Effect state into a tag block.
func (e *Effect[E]) Encode() *tag.Compound {
	c := tag.NewCompound()
	c.SetStr("id", e.ID)
	c.SetStr("kind", e.Kind)
	origin := tag.NewCompound()
	tag.WritePos(origin, e.Origin)
	c.SetCompound("origin", origin)
	c.SetFloat("size", e.Size)
	c.SetInt("ticks", e.Ticks)
	e.Sites.Write(c)
	return c
}

// Decode restores the Effect state from a tag block produced by Encode.
func (e *Effect[E]) Decode(c *tag.Compound) error {
	if kind := c.Str("kind"); kind != e.Kind {
		return fmt.Errorf("%w: have %q, got %q", ErrKindMismatch, e.Kind, kind)
	}
	if size := c.Float("size"); !validSize(size) {
		return fmt.Errorf("restore %s: effect size must be non-negative, got %g", e.Kind, size)
	}
	if err := e.Sites.Read(c); err != nil {
		return fmt.Errorf("restore %s sites: %w", e.Kind, err)
	}
	if id := c.Str("id"); id != "" {
		e.ID = id
	}
	e.Origin = tag.ReadPos(c.Compound("origin"))
	e.Size = c.Float("size")
	e.Ticks = c.Int("ticks")
	return nil
}

// ToSnapshot encodes the Effect into a Snapshot ready for a store.
func (e *Effect[E]) ToSnapshot(reason string) (*Snapshot, error) {
	blob, err := tag.Encode(e.Encode())
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		EffectID:       e.ID,
		Kind:           e.Kind,
		TakenUnixNanos: e.Clock.Now().UnixNano(),
		Capacity:       e.Sites.Capacity(),
		ElementCount:   e.Sites.Count(),
		Reason:         reason,
		Blob:           blob,
	}, nil
}

// Restore loads a Snapshot produced by ToSnapshot.
func (e *Effect[E]) Restore(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("nil snapshot")
	}
	c, err := tag.Decode(s.Blob)
	if err != nil {
		return fmt.Errorf("decode snapshot %d: %w", s.SnapshotID, err)
	}
	if err := e.Decode(c); err != nil {
		return err
	}
	if e.Sites.Count() < s.ElementCount {
		monitoring.Logf("[effect] restored %s %s: %d of %d sites survived load",
			e.Kind, e.ID, e.Sites.Count(), s.ElementCount)
	}
	return nil
}

// Persist writes a snapshot through store and returns its ID.
func (e *Effect[E]) Persist(store SnapshotStore, reason string) (int64, error) {
	if store == nil {
		return 0, nil
	}
	snap, err := e.ToSnapshot(reason)
	if err != nil {
		return 0, err
	}
	id, err := store.InsertSnapshot(snap)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	spread := e.Sites.Spread(e.Origin)
	monitoring.Logf("[effect] persisted snapshot: id=%d effect=%s kind=%s reason=%s sites=%d/%d mean_dist=%.2f blob_size=%d bytes",
		id, e.ID, e.Kind, reason, snap.ElementCount, snap.Capacity, spread.Mean, len(snap.Blob))
	return id, nil
}
