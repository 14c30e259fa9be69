package effects

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sitegrid/internal/grid"
	"github.com/banshee-data/sitegrid/internal/monitoring"
	"github.com/banshee-data/sitegrid/internal/sites"
	"github.com/banshee-data/sitegrid/internal/tag"
	"github.com/banshee-data/sitegrid/internal/testutil"
	"github.com/banshee-data/sitegrid/internal/timeutil"
	"github.com/banshee-data/sitegrid/internal/world"
)

type mockSnapshotStore struct {
	lastID    int64
	insertErr error
	snapshots []*Snapshot
}

func (m *mockSnapshotStore) InsertSnapshot(s *Snapshot) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.lastID++
	m.snapshots = append(m.snapshots, s)
	return m.lastID, nil
}

// flatWorld is one loaded chunk with a grass surface at y=10 over stone,
// with a single iron block at (8, 9, 8).
func flatWorld() *world.World {
	w := world.New()
	w.LoadChunk(grid.ChunkPos{})
	for x := 0; x < grid.ChunkSize; x++ {
		for z := 0; z < grid.ChunkSize; z++ {
			w.SetBlock(grid.P(x, 10, z), world.Block{ID: world.Grass})
			w.SetBlock(grid.P(x, 9, z), world.Block{ID: world.Stone})
		}
	}
	w.SetBlock(grid.P(8, 9, 8), world.Block{ID: world.Iron})
	return w
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	rng := &testutil.ScriptedRand{}

	_, err := New(GrowthVariant(), Params{Size: -1, Capacity: 4}, rng)
	assert.Error(t, err)

	noPulse := GrowthVariant()
	noPulse.Pulse = nil
	_, err = New(noPulse, Params{Capacity: 4}, rng)
	assert.Error(t, err)

	_, err = New(GrowthVariant(), Params{Capacity: 0}, rng)
	assert.ErrorIs(t, err, sites.ErrInvalidCapacity)

	e, err := New(GrowthVariant(), Params{Origin: grid.P(1, 2, 3), Size: 2, Capacity: 4}, rng)
	require.NoError(t, err)
	_, err = uuid.Parse(e.ID)
	assert.NoError(t, err)
	assert.Equal(t, KindGrowth, e.Kind)
	assert.Equal(t, 4, e.Sites.Capacity())
}

func TestTick_PlacesGrowthOnExposedGrass(t *testing.T) {
	t.Parallel()
	// size 2: 0.5 -> +0.5 -> origin cell. Chanced gate draws fail (1 % 3).
	rng := &testutil.ScriptedRand{Floats: []float32{0.5}, Ints: []int{1}}
	e, err := New(GrowthVariant(), Params{Origin: grid.P(4, 10, 4), Size: 2, Capacity: 8}, rng)
	require.NoError(t, err)

	res := e.Tick(flatWorld())
	assert.True(t, res.Placed)
	assert.False(t, res.Pulsed)
	assert.True(t, e.Sites.HasElement(grid.P(4, 10, 4)))
	assert.Equal(t, int64(1), e.Ticks)

	// Same cell again is occupied.
	res = e.Tick(flatWorld())
	assert.False(t, res.Placed)
	assert.Equal(t, 1, e.Sites.Count())
}

func TestTick_GrowthIsHarvestedAtMaxStage(t *testing.T) {
	t.Parallel()
	// Origin one block below the surface: stone, never qualifies.
	rng := &testutil.ScriptedRand{Floats: []float32{0.5}, Ints: []int{0}}
	e, err := New(GrowthVariant(), Params{Origin: grid.P(4, 9, 4), Size: 0, Capacity: 4}, rng)
	require.NoError(t, err)
	env := flatWorld()

	g, ok := e.Sites.CreateElement(env, grid.P(2, 10, 2))
	require.True(t, ok)
	c := tag.NewCompound()
	list := &tag.RecordList{}
	list.Append(g.Pos(), nil)
	c.SetList(sites.KeyElements, list.Compounds())
	require.NoError(t, e.Sites.Read(c))

	for stage := 1; stage < GrowthMaxStage; stage++ {
		res := e.Tick(env)
		require.True(t, res.Pulsed)
		assert.False(t, res.Removed)
		assert.Equal(t, int64(stage), e.Sites.Elements()[0].Stage)
	}
	res := e.Tick(env)
	assert.True(t, res.Pulsed)
	assert.True(t, res.Removed)
	assert.Equal(t, grid.P(2, 10, 2), res.At)
	assert.Equal(t, 0, e.Sites.Count())
}

func TestVeinFactory(t *testing.T) {
	t.Parallel()
	env := flatWorld()

	_, ok := NewVein(nil, grid.P(8, 9, 8))
	assert.False(t, ok, "declines without a world")

	_, ok = NewVein(env, grid.P(7, 9, 8))
	assert.False(t, ok, "declines on stone")

	v, ok := NewVein(env, grid.P(8, 9, 8))
	require.True(t, ok)
	assert.Equal(t, world.Iron, v.Ore)
}

func TestTick_VeinExhausts(t *testing.T) {
	t.Parallel()
	rng := &testutil.ScriptedRand{Floats: []float32{0.5}, Ints: []int{0}}
	e, err := New(VeinVariant(), Params{Origin: grid.P(8, 9, 8), Size: 1, Capacity: 2}, rng)
	require.NoError(t, err)
	env := flatWorld()

	res := e.Tick(env)
	require.True(t, res.Placed)
	require.True(t, res.Pulsed)
	for i := 1; i < VeinYield; i++ {
		res = e.Tick(env)
		if res.Removed {
			break
		}
	}
	assert.True(t, res.Removed)
	assert.Equal(t, 0, e.Sites.Count())
}

func TestSnapshot_GrowthRoundTrip(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(3, 4))
	w, err := world.Generate(rng, grid.P(0, 64, 0), world.DefaultGenerateParams())
	require.NoError(t, err)

	src, err := New(GrowthVariant(), Params{Origin: grid.P(0, 64, 0), Size: 6, Capacity: 16}, rng)
	require.NoError(t, err)
	for i := 0; i < 600; i++ {
		src.Sites.FindNewPosition(w, src.Origin, src.Size)
	}
	require.Positive(t, src.Sites.Count())
	for i, g := range src.Sites.Elements() {
		g.Stage = int64(i % GrowthMaxStage)
	}
	src.Ticks = 600

	snap, err := src.ToSnapshot("test")
	require.NoError(t, err)
	assert.Equal(t, src.ID, snap.EffectID)
	assert.Equal(t, KindGrowth, snap.Kind)
	assert.Equal(t, src.Sites.Count(), snap.ElementCount)
	assert.Equal(t, 16, snap.Capacity)

	dst, err := New(GrowthVariant(), Params{Capacity: 16}, rand.New(rand.NewPCG(9, 9)))
	require.NoError(t, err)
	require.NoError(t, dst.Restore(snap))

	assert.Equal(t, src.ID, dst.ID)
	assert.Equal(t, src.Origin, dst.Origin)
	assert.Equal(t, src.Size, dst.Size)
	assert.Equal(t, src.Ticks, dst.Ticks)
	opt := cmp.AllowUnexported(Growth{})
	if diff := cmp.Diff(src.Sites.Elements(), dst.Sites.Elements(), opt); diff != "" {
		t.Fatalf("restored sites mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_VeinsAreDroppedOnLoad(t *testing.T) {
	lines, restore := monitoring.Capture()
	defer restore()

	rng := &testutil.ScriptedRand{Floats: []float32{0.5}, Ints: []int{1}}
	src, err := New(VeinVariant(), Params{Origin: grid.P(8, 9, 8), Size: 1, Capacity: 2}, rng)
	require.NoError(t, err)
	require.True(t, src.Tick(flatWorld()).Placed)

	snap, err := src.ToSnapshot("test")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.ElementCount)

	dst, err := New(VeinVariant(), Params{Capacity: 2}, rng)
	require.NoError(t, err)
	require.NoError(t, dst.Restore(snap))
	assert.Equal(t, 0, dst.Sites.Count())
	assert.Equal(t, int64(1), dst.Ticks)
	assert.Contains(t, (*lines)[len(*lines)-1], "0 of 1 sites survived load")
}

func TestRestore_Errors(t *testing.T) {
	t.Parallel()
	rng := &testutil.ScriptedRand{}
	growth, err := New(GrowthVariant(), Params{Capacity: 2}, rng)
	require.NoError(t, err)
	vein, err := New(VeinVariant(), Params{Capacity: 2}, rng)
	require.NoError(t, err)

	assert.Error(t, growth.Restore(nil))
	assert.ErrorIs(t, growth.Restore(&Snapshot{}), tag.ErrEmptyBlob)

	snap, err := vein.ToSnapshot("other")
	require.NoError(t, err)
	assert.ErrorIs(t, growth.Restore(snap), ErrKindMismatch)

	// An out-of-range stage fails the payload read.
	c := growth.Encode()
	rec := tag.NewCompound()
	tag.WritePos(rec, grid.P(1, 1, 1))
	bad := tag.NewCompound()
	bad.SetInt("stage", GrowthMaxStage+1)
	rec.SetCompound(tag.KeyData, bad)
	c.SetList(sites.KeyElements, []*tag.Compound{rec})
	blob, err := tag.Encode(c)
	require.NoError(t, err)
	err = growth.Restore(&Snapshot{Blob: blob})
	assert.ErrorContains(t, err, "out of range")
}

func TestRestore_RejectsInvalidSize(t *testing.T) {
	t.Parallel()
	rng := &testutil.ScriptedRand{}
	src, err := New(GrowthVariant(), Params{Origin: grid.P(1, 2, 3), Size: 2, Capacity: 2}, rng)
	require.NoError(t, err)

	for _, size := range []float64{-1, math.NaN(), math.Inf(1)} {
		dst, err := New(GrowthVariant(), Params{Size: 5, Capacity: 2}, rng)
		require.NoError(t, err)

		c := src.Encode()
		c.SetFloat("size", size)
		blob, err := tag.Encode(c)
		require.NoError(t, err)

		err = dst.Restore(&Snapshot{Blob: blob})
		assert.ErrorContains(t, err, "size must be non-negative", "size %g", size)
		assert.Equal(t, 5.0, dst.Size, "failed restore must leave size untouched")
		assert.NotEqual(t, src.ID, dst.ID)
	}

	_, err = New(GrowthVariant(), Params{Size: math.NaN(), Capacity: 2}, rng)
	assert.Error(t, err)
}

func TestPersist(t *testing.T) {
	lines, restore := monitoring.Capture()
	defer restore()

	rng := &testutil.ScriptedRand{Floats: []float32{0.5}, Ints: []int{1}}
	e, err := New(GrowthVariant(), Params{Origin: grid.P(4, 10, 4), Size: 2, Capacity: 8}, rng)
	require.NoError(t, err)
	e.Tick(flatWorld())
	taken := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e.Clock = timeutil.NewMockClock(taken)

	id, err := e.Persist(nil, "noop")
	assert.NoError(t, err)
	assert.Zero(t, id)

	store := &mockSnapshotStore{}
	id, err = e.Persist(store, "manual")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.Len(t, store.snapshots, 1)
	assert.Equal(t, "manual", store.snapshots[0].Reason)
	assert.Equal(t, taken.UnixNano(), store.snapshots[0].TakenUnixNanos)
	assert.Equal(t, 1, store.snapshots[0].ElementCount)
	assert.NotEmpty(t, store.snapshots[0].Blob)
	assert.Contains(t, (*lines)[len(*lines)-1], "sites=1/8")

	boom := errors.New("disk full")
	_, err = e.Persist(&mockSnapshotStore{insertErr: boom}, "manual")
	assert.ErrorIs(t, err, boom)
}

func TestLongRun_NeverExceedsCapacity(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(11, 12))
	p := world.DefaultGenerateParams()
	p.OreChance = 0.3
	w, err := world.Generate(rng, grid.P(0, 64, 0), p)
	require.NoError(t, err)

	e, err := New(VeinVariant(), Params{Origin: grid.P(0, 58, 0), Size: 5, Capacity: 6}, rng)
	require.NoError(t, err)
	placed := 0
	for i := 0; i < 2000; i++ {
		if e.Tick(w).Placed {
			placed++
		}
		require.LessOrEqual(t, e.Sites.Count(), 6)
	}
	assert.Positive(t, placed)
}
