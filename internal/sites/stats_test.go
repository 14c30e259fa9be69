package sites

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/sitegrid/internal/grid"
	"github.com/banshee-data/sitegrid/internal/testutil"
)

func TestSpreadOf(t *testing.T) {
	t.Parallel()
	origin := grid.P(0, 0, 0)

	assert.Equal(t, Spread{}, SpreadOf(nil, origin))

	one := SpreadOf([]grid.Pos{grid.P(3, 0, 0)}, origin)
	assert.Equal(t, Spread{Count: 1, Mean: 3, StdDev: 0, Max: 3, EdgeFraction: 1}, one)

	s := SpreadOf([]grid.Pos{grid.P(1, 0, 0), grid.P(0, -3, 0), grid.P(2, 2, 3), grid.P(0, 0, 0)}, origin)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 1.75, s.Mean, 1e-9)
	// sample std-dev of {1, 3, 3, 0}
	assert.InDelta(t, math.Sqrt(6.75/3), s.StdDev, 1e-9)
	assert.Equal(t, 3.0, s.Max)
	assert.InDelta(t, 0.5, s.EdgeFraction, 1e-9)
}

func TestRegistrySpread(t *testing.T) {
	t.Parallel()
	r, _, _ := newTestRegistry(t, 4, &testutil.ScriptedRand{})
	seed(r, grid.P(10, 10, 10), grid.P(12, 10, 10))
	s := r.Spread(grid.P(10, 10, 10))
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 1.0, s.Mean, 1e-9)
	assert.Equal(t, 2.0, s.Max)
}
