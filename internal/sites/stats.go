package sites

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/sitegrid/internal/grid"
)

// Spread summarizes how far elements sit from an origin, in Chebyshev
// (per-axis maximum) block distance.
type Spread struct {
	Count  int
	Mean   float64
	StdDev float64
	Max    float64
	// EdgeFraction is the share of elements exactly Max blocks away.
	EdgeFraction float64
}

// Spread computes placement statistics for the held elements around origin.
func (r *Registry[E, S]) Spread(origin grid.Pos) Spread {
	return SpreadOf(r.Positions(), origin)
}

// SpreadOf computes placement statistics for positions around origin.
func SpreadOf(positions []grid.Pos, origin grid.Pos) Spread {
	if len(positions) == 0 {
		return Spread{}
	}
	dist := make([]float64, len(positions))
	for i, p := range positions {
		dist[i] = float64(p.Chebyshev(origin))
	}
	mean, std := stat.MeanStdDev(dist, nil)
	if len(dist) == 1 {
		std = 0
	}
	maxD := floats.Max(dist)
	edge := 0
	for _, d := range dist {
		if d == maxD {
			edge++
		}
	}
	return Spread{
		Count:        len(dist),
		Mean:         mean,
		StdDev:       std,
		Max:          maxD,
		EdgeFraction: float64(edge) / float64(len(dist)),
	}
}
