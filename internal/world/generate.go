package world

import (
	"fmt"
	"math/rand/v2"

	"github.com/banshee-data/sitegrid/internal/grid"
)

// GenerateParams controls terrain generation around a center position.
type GenerateParams struct {
	// ChunkRadius is how many chunks to load on each side of the center chunk.
	ChunkRadius int
	// Depth is the number of solid layers below the surface.
	Depth int
	// SurfaceJitter is the maximum surface height deviation from center.Y.
	SurfaceJitter int
	// OreChance is the probability that a stone cell becomes ore.
	OreChance float64
	// GoldShare is the fraction of ore cells that are gold rather than iron.
	GoldShare float64
}

// DefaultGenerateParams returns small terrain suitable for a single effect.
func DefaultGenerateParams() GenerateParams {
	return GenerateParams{
		ChunkRadius:   1,
		Depth:         8,
		SurfaceJitter: 1,
		OreChance:     0.05,
		GoldShare:     0.2,
	}
}

// Generate loads the chunks around center and fills them with layered
// terrain: grass on top, a few layers of dirt, stone with scattered ore below.
func Generate(rng *rand.Rand, center grid.Pos, p GenerateParams) (*World, error) {
	if p.ChunkRadius < 0 || p.Depth < 1 || p.SurfaceJitter < 0 {
		return nil, fmt.Errorf("invalid generate params: %+v", p)
	}
	if p.OreChance < 0 || p.OreChance > 1 || p.GoldShare < 0 || p.GoldShare > 1 {
		return nil, fmt.Errorf("ore chances must be within [0, 1]: %+v", p)
	}

	w := New()
	cc := center.Chunk()
	for cx := cc.X - p.ChunkRadius; cx <= cc.X+p.ChunkRadius; cx++ {
		for cz := cc.Z - p.ChunkRadius; cz <= cc.Z+p.ChunkRadius; cz++ {
			chunk := grid.ChunkPos{X: cx, Z: cz}
			w.LoadChunk(chunk)
			fillChunk(w, rng, chunk, center.Y, p)
		}
	}
	return w, nil
}

func fillChunk(w *World, rng *rand.Rand, chunk grid.ChunkPos, baseY int, p GenerateParams) {
	for dx := 0; dx < grid.ChunkSize; dx++ {
		for dz := 0; dz < grid.ChunkSize; dz++ {
			x := chunk.X*grid.ChunkSize + dx
			z := chunk.Z*grid.ChunkSize + dz
			top := baseY
			if p.SurfaceJitter > 0 {
				top += rng.IntN(2*p.SurfaceJitter+1) - p.SurfaceJitter
			}
			for d := 0; d < p.Depth; d++ {
				at := grid.P(x, top-d, z)
				switch {
				case d == 0:
					w.SetBlock(at, Block{ID: Grass})
				case d < 3:
					w.SetBlock(at, Block{ID: Dirt})
				case rng.Float64() < p.OreChance:
					if rng.Float64() < p.GoldShare {
						w.SetBlock(at, Block{ID: Gold})
					} else {
						w.SetBlock(at, Block{ID: Iron})
					}
				default:
					w.SetBlock(at, Block{ID: Stone})
				}
			}
		}
	}
}
