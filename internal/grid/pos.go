// Package grid holds the integer block coordinate used by every site
// registry, plus the few helpers needed to move between continuous offsets,
// chunks and distances.
package grid

import (
	"fmt"
	"math"
)

// ChunkSize is the edge length, in blocks, of one loadable chunk column.
const ChunkSize = 16

// Pos is an immutable integer 3-tuple addressing one block cell.
type Pos struct {
	X int
	Y int
	Z int
}

// P is shorthand for Pos{X: x, Y: y, Z: z}.
func P(x, y, z int) Pos { return Pos{X: x, Y: y, Z: z} }

// Offset returns the cell containing p shifted by a continuous offset.
// Each axis is floored, so offsets in [-n, n+1) land on cells p-n..p+n.
func (p Pos) Offset(dx, dy, dz float64) Pos {
	if dx == 0 && dy == 0 && dz == 0 {
		return p
	}
	return Pos{
		X: int(math.Floor(float64(p.X) + dx)),
		Y: int(math.Floor(float64(p.Y) + dy)),
		Z: int(math.Floor(float64(p.Z) + dz)),
	}
}

// Add returns the component-wise sum of p and q.
func (p Pos) Add(q Pos) Pos { return Pos{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z} }

// Chunk returns the chunk column holding p.
func (p Pos) Chunk() ChunkPos {
	return ChunkPos{X: floorDiv(p.X, ChunkSize), Z: floorDiv(p.Z, ChunkSize)}
}

// Chebyshev returns the largest per-axis distance between p and q.
func (p Pos) Chebyshev(q Pos) int {
	return max(abs(p.X-q.X), abs(p.Y-q.Y), abs(p.Z-q.Z))
}

func (p Pos) String() string { return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z) }

// ChunkPos addresses a ChunkSize x ChunkSize column of cells.
type ChunkPos struct {
	X int
	Z int
}

func (c ChunkPos) String() string { return fmt.Sprintf("chunk[%d, %d]", c.X, c.Z) }

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
