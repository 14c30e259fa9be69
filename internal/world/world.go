// Package world is an in-memory block world that serves as the environment
// for site registries: a set of loaded chunk columns and a sparse block map.
package world

import (
	"github.com/banshee-data/sitegrid/internal/grid"
)

// Block is the site descriptor handed to registry predicates.
type Block struct {
	ID string
}

// Common block IDs.
const (
	Air   = "air"
	Stone = "stone"
	Dirt  = "dirt"
	Grass = "grass"
	Iron  = "iron_ore"
	Gold  = "gold_ore"
)

// IsAir reports whether b is empty space.
func (b Block) IsAir() bool { return b.ID == "" || b.ID == Air }

// World is a sparse block grid. Unset cells read as air. It is not safe for
// concurrent use.
type World struct {
	loaded map[grid.ChunkPos]struct{}
	blocks map[grid.Pos]Block
}

// New returns an empty world with nothing loaded.
func New() *World {
	return &World{
		loaded: make(map[grid.ChunkPos]struct{}),
		blocks: make(map[grid.Pos]Block),
	}
}

// LoadChunk marks the chunk column as loaded.
func (w *World) LoadChunk(c grid.ChunkPos) { w.loaded[c] = struct{}{} }

// UnloadChunk marks the chunk column as unloaded. Its blocks are kept.
func (w *World) UnloadChunk(c grid.ChunkPos) { delete(w.loaded, c) }

// LoadedChunks returns the number of loaded chunk columns.
func (w *World) LoadedChunks() int { return len(w.loaded) }

// IsLoaded reports whether the chunk holding at is loaded. A nil world has
// nothing loaded.
func (w *World) IsLoaded(at grid.Pos) bool {
	if w == nil {
		return false
	}
	_, ok := w.loaded[at.Chunk()]
	return ok
}

// SiteAt returns the block at at. A nil world is all air.
func (w *World) SiteAt(at grid.Pos) Block {
	if w == nil {
		return Block{ID: Air}
	}
	if b, ok := w.blocks[at]; ok {
		return b
	}
	return Block{ID: Air}
}

// SetBlock places b at at. Setting air clears the cell.
func (w *World) SetBlock(at grid.Pos, b Block) {
	if b.IsAir() {
		delete(w.blocks, at)
		return
	}
	w.blocks[at] = b
}

// Count returns how many non-air blocks carry id.
func (w *World) Count(id string) int {
	n := 0
	for _, b := range w.blocks {
		if b.ID == id {
			n++
		}
	}
	return n
}
