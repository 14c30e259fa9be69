package sites

import (
	"errors"
	"fmt"
	"slices"

	"github.com/banshee-data/sitegrid/internal/grid"
)

var (
	// ErrInvalidCapacity indicates a registry built with capacity <= 0.
	ErrInvalidCapacity = errors.New("sites: capacity must be positive")
	// ErrNilDependency indicates a registry built without a verifier, factory or random source.
	ErrNilDependency = errors.New("sites: nil dependency")
)

// Registry holds at most Capacity elements, no two at the same position.
// Insertion order is kept so that persisted records come out in a stable order.
type Registry[E Element, S any] struct {
	capacity int
	verifier Predicate[S]
	factory  Factory[E, S]
	rng      Rand

	elements []E
}

// New creates an empty registry.
func New[E Element, S any](capacity int, verifier Predicate[S], factory Factory[E, S], rng Rand) (*Registry[E, S], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCapacity, capacity)
	}
	if verifier == nil || factory == nil || rng == nil {
		return nil, ErrNilDependency
	}
	return &Registry[E, S]{
		capacity: capacity,
		verifier: verifier,
		factory:  factory,
		rng:      rng,
	}, nil
}

// Count returns the number of held elements.
func (r *Registry[E, S]) Count() int { return len(r.elements) }

// Capacity returns the fixed element ceiling.
func (r *Registry[E, S]) Capacity() int { return r.capacity }

// Clear drops every element.
func (r *Registry[E, S]) Clear() {
	clear(r.elements)
	r.elements = r.elements[:0]
}

// CreateElement invokes the registry's factory without adding the result.
func (r *Registry[E, S]) CreateElement(env Environment[S], pos grid.Pos) (E, bool) {
	return r.factory(env, pos)
}

// RandomElement returns a uniformly chosen element, or false when empty.
func (r *Registry[E, S]) RandomElement() (E, bool) {
	if len(r.elements) == 0 {
		var zero E
		return zero, false
	}
	return r.elements[r.rng.IntN(len(r.elements))], true
}

// RandomElementChanced returns a random element with probability
// 1/ChanceThreshold(capacity, count), so the odds rise as the registry fills.
func (r *Registry[E, S]) RandomElementChanced() (E, bool) {
	if len(r.elements) == 0 {
		var zero E
		return zero, false
	}
	if r.rng.IntN(ChanceThreshold(r.capacity, len(r.elements))) == 0 {
		return r.RandomElement()
	}
	var zero E
	return zero, false
}

// ChanceThreshold is the 1-in-N odds of a chanced pick succeeding for a
// registry holding count of capacity elements. It is 1 once the registry is
// within four elements of full.
func ChanceThreshold(capacity, count int) int {
	return max(0, capacity-count)/4 + 1
}

// FindNewPosition makes a single randomized attempt to place a new element
// within size blocks of origin. It reports whether an element was added.
// Callers retry on later ticks; there is no internal retry. A nil env fails
// the attempt; an env holding a nil pointer must itself report nothing loaded.
func (r *Registry[E, S]) FindNewPosition(env Environment[S], origin grid.Pos, size float64) bool {
	if len(r.elements) >= r.capacity {
		return false
	}
	// Offsets are drawn from [-size, size+1) and floored, so both -size and
	// +size cells are reachable.
	span := 2*size + 1
	rx := -size + float64(r.rng.Float32())*span
	ry := -size + float64(r.rng.Float32())*span
	rz := -size + float64(r.rng.Float32())*span
	at := origin.Offset(rx, ry, rz)

	if env == nil || !env.IsLoaded(at) {
		return false
	}
	if !r.verifier.Test(env, at, env.SiteAt(at)) || r.HasElement(at) {
		return false
	}
	e, ok := r.factory(env, at)
	if !ok {
		return false
	}
	r.elements = append(r.elements, e)
	return true
}

// RemoveElement removes the element at pos and reports whether one existed.
func (r *Registry[E, S]) RemoveElement(pos grid.Pos) bool {
	n := len(r.elements)
	r.elements = slices.DeleteFunc(r.elements, func(e E) bool { return e.Pos() == pos })
	return len(r.elements) != n
}

// HasElement reports whether an element sits at pos.
func (r *Registry[E, S]) HasElement(pos grid.Pos) bool {
	return r.indexOf(pos) >= 0
}

// Elements returns a copy of the held elements in insertion order.
func (r *Registry[E, S]) Elements() []E {
	return slices.Clone(r.elements)
}

// Positions returns the positions of the held elements in insertion order.
func (r *Registry[E, S]) Positions() []grid.Pos {
	out := make([]grid.Pos, len(r.elements))
	for i, e := range r.elements {
		out[i] = e.Pos()
	}
	return out
}

func (r *Registry[E, S]) indexOf(pos grid.Pos) int {
	return slices.IndexFunc(r.elements, func(e E) bool { return e.Pos() == pos })
}
