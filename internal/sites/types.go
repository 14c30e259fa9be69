package sites

import (
	"github.com/banshee-data/sitegrid/internal/grid"
	"github.com/banshee-data/sitegrid/internal/tag"
)

// Element is one tracked position with variant-specific payload data.
type Element interface {
	Pos() grid.Pos
	WritePayload(c *tag.Compound)
	ReadPayload(c *tag.Compound) error
}

// Environment answers the two questions a registry asks of the world.
// S is the opaque site descriptor the world hands to predicates.
type Environment[S any] interface {
	IsLoaded(at grid.Pos) bool
	SiteAt(at grid.Pos) S
}

// Predicate decides whether a position qualifies for a new element.
type Predicate[S any] interface {
	Test(env Environment[S], at grid.Pos, site S) bool
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc[S any] func(env Environment[S], at grid.Pos, site S) bool

func (f PredicateFunc[S]) Test(env Environment[S], at grid.Pos, site S) bool {
	return f(env, at, site)
}

// Factory builds the element anchored at pos. env is nil when no world is
// available, as when reading persisted records. Returning false declines.
type Factory[E Element, S any] func(env Environment[S], pos grid.Pos) (E, bool)

// Rand is the random source a registry draws from. *math/rand/v2.Rand
// satisfies it.
type Rand interface {
	IntN(n int) int
	Float32() float32
}
