package world

import (
	"slices"

	"github.com/banshee-data/sitegrid/internal/grid"
	"github.com/banshee-data/sitegrid/internal/sites"
)

// Matches accepts sites whose block ID is one of ids.
func Matches(ids ...string) sites.Predicate[Block] {
	return sites.PredicateFunc[Block](func(_ sites.Environment[Block], _ grid.Pos, b Block) bool {
		return slices.Contains(ids, b.ID)
	})
}

// Exposed accepts sites whose block ID is one of ids and that have air
// directly above them.
func Exposed(ids ...string) sites.Predicate[Block] {
	return sites.PredicateFunc[Block](func(env sites.Environment[Block], at grid.Pos, b Block) bool {
		if !slices.Contains(ids, b.ID) {
			return false
		}
		return env.SiteAt(at.Add(grid.P(0, 1, 0))).IsAir()
	})
}
