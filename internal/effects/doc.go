// Package effects owns the concrete site variants and the Effect that drives
// a site registry once per simulation tick.
//
// Growth sites can be rebuilt from a position alone and survive a save/load
// cycle intact. Vein sites read their ore from the world when created, so
// their factory declines without a world and they are dropped on load.
package effects
