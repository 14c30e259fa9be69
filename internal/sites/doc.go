// Package sites tracks a bounded set of block positions in a simulated world
// that satisfy a validity predicate.
//
// A Registry discovers new positions one randomized trial at a time, hands
// out random elements (uniformly, or gated by how full the registry is), and
// persists its contents as an ordered list of position + payload records.
// Elements are only ever built through the registry's Factory, both when a
// new position is found and when records are read back.
//
// Registries are not safe for concurrent use. Owners drive them from a single
// simulation tick.
package sites
