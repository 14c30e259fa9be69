// Package randsrc builds the seeded random sources that drive site searches.
package randsrc

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// streamSalt separates the second PCG word from the seed.
const streamSalt = 0x9e3779b97f4a7c15

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// New returns a deterministic generator for seed. Two generators built from
// the same seed produce the same sequence.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^streamSalt))
}

// Resolve returns the configured seed when set, otherwise a fresh one.
func Resolve(seed uint64, ok bool) (uint64, error) {
	if ok {
		return seed, nil
	}
	return NewSeed()
}
