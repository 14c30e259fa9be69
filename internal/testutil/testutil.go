// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"path/filepath"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TempDBPath returns a sqlite file path inside a per-test temp directory.
func TempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "sites.db")
}

// ScriptedRand is a deterministic random source. Float32 and IntN replay
// their scripts in order and then repeat the last value; an empty script
// yields 0. Every call is counted.
type ScriptedRand struct {
	Floats []float32
	Ints   []int

	FloatCalls int
	IntCalls   int
	// Bounds records the n passed to each IntN call.
	Bounds []int
}

func (r *ScriptedRand) Float32() float32 {
	r.FloatCalls++
	if len(r.Floats) == 0 {
		return 0
	}
	i := min(r.FloatCalls-1, len(r.Floats)-1)
	return r.Floats[i]
}

// IntN returns the next scripted value reduced modulo n.
func (r *ScriptedRand) IntN(n int) int {
	r.IntCalls++
	r.Bounds = append(r.Bounds, n)
	if len(r.Ints) == 0 || n <= 0 {
		return 0
	}
	i := min(r.IntCalls-1, len(r.Ints)-1)
	return r.Ints[i] % n
}
