// Package testutil provides shared helpers for tests that exercise kernels
// through the dispatch layer: lane construction and float64 comparison.
package testutil

import (
	"testing"

	"github.com/example/go-parfunc/internal/ufunc"
)

// Ramp returns [0, 1, ..., n-1] as float64 values.
func Ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}

	return out
}

// ContiguousSteps returns n byte steps of ufunc.ElemSize each, the layout of
// densely packed float64 lanes.
func ContiguousSteps(n int) []int64 {
	steps := make([]int64, n)
	for i := range steps {
		steps[i] = ufunc.ElemSize
	}

	return steps
}

// RequireEqualF64 fails the test if got and want differ at any position.
// Comparison is bitwise-exact equality, matching the dispatch round-trip
// guarantee.
func RequireEqualF64(tb testing.TB, got, want []float64) {
	tb.Helper()

	if len(got) != len(want) {
		tb.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			tb.Fatalf("values differ at %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
