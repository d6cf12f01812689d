// Package coord provides the compare-and-swap primitive the worker pool uses
// for its internal signaling, behind a process-global swappable registration.
//
// The pool never calls sync/atomic directly for its state transitions; it
// goes through the registered CASFunc. The indirection keeps the pool
// decoupled from whatever produced the primitive and gives the primitive an
// explicit teardown contract: once cleared (see Guard), calls degrade to a
// safe read-only no-op instead of touching a released implementation.
package coord

import "sync/atomic"

// CASFunc is a compare-and-swap over a single machine word. On match it
// stores desired and returns expected; on mismatch it leaves memory
// unmodified and returns the actual current value.
type CASFunc func(addr *uint64, expected, desired uint64) uint64

var casFn atomic.Pointer[CASFunc]

func init() {
	Register(Default)
}

// Default is the stable process-lifetime implementation, built on
// sync/atomic.
func Default(addr *uint64, expected, desired uint64) uint64 {
	if atomic.CompareAndSwapUint64(addr, expected, desired) {
		return expected
	}

	return atomic.LoadUint64(addr)
}

// Register installs fn as the process-wide primitive. A nil fn clears the
// registration, leaving subsequent CAS calls in the neutral no-op state.
func Register(fn CASFunc) {
	if fn == nil {
		casFn.Store(nil)
		return
	}

	casFn.Store(&fn)
}

// Clear removes the registered primitive. Residual CAS calls after Clear are
// neutral no-ops, never a jump into a torn-down implementation.
func Clear() {
	casFn.Store(nil)
}

// Registered reports whether a primitive is currently installed.
func Registered() bool {
	return casFn.Load() != nil
}

// CAS invokes the registered primitive. With no primitive registered it
// returns the current value at addr without writing.
func CAS(addr *uint64, expected, desired uint64) uint64 {
	fn := casFn.Load()
	if fn == nil {
		return atomic.LoadUint64(addr)
	}

	return (*fn)(addr, expected, desired)
}
