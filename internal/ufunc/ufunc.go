// Package ufunc defines the calling convention shared by inner kernels and
// the parallel dispatch layer.
//
// An inner kernel is a compiled scalar (or small fixed-dimension) loop body
// with the fixed signature
//
//	func(args []Arg, dims []int64, steps []int64, userData any)
//
// where args holds one lane handle per input array followed by exactly one
// for the output array, dims[0] is the iteration count of the outer loop
// (followed, for generalized kernels, by fixed inner extents), and steps are
// per-lane byte strides. The dispatch layer never interprets the lane bytes
// itself; it only offsets the handles.
package ufunc

import (
	"encoding/binary"
	"math"
)

// Kernel is the fixed calling convention for inner kernels. A kernel must
// treat dims[0] == 0 as a no-op and return normally.
type Kernel func(args []Arg, dims []int64, steps []int64, userData any)

// Arg is an opaque handle to one lane's storage: a backing arena plus a
// signed byte offset into it. Sub-range handles are derived by adjusting Off
// only; the arena is shared.
type Arg struct {
	Buf []byte
	Off int64
}

// Float64 reads the float64 element at index idx, stepping step bytes per
// element from the handle's offset.
func (a Arg) Float64(idx, step int64) float64 {
	off := a.Off + idx*step
	return math.Float64frombits(binary.NativeEndian.Uint64(a.Buf[off : off+8]))
}

// PutFloat64 writes v at index idx, stepping step bytes per element.
func (a Arg) PutFloat64(idx, step int64, v float64) {
	off := a.Off + idx*step
	binary.NativeEndian.PutUint64(a.Buf[off:off+8], math.Float64bits(v))
}

// ElemSize is the byte width of a float64 lane element, the contiguous step.
const ElemSize = 8

// FromFloat64s packs vals into a fresh arena and returns a handle to its
// start. The resulting lane is contiguous (step ElemSize).
func FromFloat64s(vals []float64) Arg {
	buf := make([]byte, len(vals)*ElemSize)
	for i, v := range vals {
		binary.NativeEndian.PutUint64(buf[i*ElemSize:], math.Float64bits(v))
	}

	return Arg{Buf: buf}
}

// NewLane allocates a zeroed contiguous lane of n float64 elements.
func NewLane(n int) Arg {
	return Arg{Buf: make([]byte, n*ElemSize)}
}

// ToFloat64s reads n elements from the handle with the given byte step.
func ToFloat64s(a Arg, n, step int64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = a.Float64(int64(i), step)
	}

	return out
}
