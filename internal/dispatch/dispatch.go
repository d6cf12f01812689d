// Package dispatch turns one bulk elementwise (or generalized-elementwise)
// kernel invocation into per-worker sub-invocations over the process pool.
//
// Parallel and ParallelGeneralized return wrappers with the same calling
// convention as the inner kernel, so a parallel kernel drops in anywhere a
// sequential one is accepted. The wrapper partitions the outer iteration
// count into one contiguous chunk per worker, offsets each lane handle by
// index-and-stride arithmetic, submits one task per worker and blocks on the
// pool barrier until every chunk has completed.
package dispatch

import (
	"github.com/example/go-parfunc/internal/pool"
	"github.com/example/go-parfunc/internal/ufunc"
)

// Parallel wraps an elementwise inner kernel with numInputs input lanes
// (plus the single output lane) in a parallel dispatcher. The wrapper reads
// the iteration count from dims[0] and treats steps[0..numInputs] as
// per-lane byte strides.
func Parallel(kernel ufunc.Kernel, numInputs int) ufunc.Kernel {
	return parallel(kernel, numInputs, 0)
}

// ParallelGeneralized wraps a generalized inner kernel whose dims carry
// innerNDim fixed core extents after the outer count. Only the outer count
// is partitioned; every chunk's dimension buffer carries the core extents
// copied verbatim from the caller's dims.
func ParallelGeneralized(kernel ufunc.Kernel, numInputs, innerNDim int) ufunc.Kernel {
	return parallel(kernel, numInputs, innerNDim)
}

func parallel(kernel ufunc.Kernel, numInputs, innerNDim int) ufunc.Kernel {
	arrayCount := numInputs + 1

	return func(args []ufunc.Arg, dims, steps []int64, userData any) {
		p := pool.Default()
		p.Launch(pool.DefaultWorkers())
		p.Begin()

		t := p.Workers()
		total := dims[0]
		count := total / int64(t)
		counts := splitCounts(total, t)

		// Task storage lives for exactly one round: the pool borrows it
		// until Synchronize returns.
		for i := 0; i < t; i++ {
			chunkArgs := make([]ufunc.Arg, arrayCount)
			for j := 0; j < arrayCount; j++ {
				// Chunk starts are spaced by the uniform chunk size; the
				// larger last chunk only changes where its range ends.
				chunkArgs[j] = ufunc.Arg{
					Buf: args[j].Buf,
					Off: args[j].Off + steps[j]*count*int64(i),
				}
			}

			chunkDims := make([]int64, innerNDim+1)
			copy(chunkDims, dims[:innerNDim+1])
			chunkDims[0] = counts[i]

			p.Submit(pool.Task{
				Kernel:   kernel,
				Args:     chunkArgs,
				Dims:     chunkDims,
				Steps:    steps,
				UserData: userData,
			})
		}

		p.Ready()
		p.Synchronize()
	}
}

// splitCounts partitions total into t chunk counts: the first t-1 chunks get
// total/t elements and the last chunk takes the leftover, so the counts sum
// to total exactly for any total >= 0, including total < t (trailing chunks
// get zero).
func splitCounts(total int64, t int) []int64 {
	counts := make([]int64, t)
	count := total / int64(t)
	remain := total

	for i := 0; i < t; i++ {
		if i == t-1 {
			counts[i] = remain
		} else {
			counts[i] = count
			remain -= count
		}
	}

	return counts
}
