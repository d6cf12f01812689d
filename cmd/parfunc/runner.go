package main

import (
	"fmt"
	"time"

	"github.com/example/go-parfunc/internal/dispatch"
	"github.com/example/go-parfunc/internal/kernels"
	"github.com/example/go-parfunc/internal/ufunc"
)

// caseOptions selects a kernel run: n outer elements, k inner extent for
// generalized kernels, alpha for kernels that take a scalar.
type caseOptions struct {
	Spec  kernels.Spec
	N     int
	K     int
	Alpha float64
}

// caseResult carries the timings of one parallel-versus-sequential run.
// Parity between the two outputs has already been verified.
type caseResult struct {
	Parallel   time.Duration
	Sequential time.Duration
}

// runCase executes one kernel both sequentially and through the parallel
// dispatcher on identical inputs and verifies the outputs are bit-identical.
func runCase(opts caseOptions) (caseResult, error) {
	spec := opts.Spec

	if opts.N < 0 {
		return caseResult{}, fmt.Errorf("n must be >= 0, got %d", opts.N)
	}
	if spec.Generalized() && opts.K < 1 {
		return caseResult{}, fmt.Errorf("kernel %s needs an inner extent >= 1, got %d", spec.Name, opts.K)
	}

	args, dims, steps := buildCase(spec, opts.N, opts.K)
	wantOut, gotOut := args[len(args)-1], cloneLane(args[len(args)-1])

	var userData any
	if spec.NeedAlpha {
		userData = opts.Alpha
	}

	seqArgs := append(append([]ufunc.Arg(nil), args[:len(args)-1]...), wantOut)
	parArgs := append(append([]ufunc.Arg(nil), args[:len(args)-1]...), gotOut)

	seqStart := time.Now()
	spec.Kernel(seqArgs, dims, steps, userData)
	seqDur := time.Since(seqStart)

	wrapper := dispatch.Parallel(spec.Kernel, spec.NumInputs)
	if spec.Generalized() {
		wrapper = dispatch.ParallelGeneralized(spec.Kernel, spec.NumInputs, spec.InnerNDim)
	}

	parStart := time.Now()
	wrapper(parArgs, dims, steps, userData)
	parDur := time.Since(parStart)

	want := ufunc.ToFloat64s(wantOut, int64(opts.N), ufunc.ElemSize)
	got := ufunc.ToFloat64s(gotOut, int64(opts.N), ufunc.ElemSize)
	for i := range got {
		if got[i] != want[i] {
			return caseResult{}, fmt.Errorf("kernel %s: parallel result diverges at index %d: %v != %v",
				spec.Name, i, got[i], want[i])
		}
	}

	return caseResult{Parallel: parDur, Sequential: seqDur}, nil
}

// buildCase constructs deterministic input lanes, the shared output lane,
// and the dims/steps buffers for the given kernel shape.
func buildCase(spec kernels.Spec, n, k int) ([]ufunc.Arg, []int64, []int64) {
	if spec.Generalized() {
		// Row-major [n][k] operands, scalar output per outer position.
		flat := make([]float64, n*k)
		for i := range flat {
			flat[i] = float64(i%17) - 8
		}

		args := []ufunc.Arg{
			ufunc.FromFloat64s(flat),
			ufunc.FromFloat64s(flat),
			ufunc.NewLane(n),
		}
		dims := []int64{int64(n), int64(k)}
		steps := []int64{
			int64(k) * ufunc.ElemSize,
			int64(k) * ufunc.ElemSize,
			ufunc.ElemSize,
			ufunc.ElemSize,
			ufunc.ElemSize,
		}

		return args, dims, steps
	}

	args := make([]ufunc.Arg, 0, spec.NumInputs+1)
	for j := 0; j < spec.NumInputs; j++ {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = float64((i+j)%251) - 125
		}
		args = append(args, ufunc.FromFloat64s(vals))
	}
	args = append(args, ufunc.NewLane(n))

	dims := []int64{int64(n)}
	steps := make([]int64, spec.NumInputs+1)
	for j := range steps {
		steps[j] = ufunc.ElemSize
	}

	return args, dims, steps
}

func cloneLane(a ufunc.Arg) ufunc.Arg {
	return ufunc.Arg{Buf: append([]byte(nil), a.Buf...), Off: a.Off}
}
