// Package kernels provides built-in float64 inner kernels used by the CLI
// and the dispatch tests. Each kernel follows the ufunc calling convention
// and is safe to run over any chunk of its iteration space, so the parallel
// dispatcher can partition it freely.
package kernels

import (
	"fmt"
	"sort"

	"github.com/example/go-parfunc/internal/ufunc"
)

// Add computes out[i] = a[i] + b[i]. Lanes: a, b, out.
func Add(args []ufunc.Arg, dims, steps []int64, _ any) {
	a, b, out := args[0], args[1], args[2]
	for i := int64(0); i < dims[0]; i++ {
		out.PutFloat64(i, steps[2], a.Float64(i, steps[0])+b.Float64(i, steps[1]))
	}
}

// Mul computes out[i] = a[i] * b[i]. Lanes: a, b, out.
func Mul(args []ufunc.Arg, dims, steps []int64, _ any) {
	a, b, out := args[0], args[1], args[2]
	for i := int64(0); i < dims[0]; i++ {
		out.PutFloat64(i, steps[2], a.Float64(i, steps[0])*b.Float64(i, steps[1]))
	}
}

// Scale computes out[i] = a[i] * alpha with alpha taken from userData.
// Lanes: a, out.
func Scale(args []ufunc.Arg, dims, steps []int64, userData any) {
	alpha := userData.(float64)

	a, out := args[0], args[1]
	for i := int64(0); i < dims[0]; i++ {
		out.PutFloat64(i, steps[1], a.Float64(i, steps[0])*alpha)
	}
}

// Axpy computes out[i] += alpha * a[i] with alpha taken from userData.
// Lanes: a, out.
func Axpy(args []ufunc.Arg, dims, steps []int64, userData any) {
	alpha := userData.(float64)
	if alpha == 0 {
		return
	}

	a, out := args[0], args[1]
	for i := int64(0); i < dims[0]; i++ {
		out.PutFloat64(i, steps[1], out.Float64(i, steps[1])+alpha*a.Float64(i, steps[0]))
	}
}

// Dot is a generalized kernel computing out[n] = sum_k a[n][k] * b[n][k],
// signature (k),(k)->() in gufunc terms. dims is [outer, k]; steps carries
// the three outer strides followed by the two core strides of a and b.
func Dot(args []ufunc.Arg, dims, steps []int64, _ any) {
	outer, k := dims[0], dims[1]
	a, b, out := args[0], args[1], args[2]
	sa, sb, so := steps[0], steps[1], steps[2]
	csa, csb := steps[3], steps[4]

	for n := int64(0); n < outer; n++ {
		row := ufunc.Arg{Buf: a.Buf, Off: a.Off + n*sa}
		col := ufunc.Arg{Buf: b.Buf, Off: b.Off + n*sb}

		var sum float64
		for i := int64(0); i < k; i++ {
			sum += row.Float64(i, csa) * col.Float64(i, csb)
		}

		out.PutFloat64(n, so, sum)
	}
}

// Spec describes one registered kernel: its inner function, input lane
// count and, for generalized kernels, the number of fixed core dimensions.
type Spec struct {
	Name      string
	Kernel    ufunc.Kernel
	NumInputs int
	InnerNDim int
	NeedAlpha bool
}

// Generalized reports whether the kernel carries core dimensions.
func (s Spec) Generalized() bool {
	return s.InnerNDim > 0
}

var registry = map[string]Spec{
	"add":   {Name: "add", Kernel: Add, NumInputs: 2},
	"mul":   {Name: "mul", Kernel: Mul, NumInputs: 2},
	"scale": {Name: "scale", Kernel: Scale, NumInputs: 1, NeedAlpha: true},
	"axpy":  {Name: "axpy", Kernel: Axpy, NumInputs: 1, NeedAlpha: true},
	"dot":   {Name: "dot", Kernel: Dot, NumInputs: 2, InnerNDim: 1},
}

// Lookup resolves a kernel by name.
func Lookup(name string) (Spec, error) {
	s, ok := registry[name]
	if !ok {
		return Spec{}, fmt.Errorf("kernels: unknown kernel %q (known: %v)", name, Names())
	}

	return s, nil
}

// Names lists the registered kernel names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
