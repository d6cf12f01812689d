package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/go-parfunc/internal/kernels"
	"github.com/example/go-parfunc/internal/pool"
)

func newApplyCmd() *cobra.Command {
	var (
		kernelName string
		n          int
		k          int
		alpha      float64
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run a built-in kernel through the parallel dispatcher and verify it against the sequential reference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			spec, err := kernels.Lookup(kernelName)
			if err != nil {
				return err
			}

			pool.Launch(workerCount(cfg))

			res, err := runCase(caseOptions{Spec: spec, N: n, K: k, Alpha: alpha})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "kernel:     %s\n", spec.Name)
			fmt.Fprintf(out, "elements:   %d\n", n)
			if spec.Generalized() {
				fmt.Fprintf(out, "inner:      %d\n", k)
			}
			fmt.Fprintf(out, "workers:    %d\n", pool.Default().Workers())
			fmt.Fprintf(out, "parallel:   %v\n", res.Parallel)
			fmt.Fprintf(out, "sequential: %v\n", res.Sequential)
			fmt.Fprintln(out, "parity:     ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&kernelName, "kernel", "add", fmt.Sprintf("Kernel to run (%v)", kernels.Names()))
	cmd.Flags().IntVar(&n, "n", 100000, "Outer element count")
	cmd.Flags().IntVar(&k, "k", 8, "Inner extent for generalized kernels")
	cmd.Flags().Float64Var(&alpha, "alpha", 2.0, "Scalar for kernels that take one")

	return cmd
}
