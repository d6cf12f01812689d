package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/go-parfunc/internal/bench"
	"github.com/example/go-parfunc/internal/kernels"
	"github.com/example/go-parfunc/internal/pool"
)

func newBenchCmd() *cobra.Command {
	var (
		kernelName       string
		sizes            string
		k                int
		alpha            float64
		speedupThreshold float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark parallel dispatch against sequential execution",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			spec, err := kernels.Lookup(kernelName)
			if err != nil {
				return err
			}

			ns, err := parseSizes(sizes)
			if err != nil {
				return err
			}

			pool.Launch(workerCount(cfg))

			var (
				results   []bench.RunResult
				durations []time.Duration
			)

			index := 0
			for _, n := range ns {
				for r := 0; r < cfg.Bench.Runs; r++ {
					res, err := runCase(caseOptions{Spec: spec, N: n, K: k, Alpha: alpha})
					if err != nil {
						return err
					}

					results = append(results, bench.RunResult{
						Index:      index,
						Cold:       index == 0,
						N:          n,
						Parallel:   res.Parallel,
						Sequential: res.Sequential,
					})
					durations = append(durations, res.Parallel)
					index++
				}
			}

			stats := bench.ComputeStats(durations)

			switch cfg.Bench.Format {
			case "json":
				bench.FormatJSON(results, stats, cmd.OutOrStdout())
			default:
				bench.FormatTable(results, stats, cmd.OutOrStdout())
			}

			var totalSpeedup float64
			for _, r := range results {
				totalSpeedup += r.Speedup()
			}
			meanSpeedup := totalSpeedup / float64(len(results))

			return bench.CheckSpeedupThreshold(meanSpeedup, speedupThreshold)
		},
	}

	cmd.Flags().StringVar(&kernelName, "kernel", "add", fmt.Sprintf("Kernel to benchmark (%v)", kernels.Names()))
	cmd.Flags().StringVar(&sizes, "sizes", "10000,1000000", "Comma-separated outer element counts")
	cmd.Flags().IntVar(&k, "k", 8, "Inner extent for generalized kernels")
	cmd.Flags().Float64Var(&alpha, "alpha", 2.0, "Scalar for kernels that take one")
	cmd.Flags().Float64Var(&speedupThreshold, "speedup-threshold", 0, "Exit non-zero if mean speedup falls below this value (0 = disabled)")

	return cmd
}

func parseSizes(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")

	ns := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid size %q in --sizes", p)
		}
		ns = append(ns, n)
	}

	if len(ns) == 0 {
		return nil, fmt.Errorf("--sizes must name at least one element count")
	}

	return ns, nil
}
