// Package bench provides benchmarking primitives for the parfunc bench
// command: timing of parallel versus sequential kernel runs, aggregate
// stats, and table/JSON report formatting.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing of a single kernel run at one problem size.
type RunResult struct {
	Index      int
	Cold       bool // true for the first run (includes pool launch)
	N          int  // element count
	Parallel   time.Duration
	Sequential time.Duration
}

// Speedup returns sequential/parallel time, the parallel efficiency of the
// run. Returns 0 when the parallel time is zero.
func (r RunResult) Speedup() float64 {
	if r.Parallel <= 0 {
		return 0
	}

	return float64(r.Sequential) / float64(r.Parallel)
}

// Throughput returns parallel elements per second. Returns 0 when the
// parallel time is zero.
func (r RunResult) Throughput() float64 {
	if r.Parallel <= 0 {
		return 0
	}

	return float64(r.N) / r.Parallel.Seconds()
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// The slice must be non-empty.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// ---------------------------------------------------------------------------
// Speedup threshold gate
// ---------------------------------------------------------------------------

// CheckSpeedupThreshold returns an error if meanSpeedup < threshold.
// A threshold of 0 disables the gate.
func CheckSpeedupThreshold(meanSpeedup, threshold float64) error {
	if threshold <= 0 {
		return nil
	}
	if meanSpeedup < threshold {
		return fmt.Errorf("mean speedup %.3f below threshold %.3f", meanSpeedup, threshold)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %12s  %12s  %8s\n", "Run", "Cold", "N", "Par(ms)", "Seq(ms)", "Speedup")
	fmt.Fprintln(sb, strings.Repeat("-", 62))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10d  %12.3f  %12.3f  %8.3f\n",
			r.Index+1,
			cold,
			r.N,
			millis(r.Parallel),
			millis(r.Sequential),
			r.Speedup(),
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 62))
	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %12.3f  %12s  %8s  (min)\n", "", "", "", millis(stats.Min), "", "")
	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %12.3f  %12s  %8s  (mean)\n", "", "", "", millis(stats.Mean), "", "")
	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %12.3f  %12s  %8s  (max)\n", "", "", "", millis(stats.Max), "", "")

	fmt.Fprint(w, sb.String())
}

func millis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index        int     `json:"index"`
	Cold         bool    `json:"cold"`
	N            int     `json:"n"`
	ParallelMS   float64 `json:"parallel_ms"`
	SequentialMS float64 `json:"sequential_ms"`
	Speedup      float64 `json:"speedup"`
	ElemsPerSec  float64 `json:"elems_per_sec"`
}

type jsonStats struct {
	MinMS  float64 `json:"min_ms"`
	MeanMS float64 `json:"mean_ms"`
	MaxMS  float64 `json:"max_ms"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:  millis(stats.Min),
			MeanMS: millis(stats.Mean),
			MaxMS:  millis(stats.Max),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:        r.Index,
			Cold:         r.Cold,
			N:            r.N,
			ParallelMS:   millis(r.Parallel),
			SequentialMS: millis(r.Sequential),
			Speedup:      r.Speedup(),
			ElemsPerSec:  r.Throughput(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}
