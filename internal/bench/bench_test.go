package bench_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/go-parfunc/internal/bench"
)

func TestStats_MinMaxMean(t *testing.T) {
	durations := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
	}
	s := bench.ComputeStats(durations)

	require.Equal(t, 100*time.Millisecond, s.Min)
	require.Equal(t, 300*time.Millisecond, s.Max)
	require.Equal(t, 200*time.Millisecond, s.Mean)
}

func TestStats_Empty(t *testing.T) {
	s := bench.ComputeStats(nil)
	require.Equal(t, bench.Stats{}, s)
}

func TestRunResult_Speedup(t *testing.T) {
	r := bench.RunResult{Parallel: 50 * time.Millisecond, Sequential: 200 * time.Millisecond}
	require.InDelta(t, 4.0, r.Speedup(), 1e-9)

	require.Zero(t, bench.RunResult{Sequential: time.Second}.Speedup())
}

func TestRunResult_Throughput(t *testing.T) {
	r := bench.RunResult{N: 1000, Parallel: time.Second}
	require.InDelta(t, 1000.0, r.Throughput(), 1e-9)

	require.Zero(t, bench.RunResult{N: 1000}.Throughput())
}

func TestCheckSpeedupThreshold(t *testing.T) {
	require.NoError(t, bench.CheckSpeedupThreshold(0.5, 0))
	require.NoError(t, bench.CheckSpeedupThreshold(2.0, 1.5))

	err := bench.CheckSpeedupThreshold(1.1, 1.5)
	require.Error(t, err)
	require.Contains(t, err.Error(), "below threshold")
}

func sampleRuns() ([]bench.RunResult, bench.Stats) {
	runs := []bench.RunResult{
		{Index: 0, Cold: true, N: 10000, Parallel: 4 * time.Millisecond, Sequential: 12 * time.Millisecond},
		{Index: 1, N: 10000, Parallel: 3 * time.Millisecond, Sequential: 12 * time.Millisecond},
	}
	stats := bench.ComputeStats([]time.Duration{runs[0].Parallel, runs[1].Parallel})

	return runs, stats
}

func TestFormatTable(t *testing.T) {
	runs, stats := sampleRuns()

	var buf bytes.Buffer
	bench.FormatTable(runs, stats, &buf)

	out := buf.String()
	require.Contains(t, out, "Speedup")
	require.Contains(t, out, "yes")
	require.Contains(t, out, "10000")
	require.Contains(t, out, "(mean)")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Header, rule, 2 runs, rule, 3 stat lines.
	require.Len(t, lines, 8)
}

func TestFormatJSON(t *testing.T) {
	runs, stats := sampleRuns()

	var buf bytes.Buffer
	bench.FormatJSON(runs, stats, &buf)

	var report struct {
		Runs []struct {
			Index      int     `json:"index"`
			Cold       bool    `json:"cold"`
			N          int     `json:"n"`
			ParallelMS float64 `json:"parallel_ms"`
			Speedup    float64 `json:"speedup"`
		} `json:"runs"`
		Stats struct {
			MinMS  float64 `json:"min_ms"`
			MeanMS float64 `json:"mean_ms"`
			MaxMS  float64 `json:"max_ms"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	require.Len(t, report.Runs, 2)
	require.True(t, report.Runs[0].Cold)
	require.Equal(t, 10000, report.Runs[0].N)
	require.InDelta(t, 3.0, report.Runs[0].Speedup, 1e-9)
	require.InDelta(t, 3.0, report.Stats.MinMS, 1e-9)
	require.InDelta(t, 4.0, report.Stats.MaxMS, 1e-9)
}
