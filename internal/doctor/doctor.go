// Package doctor provides environment preflight checks for parfunc.
package doctor

import (
	"fmt"
	"io"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// SelfTestFunc runs a small dispatch round and returns an error if the
// parallel result diverges from the sequential reference.
type SelfTestFunc func() error

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// NumCPU is the detected hardware concurrency.
	NumCPU int
	// Workers is the configured worker count (0 = hardware concurrency).
	Workers int
	// EagerLaunch reports whether the pool launches at startup.
	EagerLaunch bool
	// PrimitiveRegistered reports whether the coordination primitive is
	// installed.
	PrimitiveRegistered bool
	// SelfTest dispatches a tiny kernel through the pool; nil skips the
	// check.
	SelfTest SelfTestFunc
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- hardware concurrency --------------------------------------------
	if cfg.NumCPU < 1 {
		res.fail(fmt.Sprintf("hardware concurrency: detected %d, need >= 1", cfg.NumCPU))
		fmt.Fprintf(w, "%s hardware concurrency: %d\n", FailMark, cfg.NumCPU)
	} else {
		fmt.Fprintf(w, "%s hardware concurrency: %d\n", PassMark, cfg.NumCPU)
	}

	// ---- worker count -----------------------------------------------------
	switch {
	case cfg.Workers < 0:
		res.fail(fmt.Sprintf("worker count: %d is negative", cfg.Workers))
		fmt.Fprintf(w, "%s worker count: %d\n", FailMark, cfg.Workers)
	case cfg.Workers == 0:
		fmt.Fprintf(w, "%s worker count: auto (%d)\n", PassMark, max(1, cfg.NumCPU))
	default:
		fmt.Fprintf(w, "%s worker count: %d\n", PassMark, cfg.Workers)
	}

	// ---- launch mode ------------------------------------------------------
	mode := "lazy (first dispatch)"
	if cfg.EagerLaunch {
		mode = "eager (process start)"
	}
	fmt.Fprintf(w, "%s pool launch: %s\n", PassMark, mode)

	// ---- coordination primitive ------------------------------------------
	if !cfg.PrimitiveRegistered {
		res.fail("coordination primitive: not registered")
		fmt.Fprintf(w, "%s coordination primitive: not registered\n", FailMark)
	} else {
		fmt.Fprintf(w, "%s coordination primitive: registered\n", PassMark)
	}

	// ---- dispatch self-test ----------------------------------------------
	if cfg.SelfTest != nil {
		if err := cfg.SelfTest(); err != nil {
			res.fail(fmt.Sprintf("dispatch self-test: %v", err))
			fmt.Fprintf(w, "%s dispatch self-test: %v\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s dispatch self-test: ok\n", PassMark)
		}
	}

	return res
}
