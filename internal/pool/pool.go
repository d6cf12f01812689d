// Package pool implements the process-wide worker pool that executes one
// dispatch round of bulk-array tasks at a time.
//
// A round follows a fixed protocol driven by the dispatcher: Begin, exactly
// one Submit per worker, Ready, Synchronize. Tasks are buffered until Ready
// releases them to the workers; Synchronize blocks the dispatching goroutine
// until every task of the round has completed, then releases the round.
//
// The pool borrows the argument, dimension and step slices referenced by a
// Task only until the paired Synchronize returns; it never retains them
// afterwards. The dispatcher owns that storage.
package pool

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/example/go-parfunc/internal/coord"
	"github.com/example/go-parfunc/internal/ufunc"
)

// Task is one chunk's worth of work: the inner kernel plus the per-chunk
// lane handles, dimension buffer, shared step array and opaque user data.
type Task struct {
	Kernel   ufunc.Kernel
	Args     []ufunc.Arg
	Dims     []int64
	Steps    []int64
	UserData any
}

// Pool state word values, transitioned through the coordination primitive.
const (
	stateDown uint64 = iota
	stateUp
)

// Pool owns a fixed set of persistent worker goroutines and the task queue
// feeding them. The zero value is an unlaunched pool ready for Launch.
type Pool struct {
	state   uint64
	workers int
	tasks   chan Task

	// roundMu serializes dispatch rounds: exactly one dispatcher owns the
	// pool from Begin until its Synchronize returns. Launch also runs under
	// it so worker/queue fields are published to later rounds.
	roundMu sync.Mutex
	pending []Task
	roundID uuid.UUID
	wg      sync.WaitGroup
}

// Launch spawns n persistent workers the first time it is called; later
// calls are no-ops regardless of n. n < 1 launches a single worker.
func (p *Pool) Launch(n int) {
	if n < 1 {
		n = 1
	}

	p.roundMu.Lock()
	defer p.roundMu.Unlock()

	if coord.CAS(&p.state, stateDown, stateUp) != stateDown {
		return
	}

	p.workers = n
	p.tasks = make(chan Task, n)

	for id := 0; id < n; id++ {
		go p.work(id)
	}

	slog.Debug("pool: workers launched", "workers", n)
}

// Workers returns the launched worker count, which is also the number of
// tasks a dispatch round must submit. Zero before Launch.
func (p *Pool) Workers() int {
	return p.workers
}

// Begin acquires the round lock. One dispatch round owns the pool from Begin
// until its Synchronize returns; concurrent dispatchers queue here.
func (p *Pool) Begin() {
	p.roundMu.Lock()
	p.roundID = uuid.New()
	slog.Debug("pool: round begin", "round", p.roundID.String())
}

// Submit buffers one task for the current round. Tasks do not start until
// Ready. The caller submits exactly Workers() tasks per round; that is an
// invariant of the dispatcher, not validated here.
func (p *Pool) Submit(t Task) {
	p.pending = append(p.pending, t)
}

// Ready releases the round's buffered tasks to the workers.
func (p *Pool) Ready() {
	p.wg.Add(len(p.pending))
	for _, t := range p.pending {
		p.tasks <- t
	}
}

// Synchronize blocks until every task of the round has completed, drops the
// pool's references to the round's tasks, and releases the round lock. Tasks
// with zero-length chunks complete trivially; they are never skipped.
func (p *Pool) Synchronize() {
	p.wg.Wait()

	// The round's task storage belongs to the dispatcher and becomes invalid
	// once it is released; drop every borrowed reference first.
	clear(p.pending)
	p.pending = p.pending[:0]

	slog.Debug("pool: round complete", "round", p.roundID.String())
	p.roundMu.Unlock()
}

func (p *Pool) work(id int) {
	for t := range p.tasks {
		t.Kernel(t.Args, t.Dims, t.Steps, t.UserData)
		p.wg.Done()
	}

	slog.Debug("pool: worker exit", "worker", id)
}

// Reset stops the workers and returns the pool to the unlaunched state.
// Test hook only: production pools live for the process lifetime. Must not
// be called while a round is in flight.
func (p *Pool) Reset() {
	p.roundMu.Lock()
	defer p.roundMu.Unlock()

	if coord.CAS(&p.state, stateUp, stateDown) != stateUp {
		return
	}

	close(p.tasks)
	p.tasks = nil
	p.workers = 0
	p.pending = nil
}

var numCPU = max(1, runtime.NumCPU())

// DefaultWorkers returns the process-wide default worker count,
// max(1, hardware concurrency), computed once at startup.
func DefaultWorkers() int {
	return numCPU
}

// EagerLaunchEnv is the startup-ordering workaround toggle: when set to a
// nonzero integer the process pool is launched at startup instead of lazily
// on first dispatch. Unset or zero means lazy.
const EagerLaunchEnv = "PARFUNC_EAGER_LAUNCH"

// EagerLaunchFromEnv applies EagerLaunchEnv to the process pool and reports
// whether an eager launch happened.
func EagerLaunchFromEnv() bool {
	raw, ok := os.LookupEnv(EagerLaunchEnv)
	if !ok {
		return false
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		return false
	}

	Launch(DefaultWorkers())

	return true
}

// process is the single live pool per process.
var process = &Pool{}

// Default returns the process-wide pool.
func Default() *Pool {
	return process
}

// Launch, Submit, Ready and Synchronize are the named entry points the
// dispatch layer binds against, operating on the process pool.

func Launch(n int) { process.Launch(n) }

func Submit(t Task) { process.Submit(t) }

func Ready() { process.Ready() }

func Synchronize() { process.Synchronize() }
