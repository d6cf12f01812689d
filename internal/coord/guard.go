package coord

import "sync"

// Guard ties the registered primitive's validity to the lifetime of the
// engine that owns its implementation. Closing the guard clears the
// registration first and only then releases the engine, so no worker still
// mid-flight can call into a torn-down implementation.
//
// Construction registers the guard as process keepalive state; Close must be
// the last action before the engine's resources go away.
type Guard struct {
	clear   func()
	release func()
	once    sync.Once
}

// NewGuard pairs the function that clears the primitive registration with
// the function that releases the engine backing it, and records the guard in
// the process keepalive list. Either func may be nil.
func NewGuard(clear, release func()) *Guard {
	g := &Guard{clear: clear, release: release}

	keepaliveMu.Lock()
	keepalive = append(keepalive, g)
	keepaliveMu.Unlock()

	return g
}

// Close neutralizes the primitive and then releases the engine. Idempotent.
func (g *Guard) Close() {
	g.once.Do(func() {
		if g.clear != nil {
			g.clear()
		}

		if g.release != nil {
			g.release()
		}
	})
}

var (
	keepaliveMu sync.Mutex
	keepalive   []*Guard
)

// CloseAll closes every registered guard in reverse registration order.
// Intended for process teardown and tests.
func CloseAll() {
	keepaliveMu.Lock()
	guards := keepalive
	keepalive = nil
	keepaliveMu.Unlock()

	for i := len(guards) - 1; i >= 0; i-- {
		guards[i].Close()
	}
}
