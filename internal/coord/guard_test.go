package coord

import "testing"

func TestGuardCloseNeutralizesThenReleases(t *testing.T) {
	restoreDefault(t)

	var order []string

	g := NewGuard(
		func() {
			order = append(order, "clear")
			Clear()
		},
		func() { order = append(order, "release") },
	)

	var word uint64 = 3

	// Primitive valid while the guard is live.
	if got := CAS(&word, 3, 4); got != 3 || word != 4 {
		t.Fatalf("pre-close cas: got %d, word %d", got, word)
	}

	g.Close()

	if len(order) != 2 || order[0] != "clear" || order[1] != "release" {
		t.Fatalf("teardown order = %v, want [clear release]", order)
	}

	// A residual call after teardown is a safe no-op, not a crash.
	if got := CAS(&word, 4, 99); got != 4 {
		t.Fatalf("post-close cas returned %d, want 4", got)
	}
	if word != 4 {
		t.Fatalf("post-close cas stored; word = %d", word)
	}
}

func TestGuardCloseIdempotent(t *testing.T) {
	restoreDefault(t)

	clears := 0
	g := NewGuard(func() { clears++ }, nil)

	g.Close()
	g.Close()

	if clears != 1 {
		t.Fatalf("clear called %d times, want 1", clears)
	}
}

func TestCloseAllReverseOrder(t *testing.T) {
	restoreDefault(t)

	// Drain guards registered by earlier tests so ordering is deterministic.
	CloseAll()

	var order []string

	NewGuard(func() { order = append(order, "first") }, nil)
	NewGuard(func() { order = append(order, "second") }, nil)

	CloseAll()

	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Fatalf("close order = %v, want [second first]", order)
	}

	// CloseAll drained the list; a second call is a no-op.
	CloseAll()
	if len(order) != 2 {
		t.Fatalf("guards closed again: %v", order)
	}
}
