package testkit

import (
	"sync"
	"testing"
)

// seams guards package-level function variables that tests replace
var seams sync.Mutex

// Swap points target at replacement until the test ends
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	prev := *target
	*target = replacement
	t.Cleanup(func() { *target = prev })
}

// Serial holds the seam lock for the whole test; pair it with Swap in parallel packages
func Serial(t *testing.T) {
	t.Helper()
	seams.Lock()
	t.Cleanup(seams.Unlock)
}
