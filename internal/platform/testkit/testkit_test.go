package testkit

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestAssertions(t *testing.T) {
	t.Parallel()

	MustPanic(t, func() { panic("boom") })
	MustNotPanic(t, func() {})
	MustContain(t, "certificate approved", "approved")
}

func TestEventually(t *testing.T) {
	t.Parallel()

	var n atomic.Int32
	go func() {
		time.Sleep(30 * time.Millisecond)
		n.Store(1)
	}()
	Eventually(t, time.Second, func() bool { return n.Load() == 1 }, "flag")
}
