package time

import (
	"testing"
	"time"
)

func TestPtrDeref(t *testing.T) {
	t.Parallel()

	if Ptr(time.Time{}) != nil {
		t.Fatalf("zero time should map to nil")
	}
	now := time.Now()
	if !Deref(Ptr(now)).Equal(now) || !Deref(nil).IsZero() {
		t.Fatalf("Ptr/Deref mismatch")
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	base, max := 500*time.Millisecond, 30*time.Second
	cases := map[int]time.Duration{
		-1: base,
		0:  base,
		1:  time.Second,
		3:  4 * time.Second,
		6:  max,
		40: max,
	}
	for attempt, want := range cases {
		if got := Backoff(attempt, base, max); got != want {
			t.Fatalf("Backoff(%d) = %s, want %s", attempt, got, want)
		}
	}
}
