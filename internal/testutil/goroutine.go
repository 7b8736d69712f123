package testutil

import (
	"runtime"
	"testing"
	"time"
)

// Baseline settles the scheduler and returns the current goroutine count.
func Baseline() int {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	return runtime.NumGoroutine()
}

// AssertNoGoroutineLeaks waits up to timeout for the goroutine count to fall
// back to baseline+margin.
func AssertNoGoroutineLeaks(t *testing.T, baseline, margin int, timeout time.Duration) {
	t.Helper()
	if !Eventually(timeout, func() bool { return runtime.NumGoroutine() <= baseline+margin }) {
		t.Errorf("goroutine leak: baseline=%d, current=%d, margin=%d", baseline, runtime.NumGoroutine(), margin)
	}
}

// Eventually polls cond every 10ms until it holds or timeout elapses.
func Eventually(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
}
