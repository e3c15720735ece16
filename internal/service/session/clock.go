package session

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Clock is a free-running counter incremented once per wall-clock second
// from session start until Stop. Purely observational: it feeds the
// duration display and session events, never control decisions.
type Clock struct {
	seconds int64
	done    chan struct{}
	stopped atomic.Bool
}

// StartClock starts a new session clock ticking at one-second intervals.
func StartClock() *Clock {
	c := &Clock{done: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				atomic.AddInt64(&c.seconds, 1)
			case <-c.done:
				return
			}
		}
	}()
	return c
}

// Seconds returns the elapsed whole seconds since the clock started.
func (c *Clock) Seconds() int64 {
	return atomic.LoadInt64(&c.seconds)
}

// Stop halts the clock. Idempotent.
func (c *Clock) Stop() {
	if c.stopped.CompareAndSwap(false, true) {
		close(c.done)
	}
}

// FormatDuration renders elapsed seconds as MM:SS for display.
func FormatDuration(seconds int64) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
