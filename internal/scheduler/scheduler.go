// Package scheduler provides the single cooperative execution context that
// actions, continuations, timers and gate retries run on.
package scheduler

import "time"

// Timer is a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; false means the callback already ran or was
	// already stopped.
	Stop() bool
}

// Scheduler serializes callbacks. Post and AfterFunc may be called from any
// goroutine; the callbacks themselves never run concurrently with each other.
type Scheduler interface {
	Now() time.Time
	Post(fn func())
	AfterFunc(d time.Duration, fn func()) Timer
}
