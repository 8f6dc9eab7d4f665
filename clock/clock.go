// Package clock drives periodic tick callbacks.
package clock

// Scheduler runs callbacks at fixed rates. Callbacks registered at different
// rates may preempt each other; a callback is never run concurrently with
// itself.
type Scheduler interface {
	// Every registers fn to run rate times per second
	Every(rate float64, fn func())
}
