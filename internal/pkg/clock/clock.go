// Package clock provides an injectable time source so that components
// depending on the current time can be tested deterministically.
package clock

import "time"

// Clock abstracts the system clock.
type Clock interface {
	Now() time.Time
	// After returns a channel that delivers the current time after d.
	After(d time.Duration) <-chan time.Time
}

// System is a Clock backed by the real time package.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time { return time.Now() }

// After waits for the duration to elapse.
func (System) After(d time.Duration) <-chan time.Time { return time.After(d) }
