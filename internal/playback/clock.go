// Package playback implements the client-side save policy for watch
// sessions: debounced, interval-limited progress writes with an
// end-of-video prompt and optimistic completion toggling.
package playback

import "time"

// Clock abstracts time so the scheduling policy is testable with a fake.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the stoppable handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
