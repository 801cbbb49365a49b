package playback

import (
	"sync"
	"time"
)

// DefaultDebounce is how long a requested write may wait for later
// requests to coalesce with it.
const DefaultDebounce = time.Second

// CoalescingWriter folds bursts of write requests into one delivery.
// Each Request replaces any pending one and re-arms the debounce timer;
// only the last function requested within a burst actually runs.
type CoalescingWriter struct {
	clock Clock
	delay time.Duration

	mu      sync.Mutex
	timer   Timer
	pending func()
}

func NewCoalescingWriter(clock Clock, delay time.Duration) *CoalescingWriter {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &CoalescingWriter{clock: clock, delay: delay}
}

// Request schedules fn to run after the debounce window, replacing any
// write still waiting.
func (w *CoalescingWriter) Request(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = fn
	w.timer = w.clock.AfterFunc(w.delay, w.fire)
}

func (w *CoalescingWriter) fire() {
	w.mu.Lock()
	fn := w.pending
	w.pending = nil
	w.timer = nil
	w.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// FlushNow runs the pending write immediately, if any.
func (w *CoalescingWriter) FlushNow() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	fn := w.pending
	w.pending = nil
	w.timer = nil
	w.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Cancel drops the pending write without running it.
func (w *CoalescingWriter) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = nil
	w.timer = nil
}
