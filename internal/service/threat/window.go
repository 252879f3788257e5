package threat

import (
	"sync"
	"time"
)

// window is a sliding window of event timestamps. Pruning happens on every
// write, so memory stays proportional to the window span.
type window struct {
	mu    sync.Mutex
	times []time.Time
}

// add records one event at now and returns how many events fall inside
// [now-span, now], the new one included.
func (w *window) add(now time.Time, span time.Duration) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(now.Add(-span))
	w.times = append(w.times, now)
	return len(w.times)
}

// count returns how many events fall inside [now-span, now] without
// recording a new one.
func (w *window) count(now time.Time, span time.Duration) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(now.Add(-span))
	return len(w.times)
}

// reset drops all recorded events.
func (w *window) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.times = w.times[:0]
}

// empty reports whether the window holds any event newer than cutoff.
func (w *window) empty(cutoff time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(cutoff)
	return len(w.times) == 0
}

// prune drops events at or before cutoff. Callers hold w.mu.
func (w *window) prune(cutoff time.Time) {
	keep := 0
	for ; keep < len(w.times); keep++ {
		if w.times[keep].After(cutoff) {
			break
		}
	}
	if keep > 0 {
		w.times = append(w.times[:0], w.times[keep:]...)
	}
}
