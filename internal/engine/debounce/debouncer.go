// Package debounce coalesces bursts of triggers into single callbacks.
package debounce

import (
	"slices"
	"sync"
	"time"
	"unique"
)

// Debouncer coalesces rapid triggers into one batched callback.
// Every Add restarts the window, so the callback fires once the burst has
// been quiet for a full window.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(keys []string)
	stopped  bool
}

// New creates a debouncer with the given window and callback.
func New(window time.Duration, callback func(keys []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records key and restarts the window. Adds after Stop are ignored.
func (d *Debouncer) Add(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[unique.Make(key)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending) > 0
}

func (d *Debouncer) fire() {
	keys := d.drain()
	if len(keys) > 0 && d.callback != nil {
		go d.callback(keys)
	}
}

// Flush runs the callback immediately with every pending key and blocks until it returns.
// It does nothing when no key is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Already fired; the timer goroutine owns this batch.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	d.mu.Unlock()

	keys := d.drain()
	if len(keys) > 0 && d.callback != nil {
		d.callback(keys)
	}
}

// Cancel drops every pending key without running the callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancel()
}

// Stop cancels any pending callback and ignores later Adds.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.cancel()
}

func (d *Debouncer) cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}

// drain empties the pending set and returns its keys in sorted order.
func (d *Debouncer) drain() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	keys := make([]string, 0, len(d.pending))
	for handle := range d.pending {
		keys = append(keys, handle.Value())
	}
	clear(d.pending)
	d.timer = nil
	slices.Sort(keys)
	return keys
}
