package core

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is the trailing window applied to free-text edits
// before they are propagated as a remote update.
const DefaultDebounceWindow = 500 * time.Millisecond

// debouncer coalesces rapid edits keyed by note id. Only the callback of the
// last add within the window fires. Tag-set edits bypass the debouncer
// entirely; they are discrete, low-frequency events.
//
// A timer callback that loses a race with flush or a newer add finds no
// pending entry and does nothing, so a callback fires at most once per add.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timers  map[string]*time.Timer
	pending map[string]func()
	stopped bool
}

func newDebouncer(window time.Duration) *debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &debouncer{
		window:  window,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]func()),
	}
}

// add schedules fn to run after the window of inactivity for key.
// A newer add for the same key supersedes the older callback.
func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[key] = fn
	if t, ok := d.timers[key]; ok {
		t.Reset(d.window)
		return
	}
	d.timers[key] = time.AfterFunc(d.window, func() {
		d.fire(key)
	})
}

func (d *debouncer) fire(key string) {
	d.mu.Lock()
	fn, ok := d.pending[key]
	delete(d.pending, key)
	delete(d.timers, key)
	d.mu.Unlock()

	if ok && fn != nil {
		fn()
	}
}

// flush fires every pending callback immediately, on the caller's goroutine.
func (d *debouncer) flush() {
	d.mu.Lock()
	fns := make([]func(), 0, len(d.pending))
	for key, fn := range d.pending {
		if t, hit := d.timers[key]; hit {
			t.Stop()
			delete(d.timers, key)
		}
		fns = append(fns, fn)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		if fn != nil {
			fn()
		}
	}
}

// stop flushes pending edits and rejects further adds.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	d.flush()
}
