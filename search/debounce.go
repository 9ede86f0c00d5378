package search

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is the delay applied to successive queries.
const DefaultDebounceWindow = 300 * time.Millisecond

// Debouncer coalesces rapid successive calls: only the most recent
// function within the window executes. Used to avoid re-running the
// search engine on every keystroke.
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
}

// NewDebouncer creates a debouncer; a non-positive window selects the
// default.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{window: window}
}

// Do schedules fn after the window, cancelling any pending call.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
