package dashboard

import (
	"sync"
	"time"
)

// DefaultDebounce is the input-settle delay embeddings normally pass to
// NewDebouncer.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer defers one pending action per field. A new trigger for the
// same field cancels the pending one, so only the last input within the
// delay window executes.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

func (d *Debouncer) Trigger(field string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[field]; ok {
		t.Stop()
	}
	d.timers[field] = time.AfterFunc(d.delay, fn)
}

// Stop cancels every pending action.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for field, t := range d.timers {
		t.Stop()
		delete(d.timers, field)
	}
}
