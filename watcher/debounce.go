package watcher

import (
	"sync"
	"time"
)

// Op is the kind of filesystem change carried by an Event.
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	OpRename
)

// Event is one debounced filesystem change.
type Event struct {
	Path string
	Op   Op
}

// Debouncer batches filesystem events: multiple events for the same path
// within the quiet window collapse into the latest one, and the batch is
// emitted once the window elapses without new events.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	pending  map[string]Event
	timer    *time.Timer
	output   chan []Event
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]Event),
		output:   make(chan []Event, 16),
	}
}

// Output returns the channel receiving batched events.
func (d *Debouncer) Output() <-chan []Event {
	return d.output
}

// Add records an event, restarting the quiet window.
func (d *Debouncer) Add(path string, op Op) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = Event{Path: path, Op: op}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// flush emits the pending batch.
func (d *Debouncer) flush() {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	batch := make([]Event, 0, len(d.pending))
	for _, event := range d.pending {
		batch = append(batch, event)
	}
	d.pending = make(map[string]Event)
	d.mu.Unlock()

	select {
	case d.output <- batch:
	default:
		// A stalled consumer drops the batch; the periodic incremental
		// update reconciles anything missed.
	}
}

// Stop cancels any pending flush. Events already emitted remain readable.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
