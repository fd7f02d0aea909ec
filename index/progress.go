package index

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// progressInterval is the number of processed files between progress emissions.
const progressInterval = 100

// Progress is a snapshot of a running index operation.
type Progress struct {
	CurrentRoot    string
	FilesProcessed int
	TotalFiles     int // 0 while unknown (full reindex walks are unbounded)
	Percentage     int
	Elapsed        time.Duration
	Completed      bool
	ErrorMessage   string
}

// ProgressBroker fans index progress snapshots out to subscribers, in order,
// dropping snapshots for consumers that fall behind.
type ProgressBroker struct {
	mu   sync.RWMutex
	subs map[string]chan Progress
}

// NewProgressBroker creates an empty broker.
func NewProgressBroker() *ProgressBroker {
	return &ProgressBroker{subs: make(map[string]chan Progress)}
}

// Subscribe registers a consumer and returns its token and channel.
func (b *ProgressBroker) Subscribe() (string, <-chan Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Progress, 16)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a consumer and closes its channel.
func (b *ProgressBroker) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *ProgressBroker) publish(p Progress) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- p:
		default:
		}
	}
}
