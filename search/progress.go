package search

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// progressInterval is the number of scanned files between progress emissions.
const progressInterval = 100

// Progress is a snapshot of a running search, delivered to subscribers.
// SearchID ties snapshots to one search invocation, so a subscriber watching
// concurrent searches can demultiplex the stream.
type Progress struct {
	SearchID     string
	FilesScanned int
	FilesMatched int
	CurrentFile  string
	Percentage   int // 0 while the total is unknown, 100 on completion
	Elapsed      time.Duration
}

// Broker fans progress snapshots out to zero or more subscribers.
// Delivery is in-order while subscribed; slow subscribers drop snapshots
// rather than stalling the search.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]chan Progress
}

// NewBroker creates an empty progress broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]chan Progress)}
}

// Subscribe registers a new consumer and returns its token and channel.
func (b *Broker) Subscribe() (string, <-chan Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Progress, 16)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a consumer and closes its channel.
func (b *Broker) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// publish sends a snapshot to every subscriber without blocking.
func (b *Broker) publish(p Progress) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- p:
		default:
		}
	}
}
