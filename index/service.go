package index

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Service owns the store and reindexer and drives the recurring incremental
// update. Lifecycle is explicit: nothing runs before Start, and Stop waits
// for the ticker goroutine to exit. Ticks that land while an operation is
// already running are skipped, never queued.
type Service struct {
	Store     *Store
	Reindexer *Reindexer

	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	started bool
}

// NewService creates the index service. interval is the incremental update
// cadence; zero or negative selects the 5-minute default.
func NewService(store *Store, reindexer *Reindexer, interval time.Duration, logger *slog.Logger) *Service {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Store:     store,
		Reindexer: reindexer,
		interval:  interval,
		logger:    logger,
	}
}

// Start launches the background incremental update loop. Starting an already
// started service is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
	s.logger.Info("index service started", "interval", s.interval)
}

// Stop halts the background loop and waits for it to exit. A running
// operation finishes its current file and observes the cancelled context.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	close(s.stop)
	<-s.done
	s.started = false
	s.logger.Info("index service stopped")
}

func (s *Service) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-stop
		cancel()
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			err := s.Reindexer.IncrementalUpdate(ctx)
			if errors.Is(err, ErrBusy) {
				s.logger.Debug("incremental update tick skipped, operation in progress")
			}
		}
	}
}
