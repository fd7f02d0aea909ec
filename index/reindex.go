package index

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/ayasuda/fileseek/scan"
)

// ErrBusy is returned when a reindex or incremental update is already running.
// The caller is turned away immediately; operations are never queued.
var ErrBusy = errors.New("index operation already in progress")

// WalkFilter decides which paths an index walk skips.
type WalkFilter interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
	IsFileTooLarge(sizeBytes int64) bool
}

// ContentSink receives file contents during a full reindex, feeding the
// optional full-text index. All methods must be safe for concurrent use.
type ContentSink interface {
	IndexFile(path string, content string) error
	RemoveFile(path string) error
	Clear() error
}

// Reindexer performs full and incremental index maintenance over the
// configured roots. At most one operation runs at a time, enforced by a
// non-blocking single-permit gate.
type Reindexer struct {
	store        *Store
	roots        []string
	filter       WalkFilter
	sink         ContentSink // nil when full-text indexing is disabled
	snapshotPath string
	logger       *slog.Logger

	gate     *semaphore.Weighted
	indexing atomic.Bool
	progress *ProgressBroker
}

// NewReindexer creates a reindexer over the given roots.
func NewReindexer(store *Store, roots []string, filter WalkFilter, sink ContentSink, snapshotPath string, logger *slog.Logger) *Reindexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reindexer{
		store:        store,
		roots:        roots,
		filter:       filter,
		sink:         sink,
		snapshotPath: snapshotPath,
		logger:       logger,
		gate:         semaphore.NewWeighted(1),
		progress:     NewProgressBroker(),
	}
}

// Progress returns the broker delivering index operation snapshots.
func (r *Reindexer) Progress() *ProgressBroker {
	return r.progress
}

// Indexing reports whether a full or incremental operation is running.
func (r *Reindexer) Indexing() bool {
	return r.indexing.Load()
}

// FullReindex walks every configured root and rebuilds the index from
// scratch. A second concurrent operation is dropped with ErrBusy.
// Cancellation stops the walk at the next file boundary and is not an error.
func (r *Reindexer) FullReindex(ctx context.Context) error {
	if !r.gate.TryAcquire(1) {
		return ErrBusy
	}
	defer r.gate.Release(1)

	r.indexing.Store(true)
	defer r.indexing.Store(false)

	start := time.Now()
	r.store.Clear()
	if r.sink != nil {
		if err := r.sink.Clear(); err != nil {
			r.logger.Warn("failed to clear content sink", "error", err)
		}
	}

	var processed atomic.Int64
	for _, root := range r.roots {
		if ctx.Err() != nil {
			break
		}
		r.walkRoot(ctx, root, start, &processed)
	}

	r.progress.publish(Progress{
		FilesProcessed: int(processed.Load()),
		Percentage:     100,
		Elapsed:        time.Since(start),
		Completed:      true,
	})

	r.saveSnapshot()
	r.logger.Info("full reindex complete",
		"roots", len(r.roots),
		"files", processed.Load(),
		"duration", time.Since(start),
	)
	return nil
}

// walkRoot indexes all files under one root with a bounded worker pool.
func (r *Reindexer) walkRoot(ctx context.Context, root string, start time.Time, processed *atomic.Int64) {
	const workerCount = 8
	type job struct {
		path string
		info os.FileInfo
	}
	jobs := make(chan job, 100)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				r.store.Upsert(NewEntry(j.path, j.info.Size(), j.info.ModTime()))
				r.feedSink(j.path, j.info.Size())

				count := processed.Add(1)
				if count%progressInterval == 0 {
					r.progress.publish(Progress{
						CurrentRoot:    root,
						FilesProcessed: int(count),
						Elapsed:        time.Since(start),
					})
				}
			}
		}()
	}

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entry, continue with siblings
		}
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if d.IsDir() {
			if path != root && r.filter != nil && r.filter.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if r.filter != nil && r.filter.ShouldIgnore(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		jobs <- job{path: path, info: info}
		return nil
	})

	close(jobs)
	wg.Wait()
}

// IncrementalUpdate iterates existing entries, replacing those whose size or
// modification time changed and removing those that vanished. Directories
// with no changes are never rewalked. Dropped with ErrBusy when another
// operation holds the gate.
func (r *Reindexer) IncrementalUpdate(ctx context.Context) error {
	if !r.gate.TryAcquire(1) {
		return ErrBusy
	}
	defer r.gate.Release(1)

	r.indexing.Store(true)
	defer r.indexing.Store(false)

	start := time.Now()
	entries := r.store.Snapshot()
	total := len(entries)

	updated, removed := 0, 0
	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}

		info, err := os.Stat(entry.Path)
		switch {
		case err != nil:
			r.store.Remove(entry.Path)
			if r.sink != nil {
				r.sink.RemoveFile(entry.Path)
			}
			removed++
		case info.Size() != entry.SizeBytes || !info.ModTime().Equal(entry.ModTime):
			r.store.Upsert(NewEntry(entry.Path, info.Size(), info.ModTime()))
			r.feedSink(entry.Path, info.Size())
			updated++
		}

		if (i+1)%progressInterval == 0 {
			r.progress.publish(Progress{
				FilesProcessed: i + 1,
				TotalFiles:     total,
				Percentage:     (i + 1) * 100 / total,
				Elapsed:        time.Since(start),
			})
		}
	}

	r.progress.publish(Progress{
		FilesProcessed: total,
		TotalFiles:     total,
		Percentage:     100,
		Elapsed:        time.Since(start),
		Completed:      true,
	})

	r.saveSnapshot()
	r.logger.Debug("incremental update complete",
		"entries", total,
		"updated", updated,
		"removed", removed,
		"duration", time.Since(start),
	)
	return nil
}

// feedSink reads a file and hands its content to the full-text sink.
// Oversized, unreadable and binary files are skipped silently.
func (r *Reindexer) feedSink(path string, sizeBytes int64) {
	if r.sink == nil {
		return
	}
	if r.filter != nil && r.filter.IsFileTooLarge(sizeBytes) {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if scan.IsBinary(data) {
		return
	}
	if err := r.sink.IndexFile(path, string(data)); err != nil {
		r.logger.Debug("content indexing skipped", "path", path, "error", err)
	}
}

// saveSnapshot persists the current entries; failures are logged and retried
// on the next natural save.
func (r *Reindexer) saveSnapshot() {
	if r.snapshotPath == "" {
		return
	}
	if err := SaveSnapshot(r.store, r.snapshotPath); err != nil {
		r.logger.Warn("failed to persist index snapshot", "path", r.snapshotPath, "error", err)
	}
}
