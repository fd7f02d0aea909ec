package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayasuda/fileseek/config"
	"github.com/ayasuda/fileseek/fulltext"
	"github.com/ayasuda/fileseek/ignore"
	"github.com/ayasuda/fileseek/index"
	"github.com/ayasuda/fileseek/query"
	"github.com/ayasuda/fileseek/replace"
	"github.com/ayasuda/fileseek/search"
	"github.com/ayasuda/fileseek/server"
	"github.com/ayasuda/fileseek/tools"
	"github.com/ayasuda/fileseek/watcher"
)

// stringList is a repeatable CLI flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ", ") }
func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	var configPath string
	var roots stringList
	var excludes stringList
	var logLevel string
	var logFile string
	var searchQuery string
	var quickQuery string

	flag.StringVar(&configPath, "config", "", "Config file path (default: ~/.fileseek/config.toml)")
	flag.Var(&roots, "root", "Indexed root directory, overrides the config (repeatable)")
	flag.Var(&excludes, "exclude", "Extra ignore pattern (repeatable)")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flag.StringVar(&searchQuery, "search", "", "One-shot content search under the configured roots, then exit")
	flag.StringVar(&quickQuery, "quick", "", "One-shot name lookup against the persisted index, then exit")
	flag.Parse()

	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags win over the config file.
	if len(roots) > 0 {
		cfg.Roots = roots
	}
	cfg.ExcludePatterns = append(cfg.ExcludePatterns, excludes...)
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	for i, root := range cfg.Roots {
		cfg.Roots[i], _ = filepath.Abs(root)
	}

	// One-shot modes print to stdout and never start the server.
	if quickQuery != "" {
		os.Exit(runQuick(cfg, quickQuery))
	}
	if searchQuery != "" {
		os.Exit(runSearch(cfg, searchQuery))
	}

	// Setup logger (always to file or stderr, never to stdout - stdout is for MCP stdio)
	logger := setupLogger(cfg.LogLevel, cfg.LogFile)

	logger.Info("starting fileseek",
		"roots", cfg.Roots,
		"interval", cfg.Interval,
		"snapshot", cfg.SnapshotPath,
		"fulltext", cfg.EnableFulltext,
	)

	startTime := time.Now()

	ignoreMatcher := ignore.NewMatcher(ignore.Options{
		Roots:            cfg.Roots,
		CustomPatterns:   cfg.ExcludePatterns,
		MaxFileSizeBytes: cfg.MaxFileSizeBytes,
	})

	store := index.NewStore()
	if restored := index.RestoreSnapshot(store, cfg.SnapshotPath); restored > 0 {
		logger.Info("restored index snapshot", "path", cfg.SnapshotPath, "entries", restored)
	}

	var contentIndex *fulltext.Index
	var sink index.ContentSink
	if cfg.EnableFulltext {
		contentIndex, err = fulltext.New()
		if err != nil {
			logger.Error("failed to create full-text index", "error", err)
			os.Exit(1)
		}
		defer contentIndex.Close()
		sink = contentIndex
	}

	reindexer := index.NewReindexer(store, cfg.Roots, ignoreMatcher, sink, cfg.SnapshotPath, logger)

	// A restored snapshot only needs freshening; an empty store needs a build.
	go func() {
		var err error
		if store.Len() > 0 {
			err = reindexer.IncrementalUpdate(context.Background())
		} else {
			err = reindexer.FullReindex(context.Background())
		}
		if err != nil {
			logger.Warn("initial index pass failed", "error", err)
		}
	}()

	service := index.NewService(store, reindexer, cfg.IntervalDuration(), logger)
	service.Start()
	defer service.Stop()

	if cfg.EnableWatcher {
		fileWatcher, err := watcher.New(cfg.Roots, ignoreMatcher, logger)
		if err != nil {
			logger.Warn("failed to start file watcher, continuing without live updates", "error", err)
		} else {
			go fileWatcher.Start()
			go handleWatcherEvents(fileWatcher, store, contentIndex, ignoreMatcher, logger)
			defer fileWatcher.Close()
		}
	}

	pipeline := search.NewPipeline(logger)
	engine := query.NewEngine(store, cfg.SnapshotPath, logger)

	searchHandler := &tools.SearchHandler{Pipeline: pipeline, Logger: logger}
	lookupHandler := &tools.LookupHandler{Engine: engine, Logger: logger}
	contentHandler := &tools.ContentHandler{Index: contentIndex, Logger: logger}
	reindexHandler := &tools.ReindexHandler{Reindexer: reindexer, Store: store, Logger: logger}
	statusHandler := &tools.StatusHandler{
		Store:     store,
		Reindexer: reindexer,
		Roots:     cfg.Roots,
		StartTime: startTime,
		Logger:    logger,
	}
	replaceHandler := &tools.ReplaceHandler{Replacer: replace.NewReplacer(logger), Logger: logger}

	mcpServer := server.Setup(searchHandler, lookupHandler, contentHandler, reindexHandler, statusHandler, replaceHandler)

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// handleWatcherEvents applies debounced filesystem changes to the index,
// keeping it fresh between incremental update passes.
func handleWatcherEvents(
	fileWatcher *watcher.Watcher,
	store *index.Store,
	contentIndex *fulltext.Index,
	ignoreMatcher *ignore.Matcher,
	logger *slog.Logger,
) {
	for batch := range fileWatcher.Events() {
		for _, event := range batch {
			switch event.Op {
			case watcher.OpRemove, watcher.OpRename:
				store.Remove(event.Path)
				if contentIndex != nil {
					contentIndex.RemoveFile(event.Path)
				}

			case watcher.OpCreate, watcher.OpWrite:
				if filepath.Base(event.Path) == ignore.IgnoreFileName {
					ignoreMatcher.Reload()
					continue
				}
				info, err := os.Stat(event.Path)
				if err != nil || info.IsDir() {
					continue
				}
				if ignoreMatcher.ShouldIgnore(event.Path) {
					continue
				}
				store.Upsert(index.NewEntry(event.Path, info.Size(), info.ModTime()))
				if contentIndex != nil && !ignoreMatcher.IsFileTooLarge(info.Size()) {
					if data, err := os.ReadFile(event.Path); err == nil {
						contentIndex.IndexFile(event.Path, string(data))
					}
				}
			}
		}
		// Snapshot persistence stays with the periodic service pass.
		logger.Debug("applied watcher batch", "events", len(batch), "entries", store.Len())
	}
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
