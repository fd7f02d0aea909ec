package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/ayasuda/fileseek/config"
	"github.com/ayasuda/fileseek/index"
	"github.com/ayasuda/fileseek/query"
	"github.com/ayasuda/fileseek/search"
)

// runQuick answers a -quick name lookup from the persisted snapshot and
// returns the process exit code. The index is not rebuilt; an empty snapshot
// just yields no results.
func runQuick(cfg config.Config, substring string) int {
	setupCLIColors()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := index.NewStore()
	engine := query.NewEngine(store, cfg.SnapshotPath, logger)

	entries := engine.QuickSearch(substring, cfg.MaxResults)
	if len(entries) == 0 {
		fmt.Println("No files matched.")
		return 1
	}

	cyan := color.New(color.FgCyan)
	dim := color.New(color.Faint)
	for _, entry := range entries {
		cyan.Print(entry.Path)
		dim.Printf("  (%s, %s)\n", formatSize(entry.SizeBytes), entry.ModTime.Format("2006-01-02 15:04"))
	}
	fmt.Printf("\n%d files\n", len(entries))
	return 0
}

// runSearch scans the configured roots for content matches and returns the
// process exit code.
func runSearch(cfg config.Config, pattern string) int {
	setupCLIColors()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pipeline := search.NewPipeline(logger)
	matched := 0
	scanned := 0
	start := time.Now()

	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for _, root := range cfg.Roots {
		result, err := pipeline.Search(context.Background(), search.Criteria{
			RootDir:               root,
			ContentPattern:        pattern,
			IncludeSubdirectories: true,
		})
		if err != nil {
			red.Fprintf(os.Stderr, "search failed under %s: %v\n", root, err)
			return 1
		}

		scanned += result.TotalFilesScanned
		matched += result.MatchCount()
		for _, match := range result.Matches {
			cyan.Println(match.Path)
			for _, cm := range match.ContentMatches {
				yellow.Printf("  %d:%d", cm.LineNumber, cm.StartColumn)
				fmt.Printf(": %s%s%s\n", cm.ContextBefore, cm.MatchedText, cm.ContextAfter)
			}
		}
	}

	fmt.Printf("\nMatched %d of %d files in %s\n", matched, scanned, time.Since(start).Round(time.Millisecond))
	if matched == 0 {
		return 1
	}
	return 0
}

// setupCLIColors disables coloring when stdout is not a terminal.
func setupCLIColors() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// formatSize converts bytes to a human-readable string.
func formatSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024*1024:
		return fmt.Sprintf("%.1f GB", float64(bytes)/(1024*1024*1024))
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
