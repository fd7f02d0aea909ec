package tools

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ayasuda/fileseek/fulltext"
	"github.com/ayasuda/fileseek/index"
	"github.com/ayasuda/fileseek/search"
)

// FormatSearchResult renders a pipeline search result as human-readable text.
func FormatSearchResult(result *search.Result) string {
	if result.ErrorMessage != "" {
		return fmt.Sprintf("Search failed: %s", result.ErrorMessage)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Matched %d of %d files scanned in %s",
		result.MatchCount(), result.TotalFilesScanned, result.Duration.Round(time.Millisecond)))
	if result.WasCancelled {
		builder.WriteString(" (cancelled)")
	}
	builder.WriteString("\n")

	for _, match := range result.Matches {
		builder.WriteString(fmt.Sprintf("\n%s  (%s, %s)\n",
			match.Path, formatFileSize(match.SizeBytes), match.ModTime.Format("2006-01-02 15:04")))
		for _, cm := range match.ContentMatches {
			builder.WriteString(fmt.Sprintf("  %d:%d: %s%s%s\n",
				cm.LineNumber, cm.StartColumn, cm.ContextBefore, cm.MatchedText, cm.ContextAfter))
		}
	}
	return builder.String()
}

// FormatEntries renders index entries one per line.
func FormatEntries(entries []index.Entry) string {
	if len(entries) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(entries)))
	for _, entry := range entries {
		builder.WriteString(fmt.Sprintf("  %s  (%s, %s)\n",
			entry.Path, formatFileSize(entry.SizeBytes), entry.ModTime.Format("2006-01-02 15:04")))
	}
	return builder.String()
}

// FormatContentResults renders full-text hits grouped by file.
func FormatContentResults(results []fulltext.FileResult, totalLines int) string {
	if len(results) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d matching lines in %d files:\n\n", totalLines, len(results)))
	for i, result := range results {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("── %s ──\n", result.Path))
		for _, match := range result.Matches {
			builder.WriteString(fmt.Sprintf("  %d: %s\n", match.LineNumber, match.LineText))
		}
	}
	return builder.String()
}

// FormatStats renders index statistics with a per-extension breakdown sorted
// by count.
func FormatStats(stats index.Stats, roots []string, uptime time.Duration, indexing bool) string {
	var builder strings.Builder
	builder.WriteString("=== fileseek status ===\n\n")
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Indexing in progress: %t\n", indexing))
	builder.WriteString(fmt.Sprintf("Indexed files: %d\n", stats.TotalFiles))
	builder.WriteString(fmt.Sprintf("Total indexed size: %s\n", formatFileSize(stats.TotalSizeBytes)))

	if len(roots) > 0 {
		builder.WriteString("\nRoots:\n")
		for _, root := range roots {
			builder.WriteString(fmt.Sprintf("  %-40s %d files\n", root, stats.RootCounts[root]))
		}
	}

	if len(stats.ExtensionCounts) > 0 {
		type extEntry struct {
			ext   string
			count int
		}
		entries := make([]extEntry, 0, len(stats.ExtensionCounts))
		for ext, count := range stats.ExtensionCounts {
			entries = append(entries, extEntry{ext, count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].ext < entries[j].ext
		})

		builder.WriteString("\nExtensions:\n")
		limit := len(entries)
		if limit > 20 {
			limit = 20
		}
		for _, entry := range entries[:limit] {
			builder.WriteString(fmt.Sprintf("  %-12s %d files\n", entry.ext, entry.count))
		}
	}

	return builder.String()
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
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

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, totalSeconds%60)
	}
	return fmt.Sprintf("%dh%dm", totalMinutes/60, totalMinutes%60)
}
