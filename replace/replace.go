// Package replace applies search-and-replace operations across the files of a
// search result, with optional backups and a non-destructive preview.
package replace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/ayasuda/fileseek/scan"
)

// Operation describes one batch replacement.
type Operation struct {
	SearchPattern string
	ReplaceText   string
	TargetPaths   []string
	UseRegex      bool
	CaseSensitive bool
	CreateBackup  bool
	BackupSuffix  string // default ".bak"
}

// FileOutcome is the result for one file.
type FileOutcome struct {
	Path         string
	Replacements int
	BackupPath   string
	ErrorMessage string
}

// Result aggregates a batch replacement. Per-file failures never abort the
// batch; they are collected in Failed.
type Result struct {
	Processed         []FileOutcome
	Failed            []FileOutcome
	TotalReplacements int
}

// PreviewChange is one line that a replacement would modify.
type PreviewChange struct {
	Path       string
	LineNumber int
	Before     string
	After      string
}

// Replacer performs batch replacements.
type Replacer struct {
	Logger *slog.Logger
}

// NewReplacer creates a replacer.
func NewReplacer(logger *slog.Logger) *Replacer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Replacer{Logger: logger}
}

// Replace applies the operation to every target file. Cancellation stops at
// the next file boundary; files already written stay written.
func (r *Replacer) Replace(ctx context.Context, op Operation) *Result {
	apply := newSubstituter(op)
	result := &Result{}

	for _, path := range op.TargetPaths {
		if ctx.Err() != nil {
			break
		}

		count, backupPath, err := r.replaceInFile(path, op, apply)
		if err != nil {
			result.Failed = append(result.Failed, FileOutcome{Path: path, ErrorMessage: err.Error()})
			r.Logger.Warn("replace failed", "path", path, "error", err)
			continue
		}
		result.Processed = append(result.Processed, FileOutcome{
			Path:         path,
			Replacements: count,
			BackupPath:   backupPath,
		})
		result.TotalReplacements += count
	}

	r.Logger.Info("replace complete",
		"files", len(result.Processed),
		"failed", len(result.Failed),
		"replacements", result.TotalReplacements,
	)
	return result
}

// Preview reports the per-line changes the operation would make, without
// writing anything.
func (r *Replacer) Preview(ctx context.Context, op Operation) []PreviewChange {
	apply := newSubstituter(op)
	var changes []PreviewChange

	for _, path := range op.TargetPaths {
		if ctx.Err() != nil {
			break
		}

		data, err := os.ReadFile(path)
		if err != nil || scan.IsBinary(data) {
			continue
		}

		for i, line := range strings.Split(string(data), "\n") {
			after, count := apply(line)
			if count > 0 {
				changes = append(changes, PreviewChange{
					Path:       path,
					LineNumber: i + 1,
					Before:     line,
					After:      after,
				})
			}
		}
	}
	return changes
}

// replaceInFile rewrites one file, creating a backup first when requested and
// at least one replacement will be made.
func (r *Replacer) replaceInFile(path string, op Operation, apply substituteFunc) (int, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, "", fmt.Errorf("stat: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, "", fmt.Errorf("reading: %w", err)
	}
	if scan.IsBinary(data) {
		return 0, "", fmt.Errorf("not a text file")
	}

	newContent, count := apply(string(data))
	if count == 0 {
		return 0, "", nil
	}

	backupPath := ""
	if op.CreateBackup {
		suffix := op.BackupSuffix
		if suffix == "" {
			suffix = ".bak"
		}
		backupPath = path + suffix
		if err := os.WriteFile(backupPath, data, info.Mode().Perm()); err != nil {
			return 0, "", fmt.Errorf("creating backup: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(newContent), info.Mode().Perm()); err != nil {
		return 0, "", fmt.Errorf("writing: %w", err)
	}
	return count, backupPath, nil
}

// substituteFunc rewrites text and reports how many replacements were made.
type substituteFunc func(text string) (string, int)

// newSubstituter builds the replacement function: regex when requested and
// compilable, literal otherwise. An invalid regex falls back to a literal
// substitution of the raw pattern.
func newSubstituter(op Operation) substituteFunc {
	if op.UseRegex {
		source := op.SearchPattern
		if !op.CaseSensitive {
			source = "(?i)" + source
		}
		if re, err := regexp.Compile(source); err == nil {
			return func(text string) (string, int) {
				count := len(re.FindAllStringIndex(text, -1))
				if count == 0 {
					return text, 0
				}
				return re.ReplaceAllString(text, op.ReplaceText), count
			}
		}
	}

	return func(text string) (string, int) {
		return literalReplace(text, op.SearchPattern, op.ReplaceText, op.CaseSensitive)
	}
}

// literalReplace substitutes every non-overlapping occurrence. The
// case-insensitive form matches against the original text, never a folded
// copy, so multi-byte runes with different-length lowercase forms keep their
// offsets intact.
func literalReplace(text string, needle string, replacement string, caseSensitive bool) (string, int) {
	if needle == "" {
		return text, 0
	}

	if !caseSensitive {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(needle))
		count := len(re.FindAllStringIndex(text, -1))
		if count == 0 {
			return text, 0
		}
		return re.ReplaceAllLiteralString(text, replacement), count
	}

	count := strings.Count(text, needle)
	if count == 0 {
		return text, 0
	}
	return strings.ReplaceAll(text, needle, replacement), count
}
