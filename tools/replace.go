package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayasuda/fileseek/replace"
)

// ReplaceArgs defines the input parameters for the fs_replace tool.
type ReplaceArgs struct {
	SearchPattern string   `json:"searchPattern" jsonschema:"Text or regex to replace"`
	ReplaceText   string   `json:"replaceText" jsonschema:"Replacement text"`
	Paths         []string `json:"paths" jsonschema:"Target file paths"`
	UseRegex      bool     `json:"useRegex,omitempty" jsonschema:"Treat searchPattern as a regular expression"`
	CaseSensitive bool     `json:"caseSensitive,omitempty" jsonschema:"Match case-sensitively"`
	Backup        bool     `json:"backup,omitempty" jsonschema:"Write a .bak copy of each file before rewriting it"`
	Preview       bool     `json:"preview,omitempty" jsonschema:"Report the lines that would change without writing anything"`
}

// ReplaceHandler holds the dependencies for the batch replace tool.
type ReplaceHandler struct {
	Replacer *replace.Replacer
	Logger   *slog.Logger
}

// Handle processes an fs_replace request. Preview mode never writes; apply
// mode collects per-file failures without aborting the batch.
func (h *ReplaceHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReplaceArgs) (*mcp.CallToolResult, any, error) {
	if args.SearchPattern == "" {
		return errorResult("Error: searchPattern parameter is required"), nil, nil
	}
	if len(args.Paths) == 0 {
		return errorResult("Error: paths parameter is required"), nil, nil
	}

	op := replace.Operation{
		SearchPattern: args.SearchPattern,
		ReplaceText:   args.ReplaceText,
		TargetPaths:   args.Paths,
		UseRegex:      args.UseRegex,
		CaseSensitive: args.CaseSensitive,
		CreateBackup:  args.Backup,
	}

	if args.Preview {
		changes := h.Replacer.Preview(ctx, op)
		h.Logger.Info("fs_replace preview", "pattern", args.SearchPattern, "changes", len(changes))
		return textResult(formatPreview(changes)), nil, nil
	}

	result := h.Replacer.Replace(ctx, op)
	h.Logger.Info("fs_replace",
		"pattern", args.SearchPattern,
		"files", len(result.Processed),
		"failed", len(result.Failed),
		"replacements", result.TotalReplacements,
	)
	return textResult(formatReplaceResult(result)), nil, nil
}

// formatPreview renders would-be changes one line each.
func formatPreview(changes []replace.PreviewChange) string {
	if len(changes) == 0 {
		return "No lines would change."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d lines would change:\n\n", len(changes)))
	for _, change := range changes {
		builder.WriteString(fmt.Sprintf("%s:%d\n", change.Path, change.LineNumber))
		builder.WriteString(fmt.Sprintf("  - %s\n", change.Before))
		builder.WriteString(fmt.Sprintf("  + %s\n", change.After))
	}
	return builder.String()
}

// formatReplaceResult renders a completed batch.
func formatReplaceResult(result *replace.Result) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Replaced %d occurrences across %d files.\n",
		result.TotalReplacements, len(result.Processed)))

	for _, outcome := range result.Processed {
		if outcome.Replacements == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("  %s: %d", outcome.Path, outcome.Replacements))
		if outcome.BackupPath != "" {
			builder.WriteString(fmt.Sprintf(" (backup: %s)", outcome.BackupPath))
		}
		builder.WriteString("\n")
	}

	if len(result.Failed) > 0 {
		builder.WriteString(fmt.Sprintf("\n%d files failed:\n", len(result.Failed)))
		for _, outcome := range result.Failed {
			builder.WriteString(fmt.Sprintf("  %s: %s\n", outcome.Path, outcome.ErrorMessage))
		}
	}
	return builder.String()
}
