package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayasuda/fileseek/search"
)

// SearchArgs defines the input parameters for the fs_search tool.
type SearchArgs struct {
	Root             string   `json:"root" jsonschema:"Directory to search under"`
	NamePattern      string   `json:"namePattern,omitempty" jsonschema:"Filename pattern: wildcards with * and ? (multiple separated by ; or ,), or a regular expression when useRegex is set"`
	Extensions       []string `json:"extensions,omitempty" jsonschema:"Extension allow-list, with or without leading dot"`
	DateFrom         string   `json:"dateFrom,omitempty" jsonschema:"Earliest modification date, YYYY-MM-DD or RFC3339"`
	DateTo           string   `json:"dateTo,omitempty" jsonschema:"Latest modification date, YYYY-MM-DD or RFC3339"`
	ContentPattern   string   `json:"contentPattern,omitempty" jsonschema:"Text to find inside files"`
	UseRegex         bool     `json:"useRegex,omitempty" jsonschema:"Treat namePattern and contentPattern as regular expressions"`
	CaseSensitive    bool     `json:"caseSensitive,omitempty" jsonschema:"Match case-sensitively"`
	WholeWordOnly    bool     `json:"wholeWordOnly,omitempty" jsonschema:"Match whole words only in content search"`
	NoSubdirectories bool     `json:"noSubdirectories,omitempty" jsonschema:"Restrict the search to the root directory itself"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Pipeline *search.Pipeline
	Logger   *slog.Logger
}

// Handle processes an fs_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	if args.Root == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: root parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	criteria := search.Criteria{
		RootDir:               args.Root,
		FilenamePattern:       args.NamePattern,
		Extensions:            args.Extensions,
		ContentPattern:        args.ContentPattern,
		UseRegex:              args.UseRegex,
		CaseSensitive:         args.CaseSensitive,
		WholeWordOnly:         args.WholeWordOnly,
		IncludeSubdirectories: !args.NoSubdirectories,
	}

	if args.DateFrom != "" {
		t, err := parseDate(args.DateFrom)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid dateFrom: %v", err)), nil, nil
		}
		criteria.DateFrom = &t
	}
	if args.DateTo != "" {
		t, err := parseDate(args.DateTo)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid dateTo: %v", err)), nil, nil
		}
		criteria.DateTo = &t
	}

	result := <-h.Pipeline.SearchAsync(ctx, criteria)

	h.Logger.Info("fs_search",
		"root", args.Root,
		"scanned", result.TotalFilesScanned,
		"matched", result.MatchCount(),
		"cancelled", result.WasCancelled,
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatSearchResult(result)}},
		IsError: result.ErrorMessage != "",
	}, nil, nil
}

// parseDate accepts YYYY-MM-DD or RFC3339 timestamps.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// errorResult wraps a message as a failed tool result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
		IsError: true,
	}
}
