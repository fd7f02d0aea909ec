package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayasuda/fileseek/query"
)

// LookupArgs defines the input parameters for the fs_lookup tool.
// Exactly one of glob, pattern, extensions or substring selects the query
// mode; glob wins over pattern, pattern over extensions, extensions over
// substring.
type LookupArgs struct {
	Substring     string   `json:"substring,omitempty" jsonschema:"Name substring for quick search (shortest names first)"`
	Pattern       string   `json:"pattern,omitempty" jsonschema:"Wildcard or regex name pattern"`
	Extensions    []string `json:"extensions,omitempty" jsonschema:"Extension set to look up"`
	Glob          string   `json:"glob,omitempty" jsonschema:"Doublestar glob matched against full paths, e.g. **/*.pdf"`
	UseRegex      bool     `json:"useRegex,omitempty" jsonschema:"Treat pattern as a regular expression"`
	CaseSensitive bool     `json:"caseSensitive,omitempty" jsonschema:"Match pattern case-sensitively"`
	MaxResults    int      `json:"maxResults,omitempty" jsonschema:"Maximum results (default 50)"`
}

// LookupHandler holds the dependencies for the lookup tool.
type LookupHandler struct {
	Engine *query.Engine
	Logger *slog.Logger
}

// Handle processes an fs_lookup request against the maintained index.
func (h *LookupHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args LookupArgs) (*mcp.CallToolResult, any, error) {
	switch {
	case args.Glob != "":
		entries, err := h.Engine.SearchByGlob(args.Glob, args.MaxResults)
		if err != nil {
			return errorResult(fmt.Sprintf("lookup error: %v", err)), nil, nil
		}
		h.Logger.Info("fs_lookup", "glob", args.Glob, "results", len(entries))
		return textResult(FormatEntries(entries)), nil, nil

	case args.Pattern != "":
		entries := h.Engine.SearchByPattern(args.Pattern, args.UseRegex, args.CaseSensitive, args.MaxResults)
		h.Logger.Info("fs_lookup", "pattern", args.Pattern, "results", len(entries))
		return textResult(FormatEntries(entries)), nil, nil

	case len(args.Extensions) > 0:
		entries := h.Engine.SearchByExtension(args.Extensions, args.MaxResults)
		h.Logger.Info("fs_lookup", "extensions", args.Extensions, "results", len(entries))
		return textResult(FormatEntries(entries)), nil, nil

	case args.Substring != "":
		entries := h.Engine.QuickSearch(args.Substring, args.MaxResults)
		h.Logger.Info("fs_lookup", "substring", args.Substring, "results", len(entries))
		return textResult(FormatEntries(entries)), nil, nil

	default:
		return errorResult("Error: one of substring, pattern, extensions or glob is required"), nil, nil
	}
}

// textResult wraps plain text as a successful tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
