package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayasuda/fileseek/fulltext"
)

// ContentArgs defines the input parameters for the fs_content tool.
type ContentArgs struct {
	Query      string `json:"query" jsonschema:"Content query. Plain text for word match, quoted for exact phrase, /regex/ for regular expression"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of file results (default 50)"`
}

// ContentHandler holds the dependencies for the full-text content tool.
// Index is nil when full-text indexing is disabled by configuration.
type ContentHandler struct {
	Index  *fulltext.Index
	Logger *slog.Logger
}

// Handle processes an fs_content request against the in-memory content index.
func (h *ContentHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ContentArgs) (*mcp.CallToolResult, any, error) {
	if h.Index == nil {
		return errorResult("Error: full-text indexing is disabled (enable_fulltext in the config)"), nil, nil
	}
	if args.Query == "" {
		return errorResult("Error: query parameter is required"), nil, nil
	}

	results, totalLines, err := h.Index.Search(args.Query, args.MaxResults)
	if err != nil {
		h.Logger.Error("fs_content failed", "query", args.Query, "error", err)
		return errorResult(fmt.Sprintf("content search error: %v", err)), nil, nil
	}

	h.Logger.Info("fs_content", "query", args.Query, "files", len(results), "lines", totalLines)
	return textResult(FormatContentResults(results, totalLines)), nil, nil
}
