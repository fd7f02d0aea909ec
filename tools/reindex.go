package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayasuda/fileseek/index"
)

// ReindexArgs defines the input parameters for the fs_reindex tool.
type ReindexArgs struct {
	Incremental bool `json:"incremental,omitempty" jsonschema:"Run an incremental update over existing entries instead of a full rebuild"`
}

// ReindexHandler holds the dependencies for the reindex tool.
type ReindexHandler struct {
	Reindexer *index.Reindexer
	Store     *index.Store
	Logger    *slog.Logger
}

// Handle processes an fs_reindex request. A request landing while another
// operation runs is turned away, matching the skip-if-busy gate semantics.
func (h *ReindexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReindexArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	var err error
	if args.Incremental {
		err = h.Reindexer.IncrementalUpdate(ctx)
	} else {
		err = h.Reindexer.FullReindex(ctx)
	}

	if errors.Is(err, index.ErrBusy) {
		return textResult("An index operation is already in progress; request dropped."), nil, nil
	}
	if err != nil {
		h.Logger.Error("fs_reindex failed", "error", err)
		return errorResult(fmt.Sprintf("reindex error: %v", err)), nil, nil
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	h.Logger.Info("fs_reindex complete", "incremental", args.Incremental, "entries", h.Store.Len(), "elapsed", elapsed)
	return textResult(fmt.Sprintf("Index now holds %d files (completed in %s).", h.Store.Len(), elapsed)), nil, nil
}
