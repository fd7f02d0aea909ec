package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayasuda/fileseek/index"
)

// StatusArgs defines the input parameters for the fs_status tool (none).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Store     *index.Store
	Reindexer *index.Reindexer
	Roots     []string
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes an fs_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	stats := h.Store.Stats(h.Roots)
	uptime := time.Since(h.StartTime)

	h.Logger.Info("fs_status",
		"files", stats.TotalFiles,
		"totalSize", stats.TotalSizeBytes,
		"indexing", h.Reindexer.Indexing(),
		"uptime", uptime,
	)

	return textResult(FormatStats(stats, h.Roots, uptime, h.Reindexer.Indexing())), nil, nil
}
