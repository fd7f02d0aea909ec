package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayasuda/fileseek/tools"
)

// Setup creates and configures the MCP server with all tool registrations.
func Setup(
	searchHandler *tools.SearchHandler,
	lookupHandler *tools.LookupHandler,
	contentHandler *tools.ContentHandler,
	reindexHandler *tools.ReindexHandler,
	statusHandler *tools.StatusHandler,
	replaceHandler *tools.ReplaceHandler,
) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fileseek",
			Version: "0.3.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server finds files across the configured root directories. A background index of file metadata is kept up to date, so fs_lookup and fs_content answer from memory without touching the disk.

Tool selection:
- Use fs_lookup for "where is that file" questions: name substring, wildcard/regex pattern, extension set, or glob
- Use fs_search for filtered scans that combine name, extension, date range, and content criteria
- Use fs_content for full-text content queries against the indexed corpus
- The index refreshes itself periodically; fs_reindex forces a rebuild on demand`,
		},
	)

	// Register fs_search tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "fs_search",
		Description: `Search the filesystem with combined criteria: filename pattern, extensions, modification date range, and file content.

Name patterns:
  - Wildcards: "report*.pdf", "test?.log" (? matches one character)
  - Multiple patterns separated by ; or , ("*.go;*.md")
  - Set useRegex for regular expressions

Content search scans matching files line by line and reports each hit with line, column, and surrounding context.`,
	}, searchHandler.Handle)

	// Register fs_lookup tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "fs_lookup",
		Description: `Find files by name from the in-memory index. No disk access, answers instantly.

Query modes (first present wins):
  - glob: "**/*.pdf" matched against full paths
  - pattern: wildcard or regex matched against file names
  - extensions: ["pdf", "docx"]
  - substring: quick search, shortest names first`,
	}, lookupHandler.Handle)

	// Register fs_content tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "fs_content",
		Description: `Full-text search over indexed file contents.

Query formats:
  - Plain text: word-level matching (e.g., "invoice")
  - "quoted text": exact phrase matching
  - /regex/: regular expression matching`,
	}, contentHandler.Handle)

	// Register fs_reindex tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "fs_reindex",
		Description: "Rebuild the file index. Pass incremental=true to refresh existing entries instead of a full rescan. Returns immediately with a notice if an index operation is already running.",
	}, reindexHandler.Handle)

	// Register fs_status tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "fs_status",
		Description: "Show index status: file count, total size, per-root and per-extension breakdown, and uptime.",
	}, statusHandler.Handle)

	// Register fs_replace tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "fs_replace",
		Description: "Batch search-and-replace across the given files. Supports literal and regex patterns, optional .bak backups, and a preview mode that reports would-be changes without writing. Per-file failures are reported without aborting the batch.",
	}, replaceHandler.Handle)

	return mcpServer
}
