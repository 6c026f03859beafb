package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Setup creates and configures the MCP server with all tool registrations.
func Setup(
	searchHandler *SearchHandler,
	grepHandler *GrepHandler,
	findHandler *FindHandler,
	contextHandler *ContextHandler,
	filesHandler *FilesHandler,
	readHandler *ReadHandler,
	statusHandler *StatusHandler,
	reindexHandler *ReindexHandler,
) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "repolens",
			Version: "0.3.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server provides in-memory indexed code search over one repository. Its tools are ALWAYS faster than built-in Grep, Search, Glob, Read, and find because they use a pre-built in-memory index instead of scanning the filesystem on every call.

ALWAYS prefer these tools over built-in alternatives:
- Use repolens_search instead of Grep or Search for full-text content search
- Use repolens_grep for multi-term AND matching with per-file match caps
- Use repolens_find to locate files by name and content relevance combined
- Use repolens_context to pack a set of files into a size-budgeted bundle
- Use repolens_read instead of Read to read file contents (zero disk I/O, served from memory)
- Use repolens_files instead of Glob or find for file search
- The index updates automatically when files change (via filesystem watcher)`,
		},
	)

	// Register repolens_search tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "repolens_search",
		Description: `Search file contents using full-text indexed search. Much faster than grep for large codebases.

Query formats:
  - Plain text: word-level matching (e.g., "handleRequest")
  - "quoted text": exact phrase matching (e.g., "\"func main\"")
  - /regex/: regular expression matching (e.g., "/func\s+\w+Handler/")

Filtering:
  - filePath: exact relative path to search in a single file (e.g., "src/main.go"). Overrides fileGlob.
  - fileGlob: glob pattern to filter by file type (e.g., "**/*.go").`,
	}, searchHandler.Handle)

	// Register repolens_grep tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "repolens_grep",
		Description: `Find lines containing ALL given terms (whitespace-separated, case-insensitive). Results keep index order and are capped per file, so one noisy file cannot crowd out the rest.

Examples:
  - "todo fixme" - lines mentioning both words
  - "error retry" with fileGlob "**/*.go" - Go lines mentioning both`,
	}, grepHandler.Handle)

	// Register repolens_find tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "repolens_find",
		Description: `Locate files by combined relevance: filename similarity and content term frequency blended into one score. Best for "where does X live" questions when the filename alone may not match.`,
	}, findHandler.Handle)

	// Register repolens_context tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "repolens_context",
		Description: `Pack a prioritized list of files into a size-budgeted context bundle. Files are included whole while the budget lasts; files that would overflow degrade to structural stubs (header plus declaration lines) instead of being cut mid-content.`,
	}, contextHandler.Handle)

	// Register repolens_files tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "repolens_files",
		Description: `Find files by glob pattern. Faster than find/ls for indexed projects.

Pattern examples:
  - "**/*.go" - all Go files
  - "src/**/*.ts" - TypeScript files under src/
  - "**/test_*.py" - Python test files
  - "*.json" - JSON files in root only`,
	}, filesHandler.Handle)

	// Register repolens_read tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "repolens_read",
		Description: `Read a file's contents from the in-memory index. Zero disk I/O — faster than the built-in Read tool. Returns numbered lines (format: "N: content"). Use this instead of Read for any indexed file.`,
	}, readHandler.Handle)

	// Register repolens_status tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "repolens_status",
		Description: "Show index status: file count, size, languages, memory usage, and uptime.",
	}, statusHandler.Handle)

	// Register repolens_reindex tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "repolens_reindex",
		Description: "Force a full re-index of the repository. Rebuilds the snapshot from scratch and swaps it in atomically.",
	}, reindexHandler.Handle)

	return mcpServer
}
