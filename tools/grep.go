package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/repolens/repolens/index"
	"github.com/repolens/repolens/search"
)

// GrepArgs defines the input parameters for the repolens_grep tool.
type GrepArgs struct {
	Query      string `json:"query" jsonschema:"One or more search terms separated by whitespace. A line matches only when it contains every term (case-insensitive)"`
	FileGlob   string `json:"fileGlob,omitempty" jsonschema:"Optional glob pattern to filter files (e.g. **/*.go)"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of matches to return across all files (default 50)"`
	MaxPerFile int    `json:"maxPerFile,omitempty" jsonschema:"Maximum number of matches per file (default 5)"`
}

// GrepHandler holds the dependencies for the grep tool.
type GrepHandler struct {
	Holder *index.Holder
	Logger *slog.Logger
}

// Handle processes a repolens_grep request.
func (h *GrepHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args GrepArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("repolens_grep called with empty query")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: query parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	snap := h.Holder.Load()
	if snap == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: index not ready"}},
			IsError: true,
		}, nil, nil
	}

	matches, err := search.Grep(ctx, snap, args.Query, search.GrepOptions{
		Limit:      args.MaxResults,
		MaxPerFile: args.MaxPerFile,
		Glob:       args.FileGlob,
	})
	if err != nil {
		h.Logger.Error("repolens_grep failed", "query", args.Query, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Grep error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("repolens_grep",
		"query", args.Query,
		"fileGlob", args.FileGlob,
		"matches", len(matches),
		"elapsed", elapsed,
	)

	output := FormatGrepMatches(matches)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}
