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

// FindArgs defines the input parameters for the repolens_find tool.
type FindArgs struct {
	Query      string `json:"query" jsonschema:"Search terms matched against both filenames and file contents"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// FindHandler holds the dependencies for the find tool.
type FindHandler struct {
	Holder *index.Holder
	Logger *slog.Logger
}

// Handle processes a repolens_find request.
func (h *FindHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FindArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("repolens_find called with empty query")
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

	results, err := search.Find(ctx, snap, args.Query, args.MaxResults)
	if err != nil {
		h.Logger.Error("repolens_find failed", "query", args.Query, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Find error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("repolens_find",
		"query", args.Query,
		"results", len(results),
		"elapsed", elapsed,
	)

	output := FormatFindResults(results)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}
