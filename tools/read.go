package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/repolens/repolens/index"
)

// ReadArgs defines the input parameters for the repolens_read tool.
type ReadArgs struct {
	FilePath string `json:"filePath" jsonschema:"Relative file path to read from the index (e.g. src/main.go)"`
}

// ReadHandler holds the dependencies for the read tool.
type ReadHandler struct {
	Holder *index.Holder
	Logger *slog.Logger
}

// Handle processes a repolens_read request.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.FilePath == "" {
		h.Logger.Warn("repolens_read called with empty filePath")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: filePath parameter is required"}},
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

	content, err := snap.Content(args.FilePath)
	if err != nil {
		h.Logger.Info("repolens_read file not found", "filePath", args.FilePath)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("File not found in index: %s", args.FilePath)}},
			IsError: true,
		}, nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("repolens_read", "filePath", args.FilePath, "elapsed", elapsed)

	output := FormatFileContent(args.FilePath, content)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}
