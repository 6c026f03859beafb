package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/repolens/repolens/index"
)

// ReindexArgs defines the input parameters for the repolens_reindex tool.
type ReindexArgs struct{}

// ReindexFunc rebuilds the snapshot and swaps it in. It is provided by main
// so the tool stays decoupled from the indexing pipeline.
type ReindexFunc func(ctx context.Context) (*index.Snapshot, error)

// ReindexHandler holds the dependencies for the reindex tool.
type ReindexHandler struct {
	DoReindex ReindexFunc
	Logger    *slog.Logger
}

// Handle processes a repolens_reindex request.
func (h *ReindexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReindexArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("repolens_reindex started")
	start := time.Now()

	snap, err := h.DoReindex(ctx)
	if err != nil {
		h.Logger.Error("repolens_reindex failed", "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Reindex error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("repolens_reindex complete",
		"files", snap.FileCount(),
		"totalSize", snap.TotalSizeBytes(),
		"elapsed", elapsed,
	)

	output := fmt.Sprintf("reindexed: %d files (%s) in %s",
		snap.FileCount(), formatFileSize(snap.TotalSizeBytes()), formatDuration(elapsed))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}
