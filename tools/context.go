package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/repolens/repolens/assemble"
	"github.com/repolens/repolens/index"
)

// ContextArgs defines the input parameters for the repolens_context tool.
type ContextArgs struct {
	Paths  []string `json:"paths" jsonschema:"Relative file paths to pack, in priority order. Files are emitted whole while they fit the budget, then as structural stubs"`
	Budget int      `json:"budget,omitempty" jsonschema:"Size budget for the bundle (default from server config)"`
	Unit   string   `json:"unit,omitempty" jsonschema:"Budget unit: tokens or bytes (default tokens)"`
}

// ContextHandler holds the dependencies for the context tool.
type ContextHandler struct {
	Holder        *index.Holder
	DefaultBudget int
	BytesPerToken int
	StubMaxLines  int
	Logger        *slog.Logger
}

// Handle processes a repolens_context request.
func (h *ContextHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ContextArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if len(args.Paths) == 0 {
		h.Logger.Warn("repolens_context called with no paths")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: paths parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	unit, err := assemble.ParseUnit(args.Unit)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
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

	budget := args.Budget
	if budget <= 0 {
		budget = h.DefaultBudget
	}

	entries, summary := assemble.Assemble(snap, args.Paths, assemble.Options{
		Unit:          unit,
		Budget:        budget,
		BytesPerToken: h.BytesPerToken,
		StubMaxLines:  h.StubMaxLines,
	})

	elapsed := time.Since(start)
	h.Logger.Info("repolens_context",
		"paths", len(args.Paths),
		"budget", budget,
		"unit", unit,
		"totalTokens", summary.TotalTokens,
		"truncated", summary.TruncatedFiles,
		"elapsed", elapsed,
	)

	output := FormatContextEntries(entries, summary, unit)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}
