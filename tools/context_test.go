package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestContextHandler(t *testing.T, files map[string]string) *ContextHandler {
	t.Helper()
	return &ContextHandler{
		Holder:        newTestHolder(t, files),
		DefaultBudget: 4000,
		BytesPerToken: 4,
		StubMaxLines:  16,
		Logger:        testLogger(),
	}
}

func Test_ContextHandler_EmptyPaths(t *testing.T) {
	h := &ContextHandler{Holder: emptyHolder(), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, ContextArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty paths")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "paths parameter is required") {
		t.Errorf("expected error message about empty paths, got: %s", text)
	}
}

func Test_ContextHandler_InvalidUnit(t *testing.T) {
	h := newTestContextHandler(t, map[string]string{"a.go": "package a\n"})

	result, _, err := h.Handle(context.Background(), nil, ContextArgs{
		Paths: []string{"a.go"},
		Unit:  "lines",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for unknown unit")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "unknown unit") {
		t.Errorf("expected unknown unit message, got: %s", text)
	}
}

func Test_ContextHandler_FullFileWithinBudget(t *testing.T) {
	h := newTestContextHandler(t, map[string]string{
		"a.go": "package a\n\nfunc A() {}\n",
	})

	result, _, err := h.Handle(context.Background(), nil, ContextArgs{
		Paths:  []string{"a.go"},
		Budget: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %s", result.Content[0].(*mcp.TextContent).Text)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Context bundle: 1 files") {
		t.Errorf("expected bundle header, got:\n%s", text)
	}
	if !strings.Contains(text, "func A() {}") {
		t.Errorf("expected full content, got:\n%s", text)
	}
	if strings.Contains(text, "(stub)") {
		t.Errorf("expected no stub within budget, got:\n%s", text)
	}
}

func Test_ContextHandler_BudgetDegradesToStub(t *testing.T) {
	h := newTestContextHandler(t, map[string]string{
		"a.go": strings.Repeat("a", 40),
		"b.go": strings.Repeat("func One() {}\n", 30),
	})

	// 15 tokens fit a.go whole (10 tokens) but not b.go, which degrades to a
	// structural stub.
	result, _, err := h.Handle(context.Background(), nil, ContextArgs{
		Paths:  []string{"a.go", "b.go"},
		Budget: 15,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %s", result.Content[0].(*mcp.TextContent).Text)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "b.go (stub)") {
		t.Errorf("expected b.go to degrade to a stub, got:\n%s", text)
	}
	if !strings.Contains(text, "func One() {}") {
		t.Errorf("expected stub to carry declaration lines, got:\n%s", text)
	}
	if !strings.Contains(text, "1 truncated") {
		t.Errorf("expected one truncated file in the summary, got:\n%s", text)
	}
}

func Test_ContextHandler_MissingPath(t *testing.T) {
	h := newTestContextHandler(t, map[string]string{
		"a.go": "package a\n",
	})

	result, _, err := h.Handle(context.Background(), nil, ContextArgs{
		Paths:  []string{"a.go", "ghost.go"},
		Budget: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %s", result.Content[0].(*mcp.TextContent).Text)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "ghost.go (not in index)") {
		t.Errorf("expected missing marker for ghost.go, got:\n%s", text)
	}
	if !strings.Contains(text, "Context bundle: 2 files") {
		t.Errorf("expected both paths to produce entries, got:\n%s", text)
	}
}
