package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func Test_FindHandler_EmptyQuery(t *testing.T) {
	h := &FindHandler{Holder: emptyHolder(), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, FindArgs{Query: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty query")
	}
}

func Test_FindHandler_IndexNotReady(t *testing.T) {
	h := &FindHandler{Holder: emptyHolder(), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, FindArgs{Query: "main"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true before the first snapshot exists")
	}
}

func Test_FindHandler_ExactNameOutranksMentions(t *testing.T) {
	h := &FindHandler{
		Holder: newTestHolder(t, map[string]string{
			"main.rs":  "fn main() {}\n",
			"build.rs": "// call main\n// main main main\n",
		}),
		Logger: testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, FindArgs{Query: "main"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	mainIdx := strings.Index(text, "main.rs")
	buildIdx := strings.Index(text, "build.rs")
	if mainIdx < 0 || buildIdx < 0 {
		t.Fatalf("expected both files in results, got:\n%s", text)
	}
	if mainIdx > buildIdx {
		t.Errorf("expected the file named after the query to rank first, got:\n%s", text)
	}
}

func Test_FindHandler_NoMatches(t *testing.T) {
	h := &FindHandler{
		Holder: newTestHolder(t, map[string]string{
			"main.go": "package main\n",
		}),
		Logger: testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, FindArgs{Query: "zzzz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success (no error), got error result")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "No matches found") {
		t.Errorf("expected 'No matches found', got:\n%s", text)
	}
}
