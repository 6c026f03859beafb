package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func Test_SearchHandler_EmptyQuery(t *testing.T) {
	h := &SearchHandler{Holder: emptyHolder(), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, SearchArgs{Query: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty query")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "query parameter is required") {
		t.Errorf("expected error message about empty query, got: %s", text)
	}
}

func Test_SearchHandler_IndexNotReady(t *testing.T) {
	h := &SearchHandler{Holder: emptyHolder(), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, SearchArgs{Query: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true before the first snapshot exists")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "index not ready") {
		t.Errorf("expected 'index not ready', got: %s", text)
	}
}

func Test_SearchHandler_BasicSearch(t *testing.T) {
	h := &SearchHandler{
		Holder: newTestHolder(t, map[string]string{
			"main.go": "package main\n\nfunc main() {\n\tfmt.Println(\"hello world\")\n}\n",
			"util.go": "package main\n\nfunc helper() int {\n\treturn 42\n}\n",
		}),
		Logger: testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, SearchArgs{Query: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "main.go") {
		t.Errorf("expected result to contain main.go, got:\n%s", text)
	}
	if !strings.Contains(text, "hello") {
		t.Errorf("expected result to contain 'hello', got:\n%s", text)
	}
}

func Test_SearchHandler_FilePathFilter(t *testing.T) {
	h := &SearchHandler{
		Holder: newTestHolder(t, map[string]string{
			"a.go": "package a\n\n// handler wiring\n",
			"b.go": "package b\n\n// handler wiring\n",
		}),
		Logger: testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, SearchArgs{Query: "handler", FilePath: "a.go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "a.go") {
		t.Errorf("expected result to contain a.go, got:\n%s", text)
	}
	if strings.Contains(text, "b.go") {
		t.Errorf("expected filePath filter to exclude b.go, got:\n%s", text)
	}
}

func Test_SearchHandler_NoResults(t *testing.T) {
	h := &SearchHandler{
		Holder: newTestHolder(t, map[string]string{
			"main.go": "package main\n\nfunc main() {}\n",
		}),
		Logger: testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, SearchArgs{Query: "nonexistent"})
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
