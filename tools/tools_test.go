package tools

import (
	"io"
	"log/slog"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/repolens/repolens/index"
	"github.com/repolens/repolens/language"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestHolder builds a snapshot from path to content pairs and wraps it in
// a holder. The snapshot closes when the test ends.
func newTestHolder(t *testing.T, files map[string]string) *index.Holder {
	t.Helper()
	builder := index.NewBuilder("/test/project")
	for p, content := range files {
		builder.Add(&index.IndexedFile{
			Path:      p,
			Filename:  path.Base(p),
			Language:  language.Detect(p),
			SizeBytes: int64(len(content)),
			ModTime:   time.Now(),
			LineCount: strings.Count(content, "\n") + 1,
		}, content)
	}
	snap, err := builder.Build()
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	t.Cleanup(func() { snap.Close() })

	holder := index.NewHolder(0)
	holder.Swap(snap)
	return holder
}

// emptyHolder returns a holder with no snapshot, like before the initial
// build completes.
func emptyHolder() *index.Holder {
	return index.NewHolder(0)
}
