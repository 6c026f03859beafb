package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/repolens/repolens/config"
	"github.com/repolens/repolens/ignore"
	"github.com/repolens/repolens/index"
	"github.com/repolens/repolens/language"
	"github.com/repolens/repolens/watcher"
)

type indexJob struct {
	path    string
	relPath string
	info    os.FileInfo
}

type parsedFile struct {
	file    *index.IndexedFile
	content string
}

// buildSnapshot walks the root directory, reads and parses eligible files in
// parallel, and funnels them into a single-writer builder. The returned
// snapshot is complete and immutable; on error (including context
// cancellation) no snapshot is returned.
func buildSnapshot(
	ctx context.Context,
	rootDir string,
	cfg *config.Config,
	ignoreMatcher *ignore.Matcher,
	logger *slog.Logger,
) (*index.Snapshot, error) {
	builder := index.NewBuilder(rootDir)

	jobs := make(chan indexJob, 100)
	parsed := make(chan parsedFile, 100)

	g, gctx := errgroup.WithContext(ctx)

	// Walk the directory tree, applying ignore rules and the size cap.
	g.Go(func() error {
		defer close(jobs)
		return filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // Skip entries that can't be read
			}
			if d.IsDir() {
				if path != rootDir && ignoreMatcher.ShouldIgnoreDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if ignoreMatcher.ShouldIgnore(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			if ignoreMatcher.IsFileTooLarge(info.Size()) {
				return nil
			}
			relPath, _ := filepath.Rel(rootDir, path)
			relPath = filepath.ToSlash(relPath)

			select {
			case jobs <- indexJob{path: path, relPath: relPath, info: info}:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	// Workers read and parse files. Per-file failures are skipped, never
	// fatal; only cancellation stops the build.
	var workerWG sync.WaitGroup
	for range cfg.Index.Workers {
		workerWG.Add(1)
		g.Go(func() error {
			defer workerWG.Done()
			for job := range jobs {
				pf, err := parseFile(job)
				if err != nil {
					logger.Debug("skipped file", "path", job.relPath, "error", err)
					continue
				}
				select {
				case parsed <- pf:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		workerWG.Wait()
		close(parsed)
	}()

	// The builder is not safe for concurrent use, so this goroutine is the
	// only writer.
	for pf := range parsed {
		builder.Add(pf.file, pf.content)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return builder.Build()
}

// parseFile reads one file and produces its index record.
func parseFile(job indexJob) (parsedFile, error) {
	content, err := readFileWithRetry(job.path)
	if err != nil {
		return parsedFile{}, fmt.Errorf("reading file: %w", err)
	}
	if language.IsBinary(content) {
		return parsedFile{}, fmt.Errorf("binary file")
	}

	text := string(content)
	return parsedFile{
		file: &index.IndexedFile{
			Path:      job.relPath,
			Filename:  filepath.Base(job.relPath),
			Language:  language.Detect(job.relPath),
			SizeBytes: job.info.Size(),
			ModTime:   job.info.ModTime(),
			LineCount: strings.Count(text, "\n") + 1,
		},
		content: text,
	}, nil
}

// readFileWithRetry attempts to read a file, retrying once after a short delay
// if the file is locked (common on Windows when editors are saving).
func readFileWithRetry(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Retry after 50ms for Windows file locking
		time.Sleep(50 * time.Millisecond)
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// handleWatcherEvents consumes debounced change batches and triggers a full
// rebuild per batch. The rebuild reloads ignore rules, so control-file edits
// need no special handling beyond the log line.
func handleWatcherEvents(fileWatcher *watcher.Watcher, rebuild rebuildFunc, logger *slog.Logger) {
	for events := range fileWatcher.Events() {
		controlChanged := false
		for _, event := range events {
			if ignore.IsControlFile(filepath.Base(event.Path)) {
				controlChanged = true
			}
			logger.Debug("file changed", "path", event.Path, "op", event.Op)
		}
		logger.Info("rebuilding snapshot after changes",
			"events", len(events),
			"ignoreRulesChanged", controlChanged,
		)

		if _, err := rebuild(context.Background()); err != nil {
			logger.Error("rebuild after changes failed", "error", err)
		}
	}
}
