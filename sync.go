package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/repolens/repolens/ignore"
	"github.com/repolens/repolens/index"
	"github.com/repolens/repolens/language"
)

// SyncResult holds the outcome of a single drift check.
type SyncResult struct {
	MissingFiles  int // files on disk but not in the snapshot
	StaleFiles    int // files in the snapshot but not on disk
	ModifiedFiles int // files whose ModTime or size differs
	Duration      time.Duration
}

// Total returns the number of out-of-sync files.
func (r SyncResult) Total() int {
	return r.MissingFiles + r.StaleFiles + r.ModifiedFiles
}

// runPeriodicSync starts a background loop that checks the current snapshot
// against the filesystem at the given interval and triggers one full rebuild
// when drift is found. It catches changes the watcher missed (unwatched new
// directories, event overflow). Runs until the stop channel is closed.
func runPeriodicSync(
	interval time.Duration,
	rootDir string,
	holder *index.Holder,
	ignoreMatcher *ignore.Matcher,
	rebuild rebuildFunc,
	logger *slog.Logger,
	stop <-chan struct{},
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("periodic sync started", "interval", interval)

	for {
		select {
		case <-stop:
			logger.Info("periodic sync stopped")
			return
		case <-ticker.C:
			snap := holder.Load()
			if snap == nil {
				continue
			}
			result := detectDrift(rootDir, snap, ignoreMatcher)
			if result.Total() == 0 {
				logger.Debug("sync check complete, snapshot is in sync", "duration", result.Duration)
				continue
			}
			logger.Info("sync check found drift",
				"missing", result.MissingFiles,
				"stale", result.StaleFiles,
				"modified", result.ModifiedFiles,
				"duration", result.Duration,
			)
			if _, err := rebuild(context.Background()); err != nil {
				logger.Error("sync rebuild failed", "error", err)
			}
		}
	}
}

// detectDrift compares the filesystem with a snapshot. It only observes;
// repairing drift is the caller's rebuild.
func detectDrift(rootDir string, snap *index.Snapshot, ignoreMatcher *ignore.Matcher) SyncResult {
	start := time.Now()
	var result SyncResult

	// Build a set of all eligible files currently on disk.
	diskFiles := make(map[string]os.FileInfo)
	filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
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
		diskFiles[filepath.ToSlash(relPath)] = info
		return nil
	})

	// On disk but not indexed. Binary files are walked but never indexed;
	// counting them as drift would trigger a rebuild on every check, so
	// unindexed files are sniffed before they count.
	for relPath, info := range diskFiles {
		indexed, ok := snap.File(relPath)
		if !ok {
			if !isBinaryOnDisk(filepath.Join(rootDir, filepath.FromSlash(relPath))) {
				result.MissingFiles++
			}
			continue
		}
		if !info.ModTime().Equal(indexed.ModTime) || info.Size() != indexed.SizeBytes {
			result.ModifiedFiles++
		}
	}

	// Indexed but gone from disk.
	for _, f := range snap.Files() {
		if _, ok := diskFiles[f.Path]; !ok {
			result.StaleFiles++
		}
	}

	result.Duration = time.Since(start)
	return result
}

// isBinaryOnDisk sniffs the leading bytes of a file the same way the build
// pipeline does. Unreadable files count as binary so they never show up as
// drift.
func isBinaryOnDisk(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	window := make([]byte, 512)
	n, err := f.Read(window)
	if n == 0 && err != nil {
		return true
	}
	return language.IsBinary(window[:n])
}
