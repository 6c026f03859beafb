package index

import "time"

// IndexedFile describes one file in a snapshot. Paths are slash-separated
// and relative to the snapshot root; they are unique within a snapshot.
// Records are immutable for the snapshot's lifetime.
type IndexedFile struct {
	Path      string    // relative path, forward slashes
	Filename  string    // basename of Path
	Language  string    // detected language name
	SizeBytes int64     // raw content length in bytes
	ModTime   time.Time // last modification time at index build
	LineCount int       // number of lines in the content
}
