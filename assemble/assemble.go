// Package assemble packs file contents into a budget-bounded context bundle.
// Each requested path yields exactly one entry: the full content when it
// fits the remaining budget, a structural stub when it does not, or a
// missing marker for paths outside the snapshot.
package assemble

import (
	"fmt"

	"github.com/repolens/repolens/index"
)

// Unit selects how entry sizes are measured against the budget.
type Unit string

const (
	// UnitTokens measures sizes with the bytes-per-token estimate. It is a
	// documented approximation, not a lexer-exact token count.
	UnitTokens Unit = "tokens"
	// UnitBytes measures raw content length.
	UnitBytes Unit = "bytes"
)

// ParseUnit validates a unit string, defaulting empty input to tokens.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitTokens, "":
		return UnitTokens, nil
	case UnitBytes:
		return UnitBytes, nil
	default:
		return "", fmt.Errorf("unknown unit %q (want tokens or bytes)", s)
	}
}

// Kind tags what an entry carries.
type Kind int

const (
	// KindFull carries the complete file content.
	KindFull Kind = iota
	// KindStub carries a bounded structural summary instead of content.
	KindStub
	// KindMissing marks a requested path absent from the snapshot.
	KindMissing
)

func (k Kind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindStub:
		return "stub"
	case KindMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Entry is one assembled file. Exactly one of Content and Stub is set,
// matching Kind; Tokens is the measured size of what was emitted, in the
// request's unit.
type Entry struct {
	Path      string
	Kind      Kind
	Content   string
	Stub      string
	Tokens    int
	Truncated bool
}

// Summary aggregates an assembled bundle.
type Summary struct {
	TotalFiles     int `json:"totalFiles"`
	TotalTokens    int `json:"totalTokens"`
	TruncatedFiles int `json:"truncatedFiles"`
}

// Options configures an Assemble call. Zero values fall back to defaults.
type Options struct {
	Unit          Unit
	Budget        int
	BytesPerToken int // token-estimate divisor, default 4
	StubMaxLines  int // declaration lines per stub, default 16
}

// Assemble packs the given paths, in the given order, against the budget.
// Full content is only ever included whole; when it does not fit, the entry
// degrades to a stub rather than cutting content mid-token. Stubs consume
// budget when they fit; otherwise the budget clamps to zero and the stub is
// still emitted. Unknown paths produce missing entries and never fail the
// call.
func Assemble(snap *index.Snapshot, paths []string, opts Options) ([]Entry, Summary) {
	if opts.Unit == "" {
		opts.Unit = UnitTokens
	}
	if opts.BytesPerToken <= 0 {
		opts.BytesPerToken = 4
	}
	if opts.StubMaxLines <= 0 {
		opts.StubMaxLines = 16
	}

	remaining := opts.Budget
	entries := make([]Entry, 0, len(paths))

	for _, p := range paths {
		content, err := snap.Content(p)
		if err != nil {
			entries = append(entries, Entry{Path: p, Kind: KindMissing, Truncated: true})
			continue
		}

		size := measure(len(content), opts.Unit, opts.BytesPerToken)
		if size <= remaining {
			remaining -= size
			entries = append(entries, Entry{
				Path:    p,
				Kind:    KindFull,
				Content: content,
				Tokens:  size,
			})
			continue
		}

		file, _ := snap.File(p)
		stub := BuildStub(file, content, opts.StubMaxLines)
		// A stub never measures larger than the content it stands in for,
		// so a grown budget can only raise the bundle's total size.
		stub = truncateBytes(stub, len(content))
		stubSize := measure(len(stub), opts.Unit, opts.BytesPerToken)
		if stubSize <= remaining {
			remaining -= stubSize
		} else {
			remaining = 0
		}
		entries = append(entries, Entry{
			Path:      p,
			Kind:      KindStub,
			Stub:      stub,
			Tokens:    stubSize,
			Truncated: true,
		})
	}

	summary := Summary{TotalFiles: len(entries)}
	for _, e := range entries {
		summary.TotalTokens += e.Tokens
		if e.Truncated {
			summary.TruncatedFiles++
		}
	}
	return entries, summary
}

// measure converts a byte length into the requested unit, rounding token
// estimates up.
func measure(byteLen int, unit Unit, bytesPerToken int) int {
	if unit == UnitBytes {
		return byteLen
	}
	return (byteLen + bytesPerToken - 1) / bytesPerToken
}
