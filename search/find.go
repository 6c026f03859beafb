package search

import (
	"context"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/repolens/repolens/index"
)

// Weights of the combined score. Filename identity dominates so that a query
// naming a concept surfaces the canonically-named file even when the term
// appears incidentally in many other files.
const (
	filenameWeight = 0.6
	contentWeight  = 0.4
)

// FindResult is one row of the combined ranking. CombinedScore is a pure
// function of the two component scores.
type FindResult struct {
	Path          string  `json:"path"`
	FilenameScore float64 `json:"filenameScore"`
	ContentScore  float64 `json:"contentScore"`
	CombinedScore float64 `json:"combinedScore"`
}

// Find merges filename-match scores with content term frequency into one
// ranking. Content scoring runs in a bounded worker pool; ordering comes
// from the deterministic sort below, never worker completion. Files scoring
// zero on both axes are omitted. A context error aborts the whole request.
func Find(ctx context.Context, snap *index.Snapshot, query string, limit int) ([]FindResult, error) {
	terms := Terms(query)
	if len(terms) == 0 {
		return []FindResult{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	files := snap.Files()
	occurrences := make([]int, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(grepParallelism)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := snap.Content(f.Path)
			if err != nil {
				return nil
			}
			occurrences[i] = countOccurrences(strings.ToLower(content), terms)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]FindResult, 0, limit)
	for i, f := range files {
		fileScore := Score(query, f)
		contentScore := scoreContent(occurrences[i], f.SizeBytes)
		combined := clampUnit(filenameWeight*fileScore + contentWeight*contentScore)
		if combined == 0 {
			continue
		}
		results = append(results, FindResult{
			Path:          f.Path,
			FilenameScore: fileScore,
			ContentScore:  contentScore,
			CombinedScore: combined,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		return results[i].Path < results[j].Path
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// scoreContent normalizes a raw occurrence count by log2 of the file size so
// large generated files cannot dominate the ranking purely by volume.
func scoreContent(occurrences int, sizeBytes int64) float64 {
	if occurrences == 0 {
		return 0
	}
	norm := math.Log2(float64(sizeBytes))
	if norm < 1 {
		norm = 1
	}
	return clampUnit(float64(occurrences) / norm)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
