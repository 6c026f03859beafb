package search

import (
	"path"
	"sort"

	"github.com/repolens/repolens/index"
)

// FileScore is one ranked file on the search surface.
type FileScore struct {
	Path     string  `json:"path"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
}

// ModuleScore is one ranked directory group. Score is the best filename
// score among the module's matched files; FileCount is how many of its files
// matched.
type ModuleScore struct {
	Path      string  `json:"path"`
	Score     float64 `json:"score"`
	FileCount int     `json:"fileCount"`
}

// Search ranks files by filename-match score and groups matches into
// modules (directories; root-level files group under "."). Both lists are
// sorted descending by score with ties broken by ascending path, then capped
// independently. An empty query yields empty lists, not an error.
func Search(snap *index.Snapshot, query string, fileLimit, moduleLimit int) ([]FileScore, []ModuleScore) {
	if fileLimit <= 0 {
		fileLimit = 50
	}
	if moduleLimit <= 0 {
		moduleLimit = 50
	}

	files := make([]FileScore, 0, fileLimit)
	moduleIndex := make(map[string]int)
	modules := make([]ModuleScore, 0)

	for _, f := range snap.Files() {
		score := Score(query, f)
		if score == 0 {
			continue
		}
		files = append(files, FileScore{Path: f.Path, Filename: f.Filename, Score: score})

		dir := path.Dir(f.Path)
		if i, ok := moduleIndex[dir]; ok {
			modules[i].FileCount++
			if score > modules[i].Score {
				modules[i].Score = score
			}
		} else {
			moduleIndex[dir] = len(modules)
			modules = append(modules, ModuleScore{Path: dir, Score: score, FileCount: 1})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Score != files[j].Score {
			return files[i].Score > files[j].Score
		}
		return files[i].Path < files[j].Path
	})
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Score != modules[j].Score {
			return modules[i].Score > modules[j].Score
		}
		return modules[i].Path < modules[j].Path
	})

	if len(files) > fileLimit {
		files = files[:fileLimit]
	}
	if len(modules) > moduleLimit {
		modules = modules[:moduleLimit]
	}
	return files, modules
}
