// Package server exposes the index over HTTP: search, grep, find, context
// assembly, imports, dependency and manifest surfaces, plus health and
// scrape endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/repolens/repolens/assemble"
	"github.com/repolens/repolens/config"
	"github.com/repolens/repolens/deps"
	"github.com/repolens/repolens/imports"
	"github.com/repolens/repolens/index"
	"github.com/repolens/repolens/logger"
	"github.com/repolens/repolens/manifest"
	"github.com/repolens/repolens/metrics"
	"github.com/repolens/repolens/search"
)

// ReindexFunc rebuilds the snapshot and swaps it into the holder, returning
// the fresh snapshot.
type ReindexFunc func(ctx context.Context) (*index.Snapshot, error)

// Server handles the HTTP API. All read endpoints operate on the snapshot
// current at the start of the request.
type Server struct {
	cfg     *config.Config
	holder  *index.Holder
	metrics *metrics.Metrics
	logger  *slog.Logger
	reindex ReindexFunc
	started time.Time
}

func New(cfg *config.Config, holder *index.Holder, m *metrics.Metrics, log *slog.Logger, reindex ReindexFunc) *Server {
	return &Server{
		cfg:     cfg,
		holder:  holder,
		metrics: m,
		logger:  log.With("component", "server"),
		reindex: reindex,
		started: time.Now(),
	}
}

// Handler returns the routed mux wrapped in the middleware chain. Timeout
// sits innermost so metrics record 504s, request IDs outermost so every log
// line can carry one.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.routes()
	h = Timeout(s.cfg.Server.WriteTimeout)(h)
	h = Metrics(s.metrics)(h)
	h = RequestID(h)
	return h
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/grep", s.handleGrep)
	mux.HandleFunc("GET /api/find", s.handleFind)
	mux.HandleFunc("POST /api/context", s.handleContext)
	mux.HandleFunc("GET /api/imports", s.handleImports)
	mux.HandleFunc("GET /api/deps", s.handleDeps)
	mux.HandleFunc("GET /api/manifest", s.handleManifest)
	mux.HandleFunc("GET /api/tree", s.handleTree)
	mux.HandleFunc("GET /api/files", s.handleFiles)
	mux.HandleFunc("GET /api/query", s.handleQuery)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/reindex", s.handleReindex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}
	return mux
}

type searchResponse struct {
	Files   []search.FileScore   `json:"files"`
	Modules []search.ModuleScore `json:"modules"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	fileLimit, ok := s.parseCapped(w, r, "fileLimit", s.cfg.Search.DefaultLimit)
	if !ok {
		return
	}
	moduleLimit, ok := s.parseCapped(w, r, "moduleLimit", s.cfg.Search.DefaultLimit)
	if !ok {
		return
	}

	start := time.Now()
	query := r.URL.Query().Get("q")
	files, modules := search.Search(snap, query, fileLimit, moduleLimit)
	s.observeSearch("search", start)

	s.writeJSON(w, http.StatusOK, searchResponse{Files: files, Modules: modules})
}

type grepResponse struct {
	Matches []search.GrepMatch `json:"matches"`
	Total   int                `json:"total"`
}

func (s *Server) handleGrep(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	limit, ok := s.parseLimit(w, r, s.cfg.Search.DefaultLimit)
	if !ok {
		return
	}
	maxPerFile, ok := s.parsePositive(w, r, "maxPerFile", s.cfg.Search.MaxPerFile)
	if !ok {
		return
	}
	glob := r.URL.Query().Get("glob")
	if glob != "" && !doublestar.ValidatePattern(glob) {
		s.writeError(w, http.StatusBadRequest, "invalid glob pattern")
		return
	}

	start := time.Now()
	query := r.URL.Query().Get("q")
	matches, err := search.Grep(r.Context(), snap, query, search.GrepOptions{
		Limit:           limit,
		MaxPerFile:      maxPerFile,
		Glob:            glob,
		SnippetMaxChars: s.cfg.Search.SnippetMaxChars,
	})
	if err != nil {
		s.writeSearchError(w, r, "grep", err)
		return
	}
	s.observeSearch("grep", start)

	s.writeJSON(w, http.StatusOK, grepResponse{Matches: matches, Total: len(matches)})
}

type findResponse struct {
	Results []search.FindResult `json:"results"`
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	limit, ok := s.parseLimit(w, r, s.cfg.Search.DefaultLimit)
	if !ok {
		return
	}

	start := time.Now()
	query := r.URL.Query().Get("q")
	results, err := search.Find(r.Context(), snap, query, limit)
	if err != nil {
		s.writeSearchError(w, r, "find", err)
		return
	}
	s.observeSearch("find", start)

	s.writeJSON(w, http.StatusOK, findResponse{Results: results})
}

type contextRequest struct {
	Paths  []string `json:"paths"`
	Budget int      `json:"budget"`
	Unit   string   `json:"unit"`
}

// contextEntry is the wire form of an assembled entry. Exactly one of
// Content and Stub is non-null for present files; both are null for
// missing ones.
type contextEntry struct {
	Path      string  `json:"path"`
	Content   *string `json:"content"`
	Stub      *string `json:"stub"`
	Tokens    int     `json:"tokens"`
	Truncated bool    `json:"truncated"`
}

type contextResponse struct {
	Entries []contextEntry   `json:"entries"`
	Summary assemble.Summary `json:"summary"`
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}

	var req contextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	unit, err := assemble.ParseUnit(req.Unit)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	budget := req.Budget
	if budget <= 0 {
		budget = s.cfg.Context.DefaultBudget
	}

	entries, summary := assemble.Assemble(snap, req.Paths, assemble.Options{
		Unit:          unit,
		Budget:        budget,
		BytesPerToken: s.cfg.Context.BytesPerToken,
		StubMaxLines:  s.cfg.Context.StubMaxLines,
	})

	out := make([]contextEntry, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		ce := contextEntry{Path: e.Path, Tokens: e.Tokens, Truncated: e.Truncated}
		switch e.Kind {
		case assemble.KindFull:
			ce.Content = &e.Content
		case assemble.KindStub:
			ce.Stub = &e.Stub
		}
		s.metrics.ContextFilesTotal.WithLabelValues(e.Kind.String()).Inc()
		out = append(out, ce)
	}

	s.writeJSON(w, http.StatusOK, contextResponse{Entries: out, Summary: summary})
}

func (s *Server) handleImports(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "path parameter is required")
		return
	}

	graph, err := imports.BuildGraph(snap, path)
	if err != nil {
		if errors.Is(err, index.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("imports graph failed", "path", path, "error", err)
		s.writeError(w, http.StatusInternalServerError, "imports graph failed")
		return
	}
	s.writeJSON(w, http.StatusOK, graph)
}

func (s *Server) handleDeps(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	s.writeJSON(w, http.StatusOK, deps.Collect(snap, logger.FromContext(r.Context())))
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	s.writeJSON(w, http.StatusOK, manifest.Build(snap))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	s.writeJSON(w, http.StatusOK, manifest.Tree(snap))
}

type fileInfo struct {
	Path      string `json:"path"`
	Language  string `json:"language"`
	SizeBytes int64  `json:"sizeBytes"`
	LineCount int    `json:"lineCount"`
}

type filesResponse struct {
	Glob  string     `json:"glob"`
	Files []fileInfo `json:"files"`
	Total int        `json:"total"`
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	limit, ok := s.parseLimit(w, r, s.cfg.Search.DefaultLimit)
	if !ok {
		return
	}
	glob := r.URL.Query().Get("glob")
	if glob == "" {
		glob = "**"
	}

	matched, err := snap.Glob(glob, limit)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid glob pattern")
		return
	}

	files := make([]fileInfo, 0, len(matched))
	for _, f := range matched {
		files = append(files, fileInfo{
			Path:      f.Path,
			Language:  f.Language,
			SizeBytes: f.SizeBytes,
			LineCount: f.LineCount,
		})
	}
	s.writeJSON(w, http.StatusOK, filesResponse{Glob: glob, Files: files, Total: len(files)})
}

type queryResponse struct {
	Results []index.TextResult `json:"results"`
	Total   int                `json:"total"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	limit, ok := s.parseLimit(w, r, s.cfg.Search.DefaultLimit)
	if !ok {
		return
	}
	contextLines, ok := s.parsePositive(w, r, "context", s.cfg.Search.ContextLines)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeJSON(w, http.StatusOK, queryResponse{Results: []index.TextResult{}})
		return
	}

	start := time.Now()
	results, total, err := snap.Text().Search(index.TextSearchOptions{
		Query:        query,
		Path:         r.URL.Query().Get("path"),
		Glob:         r.URL.Query().Get("glob"),
		MaxFiles:     limit,
		ContextLines: contextLines,
	})
	if err != nil {
		s.logger.Warn("text query rejected", "query", query, "error", err)
		s.writeError(w, http.StatusBadRequest, "invalid query")
		return
	}
	s.observeSearch("query", start)

	s.writeJSON(w, http.StatusOK, queryResponse{Results: results, Total: total})
}

type statusResponse struct {
	Root           string         `json:"root"`
	Files          int            `json:"files"`
	TotalSizeBytes int64          `json:"totalSizeBytes"`
	Languages      map[string]int `json:"languages"`
	BuiltAt        time.Time      `json:"builtAt"`
	Uptime         string         `json:"uptime"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{
		Root:           snap.Root(),
		Files:          snap.FileCount(),
		TotalSizeBytes: snap.TotalSizeBytes(),
		Languages:      snap.LanguageCounts(),
		BuiltAt:        snap.BuiltAt(),
		Uptime:         time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if s.reindex == nil {
		s.writeError(w, http.StatusServiceUnavailable, "reindex is not available")
		return
	}

	start := time.Now()
	snap, err := s.reindex(r.Context())
	if err != nil {
		s.logger.Error("reindex failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "reindex failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"files":   snap.FileCount(),
		"took_ms": time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// snapshot loads the current snapshot, answering 503 when the first build
// has not completed yet.
func (s *Server) snapshot(w http.ResponseWriter) *index.Snapshot {
	snap := s.holder.Load()
	if snap == nil {
		s.writeError(w, http.StatusServiceUnavailable, "index not ready")
		return nil
	}
	return snap
}

func (s *Server) parseLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	return s.parseCapped(w, r, "limit", fallback)
}

// parseCapped reads a positive integer parameter and clamps it to the
// configured result ceiling.
func (s *Server) parseCapped(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	n, ok := s.parsePositive(w, r, name, fallback)
	if !ok {
		return 0, false
	}
	if n > s.cfg.Search.MaxResults {
		n = s.cfg.Search.MaxResults
	}
	return n, true
}

func (s *Server) parsePositive(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		s.writeError(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return parsed, true
}

// writeSearchError maps cancellation to 504 and everything else to 500.
func (s *Server) writeSearchError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.writeError(w, http.StatusGatewayTimeout, "request timed out")
		return
	}
	logger.FromContext(r.Context()).Error(kind+" failed", "error", err)
	s.writeError(w, http.StatusInternalServerError, kind+" failed")
}

func (s *Server) observeSearch(kind string, start time.Time) {
	s.metrics.SearchesTotal.WithLabelValues(kind).Inc()
	s.metrics.SearchLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
