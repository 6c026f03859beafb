package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/repolens/repolens/config"
	"github.com/repolens/repolens/ignore"
	"github.com/repolens/repolens/index"
	"github.com/repolens/repolens/logger"
	"github.com/repolens/repolens/metrics"
	"github.com/repolens/repolens/register"
	"github.com/repolens/repolens/server"
	"github.com/repolens/repolens/tools"
	"github.com/repolens/repolens/watcher"
)

// rebuildFunc rebuilds the snapshot, swaps it into the holder, and returns
// the fresh snapshot.
type rebuildFunc func(ctx context.Context) (*index.Snapshot, error)

// excludePatterns is a repeatable CLI flag for custom ignore patterns.
type excludePatterns []string

func (e *excludePatterns) String() string { return strings.Join(*e, ", ") }
func (e *excludePatterns) Set(value string) error {
	*e = append(*e, value)
	return nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "register" {
		exe, err := os.Executable()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error detecting binary path: %v\n", err)
			os.Exit(1)
		}
		register.Run(register.DeriveServerName(exe), os.Args[2:])
		return
	}

	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	var (
		configPath string
		rootDir    string
		mcpMode    bool
		logLevel   string
		logFile    string
		excludes   excludePatterns
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config file (optional)")
	flag.StringVar(&rootDir, "root", "", "Repository root directory (default: current working directory)")
	flag.BoolVar(&mcpMode, "mcp", false, "Serve MCP on stdio instead of HTTP")
	flag.Var(&excludes, "exclude", "Extra ignore pattern (repeatable)")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	flag.StringVar(&logFile, "log-file", "", "Log file path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}
	cfg.Index.Exclude = append(cfg.Index.Exclude, excludes...)

	if rootDir == "" {
		rootDir, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
			os.Exit(1)
		}
	}
	rootDir, _ = filepath.Abs(rootDir)

	// Stdout carries the protocol stream in MCP mode, so logs go to a file
	// unless one was configured.
	if mcpMode && cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(rootDir, "repolens.log")
	}

	log := logger.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)

	mode := "http"
	if mcpMode {
		mode = "mcp"
	}
	log.Info("starting repolens",
		"root", rootDir,
		"mode", mode,
		"maxFileSize", cfg.Index.MaxFileSizeBytes,
		"workers", cfg.Index.Workers,
	)

	startTime := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ignoreMatcher := ignore.NewMatcher(ignore.Options{
		Root:             rootDir,
		CustomPatterns:   cfg.Index.Exclude,
		MaxFileSizeBytes: cfg.Index.MaxFileSizeBytes,
	})

	m := metrics.New()

	// The grace period must outlive the longest request deadline so in-flight
	// reads never touch a closed snapshot.
	grace := 2 * cfg.Server.WriteTimeout
	if grace < 30*time.Second {
		grace = 30 * time.Second
	}
	holder := index.NewHolder(grace)

	snap, err := buildSnapshot(ctx, rootDir, cfg, ignoreMatcher, log)
	if err != nil {
		log.Error("initial indexing failed", "error", err)
		os.Exit(1)
	}
	m.ObserveSnapshot(snap.FileCount(), snap.TotalSizeBytes(), time.Since(startTime).Seconds())
	holder.Swap(snap)
	log.Info("initial indexing complete",
		"files", snap.FileCount(),
		"totalSize", snap.TotalSizeBytes(),
		"duration", time.Since(startTime),
	)

	// Rebuilds are serialized; concurrent triggers from the watcher, the sync
	// loop, and the API queue behind the mutex instead of racing.
	var rebuildMu sync.Mutex
	rebuild := rebuildFunc(func(ctx context.Context) (*index.Snapshot, error) {
		rebuildMu.Lock()
		defer rebuildMu.Unlock()

		ignoreMatcher.Reload()
		start := time.Now()
		snap, err := buildSnapshot(ctx, rootDir, cfg, ignoreMatcher, log)
		if err != nil {
			return nil, err
		}
		m.ObserveSnapshot(snap.FileCount(), snap.TotalSizeBytes(), time.Since(start).Seconds())
		holder.Swap(snap)
		log.Info("snapshot rebuilt",
			"files", snap.FileCount(),
			"totalSize", snap.TotalSizeBytes(),
			"duration", time.Since(start),
		)
		return snap, nil
	})

	if cfg.Watcher.Enabled {
		fileWatcher, err := watcher.NewWatcher(rootDir, ignoreMatcher, cfg.Watcher.Debounce, log)
		if err != nil {
			log.Warn("failed to start file watcher, continuing without live updates", "error", err)
		} else {
			go fileWatcher.Start()
			go handleWatcherEvents(fileWatcher, rebuild, log)
			defer fileWatcher.Close()
		}

		if cfg.Watcher.SyncInterval > 0 {
			stopSync := make(chan struct{})
			go runPeriodicSync(cfg.Watcher.SyncInterval, rootDir, holder, ignoreMatcher, rebuild, log, stopSync)
			defer close(stopSync)
		}
	}

	if mcpMode {
		runMCP(ctx, cfg, holder, rebuild, startTime, log)
		return
	}
	runHTTP(ctx, cfg, holder, m, rebuild, log)
}

// runMCP serves the tool set over stdio until the context is cancelled.
func runMCP(ctx context.Context, cfg *config.Config, holder *index.Holder, rebuild rebuildFunc, startTime time.Time, log *slog.Logger) {
	searchHandler := &tools.SearchHandler{Holder: holder, Logger: log}
	grepHandler := &tools.GrepHandler{Holder: holder, Logger: log}
	findHandler := &tools.FindHandler{Holder: holder, Logger: log}
	contextHandler := &tools.ContextHandler{
		Holder:        holder,
		DefaultBudget: cfg.Context.DefaultBudget,
		BytesPerToken: cfg.Context.BytesPerToken,
		StubMaxLines:  cfg.Context.StubMaxLines,
		Logger:        log,
	}
	filesHandler := &tools.FilesHandler{Holder: holder, Logger: log}
	readHandler := &tools.ReadHandler{Holder: holder, Logger: log}
	statusHandler := &tools.StatusHandler{Holder: holder, StartTime: startTime, Logger: log}
	reindexHandler := &tools.ReindexHandler{DoReindex: tools.ReindexFunc(rebuild), Logger: log}

	mcpServer := tools.Setup(
		searchHandler,
		grepHandler,
		findHandler,
		contextHandler,
		filesHandler,
		readHandler,
		statusHandler,
		reindexHandler,
	)

	log.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Error("MCP server error", "error", err)
		os.Exit(1)
	}
	log.Info("MCP server stopped")
}

// runHTTP serves the HTTP API until the context is cancelled, then shuts
// down gracefully.
func runHTTP(ctx context.Context, cfg *config.Config, holder *index.Holder, m *metrics.Metrics, rebuild rebuildFunc, log *slog.Logger) {
	srv := server.New(cfg, holder, m, log, server.ReindexFunc(rebuild))

	httpServer := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     srv.Handler(),
		ReadTimeout: cfg.Server.ReadTimeout,
		// Headroom over the in-handler timeout so its 504 reaches the wire
		// before the connection deadline.
		WriteTimeout: cfg.Server.WriteTimeout + 2*time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
	}()

	log.Info("repolens listening", "addr", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("repolens stopped")
}
