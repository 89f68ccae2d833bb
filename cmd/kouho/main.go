// Package main is the kouho CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/hyperjump/kouho/internal/cli"
	"github.com/hyperjump/kouho/internal/config"
	"github.com/hyperjump/kouho/internal/index"
	"github.com/hyperjump/kouho/internal/models"
	"github.com/hyperjump/kouho/internal/pipeline"
	"github.com/hyperjump/kouho/internal/report"
	"github.com/hyperjump/kouho/internal/storage"
	"github.com/hyperjump/kouho/internal/watcher"
	"github.com/hyperjump/kouho/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kouho/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "kouho run" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "run":
		runRun()
	case "watch":
		runWatch()
	case "search":
		runSearch()
	case "runs":
		runRuns()
	case "version", "--version", "-v":
		fmt.Printf("kouho version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`kouho - candidate application screening

Usage:
  kouho run [flags] [<root>]
                          Process every candidate under the root once
  kouho watch [flags] [<root>]
                          Process, then re-process when documents change
  kouho search [flags] <query>
                          Full-text search over extracted document text
  kouho runs [flags] [<run-id>]
                          List stored runs, or show one run's records
  kouho version           Print version
  kouho help              Show this help

Run "kouho <command> -h" for command flags.
`)
}

// components holds the optional sinks and the pipeline built from config.
type components struct {
	Pipeline *pipeline.Pipeline
	Store    *storage.SQLiteStore
	Index    *index.BleveIndex
}

func (c *components) Close() {
	if c.Index != nil {
		_ = c.Index.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	c := &components{}
	opts := []pipeline.Option{pipeline.WithLogger(logger)}

	if cfg.Storage.DatabasePath != "" {
		store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open run store: %w", err)
		}
		c.Store = store
		opts = append(opts, pipeline.WithStore(store))
	}
	if cfg.Storage.BleveIndexPath != "" {
		idx, err := index.NewBleveIndex(cfg.Storage.BleveIndexPath)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to open document index: %w", err)
		}
		c.Index = idx
		opts = append(opts, pipeline.WithIndexer(idx))
	}

	c.Pipeline = pipeline.New(cfg, opts...)
	return c, nil
}

// runBatch executes one screening pass and writes the configured reports.
func runBatch(ctx context.Context, c *components, cfg *config.Config, logger *zap.Logger) ([]*models.CandidateRecord, error) {
	run, records, err := c.Pipeline.Run(ctx, cfg.Root)
	if err != nil {
		return nil, err
	}

	outDir := cfg.Output.Directory
	if outDir == "" {
		outDir = cfg.Root
	}
	for _, format := range cfg.Output.Formats {
		var path string
		var writeErr error
		switch strings.ToLower(format) {
		case "csv":
			path, writeErr = report.WriteCSV(outDir, cfg.Output.Basename, records)
		case "xlsx":
			path, writeErr = report.WriteXLSX(outDir, cfg.Output.Basename, records)
		default:
			logger.Warn("unknown report format", zap.String("format", format))
			continue
		}
		if writeErr != nil {
			return nil, fmt.Errorf("failed to write %s report: %w", format, writeErr)
		}
		logger.Info("report written", zap.String("run_id", run.ID), zap.String("path", path))
	}
	return records, nil
}

func runRun() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	root := fs.String("root", "", "directory to scan (overrides config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	output := fs.String("output", "text", "stdout format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, rootArg(*root, fs.Args()), *debug)
	defer logger.Sync()

	format, err := parseFormat(*output)
	if err != nil {
		logger.Fatal("invalid output format", zap.Error(err))
	}

	c, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize components", zap.Error(err))
	}
	defer c.Close()

	records, err := runBatch(context.Background(), c, cfg, logger)
	if err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
	if err := cli.WriteRecords(os.Stdout, records, format); err != nil {
		logger.Fatal("failed to write results", zap.Error(err))
	}
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	root := fs.String("root", "", "directory to watch (overrides config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, rootArg(*root, fs.Args()), *debug)
	defer logger.Sync()

	c, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize components", zap.Error(err))
	}
	defer c.Close()

	if _, err := runBatch(context.Background(), c, cfg, logger); err != nil {
		logger.Fatal("initial run failed", zap.Error(err))
	}

	watchOpts := []watcher.Option{watcher.WithDebounce(cfg.Watch.Debounce())}
	if cfg.Debug {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	w := watcher.NewWatcher(cfg.Root, func() {
		if _, err := runBatch(context.Background(), c, cfg, logger); err != nil {
			logger.Warn("batch failed", zap.Error(err))
		}
	}, watchOpts...)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := w.Start(watchCtx); err != nil {
		logger.Fatal("failed to start watcher", zap.Error(err))
	}
	defer w.Stop()
	logger.Info("watching for document changes", zap.String("root", cfg.Root))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutting down")
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 10, "maximum number of results")
	output := fs.String("output", "text", "stdout format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: kouho search [flags] <query>\n\n")
		fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces.\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	query := buildQuery(fs.Args())
	if query == "" {
		fs.Usage()
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.BleveIndexPath == "" {
		fmt.Println("Search requires storage.bleve_index_path in the config; run \"kouho run\" with it set first.")
		os.Exit(1)
	}
	format, err := parseFormat(*output)
	if err != nil {
		fmt.Printf("Invalid output format: %v\n", err)
		os.Exit(1)
	}

	idx, err := index.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		fmt.Printf("Failed to open document index: %v\n", err)
		os.Exit(1)
	}
	defer idx.Close()

	hits, err := idx.Search(query, *limit)
	if err != nil {
		fmt.Printf("Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchHits(os.Stdout, hits, format); err != nil {
		fmt.Printf("Failed to write results: %v\n", err)
		os.Exit(1)
	}
}

func runRuns() {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 10, "maximum number of runs to list")
	output := fs.String("output", "text", "stdout format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: kouho runs [flags] [<run-id>]\n\n")
		fmt.Fprintf(fs.Output(), "Without a run id, lists recent runs; with one, shows its records.\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.DatabasePath == "" {
		fmt.Println("Run history requires storage.database_path in the config; run \"kouho run\" with it set first.")
		os.Exit(1)
	}
	format, err := parseFormat(*output)
	if err != nil {
		fmt.Printf("Invalid output format: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to open run store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	if args := fs.Args(); len(args) > 0 {
		err = showRun(ctx, store, os.Stdout, args[0], format)
	} else {
		err = listRuns(ctx, store, os.Stdout, *limit, format)
	}
	if err != nil {
		fmt.Printf("Failed to read run history: %v\n", err)
		os.Exit(1)
	}
}

// listRuns prints the most recent runs, newest first.
func listRuns(ctx context.Context, store storage.Store, w io.Writer, limit int, format cli.OutputFormat) error {
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	return cli.WriteRuns(w, runs, format)
}

// showRun prints the candidate records stored for one run.
func showRun(ctx context.Context, store storage.Store, w io.Writer, id string, format cli.OutputFormat) error {
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	records, err := store.ListRecords(ctx, run.ID)
	if err != nil {
		return err
	}
	return cli.WriteRecords(w, records, format)
}

// setup loads config, applies overrides, and builds the logger. Exits on failure.
func setup(configPath, rootOverride string, debug bool) (*config.Config, *zap.Logger) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if rootOverride != "" {
		cfg.Root = rootOverride
	}
	if cfg.Root == "" {
		fmt.Println("No root directory configured; set root in the config or pass -root.")
		os.Exit(1)
	}
	cfg.Debug = cfg.Debug || debug

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("config loaded",
		zap.String("config_path", resolvedPath),
		zap.String("root", cfg.Root),
		zap.Bool("debug", cfg.Debug),
	)
	return cfg, logger
}

// rootArg resolves the scan root from the -root flag or the first
// positional argument; the flag wins when both are given.
func rootArg(flagValue string, args []string) string {
	if flagValue != "" {
		return flagValue
	}
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// buildQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func parseFormat(s string) (cli.OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want text or json)", s)
	}
}
