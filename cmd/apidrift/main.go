package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"apidrift/internal/cliapp"
	"apidrift/internal/core/app"
	"apidrift/internal/core/config"
	"apidrift/internal/core/ports"
	"apidrift/internal/data/history"
	"apidrift/internal/findings"
	"apidrift/internal/pairs"
	"apidrift/internal/shared/observability"
	"apidrift/internal/ui/report"
)

var (
	configPath = flag.String("config", "./apidrift.toml", "Path to config file")
	baseRev    = flag.String("base", "HEAD~1", "Base git revision to compare against")
	headRev    = flag.String("head", "HEAD", "Head git revision to compare")
	once       = flag.Bool("once", false, "Run single comparison and exit")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode (watch)")
	jsonOut    = flag.String("json", "", "Write findings JSON to this path")
	mdOut      = flag.String("markdown", "", "Write Markdown report to this path")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("apidrift v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stderr
	if *ui {
		// In UI mode, avoid terminal logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err == nil {
			if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
				output = f
			}
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./apidrift.toml" {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	root := cfg.Paths.ProjectRoot
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability.TraceEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	var store ports.HistoryStore
	if cfg.DB.Enabled {
		s, err := history.Open(cfg.DB.Path)
		if err != nil {
			slog.Error("failed to open history store", "error", err)
			os.Exit(1)
		}
		store = s
	}

	source := pairs.NewGitSource(root, *baseRev, *headRev)
	a, err := app.NewApp(cfg, source, store)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.Observability.Enabled {
		server := app.NewObservabilityServer(cfg.Observability.Addr, app.NewHealthService(a))
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer server.Stop(ctx)
	}

	start := time.Now()
	run, results, err := a.RunOnce(ctx)
	if err != nil {
		slog.Error("comparison run failed", "error", err)
		os.Exit(1)
	}

	if err := writeOutputs(cfg, run, results); err != nil {
		slog.Error("failed to write outputs", "error", err)
		os.Exit(1)
	}

	if !*ui {
		fmt.Println(report.RenderSummary(run, results, time.Since(start)))
	}

	if *once {
		if len(results) > 0 {
			os.Exit(2)
		}
		os.Exit(0)
	}

	watch := a.WatchService()
	if err := watch.Start(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := cliapp.RunUI(watch); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
		return
	}

	watch.Subscribe(func(update ports.WatchUpdate) {
		if len(update.Findings) == 0 {
			slog.Info("no breaking changes", "path", update.Path)
			return
		}
		for _, f := range update.Findings {
			slog.Warn("breaking change", "path", f.FilePath, "title", f.Title)
		}
	})
	select {}
}

func writeOutputs(cfg *config.Config, run ports.RunRecord, results []findings.Finding) error {
	jsonPath := cfg.Output.JSON
	if *jsonOut != "" {
		jsonPath = *jsonOut
	}
	if jsonPath != "" {
		if err := report.WriteJSONFile(jsonPath, results); err != nil {
			return err
		}
	}

	mdPath := cfg.Output.Markdown
	if *mdOut != "" {
		mdPath = *mdOut
	}
	if mdPath != "" {
		if err := report.WriteMarkdownFile(mdPath, run, results); err != nil {
			return err
		}
	}

	return nil
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "apidrift", "apidrift.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "apidrift", "apidrift.log")
	}

	return "apidrift.log"
}
