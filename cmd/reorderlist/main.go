// Package main is the entry point for the reorderable list.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/reorderlist/internal/app"
	"github.com/dshills/reorderlist/internal/config"
	"github.com/dshills/reorderlist/internal/logging"
	"github.com/dshills/reorderlist/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the command line. Only flags the user set override the
// configuration.
type options struct {
	configPath string
	delay      time.Duration
	logLevel   string
	logFile    string
	traceFile  string

	set map[string]bool

	showVersion bool
	showHelp    bool
}

// apply overlays the flags that were set on cfg.
func (o options) apply(cfg *config.Config) {
	if o.set["delay"] {
		cfg.Drag.Delay = config.Duration(o.delay)
	}
	if o.set["log-level"] {
		cfg.Log.Level = o.logLevel
	}
	if o.set["log-file"] {
		cfg.Log.File = o.logFile
	}
	if o.set["trace"] {
		cfg.Trace.File = o.traceFile
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("reorderlist", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.DurationVar(&opts.delay, "delay", 0, "Hold time before a press becomes a drag (e.g. 150ms)")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&opts.traceFile, "trace", "", "Record controller calls as JSON lines to this file")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&opts.showHelp, "help", false, "Show help message")
	fs.BoolVar(&opts.showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "reorderlist - drag to reorder a list in the terminal\n\n")
		fmt.Fprintf(stderr, "Usage: reorderlist [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  reorderlist                         Default list\n")
		fmt.Fprintf(stderr, "  reorderlist -c list.toml            Items and delay from a file\n")
		fmt.Fprintf(stderr, "  reorderlist -delay 300ms -trace t.jsonl\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// loadConfig builds the effective configuration: defaults, file,
// environment, then flags.
func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.showHelp {
		return 0
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "reorderlist %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := logging.Open(cfg.Log.File, cfg.LogLevel())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()

	appOpts := app.Options{
		Items:      cfg.List.Items,
		DragDelay:  cfg.Drag.Delay.Std(),
		TraceBoxes: cfg.Trace.Boxes,
		Logger:     logger,
	}
	if cfg.Trace.File != "" {
		f, err := os.Create(cfg.Trace.File)
		if err != nil {
			fmt.Fprintf(stderr, "Error: failed to create trace file: %v\n", err)
			return 1
		}
		defer f.Close()
		appOpts.Trace = f
	}

	// Create application
	application, err := app.New(appOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	if opts.configPath != "" {
		w, err := config.NewWatcher(opts.configPath, config.WithWatchLogger(logger))
		if err != nil {
			logger.Warn("config changes will not be picked up: %v", err)
		} else {
			defer w.Close()
			w.OnChange(func(c config.Config) {
				opts.apply(&c)
				if err := c.Validate(); err != nil {
					logger.Warn("ignoring reloaded config: %v", err)
					return
				}
				application.ApplyConfig(c)
			})
			if err := w.Start(); err != nil {
				logger.Warn("starting config watcher: %v", err)
			}
		}
	}

	// Create terminal backend
	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	done := make(chan struct{})
	defer close(done)
	go watchSignals(signals, done, application.Shutdown)

	logger.Info("starting with %d items, drag delay %s", len(cfg.List.Items), cfg.Drag.Delay.Std())

	// Run the application
	if err := application.Run(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if rec := application.Recorder(); rec != nil {
		if err := rec.Err(); err != nil {
			fmt.Fprintf(stderr, "Error: trace incomplete: %v\n", err)
			return 1
		}
	}
	return 0
}

// watchSignals calls shutdown on the first signal. It returns when done
// is closed.
func watchSignals(signals <-chan os.Signal, done <-chan struct{}, shutdown func()) {
	select {
	case <-signals:
		shutdown()
	case <-done:
	}
}
