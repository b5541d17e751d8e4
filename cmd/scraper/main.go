package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	goio "io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/williampepple1/selector-scraper/internal/config"
	"github.com/williampepple1/selector-scraper/internal/dom"
	"github.com/williampepple1/selector-scraper/internal/extraction"
	"github.com/williampepple1/selector-scraper/internal/io"
	"github.com/williampepple1/selector-scraper/internal/logging"
	"github.com/williampepple1/selector-scraper/internal/metrics"
	"github.com/williampepple1/selector-scraper/internal/scraper"
	"github.com/williampepple1/selector-scraper/internal/worker"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app is everything a single scrape run needs
type app struct {
	config    *config.AppConfig
	navigator scraper.Navigator
	syntax    dom.Syntax
	logger    *zap.Logger
	out       goio.Writer
}

func run(args []string, stdin goio.Reader, stdout, stderr goio.Writer) int {
	// Define command-line flags
	fs := flag.NewFlagSet("scraper", flag.ContinueOnError)
	fs.SetOutput(stderr)
	settingsFile := fs.String("settings", "", "Path to application settings file (YAML)")
	configDir := fs.String("config-dir", config.DefaultConfigDir, "Directory holding page configuration files")
	pattern := fs.String("pattern", config.DefaultConfigPattern, "Glob matching configuration files inside the config directory")
	workers := fs.Int("workers", 3, "Number of pages processed concurrently")
	timeout := fs.Duration("timeout", 30*time.Second, "Navigation timeout per page")
	browser := fs.Bool("browser", false, "Render pages in a headless browser")
	xpath := fs.Bool("xpath", false, "Interpret selectors as XPath instead of CSS")
	format := fs.String("format", config.FormatText, "Report format: text or json")
	outputFile := fs.String("output", "", "Also save the report to this file")
	metricsFile := fs.String("metrics-file", "", "Write run metrics in Prometheus text format to this file")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn or error")
	logDev := fs.Bool("log-dev", false, "Human readable development logs")
	once := fs.Bool("once", false, "Run once and exit without prompting")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// Load configuration
	appConfig := config.Default()
	if *settingsFile != "" {
		var err error
		appConfig, err = config.Load(*settingsFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading settings: %v\n", err)
			return 1
		}
	}
	if err := appConfig.ApplyEnv(); err != nil {
		fmt.Fprintf(stderr, "Error loading settings: %v\n", err)
		return 1
	}

	// Flags given on the command line win over the file and the environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "config-dir":
			appConfig.IO.ConfigDir = *configDir
		case "pattern":
			appConfig.IO.ConfigPattern = *pattern
		case "workers":
			appConfig.Scraper.Workers = *workers
		case "timeout":
			appConfig.Scraper.Timeout = *timeout
		case "browser":
			appConfig.Browser.Enabled = *browser
		case "xpath":
			appConfig.Extraction.SelectorSyntax = string(dom.CSS)
			if *xpath {
				appConfig.Extraction.SelectorSyntax = string(dom.XPath)
			}
		case "format":
			appConfig.IO.OutputFormat = *format
		case "output":
			appConfig.IO.OutputFile = *outputFile
		case "metrics-file":
			appConfig.IO.MetricsFile = *metricsFile
		case "log-level":
			appConfig.Logging.Level = *logLevel
		case "log-dev":
			appConfig.Logging.Development = *logDev
		}
	})

	if err := appConfig.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid settings: %v\n", err)
		return 1
	}
	syntax, err := dom.ParseSyntax(appConfig.Extraction.SelectorSyntax)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid settings: %v\n", err)
		return 1
	}

	logger, err := logging.New(logging.Config{
		Level:       appConfig.Logging.Level,
		Development: appConfig.Logging.Development,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	navigator, err := scraper.New(appConfig, logger)
	if err != nil {
		logger.Error("failed to create navigator", zap.Error(err))
		return 1
	}
	defer navigator.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		config:    appConfig,
		navigator: navigator,
		syntax:    syntax,
		logger:    logger,
		out:       stdout,
	}

	if *once {
		err := a.runOnce(ctx)
		switch {
		case errors.Is(err, io.ErrNoConfigFiles):
			fmt.Fprintln(stdout, "\nNo config files found")
		case err != nil:
			logger.Error("run failed", zap.Error(err))
			return 1
		}
		return 0
	}

	a.loop(ctx, bufio.NewReader(stdin))
	return 0
}

// loop runs until the user declines another run, stdin ends or the process is
// interrupted.
func (a *app) loop(ctx context.Context, in *bufio.Reader) {
	for ctx.Err() == nil {
		err := a.runOnce(ctx)
		if errors.Is(err, io.ErrNoConfigFiles) {
			fmt.Fprintln(a.out, "\nNo config files found")
			answer, ok := ask(in, a.out, "\nExit? (y/n)")
			if !ok || answer == "y" {
				return
			}
		} else if err != nil {
			a.logger.Error("run failed", zap.Error(err))
		}

		answer, ok := ask(in, a.out, "\nRun again? (y/n)")
		if !ok || answer != "y" {
			return
		}
	}
}

// runOnce loads the page configurations, scrapes every page and prints the report
func (a *app) runOnce(ctx context.Context) error {
	logger := a.logger.With(zap.String("run_id", uuid.NewString()))
	recorder := metrics.New()

	loader := io.NewConfigLoader(&a.config.IO, logger, recorder)
	targets, err := loader.Load()
	if err != nil {
		return err
	}

	logger.Info("scraping pages",
		zap.Int("pages", len(targets)),
		zap.Int("workers", a.config.Scraper.Workers),
		zap.String("navigator", a.navigator.Name()),
		zap.String("syntax", string(a.syntax)),
	)

	extractor := extraction.NewExtractor(logger, recorder)
	pool := worker.NewPool(&a.config.Scraper, a.navigator, extractor, a.syntax, logger, recorder, len(targets))
	start := time.Now()
	results := pool.Run(ctx, targets)

	failed := 0
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}
	logger.Info("all pages processed",
		zap.Int("success", len(results)-failed),
		zap.Int("failures", failed),
		zap.Duration("duration", time.Since(start)),
	)

	if err := io.NewReportWriter(&a.config.IO, a.out).Write(results); err != nil {
		return err
	}

	if path := a.config.IO.MetricsFile; path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			logger.Warn("failed to write metrics", zap.String("file", path), zap.Error(err))
		}
	}
	return nil
}

// ask prints the question and reads one answer line. It reports false when
// input has ended.
func ask(in *bufio.Reader, out goio.Writer, question string) (string, bool) {
	fmt.Fprint(out, question+" ")
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(line)), true
}
