// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"pii-redactor/internal/config"
	"pii-redactor/internal/core"
	"pii-redactor/internal/help"
	"pii-redactor/internal/metrics"
	"pii-redactor/internal/observability"
	"pii-redactor/internal/paths"
	"pii-redactor/internal/patterns"
	"pii-redactor/internal/redactors"
	"pii-redactor/internal/tabular"
	"pii-redactor/internal/tracing"
	"pii-redactor/internal/version"

	"pii-redactor/internal/formatters"
	_ "pii-redactor/internal/formatters/csv"
	_ "pii-redactor/internal/formatters/json"
	_ "pii-redactor/internal/formatters/text"
	_ "pii-redactor/internal/formatters/yaml"

	"github.com/fatih/color"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"
)

// cliFlags holds command line flag values
type cliFlags struct {
	inputFile   string
	outputDir   string
	configFile  string
	profileName string
	checks      string
	format      string
	replaceMode string
	workers     int
	labelColumn string
	metricsFile string
	traceFile   string
	showValues  bool
	verbose     bool
	noColor     bool
	quiet       bool
	debug       bool
	allowAnyDir bool
	showVersion bool
	listChecks  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, isTerminal(os.Stderr)))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer, interactive bool) int {
	fs := flag.NewFlagSet("pii-redactor", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var flags cliFlags
	fs.StringVar(&flags.inputFile, "input", "", "CSV file to de-identify")
	fs.StringVar(&flags.outputDir, "output-dir", "", "Directory for the de-identified file and report (default: output)")
	fs.StringVar(&flags.configFile, "config", "", "Path to configuration file (YAML)")
	fs.StringVar(&flags.profileName, "profile", "", "Profile name to use from config file")
	fs.StringVar(&flags.checks, "checks", "", "Comma separated PII types to detect, or 'all'")
	fs.StringVar(&flags.format, "format", "", "Report format: text, json, yaml, csv (default: text)")
	fs.StringVar(&flags.replaceMode, "replace-mode", "", "offsets or literal (default: offsets)")
	fs.IntVar(&flags.workers, "workers", 0, "Parallel workers, 0 uses one per CPU")
	fs.StringVar(&flags.labelColumn, "label-column", "", "Ground-truth label column (default: pii_type)")
	fs.StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	fs.StringVar(&flags.traceFile, "trace-file", "", "Write OpenTelemetry spans to this file as JSON lines")
	fs.BoolVar(&flags.showValues, "show-values", false, "Print original values in the report")
	fs.BoolVar(&flags.verbose, "verbose", false, "List every detection in the report")
	fs.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&flags.quiet, "quiet", false, "Suppress progress and status output")
	fs.BoolVar(&flags.debug, "debug", false, "Log pipeline steps and timings to stderr")
	fs.BoolVar(&flags.allowAnyDir, "allow-outside-cwd", false, "Allow input files outside the working directory")
	fs.BoolVar(&flags.showVersion, "version", false, "Show version information")
	fs.BoolVar(&flags.listChecks, "list-checks", false, "List detectable PII types and exit")
	usageNoColor := !interactive
	fs.Usage = func() {
		help.NewSystem(stderr, usageNoColor).ShowGeneralHelp()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if flags.showVersion {
		fmt.Fprintln(stdout, version.Info())
		return 0
	}

	settings, err := resolveSettings(fs, &flags, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Auto-detect non-interactive environment
	if !interactive || settings.Quiet || os.Getenv("CI") != "" {
		settings.NoColor = true
	}
	color.NoColor = settings.NoColor
	usageNoColor = settings.NoColor

	registry, err := core.BuildRegistry(settings.Checks)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if flags.listChecks {
		help.NewSystem(stdout, settings.NoColor).ShowChecksHelp(registry)
		return 0
	}

	if flags.inputFile == "" {
		fmt.Fprintln(stderr, "Error: -input is required")
		fs.Usage()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := deidentify(ctx, flags, settings, registry, stdout, stderr, interactive); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// resolveSettings loads the configuration, applies the profile and then any
// flag set explicitly on the command line.
func resolveSettings(fs *flag.FlagSet, flags *cliFlags, stderr io.Writer) (config.Settings, error) {
	cfg, err := config.LoadConfigOrDefault(flags.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(stderr, "Using default configuration\n")
	}

	settings, err := cfg.ApplyProfile(flags.profileName)
	if err != nil {
		return config.Settings{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output-dir":
			settings.OutputDir = flags.outputDir
		case "checks":
			settings.Checks = flags.checks
		case "format":
			settings.Format = flags.format
		case "replace-mode":
			settings.ReplaceMode = flags.replaceMode
		case "workers":
			settings.Workers = flags.workers
		case "label-column":
			settings.LabelColumn = flags.labelColumn
		case "metrics-file":
			settings.MetricsFile = flags.metricsFile
		case "trace-file":
			settings.TraceFile = flags.traceFile
		case "no-color":
			settings.NoColor = flags.noColor
		case "quiet":
			settings.Quiet = flags.quiet
		case "debug":
			settings.Debug = flags.debug
		case "allow-outside-cwd":
			settings.RestrictToCWD = !flags.allowAnyDir
		}
	})

	if settings.Workers < 0 {
		return config.Settings{}, fmt.Errorf("workers must not be negative, got %d", settings.Workers)
	}
	return settings, nil
}

// deidentify runs one dataset through the pipeline and writes its outputs
func deidentify(ctx context.Context, flags cliFlags, settings config.Settings, registry *patterns.Registry, stdout, stderr io.Writer, interactive bool) (err error) {
	traces, closeTraces, err := openTracing(settings.TraceFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeTraces(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ctx, span := traces.TracerProvider().Tracer("pii-redactor/cmd").Start(ctx, "deidentify", trace.WithAttributes(
		attribute.String("input", flags.inputFile),
		attribute.String("format", settings.Format),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	observer := observability.New(settings.Debug, stderr)
	span.SetAttributes(attribute.String("run_id", observer.RunID()))
	if obs := observer.DebugObserver; obs != nil {
		obs.LogDetail("main", fmt.Sprintf("Input: %s", flags.inputFile))
		obs.LogDetail("main", fmt.Sprintf("Settings: %+v", settings))
		obs.LogDetail("main", fmt.Sprintf("Checks: %v", registry.Types()))
	}

	inputPath, err := validateInput(flags.inputFile, settings.RestrictToCWD)
	if err != nil {
		return err
	}

	mode, err := redactors.ParseReplaceMode(settings.ReplaceMode)
	if err != nil {
		return err
	}
	formatter, ok := formatters.Get(settings.Format)
	if !ok {
		return fmt.Errorf("unsupported format '%s'. Available formats: %s", settings.Format, strings.Join(formatters.List(), ", "))
	}

	if err := paths.ValidatePath(settings.OutputDir); err != nil {
		return err
	}
	if err := os.MkdirAll(settings.OutputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	table, err := tabular.ReadFile(inputPath)
	if err != nil {
		return err
	}
	records, validationMode := core.RecordsFromTable(table, settings.LabelColumn)
	if obs := observer.DebugObserver; obs != nil {
		obs.LogMetric("main", "rows", len(records))
		obs.LogMetric("main", "encoding", table.Encoding)
		obs.LogMetric("main", "validation_mode", validationMode)
	}

	var runMetrics *metrics.Metrics
	if settings.MetricsFile != "" {
		runMetrics = metrics.New()
	}

	processor := &core.Processor{
		Registry: registry,
		Mode:     mode,
		Workers:  settings.Workers,
		Observer: observer,
		Metrics:  runMetrics,

		TracerProvider: traces.TracerProvider(),
	}
	showProgress := interactive && !settings.Quiet && !settings.Debug
	if showProgress {
		processor.Progress = newProgressPrinter(stderr)
	}

	result, err := processor.ProcessDataset(ctx, records, validationMode)
	if showProgress {
		fmt.Fprint(stderr, "\r\033[K")
	}
	if err != nil {
		return err
	}

	outputPath := paths.OutputFileFor(settings.OutputDir, inputPath)
	outTable := &tabular.Table{Header: table.Header, Rows: make([][]string, len(result.Records))}
	for i, rec := range result.Records {
		outTable.Rows[i] = rec.Cells
	}
	if err := tabular.WriteFile(outputPath, outTable); err != nil {
		return err
	}

	report := formatters.NewReport(observer.RunID(), inputPath, outputPath, result, time.Now())
	options := formatters.FormatterOptions{
		Verbose:    flags.verbose,
		NoColor:    true,
		ShowValues: flags.showValues,
	}
	content, err := formatter.Format(report, options)
	if err != nil {
		return err
	}
	reportPath := paths.ReportFileFor(settings.OutputDir, inputPath, formatter.FileExtension())
	if err := os.WriteFile(reportPath, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := runMetrics.WriteTextfile(settings.MetricsFile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}

	if !settings.Quiet {
		printSummary(stdout, report, outputPath, reportPath)
	}
	return nil
}

// openTracing starts span export to path. An empty path returns a nil service
// that leaves spans on the global provider.
func openTracing(path string) (*tracing.Service, func() error, error) {
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	if err := paths.ValidatePath(path); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create trace file: %w", err)
	}
	svc, err := tracing.New(f, version.Short())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	closeFn := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr := svc.Shutdown(ctx)
		if err := f.Close(); err != nil && shutdownErr == nil {
			return fmt.Errorf("failed to close trace file: %w", err)
		}
		return shutdownErr
	}
	return svc, closeFn, nil
}

// validateInput checks that the input is an existing regular file and,
// when restricted, that it lies inside the working directory
func validateInput(input string, restrictToCWD bool) (string, error) {
	if err := paths.ValidatePath(input); err != nil {
		return "", err
	}

	info, err := os.Stat(input)
	if err != nil {
		return "", fmt.Errorf("input file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("input %s is not a regular file", input)
	}

	if !restrictToCWD {
		return paths.ResolvePath(input)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return paths.EnsureWithinBase(input, cwd)
}

// printSummary writes the human-facing status lines
func printSummary(w io.Writer, report formatters.Report, outputPath, reportPath string) {
	if report.TotalDetections == 0 {
		color.New(color.FgGreen).Fprintln(w, "No PII found")
	} else {
		color.New(color.FgYellow).Fprintf(w, "Found %d PII instances\n", report.TotalDetections)
	}
	if report.Validation != nil {
		m := report.Validation.Metrics
		fmt.Fprintf(w, "Precision: %.4f  Recall: %.4f  F1: %.4f\n", m.Precision, m.Recall, m.F1)
	}
	fmt.Fprintf(w, "De-identified data saved to %s\n", relativeToCWD(outputPath))
	fmt.Fprintf(w, "Report saved to %s\n", relativeToCWD(reportPath))
}

func relativeToCWD(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(cwd, path); err == nil && filepath.IsLocal(rel) {
		return rel
	}
	return path
}

// newProgressPrinter returns a progress callback that redraws one status line
func newProgressPrinter(w io.Writer) func(done, total int) {
	var mu sync.Mutex
	last := time.Time{}
	return func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if done != total && time.Since(last) < 100*time.Millisecond {
			return
		}
		last = time.Now()
		fmt.Fprintf(w, "\rProcessing rows: %d/%d", done, total)
	}
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
