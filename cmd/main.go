// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"tablescan/internal/batch"
	"tablescan/internal/config"
	"tablescan/internal/extraction"
	"tablescan/internal/help"
	"tablescan/internal/observability"
	"tablescan/internal/parallel"
	"tablescan/internal/paths"
	"tablescan/internal/version"
	"tablescan/internal/web"

	"tablescan/internal/formatters"
	_ "tablescan/internal/formatters/csv"
	_ "tablescan/internal/formatters/json"
	_ "tablescan/internal/formatters/text"
	_ "tablescan/internal/formatters/xlsx"
)

// configFlags holds command line flag values
type configFlags struct {
	inputFile    string
	outputDir    string
	workers      int
	testMode     bool
	outputFormat string
	tableFormat  string
	outputFile   string
	configFile   string
	profileName  string
	listProfiles bool
	verbose      bool
	debug        bool
	quiet        bool
	noColor      bool
	webMode      bool
	webPort      string
}

// finalConfiguration holds resolved configuration values after merging the
// config file, profile, and explicit flags
type finalConfiguration struct {
	workers     int
	format      string
	tableFormat string
	testMode    bool
	verbose     bool
	debug       bool
	noColor     bool
}

func main() {
	flags := configFlags{}

	flag.StringVar(&flags.inputFile, "file", "", "Process a single PDF instead of a directory")
	flag.StringVar(&flags.outputDir, "output-dir", "", "Output directory when using --file (default: ./extracted)")
	flag.IntVar(&flags.workers, "workers", 0, fmt.Sprintf("Number of parallel workers, 1-%d (default: %d)", parallel.MaxWorkers, parallel.DefaultWorkers))
	flag.BoolVar(&flags.testMode, "test", false, fmt.Sprintf("Process only the first %d documents", batch.TestModeLimit))
	flag.StringVar(&flags.outputFormat, "format", "", "Summary output format: text, json, csv, xlsx (default: text)")
	flag.StringVar(&flags.tableFormat, "table-format", "", "Per-table file format: csv, markdown (default: csv)")
	flag.StringVar(&flags.outputFile, "output", "", "Path to summary output file (if not specified, output to stdout)")
	flag.StringVar(&flags.configFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&flags.profileName, "profile", "", "Profile name to use from config file")
	flag.BoolVar(&flags.listProfiles, "list-profiles", false, "List available profiles in config file")
	flag.BoolVar(&flags.verbose, "verbose", false, "Display per-document results in the summary")
	flag.BoolVar(&flags.debug, "debug", false, "Enable debug logging of the extraction flow")
	flag.BoolVar(&flags.quiet, "quiet", false, "Suppress progress output (useful for scripts and CI/CD)")
	flag.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	flag.BoolVar(&flags.webMode, "web", false, "Start web server mode instead of CLI processing")
	flag.StringVar(&flags.webPort, "port", "8080", "Port for web server (default: 8080)")
	showHelp := flag.Bool("help", false, "Show help information")
	showVersion := flag.Bool("version", false, "Show version information")

	flag.Parse()

	positionals, err := splitArgs(flag.CommandLine, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if *showHelp {
		helpSystem := help.NewSystem(flags.noColor)
		if len(positionals) > 0 && positionals[0] == "formats" {
			helpSystem.ShowFormatsHelp()
		} else {
			helpSystem.ShowGeneralHelp()
		}
		os.Exit(0)
	}

	cfg := loadConfiguration(flags.configFile)

	if flags.listProfiles {
		printProfiles(cfg)
		os.Exit(0)
	}

	finalConfig, err := resolveConfiguration(cfg, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	observer := buildObserver(finalConfig, flags.quiet)

	if flags.webMode {
		if err := runWebMode(flags.webPort, finalConfig, observer); err != nil {
			fmt.Fprintf(os.Stderr, "Web server error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if flags.inputFile != "" {
		if err := runSingleDocument(flags, finalConfig, observer); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := runBatch(positionals, flags, finalConfig, observer); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// resolveConfiguration merges config file defaults, the selected profile, and
// explicit command line flags. Flags always win.
func resolveConfiguration(cfg *config.Config, flags configFlags) (finalConfiguration, error) {
	testMode := false

	if flags.profileName != "" {
		profile := cfg.GetProfile(flags.profileName)
		if profile == nil {
			return finalConfiguration{}, fmt.Errorf("profile %q not found (available: %s)",
				flags.profileName, strings.Join(cfg.ListProfiles(), ", "))
		}
		testMode = profile.TestMode
		if err := cfg.ApplyProfile(flags.profileName); err != nil {
			return finalConfiguration{}, err
		}
	}

	final := finalConfiguration{
		workers:     cfg.Defaults.Workers,
		format:      cfg.Defaults.Format,
		tableFormat: cfg.Defaults.TableFormat,
		testMode:    testMode,
		verbose:     cfg.Defaults.Verbose,
		debug:       cfg.Defaults.Debug,
		noColor:     cfg.Defaults.NoColor,
	}

	if isFlagSet("workers") {
		final.workers = flags.workers
	}
	if isFlagSet("format") {
		final.format = flags.outputFormat
	}
	if isFlagSet("table-format") {
		final.tableFormat = flags.tableFormat
	}
	if isFlagSet("test") {
		final.testMode = flags.testMode
	}
	if flags.verbose {
		final.verbose = true
	}
	if flags.debug {
		final.debug = true
	}
	if flags.noColor {
		final.noColor = true
	}

	if final.workers != 0 && (final.workers < 1 || final.workers > parallel.MaxWorkers) {
		return finalConfiguration{}, fmt.Errorf("workers must be between 1 and %d, got %d", parallel.MaxWorkers, final.workers)
	}
	if _, exists := formatters.Get(final.format); !exists {
		return finalConfiguration{}, fmt.Errorf("unsupported format %q. Available formats: %s", final.format, strings.Join(formatters.List(), ", "))
	}
	switch extraction.TableFormat(final.tableFormat) {
	case extraction.TableFormatCSV, extraction.TableFormatMarkdown:
	default:
		return finalConfiguration{}, fmt.Errorf("unsupported table format %q (expected csv or markdown)", final.tableFormat)
	}

	return final, nil
}

// buildObserver selects the observability level from the resolved flags.
func buildObserver(finalConfig finalConfiguration, quiet bool) *observability.StandardObserver {
	if finalConfig.debug {
		debugObs := observability.NewDebugObserver(os.Stderr)
		observer := debugObs.StandardObserver
		observer.DebugObserver = debugObs
		return observer
	}
	if quiet {
		return observability.NewStandardObserver(observability.LevelOff, os.Stderr)
	}
	return observability.NewStandardObserver(observability.LevelMetrics, os.Stderr)
}

// runBatch processes every PDF in the input directory. Per-document failures
// are reported in the summary and never change the exit code; only fatal
// input or output errors do.
func runBatch(args []string, flags configFlags, finalConfig finalConfiguration, observer *observability.StandardObserver) error {
	if len(args) != 2 {
		return fmt.Errorf("expected <input-dir> <output-dir> arguments (use --help for usage)")
	}
	inputDir, outputDir := args[0], args[1]

	progress := buildProgressCallback(flags.quiet, finalConfig.debug)

	summary, err := batch.Run(batch.Config{
		InputDir:    inputDir,
		OutputDir:   outputDir,
		Workers:     finalConfig.workers,
		TestMode:    finalConfig.testMode,
		TableFormat: extraction.TableFormat(finalConfig.tableFormat),
		Observer:    observer,
		Progress:    progress,
	})
	if err != nil {
		return err
	}

	return emitSummary(summary, finalConfig, flags.outputFile)
}

// runSingleDocument processes one PDF into its per-document output directory
// and prints the one-row summary.
func runSingleDocument(flags configFlags, finalConfig finalConfiguration, observer *observability.StandardObserver) error {
	info, err := os.Stat(flags.inputFile)
	if err != nil {
		return fmt.Errorf("input file %s: %w", flags.inputFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input file %s is a directory (pass it as <input-dir> instead)", flags.inputFile)
	}

	outputRoot := flags.outputDir
	if outputRoot == "" {
		outputRoot = "./extracted"
	}
	if err := paths.EnsureDir(outputRoot); err != nil {
		return err
	}

	extractor := extraction.NewDocumentExtractor(batch.DefaultBackends(), observer, extraction.Options{
		TableFormat: extraction.TableFormat(finalConfig.tableFormat),
	})

	start := time.Now()
	record := extractor.ProcessDocument(context.Background(), flags.inputFile, paths.DocumentOutputDir(outputRoot, flags.inputFile))

	summary := &extraction.BatchSummary{
		OutputDir:  outputRoot,
		StartTime:  start,
		EndTime:    time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
		Results:    []extraction.DocumentResult{record},
	}
	summary.ComputeTotals()

	if err := emitSummary(summary, finalConfig, flags.outputFile); err != nil {
		return err
	}
	if !record.Success {
		return fmt.Errorf("extraction failed: %s", record.Error)
	}
	return nil
}

// emitSummary renders the summary in the selected format to stdout or the
// output file.
func emitSummary(summary *extraction.BatchSummary, finalConfig finalConfiguration, outputFile string) error {
	options := formatters.FormatterOptions{
		Verbose: finalConfig.verbose,
		NoColor: finalConfig.noColor || outputFile != "",
	}

	if finalConfig.format == "xlsx" && outputFile == "" {
		return fmt.Errorf("xlsx output is binary; use --output <path> to write it to a file")
	}

	content, err := formatters.Export(finalConfig.format, summary, options)
	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		return nil
	}

	fmt.Println(content)
	return nil
}

// buildProgressCallback returns a progress bar writer for interactive runs,
// or nil when progress output is suppressed.
func buildProgressCallback(quiet, debug bool) parallel.ProgressCallback {
	if quiet || debug || !isTerminal(os.Stderr) {
		return nil
	}

	progressStart := time.Now()
	return func(completed, total int, record extraction.DocumentResult) {
		percent := float64(completed) / float64(total) * 100
		barWidth := 40
		filledWidth := int(float64(barWidth) * float64(completed) / float64(total))
		bar := strings.Repeat("#", filledWidth) + strings.Repeat("-", barWidth-filledWidth)

		var etaStr string
		if completed > 0 && completed < total {
			elapsed := time.Since(progressStart)
			avgTime := elapsed / time.Duration(completed)
			remaining := time.Duration(total-completed) * avgTime
			etaStr = fmt.Sprintf(" ETA: %s", remaining.Round(time.Second))
		}

		fmt.Fprintf(os.Stderr, "\r[%s] %d/%d files (%.1f%%)%s", bar, completed, total, percent, etaStr)
		if completed == total {
			fmt.Fprintf(os.Stderr, "\n")
		}
	}
}

// runWebMode starts the web server and blocks until interrupted.
func runWebMode(port string, finalConfig finalConfiguration, observer *observability.StandardObserver) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.NewWebServer(port, finalConfig.workers, observer)
	return server.Start(ctx)
}

// printProfiles lists the profiles available in the loaded configuration.
func printProfiles(cfg *config.Config) {
	names := cfg.ListProfiles()
	sort.Strings(names)

	fmt.Println("Available profiles:")
	for _, name := range names {
		profile := cfg.GetProfile(name)
		if profile.Description != "" {
			fmt.Printf("  %s - %s\n", name, profile.Description)
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
}

// splitArgs separates positional arguments from options. The standard parser
// stops at the first non-flag argument, but the documented command line puts
// options after the input and output directories, so any remaining arguments
// that look like flags are fed back through the flag set.
func splitArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positionals []string
	for len(args) > 0 {
		if args[0] == "--" {
			positionals = append(positionals, args[1:]...)
			break
		}
		if strings.HasPrefix(args[0], "-") && args[0] != "-" {
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			args = fs.Args()
			continue
		}
		positionals = append(positionals, args[0])
		args = args[1:]
	}
	return positionals, nil
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
