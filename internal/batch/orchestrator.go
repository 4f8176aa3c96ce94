// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package batch implements the shared batch orchestration logic used by the
// CLI and the web server: document discovery, fan-out over the worker pool,
// result aggregation, and summary output.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tablescan/internal/extraction"
	"tablescan/internal/extraction/backends/pdftextlib"
	"tablescan/internal/extraction/backends/tabulalib"
	"tablescan/internal/formatters"
	"tablescan/internal/formatters/csv"
	"tablescan/internal/formatters/json"
	"tablescan/internal/observability"
	"tablescan/internal/parallel"
	"tablescan/internal/paths"
)

// TestModeLimit is the number of documents processed when test mode is on.
const TestModeLimit = 3

// DocumentExtension is the input file extension handled by the orchestrator.
const DocumentExtension = ".pdf"

// Config holds configuration for one batch run.
type Config struct {
	InputDir  string
	OutputDir string
	// Workers is clamped into [1, parallel.MaxWorkers]; zero means default.
	Workers int
	// TestMode truncates the discovered document set to TestModeLimit.
	TestMode bool
	// TableFormat selects the per-table file rendering (csv default).
	TableFormat extraction.TableFormat
	// Backends overrides the default backend order. Nil means DefaultBackends.
	Backends []extraction.Backend
	// Preflight overrides the pdfcpu document check (tests only).
	Preflight extraction.PreflightFunc
	// Observer receives progress/status records. May be nil.
	Observer *observability.StandardObserver
	// Progress, when non-nil, is called as each document completes.
	Progress parallel.ProgressCallback
}

// DefaultBackends returns the extraction backends in preference order:
// tabula (tables + text) first, then the pdftext fallback.
func DefaultBackends() []extraction.Backend {
	return []extraction.Backend{
		tabulalib.New(),
		pdftextlib.New(),
	}
}

// Run processes every discovered document exactly once and returns the
// aggregate summary. Per-document failures are recorded in the summary; Run
// itself fails only on fatal input errors (missing input directory,
// uncreatable output directory, unwritable summary files).
func Run(cfg Config) (*extraction.BatchSummary, error) {
	info, err := os.Stat(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory %s: %w", cfg.InputDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", cfg.InputDir)
	}

	if err := paths.EnsureDir(cfg.OutputDir); err != nil {
		return nil, err
	}

	documents, err := DiscoverDocuments(cfg.InputDir)
	if err != nil {
		return nil, err
	}
	if cfg.TestMode && len(documents) > TestModeLimit {
		documents = documents[:TestModeLimit]
	}

	backends := cfg.Backends
	if backends == nil {
		backends = DefaultBackends()
	}

	summary := &extraction.BatchSummary{
		RunID:     uuid.NewString(),
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		StartTime: time.Now(),
	}

	extractor := extraction.NewDocumentExtractor(backends, cfg.Observer, extraction.Options{
		TableFormat: cfg.TableFormat,
		Preflight:   cfg.Preflight,
	})

	jobs := make([]*parallel.Job, 0, len(documents))
	for i, doc := range documents {
		jobs = append(jobs, &parallel.Job{
			JobID:        fmt.Sprintf("job_%d", i),
			DocumentPath: doc,
			OutputDir:    paths.DocumentOutputDir(cfg.OutputDir, doc),
		})
	}

	pool := parallel.NewWorkerPool(cfg.Workers, extractor, cfg.Observer)
	records := pool.ProcessDocuments(jobs, cfg.Progress)

	// Records arrive in completion order; sort by filename so summaries are
	// deterministic run to run.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Filename < records[j].Filename
	})

	summary.Results = records
	summary.ComputeTotals()
	summary.EndTime = time.Now()
	summary.DurationMs = summary.EndTime.Sub(summary.StartTime).Milliseconds()

	if err := writeSummaryFiles(cfg.OutputDir, summary); err != nil {
		return nil, err
	}

	return summary, nil
}

// DiscoverDocuments lists the input documents directly inside dir, sorted
// lexicographically for reproducible batch order. The extension match is
// case-insensitive.
func DiscoverDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var documents []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), DocumentExtension) {
			documents = append(documents, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(documents)
	return documents, nil
}

// writeSummaryFiles renders the batch summary as both the structured record
// and the flattened row set.
func writeSummaryFiles(outputDir string, summary *extraction.BatchSummary) error {
	jsonContent, err := json.NewFormatter().Format(summary, formatters.FormatterOptions{})
	if err != nil {
		return fmt.Errorf("formatting batch summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, paths.BatchSummaryJSON), []byte(jsonContent), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", paths.BatchSummaryJSON, err)
	}

	csvContent, err := csv.NewFormatter().Format(summary, formatters.FormatterOptions{})
	if err != nil {
		return fmt.Errorf("formatting batch summary rows: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, paths.BatchSummaryCSV), []byte(csvContent), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", paths.BatchSummaryCSV, err)
	}

	return nil
}
