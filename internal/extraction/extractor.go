// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tablescan/internal/observability"
	"tablescan/internal/paths"
)

// TableFormat selects the on-disk rendering of extracted tables.
type TableFormat string

const (
	TableFormatCSV      TableFormat = "csv"
	TableFormatMarkdown TableFormat = "markdown"
)

// Extension returns the file extension for the format.
func (f TableFormat) Extension() string {
	if f == TableFormatMarkdown {
		return ".md"
	}
	return ".csv"
}

// PreflightFunc validates a document before backend dispatch and returns its
// page count.
type PreflightFunc func(path string) (pageCount int, err error)

// Options configures a DocumentExtractor.
type Options struct {
	// TableFormat selects csv (default) or markdown table files.
	TableFormat TableFormat
	// Preflight overrides the default pdfcpu-based document check. Used by
	// tests to process synthetic documents.
	Preflight PreflightFunc
}

// DocumentExtractor runs the ordered backend list against one document and
// organizes the outputs. It is safe for concurrent use by multiple workers:
// all mutable state is per-call.
type DocumentExtractor struct {
	backends    []Backend
	observer    *observability.StandardObserver
	tableFormat TableFormat
	preflight   PreflightFunc
}

// NewDocumentExtractor creates an extractor trying backends in the given
// preference order.
func NewDocumentExtractor(backends []Backend, observer *observability.StandardObserver, opts Options) *DocumentExtractor {
	format := opts.TableFormat
	if format == "" {
		format = TableFormatCSV
	}
	preflight := opts.Preflight
	if preflight == nil {
		preflight = DefaultPreflight
	}

	return &DocumentExtractor{
		backends:    backends,
		observer:    observer,
		tableFormat: format,
		preflight:   preflight,
	}
}

// ProcessDocument extracts one document into outputDir and returns its result
// record. Extraction failures are captured in the record, never returned as
// an error: a document's failure must not abort the batch. The returned
// record is complete and immutable.
func (de *DocumentExtractor) ProcessDocument(ctx context.Context, docPath, outputDir string) DocumentResult {
	start := time.Now()

	var finishTiming func(bool, map[string]interface{})
	if de.observer != nil {
		finishTiming = de.observer.StartTiming("extractor", "process_document", docPath)
	}

	result := de.extract(ctx, docPath, outputDir)
	result.DurationMs = time.Since(start).Milliseconds()

	// The summary record is written regardless of outcome. A summary write
	// failure downgrades the result but keeps the batch going.
	if err := de.writeSummary(outputDir, result); err != nil && result.Success {
		result.Success = false
		result.Error = err.Error()
	}

	if finishTiming != nil {
		finishTiming(result.Success, map[string]interface{}{
			"tables_found": result.TableCount,
			"word_count":   result.WordCount,
			"backend":      result.Backend,
		})
	}

	return result
}

func (de *DocumentExtractor) extract(ctx context.Context, docPath, outputDir string) DocumentResult {
	result := DocumentResult{Filename: filepath.Base(docPath)}

	if len(de.backends) == 0 {
		result.Error = "no extraction backends configured"
		return result
	}

	if err := paths.EnsureDir(outputDir); err != nil {
		result.Error = err.Error()
		return result
	}

	pageCount, err := de.preflight(docPath)
	if err != nil {
		result.Error = fmt.Sprintf("document preflight failed: %v", err)
		return result
	}
	result.PageCount = pageCount

	// Each backend that succeeds writes its own table files; outputs from
	// different backends are kept separate, never merged. Text comes from
	// the first backend that yields any.
	var succeeded []string
	var failures []string
	var writeFailures []string
	textWritten := false

	for _, backend := range de.backends {
		ext, err := backend.Extract(ctx, docPath)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", backend.Name(), err))
			continue
		}
		succeeded = append(succeeded, backend.Name())

		for i := range ext.Tables {
			table := &ext.Tables[i]
			if err := de.writeTable(outputDir, table); err != nil {
				writeFailures = append(writeFailures, fmt.Sprintf("%s: %v", backend.Name(), err))
				continue
			}
			result.TableCount++
		}

		if !textWritten && ext.Text != "" {
			if err := writeFile(filepath.Join(outputDir, paths.TextFileName), []byte(ext.Text)); err != nil {
				writeFailures = append(writeFailures, fmt.Sprintf("%s: %v", backend.Name(), err))
			} else {
				textWritten = true
				result.CharCount = len(ext.Text)
				result.WordCount = CountWords(ext.Text)
			}
		}
	}

	if len(succeeded) == 0 {
		result.Error = strings.Join(failures, "; ")
		return result
	}

	// A backend succeeded but some of its output never reached disk. The
	// document fails so the loss is visible in the summary; TableCount still
	// reflects only the files actually written.
	if len(writeFailures) > 0 {
		result.Error = strings.Join(writeFailures, "; ")
		return result
	}

	result.Success = true
	result.Backend = strings.Join(succeeded, ",")
	return result
}

// writeTable writes one table file named with the backend prefix and the
// 1-based table index.
func (de *DocumentExtractor) writeTable(outputDir string, table *Table) error {
	name := paths.TableFileName(table.Backend, table.Index, de.tableFormat.Extension())

	var content string
	switch de.tableFormat {
	case TableFormatMarkdown:
		content = table.ToMarkdown()
	default:
		content = table.ToCSV()
	}

	return writeFile(filepath.Join(outputDir, name), []byte(content))
}

// writeSummary writes the per-document summary record as indented JSON.
func (de *DocumentExtractor) writeSummary(outputDir string, result DocumentResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document summary: %w", err)
	}
	return writeFile(filepath.Join(outputDir, paths.SummaryFileName), data)
}

// writeFile truncates and writes: reruns against the same output tree follow
// last-run-wins semantics.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
