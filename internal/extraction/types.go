// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"context"
	"encoding/csv"
	"strings"
	"time"
)

// Table is one extracted table. Rows hold cell text in reading order.
// Index is 1-based and scoped to the backend that produced the table, so
// outputs from different backends never collide on disk.
type Table struct {
	Backend string     `json:"backend"`
	Page    int        `json:"page"`
	Index   int        `json:"index"`
	Rows    [][]string `json:"rows"`
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns in the first row.
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// ToCSV renders the table as RFC 4180 CSV.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	for _, row := range t.Rows {
		// WriteAll would also flush, but per-row writes keep the
		// error surface local; writing to a strings.Builder cannot fail.
		_ = w.Write(row)
	}
	w.Flush()
	return sb.String()
}

// ToMarkdown renders the table as a GitHub-style markdown table. The first
// row is treated as the header row.
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for _, cell := range cells {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell, "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(t.Rows[0])
	for range t.Rows[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for _, row := range t.Rows[1:] {
		writeRow(row)
	}

	return sb.String()
}

// Extraction is what a single backend produced for one document.
type Extraction struct {
	Tables []Table
	Text   string
}

// Backend is one extraction engine tried by the single-document extractor.
// Backends are attempted in a fixed preference order; an error from one
// backend is recorded and the next backend is tried.
type Backend interface {
	// Name returns the backend identifier used in output file prefixes.
	Name() string

	// Extract runs the engine against the document at path. A document with
	// zero tables and empty text is a valid, successful extraction.
	Extract(ctx context.Context, path string) (*Extraction, error)
}

// DocumentResult is the per-document result record. It is created once by
// the single-document extractor and never mutated afterwards.
type DocumentResult struct {
	Filename   string `json:"filename"`
	Success    bool   `json:"success"`
	Backend    string `json:"backend,omitempty"`
	TableCount int    `json:"tables_found"`
	CharCount  int    `json:"text_length"`
	WordCount  int    `json:"word_count"`
	PageCount  int    `json:"page_count,omitempty"`
	DurationMs int64  `json:"processing_time_ms"`
	Error      string `json:"error,omitempty"`
}

// BatchSummary aggregates the result records of one batch run.
type BatchSummary struct {
	RunID       string           `json:"run_id"`
	InputDir    string           `json:"input_directory"`
	OutputDir   string           `json:"output_directory"`
	StartTime   time.Time        `json:"batch_start_time"`
	EndTime     time.Time        `json:"batch_end_time"`
	Total       int              `json:"total_files"`
	Succeeded   int              `json:"successful_files"`
	Failed      int              `json:"failed_files"`
	TotalTables int              `json:"total_tables_found"`
	DurationMs  int64            `json:"total_processing_time_ms"`
	Results     []DocumentResult `json:"file_results"`
}

// ComputeTotals recomputes the aggregate counters from Results. After a call
// Total == Succeeded + Failed and TotalTables equals the sum of per-document
// table counts.
func (s *BatchSummary) ComputeTotals() {
	s.Total = len(s.Results)
	s.Succeeded = 0
	s.Failed = 0
	s.TotalTables = 0
	for _, r := range s.Results {
		if r.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
		s.TotalTables += r.TableCount
	}
}

// FailedResults returns the results of documents that failed, for operator
// triage in summaries.
func (s *BatchSummary) FailedResults() []DocumentResult {
	var failed []DocumentResult
	for _, r := range s.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// CountWords counts whitespace-separated words in extracted text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
