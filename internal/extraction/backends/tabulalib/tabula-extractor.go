// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package tabulalib extracts tables and text from PDF documents using the
// tsawler/tabula engine. It is the preferred backend: it detects table
// structure itself and also yields the document's free text.
package tabulalib

import (
	"context"
	"fmt"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/model"

	"tablescan/internal/extraction"
)

// BackendName identifies this backend in output file prefixes and results.
const BackendName = "tabula"

// Extractor implements extraction.Backend over tsawler/tabula.
type Extractor struct{}

// New creates the tabula backend.
func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Name() string {
	return BackendName
}

// Extract builds the full document model and collects every detected table
// plus the concatenated page text. Zero detected tables is a valid result.
func (e *Extractor) Extract(ctx context.Context, path string) (*extraction.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Document() is a terminal operation: it opens, reads, and closes the
	// underlying reader.
	doc, _, err := tabula.Open(path).Document()
	if err != nil {
		return nil, fmt.Errorf("building document model: %w", err)
	}

	result := &extraction.Extraction{}

	index := 0
	for _, page := range doc.Pages {
		for _, table := range page.ExtractTables() {
			rows := convertRows(table)
			if len(rows) == 0 {
				continue
			}
			index++
			result.Tables = append(result.Tables, extraction.Table{
				Backend: BackendName,
				Page:    page.Number,
				Index:   index,
				Rows:    rows,
			})
		}
	}

	result.Text = doc.ExtractText()
	return result, nil
}

// convertRows flattens a model table into cell text, dropping tables whose
// cells are all empty.
func convertRows(table *model.Table) [][]string {
	rows := make([][]string, 0, len(table.Rows))
	nonEmpty := false
	for _, row := range table.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell.Text
			if cell.Text != "" {
				nonEmpty = true
			}
		}
		rows = append(rows, cells)
	}
	if !nonEmpty {
		return nil
	}
	return rows
}
