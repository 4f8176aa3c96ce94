// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"
	"strings"

	"tablescan/internal/extraction"
	"tablescan/internal/formatters"
)

// Formatter implements the flattened row-set rendering of a batch summary:
// one row per processed document. Its output is also the batch_summary.csv
// file written by the orchestrator.
type Formatter struct{}

// NewFormatter creates a new CSV formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

// Headers is the column set of the flattened row set, shared with the xlsx
// formatter.
var Headers = []string{
	"Filename", "Status", "Backend", "Tables Found",
	"Text Length", "Word Count", "Page Count", "Processing Time (ms)", "Error",
}

func (f *Formatter) Format(summary *extraction.BatchSummary, options formatters.FormatterOptions) (string, error) {
	csvRows := []string{strings.Join(Headers, ",")}

	for _, r := range summary.Results {
		csvRows = append(csvRows, strings.Join(RowFields(r), ","))
	}

	return strings.Join(csvRows, "\n"), nil
}

// RowFields converts one document result into escaped CSV fields, in Headers
// order.
func RowFields(r extraction.DocumentResult) []string {
	status := "success"
	if !r.Success {
		status = "error"
	}

	return []string{
		escapeCSVField(r.Filename),
		status,
		escapeCSVField(r.Backend),
		fmt.Sprintf("%d", r.TableCount),
		fmt.Sprintf("%d", r.CharCount),
		fmt.Sprintf("%d", r.WordCount),
		fmt.Sprintf("%d", r.PageCount),
		fmt.Sprintf("%d", r.DurationMs),
		escapeCSVField(r.Error),
	}
}

// escapeCSVField properly escapes a field for CSV format and prevents CSV injection
func escapeCSVField(field string) string {
	field = sanitizeFormulaInjection(field)

	if strings.ContainsAny(field, ",\"\n\r") {
		escaped := strings.ReplaceAll(field, "\"", "\"\"")
		return fmt.Sprintf("\"%s\"", escaped)
	}
	return field
}

// sanitizeFormulaInjection prevents CSV injection attacks by sanitizing formula characters
func sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}

	firstChar := field[0]
	if firstChar == '=' || firstChar == '+' || firstChar == '-' || firstChar == '@' {
		// Prefix with single quote to prevent formula execution
		return "'" + field
	}

	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
