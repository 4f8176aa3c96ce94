// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"tablescan/internal/extraction"
	"tablescan/internal/formatters"
	csvfmt "tablescan/internal/formatters/csv"
)

// Formatter renders the flattened batch row set as an Excel workbook. The
// returned string holds the workbook bytes; callers write them out verbatim.
type Formatter struct{}

// NewFormatter creates a new xlsx formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "xlsx"
}

func (f *Formatter) Description() string {
	return "Excel workbook of the per-document result rows"
}

func (f *Formatter) FileExtension() string {
	return ".xlsx"
}

func (f *Formatter) Format(summary *extraction.BatchSummary, options formatters.FormatterOptions) (string, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	const sheet = "Sheet1"

	for col, header := range csvfmt.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", fmt.Errorf("building xlsx header: %w", err)
		}
		if err := wb.SetCellValue(sheet, cell, header); err != nil {
			return "", fmt.Errorf("building xlsx header: %w", err)
		}
	}

	for i, r := range summary.Results {
		status := "success"
		if !r.Success {
			status = "error"
		}
		values := []interface{}{
			r.Filename, status, r.Backend, r.TableCount,
			r.CharCount, r.WordCount, r.PageCount, r.DurationMs, r.Error,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return "", fmt.Errorf("building xlsx row: %w", err)
			}
			if err := wb.SetCellValue(sheet, cell, v); err != nil {
				return "", fmt.Errorf("building xlsx row: %w", err)
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("encoding xlsx workbook: %w", err)
	}
	return buf.String(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
