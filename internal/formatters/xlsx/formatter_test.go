// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"tablescan/internal/extraction"
	"tablescan/internal/formatters"
	csvfmt "tablescan/internal/formatters/csv"
)

func TestFormatProducesReadableWorkbook(t *testing.T) {
	summary := &extraction.BatchSummary{
		Results: []extraction.DocumentResult{
			{Filename: "report.pdf", Success: true, Backend: "tabula", TableCount: 4, WordCount: 250, DurationMs: 90},
			{Filename: "scan.pdf", Success: false, Error: "unreadable"},
		},
	}
	summary.ComputeTotals()

	out, err := NewFormatter().Format(summary, formatters.FormatterOptions{})
	if err != nil {
		t.Fatal(err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader([]byte(out)))
	if err != nil {
		t.Fatalf("output is not a valid xlsx workbook: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	for i, want := range csvfmt.Headers {
		if rows[0][i] != want {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], want)
		}
	}
	if rows[1][0] != "report.pdf" || rows[1][1] != "success" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}
	if rows[2][1] != "error" {
		t.Errorf("failed document should carry error status: %v", rows[2])
	}
}
