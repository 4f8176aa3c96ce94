// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"strings"
	"testing"
)

func TestTableToCSV(t *testing.T) {
	table := Table{
		Backend: "tabula",
		Index:   1,
		Rows: [][]string{
			{"Name", "Amount"},
			{"Widget, large", "12.50"},
			{"Bolt \"M6\"", "0.10"},
		},
	}

	got := table.ToCSV()
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 CSV lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "Name,Amount" {
		t.Errorf("unexpected header line: %q", lines[0])
	}
	if lines[1] != `"Widget, large",12.50` {
		t.Errorf("comma field not quoted: %q", lines[1])
	}
	if lines[2] != `"Bolt ""M6""",0.10` {
		t.Errorf("quote field not escaped: %q", lines[2])
	}
}

func TestTableToMarkdown(t *testing.T) {
	table := Table{
		Rows: [][]string{
			{"A", "B"},
			{"1", "2"},
		},
	}

	got := table.ToMarkdown()
	want := "| A | B |\n|---|---|\n| 1 | 2 |\n"
	if got != want {
		t.Errorf("markdown mismatch:\ngot  %q\nwant %q", got, want)
	}

	empty := Table{}
	if empty.ToMarkdown() != "" {
		t.Error("empty table should render as empty string")
	}
}

func TestTableCounts(t *testing.T) {
	table := Table{Rows: [][]string{{"a", "b", "c"}, {"d", "e", "f"}}}
	if table.RowCount() != 2 {
		t.Errorf("RowCount = %d, want 2", table.RowCount())
	}
	if table.ColCount() != 3 {
		t.Errorf("ColCount = %d, want 3", table.ColCount())
	}

	empty := Table{}
	if empty.ColCount() != 0 {
		t.Errorf("empty ColCount = %d, want 0", empty.ColCount())
	}
}

func TestComputeTotals(t *testing.T) {
	summary := BatchSummary{
		Results: []DocumentResult{
			{Filename: "a.pdf", Success: true, TableCount: 2},
			{Filename: "b.pdf", Success: false},
			{Filename: "c.pdf", Success: true, TableCount: 3},
		},
	}
	summary.ComputeTotals()

	if summary.Total != 3 {
		t.Errorf("Total = %d, want 3", summary.Total)
	}
	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("Succeeded/Failed = %d/%d, want 2/1", summary.Succeeded, summary.Failed)
	}
	if summary.Total != summary.Succeeded+summary.Failed {
		t.Error("Total must equal Succeeded + Failed")
	}
	if summary.TotalTables != 5 {
		t.Errorf("TotalTables = %d, want 5", summary.TotalTables)
	}
}

func TestFailedResults(t *testing.T) {
	summary := BatchSummary{
		Results: []DocumentResult{
			{Filename: "ok.pdf", Success: true},
			{Filename: "bad.pdf", Success: false, Error: "broken xref"},
		},
	}

	failed := summary.FailedResults()
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed result, got %d", len(failed))
	}
	if failed[0].Filename != "bad.pdf" {
		t.Errorf("unexpected failed filename %q", failed[0].Filename)
	}
}

func TestCountWords(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n\t ", 0},
		{"simple", "invoice total due", 3},
		{"newlines and tabs", "a\tb\nc  d", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CountWords(tc.text); got != tc.want {
				t.Errorf("CountWords(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}
