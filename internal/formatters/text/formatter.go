// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tablescan/internal/extraction"
	"tablescan/internal/formatters"
)

// Formatter implements the human-readable console summary.
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter.
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable batch summary with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(summary *extraction.BatchSummary, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var sb strings.Builder

	sb.WriteString(f.colors["white"].Sprint("BATCH PROCESSING COMPLETED"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Total files:          %d\n", summary.Total)
	fmt.Fprintf(&sb, "Successful:           %s\n", f.colors["green"].Sprintf("%d", summary.Succeeded))
	fmt.Fprintf(&sb, "Failed:               %s\n", f.colors["red"].Sprintf("%d", summary.Failed))
	fmt.Fprintf(&sb, "Total tables found:   %d\n", summary.TotalTables)
	fmt.Fprintf(&sb, "Total processing time: %s\n", time.Duration(summary.DurationMs)*time.Millisecond)
	fmt.Fprintf(&sb, "Results saved to:     %s\n", summary.OutputDir)

	// Every failed document is listed with its error text so operators can
	// triage without re-running the batch.
	if failed := summary.FailedResults(); len(failed) > 0 {
		sb.WriteString("\n")
		sb.WriteString(f.colors["red"].Sprint("FAILED DOCUMENTS"))
		sb.WriteString("\n")
		for _, r := range failed {
			fmt.Fprintf(&sb, "  %s: %s\n", r.Filename, r.Error)
		}
	}

	if options.Verbose && len(summary.Results) > 0 {
		sb.WriteString("\n")
		sb.WriteString(f.colors["cyan"].Sprint("PER-DOCUMENT RESULTS"))
		sb.WriteString("\n")
		for _, r := range summary.Results {
			marker := f.colors["green"].Sprint("ok")
			if !r.Success {
				marker = f.colors["red"].Sprint("failed")
			}
			fmt.Fprintf(&sb, "  %-40s %s  tables=%d words=%d (%dms)\n",
				r.Filename, marker, r.TableCount, r.WordCount, r.DurationMs)
		}
	}

	return sb.String(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
