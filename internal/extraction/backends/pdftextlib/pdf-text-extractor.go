// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdftextlib extracts free text from PDF documents using
// ledongthuc/pdf. It reconstructs reading order from positioned text rows
// and produces no tables; it is the fallback backend when the table engine
// cannot open a document.
package pdftextlib

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"tablescan/internal/extraction"
)

// BackendName identifies this backend in output file prefixes and results.
const BackendName = "pdftext"

// maxPages caps per-document page processing to keep batch throughput
// predictable on pathological documents.
const maxPages = 200

// Extractor implements extraction.Backend over ledongthuc/pdf.
type Extractor struct{}

// New creates the pdftext backend.
func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Name() string {
	return BackendName
}

// Extract reads all pages and reconstructs their text. Individual page
// failures are skipped; the document fails only if it cannot be opened.
func (e *Extractor) Extract(ctx context.Context, path string) (*extraction.Extraction, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	pageCount := r.NumPage()
	if pageCount > maxPages {
		pageCount = maxPages
	}

	type pageResult struct {
		pageNum int
		text    string
		err     error
	}

	resultChan := make(chan pageResult, pageCount)
	for i := 1; i <= pageCount; i++ {
		go func(pageNum int) {
			p := r.Page(pageNum)
			if p.V.IsNull() {
				resultChan <- pageResult{pageNum: pageNum, err: fmt.Errorf("null page")}
				return
			}
			text, err := extractTextWithProperSpacing(p)
			resultChan <- pageResult{pageNum: pageNum, text: text, err: err}
		}(i)
	}

	pageTexts := make(map[int]string)
	for i := 0; i < pageCount; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-resultChan:
			if result.err == nil {
				pageTexts[result.pageNum] = result.text
			}
		}
	}

	var buf bytes.Buffer
	for i := 1; i <= pageCount; i++ {
		if text, exists := pageTexts[i]; exists {
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(text)
		}
	}

	return &extraction.Extraction{
		Text: cleanTextPreservingStructure(buf.String()),
	}, nil
}

// extractTextWithProperSpacing extracts text using row-based positioning for
// better spacing.
func extractTextWithProperSpacing(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		// Fallback to plain extraction if row-based fails.
		return p.GetPlainText(nil)
	}

	sortedRows := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sortedRows = append(sortedRows, row)
		}
	}

	// Sort by Y coordinate for top-to-bottom reading order.
	sort.Slice(sortedRows, func(i, j int) bool {
		return getAverageY(sortedRows[i].Content) < getAverageY(sortedRows[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range sortedRows {
		rowText := reconstructRowText(row.Content)
		if strings.TrimSpace(rowText) != "" {
			buf.WriteString(rowText)
			buf.WriteString("\n")
		}
	}

	return buf.String(), nil
}

// getAverageY calculates the average Y coordinate for text elements in a row.
func getAverageY(textElements []pdf.Text) float64 {
	if len(textElements) == 0 {
		return 0
	}

	var totalY float64
	for _, element := range textElements {
		totalY += element.Y
	}
	return totalY / float64(len(textElements))
}

// reconstructRowText rebuilds a row left to right, inserting spaces where the
// horizontal gap between adjacent elements exceeds 20% of the font size.
func reconstructRowText(textElements []pdf.Text) string {
	if len(textElements) == 0 {
		return ""
	}

	sortedElements := make([]pdf.Text, len(textElements))
	copy(sortedElements, textElements)
	sort.Slice(sortedElements, func(i, j int) bool {
		return sortedElements[i].X < sortedElements[j].X
	})

	var buf bytes.Buffer
	for i, element := range sortedElements {
		buf.WriteString(element.S)

		if i < len(sortedElements)-1 {
			gap := sortedElements[i+1].X - (element.X + element.W)

			fontSize := element.FontSize
			if fontSize <= 0 {
				fontSize = 12
			}
			if gap > fontSize*0.2 {
				buf.WriteString(" ")
			}
		}
	}

	return buf.String()
}

// cleanTextPreservingStructure trims blank lines and collapses runs of
// whitespace within lines while keeping line breaks intact, so downstream
// word/character counts stay meaningful.
func cleanTextPreservingStructure(text string) string {
	var cleanedLines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.ReplaceAll(line, "\t", " ")
		for strings.Contains(line, "  ") {
			line = strings.ReplaceAll(line, "  ", " ")
		}
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}
	return strings.Join(cleanedLines, "\n")
}
