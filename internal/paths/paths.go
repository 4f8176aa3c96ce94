// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package paths centralizes the on-disk layout of extraction output trees
// and the configuration search path.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetConfigDir returns the tablescan configuration directory.
func GetConfigDir() string {
	if dir := os.Getenv("TABLESCAN_CONFIG_DIR"); dir != "" {
		return dir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".tablescan")
}

// GetConfigFile returns the path to the main config file.
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// EnsureDir creates dir and any missing parents. It is idempotent: an
// existing directory is not an error, so concurrent workers can race on the
// shared output root safely.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// DocumentOutputDir returns the per-document output subdirectory inside the
// batch output root, named after the document without its extension.
func DocumentOutputDir(outputRoot, documentPath string) string {
	return filepath.Join(outputRoot, DocumentStem(documentPath))
}

// DocumentStem returns the document's base name without extension, sanitized
// for use as a directory name.
func DocumentStem(documentPath string) string {
	base := filepath.Base(documentPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	// Path separators inside the stem would escape the output tree.
	stem = strings.ReplaceAll(stem, "/", "_")
	stem = strings.ReplaceAll(stem, "\\", "_")
	return stem
}

// TableFileName returns the name of the n-th (1-based) table file produced
// by the named backend.
func TableFileName(backend string, n int, ext string) string {
	return fmt.Sprintf("%s_table_%d%s", backend, n, ext)
}

// TextFileName is the per-document extracted text file.
const TextFileName = "extracted_text.txt"

// SummaryFileName is the per-document summary record.
const SummaryFileName = "summary.json"

// BatchSummaryJSON and BatchSummaryCSV are the batch-level summary files.
const (
	BatchSummaryJSON = "batch_summary.json"
	BatchSummaryCSV  = "batch_summary.csv"
)
