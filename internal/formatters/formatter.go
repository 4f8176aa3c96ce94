// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package formatters renders batch summaries for the CLI and the web export
// endpoint. Concrete formatters self-register via init, so shells pull them
// in with blank imports and select one by name.
package formatters

import (
	"fmt"
	"strings"

	"tablescan/internal/extraction"
)

// FormatterOptions defines configuration options shared by all formatters.
type FormatterOptions struct {
	// Verbose includes per-document detail beyond the aggregate counts.
	Verbose bool
	// NoColor disables colored output for text rendering.
	NoColor bool
}

// Formatter renders a batch summary in one output format.
type Formatter interface {
	// Format renders the summary. Binary formats return their bytes in the
	// string.
	Format(summary *extraction.BatchSummary, options FormatterOptions) (string, error)

	// Name returns the formatter name (e.g., "json", "csv").
	Name() string

	// Description returns a brief description of the output.
	Description() string

	// FileExtension returns the recommended file extension (e.g., ".json").
	FileExtension() string
}

// Registry holds registered formatters.
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates an empty formatter registry.
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

// Register adds a formatter to the registry.
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name.
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names.
func (r *Registry) List() []string {
	var names []string
	for name := range r.formatters {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry.
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get retrieves a formatter from the default registry.
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List returns the names registered in the default registry.
func List() []string {
	return DefaultRegistry.List()
}

// Export renders the summary in the named format, shared by the CLI and the
// web UI.
func Export(format string, summary *extraction.BatchSummary, options FormatterOptions) (string, error) {
	formatter, exists := Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter.Format(summary, options)
}

// FormatInfo provides formatter metadata for the web export endpoint.
type FormatInfo struct {
	Name        string
	Description string
	Extension   string
	MimeType    string
}

// GetFormatInfo returns metadata about a specific formatter.
func GetFormatInfo(name string) FormatInfo {
	formatter, exists := Get(name)
	if !exists {
		return FormatInfo{}
	}

	info := FormatInfo{
		Name:        formatter.Name(),
		Description: formatter.Description(),
		Extension:   formatter.FileExtension(),
	}

	switch name {
	case "json":
		info.MimeType = "application/json"
	case "csv":
		info.MimeType = "text/csv"
	case "text":
		info.MimeType = "text/plain"
	case "xlsx":
		info.MimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		info.MimeType = "application/octet-stream"
	}

	return info
}

// ExportForWeb renders the summary with the MIME type and download filename
// the web export endpoint needs.
func ExportForWeb(format string, summary *extraction.BatchSummary, options FormatterOptions) (content string, mimeType string, filename string, err error) {
	content, err = Export(format, summary, options)
	if err != nil {
		return "", "", "", err
	}

	info := GetFormatInfo(format)
	return content, info.MimeType, "tablescan-summary" + info.Extension, nil
}
