// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"tablescan/internal/formatters"
	"tablescan/internal/parallel"
)

// System manages help content for the application
type System struct {
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	// Disable colors if requested
	if noColor {
		color.NoColor = true
	}

	return &System{
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"example":  color.New(color.FgMagenta),
		},
	}
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Println("Tablescan - Batch PDF Table and Text Extraction")
	fmt.Println("===============================================")
	fmt.Println()
	h.colors["header"].Println("USAGE:")
	fmt.Println("  tablescan <input-dir> <output-dir> [options]")
	fmt.Println("  tablescan --file <path-to-pdf> --output-dir <dir> [options]  # Single document")
	fmt.Println("  tablescan --web [--port <port>]  # Web server mode")
	fmt.Println()

	h.colors["header"].Println("OPTIONS:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --file\t<path>\tProcess a single PDF instead of a directory")
	fmt.Fprintln(w, "  --output-dir\t<path>\tOutput directory when using --file")
	fmt.Fprintf(w, "  --workers\t<n>\tNumber of parallel workers, 1-%d (default: %d)\n", parallel.MaxWorkers, parallel.DefaultWorkers)
	fmt.Fprintln(w, "  --test\t\tProcess only the first 3 documents")
	fmt.Fprintln(w, "  --format\t<format>\tSummary output format: text, json, csv, xlsx (default: text)")
	fmt.Fprintln(w, "  --table-format\t<format>\tPer-table file format: csv, markdown (default: csv)")
	fmt.Fprintln(w, "  --output\t<path>\tPath to summary output file (if not specified, output to stdout)")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  --list-profiles\t\tList available profiles in config file")
	fmt.Fprintln(w, "  --verbose\t\tDisplay per-document results in the summary")
	fmt.Fprintln(w, "  --debug\t\tEnable debug logging of the extraction flow")
	fmt.Fprintln(w, "  --quiet\t\tSuppress progress output (useful for scripts and CI/CD)")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --web\t\tStart web server mode instead of CLI processing")
	fmt.Fprintln(w, "  --port\t<port>\tPort for web server (default: 8080, only used with --web)")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	w.Flush()

	fmt.Println()
	h.colors["header"].Println("EXAMPLES:")
	fmt.Println("  Basic Usage:")
	h.colors["example"].Println("    tablescan ./invoices ./extracted")
	h.colors["example"].Println("    tablescan ./invoices ./extracted --workers 8 --format json")
	fmt.Println("  Test Mode:")
	h.colors["example"].Println("    tablescan ./invoices ./extracted --test")
	fmt.Println("  Single Document:")
	h.colors["example"].Println("    tablescan --file report.pdf --output-dir ./extracted")
	fmt.Println("  Configuration and Profiles:")
	h.colors["example"].Println("    tablescan ./invoices ./extracted --config tablescan.yaml --profile smoke")
	h.colors["example"].Println("    tablescan --list-profiles --config tablescan.yaml")

	fmt.Println()
	h.colors["header"].Println("Web Server Examples:")
	h.colors["example"].Println("  tablescan --web  # Start web server on default port")
	h.colors["example"].Println("  tablescan --web --port 9000  # Start web server on custom port")

	fmt.Println()
	h.colors["header"].Println("OUTPUT LAYOUT:")
	fmt.Println("  <output-dir>/<document-stem>/<backend>_table_N.csv  Extracted tables")
	fmt.Println("  <output-dir>/<document-stem>/extracted_text.txt     Extracted text")
	fmt.Println("  <output-dir>/<document-stem>/summary.json           Per-document summary")
	fmt.Println("  <output-dir>/batch_summary.json                     Batch summary record")
	fmt.Println("  <output-dir>/batch_summary.csv                      Batch summary rows")

	fmt.Println()
	h.colors["header"].Println("CONFIGURATION:")
	fmt.Println("  Default config: ~/.tablescan/config.yaml")
	fmt.Println("  Project config: tablescan.yaml or .tablescan.yaml (in current directory)")
	fmt.Println("  Environment: TABLESCAN_CONFIG_DIR - Override config directory")
}

// ShowFormatsHelp lists the registered summary output formats
func (h *System) ShowFormatsHelp() {
	h.colors["title"].Println("Available Output Formats")
	fmt.Println("========================")
	fmt.Println()

	names := formatters.List()
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	h.colors["header"].Fprintln(w, "  FORMAT\tDESCRIPTION")
	h.colors["header"].Fprintln(w, "  ------\t-----------")
	for _, name := range names {
		info := formatters.GetFormatInfo(name)
		fmt.Fprintf(w, "  ")
		h.colors["emphasis"].Fprintf(w, "%s", info.Name)
		fmt.Fprintf(w, "\t%s\n", info.Description)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("Example:")
	h.colors["example"].Println("  tablescan ./invoices ./extracted --format json --output summary.json")
}
