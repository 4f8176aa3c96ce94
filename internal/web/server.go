// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"tablescan/internal/batch"
	"tablescan/internal/extraction"
	"tablescan/internal/formatters"
	"tablescan/internal/observability"
	"tablescan/internal/version"

	// Import formatters to register them
	_ "tablescan/internal/formatters/csv"
	_ "tablescan/internal/formatters/json"
	_ "tablescan/internal/formatters/text"
	_ "tablescan/internal/formatters/xlsx"
)

// maxUploadSize caps each uploaded document to keep temp usage bounded.
const maxUploadSize = 100 << 20

// WebServer represents the web server instance
type WebServer struct {
	port     string
	workers  int
	observer *observability.StandardObserver
	server   *http.Server
	mux      *http.ServeMux
}

// ProcessResponse wraps the batch result for the browser
type ProcessResponse struct {
	Success bool                     `json:"success"`
	Summary *extraction.BatchSummary `json:"summary,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

// NewWebServer creates a new web server instance
func NewWebServer(port string, workers int, observer *observability.StandardObserver) *WebServer {
	ws := &WebServer{
		port:     port,
		workers:  workers,
		observer: observer,
		mux:      http.NewServeMux(),
	}
	ws.setupRoutes()
	return ws
}

// Start runs the web server until ctx is cancelled. If the requested port is
// busy it walks the 8080-8089 range before giving up.
func (ws *WebServer) Start(ctx context.Context) error {
	var lastError error
	for i, currentPort := range ws.fallbackPorts() {
		listener, err := net.Listen("tcp", ":"+currentPort)
		if err != nil {
			lastError = err
			if i == 0 {
				fmt.Printf("Port %s is not available, trying alternative ports...\n", currentPort)
			}
			continue
		}

		ws.server = ws.createSecureServer(currentPort)

		fmt.Printf("Tablescan Web UI started on port %s\n", currentPort)
		fmt.Printf("Local: http://localhost:%s\n", currentPort)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := ws.server.Serve(listener); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return ws.server.Shutdown(shutdownCtx)
		})
		return g.Wait()
	}

	return fmt.Errorf("could not bind port %s or any port in range 8080-8089\n"+
		"Last error: %v\n"+
		"Troubleshooting:\n"+
		"  1. Check if other services are using these ports: netstat -an | grep :808\n"+
		"  2. Try a specific port with --port <number>\n"+
		"  3. Ensure you have permission to bind to the requested port", ws.port, lastError)
}

// fallbackPorts returns the requested port followed by every port in the
// 8080-8089 fallback range, without repeating the requested one.
func (ws *WebServer) fallbackPorts() []string {
	ports := []string{ws.port}
	for p := 8080; p <= 8089; p++ {
		candidate := strconv.Itoa(p)
		if candidate != ws.port {
			ports = append(ports, candidate)
		}
	}
	return ports
}

// Stop stops the web server
func (ws *WebServer) Stop() error {
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}

// setupRoutes configures all HTTP route handlers
func (ws *WebServer) setupRoutes() {
	ws.mux.HandleFunc("/", ws.serveHome)
	ws.mux.HandleFunc("/health", ws.handleHealth)
	ws.mux.HandleFunc("/process", ws.handleProcess)
	ws.mux.HandleFunc("/export", ws.handleExport)
}

// createSecureServer creates an HTTP server with security timeouts
func (ws *WebServer) createSecureServer(port string) *http.Server {
	return &http.Server{
		Addr:    ":" + port,
		Handler: ws.mux,
		// Timeout for reading request headers (prevents slow header attacks)
		ReadHeaderTimeout: 15 * time.Second,
		// Large uploads and multi-document batches need generous I/O windows
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
}

// serveHome serves the main HTML page
func (ws *WebServer) serveHome(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "GET" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	htmlContent := ws.loadTemplate()

	responseWriter.Header().Set("Content-Type", "text/html")
	responseWriter.WriteHeader(http.StatusOK)
	responseWriter.Write([]byte(htmlContent))
}

// loadTemplate loads the HTML template from file with fallback to embedded template
func (ws *WebServer) loadTemplate() string {
	templatePath := filepath.Clean(filepath.Join("web", "template.html"))
	if content, err := os.ReadFile(templatePath); err == nil {
		return string(content)
	}

	return ws.getEmbeddedTemplate()
}

// handleHealth provides a health check endpoint with version information
func (ws *WebServer) handleHealth(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "GET" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	versionInfo := version.Full()

	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "tablescan-web",
		"version":   versionInfo["version"],
		"build_info": map[string]interface{}{
			"version":    versionInfo["version"],
			"commit":     versionInfo["commit"],
			"build_date": versionInfo["buildDate"],
			"go_version": versionInfo["goVersion"],
			"platform":   versionInfo["platform"],
		},
	}

	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(http.StatusOK)
	json.NewEncoder(responseWriter).Encode(healthData)
}

// handleProcess accepts uploaded PDFs and runs them through the same batch
// pipeline the CLI uses, returning the batch summary as JSON.
func (ws *WebServer) handleProcess(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "POST" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	err := request.ParseMultipartForm(32 << 20)
	if err != nil {
		ws.sendError(responseWriter, "Failed to parse form data")
		return
	}

	files := request.MultipartForm.File["files"]
	if len(files) == 0 {
		ws.sendError(responseWriter, "No files uploaded")
		return
	}

	testMode := request.FormValue("test") == "true"

	// Stage the uploads in a scratch input directory so the batch pipeline
	// sees them exactly as it would a directory on disk.
	inputDir, err := os.MkdirTemp("", "tablescan_upload_*")
	if err != nil {
		ws.sendError(responseWriter, fmt.Sprintf("Failed to create upload directory: %v", err))
		return
	}
	defer os.RemoveAll(inputDir)

	outputDir, err := os.MkdirTemp("", "tablescan_output_*")
	if err != nil {
		ws.sendError(responseWriter, fmt.Sprintf("Failed to create output directory: %v", err))
		return
	}
	defer os.RemoveAll(outputDir)

	for _, fileHeader := range files {
		if err := ws.saveUploadedFile(fileHeader, inputDir); err != nil {
			ws.sendError(responseWriter, err.Error())
			return
		}
	}

	summary, err := batch.Run(batch.Config{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Workers:   ws.workers,
		TestMode:  testMode,
		Observer:  ws.observer,
	})
	if err != nil {
		ws.sendError(responseWriter, fmt.Sprintf("Batch processing failed: %v", err))
		return
	}

	// The scratch directories do not outlive the request; blank them out so
	// the browser does not render dead paths.
	summary.InputDir = ""
	summary.OutputDir = ""

	responseWriter.Header().Set("Content-Type", "application/json")
	json.NewEncoder(responseWriter).Encode(ProcessResponse{
		Success: true,
		Summary: summary,
	})
}

// saveUploadedFile copies one uploaded document into the staging directory.
// Only PDF uploads are accepted.
func (ws *WebServer) saveUploadedFile(uploadedFile *multipart.FileHeader, inputDir string) error {
	name := filepath.Base(uploadedFile.Filename)
	if !strings.EqualFold(filepath.Ext(name), batch.DocumentExtension) {
		return fmt.Errorf("unsupported file type for %s: only PDF files are accepted", name)
	}

	file, err := uploadedFile.Open()
	if err != nil {
		return fmt.Errorf("failed to open file %s: %v", name, err)
	}
	defer file.Close()

	// Two uploads may share a base name; each must stay its own document in
	// the batch, so duplicates get a numbered suffix instead of overwriting.
	destPath := stagingPath(inputDir, name)
	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to stage file %s: %v", name, err)
	}
	defer dest.Close()

	limitedReader := io.LimitReader(file, maxUploadSize)
	if _, err := io.Copy(dest, limitedReader); err != nil {
		return fmt.Errorf("failed to copy file content: %v", err)
	}

	return nil
}

// stagingPath returns a destination path for name inside inputDir that does
// not collide with an already staged file.
func stagingPath(inputDir, name string) string {
	destPath := filepath.Join(inputDir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		if _, err := os.Stat(destPath); os.IsNotExist(err) {
			return destPath
		}
		destPath = filepath.Join(inputDir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

// handleExport re-renders a batch summary in the requested format for
// download. The browser posts back the summary it received from /process.
func (ws *WebServer) handleExport(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "POST" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := request.FormValue("format")
	if format == "" {
		format = "json"
	}

	summaryJSON := request.FormValue("summary")
	if summaryJSON == "" {
		ws.sendError(responseWriter, "No summary data provided")
		return
	}

	var summary extraction.BatchSummary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		ws.sendError(responseWriter, fmt.Sprintf("Invalid summary data: %v", err))
		return
	}

	content, mimeType, filename, err := formatters.ExportForWeb(format, &summary, formatters.FormatterOptions{
		Verbose: true,
		NoColor: true,
	})
	if err != nil {
		ws.sendError(responseWriter, err.Error())
		return
	}

	responseWriter.Header().Set("Content-Type", mimeType)
	responseWriter.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	responseWriter.WriteHeader(http.StatusOK)
	responseWriter.Write([]byte(content))
}

// sendError sends a JSON error response
func (ws *WebServer) sendError(responseWriter http.ResponseWriter, message string) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(http.StatusOK)
	json.NewEncoder(responseWriter).Encode(ProcessResponse{
		Success: false,
		Error:   message,
	})
}

// getEmbeddedTemplate returns the built-in single-page UI
func (ws *WebServer) getEmbeddedTemplate() string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Tablescan</title>
<style>
body { font-family: sans-serif; max-width: 920px; margin: 2em auto; color: #222; }
h1 { font-size: 1.5em; }
table { border-collapse: collapse; width: 100%; margin-top: 1em; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; font-size: 0.9em; }
th { background: #f4f4f4; }
.ok { color: #1a7f37; }
.failed { color: #cf222e; }
#totals { margin-top: 1em; font-size: 0.95em; }
button { margin-right: 0.5em; }
</style>
</head>
<body>
<h1>Tablescan - Batch PDF Table and Text Extraction</h1>
<form id="uploadForm">
  <input type="file" id="files" name="files" accept=".pdf" multiple required>
  <label><input type="checkbox" id="test"> Test mode (first 3 documents)</label>
  <button type="submit">Process</button>
</form>
<div id="totals"></div>
<div id="results"></div>
<div id="export" style="display:none">
  <button onclick="exportSummary('json')">Download JSON</button>
  <button onclick="exportSummary('csv')">Download CSV</button>
  <button onclick="exportSummary('xlsx')">Download XLSX</button>
</div>
<script>
let lastSummary = null;

document.getElementById('uploadForm').addEventListener('submit', async (e) => {
  e.preventDefault();
  const data = new FormData();
  for (const f of document.getElementById('files').files) data.append('files', f);
  data.append('test', document.getElementById('test').checked ? 'true' : 'false');
  document.getElementById('totals').textContent = 'Processing...';
  document.getElementById('results').innerHTML = '';
  document.getElementById('export').style.display = 'none';
  const resp = await fetch('/process', { method: 'POST', body: data });
  const body = await resp.json();
  if (!body.success) {
    document.getElementById('totals').textContent = 'Error: ' + body.error;
    return;
  }
  lastSummary = body.summary;
  render(body.summary);
});

function render(s) {
  document.getElementById('totals').textContent =
    'Processed ' + s.total_files + ' file(s): ' + s.successful_files + ' succeeded, ' +
    s.failed_files + ' failed, ' + s.total_tables_found + ' table(s) found.';
  let html = '<table><tr><th>File</th><th>Status</th><th>Backend</th><th>Tables</th><th>Words</th><th>Time (ms)</th><th>Error</th></tr>';
  for (const r of (s.file_results || [])) {
    const cls = r.success ? 'ok' : 'failed';
    html += '<tr><td>' + esc(r.filename) + '</td><td class="' + cls + '">' +
      (r.success ? 'success' : 'failed') + '</td><td>' + esc(r.backend || '') + '</td><td>' +
      r.tables_found + '</td><td>' + r.word_count + '</td><td>' + r.processing_time_ms +
      '</td><td>' + esc(r.error || '') + '</td></tr>';
  }
  html += '</table>';
  document.getElementById('results').innerHTML = html;
  document.getElementById('export').style.display = 'block';
}

function esc(s) {
  return String(s).replace(/[&<>"]/g, c => ({'&':'&amp;','<':'&lt;','>':'&gt;','"':'&quot;'}[c]));
}

async function exportSummary(format) {
  if (!lastSummary) return;
  const data = new FormData();
  data.append('format', format);
  data.append('summary', JSON.stringify(lastSummary));
  const resp = await fetch('/export', { method: 'POST', body: data });
  const blob = await resp.blob();
  const url = URL.createObjectURL(blob);
  const a = document.createElement('a');
  a.href = url;
  a.download = 'tablescan-summary.' + format;
  a.click();
  URL.revokeObjectURL(url);
}
</script>
</body>
</html>`
}
