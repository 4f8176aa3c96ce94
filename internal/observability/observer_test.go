// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogOperationDebugEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(LevelDebug, &buf)

	obs.LogOperation(OperationData{
		Component: "extractor",
		Operation: "process_document",
		Document:  "doc.pdf",
		Success:   true,
	})

	var record OperationData
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("debug output is not JSON: %v", err)
	}
	if record.Component != "extractor" || !record.Success {
		t.Errorf("record mismatch: %+v", record)
	}
}

func TestLogOperationMetricsIsSilent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(LevelMetrics, &buf)

	obs.LogOperation(OperationData{Component: "extractor", Operation: "op"})
	if buf.Len() != 0 {
		t.Errorf("metrics level should not write records, got %q", buf.String())
	}
}

func TestLogOperationNilObserver(t *testing.T) {
	var obs *StandardObserver
	// Must not panic.
	obs.LogOperation(OperationData{Component: "x"})
}

func TestStartTiming(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(LevelDebug, &buf)

	finish := obs.StartTiming("worker_pool", "process_job", "doc.pdf")
	finish(true, map[string]interface{}{"tables_found": 2})

	var record OperationData
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatal(err)
	}
	if record.Operation != "process_job" || record.Document != "doc.pdf" {
		t.Errorf("record mismatch: %+v", record)
	}
}

func TestDebugObserverSteps(t *testing.T) {
	var buf bytes.Buffer
	dobs := NewDebugObserver(&buf)

	finish := dobs.StartStep("extractor", "open", "doc.pdf")
	dobs.LogDetail("extractor", "3 pages")
	finish(true, "")

	out := buf.String()
	if !strings.Contains(out, "> extractor: open (doc.pdf)") {
		t.Errorf("missing step start marker:\n%s", out)
	}
	if !strings.Contains(out, "3 pages") {
		t.Errorf("missing detail line:\n%s", out)
	}
	if !strings.Contains(out, "< extractor: open completed") {
		t.Errorf("missing step end marker:\n%s", out)
	}
}
