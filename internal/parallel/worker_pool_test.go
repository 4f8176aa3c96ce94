// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"tablescan/internal/extraction"
)

type countingBackend struct{}

func (b *countingBackend) Name() string { return "stub" }

func (b *countingBackend) Extract(ctx context.Context, path string) (*extraction.Extraction, error) {
	return &extraction.Extraction{Text: "text for " + filepath.Base(path)}, nil
}

func newPoolExtractor() *extraction.DocumentExtractor {
	return extraction.NewDocumentExtractor(
		[]extraction.Backend{&countingBackend{}},
		nil,
		extraction.Options{Preflight: func(path string) (int, error) { return 1, nil }},
	)
}

func TestClampWorkers(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero uses default", 0, DefaultWorkers},
		{"negative uses default", -3, DefaultWorkers},
		{"one", 1, 1},
		{"max", MaxWorkers, MaxWorkers},
		{"above max clamps", MaxWorkers + 5, MaxWorkers},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampWorkers(tc.in); got != tc.want {
				t.Errorf("ClampWorkers(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestWorkerPoolSizeClamped(t *testing.T) {
	pool := NewWorkerPool(100, newPoolExtractor(), nil)
	if pool.Workers() != MaxWorkers {
		t.Errorf("Workers() = %d, want %d", pool.Workers(), MaxWorkers)
	}
}

func TestProcessDocumentsReturnsOneRecordPerJob(t *testing.T) {
	outputRoot := t.TempDir()

	var jobs []*Job
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("doc_%02d.pdf", i)
		jobs = append(jobs, &Job{
			JobID:        fmt.Sprintf("job_%d", i),
			DocumentPath: filepath.Join("/tmp", name),
			OutputDir:    filepath.Join(outputRoot, fmt.Sprintf("doc_%02d", i)),
		})
	}

	pool := NewWorkerPool(4, newPoolExtractor(), nil)
	records := pool.ProcessDocuments(jobs, nil)

	if len(records) != len(jobs) {
		t.Fatalf("got %d records for %d jobs", len(records), len(jobs))
	}

	var names []string
	for _, r := range records {
		if !r.Success {
			t.Errorf("document %s failed: %s", r.Filename, r.Error)
		}
		names = append(names, r.Filename)
	}
	sort.Strings(names)
	for i, name := range names {
		want := fmt.Sprintf("doc_%02d.pdf", i)
		if name != want {
			t.Errorf("record %d = %q, want %q (no document lost or duplicated)", i, name, want)
		}
	}
}

func TestProcessDocumentsProgress(t *testing.T) {
	outputRoot := t.TempDir()

	jobs := []*Job{
		{JobID: "j1", DocumentPath: "/tmp/a.pdf", OutputDir: filepath.Join(outputRoot, "a")},
		{JobID: "j2", DocumentPath: "/tmp/b.pdf", OutputDir: filepath.Join(outputRoot, "b")},
		{JobID: "j3", DocumentPath: "/tmp/c.pdf", OutputDir: filepath.Join(outputRoot, "c")},
	}

	// Progress is delivered from the collection loop, so no locking is
	// needed here.
	var completedSeen []int
	pool := NewWorkerPool(2, newPoolExtractor(), nil)
	pool.ProcessDocuments(jobs, func(completed, total int, record extraction.DocumentResult) {
		if total != len(jobs) {
			t.Errorf("total = %d, want %d", total, len(jobs))
		}
		completedSeen = append(completedSeen, completed)
	})

	if len(completedSeen) != len(jobs) {
		t.Fatalf("progress called %d times, want %d", len(completedSeen), len(jobs))
	}
	for i, c := range completedSeen {
		if c != i+1 {
			t.Errorf("completed[%d] = %d, want %d", i, c, i+1)
		}
	}
}

func TestProcessDocumentsEmptyJobList(t *testing.T) {
	pool := NewWorkerPool(2, newPoolExtractor(), nil)
	records := pool.ProcessDocuments(nil, nil)
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
