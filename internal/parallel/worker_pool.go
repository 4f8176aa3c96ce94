// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parallel implements the fixed-size worker pool the batch
// orchestrator fans document jobs out to. Workers share no mutable state:
// each job carries its own output directory and produces exactly one result
// record.
package parallel

import (
	"context"
	"sync"
	"time"

	"tablescan/internal/extraction"
	"tablescan/internal/observability"
)

const (
	// DefaultWorkers is used when the caller does not specify a count.
	DefaultWorkers = 4
	// MaxWorkers caps the pool to avoid resource exhaustion.
	MaxWorkers = 8
)

// ClampWorkers normalizes a requested worker count into [1, MaxWorkers],
// substituting the default for non-positive values.
func ClampWorkers(n int) int {
	if n <= 0 {
		return DefaultWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// Job is one document-processing task.
type Job struct {
	JobID        string
	DocumentPath string
	OutputDir    string
}

// Result pairs a completed job with its result record.
type Result struct {
	JobID    string
	Record   extraction.DocumentResult
	Duration time.Duration
}

// ProgressCallback is invoked as each document completes.
type ProgressCallback func(completed, total int, record extraction.DocumentResult)

// WorkerPool manages parallel document processing.
type WorkerPool struct {
	workers   int
	jobs      chan *Job
	results   chan *Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	extractor *extraction.DocumentExtractor
	observer  *observability.StandardObserver
}

// NewWorkerPool creates a pool of the given (clamped) size around a shared,
// concurrency-safe document extractor.
func NewWorkerPool(workers int, extractor *extraction.DocumentExtractor, observer *observability.StandardObserver) *WorkerPool {
	workers = ClampWorkers(workers)
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workers:   workers,
		jobs:      make(chan *Job, workers*2),
		results:   make(chan *Result, workers*2),
		ctx:       ctx,
		cancel:    cancel,
		extractor: extractor,
		observer:  observer,
	}
}

// Workers returns the effective pool size.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop waits for in-flight jobs and shuts the pool down.
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
}

// Submit queues a job. It blocks when the queue is full and returns early if
// the pool is shutting down.
func (wp *WorkerPool) Submit(job *Job) {
	select {
	case wp.jobs <- job:
	case <-wp.ctx.Done():
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

// worker processes jobs from the queue until it is closed.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		start := time.Now()

		var finishTiming func(bool, map[string]interface{})
		if wp.observer != nil {
			finishTiming = wp.observer.StartTiming("worker_pool", "process_job", job.DocumentPath)
		}

		record := wp.extractor.ProcessDocument(wp.ctx, job.DocumentPath, job.OutputDir)
		duration := time.Since(start)

		if finishTiming != nil {
			finishTiming(record.Success, map[string]interface{}{
				"worker_id":    id,
				"tables_found": record.TableCount,
				"duration_ms":  duration.Milliseconds(),
			})
		}

		select {
		case wp.results <- &Result{JobID: job.JobID, Record: record, Duration: duration}:
		case <-wp.ctx.Done():
			return
		}
	}
}

// ProcessDocuments fans the document list out across the pool and blocks
// until every result record has been collected. Records are returned in
// completion order; callers that need a stable order sort afterwards.
func (wp *WorkerPool) ProcessDocuments(jobs []*Job, progress ProgressCallback) []extraction.DocumentResult {
	wp.Start()
	defer wp.Stop()

	// Submit from a separate goroutine so a small results buffer cannot
	// deadlock submission.
	go func() {
		defer close(wp.jobs)
		for _, job := range jobs {
			wp.Submit(job)
		}
	}()

	records := make([]extraction.DocumentResult, 0, len(jobs))
	for i := 0; i < len(jobs); i++ {
		result := <-wp.results
		records = append(records, result.Record)
		if progress != nil {
			progress(i+1, len(jobs), result.Record)
		}
	}

	return records
}
