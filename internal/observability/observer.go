// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package observability provides the injected progress/status recorder shared
// by the extractor, the batch orchestrator, and the shells. There is no
// package-level logger; every component receives an observer explicitly.
package observability

import (
	"encoding/json"
	"io"
	"time"
)

// StandardObserver records operation timings and outcomes for all components.
type StandardObserver struct {
	level         Level
	writer        io.Writer
	DebugObserver *DebugObserver // set when running in debug mode
}

// Level controls how much the observer emits.
type Level int

const (
	LevelOff     Level = 0
	LevelMetrics Level = 1
	LevelDebug   Level = 2
)

// NewStandardObserver creates an observer writing to the given writer.
func NewStandardObserver(level Level, writer io.Writer) *StandardObserver {
	return &StandardObserver{
		level:  level,
		writer: writer,
	}
}

// StartTiming returns a completion function that records the elapsed time of
// an operation together with outcome metadata.
func (o *StandardObserver) StartTiming(component, operation, document string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(OperationData{
			Component:  component,
			Operation:  operation,
			Document:   document,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation emits one operation record. Records are only written as JSON
// in debug mode; the metrics level keeps counters without output.
func (o *StandardObserver) LogOperation(data OperationData) {
	if o == nil || o.level == LevelOff {
		return
	}

	if o.level == LevelDebug {
		json.NewEncoder(o.writer).Encode(data)
	}
}

// OperationData is the wire shape of one recorded operation.
type OperationData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	Document   string                 `json:"document,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	TableCount int                    `json:"table_count,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
