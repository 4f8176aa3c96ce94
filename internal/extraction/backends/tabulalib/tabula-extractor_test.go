// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package tabulalib

import (
	"reflect"
	"testing"

	"github.com/tsawler/tabula/model"
)

func TestConvertRows(t *testing.T) {
	table := &model.Table{
		Rows: [][]model.Cell{
			{{Text: "Item"}, {Text: "Price"}},
			{{Text: "Widget"}, {Text: "9.99"}},
		},
	}

	got := convertRows(table)
	want := [][]string{
		{"Item", "Price"},
		{"Widget", "9.99"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("convertRows = %v, want %v", got, want)
	}
}

func TestConvertRowsAllEmptyDropped(t *testing.T) {
	table := &model.Table{
		Rows: [][]model.Cell{
			{{Text: ""}, {Text: ""}},
			{{Text: ""}, {Text: ""}},
		},
	}

	if got := convertRows(table); got != nil {
		t.Errorf("all-empty table should convert to nil, got %v", got)
	}
}

func TestConvertRowsPreservesEmptyCells(t *testing.T) {
	table := &model.Table{
		Rows: [][]model.Cell{
			{{Text: "a"}, {Text: ""}},
		},
	}

	got := convertRows(table)
	if len(got) != 1 || len(got[0]) != 2 || got[0][1] != "" {
		t.Errorf("empty cells inside a non-empty table must be kept: %v", got)
	}
}

func TestBackendName(t *testing.T) {
	if New().Name() != BackendName {
		t.Errorf("Name() = %q, want %q", New().Name(), BackendName)
	}
}
