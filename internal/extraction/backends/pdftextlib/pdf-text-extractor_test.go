// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdftextlib

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestReconstructRowText(t *testing.T) {
	cases := []struct {
		name     string
		elements []pdf.Text
		want     string
	}{
		{
			"empty row",
			nil,
			"",
		},
		{
			"adjacent glyphs joined",
			[]pdf.Text{
				{S: "Hel", X: 0, W: 30, FontSize: 12},
				{S: "lo", X: 30, W: 20, FontSize: 12},
			},
			"Hello",
		},
		{
			"wide gap inserts space",
			[]pdf.Text{
				{S: "Hello", X: 0, W: 50, FontSize: 12},
				{S: "world", X: 60, W: 50, FontSize: 12},
			},
			"Hello world",
		},
		{
			"out of order sorted by X",
			[]pdf.Text{
				{S: "world", X: 60, W: 50, FontSize: 12},
				{S: "Hello", X: 0, W: 50, FontSize: 12},
			},
			"Hello world",
		},
		{
			"zero font size falls back to 12pt threshold",
			[]pdf.Text{
				{S: "a", X: 0, W: 10, FontSize: 0},
				{S: "b", X: 20, W: 10, FontSize: 0},
			},
			"a b",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reconstructRowText(tc.elements); got != tc.want {
				t.Errorf("reconstructRowText = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGetAverageY(t *testing.T) {
	if got := getAverageY(nil); got != 0 {
		t.Errorf("getAverageY(nil) = %f, want 0", got)
	}

	elements := []pdf.Text{{Y: 10}, {Y: 20}, {Y: 30}}
	if got := getAverageY(elements); got != 20 {
		t.Errorf("getAverageY = %f, want 20", got)
	}
}

func TestCleanTextPreservingStructure(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"collapses spaces", "a   b\tc", "a b c"},
		{"drops blank lines", "line one\n\n\nline two", "line one\nline two"},
		{"trims line edges", "  padded  \n  text  ", "padded\ntext"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanTextPreservingStructure(tc.input); got != tc.want {
				t.Errorf("cleanTextPreservingStructure(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestBackendName(t *testing.T) {
	if New().Name() != BackendName {
		t.Errorf("Name() = %q, want %q", New().Name(), BackendName)
	}
}
