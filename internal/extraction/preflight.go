// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultPreflight validates the document with pdfcpu and returns its page
// count. A document that fails validation is recorded as failed before any
// backend is tried, which keeps corrupt inputs from tying up the engines.
func DefaultPreflight(path string) (int, error) {
	conf := model.NewDefaultConfiguration()

	if err := api.ValidateFile(path, conf); err != nil {
		return 0, fmt.Errorf("pdf validation: %w", err)
	}

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return pageCount, nil
}
