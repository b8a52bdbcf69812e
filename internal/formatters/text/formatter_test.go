// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"testing"

	"pii-redactor/internal/detector"
	"pii-redactor/internal/formatters"
	"pii-redactor/internal/patterns"
	"pii-redactor/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Summary(t *testing.T) {
	report := formatters.Report{
		InputFile:       "data.csv",
		OutputFile:      "output/deidentified_data.csv",
		RowsProcessed:   10,
		TotalDetections: 3,
		CountsByType:    map[string]int{"EMAIL": 2, "AADHAAR": 1},
		Detections: []detector.Detection{
			{Type: patterns.Email, Value: "a@b.com", Masked: "a***@b.com", Row: 1, Column: "note"},
		},
		Validation: &formatters.ValidationSummary{
			Counters: validation.Counters{TP: 3, FP: 1, FN: 1},
			Metrics:  validation.Counters{TP: 3, FP: 1, FN: 1}.Metrics(),
		},
	}

	out, err := NewFormatter().Format(report, formatters.FormatterOptions{NoColor: true, Verbose: true})
	require.NoError(t, err)

	assert.Contains(t, out, "Found 3 PII instances")
	assert.Contains(t, out, "Input:          data.csv")
	assert.Contains(t, out, "EMAIL    2")
	assert.Contains(t, out, "Precision: 0.7500")
	assert.Contains(t, out, "a***@b.com")
	assert.NotContains(t, out, "a@b.com")
}

func TestFormat_NoDetections(t *testing.T) {
	out, err := NewFormatter().Format(formatters.Report{InputFile: "x.csv"}, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Contains(t, out, "No PII found.")
	assert.NotContains(t, out, "Validation")
}
