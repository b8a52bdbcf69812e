// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"testing"

	"pii-redactor/internal/detector"
	"pii-redactor/internal/formatters"
	"pii-redactor/internal/formatters/shared"
	"pii-redactor/internal/patterns"
	"pii-redactor/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() formatters.Report {
	return formatters.Report{
		RunID:           "run-1",
		InputFile:       "in.csv",
		RowsProcessed:   2,
		TotalDetections: 1,
		CountsByType:    map[string]int{"EMAIL": 1},
		Detections: []detector.Detection{
			{Type: patterns.Email, Value: "a@b.com", Masked: "a***@b.com", Row: 0, Column: "note"},
		},
		Validation: &formatters.ValidationSummary{
			Counters: validation.Counters{TP: 1},
			Metrics:  validation.Counters{TP: 1}.Metrics(),
		},
	}
}

func TestFormat_MasksValuesByDefault(t *testing.T) {
	out, err := NewFormatter().Format(sampleReport(), formatters.FormatterOptions{Verbose: true})
	require.NoError(t, err)

	var decoded shared.JSONReport
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "run-1", decoded.RunID)
	require.Len(t, decoded.Detections, 1)
	assert.Equal(t, "a***@b.com", decoded.Detections[0].Value)
	require.NotNil(t, decoded.Validation)
	assert.Equal(t, 1.0, decoded.Validation.F1Score)
	assert.NotContains(t, out, "a@b.com")
}

func TestFormat_ShowValues(t *testing.T) {
	out, err := NewFormatter().Format(sampleReport(), formatters.FormatterOptions{Verbose: true, ShowValues: true})
	require.NoError(t, err)
	assert.Contains(t, out, "a@b.com")
}

func TestFormat_DetectionsOnlyInVerbose(t *testing.T) {
	report := sampleReport()
	report.Validation = nil

	out, err := NewFormatter().Format(report, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.NotContains(t, out, "\"detections\"")
	assert.NotContains(t, out, "validation")
	assert.Contains(t, out, "\"total_detections\": 1")
}
