// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pii-redactor/internal/validation"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ObserveRecord(3)
	m.ObserveRecord(2)
	m.IncrementDetection("EMAIL")
	m.IncrementDetection("EMAIL")
	m.IncrementDetection("PAN_CARD")
	m.AddValidation(validation.Counters{TP: 1, FP: 2})
	m.AddValidation(validation.Counters{FN: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsProcessed))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.CellsScanned))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Detections.WithLabelValues("EMAIL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Detections.WithLabelValues("PAN_CARD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationOutcomes.WithLabelValues("tp")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationOutcomes.WithLabelValues("fp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationOutcomes.WithLabelValues("fn")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRecord(1)
		m.IncrementDetection("EMAIL")
		m.AddValidation(validation.Counters{TP: 1})
		m.ObserveDatasetDuration(time.Second)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("ignored.prom"))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.IncrementDetection("AADHAAR")
	m.ObserveDatasetDuration(150 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.Contains(content, `pii_redactor_detections_total{type="AADHAAR"} 1`))
	assert.True(t, strings.Contains(content, "pii_redactor_dataset_duration_seconds_count 1"))
}

func TestMetrics_WriteTextfileEmptyPathIsNoop(t *testing.T) {
	assert.NoError(t, New().WriteTextfile(""))
}
