// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MetricsLevelIsSilent(t *testing.T) {
	var buf bytes.Buffer
	observer := New(false, &buf)
	assert.Nil(t, observer.DebugObserver)

	observer.StartTiming("core", "process_dataset", "in.csv")(true, nil)
	assert.Empty(t, buf.String())
}

func TestNew_DebugWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	observer := New(true, &buf)
	require.NotNil(t, observer.DebugObserver)

	observer.StartTiming("core", "process_dataset", "in.csv")(true, map[string]interface{}{"records": 3})

	var data StandardObservabilityData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "core", data.Component)
	assert.Equal(t, "process_dataset", data.Operation)
	assert.Equal(t, "in.csv", data.Target)
	assert.True(t, data.Success)
	assert.Equal(t, observer.RunID(), data.RunID)
}

func TestRunID_IsUUID(t *testing.T) {
	observer := NewStandardObserver(ObservabilityMetrics, &bytes.Buffer{})
	_, err := uuid.Parse(observer.RunID())
	assert.NoError(t, err)
	assert.NotEqual(t, observer.RunID(), NewStandardObserver(ObservabilityMetrics, &bytes.Buffer{}).RunID())
}

func TestDebugObserver_Steps(t *testing.T) {
	var buf bytes.Buffer
	debug := NewDebugObserver(&buf)

	finish := debug.StartStep("tabular", "read", "in.csv")
	debug.LogDetail("tabular", "encoding utf-8")
	debug.LogMetric("tabular", "rows", 4)
	finish(false, "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "> tabular: read (in.csv)", lines[0])
	assert.Equal(t, "     - tabular: encoding utf-8", lines[1])
	assert.Equal(t, "     # tabular: rows = 4", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "< tabular: read failed ("))
	assert.True(t, strings.HasSuffix(lines[3], "boom"))
}

func TestNilObserversAreSafe(t *testing.T) {
	var observer *StandardObserver
	var debug *DebugObserver
	assert.NotPanics(t, func() {
		observer.StartTiming("a", "b", "c")(true, nil)
		observer.LogOperation(StandardObservabilityData{})
		debug.StartStep("a", "b", "c")(true, "")
		debug.LogDetail("a", "b")
		debug.LogMetric("a", "b", 1)
	})
	assert.Equal(t, "", observer.RunID())
}
