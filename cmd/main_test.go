// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,note,pii_type
1,Contact a@b.com or 9876543210,EMAIL
2,PAN ABCDE1234F on file,PAN_CARD
3,nothing to see,AADHAAR
`

func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("PII_REDACTOR_CONFIG_DIR", filepath.Join(dir, "cfg"))
	require.NoError(t, os.WriteFile("data.csv", []byte(sampleCSV), 0o600))
	return dir
}

func TestRun_DeidentifiesAndReports(t *testing.T) {
	setupWorkspace(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-input", "data.csv", "-format", "json", "-verbose", "-workers", "2"}, &stdout, &stderr, false)
	require.Equal(t, 0, code, stderr.String())

	out, err := os.ReadFile(filepath.Join("output", "deidentified_data.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Contact a***@b.com or 98******10")
	assert.Contains(t, string(out), "PAN XXXXXXXXXX on file")
	assert.Contains(t, string(out), ",PAN_CARD", "label column carried through")

	raw, err := os.ReadFile(filepath.Join("output", "report_data.json"))
	require.NoError(t, err)
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, 3.0, report["total_detections"])
	validation, ok := report["validation"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 2.0, validation["true_positives"])
	assert.Equal(t, 1.0, validation["false_positives"])
	assert.Equal(t, 1.0, validation["false_negatives"])
	assert.NotContains(t, string(raw), "a@b.com")

	assert.Contains(t, stdout.String(), "Found 3 PII instances")
	assert.Contains(t, stdout.String(), "Precision: 0.6667")
}

func TestRun_ConfigProfileAndFlagOverride(t *testing.T) {
	setupWorkspace(t)
	cfg := `
defaults:
  output_dir: masked
profiles:
  contact:
    checks: EMAIL
    format: yaml
`
	require.NoError(t, os.WriteFile("pii-redactor.yaml", []byte(cfg), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-input", "data.csv", "-profile", "contact", "-format", "csv", "-quiet"}, &stdout, &stderr, false)
	require.Equal(t, 0, code, stderr.String())

	out, err := os.ReadFile(filepath.Join("masked", "deidentified_data.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "a***@b.com or 9876543210", "only EMAIL is checked")

	_, err = os.Stat(filepath.Join("masked", "report_data.csv"))
	assert.NoError(t, err, "command line format wins over the profile")
	assert.Empty(t, stdout.String())
}

func TestRun_RejectsInputOutsideWorkingDirectory(t *testing.T) {
	setupWorkspace(t)
	outside := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(outside, []byte(sampleCSV), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-input", outside}, &stdout, &stderr, false)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "outside the allowed directory")

	stderr.Reset()
	code = run([]string{"-input", outside, "-allow-outside-cwd", "-quiet"}, &stdout, &stderr, false)
	assert.Equal(t, 0, code, stderr.String())
}

func TestRun_Errors(t *testing.T) {
	setupWorkspace(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing input flag", nil, "-input is required"},
		{"missing file", []string{"-input", "nope.csv"}, "input file"},
		{"bad format", []string{"-input", "data.csv", "-format", "xml"}, "unsupported format"},
		{"bad replace mode", []string{"-input", "data.csv", "-replace-mode", "regex"}, "replace mode"},
		{"unknown checks", []string{"-input", "data.csv", "-checks", "SSN"}, "no known PII types"},
		{"unknown profile", []string{"-input", "data.csv", "-profile", "nope"}, "profile \"nope\" not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr, false)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestRun_ListChecksAndVersion(t *testing.T) {
	setupWorkspace(t)
	var stdout, stderr bytes.Buffer

	require.Equal(t, 0, run([]string{"-list-checks"}, &stdout, &stderr, false))
	assert.Contains(t, stdout.String(), "DRIVING_LICENSE")

	stdout.Reset()
	require.Equal(t, 0, run([]string{"-version"}, &stdout, &stderr, false))
	assert.True(t, strings.HasPrefix(stdout.String(), "pii-redactor "))
}

func TestRun_MetricsFile(t *testing.T) {
	setupWorkspace(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-input", "data.csv", "-metrics-file", "metrics.prom", "-quiet"}, &stdout, &stderr, false)
	require.Equal(t, 0, code, stderr.String())

	raw, err := os.ReadFile("metrics.prom")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "pii_redactor_records_processed_total 3")
}

func TestRun_TraceFile(t *testing.T) {
	setupWorkspace(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-input", "data.csv", "-trace-file", "run.trace", "-workers", "1", "-quiet"}, &stdout, &stderr, false)
	require.Equal(t, 0, code, stderr.String())

	raw, err := os.ReadFile("run.trace")
	require.NoError(t, err)

	names := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		var span struct{ Name string }
		require.NoError(t, json.Unmarshal([]byte(line), &span))
		names[span.Name] = true
	}
	assert.True(t, names["deidentify"])
	assert.True(t, names["core.process_dataset"])
	assert.True(t, names["core.process_range"])
}

func TestRun_OverlongRowIsRejected(t *testing.T) {
	setupWorkspace(t)
	require.NoError(t, os.WriteFile("wide.csv", []byte("name,note\nbob,call 9876543210,contact bob@x.com\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-input", "wide.csv", "-quiet"}, &stdout, &stderr, false)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "has 3 fields, header has 2")
	assert.NoFileExists(t, filepath.Join("output", "deidentified_wide.csv"))
}
