// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"strings"
	"testing"

	"pii-redactor/internal/detector"
	"pii-redactor/internal/formatters"
	"pii-redactor/internal/patterns"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Rows(t *testing.T) {
	report := formatters.Report{
		Detections: []detector.Detection{
			{Type: patterns.Email, Value: "a@b.com", Masked: "a***@b.com", Row: 3, Column: "contact, primary"},
			{Type: patterns.PANCard, Value: "ABCDE1234F", Masked: "XXXXXXXXXX", Row: 4, Column: "=cmd"},
		},
	}

	out, err := NewFormatter().Format(report, formatters.FormatterOptions{})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Row,Column,Type,Value", lines[0])
	assert.Equal(t, `3,"contact, primary",EMAIL,a***@b.com`, lines[1])
	assert.Equal(t, "4,'=cmd,PAN_CARD,XXXXXXXXXX", lines[2])
}

func TestEscapeCSVField(t *testing.T) {
	f := NewFormatter()
	tests := map[string]string{
		"plain":       "plain",
		`say "hi"`:    `"say ""hi"""`,
		"+91 9876":    "'+91 9876",
		"@SUM(A1)":    "'@SUM(A1)",
		"-1":          "'-1",
		"":            "",
		"line\nbreak": "\"line\nbreak\"",
	}
	for in, want := range tests {
		assert.Equal(t, want, f.escapeCSVField(in), "input %q", in)
	}
}
